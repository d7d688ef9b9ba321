package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"foodgram/internal/recipe"
	"foodgram/internal/user"
)

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// adminOrReadOnly lets anyone read and only staff write.
func adminOrReadOnly(method string, u *user.User) bool {
	return isSafeMethod(method) || (u != nil && u.IsStaff)
}

// authorOrReadOnly lets anyone read a recipe and only its author or staff change it.
func authorOrReadOnly(method string, u *user.User, r *recipe.Recipe) bool {
	if isSafeMethod(method) {
		return true
	}
	return u != nil && (u.ID == r.Author.ID || u.IsStaff)
}

// AdminOrReadOnly guards catalog endpoints.
func AdminOrReadOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := currentUser(c)
		if adminOrReadOnly(c.Request.Method, u) {
			c.Next()
			return
		}
		if u == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Authentication credentials were not provided."})
			return
		}
		forbidden(c)
		c.Abort()
	}
}

func forbidden(c *gin.Context) {
	c.JSON(http.StatusForbidden, gin.H{"detail": "You do not have permission to perform this action."})
}
