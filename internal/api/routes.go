package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter registers every endpoint on a new gin engine.
func NewRouter(h *Handler, allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Recovery(), RequestLogger())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(h.Authenticate())

	api := r.Group("/api")

	api.POST("/auth/token/login/", h.Login)
	api.POST("/users/", h.Signup)
	api.GET("/users/me/", RequireUser(), h.Me)

	catalog := api.Group("", AdminOrReadOnly())
	catalog.GET("/ingredients/", h.ListIngredients)
	catalog.POST("/ingredients/", h.CreateIngredient)
	catalog.GET("/ingredients/:id/", h.GetIngredient)
	catalog.GET("/tags/", h.ListTags)
	catalog.POST("/tags/", h.CreateTag)
	catalog.GET("/tags/:id/", h.GetTag)

	recipes := api.Group("/recipes")
	recipes.GET("/", h.ListRecipes)
	recipes.GET("/:id/", h.GetRecipe)
	recipes.GET("/download_shopping_cart/", RequireUser(), h.DownloadShoppingCart)

	authed := recipes.Group("", RequireUser())
	authed.POST("/", h.CreateRecipe)
	authed.PATCH("/:id/", h.UpdateRecipe)
	authed.DELETE("/:id/", h.DeleteRecipe)
	authed.POST("/:id/favorite/", h.AddFavorite)
	authed.DELETE("/:id/favorite/", h.RemoveFavorite)
	authed.POST("/:id/shopping_cart/", h.AddToCart)
	authed.DELETE("/:id/shopping_cart/", h.RemoveFromCart)

	return r
}
