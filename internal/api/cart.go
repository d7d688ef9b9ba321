package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"foodgram/internal/shopping"
)

// DownloadShoppingCart returns the user's aggregated shopping list as a text attachment.
func (h *Handler) DownloadShoppingCart(c *gin.Context) {
	u := currentUser(c)

	ctx, cancel := dbContext(c)
	defer cancel()

	items, err := shopping.Build(ctx, h.RecipeStore, u.ID)
	if err != nil {
		if errors.Is(err, shopping.ErrEmptyCart) {
			badRequest(c, err.Error())
			return
		}
		storeError(c, err)
		return
	}

	doc := shopping.Render(u.FullName(), items, h.now(), h.Settings.BrandName)
	c.Header("Content-Disposition", "attachment; filename="+shopping.Filename(u.Username))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(doc))
}
