package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"foodgram/internal/logger"
	"foodgram/internal/recipe"
)

func (h *Handler) AddFavorite(c *gin.Context) { h.addMember(c, recipe.Favorites) }
func (h *Handler) RemoveFavorite(c *gin.Context) { h.removeMember(c, recipe.Favorites) }
func (h *Handler) AddToCart(c *gin.Context) { h.addMember(c, recipe.ShoppingCart) }
func (h *Handler) RemoveFromCart(c *gin.Context) { h.removeMember(c, recipe.ShoppingCart) }

func (h *Handler) addMember(c *gin.Context, set recipe.Set) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	u := currentUser(c)

	ctx, cancel := dbContext(c)
	defer cancel()

	summary, err := h.RecipeStore.AddMember(ctx, set, u.ID, id)
	if err != nil {
		switch {
		case errors.Is(err, recipe.ErrAlreadyMember):
			badRequest(c, fmt.Sprintf("recipe is already in %s", set))
		case errors.Is(err, recipe.ErrNotFound):
			notFound(c)
		default:
			storeError(c, err)
		}
		return
	}
	logger.Debug("recipe added", zap.Stringer("set", set), zap.Int64("user_id", u.ID), zap.Int64("recipe_id", id))
	c.JSON(http.StatusCreated, summary)
}

func (h *Handler) removeMember(c *gin.Context, set recipe.Set) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	u := currentUser(c)

	ctx, cancel := dbContext(c)
	defer cancel()

	if err := h.RecipeStore.RemoveMember(ctx, set, u.ID, id); err != nil {
		if errors.Is(err, recipe.ErrNotAMember) {
			badRequest(c, fmt.Sprintf("recipe is not in %s", set))
			return
		}
		storeError(c, err)
		return
	}
	logger.Debug("recipe removed", zap.Stringer("set", set), zap.Int64("user_id", u.ID), zap.Int64("recipe_id", id))
	c.Status(http.StatusNoContent)
}
