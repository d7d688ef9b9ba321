package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"foodgram/internal/logger"
	"foodgram/internal/platform/imagestore"
	"foodgram/internal/recipe"
)

func queryFlag(c *gin.Context, key string) bool {
	switch c.Query(key) {
	case "1", "true", "True":
		return true
	}
	return false
}

// ListRecipes returns a page of recipes matching ?tags=, ?author=,
// ?is_favorited= and ?is_in_shopping_cart=.
func (h *Handler) ListRecipes(c *gin.Context) {
	p, ok := parsePagination(c, h.Settings.PageSize, h.Settings.MaxPageSize)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Invalid page."})
		return
	}

	filter := recipe.RecipeFilter{
		Tags:           c.QueryArray("tags"),
		Favorited:      queryFlag(c, "is_favorited"),
		InShoppingCart: queryFlag(c, "is_in_shopping_cart"),
		ViewerID:       viewerID(c),
		Limit:          p.limit,
		Offset:         p.offset(),
	}
	if v := c.Query("author"); v != "" {
		author, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			validationFailed(c, invalid("author", "must be a user id"))
			return
		}
		filter.AuthorID = author
	}

	ctx, cancel := dbContext(c)
	defer cancel()

	recipes, count, err := h.RecipeStore.ListRecipes(ctx, filter)
	if err != nil {
		storeError(c, err)
		return
	}
	if !p.valid(count) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Invalid page."})
		return
	}
	c.JSON(http.StatusOK, p.envelope(c, count, recipes))
}

// GetRecipe returns one recipe as seen by the requesting user.
func (h *Handler) GetRecipe(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	ctx, cancel := dbContext(c)
	defer cancel()

	r, err := h.RecipeStore.GetRecipe(ctx, id, viewerID(c))
	if err != nil {
		storeError(c, err)
		return
	}
	if r == nil {
		notFound(c)
		return
	}
	c.JSON(http.StatusOK, r)
}

// CreateRecipe stores a new recipe authored by the requesting user.
func (h *Handler) CreateRecipe(c *gin.Context) {
	var req recipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	in, err := req.toInput(nil)
	if err != nil {
		validationFailed(c, err)
		return
	}

	ctx, cancel := dbContext(c)
	defer cancel()

	// Unknown tags or ingredients are rejected before anything is written.
	if err := h.RecipeStore.CheckReferences(ctx, in); err != nil {
		h.writeError(c, err)
		return
	}
	if in.Image, err = h.saveImage(ctx, *req.Image); err != nil {
		h.imageError(c, err)
		return
	}

	author := currentUser(c)
	id, err := h.RecipeStore.CreateRecipe(ctx, author.ID, in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	logger.Info("recipe created", zap.Int64("recipe_id", id), zap.Int64("author_id", author.ID))

	r, err := h.RecipeStore.GetRecipe(ctx, id, author.ID)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

// UpdateRecipe applies a partial update. Tags and ingredients, when given,
// replace the current ones.
func (h *Handler) UpdateRecipe(c *gin.Context) {
	existing, ok := h.loadForWrite(c)
	if !ok {
		return
	}

	var req recipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	in, err := req.toInput(existing)
	if err != nil {
		validationFailed(c, err)
		return
	}

	ctx, cancel := dbContext(c)
	defer cancel()

	if err := h.RecipeStore.CheckReferences(ctx, in); err != nil {
		h.writeError(c, err)
		return
	}
	if req.Image != nil {
		if in.Image, err = h.saveImage(ctx, *req.Image); err != nil {
			h.imageError(c, err)
			return
		}
	}

	if err := h.RecipeStore.UpdateRecipe(ctx, existing.ID, in); err != nil {
		h.writeError(c, err)
		return
	}

	r, err := h.RecipeStore.GetRecipe(ctx, existing.ID, viewerID(c))
	if err != nil {
		storeError(c, err)
		return
	}
	if r == nil {
		notFound(c)
		return
	}
	c.JSON(http.StatusOK, r)
}

// DeleteRecipe removes a recipe.
func (h *Handler) DeleteRecipe(c *gin.Context) {
	existing, ok := h.loadForWrite(c)
	if !ok {
		return
	}

	ctx, cancel := dbContext(c)
	defer cancel()

	if err := h.RecipeStore.DeleteRecipe(ctx, existing.ID); err != nil {
		if errors.Is(err, recipe.ErrNotFound) {
			notFound(c)
			return
		}
		storeError(c, err)
		return
	}
	logger.Info("recipe deleted", zap.Int64("recipe_id", existing.ID), zap.Int64("user_id", viewerID(c)))
	c.Status(http.StatusNoContent)
}

// loadForWrite fetches the recipe named by :id and checks the caller may change it.
func (h *Handler) loadForWrite(c *gin.Context) (*recipe.Recipe, bool) {
	id, ok := idParam(c)
	if !ok {
		return nil, false
	}

	ctx, cancel := dbContext(c)
	defer cancel()

	r, err := h.RecipeStore.GetRecipe(ctx, id, viewerID(c))
	if err != nil {
		storeError(c, err)
		return nil, false
	}
	if r == nil {
		notFound(c)
		return nil, false
	}
	if !authorOrReadOnly(c.Request.Method, currentUser(c), r) {
		forbidden(c)
		return nil, false
	}
	return r, true
}

func (h *Handler) saveImage(ctx context.Context, dataURL string) (string, error) {
	data, ext, err := imagestore.DecodeDataURL(dataURL)
	if err != nil {
		return "", err
	}
	prepared, err := imagestore.Prepare(data, ext)
	if err != nil {
		return "", err
	}
	return h.ImageStore.Save(ctx, prepared, ext)
}

func (h *Handler) imageError(c *gin.Context, err error) {
	if errors.Is(err, imagestore.ErrInvalidImage) {
		validationFailed(c, invalid("image", err.Error()))
		return
	}
	logger.Error("failed to store image", zap.Error(err))
	c.String(http.StatusInternalServerError, "failed to save image: "+err.Error())
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, recipe.ErrUnknownTag):
		validationFailed(c, invalid("tags", "%s", err.Error()))
	case errors.Is(err, recipe.ErrUnknownIngredient):
		validationFailed(c, invalid("ingredients", "%s", err.Error()))
	case errors.Is(err, recipe.ErrInvalidReference), errors.Is(err, recipe.ErrOutOfRange):
		badRequest(c, err.Error())
	case errors.Is(err, recipe.ErrNotFound):
		notFound(c)
	default:
		storeError(c, err)
	}
}
