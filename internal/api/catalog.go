package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"foodgram/internal/recipe"
)

// ListIngredients returns the ingredient catalog, optionally filtered by ?name= prefix.
func (h *Handler) ListIngredients(c *gin.Context) {
	ctx, cancel := dbContext(c)
	defer cancel()

	ingredients, err := h.RecipeStore.ListIngredients(ctx, recipe.IngredientFilter{Name: c.Query("name")})
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ingredients)
}

// GetIngredient returns one catalog ingredient.
func (h *Handler) GetIngredient(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	ctx, cancel := dbContext(c)
	defer cancel()

	ingredient, err := h.RecipeStore.GetIngredient(ctx, id)
	if err != nil {
		storeError(c, err)
		return
	}
	if ingredient == nil {
		notFound(c)
		return
	}
	c.JSON(http.StatusOK, ingredient)
}

// CreateIngredient adds a catalog ingredient. Staff only.
func (h *Handler) CreateIngredient(c *gin.Context) {
	var req ingredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	ctx, cancel := dbContext(c)
	defer cancel()

	ingredient := &recipe.Ingredient{Name: req.Name, MeasurementUnit: req.MeasurementUnit}
	if err := h.RecipeStore.CreateIngredient(ctx, ingredient); err != nil {
		if errors.Is(err, recipe.ErrDuplicate) {
			badRequest(c, "ingredient with this name and measurement unit already exists")
			return
		}
		storeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ingredient)
}

// ListTags returns every tag.
func (h *Handler) ListTags(c *gin.Context) {
	ctx, cancel := dbContext(c)
	defer cancel()

	tags, err := h.RecipeStore.ListTags(ctx)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tags)
}

// GetTag returns one tag.
func (h *Handler) GetTag(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	ctx, cancel := dbContext(c)
	defer cancel()

	tag, err := h.RecipeStore.GetTag(ctx, id)
	if err != nil {
		storeError(c, err)
		return
	}
	if tag == nil {
		notFound(c)
		return
	}
	c.JSON(http.StatusOK, tag)
}

// CreateTag adds a tag. Staff only.
func (h *Handler) CreateTag(c *gin.Context) {
	var req tagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := req.validate(); err != nil {
		validationFailed(c, err)
		return
	}

	ctx, cancel := dbContext(c)
	defer cancel()

	tag := &recipe.Tag{Name: req.Name, Color: req.Color, Slug: req.Slug}
	if err := h.RecipeStore.CreateTag(ctx, tag); err != nil {
		if errors.Is(err, recipe.ErrDuplicate) {
			badRequest(c, "tag with this name or slug already exists")
			return
		}
		storeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tag)
}

func validationFailed(c *gin.Context, err error) {
	var ve *validationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, gin.H{ve.Field: []string{ve.Message}})
		return
	}
	badRequest(c, err.Error())
}
