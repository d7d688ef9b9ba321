package api

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"foodgram/internal/recipe"
)

// validationError is a client mistake tied to one request field.
type validationError struct {
	Field   string
	Message string
}

func (e *validationError) Error() string {
	return e.Field + ": " + e.Message
}

func invalid(field, format string, args ...interface{}) error {
	return &validationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

type ingredientAmountRequest struct {
	ID     int64 `json:"id"`
	Amount int   `json:"amount"`
}

// recipeRequest is the write representation of a recipe. Pointer and slice
// fields left nil keep their current value on PATCH.
type recipeRequest struct {
	Ingredients []ingredientAmountRequest `json:"ingredients"`
	Tags        []int64                   `json:"tags"`
	Image       *string                   `json:"image"`
	Name        *string                   `json:"name"`
	Text        *string                   `json:"text"`
	CookingTime *int                      `json:"cooking_time"`
}

const (
	maxRecipeName = 200
	// Both are stored in INTEGER columns.
	maxCookingTime = math.MaxInt32
	maxAmount      = math.MaxInt32
)

// toInput validates the request and merges it over existing, which is nil on create.
// The image is resolved separately because it has to be stored first.
func (r *recipeRequest) toInput(existing *recipe.Recipe) (*recipe.Input, error) {
	in := &recipe.Input{}
	if existing != nil {
		in.Name = existing.Name
		in.Text = existing.Text
		in.CookingTime = existing.CookingTime
		in.Image = existing.Image
		for _, t := range existing.Tags {
			in.TagIDs = append(in.TagIDs, t.ID)
		}
		for _, i := range existing.Ingredients {
			in.Ingredients = append(in.Ingredients, recipe.IngredientAmount{IngredientID: i.ID, Amount: i.Amount})
		}
	} else {
		switch {
		case r.Name == nil:
			return nil, invalid("name", "this field is required")
		case r.Text == nil:
			return nil, invalid("text", "this field is required")
		case r.CookingTime == nil:
			return nil, invalid("cooking_time", "this field is required")
		case r.Image == nil:
			return nil, invalid("image", "this field is required")
		case r.Ingredients == nil:
			return nil, invalid("ingredients", "this field is required")
		case r.Tags == nil:
			return nil, invalid("tags", "this field is required")
		}
	}

	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		if name == "" {
			return nil, invalid("name", "may not be blank")
		}
		if len([]rune(name)) > maxRecipeName {
			return nil, invalid("name", "must be at most %d characters", maxRecipeName)
		}
		in.Name = name
	}
	if r.Text != nil {
		if strings.TrimSpace(*r.Text) == "" {
			return nil, invalid("text", "may not be blank")
		}
		in.Text = *r.Text
	}
	if r.CookingTime != nil {
		if *r.CookingTime < 1 {
			return nil, invalid("cooking_time", "must be at least 1 minute")
		}
		if *r.CookingTime > maxCookingTime {
			return nil, invalid("cooking_time", "must be at most %d minutes", maxCookingTime)
		}
		in.CookingTime = *r.CookingTime
	}

	if r.Ingredients != nil {
		if len(r.Ingredients) == 0 {
			return nil, invalid("ingredients", "at least one ingredient is required")
		}
		seen := make(map[int64]bool, len(r.Ingredients))
		in.Ingredients = make([]recipe.IngredientAmount, 0, len(r.Ingredients))
		for _, i := range r.Ingredients {
			if seen[i.ID] {
				return nil, invalid("ingredients", "ingredient %d is listed more than once", i.ID)
			}
			seen[i.ID] = true
			if i.Amount < 1 {
				return nil, invalid("ingredients", "amount of ingredient %d must be at least 1", i.ID)
			}
			if i.Amount > maxAmount {
				return nil, invalid("ingredients", "amount of ingredient %d must be at most %d", i.ID, maxAmount)
			}
			in.Ingredients = append(in.Ingredients, recipe.IngredientAmount{IngredientID: i.ID, Amount: i.Amount})
		}
	}

	if r.Tags != nil {
		if len(r.Tags) == 0 {
			return nil, invalid("tags", "at least one tag is required")
		}
		seen := make(map[int64]bool, len(r.Tags))
		for _, id := range r.Tags {
			if seen[id] {
				return nil, invalid("tags", "tag %d is listed more than once", id)
			}
			seen[id] = true
		}
		in.TagIDs = r.Tags
	}
	return in, nil
}

type ingredientRequest struct {
	Name            string `json:"name" binding:"required,max=200"`
	MeasurementUnit string `json:"measurement_unit" binding:"required,max=200"`
}

type tagRequest struct {
	Name  string `json:"name" binding:"required,max=200"`
	Color string `json:"color" binding:"required,hexcolor"`
	Slug  string `json:"slug" binding:"required,max=200"`
}

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

func (r *tagRequest) validate() error {
	if !slugPattern.MatchString(r.Slug) {
		return invalid("slug", "may contain only letters, digits, hyphens and underscores")
	}
	return nil
}
