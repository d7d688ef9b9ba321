package recipe

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned when a referenced recipe does not exist.
	ErrNotFound = errors.New("recipe not found")
	// ErrAlreadyMember is returned when a recipe is already in the user's set.
	ErrAlreadyMember = errors.New("recipe is already in the list")
	// ErrNotAMember is returned when removing a recipe that is not in the user's set.
	ErrNotAMember = errors.New("recipe is not in the list")
	// ErrInvalidReference is returned when a row refers to something that does not exist.
	ErrInvalidReference = errors.New("invalid reference")
	// ErrUnknownIngredient is returned when a recipe lists an ingredient missing from the catalog.
	ErrUnknownIngredient = fmt.Errorf("%w: unknown ingredient", ErrInvalidReference)
	// ErrUnknownTag is returned when a recipe lists a tag that does not exist.
	ErrUnknownTag = fmt.Errorf("%w: unknown tag", ErrInvalidReference)
	// ErrOutOfRange is returned when a number does not fit its column.
	ErrOutOfRange = errors.New("value out of range")
	// ErrDuplicate is returned when a catalog entry violates a uniqueness rule.
	ErrDuplicate = errors.New("entry already exists")
)

// Ingredient is a catalog entry with its measurement unit.
type Ingredient struct {
	ID              int64  `json:"id" db:"id"`
	Name            string `json:"name" db:"name"`
	MeasurementUnit string `json:"measurement_unit" db:"measurement_unit"`
}

// Tag labels recipes; Slug is what the recipe filter matches on.
type Tag struct {
	ID    int64  `json:"id" db:"id"`
	Name  string `json:"name" db:"name"`
	Color string `json:"color" db:"color"`
	Slug  string `json:"slug" db:"slug"`
}

// Author is the public view of the user who wrote a recipe.
type Author struct {
	ID        int64  `json:"id" db:"id"`
	Email     string `json:"email" db:"email"`
	Username  string `json:"username" db:"username"`
	FirstName string `json:"first_name" db:"first_name"`
	LastName  string `json:"last_name" db:"last_name"`
}

// RecipeIngredient is an ingredient together with the amount a recipe needs.
type RecipeIngredient struct {
	ID              int64  `json:"id" db:"id"`
	Name            string `json:"name" db:"name"`
	MeasurementUnit string `json:"measurement_unit" db:"measurement_unit"`
	Amount          int    `json:"amount" db:"amount"`
}

// Recipe is the full read representation. IsFavorited and IsInShoppingCart
// are relative to the user the recipe was loaded for.
type Recipe struct {
	ID               int64              `json:"id" db:"id"`
	Tags             []Tag              `json:"tags" db:"-"`
	Author           Author             `json:"author" db:"author"`
	Ingredients      []RecipeIngredient `json:"ingredients" db:"-"`
	IsFavorited      bool               `json:"is_favorited" db:"is_favorited"`
	IsInShoppingCart bool               `json:"is_in_shopping_cart" db:"is_in_shopping_cart"`
	FavoritesCount   int                `json:"favorites_count" db:"favorites_count"`
	Name             string             `json:"name" db:"name"`
	Image            string             `json:"image" db:"image"`
	Text             string             `json:"text" db:"text"`
	CookingTime      int                `json:"cooking_time" db:"cooking_time"`
	CreatedAt        time.Time          `json:"-" db:"created_at"`
}

// Summary is the short form returned after adding a recipe to a set.
type Summary struct {
	ID          int64  `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Image       string `json:"image" db:"image"`
	CookingTime int    `json:"cooking_time" db:"cooking_time"`
}

// IngredientAmount is one ingredient line of a recipe being written.
type IngredientAmount struct {
	IngredientID int64
	Amount       int
}

// Input carries everything needed to create or fully replace a recipe.
type Input struct {
	Name        string
	Text        string
	CookingTime int
	Image       string
	TagIDs      []int64
	Ingredients []IngredientAmount
}

// CartIngredient is a single ingredient row reached through a user's shopping cart.
type CartIngredient struct {
	Name            string `db:"name"`
	MeasurementUnit string `db:"measurement_unit"`
	Amount          int    `db:"amount"`
}

// Set names one of the per-user recipe membership lists.
type Set int

const (
	Favorites Set = iota
	ShoppingCart
)

func (s Set) table() string {
	if s == ShoppingCart {
		return "shopping_cart"
	}
	return "favorites"
}

func (s Set) String() string {
	if s == ShoppingCart {
		return "shopping cart"
	}
	return "favorites"
}
