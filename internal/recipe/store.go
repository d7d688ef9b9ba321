package recipe

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Store defines the interface for recipe data operations.
type Store interface {
	ListIngredients(ctx context.Context, filter IngredientFilter) ([]Ingredient, error)
	GetIngredient(ctx context.Context, id int64) (*Ingredient, error)
	CreateIngredient(ctx context.Context, ingredient *Ingredient) error
	ListTags(ctx context.Context) ([]Tag, error)
	GetTag(ctx context.Context, id int64) (*Tag, error)
	CreateTag(ctx context.Context, tag *Tag) error
	ListRecipes(ctx context.Context, filter RecipeFilter) ([]*Recipe, int, error)
	GetRecipe(ctx context.Context, id, viewerID int64) (*Recipe, error)
	CheckReferences(ctx context.Context, in *Input) error
	CreateRecipe(ctx context.Context, authorID int64, in *Input) (int64, error)
	UpdateRecipe(ctx context.Context, id int64, in *Input) error
	DeleteRecipe(ctx context.Context, id int64) error
	AddMember(ctx context.Context, set Set, userID, recipeID int64) (*Summary, error)
	RemoveMember(ctx context.Context, set Set, userID, recipeID int64) error
	CartSize(ctx context.Context, userID int64) (int, error)
	CartIngredients(ctx context.Context, userID int64) ([]CartIngredient, error)
}

// PostgresStore implements the Store interface for PostgreSQL.
type PostgresStore struct {
	db *sqlx.DB
}

// schema depends on the users table owned by the user package.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS ingredients (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		measurement_unit TEXT NOT NULL,
		UNIQUE (name, measurement_unit)
	)`,
	`CREATE TABLE IF NOT EXISTS tags (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		color TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS recipes (
		id BIGSERIAL PRIMARY KEY,
		author_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		text TEXT NOT NULL,
		cooking_time INTEGER NOT NULL CHECK (cooking_time >= 1),
		image TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS ingredient_in_recipe (
		id BIGSERIAL PRIMARY KEY,
		recipe_id BIGINT NOT NULL REFERENCES recipes(id) ON DELETE CASCADE,
		ingredient_id BIGINT NOT NULL REFERENCES ingredients(id) ON DELETE CASCADE,
		amount INTEGER NOT NULL CHECK (amount > 0),
		UNIQUE (recipe_id, ingredient_id)
	)`,
	`CREATE TABLE IF NOT EXISTS tag_in_recipe (
		id BIGSERIAL PRIMARY KEY,
		recipe_id BIGINT NOT NULL REFERENCES recipes(id) ON DELETE CASCADE,
		tag_id BIGINT NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
		UNIQUE (recipe_id, tag_id)
	)`,
	`CREATE TABLE IF NOT EXISTS favorites (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		recipe_id BIGINT NOT NULL REFERENCES recipes(id) ON DELETE CASCADE,
		UNIQUE (user_id, recipe_id)
	)`,
	`CREATE TABLE IF NOT EXISTS shopping_cart (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		recipe_id BIGINT NOT NULL REFERENCES recipes(id) ON DELETE CASCADE,
		UNIQUE (user_id, recipe_id)
	)`,
}

// NewPostgresStore creates a new PostgresStore and makes sure its tables exist.
func NewPostgresStore(db *sqlx.DB) (*PostgresStore, error) {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("failed to create recipe schema: %w", err)
		}
	}
	return &PostgresStore{db: db}, nil
}

// ListIngredients returns catalog ingredients ordered by name.
func (s *PostgresStore) ListIngredients(ctx context.Context, filter IngredientFilter) ([]Ingredient, error) {
	var q query
	filter.apply(&q)

	ingredients := []Ingredient{}
	err := s.db.SelectContext(ctx, &ingredients,
		"SELECT id, name, measurement_unit FROM ingredients"+q.where()+" ORDER BY name, id", q.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	return ingredients, nil
}

// GetIngredient returns nil without an error when the ingredient does not exist.
func (s *PostgresStore) GetIngredient(ctx context.Context, id int64) (*Ingredient, error) {
	var i Ingredient
	err := s.db.GetContext(ctx, &i, "SELECT id, name, measurement_unit FROM ingredients WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get ingredient: %w", err)
	}
	return &i, nil
}

// CreateIngredient inserts an ingredient and fills in its ID.
func (s *PostgresStore) CreateIngredient(ctx context.Context, ingredient *Ingredient) error {
	err := s.db.QueryRowxContext(ctx,
		"INSERT INTO ingredients (name, measurement_unit) VALUES ($1, $2) RETURNING id",
		ingredient.Name, ingredient.MeasurementUnit,
	).Scan(&ingredient.ID)
	if err != nil {
		return fmt.Errorf("failed to create ingredient: %w", classify(err))
	}
	return nil
}

// ListTags returns every tag ordered by ID.
func (s *PostgresStore) ListTags(ctx context.Context) ([]Tag, error) {
	tags := []Tag{}
	if err := s.db.SelectContext(ctx, &tags, "SELECT id, name, color, slug FROM tags ORDER BY id"); err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

// GetTag returns nil without an error when the tag does not exist.
func (s *PostgresStore) GetTag(ctx context.Context, id int64) (*Tag, error) {
	var t Tag
	err := s.db.GetContext(ctx, &t, "SELECT id, name, color, slug FROM tags WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get tag: %w", err)
	}
	return &t, nil
}

// CreateTag inserts a tag and fills in its ID.
func (s *PostgresStore) CreateTag(ctx context.Context, tag *Tag) error {
	err := s.db.QueryRowxContext(ctx,
		"INSERT INTO tags (name, color, slug) VALUES ($1, $2, $3) RETURNING id",
		tag.Name, tag.Color, tag.Slug,
	).Scan(&tag.ID)
	if err != nil {
		return fmt.Errorf("failed to create tag: %w", classify(err))
	}
	return nil
}

const recipeColumns = `
	r.id, r.name, r.text, r.cooking_time, r.image, r.created_at,
	u.id AS "author.id", u.email AS "author.email", u.username AS "author.username",
	u.first_name AS "author.first_name", u.last_name AS "author.last_name",
	EXISTS (SELECT 1 FROM favorites f WHERE f.recipe_id = r.id AND f.user_id = $1) AS is_favorited,
	EXISTS (SELECT 1 FROM shopping_cart c WHERE c.recipe_id = r.id AND c.user_id = $1) AS is_in_shopping_cart,
	(SELECT COUNT(*) FROM favorites f WHERE f.recipe_id = r.id) AS favorites_count`

// ListRecipes returns one page of recipes, newest first, and the total number
// of recipes matching the filter.
func (s *PostgresStore) ListRecipes(ctx context.Context, filter RecipeFilter) ([]*Recipe, int, error) {
	var cq query
	filter.apply(&cq)

	var total int
	if err := s.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM recipes r"+cq.where(), cq.args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count recipes: %w", err)
	}

	var q query
	q.arg(filter.ViewerID) // $1 is the viewer in recipeColumns
	filter.apply(&q)

	stmt := "SELECT " + recipeColumns + " FROM recipes r JOIN users u ON u.id = r.author_id" +
		q.where() + " ORDER BY r.created_at DESC, r.id DESC"
	if filter.Limit > 0 {
		stmt += " LIMIT " + q.arg(filter.Limit)
	}
	if filter.Offset > 0 {
		stmt += " OFFSET " + q.arg(filter.Offset)
	}

	recipes := []*Recipe{}
	if err := s.db.SelectContext(ctx, &recipes, stmt, q.args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list recipes: %w", err)
	}
	if err := s.loadRelations(ctx, recipes); err != nil {
		return nil, 0, err
	}
	return recipes, total, nil
}

// GetRecipe returns nil without an error when the recipe does not exist.
func (s *PostgresStore) GetRecipe(ctx context.Context, id, viewerID int64) (*Recipe, error) {
	var r Recipe
	err := s.db.GetContext(ctx, &r,
		"SELECT "+recipeColumns+" FROM recipes r JOIN users u ON u.id = r.author_id WHERE r.id = $2",
		viewerID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	if err := s.loadRelations(ctx, []*Recipe{&r}); err != nil {
		return nil, err
	}
	return &r, nil
}

type recipeTag struct {
	RecipeID int64 `db:"recipe_id"`
	Tag
}

type recipeIngredient struct {
	RecipeID int64 `db:"recipe_id"`
	RecipeIngredient
}

// loadRelations fills Tags and Ingredients for every recipe with two queries.
func (s *PostgresStore) loadRelations(ctx context.Context, recipes []*Recipe) error {
	if len(recipes) == 0 {
		return nil
	}
	ids := make([]int64, len(recipes))
	byID := make(map[int64]*Recipe, len(recipes))
	for i, r := range recipes {
		ids[i] = r.ID
		r.Tags = []Tag{}
		r.Ingredients = []RecipeIngredient{}
		byID[r.ID] = r
	}

	var tags []recipeTag
	err := s.db.SelectContext(ctx, &tags, `
		SELECT tr.recipe_id, t.id, t.name, t.color, t.slug
		FROM tag_in_recipe tr JOIN tags t ON t.id = tr.tag_id
		WHERE tr.recipe_id = ANY($1) ORDER BY t.id`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to load recipe tags: %w", err)
	}
	for _, t := range tags {
		byID[t.RecipeID].Tags = append(byID[t.RecipeID].Tags, t.Tag)
	}

	var ingredients []recipeIngredient
	err = s.db.SelectContext(ctx, &ingredients, `
		SELECT ir.recipe_id, i.id, i.name, i.measurement_unit, ir.amount
		FROM ingredient_in_recipe ir JOIN ingredients i ON i.id = ir.ingredient_id
		WHERE ir.recipe_id = ANY($1) ORDER BY ir.id`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to load recipe ingredients: %w", err)
	}
	for _, i := range ingredients {
		byID[i.RecipeID].Ingredients = append(byID[i.RecipeID].Ingredients, i.RecipeIngredient)
	}
	return nil
}

// CheckReferences reports ErrUnknownTag or ErrUnknownIngredient when in
// names a tag or ingredient that does not exist. IDs are expected to be unique.
func (s *PostgresStore) CheckReferences(ctx context.Context, in *Input) error {
	ingredientIDs := make([]int64, len(in.Ingredients))
	for i, ing := range in.Ingredients {
		ingredientIDs[i] = ing.IngredientID
	}

	var found struct {
		Tags        int `db:"tags"`
		Ingredients int `db:"ingredients"`
	}
	err := s.db.GetContext(ctx, &found, `
		SELECT
			(SELECT COUNT(*) FROM tags WHERE id = ANY($1)) AS tags,
			(SELECT COUNT(*) FROM ingredients WHERE id = ANY($2)) AS ingredients`,
		pq.Array(in.TagIDs), pq.Array(ingredientIDs))
	if err != nil {
		return fmt.Errorf("failed to check recipe references: %w", err)
	}
	if found.Tags != len(in.TagIDs) {
		return ErrUnknownTag
	}
	if found.Ingredients != len(ingredientIDs) {
		return ErrUnknownIngredient
	}
	return nil
}

// CreateRecipe stores a recipe with its tags and ingredients in one transaction.
func (s *PostgresStore) CreateRecipe(ctx context.Context, authorID int64, in *Input) (int64, error) {
	var id int64
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		err := tx.QueryRowxContext(ctx,
			"INSERT INTO recipes (author_id, name, text, cooking_time, image) VALUES ($1, $2, $3, $4, $5) RETURNING id",
			authorID, in.Name, in.Text, in.CookingTime, in.Image,
		).Scan(&id)
		if err != nil {
			return err
		}
		return writeRelations(ctx, tx, id, in)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create recipe: %w", classify(err))
	}
	return id, nil
}

// UpdateRecipe replaces a recipe's fields, tags and ingredients. The author is never changed.
func (s *PostgresStore) UpdateRecipe(ctx context.Context, id int64, in *Input) error {
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx,
			"UPDATE recipes SET name = $2, text = $3, cooking_time = $4, image = $5 WHERE id = $1",
			id, in.Name, in.Text, in.CookingTime, in.Image)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return ErrNotFound
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM tag_in_recipe WHERE recipe_id = $1", id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM ingredient_in_recipe WHERE recipe_id = $1", id); err != nil {
			return err
		}
		return writeRelations(ctx, tx, id, in)
	})
	if err != nil {
		return fmt.Errorf("failed to update recipe: %w", classify(err))
	}
	return nil
}

// DeleteRecipe removes a recipe; join rows and memberships cascade.
func (s *PostgresStore) DeleteRecipe(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM recipes WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type tagRow struct {
	RecipeID int64 `db:"recipe_id"`
	TagID    int64 `db:"tag_id"`
}

type ingredientRow struct {
	RecipeID     int64 `db:"recipe_id"`
	IngredientID int64 `db:"ingredient_id"`
	Amount       int   `db:"amount"`
}

func writeRelations(ctx context.Context, tx *sqlx.Tx, recipeID int64, in *Input) error {
	if len(in.TagIDs) > 0 {
		rows := make([]tagRow, len(in.TagIDs))
		for i, id := range in.TagIDs {
			rows[i] = tagRow{RecipeID: recipeID, TagID: id}
		}
		if _, err := tx.NamedExecContext(ctx,
			"INSERT INTO tag_in_recipe (recipe_id, tag_id) VALUES (:recipe_id, :tag_id)", rows); err != nil {
			return err
		}
	}
	if len(in.Ingredients) > 0 {
		rows := make([]ingredientRow, len(in.Ingredients))
		for i, ing := range in.Ingredients {
			rows[i] = ingredientRow{RecipeID: recipeID, IngredientID: ing.IngredientID, Amount: ing.Amount}
		}
		if _, err := tx.NamedExecContext(ctx,
			"INSERT INTO ingredient_in_recipe (recipe_id, ingredient_id, amount) VALUES (:recipe_id, :ingredient_id, :amount)", rows); err != nil {
			return err
		}
	}
	return nil
}

func (s *PostgresStore) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// classify maps constraint violations onto the package's sentinel errors.
func classify(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code {
	case "22003": // numeric_value_out_of_range
		return ErrOutOfRange
	case "23503": // foreign_key_violation
		switch pqErr.Constraint {
		case "ingredient_in_recipe_ingredient_id_fkey":
			return ErrUnknownIngredient
		case "tag_in_recipe_tag_id_fkey":
			return ErrUnknownTag
		}
		return ErrInvalidReference
	case "23505": // unique_violation
		return ErrDuplicate
	}
	return err
}
