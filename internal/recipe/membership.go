package recipe

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// AddMember puts a recipe into one of the user's sets and returns its summary.
// Lookup and insert run as one statement, so a concurrent add or remove of
// the same pair cannot make it misreport.
func (s *PostgresStore) AddMember(ctx context.Context, set Set, userID, recipeID int64) (*Summary, error) {
	var row struct {
		Summary
		Added bool `db:"added"`
	}
	err := s.db.GetContext(ctx, &row, fmt.Sprintf(`
		WITH target AS (
			SELECT id, name, image, cooking_time FROM recipes WHERE id = $2
		), added AS (
			INSERT INTO %s (user_id, recipe_id)
			SELECT $1::bigint, id FROM target
			ON CONFLICT (user_id, recipe_id) DO NOTHING
			RETURNING recipe_id
		)
		SELECT t.id, t.name, t.image, t.cooking_time, EXISTS (SELECT 1 FROM added) AS added
		FROM target t`, set.table()),
		userID, recipeID)
	if err != nil {
		// A foreign key violation means the recipe was deleted mid-statement.
		if errors.Is(err, sql.ErrNoRows) || errors.Is(classify(err), ErrInvalidReference) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to add recipe to %s: %w", set, err)
	}
	if !row.Added {
		return nil, ErrAlreadyMember
	}
	return &row.Summary, nil
}

// RemoveMember deletes a recipe from one of the user's sets.
func (s *PostgresStore) RemoveMember(ctx context.Context, set Set, userID, recipeID int64) error {
	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE user_id = $1 AND recipe_id = $2", set.table()),
		userID, recipeID)
	if err != nil {
		return fmt.Errorf("failed to remove recipe from %s: %w", set, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to remove recipe from %s: %w", set, err)
	}
	if n == 0 {
		return ErrNotAMember
	}
	return nil
}

// CartSize returns how many recipes are in the user's shopping cart.
func (s *PostgresStore) CartSize(ctx context.Context, userID int64) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM shopping_cart WHERE user_id = $1", userID); err != nil {
		return 0, fmt.Errorf("failed to count shopping cart: %w", err)
	}
	return n, nil
}

// CartIngredients returns every ingredient line of every recipe in the user's cart.
func (s *PostgresStore) CartIngredients(ctx context.Context, userID int64) ([]CartIngredient, error) {
	rows := []CartIngredient{}
	err := s.db.SelectContext(ctx, &rows, `
		SELECT i.name, i.measurement_unit, ir.amount
		FROM shopping_cart sc
		JOIN ingredient_in_recipe ir ON ir.recipe_id = sc.recipe_id
		JOIN ingredients i ON i.id = ir.ingredient_id
		WHERE sc.user_id = $1
		ORDER BY sc.id, ir.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load shopping cart ingredients: %w", err)
	}
	return rows, nil
}
