package recipe

import (
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, "Flour", escapeLike("Flour"))
	assert.Equal(t, `100\%`, escapeLike("100%"))
	assert.Equal(t, `a\_b`, escapeLike("a_b"))
	assert.Equal(t, `c:\\d`, escapeLike(`c:\d`))
}

func TestIngredientFilter_Apply(t *testing.T) {
	var q query
	IngredientFilter{}.apply(&q)
	assert.Empty(t, q.where())
	assert.Empty(t, q.args)

	q = query{}
	IngredientFilter{Name: "50%"}.apply(&q)
	assert.Equal(t, ` WHERE name LIKE $1 ESCAPE '\'`, q.where())
	assert.Equal(t, []interface{}{`50\%%`}, q.args)
}

func TestRecipeFilter_Apply(t *testing.T) {
	t.Run("anonymous viewer ignores membership flags", func(t *testing.T) {
		var q query
		RecipeFilter{Favorited: true, InShoppingCart: true}.apply(&q)
		assert.Empty(t, q.conds)
	})

	t.Run("all criteria", func(t *testing.T) {
		var q query
		q.arg(int64(7)) // viewer placeholder taken first, as ListRecipes does
		RecipeFilter{
			Tags:           []string{"breakfast", "dinner"},
			AuthorID:       3,
			Favorited:      true,
			InShoppingCart: true,
			ViewerID:       7,
		}.apply(&q)

		assert.Len(t, q.conds, 4)
		assert.Contains(t, q.conds[0], "t.slug = ANY($2)")
		assert.Equal(t, "r.author_id = $3", q.conds[1])
		assert.Contains(t, q.conds[2], "favorites fv")
		assert.Contains(t, q.conds[2], "fv.user_id = $4")
		assert.Contains(t, q.conds[3], "sc.user_id = $5")
		assert.Equal(t, []interface{}{int64(7), pq.Array([]string{"breakfast", "dinner"}), int64(3), int64(7), int64(7)}, q.args)
	})
}

func TestSet(t *testing.T) {
	assert.Equal(t, "favorites", Favorites.table())
	assert.Equal(t, "shopping_cart", ShoppingCart.table())
	assert.Equal(t, "shopping cart", ShoppingCart.String())
}
