package recipe

import (
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// IngredientFilter restricts the ingredient catalog. Name is a case-sensitive prefix.
type IngredientFilter struct {
	Name string
}

// RecipeFilter restricts a recipe listing. Tags match any of the given slugs;
// the remaining criteria are combined with AND. Favorited and InShoppingCart
// only apply when ViewerID identifies a user.
type RecipeFilter struct {
	Tags           []string
	AuthorID       int64
	Favorited      bool
	InShoppingCart bool
	ViewerID       int64
	Limit          int
	Offset         int
}

// query accumulates positional arguments for a hand-built WHERE clause.
type query struct {
	conds []string
	args  []interface{}
}

func (q *query) arg(v interface{}) string {
	q.args = append(q.args, v)
	return fmt.Sprintf("$%d", len(q.args))
}

func (q *query) where() string {
	if len(q.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(q.conds, " AND ")
}

func (f IngredientFilter) apply(q *query) {
	if f.Name != "" {
		q.conds = append(q.conds, `name LIKE `+q.arg(escapeLike(f.Name)+"%")+` ESCAPE '\'`)
	}
}

func (f RecipeFilter) apply(q *query) {
	if len(f.Tags) > 0 {
		q.conds = append(q.conds, `EXISTS (SELECT 1 FROM tag_in_recipe tr JOIN tags t ON t.id = tr.tag_id
			WHERE tr.recipe_id = r.id AND t.slug = ANY(`+q.arg(pq.Array(f.Tags))+`))`)
	}
	if f.AuthorID != 0 {
		q.conds = append(q.conds, "r.author_id = "+q.arg(f.AuthorID))
	}
	if f.ViewerID == 0 {
		return
	}
	if f.Favorited {
		q.conds = append(q.conds, "EXISTS (SELECT 1 FROM favorites fv WHERE fv.recipe_id = r.id AND fv.user_id = "+q.arg(f.ViewerID)+")")
	}
	if f.InShoppingCart {
		q.conds = append(q.conds, "EXISTS (SELECT 1 FROM shopping_cart sc WHERE sc.recipe_id = r.id AND sc.user_id = "+q.arg(f.ViewerID)+")")
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
