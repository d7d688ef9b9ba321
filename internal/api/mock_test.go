package api

import (
	"context"
	"sort"
	"strings"

	"foodgram/internal/recipe"
	"foodgram/internal/user"
)

// mockUserStore is a mock of the user store.
type mockUserStore struct {
	users map[int64]*user.User
}

func newMockUserStore(users ...*user.User) *mockUserStore {
	m := &mockUserStore{users: make(map[int64]*user.User)}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *mockUserStore) Create(ctx context.Context, u *user.User, password string) error {
	for _, existing := range m.users {
		if existing.Email == u.Email || existing.Username == u.Username {
			return user.ErrDuplicate
		}
	}
	hash, err := user.HashPassword(password)
	if err != nil {
		return err
	}
	u.ID = int64(len(m.users) + 1)
	u.PasswordHash = hash
	m.users[u.ID] = u
	return nil
}

func (m *mockUserStore) GetByID(ctx context.Context, id int64) (*user.User, error) {
	return m.users[id], nil
}

func (m *mockUserStore) Authenticate(ctx context.Context, email, password string) (*user.User, error) {
	for _, u := range m.users {
		if u.Email == email && u.CheckPassword(password) {
			return u, nil
		}
	}
	return nil, user.ErrInvalidCredentials
}

// mockImageStore records saved images.
type mockImageStore struct {
	saved [][]byte
}

func (m *mockImageStore) Save(ctx context.Context, data []byte, ext string) (string, error) {
	m.saved = append(m.saved, data)
	return "/media/recipes/mock" + ext, nil
}

type storedRecipe struct {
	authorID int64
	in       recipe.Input
}

type memberKey struct {
	set      recipe.Set
	userID   int64
	recipeID int64
}

// mockRecipeStore is an in-memory recipe store.
type mockRecipeStore struct {
	users       *mockUserStore
	ingredients map[int64]*recipe.Ingredient
	tags        map[int64]*recipe.Tag
	recipes     map[int64]*storedRecipe
	members     map[memberKey]bool
	nextID      int64
	err         error
}

func newMockRecipeStore(users *mockUserStore) *mockRecipeStore {
	return &mockRecipeStore{
		users:       users,
		ingredients: make(map[int64]*recipe.Ingredient),
		tags:        make(map[int64]*recipe.Tag),
		recipes:     make(map[int64]*storedRecipe),
		members:     make(map[memberKey]bool),
	}
}

func (m *mockRecipeStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *mockRecipeStore) ListIngredients(ctx context.Context, filter recipe.IngredientFilter) ([]recipe.Ingredient, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := []recipe.Ingredient{}
	for _, i := range m.ingredients {
		if strings.HasPrefix(i.Name, filter.Name) {
			out = append(out, *i)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Name < out[b].Name })
	return out, nil
}

func (m *mockRecipeStore) GetIngredient(ctx context.Context, id int64) (*recipe.Ingredient, error) {
	return m.ingredients[id], m.err
}

func (m *mockRecipeStore) CreateIngredient(ctx context.Context, ingredient *recipe.Ingredient) error {
	for _, i := range m.ingredients {
		if i.Name == ingredient.Name && i.MeasurementUnit == ingredient.MeasurementUnit {
			return recipe.ErrDuplicate
		}
	}
	ingredient.ID = m.id()
	cp := *ingredient
	m.ingredients[cp.ID] = &cp
	return nil
}

func (m *mockRecipeStore) ListTags(ctx context.Context) ([]recipe.Tag, error) {
	out := []recipe.Tag{}
	for _, t := range m.tags {
		out = append(out, *t)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out, m.err
}

func (m *mockRecipeStore) GetTag(ctx context.Context, id int64) (*recipe.Tag, error) {
	return m.tags[id], m.err
}

func (m *mockRecipeStore) CreateTag(ctx context.Context, tag *recipe.Tag) error {
	for _, t := range m.tags {
		if t.Slug == tag.Slug || t.Name == tag.Name {
			return recipe.ErrDuplicate
		}
	}
	tag.ID = m.id()
	cp := *tag
	m.tags[cp.ID] = &cp
	return nil
}

func (m *mockRecipeStore) build(id, viewerID int64) *recipe.Recipe {
	s, ok := m.recipes[id]
	if !ok {
		return nil
	}
	r := &recipe.Recipe{
		ID:               id,
		Name:             s.in.Name,
		Text:             s.in.Text,
		CookingTime:      s.in.CookingTime,
		Image:            s.in.Image,
		Tags:             []recipe.Tag{},
		Ingredients:      []recipe.RecipeIngredient{},
		IsFavorited:      m.members[memberKey{recipe.Favorites, viewerID, id}],
		IsInShoppingCart: m.members[memberKey{recipe.ShoppingCart, viewerID, id}],
	}
	if u := m.users.users[s.authorID]; u != nil {
		r.Author = recipe.Author{ID: u.ID, Email: u.Email, Username: u.Username, FirstName: u.FirstName, LastName: u.LastName}
	}
	for _, tagID := range s.in.TagIDs {
		r.Tags = append(r.Tags, *m.tags[tagID])
	}
	for _, ia := range s.in.Ingredients {
		i := m.ingredients[ia.IngredientID]
		r.Ingredients = append(r.Ingredients, recipe.RecipeIngredient{
			ID: i.ID, Name: i.Name, MeasurementUnit: i.MeasurementUnit, Amount: ia.Amount,
		})
	}
	for k := range m.members {
		if k.set == recipe.Favorites && k.recipeID == id {
			r.FavoritesCount++
		}
	}
	return r
}

func (m *mockRecipeStore) matches(r *recipe.Recipe, f recipe.RecipeFilter) bool {
	if f.AuthorID != 0 && r.Author.ID != f.AuthorID {
		return false
	}
	if len(f.Tags) > 0 {
		found := false
		for _, t := range r.Tags {
			for _, slug := range f.Tags {
				if t.Slug == slug {
					found = true
				}
			}
		}
		if !found {
			return false
		}
	}
	if f.ViewerID != 0 {
		if f.Favorited && !r.IsFavorited {
			return false
		}
		if f.InShoppingCart && !r.IsInShoppingCart {
			return false
		}
	}
	return true
}

func (m *mockRecipeStore) ListRecipes(ctx context.Context, filter recipe.RecipeFilter) ([]*recipe.Recipe, int, error) {
	if m.err != nil {
		return nil, 0, m.err
	}
	var all []*recipe.Recipe
	for id := range m.recipes {
		if r := m.build(id, filter.ViewerID); m.matches(r, filter) {
			all = append(all, r)
		}
	}
	sort.Slice(all, func(a, b int) bool { return all[a].ID > all[b].ID })

	page := []*recipe.Recipe{}
	for i := filter.Offset; i < len(all) && (filter.Limit == 0 || i < filter.Offset+filter.Limit); i++ {
		page = append(page, all[i])
	}
	return page, len(all), nil
}

func (m *mockRecipeStore) GetRecipe(ctx context.Context, id, viewerID int64) (*recipe.Recipe, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.build(id, viewerID), nil
}

func (m *mockRecipeStore) checkRefs(in *recipe.Input) error {
	for _, id := range in.TagIDs {
		if m.tags[id] == nil {
			return recipe.ErrUnknownTag
		}
	}
	for _, i := range in.Ingredients {
		if m.ingredients[i.IngredientID] == nil {
			return recipe.ErrUnknownIngredient
		}
	}
	return nil
}

func (m *mockRecipeStore) CheckReferences(ctx context.Context, in *recipe.Input) error {
	if m.err != nil {
		return m.err
	}
	return m.checkRefs(in)
}

func (m *mockRecipeStore) CreateRecipe(ctx context.Context, authorID int64, in *recipe.Input) (int64, error) {
	if err := m.checkRefs(in); err != nil {
		return 0, err
	}
	id := m.id()
	m.recipes[id] = &storedRecipe{authorID: authorID, in: *in}
	return id, nil
}

func (m *mockRecipeStore) UpdateRecipe(ctx context.Context, id int64, in *recipe.Input) error {
	s, ok := m.recipes[id]
	if !ok {
		return recipe.ErrNotFound
	}
	if err := m.checkRefs(in); err != nil {
		return err
	}
	s.in = *in
	return nil
}

func (m *mockRecipeStore) DeleteRecipe(ctx context.Context, id int64) error {
	if _, ok := m.recipes[id]; !ok {
		return recipe.ErrNotFound
	}
	delete(m.recipes, id)
	for k := range m.members {
		if k.recipeID == id {
			delete(m.members, k)
		}
	}
	return nil
}

func (m *mockRecipeStore) AddMember(ctx context.Context, set recipe.Set, userID, recipeID int64) (*recipe.Summary, error) {
	key := memberKey{set, userID, recipeID}
	if m.members[key] {
		return nil, recipe.ErrAlreadyMember
	}
	s, ok := m.recipes[recipeID]
	if !ok {
		return nil, recipe.ErrNotFound
	}
	m.members[key] = true
	return &recipe.Summary{ID: recipeID, Name: s.in.Name, Image: s.in.Image, CookingTime: s.in.CookingTime}, nil
}

func (m *mockRecipeStore) RemoveMember(ctx context.Context, set recipe.Set, userID, recipeID int64) error {
	key := memberKey{set, userID, recipeID}
	if !m.members[key] {
		return recipe.ErrNotAMember
	}
	delete(m.members, key)
	return nil
}

func (m *mockRecipeStore) countMembers(set recipe.Set, userID int64) int {
	n := 0
	for k := range m.members {
		if k.set == set && k.userID == userID {
			n++
		}
	}
	return n
}

func (m *mockRecipeStore) CartSize(ctx context.Context, userID int64) (int, error) {
	return m.countMembers(recipe.ShoppingCart, userID), m.err
}

func (m *mockRecipeStore) CartIngredients(ctx context.Context, userID int64) ([]recipe.CartIngredient, error) {
	var rows []recipe.CartIngredient
	for k := range m.members {
		if k.set != recipe.ShoppingCart || k.userID != userID {
			continue
		}
		for _, ia := range m.recipes[k.recipeID].in.Ingredients {
			i := m.ingredients[ia.IngredientID]
			rows = append(rows, recipe.CartIngredient{Name: i.Name, MeasurementUnit: i.MeasurementUnit, Amount: ia.Amount})
		}
	}
	return rows, m.err
}
