package menu

import (
	"context"
	"errors"
	"testing"

	"eventdesk/internal/apperr"
	"eventdesk/internal/guard"
	"eventdesk/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*Service, guard.Scope) {
	t.Helper()
	db := testutil.NewDB(t, &Item{})
	p := testutil.NewPlanner(t, db, "planner@example.com")
	ev := testutil.NewEvent(t, db, p.ID)
	sc, err := (&guard.Guard{DB: db}).Event(context.Background(), testutil.SessionFor(p), ev.ID)
	require.NoError(t, err)
	return &Service{DB: db}, sc
}

func TestSortOrderCountsPerCategory(t *testing.T) {
	svc, sc := setup(t)
	ctx := context.Background()

	create := func(category, name string) *Item {
		item, err := svc.Create(ctx, sc, CreateInput{Category: category, Name: name})
		require.NoError(t, err)
		return item
	}

	assert.Equal(t, 1, create("Starters", "Puff puff").SortOrder)
	assert.Equal(t, 1, create("Mains", "Jollof rice").SortOrder)
	assert.Equal(t, 2, create("Starters", "Spring rolls").SortOrder)
	assert.Equal(t, 2, create("Mains", "Fried rice").SortOrder)
	assert.Equal(t, 3, create("Starters", "Samosa").SortOrder)

	def := create("", "Water")
	assert.Equal(t, DefaultCategory, def.Category)
	assert.Equal(t, 1, def.SortOrder)
	assert.True(t, def.Available)
}

func TestListOrdering(t *testing.T) {
	svc, sc := setup(t)
	ctx := context.Background()

	for _, in := range []CreateInput{
		{Category: "b", Name: "b1"},
		{Category: "a", Name: "a1"},
		{Category: "b", Name: "b2"},
		{Category: "a", Name: "a2"},
	} {
		_, err := svc.Create(ctx, sc, in)
		require.NoError(t, err)
	}

	items, err := svc.List(ctx, sc)
	require.NoError(t, err)
	var names []string
	for _, it := range items {
		names = append(names, it.Name)
	}
	assert.Equal(t, []string{"a1", "a2", "b1", "b2"}, names)
}

func TestCreateRequiresName(t *testing.T) {
	svc, sc := setup(t)
	_, err := svc.Create(context.Background(), sc, CreateInput{Name: "  "})
	assert.True(t, apperr.Is(err, apperr.KindInvalidInput))
}

func TestUpdatePatchAndCategoryMove(t *testing.T) {
	svc, sc := setup(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, sc, CreateInput{Category: "Desserts", Name: "Cake"})
	require.NoError(t, err)
	item, err := svc.Create(ctx, sc, CreateInput{Category: "Starters", Name: "Puff puff", Description: "sweet"})
	require.NoError(t, err)

	unavailable := false
	out, err := svc.Update(ctx, sc, item.ID, Patch{Available: &unavailable})
	require.NoError(t, err)
	assert.False(t, out.Available)
	assert.Equal(t, "Puff puff", out.Name)
	assert.Equal(t, "sweet", out.Description)

	desserts := "Desserts"
	out, err = svc.Update(ctx, sc, item.ID, Patch{Category: &desserts})
	require.NoError(t, err)
	assert.Equal(t, "Desserts", out.Category)
	assert.Equal(t, 2, out.SortOrder)
}

func TestDeleteTwice(t *testing.T) {
	svc, sc := setup(t)
	ctx := context.Background()

	item, err := svc.Create(ctx, sc, CreateInput{Name: "Chapman"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, sc, item.ID))
	assert.True(t, errors.Is(svc.Delete(ctx, sc, item.ID), apperr.NotFound("menu item")))
}
