package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mess-mate/internal/model"
	"mess-mate/internal/store"
)

func strp(s string) *string { return &s }

func TestMenuMissingDocumentIsEmptyMenu(t *testing.T) {
	svc := NewMenuService(store.NewMemory())

	menu, err := svc.GetMenu(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.Menu{}, menu)

	var got []model.Menu
	cancel := svc.SubscribeToMenu(func(m model.Menu) { got = append(got, m) }, nil)
	defer cancel()
	require.Len(t, got, 1, "subscribers see the empty menu, not a missing one")
	assert.Equal(t, model.Menu{}, got[0])
}

func TestMenuPartialUpdateMerges(t *testing.T) {
	ctx := context.Background()
	svc := NewMenuService(store.NewMemory())

	require.NoError(t, svc.UpdateDailyMenu(ctx, model.MenuUpdateRequest{Breakfast: strp("idli")}))
	require.NoError(t, svc.UpdateDailyMenu(ctx, model.MenuUpdateRequest{Lunch: strp("thali")}))

	menu, err := svc.GetMenu(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.Menu{Breakfast: "idli", Lunch: "thali"}, menu)
}

func TestMenuSubscriptionSeesUpdates(t *testing.T) {
	ctx := context.Background()
	svc := NewMenuService(store.NewMemory())

	var got []model.Menu
	cancel := svc.SubscribeToMenu(func(m model.Menu) { got = append(got, m) }, nil)
	defer cancel()

	require.NoError(t, svc.UpdateDailyMenu(ctx, model.MenuUpdateRequest{Dinner: strp("biryani")}))
	require.Len(t, got, 2)
	assert.Equal(t, "biryani", got[1].Dinner)
}
