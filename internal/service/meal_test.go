package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mess-mate/internal/model"
	"mess-mate/internal/store"
)

func TestSubmitMealSelectionMergesIntoOneRecord(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	svc := NewMealService(st)

	require.NoError(t, svc.SubmitMealSelection(ctx, "u1", "2026-08-28", model.Selections{Breakfast: true}))
	require.NoError(t, svc.SubmitMealSelection(ctx, "u1", "2026-08-28", model.Selections{Lunch: true, Dinner: true}))

	recs, err := st.Collection(model.CollMealSelections).GetAll(ctx, "")
	require.NoError(t, err)
	require.Len(t, recs, 1, "resubmission must not create a second record")
	assert.Equal(t, "u1_2026-08-28", recs[0].ID)

	sel, err := svc.GetSelection(ctx, "u1", "2026-08-28")
	require.NoError(t, err)
	require.NotNil(t, sel)
	assert.Equal(t, model.Selections{Lunch: true, Dinner: true}, sel.Selections)
	assert.NotEmpty(t, sel.CreatedAt)
	assert.NotEmpty(t, sel.UpdatedAt)
}

func TestSubmitMealSelectionKeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	svc := NewMealService(store.NewMemory())

	require.NoError(t, svc.SubmitMealSelection(ctx, "u1", "2026-08-28", model.Selections{Breakfast: true}))
	first, err := svc.GetSelection(ctx, "u1", "2026-08-28")
	require.NoError(t, err)

	require.NoError(t, svc.SubmitMealSelection(ctx, "u1", "2026-08-28", model.Selections{Breakfast: false, Lunch: true}))
	second, err := svc.GetSelection(ctx, "u1", "2026-08-28")
	require.NoError(t, err)

	assert.Equal(t, first.CreatedAt, second.CreatedAt)
}

func TestSubmitMealSelectionRejectsBadDate(t *testing.T) {
	svc := NewMealService(store.NewMemory())
	err := svc.SubmitMealSelection(context.Background(), "u1", "28-08-2026", model.Selections{})
	assert.ErrorIs(t, err, ErrBadDate)
}

func TestGetSelectionAbsentIsNil(t *testing.T) {
	svc := NewMealService(store.NewMemory())
	sel, err := svc.GetSelection(context.Background(), "u1", "2026-08-28")
	require.NoError(t, err)
	assert.Nil(t, sel)
}

func TestGetMealStatistics(t *testing.T) {
	ctx := context.Background()
	svc := NewMealService(store.NewMemory())

	require.NoError(t, svc.SubmitMealSelection(ctx, "u1", "2026-08-28", model.Selections{Breakfast: true, Lunch: true}))
	require.NoError(t, svc.SubmitMealSelection(ctx, "u2", "2026-08-28", model.Selections{Lunch: true, Dinner: true}))
	require.NoError(t, svc.SubmitMealSelection(ctx, "u3", "2026-08-28", model.Selections{}))
	// Another day must not count.
	require.NoError(t, svc.SubmitMealSelection(ctx, "u1", "2026-08-29", model.Selections{Dinner: true}))

	stats, err := svc.GetMealStatistics(ctx, "2026-08-28")
	require.NoError(t, err)
	assert.Equal(t, model.MealStats{Breakfast: 1, Lunch: 2, Dinner: 1, Total: 3}, stats)
}

func TestSubscribeToSelection(t *testing.T) {
	ctx := context.Background()
	svc := NewMealService(store.NewMemory())

	var got []*model.MealSelection
	cancel := svc.SubscribeToSelection("u1", "2026-08-28", func(m *model.MealSelection) { got = append(got, m) }, nil)
	defer cancel()

	require.Len(t, got, 1)
	assert.Nil(t, got[0], "no record yet delivers nil")

	require.NoError(t, svc.SubmitMealSelection(ctx, "u1", "2026-08-28", model.Selections{Dinner: true}))
	// Submit triggers one notification per write it performs.
	last := got[len(got)-1]
	require.NotNil(t, last)
	assert.True(t, last.Selections.Dinner)

	// Someone else's record never reaches this subscription.
	before := len(got)
	require.NoError(t, svc.SubmitMealSelection(ctx, "u2", "2026-08-28", model.Selections{Lunch: true}))
	last = got[len(got)-1]
	require.NotNil(t, last)
	assert.True(t, last.Selections.Dinner)
	assert.GreaterOrEqual(t, len(got), before)
}
