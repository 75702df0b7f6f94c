package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-restaurant-pos/apperr"
	"go-restaurant-pos/database"
	"go-restaurant-pos/models"
	"go-restaurant-pos/pricing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 5, 2, 19, 30, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *models.Category) {
	t.Helper()
	svc := NewService(database.NewMemoryStore()).WithClock(func() time.Time { return now })
	category, err := svc.CreateCategory(context.Background(), "Makanan", "")
	require.NoError(t, err)
	return svc, category
}

func TestCreateMenuItemRecordsOpeningStock(t *testing.T) {
	svc, category := newTestService(t)
	ctx := context.Background()

	item, err := svc.CreateMenuItem(ctx, MenuInput{Category_id: category.Category_id, Name: "Nasi Goreng", Price: 25000, Stock: 12}, "admin")
	require.NoError(t, err)
	assert.True(t, item.Is_active)

	history, err := svc.StockHistory(ctx, item.Menu_id)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, models.ReasonRestock, history[0].Reason)
	assert.Equal(t, 12, history[0].Delta)
}

func TestCreateMenuItemValidation(t *testing.T) {
	svc, category := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   MenuInput
		want error
	}{
		{"unknown category", MenuInput{Category_id: "nope", Name: "X", Price: 1}, apperr.ErrNotFound},
		{"blank name", MenuInput{Category_id: category.Category_id, Name: "  ", Price: 1}, apperr.ErrInvalidInput},
		{"negative price", MenuInput{Category_id: category.Category_id, Name: "X", Price: -1}, apperr.ErrInvalidInput},
		{"negative stock", MenuInput{Category_id: category.Category_id, Name: "X", Stock: -1}, apperr.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateMenuItem(ctx, tt.in, "admin")
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestSetAndClearDiscount(t *testing.T) {
	svc, category := newTestService(t)
	ctx := context.Background()
	item, err := svc.CreateMenuItem(ctx, MenuInput{Category_id: category.Category_id, Name: "Sate", Price: 30000}, "admin")
	require.NoError(t, err)

	start, end := now.Add(-time.Hour), now.Add(time.Hour)
	view, err := svc.SetDiscount(ctx, item.Menu_id, DiscountInput{Percent: 20, Start: &start, End: &end, Active: true})
	require.NoError(t, err)
	assert.True(t, view.Discount_in_effect)
	assert.Equal(t, pricing.Money(24000), view.Final_price)

	_, err = svc.SetDiscount(ctx, item.Menu_id, DiscountInput{Percent: 20, Start: &end, End: &start, Active: true})
	assert.True(t, errors.Is(err, apperr.ErrInvalidInput))

	_, err = svc.SetDiscount(ctx, item.Menu_id, DiscountInput{Percent: 101, Active: true})
	assert.True(t, errors.Is(err, apperr.ErrInvalidInput))

	view, err = svc.ClearDiscount(ctx, item.Menu_id)
	require.NoError(t, err)
	assert.False(t, view.Discount_in_effect)
	assert.Equal(t, pricing.Money(30000), view.Final_price)
	assert.Nil(t, view.Discount_start)
}

func TestAdjustStock(t *testing.T) {
	svc, category := newTestService(t)
	ctx := context.Background()
	item, err := svc.CreateMenuItem(ctx, MenuInput{Category_id: category.Category_id, Name: "Soto", Price: 15000, Stock: 5}, "admin")
	require.NoError(t, err)

	change, err := svc.AdjustStock(ctx, item.Menu_id, 2, models.ReasonWaste, "spilled", "admin")
	require.NoError(t, err)
	assert.Equal(t, 5, change.Previous_stock)
	assert.Equal(t, 2, change.New_stock)
	assert.Equal(t, -3, change.Delta)

	view, err := svc.GetMenuItem(ctx, item.Menu_id)
	require.NoError(t, err)
	assert.Equal(t, 2, view.Stock)

	_, err = svc.AdjustStock(ctx, item.Menu_id, -1, models.ReasonManualAdjustment, "", "admin")
	assert.True(t, errors.Is(err, apperr.ErrInvalidInput))

	_, err = svc.AdjustStock(ctx, item.Menu_id, 9, models.ReasonOrderCancellation, "", "admin")
	assert.True(t, errors.Is(err, apperr.ErrInvalidInput))

	_, err = svc.AdjustStock(ctx, item.Menu_id, 2, models.ReasonRestock, "", "admin")
	assert.True(t, errors.Is(err, apperr.ErrPreconditionFailed))

	_, err = svc.AdjustStock(ctx, "ghost", 2, models.ReasonRestock, "", "admin")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	history, err := svc.StockHistory(ctx, item.Menu_id)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, models.ReasonWaste, history[0].Reason)
}

func TestUpdateMenuItemLeavesStock(t *testing.T) {
	svc, category := newTestService(t)
	ctx := context.Background()
	item, err := svc.CreateMenuItem(ctx, MenuInput{Category_id: category.Category_id, Name: "Bakso", Price: 15000, Stock: 5}, "admin")
	require.NoError(t, err)

	price := pricing.Money(17000)
	off := false
	view, err := svc.UpdateMenuItem(ctx, item.Menu_id, MenuPatch{Price: &price, Is_active: &off})
	require.NoError(t, err)
	assert.Equal(t, pricing.Money(17000), view.Final_price)
	assert.False(t, view.Is_active)
	assert.Equal(t, 5, view.Stock)

	missing := "nope"
	_, err = svc.UpdateMenuItem(ctx, item.Menu_id, MenuPatch{Category_id: &missing})
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestListMenuHidesInactive(t *testing.T) {
	svc, food := newTestService(t)
	ctx := context.Background()
	drinks, err := svc.CreateCategory(ctx, "Minuman", "")
	require.NoError(t, err)

	_, err = svc.CreateMenuItem(ctx, MenuInput{Category_id: food.Category_id, Name: "Nasi", Price: 5000}, "admin")
	require.NoError(t, err)
	hidden, err := svc.CreateMenuItem(ctx, MenuInput{Category_id: food.Category_id, Name: "Lontong", Price: 5000}, "admin")
	require.NoError(t, err)
	off := false
	_, err = svc.UpdateMenuItem(ctx, hidden.Menu_id, MenuPatch{Is_active: &off})
	require.NoError(t, err)
	_, err = svc.CreateMenuItem(ctx, MenuInput{Category_id: drinks.Category_id, Name: "Es Jeruk", Price: 7000}, "admin")
	require.NoError(t, err)
	_, err = svc.UpdateCategory(ctx, drinks.Category_id, CategoryPatch{Is_active: &off})
	require.NoError(t, err)

	menu, err := svc.ListMenu(ctx, models.MenuFilter{})
	require.NoError(t, err)
	require.Len(t, menu, 1)
	assert.Equal(t, "Nasi", menu[0].Name)

	all, err := svc.ListMenu(ctx, models.MenuFilter{IncludeInactive: true})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
