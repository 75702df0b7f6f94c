package receipt

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-restaurant-pos/apperr"
	"go-restaurant-pos/cart"
	"go-restaurant-pos/checkout"
	"go-restaurant-pos/database"
	"go-restaurant-pos/models"
	"go-restaurant-pos/pricing"
	"go-restaurant-pos/settings"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 5, 2, 19, 30, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func TestDiscountLabel(t *testing.T) {
	assert.Equal(t, "-10%", DiscountLabel(10))
	assert.Equal(t, "-12.5%", DiscountLabel(12.5))
	assert.Equal(t, "", DiscountLabel(0))
}

func setup(t *testing.T) (*database.MemoryStore, *Generator, *checkout.Result) {
	t.Helper()
	ctx := context.Background()
	store := database.NewMemoryStore()

	rendang := models.MenuItem{Menu_id: "rendang", Name: "Rendang", Price: 20000, Stock: 10, Is_active: true,
		Discount_percent: 10, Is_discount_active: true}
	teh := models.MenuItem{Menu_id: "teh", Name: "Es Teh", Price: 5000, Stock: 10, Is_active: true}
	require.NoError(t, store.CreateMenuItem(ctx, &rendang))
	require.NoError(t, store.CreateMenuItem(ctx, &teh))
	require.NoError(t, store.CreateUser(ctx, &models.User{User_id: "cashier-1", Name: strPtr("Sari")}))

	prefs := settings.NewService(store, models.Setting{
		Restaurant_name: "Warung Makan", Restaurant_address: "Jl. Merdeka 1", Restaurant_phone: "0211234",
		Order_discount_percent: 5, Discount_min_amount: 50000, Tax_percent: 11,
	})

	rates := pricing.DefaultRates()
	c, err := cart.Cart{}.Add(&rendang, 3, "extra sambal", now, rates)
	require.NoError(t, err)
	c, err = c.Add(&teh, 2, "", now, rates)
	require.NoError(t, err)
	c, err = c.ToggleOrderDiscount(true, rates)
	require.NoError(t, err)

	svc := checkout.NewService(store, cart.NewMemoryStore(), prefs).WithClock(func() time.Time { return now })
	result, err := svc.Commit(ctx, c, checkout.Request{
		Customer_name: "Budi", Order_type: models.DineIn, Table_number: func() *int { v := 4; return &v }(),
		Payment_method: models.PaymentCash, Cash_tendered: 100000, Cashier_id: "cashier-1",
	})
	require.NoError(t, err)
	return store, NewGenerator(store, prefs), result
}

func TestGenerate(t *testing.T) {
	_, gen, result := setup(t)

	r, err := gen.Generate(context.Background(), result.Order.Order_id)
	require.NoError(t, err)

	assert.Equal(t, "Warung Makan", r.Restaurant.Name)
	assert.Equal(t, "Sari", r.Cashier_name)
	assert.Equal(t, "ORD-20260502-0001", r.Order_number)
	require.NotNil(t, r.Table_number)
	assert.Equal(t, 4, *r.Table_number)

	require.Len(t, r.Items, 2)
	assert.Equal(t, "Rendang", r.Items[0].Name)
	assert.Equal(t, "-10%", r.Items[0].Discount_label)
	assert.Equal(t, pricing.Money(54000), r.Items[0].Subtotal)
	assert.Equal(t, "extra sambal", r.Items[0].Note)
	assert.Equal(t, "", r.Items[1].Discount_label)

	// subtotal 64000, order discount 3200, tax 6688, total 67488
	assert.Equal(t, pricing.Money(64000), r.Subtotal)
	assert.Equal(t, pricing.Money(6000), r.Menu_discount_total)
	assert.Equal(t, pricing.Money(3200), r.Order_discount)
	assert.Equal(t, pricing.Money(9200), r.Total_savings)
	assert.Equal(t, pricing.Money(60800), r.Pre_tax_total)
	assert.Equal(t, pricing.Money(6688), r.Tax_amount)
	assert.Equal(t, pricing.Money(67488), r.Total_amount)
	assert.Equal(t, pricing.Money(100000), r.Amount_paid)
	assert.Equal(t, pricing.Money(32512), r.Change_amount)
}

func TestGenerateRequiresCompletedOrder(t *testing.T) {
	store, gen, result := setup(t)
	ctx := context.Background()
	require.NoError(t, store.UpdateOrderStatus(ctx, result.Order.Order_id, models.StatusCanceled, now))

	_, err := gen.Generate(ctx, result.Order.Order_id)
	assert.True(t, errors.Is(err, apperr.ErrPreconditionFailed))

	_, err = gen.Generate(ctx, "missing")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestBuildRequiresPayment(t *testing.T) {
	order := &models.Order{Order_id: "o1", Status: models.StatusCompleted}

	_, err := Build(order, nil, nil, "Sari", settings.Identity{})
	assert.True(t, errors.Is(err, apperr.ErrPreconditionFailed))

	refundOnly := []models.Payment{{Amount_paid: -1000}}
	assert.False(t, Printable(order, refundOnly))
}

func TestGenerateFallsBackToCashierId(t *testing.T) {
	store, _, result := setup(t)
	prefs := settings.NewService(store, models.Setting{Restaurant_name: "Warung Makan"})
	gen := NewGenerator(missingUsers{store}, prefs)

	r, err := gen.Generate(context.Background(), result.Order.Order_id)
	require.NoError(t, err)
	assert.Equal(t, "cashier-1", r.Cashier_name)
}

type missingUsers struct{ *database.MemoryStore }

func (missingUsers) GetUserById(_ context.Context, id string) (*models.User, error) {
	return nil, apperr.New("test", apperr.KindNotFound, id, "")
}
