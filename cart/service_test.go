package cart

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go-restaurant-pos/apperr"
	"go-restaurant-pos/models"
	"go-restaurant-pos/pricing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog map[string]*models.MenuItem

func (f fakeCatalog) GetMenuItemById(_ context.Context, id string) (*models.MenuItem, error) {
	item, ok := f[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	copied := *item
	return &copied, nil
}

type fixedRates pricing.Rates

func (r fixedRates) Rates(context.Context) (pricing.Rates, error) {
	return pricing.Rates(r), nil
}

func newTestService(catalog fakeCatalog) *Service {
	return NewService(NewMemoryStore(), catalog, fixedRates(pricing.DefaultRates())).
		WithClock(func() time.Time { return now })
}

func TestServiceAddAssignsDraftNumber(t *testing.T) {
	svc := newTestService(fakeCatalog{"a": menuItem("a", 25000, 10)})
	ctx := context.Background()

	c, err := svc.Add(ctx, "s1", "a", 2, "")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(c.Order_number, "DRAFT-20260502-"))
	assert.Equal(t, pricing.Money(55500), c.Totals.Total)

	again, err := svc.Add(ctx, "s1", "a", 1, "")
	require.NoError(t, err)
	assert.Equal(t, c.Order_number, again.Order_number)
}

func TestServiceAddUnknownItem(t *testing.T) {
	svc := newTestService(fakeCatalog{})

	_, err := svc.Add(context.Background(), "s1", "ghost", 1, "")

	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestServiceUpdateQuantityChecksStock(t *testing.T) {
	svc := newTestService(fakeCatalog{"a": menuItem("a", 1000, 3)})
	ctx := context.Background()
	_, err := svc.Add(ctx, "s1", "a", 1, "")
	require.NoError(t, err)

	_, err = svc.UpdateQuantity(ctx, "s1", "a", 4)
	assert.True(t, errors.Is(err, apperr.ErrInsufficientStock))

	c, err := svc.UpdateQuantity(ctx, "s1", "a", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, c.QuantityOf("a"))

	c, err = svc.UpdateQuantity(ctx, "s1", "a", 0)
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}

func TestServiceNoteDiscountAndClear(t *testing.T) {
	svc := newTestService(fakeCatalog{"a": menuItem("a", 15000, 10)})
	ctx := context.Background()
	_, err := svc.Add(ctx, "s1", "a", 2, "")
	require.NoError(t, err)

	c, err := svc.UpdateNote(ctx, "s1", "a", "no onion")
	require.NoError(t, err)
	assert.Equal(t, "no onion", c.Lines[0].Note)

	c, err = svc.ToggleOrderDiscount(ctx, "s1", true)
	require.NoError(t, err)
	assert.Equal(t, pricing.Money(1500), c.Totals.OrderDiscount)

	c, err = svc.Remove(ctx, "s1", "a")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())

	require.NoError(t, svc.Clear(ctx, "s1"))
	c, err = svc.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, c.Order_number)
}

func TestServiceNewDraftNumberAfterEmptying(t *testing.T) {
	svc := newTestService(fakeCatalog{"a": menuItem("a", 25000, 10)})
	ctx := context.Background()

	first, err := svc.Add(ctx, "s1", "a", 1, "")
	require.NoError(t, err)
	emptied, err := svc.Remove(ctx, "s1", "a")
	require.NoError(t, err)
	assert.Empty(t, emptied.Order_number)

	second, err := svc.Add(ctx, "s1", "a", 1, "")
	require.NoError(t, err)
	assert.NotEmpty(t, second.Order_number)
	assert.NotEqual(t, first.Order_number, second.Order_number)
}
