package cart

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go-restaurant-pos/apperr"
	"go-restaurant-pos/models"
	"go-restaurant-pos/pricing"

	"github.com/google/uuid"
)

// Catalog looks up live menu items.
type Catalog interface {
	GetMenuItemById(ctx context.Context, menuID string) (*models.MenuItem, error)
}

// RatesProvider supplies the current order-level settings.
type RatesProvider interface {
	Rates(ctx context.Context) (pricing.Rates, error)
}

// Service runs the cart handlers: look up what the transition needs, apply
// it inside the store's read-modify-write and persist the result.
type Service struct {
	store   Store
	catalog Catalog
	rates   RatesProvider
	now     func() time.Time
}

func NewService(store Store, catalog Catalog, rates RatesProvider) *Service {
	return &Service{store: store, catalog: catalog, rates: rates, now: time.Now}
}

// WithClock replaces the clock used for discount windows and draft numbers.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// DraftNumber is shown on the order screen until checkout assigns the
// sequenced order number.
func DraftNumber(at time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("DRAFT-%s-%s", at.Format("20060102"), suffix)
}

func (s *Service) lookup(ctx context.Context, op, menuID string) (*models.MenuItem, error) {
	item, err := s.catalog.GetMenuItemById(ctx, menuID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.New(op, apperr.KindNotFound, menuID, "menu item not found")
		}
		return nil, apperr.Persistence(op, err)
	}
	if item == nil {
		return nil, apperr.New(op, apperr.KindNotFound, menuID, "menu item not found")
	}
	return item, nil
}

func (s *Service) mutate(ctx context.Context, sessionID string, fn func(Cart, pricing.Rates, time.Time) (Cart, error)) (Cart, error) {
	rates, err := s.rates.Rates(ctx)
	if err != nil {
		return Cart{}, apperr.Persistence("cart.rates", err)
	}
	now := s.now()
	return s.store.Update(ctx, sessionID, func(c Cart) (Cart, error) {
		if c.Claimed(now) {
			return Cart{}, apperr.New("cart.Update", apperr.KindConflict, sessionID, "checkout in progress, cart is locked")
		}
		next, err := fn(c, rates, now)
		if err != nil {
			return Cart{}, err
		}
		if next.Order_number == "" && !next.IsEmpty() {
			next.Order_number = DraftNumber(now)
		}
		return next, nil
	})
}

// Get returns the session cart with totals recomputed under the current rates.
func (s *Service) Get(ctx context.Context, sessionID string) (Cart, error) {
	rates, err := s.rates.Rates(ctx)
	if err != nil {
		return Cart{}, apperr.Persistence("cart.rates", err)
	}
	c, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return Cart{}, err
	}
	return c.Recompute(rates), nil
}

// Add validates the menu item against the catalog and adds it to the cart.
func (s *Service) Add(ctx context.Context, sessionID, menuID string, quantity int, note string) (Cart, error) {
	if quantity <= 0 {
		return Cart{}, apperr.New("cart.Add", apperr.KindInvalidQuantity, menuID, "quantity must be greater than zero")
	}
	item, err := s.lookup(ctx, "cart.Add", menuID)
	if err != nil {
		return Cart{}, err
	}
	return s.mutate(ctx, sessionID, func(c Cart, rates pricing.Rates, now time.Time) (Cart, error) {
		return c.Add(item, quantity, note, now, rates)
	})
}

// UpdateQuantity changes a line's quantity; zero or less removes the line.
// Raising a quantity is checked against the live stock.
func (s *Service) UpdateQuantity(ctx context.Context, sessionID, menuID string, quantity int) (Cart, error) {
	var item *models.MenuItem
	if quantity > 0 {
		var err error
		if item, err = s.lookup(ctx, "cart.UpdateQuantity", menuID); err != nil {
			return Cart{}, err
		}
	}
	return s.mutate(ctx, sessionID, func(c Cart, rates pricing.Rates, _ time.Time) (Cart, error) {
		if item != nil && quantity > c.QuantityOf(menuID) && item.Stock < quantity {
			return Cart{}, apperr.New("cart.UpdateQuantity", apperr.KindInsufficientStock, menuID,
				fmt.Sprintf("only %d %s left in stock", item.Stock, item.Name))
		}
		return c.UpdateQuantity(menuID, quantity, rates)
	})
}

// UpdateNote replaces a line's note.
func (s *Service) UpdateNote(ctx context.Context, sessionID, menuID, note string) (Cart, error) {
	return s.mutate(ctx, sessionID, func(c Cart, rates pricing.Rates, _ time.Time) (Cart, error) {
		return c.UpdateNote(menuID, note, rates)
	})
}

// Remove deletes a line.
func (s *Service) Remove(ctx context.Context, sessionID, menuID string) (Cart, error) {
	return s.mutate(ctx, sessionID, func(c Cart, rates pricing.Rates, _ time.Time) (Cart, error) {
		return c.Remove(menuID, rates)
	})
}

// ToggleOrderDiscount applies or removes the order-level discount.
func (s *Service) ToggleOrderDiscount(ctx context.Context, sessionID string, apply bool) (Cart, error) {
	return s.mutate(ctx, sessionID, func(c Cart, rates pricing.Rates, _ time.Time) (Cart, error) {
		return c.ToggleOrderDiscount(apply, rates)
	})
}

// Clear drops the session cart.
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	return s.store.Delete(ctx, sessionID)
}
