// Package cart holds the session-scoped order draft. Every transition is a
// method on a Cart value that returns a new Cart, leaving the receiver
// untouched, and ends with a full recompute of the rollups.
package cart

import (
	"fmt"
	"time"

	"go-restaurant-pos/apperr"
	"go-restaurant-pos/models"
	"go-restaurant-pos/pricing"
)

type Line struct {
	Menu_id  string               `json:"menu_id"`
	Name     string               `json:"name"`
	Price    pricing.LineSnapshot `json:"price"`
	Quantity int                  `json:"quantity"`
	Subtotal pricing.Money        `json:"subtotal"`
	Note     string               `json:"note"`
}

func (l Line) priced() pricing.Line {
	return pricing.Line{Snapshot: l.Price, Quantity: l.Quantity}
}

type Cart struct {
	Order_number   string         `json:"order_number"`
	Lines          []Line         `json:"lines"`
	Apply_discount bool           `json:"apply_discount"`
	Totals         pricing.Totals `json:"totals"`
	// Checkout_started is set while a checkout holds the cart.
	Checkout_started *time.Time `json:"checkout_started,omitempty"`
}

// ClaimTimeout is how long a started checkout keeps the cart locked. A claim
// older than this is treated as abandoned.
const ClaimTimeout = time.Minute

// IsEmpty reports whether the cart has no lines.
func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Line returns the line for a menu item.
func (c Cart) Line(menuID string) (Line, bool) {
	if i := c.index(menuID); i >= 0 {
		return c.Lines[i], true
	}
	return Line{}, false
}

// QuantityOf returns how many units of a menu item are already in the cart.
func (c Cart) QuantityOf(menuID string) int {
	l, _ := c.Line(menuID)
	return l.Quantity
}

// PricedLines converts the cart lines for the pricing functions.
func (c Cart) PricedLines() []pricing.Line {
	lines := make([]pricing.Line, len(c.Lines))
	for i, l := range c.Lines {
		lines[i] = l.priced()
	}
	return lines
}

func (c Cart) index(menuID string) int {
	for i, l := range c.Lines {
		if l.Menu_id == menuID {
			return i
		}
	}
	return -1
}

func (c Cart) clone() Cart {
	c.Lines = append([]Line(nil), c.Lines...)
	return c
}

// Recompute rebuilds line subtotals and the cart totals from the lines alone.
func (c Cart) Recompute(rates pricing.Rates) Cart {
	c = c.clone()
	for i := range c.Lines {
		c.Lines[i].Subtotal = pricing.LineSubtotal(c.Lines[i].priced())
	}
	c.Totals = pricing.Summarize(c.PricedLines(), c.Apply_discount, rates)
	return c
}

// Add puts quantity units of item into the cart. An item already in the cart
// is merged into its existing line and keeps its original price snapshot;
// a non-empty note replaces the existing one.
func (c Cart) Add(item *models.MenuItem, quantity int, note string, now time.Time, rates pricing.Rates) (Cart, error) {
	const op = "cart.Add"
	if item == nil {
		return c, apperr.New(op, apperr.KindNotFound, "", "menu item not found")
	}
	if quantity <= 0 {
		return c, apperr.New(op, apperr.KindInvalidQuantity, item.Menu_id, "quantity must be greater than zero")
	}
	if !item.Is_active {
		return c, apperr.New(op, apperr.KindInactive, item.Menu_id, fmt.Sprintf("%s is not available", item.Name))
	}
	existing := c.QuantityOf(item.Menu_id)
	if item.Stock < existing+quantity {
		return c, apperr.New(op, apperr.KindInsufficientStock, item.Menu_id,
			fmt.Sprintf("only %d %s left in stock", item.Stock, item.Name))
	}

	next := c.clone()
	if i := next.index(item.Menu_id); i >= 0 {
		next.Lines[i].Quantity += quantity
		if note != "" {
			next.Lines[i].Note = note
		}
	} else {
		next.Lines = append(next.Lines, Line{
			Menu_id:  item.Menu_id,
			Name:     item.Name,
			Price:    pricing.Snapshot(item.CatalogPrice(), now),
			Quantity: quantity,
			Note:     note,
		})
	}
	return next.Recompute(rates), nil
}

// UpdateQuantity sets a line's quantity, removing the line when quantity <= 0.
// The price snapshot and note are left as they are.
func (c Cart) UpdateQuantity(menuID string, quantity int, rates pricing.Rates) (Cart, error) {
	i := c.index(menuID)
	if i < 0 {
		return c, apperr.New("cart.UpdateQuantity", apperr.KindNotFound, menuID, "item is not in the cart")
	}
	if quantity <= 0 {
		return c.Remove(menuID, rates)
	}
	next := c.clone()
	next.Lines[i].Quantity = quantity
	return next.Recompute(rates), nil
}

// UpdateNote replaces a line's note verbatim, empty string included.
func (c Cart) UpdateNote(menuID, note string, rates pricing.Rates) (Cart, error) {
	i := c.index(menuID)
	if i < 0 {
		return c, apperr.New("cart.UpdateNote", apperr.KindNotFound, menuID, "item is not in the cart")
	}
	next := c.clone()
	next.Lines[i].Note = note
	return next.Recompute(rates), nil
}

// Remove deletes a line. Removing the last line drops the draft number.
func (c Cart) Remove(menuID string, rates pricing.Rates) (Cart, error) {
	i := c.index(menuID)
	if i < 0 {
		return c, apperr.New("cart.Remove", apperr.KindNotFound, menuID, "item is not in the cart")
	}
	next := c.clone()
	next.Lines = append(next.Lines[:i], next.Lines[i+1:]...)
	if next.IsEmpty() {
		next.Order_number = ""
		next.Apply_discount = false
	}
	return next.Recompute(rates), nil
}

// Clear empties the cart and drops its order number.
func (c Cart) Clear() Cart {
	return Cart{}
}

// ToggleOrderDiscount sets or clears the order-level discount. Menu discounts
// already inside the line prices are not touched. The discount minimum only
// blocks the toggle when rates.EnforceMinimum is set.
func (c Cart) ToggleOrderDiscount(apply bool, rates pricing.Rates) (Cart, error) {
	const op = "cart.ToggleOrderDiscount"
	if c.IsEmpty() {
		return c, apperr.New(op, apperr.KindEmptyCart, "", "cart is empty")
	}
	if apply && rates.EnforceMinimum {
		subtotal := pricing.CartSubtotal(c.PricedLines())
		if !pricing.IsDiscountEligible(subtotal, rates.DiscountMinimum) {
			return c, apperr.New(op, apperr.KindPreconditionFailed, "",
				fmt.Sprintf("order discount requires a subtotal of at least %d", rates.DiscountMinimum))
		}
	}
	next := c.clone()
	next.Apply_discount = apply
	return next.Recompute(rates), nil
}

// Claimed reports whether a checkout started less than ClaimTimeout ago.
func (c Cart) Claimed(now time.Time) bool {
	return c.Checkout_started != nil && now.Sub(*c.Checkout_started) < ClaimTimeout
}

// Claim marks the cart as held by a checkout. A second claim while the first
// is live fails Conflict.
func (c Cart) Claim(now time.Time) (Cart, error) {
	const op = "cart.Claim"
	if c.IsEmpty() {
		return c, apperr.New(op, apperr.KindEmptyCart, "", "cart is empty")
	}
	if c.Claimed(now) {
		return c, apperr.New(op, apperr.KindConflict, c.Order_number, "checkout already in progress for this cart")
	}
	next := c.clone()
	at := now
	next.Checkout_started = &at
	return next, nil
}

// Release drops the claim taken at the given instant. A newer claim is left
// alone.
func (c Cart) Release(claimedAt time.Time) Cart {
	if c.Checkout_started == nil || !c.Checkout_started.Equal(claimedAt) {
		return c
	}
	next := c.clone()
	next.Checkout_started = nil
	return next
}
