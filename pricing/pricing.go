// Package pricing computes line, cart and order totals. Every function is
// pure: no storage, no clock reads, no logging.
//
// Currency is whole units (no fractional currency). Any computation that
// produces a fraction rounds to the nearest unit, half away from zero.
package pricing

import (
	"time"

	"github.com/shopspring/decimal"
)

// Money represents a monetary value in whole currency units.
type Money = int64

var hundred = decimal.NewFromInt(100)

// Discount is the time-bounded percentage reduction configured on a menu item.
// A nil Start or End leaves that side of the window open.
type Discount struct {
	Percent float64
	Start   *time.Time
	End     *time.Time
	Active  bool
}

// InEffect reports whether the discount applies at the given instant.
// Both window bounds are inclusive.
func (d Discount) InEffect(at time.Time) bool {
	if !d.Active || d.Percent <= 0 {
		return false
	}
	if d.Start != nil && at.Before(*d.Start) {
		return false
	}
	if d.End != nil && at.After(*d.End) {
		return false
	}
	return true
}

// CatalogPrice is the live price of a menu item as held by the catalog.
// It is only ever read at the moment a line enters or is re-added to a cart.
type CatalogPrice struct {
	Base     Money
	Discount Discount
}

// LineSnapshot is the price of a menu item frozen at the moment it entered
// the cart. Cart recomputes and order commits use it, never the catalog.
type LineSnapshot struct {
	UnitPrice       Money   `json:"unit_price" bson:"unit_price"`
	OriginalPrice   Money   `json:"original_price" bson:"original_price"`
	DiscountPercent float64 `json:"discount_percent" bson:"discount_percent"`
	DiscountAmount  Money   `json:"discount_amount" bson:"discount_amount"` // per unit
}

// Line is a snapshot with a quantity.
type Line struct {
	Snapshot LineSnapshot
	Quantity int
}

// Rates are the order-level settings used when summarizing a cart.
type Rates struct {
	OrderDiscountPercent float64 `json:"order_discount_percent"`
	DiscountMinimum      Money   `json:"discount_minimum"`
	TaxPercent           float64 `json:"tax_percent"`
	// EnforceMinimum turns the discount minimum into a hard precondition.
	// When false the minimum is advisory only.
	EnforceMinimum bool `json:"enforce_minimum"`
}

// DefaultRates returns the stock settings: 5% order discount from 50,000, 11% PPN.
func DefaultRates() Rates {
	return Rates{
		OrderDiscountPercent: 5,
		DiscountMinimum:      50000,
		TaxPercent:           11,
	}
}

// Totals is the rollup of a cart or order.
type Totals struct {
	Subtotal          Money `json:"subtotal"`
	MenuDiscountTotal Money `json:"menu_discount_total"`
	OrderDiscount     Money `json:"order_discount"`
	Tax               Money `json:"tax"`
	Total             Money `json:"total"`
	DiscountApplied   bool  `json:"discount_applied"`
	DiscountEligible  bool  `json:"discount_eligible"`
}

func round(d decimal.Decimal) Money {
	return d.Round(0).IntPart()
}

func percentOf(amount Money, percent float64) decimal.Decimal {
	return decimal.NewFromInt(amount).Mul(decimal.NewFromFloat(percent)).Div(hundred)
}

// EffectivePrice returns the discounted price when the discount is in effect
// at the given instant, otherwise the base price.
func EffectivePrice(p CatalogPrice, at time.Time) Money {
	if !p.Discount.InEffect(at) {
		return p.Base
	}
	return round(percentOf(p.Base, 100-p.Discount.Percent))
}

// Snapshot freezes the catalog price at the given instant.
func Snapshot(p CatalogPrice, at time.Time) LineSnapshot {
	unit := EffectivePrice(p, at)
	s := LineSnapshot{
		UnitPrice:     unit,
		OriginalPrice: p.Base,
	}
	if unit < p.Base {
		s.DiscountPercent = p.Discount.Percent
		s.DiscountAmount = p.Base - unit
	}
	return s
}

// LineSubtotal is unit price times quantity.
func LineSubtotal(l Line) Money {
	return l.Snapshot.UnitPrice * Money(l.Quantity)
}

// CartSubtotal sums the line subtotals.
func CartSubtotal(lines []Line) Money {
	var subtotal Money
	for _, l := range lines {
		subtotal += LineSubtotal(l)
	}
	return subtotal
}

// MenuDiscountTotal sums the per-unit menu discounts captured on each line.
// It is informational; the amounts are already inside the unit prices.
func MenuDiscountTotal(lines []Line) Money {
	var total Money
	for _, l := range lines {
		if l.Snapshot.DiscountAmount > 0 {
			total += l.Snapshot.DiscountAmount * Money(l.Quantity)
		}
	}
	return total
}

// IsDiscountEligible reports whether subtotal reaches the order discount minimum.
func IsDiscountEligible(subtotal, minimum Money) bool {
	return subtotal >= minimum
}

// OrderDiscountAmount is ratePercent of subtotal.
func OrderDiscountAmount(subtotal Money, ratePercent float64) Money {
	return round(percentOf(subtotal, ratePercent))
}

// Tax is ratePercent of the subtotal after the order discount, never negative.
func Tax(subtotal, orderDiscount Money, ratePercent float64) Money {
	taxable := subtotal - orderDiscount
	if taxable < 0 {
		taxable = 0
	}
	return round(percentOf(taxable, ratePercent))
}

// PreTax is the subtotal after the order discount.
func PreTax(subtotal, orderDiscount Money) Money {
	return subtotal - orderDiscount
}

// Total is subtotal minus order discount plus tax.
func Total(subtotal, orderDiscount, tax Money) Money {
	return subtotal - orderDiscount + tax
}

// Change is the cash to hand back, never negative.
func Change(cashTendered, total Money) Money {
	if cashTendered < total {
		return 0
	}
	return cashTendered - total
}

// Summarize recomputes every rollup from the lines. It is a pure function
// of its inputs, so calling it twice yields identical totals.
func Summarize(lines []Line, applyOrderDiscount bool, rates Rates) Totals {
	t := Totals{
		Subtotal:          CartSubtotal(lines),
		MenuDiscountTotal: MenuDiscountTotal(lines),
	}
	t.DiscountEligible = IsDiscountEligible(t.Subtotal, rates.DiscountMinimum)
	if applyOrderDiscount && (t.DiscountEligible || !rates.EnforceMinimum) {
		t.DiscountApplied = true
		t.OrderDiscount = OrderDiscountAmount(t.Subtotal, rates.OrderDiscountPercent)
	}
	t.Tax = Tax(t.Subtotal, t.OrderDiscount, rates.TaxPercent)
	t.Total = Total(t.Subtotal, t.OrderDiscount, t.Tax)
	return t
}
