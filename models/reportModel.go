package models

import (
	"time"

	"go-restaurant-pos/pricing"
)

// OrderFilter narrows the dashboard order list. Zero values mean no filter.
type OrderFilter struct {
	Status OrderStatus
	From   time.Time
	To     time.Time
	Limit  int64
}

// Matches applies the filter to a single order.
func (f OrderFilter) Matches(o *Order) bool {
	if f.Status != "" && o.Status != f.Status {
		return false
	}
	if !f.From.IsZero() && o.Order_date.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && !o.Order_date.Before(f.To) {
		return false
	}
	return true
}

// DailySummary is the dashboard headline for one day.
type DailySummary struct {
	Day              string        `json:"day" bson:"-"`
	Completed_orders int64         `json:"completed_orders" bson:"completed_orders"`
	Canceled_orders  int64         `json:"canceled_orders" bson:"canceled_orders"`
	Gross_sales      pricing.Money `json:"gross_sales" bson:"gross_sales"`
	Tax_collected    pricing.Money `json:"tax_collected" bson:"tax_collected"`
	Discounts_given  pricing.Money `json:"discounts_given" bson:"discounts_given"`
}

// MenuFilter narrows the menu list.
type MenuFilter struct {
	Category_id     string
	IncludeInactive bool
}
