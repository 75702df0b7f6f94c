package models

import (
	"time"

	"go-restaurant-pos/pricing"
)

// Setting is the single administration document. Tax is not editable here.
type Setting struct {
	Restaurant_name        string        `bson:"restaurant_name" json:"restaurant_name" validate:"required,max=100"`
	Restaurant_address     string        `bson:"restaurant_address" json:"restaurant_address" validate:"max=255"`
	Restaurant_phone       string        `bson:"restaurant_phone" json:"restaurant_phone" validate:"max=30"`
	Order_discount_percent float64       `bson:"order_discount_percent" json:"order_discount_percent" validate:"min=0,max=100"`
	Discount_min_amount    pricing.Money `bson:"discount_min_amount" json:"discount_min_amount" validate:"min=0"`
	Enforce_min_amount     bool          `bson:"enforce_min_amount" json:"enforce_min_amount"`
	Tax_percent            float64       `bson:"tax_percent" json:"tax_percent"`
	Updated_at             time.Time     `bson:"updated_at" json:"updated_at"`
}

// Rates extracts the pricing settings.
func (s *Setting) Rates() pricing.Rates {
	return pricing.Rates{
		OrderDiscountPercent: s.Order_discount_percent,
		DiscountMinimum:      s.Discount_min_amount,
		TaxPercent:           s.Tax_percent,
		EnforceMinimum:       s.Enforce_min_amount,
	}
}
