package models

import (
	"time"

	"go-restaurant-pos/pricing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MenuItem struct {
	ID                 primitive.ObjectID `bson:"_id" json:"-"`
	Menu_id            string             `bson:"menu_id" json:"menu_id"`
	Category_id        string             `bson:"category_id" json:"category_id" validate:"required"`
	Name               string             `bson:"name" json:"name" validate:"required,min=2,max=100"`
	Description        string             `bson:"description" json:"description" validate:"max=500"`
	Price              pricing.Money      `bson:"price" json:"price" validate:"min=0"`
	Stock              int                `bson:"stock" json:"stock" validate:"min=0"`
	Is_active          bool               `bson:"is_active" json:"is_active"`
	Discount_percent   float64            `bson:"discount_percent" json:"discount_percent" validate:"min=0,max=100"`
	Discount_start     *time.Time         `bson:"discount_start,omitempty" json:"discount_start,omitempty"`
	Discount_end       *time.Time         `bson:"discount_end,omitempty" json:"discount_end,omitempty"`
	Is_discount_active bool               `bson:"is_discount_active" json:"is_discount_active"`
	Created_at         time.Time          `bson:"created_at" json:"created_at"`
	Updated_at         time.Time          `bson:"updated_at" json:"updated_at"`
}

// CatalogPrice is the live price of the item.
func (m *MenuItem) CatalogPrice() pricing.CatalogPrice {
	return pricing.CatalogPrice{
		Base: m.Price,
		Discount: pricing.Discount{
			Percent: m.Discount_percent,
			Start:   m.Discount_start,
			End:     m.Discount_end,
			Active:  m.Is_discount_active,
		},
	}
}

// FinalPrice is the price a customer pays at the given instant.
func (m *MenuItem) FinalPrice(at time.Time) pricing.Money {
	return pricing.EffectivePrice(m.CatalogPrice(), at)
}

// HasDiscount reports whether the menu discount is in effect at the given instant.
func (m *MenuItem) HasDiscount(at time.Time) bool {
	return m.CatalogPrice().Discount.InEffect(at)
}
