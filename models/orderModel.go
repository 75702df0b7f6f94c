package models

import (
	"fmt"
	"time"

	"go-restaurant-pos/pricing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderType string

const (
	DineIn   OrderType = "Dine In"
	TakeAway OrderType = "Take Away"
)

// ParseOrderType accepts only the two known order types.
func ParseOrderType(s string) (OrderType, error) {
	switch OrderType(s) {
	case DineIn, TakeAway:
		return OrderType(s), nil
	}
	return "", fmt.Errorf("order_type must be one of: %q, %q", DineIn, TakeAway)
}

type OrderStatus string

const (
	StatusPending   OrderStatus = "Pending"
	StatusPreparing OrderStatus = "Preparing"
	StatusCompleted OrderStatus = "Completed"
	StatusCanceled  OrderStatus = "Canceled"
)

// ParseOrderStatus accepts only the four known statuses.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case StatusPending, StatusPreparing, StatusCompleted, StatusCanceled:
		return OrderStatus(s), nil
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

// CanTransitionTo lists the dashboard transitions. Cancellation goes through
// the cancel path because it restores stock.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusPreparing || next == StatusCompleted
	case StatusPreparing:
		return next == StatusCompleted
	}
	return false
}

type Order struct {
	ID                  primitive.ObjectID `bson:"_id" json:"-"`
	Order_id            string             `bson:"order_id" json:"order_id"`
	Order_number        string             `bson:"order_number" json:"order_number"`
	Customer_name       string             `bson:"customer_name" json:"customer_name"`
	Order_type          OrderType          `bson:"order_type" json:"order_type"`
	Table_number        *int               `bson:"table_number,omitempty" json:"table_number,omitempty"`
	Order_date          time.Time          `bson:"order_date" json:"order_date"`
	Subtotal            pricing.Money      `bson:"subtotal" json:"subtotal"`
	Discount_amount     pricing.Money      `bson:"discount_amount" json:"discount_amount"`
	Menu_discount_total pricing.Money      `bson:"menu_discount_total" json:"menu_discount_total"`
	Tax_amount          pricing.Money      `bson:"tax_amount" json:"tax_amount"`
	Total_amount        pricing.Money      `bson:"total_amount" json:"total_amount"`
	Status              OrderStatus        `bson:"status" json:"status"`
	User_id             string             `bson:"user_id" json:"user_id"`
	Created_at          time.Time          `bson:"created_at" json:"created_at"`
	Updated_at          time.Time          `bson:"updated_at" json:"updated_at"`
}

// OrderDetail is one cart line frozen at commit time.
type OrderDetail struct {
	ID               primitive.ObjectID `bson:"_id" json:"-"`
	Order_detail_id  string             `bson:"order_detail_id" json:"order_detail_id"`
	Order_id         string             `bson:"order_id" json:"order_id"`
	Menu_id          string             `bson:"menu_id" json:"menu_id"`
	Menu_name        string             `bson:"menu_name" json:"menu_name"`
	Quantity         int                `bson:"quantity" json:"quantity"`
	Unit_price       pricing.Money      `bson:"unit_price" json:"unit_price"`
	Original_price   pricing.Money      `bson:"original_price" json:"original_price"`
	Discount_percent float64            `bson:"discount_percent" json:"discount_percent"`
	Discount_amount  pricing.Money      `bson:"discount_amount" json:"discount_amount"`
	Subtotal         pricing.Money      `bson:"subtotal" json:"subtotal"`
	Note             string             `bson:"note,omitempty" json:"note,omitempty"`
	Created_at       time.Time          `bson:"created_at" json:"created_at"`
}

// PricedLine turns the frozen values back into a pricing line.
func (d *OrderDetail) PricedLine() pricing.Line {
	return pricing.Line{
		Snapshot: pricing.LineSnapshot{
			UnitPrice:       d.Unit_price,
			OriginalPrice:   d.Original_price,
			DiscountPercent: d.Discount_percent,
			DiscountAmount:  d.Discount_amount,
		},
		Quantity: d.Quantity,
	}
}

// OrderWithDetails is the dashboard view of an order.
type OrderWithDetails struct {
	Order    Order         `json:"order"`
	Details  []OrderDetail `json:"order_details"`
	Payments []Payment     `json:"payments"`
}
