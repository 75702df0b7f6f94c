package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type StockChangeReason string

const (
	ReasonOrderReduction    StockChangeReason = "Order Reduction"
	ReasonOrderCancellation StockChangeReason = "Order Cancellation"
	ReasonRestock           StockChangeReason = "Restock"
	ReasonManualAdjustment  StockChangeReason = "Manual Adjustment"
	ReasonWaste             StockChangeReason = "Waste"
)

func ParseStockChangeReason(s string) (StockChangeReason, error) {
	switch StockChangeReason(s) {
	case ReasonOrderReduction, ReasonOrderCancellation, ReasonRestock, ReasonManualAdjustment, ReasonWaste:
		return StockChangeReason(s), nil
	case "":
		return ReasonManualAdjustment, nil
	}
	return "", fmt.Errorf("unknown stock change reason %q", s)
}

// StockChange is an immutable audit entry for one inventory change.
type StockChange struct {
	ID              primitive.ObjectID `bson:"_id" json:"-"`
	Stock_change_id string             `bson:"stock_change_id" json:"stock_change_id"`
	Menu_id         string             `bson:"menu_id" json:"menu_id"`
	User_id         string             `bson:"user_id" json:"user_id"`
	Previous_stock  int                `bson:"previous_stock" json:"previous_stock"`
	New_stock       int                `bson:"new_stock" json:"new_stock"`
	Delta           int                `bson:"delta" json:"delta"`
	Reason          StockChangeReason  `bson:"reason" json:"reason"`
	Notes           string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Order_id        string             `bson:"order_id,omitempty" json:"order_id,omitempty"`
	Created_at      time.Time          `bson:"created_at" json:"created_at"`
}

// NewStockChange fills the delta and a fresh id.
func NewStockChange(menuID, userID string, previous, next int, reason StockChangeReason, notes string, at time.Time) StockChange {
	id := primitive.NewObjectID()
	return StockChange{
		ID:              id,
		Stock_change_id: id.Hex(),
		Menu_id:         menuID,
		User_id:         userID,
		Previous_stock:  previous,
		New_stock:       next,
		Delta:           next - previous,
		Reason:          reason,
		Notes:           notes,
		Created_at:      at,
	}
}
