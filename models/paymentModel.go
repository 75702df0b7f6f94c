package models

import (
	"fmt"
	"time"

	"go-restaurant-pos/pricing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PaymentMethod string

const (
	PaymentCash  PaymentMethod = "Cash"
	PaymentDebit PaymentMethod = "Debit"
	PaymentQRIS  PaymentMethod = "QRIS"
)

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(s) {
	case PaymentCash, PaymentDebit, PaymentQRIS:
		return PaymentMethod(s), nil
	case "":
		return PaymentCash, nil
	}
	return "", fmt.Errorf("unknown payment method %q", s)
}

// Payment is append-only. A refund is a second row with a negative amount.
type Payment struct {
	ID             primitive.ObjectID `bson:"_id" json:"-"`
	Payment_id     string             `bson:"payment_id" json:"payment_id"`
	Order_id       string             `bson:"order_id" json:"order_id"`
	Payment_method PaymentMethod      `bson:"payment_method" json:"payment_method"`
	Amount_paid    pricing.Money      `bson:"amount_paid" json:"amount_paid"`
	Change_amount  pricing.Money      `bson:"change_amount" json:"change_amount"`
	Paid_at        time.Time          `bson:"paid_at" json:"paid_at"`
}

func (p *Payment) IsRefund() bool {
	return p.Amount_paid < 0
}
