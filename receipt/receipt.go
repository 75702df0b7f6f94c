// Package receipt projects a completed, paid order into the printable
// receipt. Nothing here writes.
package receipt

import (
	"context"
	"strconv"
	"time"

	"go-restaurant-pos/apperr"
	"go-restaurant-pos/models"
	"go-restaurant-pos/pricing"
	"go-restaurant-pos/settings"
)

type Source interface {
	GetOrderById(ctx context.Context, orderID string) (*models.Order, error)
	GetOrderDetails(ctx context.Context, orderID string) ([]models.OrderDetail, error)
	ListPayments(ctx context.Context, orderID string) ([]models.Payment, error)
	GetUserById(ctx context.Context, userID string) (*models.User, error)
}

type IdentityProvider interface {
	Identity(ctx context.Context) (settings.Identity, error)
}

type Item struct {
	Name             string        `json:"name"`
	Quantity         int           `json:"quantity"`
	Unit_price       pricing.Money `json:"unit_price"`
	Original_price   pricing.Money `json:"original_price"`
	Discount_percent float64       `json:"discount_percent,omitempty"`
	Discount_label   string        `json:"discount_label,omitempty"`
	Subtotal         pricing.Money `json:"subtotal"`
	Note             string        `json:"note,omitempty"`
}

type Receipt struct {
	Restaurant settings.Identity `json:"restaurant"`

	Order_number  string           `json:"order_number"`
	Order_date    time.Time        `json:"order_date"`
	Order_type    models.OrderType `json:"order_type"`
	Table_number  *int             `json:"table_number,omitempty"`
	Customer_name string           `json:"customer_name"`
	Cashier_name  string           `json:"cashier_name"`

	Items []Item `json:"items"`

	Subtotal            pricing.Money `json:"subtotal"`
	Menu_discount_total pricing.Money `json:"menu_discount_total"`
	Order_discount      pricing.Money `json:"order_discount"`
	Total_savings       pricing.Money `json:"total_savings"`
	Pre_tax_total       pricing.Money `json:"pre_tax_total"`
	Tax_amount          pricing.Money `json:"tax_amount"`
	Total_amount        pricing.Money `json:"total_amount"`

	Payment_method models.PaymentMethod `json:"payment_method"`
	Amount_paid    pricing.Money        `json:"amount_paid"`
	Change_amount  pricing.Money        `json:"change_amount"`
}

// DiscountLabel renders "-10%" style labels; empty when there is no discount.
func DiscountLabel(percent float64) string {
	if percent <= 0 {
		return ""
	}
	return "-" + strconv.FormatFloat(percent, 'f', -1, 64) + "%"
}

// Printable reports whether an order can have a receipt: it is Completed
// and has at least one payment.
func Printable(order *models.Order, payments []models.Payment) bool {
	return order.Status == models.StatusCompleted && firstPayment(payments) != nil
}

func firstPayment(payments []models.Payment) *models.Payment {
	for i := range payments {
		if !payments[i].IsRefund() {
			return &payments[i]
		}
	}
	return nil
}

// Build assembles the receipt. Line savings are re-derived from the frozen
// details; the header totals are taken as stored.
func Build(order *models.Order, details []models.OrderDetail, payments []models.Payment, cashier string, identity settings.Identity) (*Receipt, error) {
	if !Printable(order, payments) {
		return nil, apperr.New("receipt.Build", apperr.KindPreconditionFailed, order.Order_id,
			"receipt is only available for completed and paid orders")
	}
	payment := firstPayment(payments)

	items := make([]Item, len(details))
	lines := make([]pricing.Line, len(details))
	for i := range details {
		d := &details[i]
		lines[i] = d.PricedLine()
		items[i] = Item{
			Name:             d.Menu_name,
			Quantity:         d.Quantity,
			Unit_price:       d.Unit_price,
			Original_price:   d.Original_price,
			Discount_percent: d.Discount_percent,
			Discount_label:   DiscountLabel(d.Discount_percent),
			Subtotal:         pricing.LineSubtotal(lines[i]),
			Note:             d.Note,
		}
	}
	menuDiscount := pricing.MenuDiscountTotal(lines)

	return &Receipt{
		Restaurant:          identity,
		Order_number:        order.Order_number,
		Order_date:          order.Order_date,
		Order_type:          order.Order_type,
		Table_number:        order.Table_number,
		Customer_name:       order.Customer_name,
		Cashier_name:        cashier,
		Items:               items,
		Subtotal:            order.Subtotal,
		Menu_discount_total: menuDiscount,
		Order_discount:      order.Discount_amount,
		Total_savings:       menuDiscount + order.Discount_amount,
		Pre_tax_total:       pricing.PreTax(order.Subtotal, order.Discount_amount),
		Tax_amount:          order.Tax_amount,
		Total_amount:        order.Total_amount,
		Payment_method:      payment.Payment_method,
		Amount_paid:         payment.Amount_paid,
		Change_amount:       payment.Change_amount,
	}, nil
}

type Generator struct {
	source   Source
	identity IdentityProvider
}

func NewGenerator(source Source, identity IdentityProvider) *Generator {
	return &Generator{source: source, identity: identity}
}

// Generate loads the order and builds its receipt. A cashier that no longer
// exists is printed by id.
func (g *Generator) Generate(ctx context.Context, orderID string) (*Receipt, error) {
	const op = "receipt.Generate"
	order, err := g.source.GetOrderById(ctx, orderID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.New(op, apperr.KindNotFound, orderID, "order not found")
		}
		return nil, apperr.Persistence(op, err)
	}
	payments, err := g.source.ListPayments(ctx, orderID)
	if err != nil {
		return nil, apperr.Persistence(op, err)
	}
	if !Printable(order, payments) {
		return nil, apperr.New(op, apperr.KindPreconditionFailed, orderID,
			"receipt is only available for completed and paid orders")
	}
	details, err := g.source.GetOrderDetails(ctx, orderID)
	if err != nil {
		return nil, apperr.Persistence(op, err)
	}

	cashier := order.User_id
	user, err := g.source.GetUserById(ctx, order.User_id)
	switch {
	case err == nil && user.Name != nil:
		cashier = *user.Name
	case err != nil && !apperr.IsNotFound(err):
		return nil, apperr.Persistence(op, err)
	}

	identity, err := g.identity.Identity(ctx)
	if err != nil {
		return nil, err
	}
	return Build(order, details, payments, cashier, identity)
}
