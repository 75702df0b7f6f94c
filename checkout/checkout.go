// Package checkout turns a session cart into a persisted order. The commit
// and the cancellation each run inside one store transaction.
package checkout

import (
	"context"
	"fmt"
	"time"

	"go-restaurant-pos/apperr"
	"go-restaurant-pos/cart"
	"go-restaurant-pos/models"
	"go-restaurant-pos/pricing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Repository is the persistence the checkout needs. Every method called from
// inside WithTransaction must use the ctx handed to fn.
type Repository interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	GetMenuItemById(ctx context.Context, menuID string) (*models.MenuItem, error)
	// AdjustStock adds delta to the item's stock and returns the stock before
	// the change. A decrement that would go below zero fails InsufficientStock.
	AdjustStock(ctx context.Context, menuID string, delta int) (int, error)
	RecordStockChange(ctx context.Context, change *models.StockChange) error

	NextOrderNumber(ctx context.Context, day time.Time) (string, error)
	CreateOrder(ctx context.Context, order *models.Order, details []models.OrderDetail) error
	GetOrderById(ctx context.Context, orderID string) (*models.Order, error)
	GetOrderDetails(ctx context.Context, orderID string) ([]models.OrderDetail, error)
	ListOrders(ctx context.Context, filter models.OrderFilter) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status models.OrderStatus, at time.Time) error
	DailySummary(ctx context.Context, from, to time.Time) (models.DailySummary, error)

	CreatePayment(ctx context.Context, payment *models.Payment) error
	ListPayments(ctx context.Context, orderID string) ([]models.Payment, error)
}

// RatesProvider supplies the order-level settings at commit time.
type RatesProvider interface {
	Rates(ctx context.Context) (pricing.Rates, error)
}

// Request is what the cashier submits with the checkout form.
type Request struct {
	Customer_name  string
	Order_type     models.OrderType
	Table_number   *int
	Payment_method models.PaymentMethod
	Cash_tendered  pricing.Money
	Cashier_id     string
}

// Result is the committed order.
type Result struct {
	Order   models.Order         `json:"order"`
	Details []models.OrderDetail `json:"order_details"`
	Payment models.Payment       `json:"payment"`
}

type Service struct {
	repo  Repository
	carts cart.Store
	rates RatesProvider
	now   func() time.Time
}

func NewService(repo Repository, carts cart.Store, rates RatesProvider) *Service {
	return &Service{repo: repo, carts: carts, rates: rates, now: time.Now}
}

// WithClock replaces the clock used for order dates.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Checkout commits the session cart. The cart is claimed first so a second
// submission of the same cart fails Conflict instead of committing twice; a
// failed commit releases the claim. The cart is cleared only after the order
// is durable. If clearing fails, the committed result is still returned
// together with the error.
func (s *Service) Checkout(ctx context.Context, sessionID string, req Request) (*Result, error) {
	claimedAt := s.now()
	c, err := s.carts.Update(ctx, sessionID, func(c cart.Cart) (cart.Cart, error) {
		return c.Claim(claimedAt)
	})
	if err != nil {
		return nil, err
	}
	result, err := s.Commit(ctx, c, req)
	if err != nil {
		s.carts.Update(ctx, sessionID, func(c cart.Cart) (cart.Cart, error) {
			return c.Release(claimedAt), nil
		})
		return nil, err
	}
	if err := s.carts.Delete(ctx, sessionID); err != nil {
		return result, err
	}
	return result, nil
}

// Commit validates the cart against the live catalog and persists the order,
// its details, the stock decrements and the payment as one unit.
//
// Preconditions are checked in order and the first failure wins: cart not
// empty, every item present and active, every quantity within stock, cash
// covers the total, dine in orders carry a positive table number. Presence
// and the active flag are checked across all lines before any stock.
func (s *Service) Commit(ctx context.Context, c cart.Cart, req Request) (*Result, error) {
	const op = "checkout.Commit"
	if c.IsEmpty() {
		return nil, apperr.New(op, apperr.KindEmptyCart, "", "cart is empty")
	}
	rates, err := s.rates.Rates(ctx)
	if err != nil {
		return nil, apperr.Persistence(op, err)
	}
	totals := pricing.Summarize(c.PricedLines(), c.Apply_discount, rates)
	now := s.now()

	var result *Result
	err = s.repo.WithTransaction(ctx, func(ctx context.Context) error {
		items := make([]*models.MenuItem, len(c.Lines))
		for i, line := range c.Lines {
			item, err := s.availableItem(ctx, line)
			if err != nil {
				return err
			}
			items[i] = item
		}
		for i, line := range c.Lines {
			if line.Quantity > items[i].Stock {
				return apperr.New(op, apperr.KindInsufficientStock, line.Menu_id,
					fmt.Sprintf("only %d %s left in stock", items[i].Stock, items[i].Name))
			}
		}
		if req.Cash_tendered < totals.Total {
			return apperr.New(op, apperr.KindInsufficientPayment, "",
				fmt.Sprintf("cash tendered %d is less than total %d", req.Cash_tendered, totals.Total))
		}
		table, err := tableFor(req)
		if err != nil {
			return err
		}

		number, err := s.repo.NextOrderNumber(ctx, now)
		if err != nil {
			return apperr.Persistence(op, err)
		}
		order := newOrder(number, req, table, totals, now)
		details := make([]models.OrderDetail, len(c.Lines))
		for i, line := range c.Lines {
			details[i] = newDetail(order.Order_id, line, now)
		}
		if err := s.repo.CreateOrder(ctx, &order, details); err != nil {
			return apperr.Persistence(op, err)
		}

		for _, line := range c.Lines {
			previous, err := s.repo.AdjustStock(ctx, line.Menu_id, -line.Quantity)
			if err != nil {
				return apperr.Persistence(op, err)
			}
			change := models.NewStockChange(line.Menu_id, req.Cashier_id, previous, previous-line.Quantity,
				models.ReasonOrderReduction, "", now)
			change.Order_id = order.Order_id
			if err := s.repo.RecordStockChange(ctx, &change); err != nil {
				return apperr.Persistence(op, err)
			}
		}

		payment := newPayment(order.Order_id, req.Payment_method, req.Cash_tendered,
			pricing.Change(req.Cash_tendered, totals.Total), now)
		if err := s.repo.CreatePayment(ctx, &payment); err != nil {
			return apperr.Persistence(op, err)
		}

		result = &Result{Order: order, Details: details, Payment: payment}
		return nil
	})
	if err != nil {
		return nil, apperr.Persistence(op, err)
	}
	return result, nil
}

// availableItem loads the live item behind a cart line and checks it is
// still on the menu and active.
func (s *Service) availableItem(ctx context.Context, line cart.Line) (*models.MenuItem, error) {
	const op = "checkout.Commit"
	item, err := s.repo.GetMenuItemById(ctx, line.Menu_id)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.New(op, apperr.KindNotFound, line.Menu_id, fmt.Sprintf("%s is no longer on the menu", line.Name))
		}
		return nil, apperr.Persistence(op, err)
	}
	if !item.Is_active {
		return nil, apperr.New(op, apperr.KindInactive, line.Menu_id, fmt.Sprintf("%s is not available", item.Name))
	}
	return item, nil
}

func tableFor(req Request) (*int, error) {
	if req.Order_type != models.DineIn {
		return nil, nil
	}
	if req.Table_number == nil || *req.Table_number <= 0 {
		return nil, apperr.New("checkout.Commit", apperr.KindMissingTableNumber, "", "table number is required for dine in orders")
	}
	table := *req.Table_number
	return &table, nil
}

func newOrder(number string, req Request, table *int, totals pricing.Totals, now time.Time) models.Order {
	id := primitive.NewObjectID()
	return models.Order{
		ID:                  id,
		Order_id:            id.Hex(),
		Order_number:        number,
		Customer_name:       req.Customer_name,
		Order_type:          req.Order_type,
		Table_number:        table,
		Order_date:          now,
		Subtotal:            totals.Subtotal,
		Discount_amount:     totals.OrderDiscount,
		Menu_discount_total: totals.MenuDiscountTotal,
		Tax_amount:          totals.Tax,
		Total_amount:        totals.Total,
		Status:              models.StatusCompleted,
		User_id:             req.Cashier_id,
		Created_at:          now,
		Updated_at:          now,
	}
}

func newDetail(orderID string, line cart.Line, now time.Time) models.OrderDetail {
	id := primitive.NewObjectID()
	return models.OrderDetail{
		ID:               id,
		Order_detail_id:  id.Hex(),
		Order_id:         orderID,
		Menu_id:          line.Menu_id,
		Menu_name:        line.Name,
		Quantity:         line.Quantity,
		Unit_price:       line.Price.UnitPrice,
		Original_price:   line.Price.OriginalPrice,
		Discount_percent: line.Price.DiscountPercent,
		Discount_amount:  line.Price.DiscountAmount,
		Subtotal:         line.Price.UnitPrice * pricing.Money(line.Quantity),
		Note:             line.Note,
		Created_at:       now,
	}
}

func newPayment(orderID string, method models.PaymentMethod, amount, change pricing.Money, now time.Time) models.Payment {
	if method == "" {
		method = models.PaymentCash
	}
	id := primitive.NewObjectID()
	return models.Payment{
		ID:             id,
		Payment_id:     id.Hex(),
		Order_id:       orderID,
		Payment_method: method,
		Amount_paid:    amount,
		Change_amount:  change,
		Paid_at:        now,
	}
}
