package checkout

import (
	"context"
	"fmt"
	"time"

	"go-restaurant-pos/apperr"
	"go-restaurant-pos/models"
	"go-restaurant-pos/pricing"
)

// GetOrder returns the order with its frozen lines and payment rows.
func (s *Service) GetOrder(ctx context.Context, orderID string) (*models.OrderWithDetails, error) {
	const op = "checkout.GetOrder"
	order, err := s.repo.GetOrderById(ctx, orderID)
	if err != nil {
		return nil, notFoundOr(op, orderID, err)
	}
	details, err := s.repo.GetOrderDetails(ctx, orderID)
	if err != nil {
		return nil, apperr.Persistence(op, err)
	}
	payments, err := s.repo.ListPayments(ctx, orderID)
	if err != nil {
		return nil, apperr.Persistence(op, err)
	}
	return &models.OrderWithDetails{Order: *order, Details: details, Payments: payments}, nil
}

func (s *Service) ListOrders(ctx context.Context, filter models.OrderFilter) ([]models.Order, error) {
	orders, err := s.repo.ListOrders(ctx, filter)
	if err != nil {
		return nil, apperr.Persistence("checkout.ListOrders", err)
	}
	return orders, nil
}

// UpdateStatus moves an order along the kitchen flow. Canceled is routed to
// CancelOrder so the stock comes back.
func (s *Service) UpdateStatus(ctx context.Context, orderID string, next models.OrderStatus, actorID string) (*models.Order, error) {
	const op = "checkout.UpdateStatus"
	if next == models.StatusCanceled {
		return s.CancelOrder(ctx, orderID, actorID)
	}
	var updated *models.Order
	err := s.repo.WithTransaction(ctx, func(ctx context.Context) error {
		order, err := s.repo.GetOrderById(ctx, orderID)
		if err != nil {
			return notFoundOr(op, orderID, err)
		}
		if !order.Status.CanTransitionTo(next) {
			return apperr.New(op, apperr.KindInvalidTransition, orderID,
				fmt.Sprintf("cannot move order from %s to %s", order.Status, next))
		}
		now := s.now()
		if err := s.repo.UpdateOrderStatus(ctx, orderID, next, now); err != nil {
			return apperr.Persistence(op, err)
		}
		order.Status = next
		order.Updated_at = now
		updated = order
		return nil
	})
	if err != nil {
		return nil, apperr.Persistence(op, err)
	}
	return updated, nil
}

// CancelOrder restores every line's stock, marks the order Canceled and
// appends a refund row for whatever was actually collected.
func (s *Service) CancelOrder(ctx context.Context, orderID string, actorID string) (*models.Order, error) {
	const op = "checkout.CancelOrder"
	var canceled *models.Order
	err := s.repo.WithTransaction(ctx, func(ctx context.Context) error {
		order, err := s.repo.GetOrderById(ctx, orderID)
		if err != nil {
			return notFoundOr(op, orderID, err)
		}
		if order.Status == models.StatusCanceled {
			return apperr.New(op, apperr.KindPreconditionFailed, orderID, "order is already canceled")
		}
		details, err := s.repo.GetOrderDetails(ctx, orderID)
		if err != nil {
			return apperr.Persistence(op, err)
		}
		now := s.now()
		for _, d := range details {
			previous, err := s.repo.AdjustStock(ctx, d.Menu_id, d.Quantity)
			if err != nil {
				return apperr.Persistence(op, err)
			}
			change := models.NewStockChange(d.Menu_id, actorID, previous, previous+d.Quantity,
				models.ReasonOrderCancellation, "order "+order.Order_number+" canceled", now)
			change.Order_id = orderID
			if err := s.repo.RecordStockChange(ctx, &change); err != nil {
				return apperr.Persistence(op, err)
			}
		}
		if err := s.repo.UpdateOrderStatus(ctx, orderID, models.StatusCanceled, now); err != nil {
			return apperr.Persistence(op, err)
		}

		payments, err := s.repo.ListPayments(ctx, orderID)
		if err != nil {
			return apperr.Persistence(op, err)
		}
		if collected := NetCollected(payments); collected > 0 {
			refund := newPayment(orderID, payments[0].Payment_method, -collected, 0, now)
			if err := s.repo.CreatePayment(ctx, &refund); err != nil {
				return apperr.Persistence(op, err)
			}
		}

		order.Status = models.StatusCanceled
		order.Updated_at = now
		canceled = order
		return nil
	})
	if err != nil {
		return nil, apperr.Persistence(op, err)
	}
	return canceled, nil
}

// NetCollected is what the till kept for an order: payments minus change,
// with refunds already negative.
func NetCollected(payments []models.Payment) pricing.Money {
	var total pricing.Money
	for _, p := range payments {
		total += p.Amount_paid - p.Change_amount
	}
	return total
}

// DailySummary totals the orders dated on the given day in the given location.
func (s *Service) DailySummary(ctx context.Context, day time.Time) (models.DailySummary, error) {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	summary, err := s.repo.DailySummary(ctx, from, from.AddDate(0, 0, 1))
	if err != nil {
		return models.DailySummary{}, apperr.Persistence("checkout.DailySummary", err)
	}
	summary.Day = from.Format("2006-01-02")
	return summary, nil
}

func notFoundOr(op, id string, err error) error {
	if apperr.IsNotFound(err) {
		return apperr.New(op, apperr.KindNotFound, id, "order not found")
	}
	return apperr.Persistence(op, err)
}
