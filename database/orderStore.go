package database

import (
	"context"
	"time"

	"go-restaurant-pos/apperr"
	"go-restaurant-pos/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (s *MongoStore) CreateOrder(ctx context.Context, order *models.Order, details []models.OrderDetail) error {
	if _, err := s.collection(orderCollection).InsertOne(ctx, order); err != nil {
		return err
	}
	if len(details) == 0 {
		return nil
	}
	docs := make([]interface{}, len(details))
	for i := range details {
		docs[i] = details[i]
	}
	_, err := s.collection(orderDetailCollection).InsertMany(ctx, docs)
	return err
}

func (s *MongoStore) GetOrderById(ctx context.Context, orderID string) (*models.Order, error) {
	var order models.Order
	if err := findOne(ctx, s.collection(orderCollection), bson.M{"order_id": orderID}, &order, "database.GetOrderById", orderID); err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *MongoStore) GetOrderDetails(ctx context.Context, orderID string) ([]models.OrderDetail, error) {
	cursor, err := s.collection(orderDetailCollection).Find(ctx, bson.M{"order_id": orderID},
		options.Find().SetSort(bson.D{{"_id", 1}}))
	if err != nil {
		return nil, err
	}
	details := []models.OrderDetail{}
	if err := cursor.All(ctx, &details); err != nil {
		return nil, err
	}
	return details, nil
}

func (s *MongoStore) ListOrders(ctx context.Context, filter models.OrderFilter) ([]models.Order, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	date := bson.M{}
	if !filter.From.IsZero() {
		date["$gte"] = filter.From
	}
	if !filter.To.IsZero() {
		date["$lt"] = filter.To
	}
	if len(date) > 0 {
		query["order_date"] = date
	}

	opts := options.Find().SetSort(bson.D{{"order_date", -1}})
	if filter.Limit > 0 {
		opts.SetLimit(filter.Limit)
	}
	cursor, err := s.collection(orderCollection).Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *MongoStore) UpdateOrderStatus(ctx context.Context, orderID string, status models.OrderStatus, at time.Time) error {
	result, err := s.collection(orderCollection).UpdateOne(ctx,
		bson.M{"order_id": orderID},
		bson.D{{"$set", bson.D{
			{"status", status},
			{"updated_at", at},
		}}},
		options.Update().SetUpsert(false),
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperr.New("database.UpdateOrderStatus", apperr.KindNotFound, orderID, "")
	}
	return nil
}

// DailySummary groups the orders dated in [from, to). Only completed orders
// reach the money totals; pending and preparing orders are not counted.
func (s *MongoStore) DailySummary(ctx context.Context, from, to time.Time) (models.DailySummary, error) {
	completed := bson.D{{"$eq", bson.A{"$status", models.StatusCompleted}}}
	sumIfCompleted := func(expr interface{}) bson.D {
		return bson.D{{"$sum", bson.D{{"$cond", bson.A{completed, expr, 0}}}}}
	}

	match := bson.D{{"$match", bson.D{{"order_date", bson.D{{"$gte", from}, {"$lt", to}}}}}}
	group := bson.D{{"$group", bson.D{
		{"_id", nil},
		{"completed_orders", sumIfCompleted(1)},
		{"canceled_orders", bson.D{{"$sum", bson.D{{"$cond", bson.A{
			bson.D{{"$eq", bson.A{"$status", models.StatusCanceled}}}, 1, 0,
		}}}}}},
		{"gross_sales", sumIfCompleted("$total_amount")},
		{"tax_collected", sumIfCompleted("$tax_amount")},
		{"discounts_given", sumIfCompleted(bson.D{{"$add", bson.A{"$discount_amount", "$menu_discount_total"}}})},
	}}}

	cursor, err := s.collection(orderCollection).Aggregate(ctx, mongo.Pipeline{match, group})
	if err != nil {
		return models.DailySummary{}, err
	}
	var rows []models.DailySummary
	if err := cursor.All(ctx, &rows); err != nil {
		return models.DailySummary{}, err
	}
	if len(rows) == 0 {
		return models.DailySummary{}, nil
	}
	return rows[0], nil
}

func (s *MongoStore) CreatePayment(ctx context.Context, payment *models.Payment) error {
	_, err := s.collection(paymentCollection).InsertOne(ctx, payment)
	return err
}

func (s *MongoStore) ListPayments(ctx context.Context, orderID string) ([]models.Payment, error) {
	cursor, err := s.collection(paymentCollection).Find(ctx, bson.M{"order_id": orderID},
		options.Find().SetSort(bson.D{{"paid_at", 1}, {"_id", 1}}))
	if err != nil {
		return nil, err
	}
	payments := []models.Payment{}
	if err := cursor.All(ctx, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}
