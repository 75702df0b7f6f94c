package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go-restaurant-pos/apperr"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names.
const (
	userCollection        = "user"
	categoryCollection    = "category"
	menuCollection        = "menu"
	orderCollection       = "order"
	orderDetailCollection = "orderDetail"
	paymentCollection     = "payment"
	stockChangeCollection = "stockChange"
	counterCollection     = "counter"
	settingCollection     = "setting"
)

// DBinstance connects to MongoDB and pings the primary.
func DBinstance(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	log.Println("connected to mongodb")
	return client, nil
}

func OpenCollection(client *mongo.Client, dbName, collectionName string) *mongo.Collection {
	return client.Database(dbName).Collection(collectionName)
}

// MongoStore implements every repository the services need on one database.
// Transactions require a replica set or sharded cluster.
type MongoStore struct {
	client *mongo.Client
	dbName string
	now    func() time.Time
}

func NewMongoStore(client *mongo.Client, dbName string) *MongoStore {
	return &MongoStore{client: client, dbName: dbName, now: time.Now}
}

func (s *MongoStore) collection(name string) *mongo.Collection {
	return OpenCollection(s.client, s.dbName, name)
}

// WithTransaction runs fn inside a session transaction. The driver retries
// fn on transient errors, so fn must be safe to run more than once.
func (s *MongoStore) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := s.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// EnsureIndexes creates the unique business keys.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	unique := func(collection string, keys ...string) error {
		doc := bson.D{}
		for _, k := range keys {
			doc = append(doc, bson.E{Key: k, Value: 1})
		}
		_, err := s.collection(collection).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    doc,
			Options: options.Index().SetUnique(true),
		})
		return err
	}
	for collection, key := range map[string]string{
		userCollection:        "email",
		categoryCollection:    "category_id",
		menuCollection:        "menu_id",
		orderCollection:       "order_id",
		orderDetailCollection: "order_detail_id",
		paymentCollection:     "payment_id",
		stockChangeCollection: "stock_change_id",
	} {
		if err := unique(collection, key); err != nil {
			return fmt.Errorf("index %s.%s: %w", collection, key, err)
		}
	}
	if err := unique(orderCollection, "order_number"); err != nil {
		return fmt.Errorf("index order.order_number: %w", err)
	}
	_, err := s.collection(orderCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "order_date", Value: -1}},
	})
	return err
}

// NextOrderNumber increments the per-day counter and formats the order number.
func (s *MongoStore) NextOrderNumber(ctx context.Context, day time.Time) (string, error) {
	dayKey := day.Format("20060102")
	var counter struct {
		Seq int `bson:"seq"`
	}
	err := s.collection(counterCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": "order-" + dayKey},
		bson.D{{"$inc", bson.D{{"seq", 1}}}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return "", err
	}
	return FormatOrderNumber(day, counter.Seq), nil
}

// FormatOrderNumber renders ORD-YYYYMMDD-NNNN.
func FormatOrderNumber(day time.Time, seq int) string {
	return fmt.Sprintf("ORD-%s-%04d", day.Format("20060102"), seq)
}

func findOne(ctx context.Context, c *mongo.Collection, filter interface{}, out interface{}, op, id string) error {
	err := c.FindOne(ctx, filter).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperr.New(op, apperr.KindNotFound, id, "")
	}
	return err
}
