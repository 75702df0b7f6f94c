package database

import (
	"context"
	"errors"
	"fmt"

	"go-restaurant-pos/apperr"
	"go-restaurant-pos/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (s *MongoStore) CreateCategory(ctx context.Context, category *models.Category) error {
	_, err := s.collection(categoryCollection).InsertOne(ctx, category)
	return err
}

func (s *MongoStore) GetCategoryById(ctx context.Context, categoryID string) (*models.Category, error) {
	var category models.Category
	if err := findOne(ctx, s.collection(categoryCollection), bson.M{"category_id": categoryID}, &category, "database.GetCategoryById", categoryID); err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *MongoStore) ListCategories(ctx context.Context, includeInactive bool) ([]models.Category, error) {
	filter := bson.M{}
	if !includeInactive {
		filter["is_active"] = true
	}
	cursor, err := s.collection(categoryCollection).Find(ctx, filter, options.Find().SetSort(bson.D{{"name", 1}}))
	if err != nil {
		return nil, err
	}
	categories := []models.Category{}
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *MongoStore) UpdateCategory(ctx context.Context, category *models.Category) error {
	result, err := s.collection(categoryCollection).UpdateOne(ctx,
		bson.M{"category_id": category.Category_id},
		bson.D{{"$set", bson.D{
			{"name", category.Name},
			{"description", category.Description},
			{"is_active", category.Is_active},
			{"updated_at", category.Updated_at},
		}}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperr.New("database.UpdateCategory", apperr.KindNotFound, category.Category_id, "")
	}
	return nil
}

func (s *MongoStore) CreateMenuItem(ctx context.Context, item *models.MenuItem) error {
	_, err := s.collection(menuCollection).InsertOne(ctx, item)
	return err
}

func (s *MongoStore) GetMenuItemById(ctx context.Context, menuID string) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := findOne(ctx, s.collection(menuCollection), bson.M{"menu_id": menuID}, &item, "database.GetMenuItemById", menuID); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *MongoStore) ListMenuItems(ctx context.Context, filter models.MenuFilter) ([]models.MenuItem, error) {
	query := bson.M{}
	if filter.Category_id != "" {
		query["category_id"] = filter.Category_id
	}
	if !filter.IncludeInactive {
		query["is_active"] = true
	}
	cursor, err := s.collection(menuCollection).Find(ctx, query, options.Find().SetSort(bson.D{{"name", 1}}))
	if err != nil {
		return nil, err
	}
	items := []models.MenuItem{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateMenuItem writes every field except stock, which only moves through
// AdjustStock so each change is audited.
func (s *MongoStore) UpdateMenuItem(ctx context.Context, item *models.MenuItem) error {
	var updateObj bson.D
	updateObj = append(updateObj,
		bson.E{"category_id", item.Category_id},
		bson.E{"name", item.Name},
		bson.E{"description", item.Description},
		bson.E{"price", item.Price},
		bson.E{"is_active", item.Is_active},
		bson.E{"discount_percent", item.Discount_percent},
		bson.E{"discount_start", item.Discount_start},
		bson.E{"discount_end", item.Discount_end},
		bson.E{"is_discount_active", item.Is_discount_active},
		bson.E{"updated_at", item.Updated_at},
	)
	result, err := s.collection(menuCollection).UpdateOne(ctx,
		bson.M{"menu_id": item.Menu_id},
		bson.D{{"$set", updateObj}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperr.New("database.UpdateMenuItem", apperr.KindNotFound, item.Menu_id, "")
	}
	return nil
}

// AdjustStock applies delta with a guarded $inc and returns the stock before
// the change. A decrement only matches when enough stock is left.
func (s *MongoStore) AdjustStock(ctx context.Context, menuID string, delta int) (int, error) {
	const op = "database.AdjustStock"
	filter := bson.M{"menu_id": menuID}
	if delta < 0 {
		filter["stock"] = bson.M{"$gte": -delta}
	}
	var before models.MenuItem
	err := s.collection(menuCollection).FindOneAndUpdate(ctx, filter,
		bson.D{
			{"$inc", bson.D{{"stock", delta}}},
			{"$set", bson.D{{"updated_at", s.now()}}},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.Before),
	).Decode(&before)
	if err == nil {
		return before.Stock, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return 0, err
	}

	count, err := s.collection(menuCollection).CountDocuments(ctx, bson.M{"menu_id": menuID})
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, apperr.New(op, apperr.KindNotFound, menuID, "menu item not found")
	}
	return 0, apperr.New(op, apperr.KindInsufficientStock, menuID, fmt.Sprintf("cannot take %d from stock", -delta))
}

func (s *MongoStore) RecordStockChange(ctx context.Context, change *models.StockChange) error {
	_, err := s.collection(stockChangeCollection).InsertOne(ctx, change)
	return err
}

func (s *MongoStore) ListStockChanges(ctx context.Context, menuID string) ([]models.StockChange, error) {
	cursor, err := s.collection(stockChangeCollection).Find(ctx, bson.M{"menu_id": menuID},
		options.Find().SetSort(bson.D{{"created_at", -1}, {"_id", -1}}))
	if err != nil {
		return nil, err
	}
	changes := []models.StockChange{}
	if err := cursor.All(ctx, &changes); err != nil {
		return nil, err
	}
	return changes, nil
}
