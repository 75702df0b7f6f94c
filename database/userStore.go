package database

import (
	"context"
	"time"

	"go-restaurant-pos/apperr"
	"go-restaurant-pos/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const settingID = "restaurant"

func (s *MongoStore) CreateUser(ctx context.Context, user *models.User) error {
	_, err := s.collection(userCollection).InsertOne(ctx, user)
	return err
}

func (s *MongoStore) GetUserById(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	if err := findOne(ctx, s.collection(userCollection), bson.M{"user_id": userID}, &user, "database.GetUserById", userID); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *MongoStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := findOne(ctx, s.collection(userCollection), bson.M{"email": email}, &user, "database.GetUserByEmail", email); err != nil {
		return nil, err
	}
	return &user, nil
}

// CountUsersWith counts users holding either the email or the phone.
func (s *MongoStore) CountUsersWith(ctx context.Context, email, phone string) (int64, error) {
	return s.collection(userCollection).CountDocuments(ctx, bson.M{"$or": bson.A{
		bson.M{"email": email},
		bson.M{"phone": phone},
	}})
}

func (s *MongoStore) ListUsers(ctx context.Context) ([]models.User, error) {
	cursor, err := s.collection(userCollection).Find(ctx, bson.M{},
		options.Find().SetProjection(bson.M{"password": 0, "token": 0, "refresh_token": 0}).SetSort(bson.D{{"created_at", 1}}))
	if err != nil {
		return nil, err
	}
	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *MongoStore) UpdateAllTokens(ctx context.Context, userID, token, refreshToken string) error {
	var updateObj primitive.D
	updateObj = append(updateObj, bson.E{"token", token})
	updateObj = append(updateObj, bson.E{"refresh_token", refreshToken})
	updateObj = append(updateObj, bson.E{"updated_at", s.now().UTC().Truncate(time.Second)})

	result, err := s.collection(userCollection).UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.D{{"$set", updateObj}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperr.New("database.UpdateAllTokens", apperr.KindNotFound, userID, "")
	}
	return nil
}

// GetSettings returns NotFound until an administrator saves settings once.
func (s *MongoStore) GetSettings(ctx context.Context) (*models.Setting, error) {
	var setting models.Setting
	if err := findOne(ctx, s.collection(settingCollection), bson.M{"_id": settingID}, &setting, "database.GetSettings", settingID); err != nil {
		return nil, err
	}
	return &setting, nil
}

func (s *MongoStore) SaveSettings(ctx context.Context, setting *models.Setting) error {
	_, err := s.collection(settingCollection).ReplaceOne(ctx,
		bson.M{"_id": settingID},
		setting,
		options.Replace().SetUpsert(true),
	)
	return err
}
