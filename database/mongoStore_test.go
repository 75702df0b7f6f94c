package database

import (
	"context"
	"os"
	"testing"
	"time"

	"go-restaurant-pos/apperr"
	"go-restaurant-pos/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestMongo connects to MONGODB_TEST_URL, which must point at a replica
// set. Each test gets its own database, dropped on cleanup.
func setupTestMongo(t *testing.T) *MongoStore {
	t.Helper()
	uri := os.Getenv("MONGODB_TEST_URL")
	if uri == "" {
		t.Skip("MONGODB_TEST_URL not set")
	}
	ctx := context.Background()
	client, err := DBinstance(ctx, uri)
	require.NoError(t, err)

	name := "pos_test_" + uuid.NewString()[:8]
	store := NewMongoStore(client, name)
	require.NoError(t, store.EnsureIndexes(ctx))
	t.Cleanup(func() {
		_ = client.Database(name).Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	return store
}

func TestMongoAdjustStockAndRollback(t *testing.T) {
	s := setupTestMongo(t)
	ctx := context.Background()
	require.NoError(t, s.CreateMenuItem(ctx, &models.MenuItem{Menu_id: "a", Name: "Item a", Price: 10000, Stock: 3, Is_active: true}))

	_, err := s.AdjustStock(ctx, "a", -4)
	assert.ErrorIs(t, err, apperr.ErrInsufficientStock)

	err = s.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.AdjustStock(ctx, "a", -3); err != nil {
			return err
		}
		return apperr.New("test", apperr.KindPreconditionFailed, "", "")
	})
	assert.ErrorIs(t, err, apperr.ErrPreconditionFailed)

	item, err := s.GetMenuItemById(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 3, item.Stock)
}

func TestMongoOrderNumberCounter(t *testing.T) {
	s := setupTestMongo(t)
	ctx := context.Background()
	at := time.Date(2026, 5, 2, 9, 0, 0, 0, time.UTC)

	first, err := s.NextOrderNumber(ctx, at)
	require.NoError(t, err)
	second, err := s.NextOrderNumber(ctx, at)
	require.NoError(t, err)

	assert.Equal(t, "ORD-20260502-0001", first)
	assert.Equal(t, "ORD-20260502-0002", second)
}
