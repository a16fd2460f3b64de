package digest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupDeliveriesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	deliveries := `
CREATE TABLE IF NOT EXISTS digest_deliveries (
  id TEXT PRIMARY KEY,
  preset TEXT NOT NULL,
  period_start TEXT NOT NULL,
  period_end TEXT NOT NULL,
  body TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  published_at DATETIME,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(deliveries).Error)
	require.NoError(t, db.Exec("DELETE FROM digest_deliveries").Error)
	return db
}

func newTestEvent() Event {
	return Event{
		ID:        uuid.NewString(),
		Preset:    "last7",
		StartDate: "2026-08-20",
		EndDate:   "2026-08-26",
		Body:      "**BrandPulse Digest**",
		CreatedAt: time.Date(2026, 8, 27, 6, 0, 0, 0, time.UTC),
	}
}

func TestRecordPublishedInsertsPendingRow(t *testing.T) {
	db := setupDeliveriesTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	event := newTestEvent()
	delivery, err := repo.RecordPublished(ctx, event)
	require.NoError(t, err)
	require.NotNil(t, delivery)

	assert.Equal(t, event.ID, delivery.ID.String())
	assert.Equal(t, DeliveryStatusPending, delivery.Status)
	assert.Equal(t, "last7", delivery.Preset)
	assert.Equal(t, "2026-08-20", delivery.PeriodStart)
	assert.Equal(t, "2026-08-26", delivery.PeriodEnd)
	require.NotNil(t, delivery.PublishedAt)
	assert.Equal(t, event.CreatedAt, delivery.PublishedAt.UTC())

	found, err := repo.FindByID(ctx, delivery.ID)
	require.NoError(t, err)
	assert.Equal(t, event.Body, found.Body)
	assert.Equal(t, DeliveryStatusPending, found.Status)
}

func TestRecordPublishedRejectsBadEventID(t *testing.T) {
	db := setupDeliveriesTestDB(t)
	repo := NewRepository(db)

	event := newTestEvent()
	event.ID = "not-a-uuid"

	_, err := repo.RecordPublished(context.Background(), event)
	require.Error(t, err)
}

func TestMarkStatusTransitionsDelivery(t *testing.T) {
	db := setupDeliveriesTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	delivery, err := repo.RecordPublished(ctx, newTestEvent())
	require.NoError(t, err)

	require.NoError(t, repo.MarkStatus(ctx, delivery.ID, DeliveryStatusDelivered))

	found, err := repo.FindByID(ctx, delivery.ID)
	require.NoError(t, err)
	assert.Equal(t, DeliveryStatusDelivered, found.Status)

	require.NoError(t, repo.MarkStatus(ctx, delivery.ID, DeliveryStatusFailed))

	found, err = repo.FindByID(ctx, delivery.ID)
	require.NoError(t, err)
	assert.Equal(t, DeliveryStatusFailed, found.Status)
}

func TestFindByIDMissingDelivery(t *testing.T) {
	db := setupDeliveriesTestDB(t)
	repo := NewRepository(db)

	_, err := repo.FindByID(context.Background(), uuid.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListRecentOrdersNewestFirst(t *testing.T) {
	db := setupDeliveriesTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 8, 25, 6, 0, 0, 0, time.UTC)
	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		event := newTestEvent()
		delivery, err := repo.RecordPublished(ctx, event)
		require.NoError(t, err)
		require.NoError(t, db.Model(&Delivery{}).
			Where("id = ?", delivery.ID).
			Update("created_at", base.Add(time.Duration(i)*time.Hour)).Error)
		ids = append(ids, delivery.ID)
	}

	recent, err := repo.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, ids[2], recent[0].ID)
	assert.Equal(t, ids[1], recent[1].ID)
}
