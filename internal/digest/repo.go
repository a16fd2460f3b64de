package digest

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DeliveryStatus tracks a digest through the delivery pipeline.
type DeliveryStatus string

const (
	DeliveryStatusPending   DeliveryStatus = "pending"
	DeliveryStatusDelivered DeliveryStatus = "delivered"
	DeliveryStatusFailed    DeliveryStatus = "failed"
)

// Delivery is the persisted record of a published digest.
type Delivery struct {
	ID          uuid.UUID      `gorm:"column:id;primaryKey"`
	Preset      string         `gorm:"column:preset"`
	PeriodStart string         `gorm:"column:period_start"`
	PeriodEnd   string         `gorm:"column:period_end"`
	Body        string         `gorm:"column:body"`
	Status      DeliveryStatus `gorm:"column:status"`
	PublishedAt *time.Time     `gorm:"column:published_at"`
	CreatedAt   time.Time      `gorm:"column:created_at"`
}

func (Delivery) TableName() string {
	return "digest_deliveries"
}

// Repository exposes digest delivery persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a repository bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// RecordPublished inserts a pending delivery row for a published digest.
func (r *Repository) RecordPublished(ctx context.Context, event Event) (*Delivery, error) {
	id, err := uuid.Parse(event.ID)
	if err != nil {
		return nil, err
	}
	publishedAt := event.CreatedAt
	delivery := &Delivery{
		ID:          id,
		Preset:      event.Preset,
		PeriodStart: event.StartDate,
		PeriodEnd:   event.EndDate,
		Body:        event.Body,
		Status:      DeliveryStatusPending,
		PublishedAt: &publishedAt,
		CreatedAt:   time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(delivery).Error; err != nil {
		return nil, err
	}
	return delivery, nil
}

// MarkStatus transitions a delivery to delivered or failed.
func (r *Repository) MarkStatus(ctx context.Context, id uuid.UUID, status DeliveryStatus) error {
	return r.db.WithContext(ctx).
		Model(&Delivery{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// FindByID retrieves a delivery record.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*Delivery, error) {
	var d Delivery
	if err := r.db.WithContext(ctx).First(&d, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

// ListRecent returns the newest deliveries, most recent first.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]Delivery, error) {
	if limit <= 0 {
		limit = 20
	}
	var out []Delivery
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
