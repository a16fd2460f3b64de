package digest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/dcastano/brandpulse-backend/internal/insights"
	"github.com/dcastano/brandpulse-backend/pkg/logger"
	"github.com/google/uuid"
)

// Service composes digests and, on publish, hands them to the delivery
// pipeline. Preview is a dry run for manual posting flows.
type Service interface {
	Preview(ctx context.Context, brands []string, preset string) (*Event, error)
	Publish(ctx context.Context, brands []string, preset string) (*Event, error)
}

// Publisher pushes a composed digest onto the delivery pipeline.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type deliveryRecorder interface {
	RecordPublished(ctx context.Context, event Event) (*Delivery, error)
}

type service struct {
	dashboard  insights.Service
	publisher  Publisher
	deliveries deliveryRecorder
	logg       *logger.Logger
	topN       int
	now        func() time.Time
}

// NewService wires the digest composer over the dashboard service. The
// publisher may be nil, in which case Publish returns an error while Preview
// keeps working. The repository is optional; without it published digests are
// not recorded.
func NewService(dashboard insights.Service, publisher Publisher, deliveries *Repository, logg *logger.Logger, topN int) (Service, error) {
	if dashboard == nil {
		return nil, errors.New("dashboard service is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	if topN <= 0 {
		topN = maxRankedLines
	}
	svc := &service{
		dashboard: dashboard,
		publisher: publisher,
		logg:      logg,
		topN:      topN,
		now:       func() time.Time { return time.Now().UTC() },
	}
	if deliveries != nil {
		svc.deliveries = deliveries
	}
	return svc, nil
}

func (s *service) Preview(ctx context.Context, brands []string, preset string) (*Event, error) {
	return s.compose(ctx, brands, preset)
}

func (s *service) Publish(ctx context.Context, brands []string, preset string) (*Event, error) {
	if s.publisher == nil {
		return nil, errors.New("digest publisher not configured")
	}

	event, err := s.compose(ctx, brands, preset)
	if err != nil {
		return nil, err
	}
	if err := s.publisher.Publish(ctx, *event); err != nil {
		return nil, fmt.Errorf("publishing digest: %w", err)
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{"digest_id": event.ID, "preset": event.Preset})
	if s.deliveries != nil {
		if _, err := s.deliveries.RecordPublished(ctx, *event); err != nil {
			s.logg.Warn(logCtx, fmt.Sprintf("failed to record digest delivery: %v", err))
		}
	}
	s.logg.Info(logCtx, "digest published")
	return event, nil
}

func (s *service) compose(ctx context.Context, brands []string, preset string) (*Event, error) {
	overview, err := s.dashboard.Overview(ctx, brands, preset)
	if err != nil {
		return nil, err
	}
	creators, err := s.dashboard.CreatorLeaderboard(ctx, brands, preset, s.topN, false)
	if err != nil {
		return nil, err
	}
	products, err := s.dashboard.ProductLeaderboard(ctx, brands, preset, s.topN)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:        uuid.NewString(),
		Preset:    overview.Preset.String(),
		StartDate: overview.StartDate,
		EndDate:   overview.EndDate,
		Body:      Compose(overview, creators.Entries, products.Entries),
		CreatedAt: s.now(),
	}, nil
}

// PubSubPublisher delivers digest events through a Pub/Sub topic publisher.
type PubSubPublisher struct {
	pub *gcppubsub.Publisher
}

// NewPubSubPublisher wraps a topic publisher handle.
func NewPubSubPublisher(pub *gcppubsub.Publisher) (*PubSubPublisher, error) {
	if pub == nil {
		return nil, errors.New("topic publisher is required")
	}
	return &PubSubPublisher{pub: pub}, nil
}

func (p *PubSubPublisher) Publish(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding digest event: %w", err)
	}

	result := p.pub.Publish(ctx, &gcppubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"event_id":   event.ID,
			"event_type": EventType,
		},
	})
	if _, err := result.Get(ctx); err != nil {
		return fmt.Errorf("awaiting publish: %w", err)
	}
	return nil
}
