package cron

import (
	"context"
	"errors"
	"fmt"

	"github.com/dcastano/brandpulse-backend/internal/digest"
	"github.com/dcastano/brandpulse-backend/pkg/logger"
)

type digestPublisher interface {
	Publish(ctx context.Context, brands []string, preset string) (*digest.Event, error)
}

// DigestPublishJob publishes the scheduled portfolio digest for the
// configured window. Brands and preset are fixed at construction; the job
// always covers the whole configured portfolio.
type DigestPublishJob struct {
	service digestPublisher
	brands  []string
	preset  string
	logg    *logger.Logger
}

// NewDigestPublishJob builds the scheduled digest job.
func NewDigestPublishJob(service digest.Service, brands []string, preset string, logg *logger.Logger) (*DigestPublishJob, error) {
	if service == nil {
		return nil, errors.New("digest service required")
	}
	if len(brands) == 0 {
		return nil, errors.New("at least one brand required")
	}
	if logg == nil {
		return nil, errors.New("logger required")
	}
	return &DigestPublishJob{
		service: service,
		brands:  brands,
		preset:  preset,
		logg:    logg,
	}, nil
}

func (j *DigestPublishJob) Name() string {
	return "digest_publish"
}

func (j *DigestPublishJob) Run(ctx context.Context) error {
	event, err := j.service.Publish(ctx, j.brands, j.preset)
	if err != nil {
		return fmt.Errorf("publish scheduled digest: %w", err)
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"digest_id": event.ID,
		"preset":    event.Preset,
		"window":    event.StartDate + ".." + event.EndDate,
	})
	j.logg.Info(logCtx, "scheduled digest published")
	return nil
}
