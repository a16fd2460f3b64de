package digest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/dcastano/brandpulse-backend/pkg/logger"
	"github.com/dcastano/brandpulse-backend/pkg/redis"
	"github.com/google/uuid"
)

const (
	// Discord rejects message content over 2000 characters.
	discordContentMax = 2000

	dedupeTTL = 48 * time.Hour
)

type deduper interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
	DigestDedupeKey(id string) string
}

type statusMarker interface {
	MarkStatus(ctx context.Context, id uuid.UUID, status DeliveryStatus) error
}

// Consumer delivers composed digest events to a Discord webhook.
type Consumer struct {
	subscription *pubsub.Subscriber
	webhookURL   string
	httpClient   *http.Client
	dedupe       deduper
	deliveries   statusMarker
	logg         *logger.Logger
}

// NewConsumer constructs a consumer that watches the provided subscription.
// The deduper is optional; without it redeliveries post duplicate messages.
// The repository is optional; without it delivery outcomes are not recorded.
func NewConsumer(subscription *pubsub.Subscriber, webhookURL string, dedupe *redis.Client, deliveries *Repository, logg *logger.Logger) (*Consumer, error) {
	if subscription == nil {
		return nil, errors.New("digest subscription is required")
	}
	if strings.TrimSpace(webhookURL) == "" {
		return nil, errors.New("discord webhook url is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	c := &Consumer{
		subscription: subscription,
		webhookURL:   webhookURL,
		httpClient:   &http.Client{Timeout: 15 * time.Second},
		logg:         logg,
	}
	if dedupe != nil {
		c.dedupe = dedupe
	}
	if deliveries != nil {
		c.deliveries = deliveries
	}
	return c, nil
}

// Run processes messages until the context is canceled or the subscription errors.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		result := c.process(ctx, msg)
		if result.nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

type processResult struct {
	ack  bool
	nack bool
}

func (c *Consumer) process(ctx context.Context, msg *pubsub.Message) processResult {
	fields := map[string]any{
		"message_id": msg.ID,
		"event_type": msg.Attributes["event_type"],
	}
	logCtx := c.logg.WithFields(ctx, fields)

	if eventType := msg.Attributes["event_type"]; eventType != "" && eventType != EventType {
		c.logg.Info(logCtx, "skipping unknown event type")
		return processResult{ack: true}
	}

	var event Event
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		c.logg.Error(logCtx, "failed to unmarshal digest event", err)
		return processResult{ack: true}
	}
	if strings.TrimSpace(event.Body) == "" {
		c.logg.Error(logCtx, "digest event has empty body", fmt.Errorf("empty body"))
		return processResult{ack: true}
	}

	fields["digest_id"] = event.ID
	fields["preset"] = event.Preset
	logCtx = c.logg.WithFields(ctx, fields)

	var claimedKey string
	if c.dedupe != nil && event.ID != "" {
		key := c.dedupe.DigestDedupeKey(event.ID)
		fresh, err := c.dedupe.SetNX(ctx, key, "1", dedupeTTL)
		if err != nil {
			c.logg.Warn(logCtx, "dedupe check failed, delivering anyway")
		} else if !fresh {
			c.logg.Info(logCtx, "digest already delivered")
			return processResult{ack: true}
		} else {
			claimedKey = key
		}
	}

	result := c.deliver(logCtx, event)
	if result.nack && claimedKey != "" {
		// Release the claim so the Pub/Sub redelivery is not mistaken for a
		// duplicate and dropped.
		if err := c.dedupe.Del(ctx, claimedKey); err != nil {
			c.logg.Warn(logCtx, fmt.Sprintf("failed to release dedupe claim, redelivery may be skipped: %v", err))
		}
	}
	return result
}

func (c *Consumer) deliver(ctx context.Context, event Event) processResult {
	payload, err := json.Marshal(map[string]string{
		"content": truncateContent(event.Body, discordContentMax),
	})
	if err != nil {
		c.logg.Error(ctx, "failed to encode webhook payload", err)
		return processResult{ack: true}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(payload))
	if err != nil {
		c.logg.Error(ctx, "failed to build webhook request", err)
		return processResult{ack: true}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logg.Error(ctx, "webhook request failed", err)
		return processResult{nack: true}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		c.logg.Info(ctx, "digest delivered to discord")
		c.markStatus(ctx, event.ID, DeliveryStatusDelivered)
		return processResult{ack: true}
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		c.logg.Warn(ctx, fmt.Sprintf("webhook returned %d, retrying", resp.StatusCode))
		return processResult{nack: true}
	default:
		c.logg.Error(ctx, "webhook rejected digest", fmt.Errorf("status %d", resp.StatusCode))
		c.markStatus(ctx, event.ID, DeliveryStatusFailed)
		return processResult{ack: true}
	}
}

func (c *Consumer) markStatus(ctx context.Context, eventID string, status DeliveryStatus) {
	if c.deliveries == nil {
		return
	}
	id, err := uuid.Parse(eventID)
	if err != nil {
		return
	}
	if err := c.deliveries.MarkStatus(ctx, id, status); err != nil {
		c.logg.Warn(ctx, fmt.Sprintf("failed to record delivery status: %v", err))
	}
}

func truncateContent(body string, max int) string {
	runes := []rune(body)
	if len(runes) <= max {
		return body
	}
	return string(runes[:max-1]) + "…"
}
