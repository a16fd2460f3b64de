package digest

import "time"

// EventType tags digest messages on the wire.
const EventType = "digest.composed"

// Event is the composed digest as published to Pub/Sub and delivered by the
// worker. Body is the final Discord-ready message text.
type Event struct {
	ID        string    `json:"id"`
	Preset    string    `json:"preset"`
	StartDate string    `json:"start_date"`
	EndDate   string    `json:"end_date"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}
