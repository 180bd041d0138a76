package models

import "time"

const (
	TRACKING_SOURCE_PIXEL    = "pixel"
	TRACKING_SOURCE_EMAIL    = "email"
	TRACKING_SOURCE_WHATSAPP = "whatsapp"
	TRACKING_SOURCE_BULK     = "bulk"
	TRACKING_SOURCE_GENERIC  = "generic"
)

// TrackingEvent is a durably stored engagement event delivered by an
// external tracking integration (pixel, mail provider, WhatsApp, bulk
// import). Ingestion is at-least-once; consumers must tolerate duplicates.
type TrackingEvent struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	EventID    string    `gorm:"type:varchar(36);uniqueIndex" json:"event_id"`
	Source     string    `gorm:"type:varchar(20);not null;index" json:"source"`
	EventType  string    `gorm:"type:varchar(50);not null;index" json:"event_type"`
	BuyerUUID  string    `gorm:"type:varchar(36);index" json:"buyer_uuid"`
	Payload    string    `gorm:"type:text" json:"payload"`
	OccurredAt time.Time `gorm:"type:timestamp" json:"occurred_at"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// trackingEventVocab maps each source to its allowed event types.
var trackingEventVocab = map[string]map[string]bool{
	TRACKING_SOURCE_PIXEL: {
		"page_view":    true,
		"listing_view": true,
		"form_submit":  true,
	},
	TRACKING_SOURCE_EMAIL: {
		"delivered": true,
		"opened":    true,
		"clicked":   true,
		"bounced":   true,
	},
	TRACKING_SOURCE_WHATSAPP: {
		"sent":      true,
		"delivered": true,
		"read":      true,
		"replied":   true,
	},
	TRACKING_SOURCE_BULK: {
		"imported": true,
	},
	TRACKING_SOURCE_GENERIC: {
		"custom": true,
	},
}

// IsValidTrackingSource reports whether the webhook path segment is known.
func IsValidTrackingSource(source string) bool {
	_, ok := trackingEventVocab[source]
	return ok
}

// IsValidTrackingEventType checks an event type against the vocabulary of
// its source.
func IsValidTrackingEventType(source, eventType string) bool {
	vocab, ok := trackingEventVocab[source]
	if !ok {
		return false
	}
	return vocab[eventType]
}

// engagementEventTypes are the event types that count toward a buyer's
// engagement score.
var engagementEventTypes = map[string]bool{
	"listing_view": true,
	"form_submit":  true,
	"opened":       true,
	"clicked":      true,
	"read":         true,
	"replied":      true,
}

// IsEngagementEvent reports whether an event type contributes to the
// buyer's engagement signal.
func IsEngagementEvent(eventType string) bool {
	return engagementEventTypes[eventType]
}
