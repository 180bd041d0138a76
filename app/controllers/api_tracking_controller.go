package controllers

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/estatepilot/estatepilot/app/models"
	"github.com/estatepilot/estatepilot/app/repository"
	"github.com/estatepilot/estatepilot/internal/pkg/env"
	metrics "github.com/estatepilot/estatepilot/internal/pkg/metrics/counter"
	"github.com/estatepilot/estatepilot/internal/pkg/webhook"
)

// maxBulkTrackingEvents caps one bulk delivery.
const maxBulkTrackingEvents = 500

type trackingEventInput struct {
	EventID    string          `json:"event_id"`
	EventType  string          `json:"event_type"`
	BuyerUUID  string          `json:"buyer_uuid"`
	Payload    json.RawMessage `json:"payload"`
	OccurredAt *time.Time      `json:"occurred_at"`
}

// HandleTrackWebhook ingests tracking events for one source. POST requires
// the shared webhook secret; delivery is at-least-once and best effort, so
// a bulk request reports per-entry outcomes instead of failing wholesale.
func HandleTrackWebhook(c *fiber.Ctx) error {
	secret := env.GetEnv("WEBHOOK_SECRET", "")
	if !webhook.VerifySharedSecret(c.Get("X-Webhook-Secret"), secret) {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Missing or invalid webhook secret")
	}

	source := c.Params("source")
	if source == "" {
		source = models.TRACKING_SOURCE_GENERIC
	}
	if !models.IsValidTrackingSource(source) {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Unknown tracking source")
	}

	if source == models.TRACKING_SOURCE_BULK {
		return handleBulkTracking(c, source)
	}

	var input trackingEventInput
	if err := c.BodyParser(&input); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid JSON body")
	}

	event, reason := buildTrackingEvent(source, &input)
	if reason != "" {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", reason)
	}
	if err := storeTrackingEvent(event); err != nil {
		log.Errorf("[Tracking] Failed to store %s event: %v", source, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to store event")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"event_id": event.EventID,
		"source":   event.Source,
	})
}

func handleBulkTracking(c *fiber.Ctx, source string) error {
	var inputs []trackingEventInput
	if err := json.Unmarshal(c.Body(), &inputs); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Bulk tracking expects a JSON array")
	}
	if len(inputs) == 0 {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Bulk tracking array is empty")
	}
	if len(inputs) > maxBulkTrackingEvents {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Bulk tracking is limited to 500 events per request")
	}

	accepted := 0
	rejected := 0
	for i := range inputs {
		event, reason := buildTrackingEvent(source, &inputs[i])
		if reason != "" {
			rejected++
			continue
		}
		if err := storeTrackingEvent(event); err != nil {
			log.Warnf("[Tracking] Bulk entry failed: %v", err)
			rejected++
			continue
		}
		accepted++
	}

	return c.JSON(fiber.Map{
		"accepted": accepted,
		"rejected": rejected,
	})
}

// buildTrackingEvent validates one inbound event and returns the row to
// store, or a human-readable rejection reason.
func buildTrackingEvent(source string, input *trackingEventInput) (*models.TrackingEvent, string) {
	if !models.IsValidTrackingEventType(source, input.EventType) {
		return nil, "Unknown event_type for source " + source
	}

	eventID := input.EventID
	if eventID == "" {
		eventID = uuid.New().String()
	}
	occurredAt := time.Now()
	if input.OccurredAt != nil {
		occurredAt = *input.OccurredAt
	}

	payload := ""
	if len(input.Payload) > 0 {
		payload = string(input.Payload)
	}

	return &models.TrackingEvent{
		EventID:    eventID,
		Source:     source,
		EventType:  input.EventType,
		BuyerUUID:  input.BuyerUUID,
		Payload:    payload,
		OccurredAt: occurredAt,
	}, ""
}

// storeTrackingEvent persists the event and, for engagement event types,
// bumps the buyer's pending engagement counter best-effort.
func storeTrackingEvent(event *models.TrackingEvent) error {
	factory := repository.GetGlobalFactory()
	if err := factory.GetTrackingEventRepository().Create(event); err != nil {
		// Sources deliver at-least-once; a redelivered event_id is already
		// stored, so accept it without bumping engagement again.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return err
	}

	if event.BuyerUUID == "" || !models.IsEngagementEvent(event.EventType) {
		return nil
	}
	buyer, err := factory.GetBuyerRepository().GetByUUID(event.BuyerUUID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warnf("[Tracking] Buyer lookup failed for %s: %v", event.BuyerUUID, err)
		}
		return nil
	}
	if err := metrics.AddEngagementEvents(buyer.ID, 1); err != nil {
		log.Warnf("[Tracking] Engagement counter failed for buyer %d: %v", buyer.ID, err)
	}
	return nil
}

// HandleListTrackingEvents returns stored events, newest first. Requires
// bearer auth via the API middleware, not the webhook secret.
func HandleListTrackingEvents(c *fiber.Ctx) error {
	source := c.Query("source")
	if source != "" && !models.IsValidTrackingSource(source) {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Unknown tracking source")
	}
	offset, limit := parsePagination(c)

	events, err := repository.GetGlobalFactory().GetTrackingEventRepository().List(source, offset, limit)
	if err != nil {
		log.Errorf("[Tracking] List failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load events")
	}

	return c.JSON(fiber.Map{
		"events": events,
		"count":  len(events),
	})
}
