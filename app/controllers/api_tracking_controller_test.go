package controllers

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/estatepilot/estatepilot/app/models"
)

func newWebhookApp() *fiber.App {
	app := fiber.New()
	app.Post("/track/:source", HandleTrackWebhook)
	return app
}

func postWebhook(t *testing.T, app *fiber.App, path, secret, body string) int {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if secret != "" {
		req.Header.Set("X-Webhook-Secret", secret)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestTrackWebhookRejectsBadSecret(t *testing.T) {
	t.Setenv("WEBHOOK_SECRET", "hook-secret")
	app := newWebhookApp()

	assert.Equal(t, fiber.StatusUnauthorized, postWebhook(t, app, "/track/pixel", "", `{}`))
	assert.Equal(t, fiber.StatusUnauthorized, postWebhook(t, app, "/track/pixel", "wrong", `{}`))
}

func TestTrackWebhookFailsClosedWithoutConfiguredSecret(t *testing.T) {
	t.Setenv("WEBHOOK_SECRET", "")
	app := newWebhookApp()

	// An unset secret must never accept anything, not accept everything.
	assert.Equal(t, fiber.StatusUnauthorized, postWebhook(t, app, "/track/pixel", "", `{}`))
	assert.Equal(t, fiber.StatusUnauthorized, postWebhook(t, app, "/track/pixel", "anything", `{}`))
}

func TestTrackWebhookRejectsUnknownSource(t *testing.T) {
	t.Setenv("WEBHOOK_SECRET", "hook-secret")
	app := newWebhookApp()

	status := postWebhook(t, app, "/track/carrier-pigeon", "hook-secret", `{"event_type":"page_view"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestTrackWebhookRejectsWrongEventTypeForSource(t *testing.T) {
	t.Setenv("WEBHOOK_SECRET", "hook-secret")
	app := newWebhookApp()

	// "opened" belongs to the email vocabulary, not pixel.
	status := postWebhook(t, app, "/track/pixel", "hook-secret", `{"event_type":"opened"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestTrackWebhookBulkLimits(t *testing.T) {
	t.Setenv("WEBHOOK_SECRET", "hook-secret")
	app := newWebhookApp()

	assert.Equal(t, fiber.StatusBadRequest, postWebhook(t, app, "/track/bulk", "hook-secret", `{"event_type":"imported"}`),
		"bulk source must require an array body")
	assert.Equal(t, fiber.StatusBadRequest, postWebhook(t, app, "/track/bulk", "hook-secret", `[]`))

	var b strings.Builder
	b.WriteString("[")
	for i := 0; i <= maxBulkTrackingEvents; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(`{"event_type":"imported"}`)
	}
	b.WriteString("]")
	assert.Equal(t, fiber.StatusBadRequest, postWebhook(t, app, "/track/bulk", "hook-secret", b.String()))
}

func TestBuildTrackingEvent(t *testing.T) {
	event, reason := buildTrackingEvent(models.TRACKING_SOURCE_PIXEL, &trackingEventInput{
		EventType: "listing_view",
		BuyerUUID: "b-123",
	})
	require.Empty(t, reason)
	assert.NotEmpty(t, event.EventID, "missing event_id gets generated")
	assert.Equal(t, models.TRACKING_SOURCE_PIXEL, event.Source)
	assert.Equal(t, "listing_view", event.EventType)
	assert.WithinDuration(t, time.Now(), event.OccurredAt, time.Minute)

	occurred := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	event, reason = buildTrackingEvent(models.TRACKING_SOURCE_EMAIL, &trackingEventInput{
		EventID:    "evt-1",
		EventType:  "opened",
		OccurredAt: &occurred,
	})
	require.Empty(t, reason)
	assert.Equal(t, "evt-1", event.EventID)
	assert.Equal(t, occurred, event.OccurredAt)

	_, reason = buildTrackingEvent(models.TRACKING_SOURCE_WHATSAPP, &trackingEventInput{EventType: "page_view"})
	assert.NotEmpty(t, reason)
}

func TestTrackWebhookRedeliveryIsIdempotent(t *testing.T) {
	t.Setenv("WEBHOOK_SECRET", "hook-secret")
	db := setupTestFactory(t)
	app := newWebhookApp()

	body := `{"event_id":"evt-redelivered","event_type":"page_view"}`
	assert.Equal(t, fiber.StatusCreated, postWebhook(t, app, "/track/pixel", "hook-secret", body))

	// At-least-once sources retry; the second delivery is accepted, not 500.
	assert.Equal(t, fiber.StatusCreated, postWebhook(t, app, "/track/pixel", "hook-secret", body))

	var rows int64
	require.NoError(t, db.Model(&models.TrackingEvent{}).Where("event_id = ?", "evt-redelivered").Count(&rows).Error)
	assert.EqualValues(t, 1, rows, "redelivery must not store a second row")
}
