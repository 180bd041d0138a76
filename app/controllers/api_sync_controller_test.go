package controllers

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/estatepilot/estatepilot/internal/pkg/airtable"
	"github.com/estatepilot/estatepilot/internal/pkg/usercontext"
)

func newSyncApp(tier string) *fiber.App {
	app := fiber.New()
	app.Post("/sync", func(c *fiber.Ctx) error {
		c.Locals("USER_CONTEXT", usercontext.UserContext{UserID: 1, IsLoggedIn: true, Tier: tier})
		return c.Next()
	}, HandleSync)
	return app
}

func postSync(t *testing.T, app *fiber.App, body string) int {
	t.Helper()
	req := httptest.NewRequest("POST", "/sync", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestSyncRequiresCRMCapableTier(t *testing.T) {
	for _, tier := range []string{"access", "growth"} {
		status := postSync(t, newSyncApp(tier), `{"action":"full_sync"}`)
		assert.Equal(t, fiber.StatusForbidden, status, "tier %s must not trigger sync", tier)
	}
}

func TestSyncValidatesRequest(t *testing.T) {
	orig := newSyncerForRequest
	newSyncerForRequest = func() *airtable.Syncer { return nil }
	defer func() { newSyncerForRequest = orig }()

	app := newSyncApp("enterprise")

	tests := []struct {
		name string
		body string
	}{
		{"unknown action", `{"action":"replicate"}`},
		{"push without table", `{"action":"push","record_id":7}`},
		{"push without record_id", `{"action":"push","table":"buyers"}`},
		{"pull without table", `{"action":"pull"}`},
		{"invalid json", `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, fiber.StatusBadRequest, postSync(t, app, tt.body))
		})
	}
}

func TestSyncErrorMapping(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
	}{
		{airtable.ErrUnknownTable, fiber.StatusBadRequest},
		{airtable.ErrLocalRecordNotFound, fiber.StatusNotFound},
		{airtable.ErrRecordNotFound, fiber.StatusNotFound},
		{airtable.ErrRateLimited, fiber.StatusBadGateway},
		{airtable.ErrQuotaExhausted, fiber.StatusBadGateway},
		{errors.New("connection reset"), fiber.StatusBadGateway},
	}
	for _, tt := range tests {
		app := fiber.New()
		err := tt.err
		app.Post("/sync", func(c *fiber.Ctx) error {
			return syncError(c, err)
		})
		status := postSync(t, app, `{}`)
		assert.Equal(t, tt.wantStatus, status, "error %v", tt.err)
	}
}
