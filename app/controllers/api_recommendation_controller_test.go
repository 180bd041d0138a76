package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/estatepilot/estatepilot/internal/pkg/recommend"
	"github.com/estatepilot/estatepilot/internal/pkg/usercontext"
)

const validCampaignBody = `{
	"user_type": "agent",
	"objective": "lead_generation",
	"current_budget": 5000,
	"target_countries": ["AE"],
	"target_cities": ["Dubai"]
}`

const recommendationArguments = `{
	"recommended_budget": 6000,
	"daily_cap": 200,
	"reasoning": "Lead generation budget for one city.",
	"cpl_range": {"min": 10, "max": 28},
	"region_allocation": [{"region": "Dubai", "percent": 100}],
	"tips": ["Pair the pixel with WhatsApp follow-up."],
	"confidence": 0.7
}`

func newRecommendationApp(tier string) *fiber.App {
	app := fiber.New()
	app.Post("/recommendations", func(c *fiber.Ctx) error {
		c.Locals("USER_CONTEXT", usercontext.UserContext{UserID: 1, IsLoggedIn: true, Tier: tier})
		return c.Next()
	}, HandleRecommendations)
	return app
}

// stubProvider points the controller's client at a canned provider response.
func stubProvider(t *testing.T, status int, body string) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	orig := recommendClient
	recommendClient = func() *recommend.Client {
		return &recommend.Client{
			APIBaseURL: server.URL,
			APIKey:     "test-key",
			Model:      "test-model",
			HTTPClient: server.Client(),
		}
	}
	t.Cleanup(func() { recommendClient = orig })
}

func providerSuccessBody(t *testing.T) string {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{
		"choices": []map[string]interface{}{{
			"message": map[string]interface{}{
				"tool_calls": []map[string]interface{}{{
					"function": map[string]interface{}{
						"name":      "campaign_recommendation",
						"arguments": recommendationArguments,
					},
				}},
			},
		}},
	})
	require.NoError(t, err)
	return string(body)
}

func postRecommendations(t *testing.T, app *fiber.App, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest("POST", "/recommendations", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestRecommendationsRequireCapableTier(t *testing.T) {
	resp := postRecommendations(t, newRecommendationApp("access"), validCampaignBody)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRecommendationsRejectInvalidPayload(t *testing.T) {
	app := newRecommendationApp("growth")

	resp := postRecommendations(t, app, `{`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = postRecommendations(t, app, `{"user_type":"flipper","objective":"lead_generation"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestRecommendationsReturnProviderArguments(t *testing.T) {
	stubProvider(t, http.StatusOK, providerSuccessBody(t))
	app := newRecommendationApp("growth")

	resp := postRecommendations(t, app, validCampaignBody)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, float64(6000), out["recommended_budget"])
	assert.Equal(t, 0.7, out["confidence"])
}

func TestRecommendationsKeepUpstreamStatus(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
	}{
		{
			name:       "rate limited passes through as 429",
			status:     http.StatusTooManyRequests,
			body:       `{"error":{"message":"slow down","code":"rate_limit_exceeded"}}`,
			wantStatus: fiber.StatusTooManyRequests,
		},
		{
			name:       "insufficient quota maps to 402",
			status:     http.StatusTooManyRequests,
			body:       `{"error":{"message":"quota","code":"insufficient_quota"}}`,
			wantStatus: fiber.StatusPaymentRequired,
		},
		{
			name:       "anything else collapses to 500",
			status:     http.StatusServiceUnavailable,
			body:       `{"error":{"message":"down"}}`,
			wantStatus: fiber.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubProvider(t, tt.status, tt.body)
			app := newRecommendationApp("enterprise")

			resp := postRecommendations(t, app, validCampaignBody)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}
