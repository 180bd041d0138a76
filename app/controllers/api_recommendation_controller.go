package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/estatepilot/estatepilot/internal/pkg/entitlements"
	"github.com/estatepilot/estatepilot/internal/pkg/recommend"
	"github.com/estatepilot/estatepilot/internal/pkg/usercontext"
)

// recommendClient is swapped in tests to avoid a live provider.
var recommendClient = func() *recommend.Client {
	return recommend.NewClientFromEnv()
}

// HandleRecommendations proxies a campaign recommendation request to the
// LLM provider. Auth runs in middleware, validation runs before the
// outbound call, known upstream conditions keep their status, everything
// else collapses to a generic 500.
func HandleRecommendations(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	tier := entitlements.NormalizeTier(userCtx.Tier)
	if !entitlements.CanUseAIRecommendations(tier) {
		return jsonError(c, fiber.StatusForbidden, "forbidden", "AI recommendations are not available on your tier")
	}

	var req recommend.CampaignRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid JSON body")
	}
	if err := req.Validate(); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", err.Error())
	}

	recommendation, err := recommendClient().Recommend(c.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, recommend.ErrUpstreamRateLimited):
			return jsonError(c, fiber.StatusTooManyRequests, "rate_limited", "The recommendation service is rate limited, try again later")
		case errors.Is(err, recommend.ErrUpstreamQuotaExhausted):
			return jsonError(c, fiber.StatusPaymentRequired, "quota_exhausted", "The recommendation service quota is exhausted")
		}
		log.Errorf("[Recommendations] Provider call failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to generate recommendations")
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(recommendation)
}
