package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/estatepilot/estatepilot/app/models"
	"github.com/estatepilot/estatepilot/app/repository"
	"github.com/estatepilot/estatepilot/internal/pkg/entitlements"
	"github.com/estatepilot/estatepilot/internal/pkg/scoring"
	"github.com/estatepilot/estatepilot/internal/pkg/usercontext"
)

type introductionRequest struct {
	Channel string `json:"channel"`
	Note    string `json:"note"`
}

// HandleRequestIntroduction requests an introduction to a buyer. Order of
// checks: tier visibility, then input validation, then the quota/cap
// transaction. A rejection writes nothing and repeats identically.
func HandleRequestIntroduction(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	tier := entitlements.NormalizeTier(userCtx.Tier)

	factory := repository.GetGlobalFactory()
	buyer, err := factory.GetBuyerRepository().GetByUUID(c.Params("uuid"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Buyer not found")
		}
		log.Errorf("[Contacts] Buyer lookup failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load buyer")
	}

	if !entitlements.IsVisible(tier, scoring.Score(buyer, c.Query("target_budget"))) {
		return jsonError(c, fiber.StatusNotFound, "not_found", "Buyer not found")
	}

	var req introductionRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid JSON body")
	}
	if !models.IsValidContactChannel(req.Channel) {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "channel must be one of: email, phone, whatsapp")
	}
	if !buyer.HasChannel(req.Channel) {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Buyer is not reachable on this channel")
	}
	if len(req.Note) > 1000 {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "note must be at most 1000 characters")
	}
	// Cheap pre-check; the conditional update in the repository is the
	// authoritative cap enforcement.
	if !buyer.CanBeContacted() {
		return jsonError(c, fiber.StatusConflict, "buyer_cap_reached", "This buyer has reached the maximum number of contacts")
	}

	quota := entitlements.ContactQuota(tier)
	contact, err := factory.GetContactRepository().RequestIntroduction(userCtx.UserID, buyer.ID, req.Channel, req.Note, quota, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrAlreadyContacted):
			return jsonError(c, fiber.StatusConflict, "already_contacted", "You already requested an introduction to this buyer")
		case errors.Is(err, repository.ErrQuotaExceeded):
			return jsonError(c, fiber.StatusTooManyRequests, "quota_exceeded", "Monthly contact quota reached for your tier")
		case errors.Is(err, repository.ErrBuyerCapReached):
			return jsonError(c, fiber.StatusConflict, "buyer_cap_reached", "This buyer has reached the maximum number of contacts")
		}
		log.Errorf("[Contacts] Introduction failed for user %d buyer %d: %v", userCtx.UserID, buyer.ID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to request introduction")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":         contact.ID,
		"buyer_uuid": buyer.UUID,
		"channel":    contact.Channel,
		"month_key":  contact.MonthKey,
		"created_at": contact.CreatedAt.UTC().Format(time.RFC3339),
	})
}

// HandleListContacts lists the caller's introduction requests.
func HandleListContacts(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	offset, limit := parsePagination(c)

	factory := repository.GetGlobalFactory()
	contacts, err := factory.GetContactRepository().ListByUser(userCtx.UserID, offset, limit)
	if err != nil {
		log.Errorf("[Contacts] List failed for user %d: %v", userCtx.UserID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load contacts")
	}

	return c.JSON(fiber.Map{
		"contacts": contacts,
		"count":    len(contacts),
	})
}
