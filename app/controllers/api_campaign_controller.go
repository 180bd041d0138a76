package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/estatepilot/estatepilot/app/models"
	"github.com/estatepilot/estatepilot/app/repository"
	"github.com/estatepilot/estatepilot/internal/pkg/entitlements"
	"github.com/estatepilot/estatepilot/internal/pkg/jobqueue"
	"github.com/estatepilot/estatepilot/internal/pkg/usercontext"
)

type campaignRequest struct {
	Name       string  `json:"name"`
	Objective  string  `json:"objective"`
	Budget     float64 `json:"budget"`
	DailyCap   float64 `json:"daily_cap"`
	TargetArea string  `json:"target_area"`
}

// HandleCreateCampaign creates a campaign for the authenticated user. On
// CRM-enabled tiers the new campaign is queued for a push; queue failures
// never fail the create, the periodic full sync catches up.
func HandleCreateCampaign(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	var req campaignRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid JSON body")
	}

	campaign := &models.Campaign{
		UUID:       uuid.New().String(),
		UserID:     userCtx.UserID,
		Name:       req.Name,
		Objective:  req.Objective,
		Budget:     req.Budget,
		DailyCap:   req.DailyCap,
		TargetArea: req.TargetArea,
		Status:     models.CAMPAIGN_STATUS_DRAFT,
	}
	if campaign.Objective == "" {
		campaign.Objective = models.OBJECTIVE_LEAD_GENERATION
	}
	if err := campaign.Validate(); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid campaign: "+err.Error())
	}

	if err := repository.GetGlobalFactory().GetCampaignRepository().Create(campaign); err != nil {
		log.Errorf("[Campaigns] Create failed for user %d: %v", userCtx.UserID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create campaign")
	}

	if entitlements.CanUseCRMSync(entitlements.NormalizeTier(userCtx.Tier)) {
		payload := jobqueue.CRMPushJobPayload{Table: "campaigns", LocalID: campaign.ID}
		if _, err := jobqueue.GetManager().GetQueue().EnqueueJob(jobqueue.JobTypeCRMPush, payload.ToMap()); err != nil {
			log.Warnf("[Campaigns] Failed to queue CRM push for campaign %d: %v", campaign.ID, err)
		}
	}

	return c.Status(fiber.StatusCreated).JSON(campaign)
}

// HandleListCampaigns lists the caller's campaigns.
func HandleListCampaigns(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	campaigns, err := repository.GetGlobalFactory().GetCampaignRepository().GetByUserID(userCtx.UserID)
	if err != nil {
		log.Errorf("[Campaigns] List failed for user %d: %v", userCtx.UserID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load campaigns")
	}

	return c.JSON(fiber.Map{
		"campaigns": campaigns,
		"count":     len(campaigns),
	})
}

// HandleGetCampaign returns one of the caller's campaigns by UUID.
func HandleGetCampaign(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	campaign, err := repository.GetGlobalFactory().GetCampaignRepository().GetByUUID(c.Params("uuid"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Campaign not found")
		}
		log.Errorf("[Campaigns] Lookup failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load campaign")
	}
	if campaign.UserID != userCtx.UserID && !userCtx.IsAdmin {
		return jsonError(c, fiber.StatusNotFound, "not_found", "Campaign not found")
	}

	return c.JSON(campaign)
}
