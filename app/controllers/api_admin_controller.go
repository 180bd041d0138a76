package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"

	"github.com/estatepilot/estatepilot/app/models"
	"github.com/estatepilot/estatepilot/app/repository"
	"github.com/estatepilot/estatepilot/internal/pkg/jobqueue"
)

type buyerInput struct {
	Name          string `json:"name"`
	Location      string `json:"location"`
	BudgetBucket  string `json:"budget_bucket"`
	Bedrooms      string `json:"bedrooms"`
	Timeline      string `json:"timeline"`
	PaymentMethod string `json:"payment_method"`
	Purpose       string `json:"purpose"`
	HasEmail      bool   `json:"has_email"`
	HasPhone      bool   `json:"has_phone"`
	HasWhatsApp   bool   `json:"has_whatsapp"`
	Source        string `json:"source"`
}

// HandleAdminCreateBuyer creates a buyer record. Buyers normally arrive via
// the CRM pull; this endpoint exists for manual entry and seeding.
func HandleAdminCreateBuyer(c *fiber.Ctx) error {
	var input buyerInput
	if err := c.BodyParser(&input); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid JSON body")
	}

	buyer := &models.Buyer{
		UUID:          uuid.New().String(),
		Name:          input.Name,
		Location:      input.Location,
		BudgetBucket:  input.BudgetBucket,
		Bedrooms:      input.Bedrooms,
		Timeline:      input.Timeline,
		PaymentMethod: input.PaymentMethod,
		Purpose:       input.Purpose,
		HasEmail:      input.HasEmail,
		HasPhone:      input.HasPhone,
		HasWhatsApp:   input.HasWhatsApp,
		Source:        input.Source,
	}
	if err := buyer.Validate(); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid buyer: "+err.Error())
	}

	if err := repository.GetGlobalFactory().GetBuyerRepository().Create(buyer); err != nil {
		log.Errorf("[Admin] Buyer create failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create buyer")
	}

	return c.Status(fiber.StatusCreated).JSON(buyer)
}

// HandleAdminJobStats exposes queue depth and per-status job counts.
func HandleAdminJobStats(c *fiber.Ctx) error {
	manager := jobqueue.GetManager()
	queue := manager.GetQueue()
	ctx := c.Context()

	pending, err := queue.GetQueueSize(ctx)
	if err != nil {
		log.Errorf("[Admin] Queue size lookup failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load queue stats")
	}
	processing, err := queue.GetProcessingSize(ctx)
	if err != nil {
		log.Errorf("[Admin] Processing size lookup failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load queue stats")
	}
	stats, err := queue.GetJobStats(ctx)
	if err != nil {
		log.Errorf("[Admin] Job stats lookup failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load queue stats")
	}

	return c.JSON(fiber.Map{
		"workers_running": manager.IsRunning(),
		"queue_size":      pending,
		"processing_size": processing,
		"job_stats":       stats,
	})
}
