package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/estatepilot/estatepilot/app/models"
	"github.com/estatepilot/estatepilot/app/repository"
	"github.com/estatepilot/estatepilot/internal/pkg/entitlements"
	"github.com/estatepilot/estatepilot/internal/pkg/scoring"
	"github.com/estatepilot/estatepilot/internal/pkg/usercontext"
)

// buyerView is one scored buyer as returned by the API. Score, breakdown
// and priority are derived at read time and never persisted.
type buyerView struct {
	UUID          string            `json:"uuid"`
	Name          string            `json:"name"`
	Location      string            `json:"location"`
	BudgetBucket  string            `json:"budget_bucket"`
	Bedrooms      string            `json:"bedrooms"`
	Timeline      string            `json:"timeline"`
	PaymentMethod string            `json:"payment_method"`
	Purpose       string            `json:"purpose"`
	HasEmail      bool              `json:"has_email"`
	HasPhone      bool              `json:"has_phone"`
	HasWhatsApp   bool              `json:"has_whatsapp"`
	ContactsCount int               `json:"contacts_count"`
	ContactsLeft  int               `json:"contacts_left"`
	Score         int               `json:"score"`
	Breakdown     scoring.Breakdown `json:"breakdown"`
	Priority      string            `json:"priority"`
}

func newBuyerView(buyer *models.Buyer, targetBudget string) buyerView {
	breakdown := scoring.CalculateBreakdown(buyer, targetBudget)
	left := models.MaxBuyerContacts - buyer.ContactsCount
	if left < 0 {
		left = 0
	}
	return buyerView{
		UUID:          buyer.UUID,
		Name:          buyer.Name,
		Location:      buyer.Location,
		BudgetBucket:  buyer.BudgetBucket,
		Bedrooms:      buyer.Bedrooms,
		Timeline:      buyer.Timeline,
		PaymentMethod: buyer.PaymentMethod,
		Purpose:       buyer.Purpose,
		HasEmail:      buyer.HasEmail,
		HasPhone:      buyer.HasPhone,
		HasWhatsApp:   buyer.HasWhatsApp,
		ContactsCount: buyer.ContactsCount,
		ContactsLeft:  left,
		Score:         breakdown.Total,
		Breakdown:     breakdown,
		Priority:      scoring.Classify(breakdown.Total),
	}
}

// HandleListBuyers lists the buyers visible to the caller's tier, scored
// against an optional target budget bucket. Priority and min_score filters
// apply after tier filtering.
func HandleListBuyers(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	tier := entitlements.NormalizeTier(userCtx.Tier)

	targetBudget := c.Query("target_budget")
	priorityFilter := c.Query("priority")
	minScore := c.QueryInt("min_score", 0)
	offset, limit := parsePagination(c)

	repo := repository.GetGlobalFactory().GetBuyerRepository()

	// Visibility depends on the derived score, so pagination runs over the
	// filtered set, not the raw table.
	const batchSize = 200
	visible := make([]buyerView, 0, limit)
	skipped := 0
	for batch := 0; ; batch += batchSize {
		buyers, err := repo.List(batch, batchSize)
		if err != nil {
			log.Errorf("[Buyers] List failed: %v", err)
			return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load buyers")
		}
		if len(buyers) == 0 {
			break
		}
		for i := range buyers {
			view := newBuyerView(&buyers[i], targetBudget)
			if !entitlements.IsVisible(tier, view.Score) {
				continue
			}
			if priorityFilter != "" && view.Priority != priorityFilter {
				continue
			}
			if view.Score < minScore {
				continue
			}
			if skipped < offset {
				skipped++
				continue
			}
			if len(visible) < limit {
				visible = append(visible, view)
			}
		}
		if len(visible) >= limit || len(buyers) < batchSize {
			break
		}
	}

	return c.JSON(fiber.Map{
		"buyers": visible,
		"count":  len(visible),
		"tier":   string(tier),
	})
}

// HandleGetBuyer returns one buyer by UUID. A buyer outside the caller's
// visibility window is reported as not found, not as forbidden.
func HandleGetBuyer(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	tier := entitlements.NormalizeTier(userCtx.Tier)

	uuid := c.Params("uuid")
	repo := repository.GetGlobalFactory().GetBuyerRepository()
	buyer, err := repo.GetByUUID(uuid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Buyer not found")
		}
		log.Errorf("[Buyers] Lookup failed for %s: %v", uuid, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load buyer")
	}

	view := newBuyerView(buyer, c.Query("target_budget"))
	if !entitlements.IsVisible(tier, view.Score) {
		// Invisible buyers must be indistinguishable from missing ones.
		return jsonError(c, fiber.StatusNotFound, "not_found", "Buyer not found")
	}

	return c.JSON(view)
}
