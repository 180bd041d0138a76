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
	"github.com/estatepilot/estatepilot/internal/pkg/usercontext"
)

// HandleGetAccount returns the authenticated user's profile, tier, quota
// usage for the current month and feature flags.
func HandleGetAccount(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	factory := repository.GetGlobalFactory()
	account, err := factory.GetUserRepository().GetByID(userCtx.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "User not found")
		}
		log.Errorf("[Account] Load failed for user %d: %v", userCtx.UserID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load user")
	}

	tier := entitlements.NormalizeTier(userCtx.Tier)
	config := entitlements.Config(tier)

	monthKey := models.ContactMonthKey(time.Now())
	used, err := factory.GetContactRepository().CountForUserMonth(account.ID, monthKey)
	if err != nil {
		log.Errorf("[Account] Quota count failed for user %d: %v", account.ID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load quota usage")
	}

	var remaining interface{}
	if config.ContactQuota != entitlements.UnlimitedQuota {
		left := int64(config.ContactQuota) - used
		if left < 0 {
			left = 0
		}
		remaining = left
	}

	return c.JSON(fiber.Map{
		"id":                   account.ID,
		"name":                 account.Name,
		"email":                account.Email,
		"user_type":            account.UserType,
		"company":              account.Company,
		"status":               account.Status,
		"is_admin":             account.Role == models.ROLE_ADMIN,
		"created_at":           account.CreatedAt.UTC().Format(time.RFC3339),
		"last_login_at":        formatTimePtr(account.LastLoginAt),
		"api_key_active":       account.HasActiveAPIKey(),
		"api_key_prefix":       account.APIKeyPrefix,
		"api_key_last_used_at": formatTimePtr(account.APIKeyLastUsedAt),
		"tier":                 string(tier),
		"quota": fiber.Map{
			"month":     monthKey,
			"limit":     config.ContactQuota,
			"used":      used,
			"remaining": remaining,
		},
		"features": fiber.Map{
			"ai_recommendations": config.AIRecommendations,
			"crm_sync":           config.CRMSync,
			"bulk_tracking":      config.BulkTracking,
		},
	})
}
