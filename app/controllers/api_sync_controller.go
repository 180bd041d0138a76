package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/estatepilot/estatepilot/internal/pkg/airtable"
	"github.com/estatepilot/estatepilot/internal/pkg/database"
	"github.com/estatepilot/estatepilot/internal/pkg/entitlements"
	"github.com/estatepilot/estatepilot/internal/pkg/usercontext"
)

type syncRequest struct {
	Action   string `json:"action"`
	Table    string `json:"table"`
	RecordID uint   `json:"record_id"`
}

// newSyncerForRequest is swapped in tests to avoid a live CRM.
var newSyncerForRequest = func() *airtable.Syncer {
	return airtable.NewSyncerFromEnv(database.GetDB())
}

// HandleSync triggers a CRM sync run: push one record, pull one table, or a
// full push-and-pull pass. Requires a tier with CRM sync enabled.
func HandleSync(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	tier := entitlements.NormalizeTier(userCtx.Tier)
	if !entitlements.CanUseCRMSync(tier) {
		return jsonError(c, fiber.StatusForbidden, "forbidden", "CRM sync is not available on your tier")
	}

	var req syncRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid JSON body")
	}

	syncer := newSyncerForRequest()
	ctx := c.Context()

	switch req.Action {
	case "push":
		if req.Table == "" || req.RecordID == 0 {
			return jsonError(c, fiber.StatusBadRequest, "bad_request", "push requires table and record_id")
		}
		record, err := syncer.Push(ctx, req.Table, req.RecordID)
		if err != nil {
			return syncError(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "action": "push", "record": record})

	case "pull":
		if req.Table == "" {
			return jsonError(c, fiber.StatusBadRequest, "bad_request", "pull requires table")
		}
		result, err := syncer.Pull(ctx, req.Table)
		if err != nil {
			return syncError(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "action": "pull", "results": result})

	case "full_sync":
		results, err := syncer.FullSync(ctx)
		if err != nil {
			return syncError(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "action": "full_sync", "results": results})

	default:
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "action must be one of: push, pull, full_sync")
	}
}

// syncError translates adapter failures without leaking upstream detail.
func syncError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, airtable.ErrUnknownTable):
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Unknown sync table")
	case errors.Is(err, airtable.ErrLocalRecordNotFound), errors.Is(err, airtable.ErrRecordNotFound):
		return jsonError(c, fiber.StatusNotFound, "not_found", "Record not found")
	case errors.Is(err, airtable.ErrRateLimited):
		return jsonError(c, fiber.StatusBadGateway, "upstream_rate_limited", "CRM rejected the request, try again later")
	case errors.Is(err, airtable.ErrQuotaExhausted):
		return jsonError(c, fiber.StatusBadGateway, "upstream_quota", "CRM plan quota exhausted")
	}
	log.Errorf("[Sync] CRM sync failed: %v", err)
	return jsonError(c, fiber.StatusBadGateway, "upstream_error", "CRM sync failed")
}
