package recommend

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	MaxTargetEntries  = 10
	MaxTargetEntryLen = 80
	MaxNotesLen       = 500
	MaxCampaignBudget = 10_000_000
)

// CampaignRequest is the inbound payload for a recommendation call. Every
// field is checked against its allow-list before anything leaves the process.
type CampaignRequest struct {
	UserType        string   `json:"user_type" validate:"required,oneof=developer agent broker"`
	Objective       string   `json:"objective" validate:"required,oneof=lead_generation brand_awareness conversions"`
	CurrentBudget   float64  `json:"current_budget" validate:"gte=0,lte=10000000"`
	TargetCountries []string `json:"target_countries" validate:"max=10,dive,max=80"`
	TargetCities    []string `json:"target_cities" validate:"max=10,dive,max=80"`
	Notes           string   `json:"notes" validate:"max=500"`
}

var requestValidator = validator.New()

// Validate rejects the request with a human-readable reason on the first
// violation. It never performs I/O.
func (r *CampaignRequest) Validate() error {
	err := requestValidator.Struct(r)
	if err == nil {
		return nil
	}

	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return fmt.Errorf("invalid request")
	}
	return fmt.Errorf("%s", describeViolation(errs[0]))
}

func describeViolation(fe validator.FieldError) string {
	field := fe.StructField()
	element := false
	if i := strings.Index(field, "["); i >= 0 {
		field = field[:i]
		element = true
	}

	switch field {
	case "UserType":
		return "user_type must be one of: developer, agent, broker"
	case "Objective":
		return "objective must be one of: lead_generation, brand_awareness, conversions"
	case "CurrentBudget":
		return fmt.Sprintf("current_budget must be between 0 and %d", MaxCampaignBudget)
	case "TargetCountries":
		if element {
			return fmt.Sprintf("target_countries entries must be at most %d characters", MaxTargetEntryLen)
		}
		return fmt.Sprintf("target_countries must have at most %d entries", MaxTargetEntries)
	case "TargetCities":
		if element {
			return fmt.Sprintf("target_cities entries must be at most %d characters", MaxTargetEntryLen)
		}
		return fmt.Sprintf("target_cities must have at most %d entries", MaxTargetEntries)
	case "Notes":
		return fmt.Sprintf("notes must be at most %d characters", MaxNotesLen)
	}
	return "invalid request"
}
