package recommend

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// recommendationFunctionName is the function the provider is forced to call.
const recommendationFunctionName = "campaign_recommendation"

// recommendationSchema is both the function-calling parameter schema sent to
// the provider and the contract the returned arguments are validated against.
const recommendationSchema = `{
	"type": "object",
	"properties": {
		"recommended_budget": {
			"type": "number",
			"minimum": 0,
			"description": "Recommended total monthly campaign budget in USD"
		},
		"daily_cap": {
			"type": "number",
			"minimum": 0,
			"description": "Recommended daily spend cap in USD"
		},
		"reasoning": {
			"type": "string",
			"description": "Short explanation of the recommendation"
		},
		"cpl_range": {
			"type": "object",
			"properties": {
				"min": {"type": "number", "minimum": 0},
				"max": {"type": "number", "minimum": 0}
			},
			"required": ["min", "max"],
			"description": "Expected cost-per-lead range in USD"
		},
		"region_allocation": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"region": {"type": "string"},
					"percent": {"type": "number", "minimum": 0, "maximum": 100}
				},
				"required": ["region", "percent"]
			},
			"description": "Budget split across target regions"
		},
		"tips": {
			"type": "array",
			"items": {"type": "string"},
			"description": "Actionable campaign tips"
		},
		"confidence": {
			"type": "number",
			"minimum": 0,
			"maximum": 1,
			"description": "Model confidence in the recommendation"
		}
	},
	"required": ["recommended_budget", "daily_cap", "reasoning", "cpl_range", "region_allocation", "tips", "confidence"]
}`

var compiledSchema = gojsonschema.NewStringLoader(recommendationSchema)

// ValidateRecommendation checks the provider's function-call arguments
// against the recommendation schema before they are handed to the caller.
func ValidateRecommendation(arguments []byte) error {
	result, err := gojsonschema.Validate(compiledSchema, gojsonschema.NewBytesLoader(arguments))
	if err != nil {
		return fmt.Errorf("recommendation schema check failed: %w", err)
	}
	if result.Valid() {
		return nil
	}

	details := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		details = append(details, desc.String())
	}
	return errors.New("recommendation does not match schema: " + strings.Join(details, "; "))
}

// BuildPrompt assembles the user-facing prompt from a validated request.
func BuildPrompt(req *CampaignRequest) string {
	var b strings.Builder
	b.WriteString("Recommend a real-estate lead generation ad campaign setup.\n")
	fmt.Fprintf(&b, "The advertiser is a %s running a campaign with objective %q.\n", req.UserType, req.Objective)
	if req.CurrentBudget > 0 {
		fmt.Fprintf(&b, "Their current monthly budget is %.0f USD.\n", req.CurrentBudget)
	}
	if len(req.TargetCountries) > 0 {
		fmt.Fprintf(&b, "Target countries: %s.\n", strings.Join(req.TargetCountries, ", "))
	}
	if len(req.TargetCities) > 0 {
		fmt.Fprintf(&b, "Target cities: %s.\n", strings.Join(req.TargetCities, ", "))
	}
	if strings.TrimSpace(req.Notes) != "" {
		fmt.Fprintf(&b, "Additional notes from the advertiser: %s\n", strings.TrimSpace(req.Notes))
	}
	b.WriteString("Respond by calling the campaign_recommendation function with concrete numbers.")
	return b.String()
}

const systemPrompt = "You are a performance-marketing planner for real-estate " +
	"lead generation. You produce concrete, realistic campaign budgets, daily " +
	"caps and cost-per-lead estimates for property developers, agents and brokers."
