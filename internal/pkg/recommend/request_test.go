package recommend

import (
	"strings"
	"testing"
)

func validRequest() *CampaignRequest {
	return &CampaignRequest{
		UserType:        "developer",
		Objective:       "lead_generation",
		CurrentBudget:   5000,
		TargetCountries: []string{"AE", "UK"},
		TargetCities:    []string{"Dubai", "London"},
		Notes:           "Focus on off-plan apartments",
	}
}

func TestValidateAcceptsValidRequest(t *testing.T) {
	if err := validRequest().Validate(); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*CampaignRequest)
		wantMsg string
	}{
		{
			name:    "missing user type",
			mutate:  func(r *CampaignRequest) { r.UserType = "" },
			wantMsg: "user_type",
		},
		{
			name:    "unknown user type",
			mutate:  func(r *CampaignRequest) { r.UserType = "landlord" },
			wantMsg: "user_type",
		},
		{
			name:    "unknown objective",
			mutate:  func(r *CampaignRequest) { r.Objective = "virality" },
			wantMsg: "objective",
		},
		{
			name:    "negative budget",
			mutate:  func(r *CampaignRequest) { r.CurrentBudget = -1 },
			wantMsg: "current_budget",
		},
		{
			name:    "budget over cap",
			mutate:  func(r *CampaignRequest) { r.CurrentBudget = 10_000_001 },
			wantMsg: "current_budget",
		},
		{
			name: "too many countries",
			mutate: func(r *CampaignRequest) {
				r.TargetCountries = make([]string, MaxTargetEntries+1)
			},
			wantMsg: "target_countries",
		},
		{
			name: "country entry too long",
			mutate: func(r *CampaignRequest) {
				r.TargetCountries = []string{strings.Repeat("x", MaxTargetEntryLen+1)}
			},
			wantMsg: "target_countries entries",
		},
		{
			name: "city entry too long",
			mutate: func(r *CampaignRequest) {
				r.TargetCities = []string{strings.Repeat("x", MaxTargetEntryLen+1)}
			},
			wantMsg: "target_cities entries",
		},
		{
			name:    "notes too long",
			mutate:  func(r *CampaignRequest) { r.Notes = strings.Repeat("x", MaxNotesLen+1) },
			wantMsg: "notes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)
			err := req.Validate()
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Fatalf("error %q does not mention %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestValidateAllowsEmptyOptionalFields(t *testing.T) {
	req := &CampaignRequest{
		UserType:  "broker",
		Objective: "conversions",
	}
	if err := req.Validate(); err != nil {
		t.Fatalf("optional fields should be optional, got %v", err)
	}
}
