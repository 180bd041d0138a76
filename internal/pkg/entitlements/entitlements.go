package entitlements

import "strings"

type Tier string

const (
	TierAccess     Tier = "access"
	TierGrowth     Tier = "growth"
	TierEnterprise Tier = "enterprise"
)

// UnlimitedQuota marks a tier without a monthly contact ceiling.
const UnlimitedQuota = -1

// TierConfig is the static configuration record for a subscription tier.
// Tiers are totally ordered by capability; a higher tier never sees fewer
// buyers or features than a lower one.
type TierConfig struct {
	Tier              Tier
	MonthlyPriceUSD   int
	ContactQuota      int
	ScoreFloor        int
	ScoreCeiling      int // exclusive; 0 means no ceiling
	AIRecommendations bool
	CRMSync           bool
	BulkTracking      bool
}

var tierConfigs = map[Tier]TierConfig{
	TierAccess: {
		Tier:            TierAccess,
		MonthlyPriceUSD: 99,
		ContactQuota:    30,
		ScoreFloor:      50,
		ScoreCeiling:    70,
	},
	TierGrowth: {
		Tier:              TierGrowth,
		MonthlyPriceUSD:   299,
		ContactQuota:      100,
		ScoreFloor:        50,
		AIRecommendations: true,
		BulkTracking:      true,
	},
	TierEnterprise: {
		Tier:              TierEnterprise,
		MonthlyPriceUSD:   899,
		ContactQuota:      UnlimitedQuota,
		AIRecommendations: true,
		CRMSync:           true,
		BulkTracking:      true,
	},
}

// NormalizeTier maps arbitrary input to a known tier, defaulting to the
// lowest tier.
func NormalizeTier(tier string) Tier {
	switch Tier(strings.ToLower(strings.TrimSpace(tier))) {
	case TierGrowth:
		return TierGrowth
	case TierEnterprise:
		return TierEnterprise
	default:
		return TierAccess
	}
}

// TierRank orders tiers by capability.
func TierRank(tier Tier) int {
	switch tier {
	case TierEnterprise:
		return 2
	case TierGrowth:
		return 1
	default:
		return 0
	}
}

// Config returns the static configuration for a tier.
func Config(tier Tier) TierConfig {
	if cfg, ok := tierConfigs[tier]; ok {
		return cfg
	}
	return tierConfigs[TierAccess]
}

// IsVisible decides whether a buyer with the given score is shown to a
// tier. access sees the 50..69 window, growth everything from 50 up,
// enterprise everything. Only enterprise surfaces sub-50 buyers.
func IsVisible(tier Tier, score int) bool {
	cfg := Config(tier)
	if score < cfg.ScoreFloor {
		return false
	}
	if cfg.ScoreCeiling > 0 && score >= cfg.ScoreCeiling {
		return false
	}
	return true
}

// ContactQuota returns the tier's monthly introduction quota.
// UnlimitedQuota means no ceiling.
func ContactQuota(tier Tier) int {
	return Config(tier).ContactQuota
}

// CanUseAIRecommendations reports whether the tier may call the AI
// recommendation proxy.
func CanUseAIRecommendations(tier Tier) bool {
	return Config(tier).AIRecommendations
}

// CanUseCRMSync reports whether the tier may trigger CRM sync operations.
func CanUseCRMSync(tier Tier) bool {
	return Config(tier).CRMSync
}

// CanUseBulkTracking reports whether the tier may post bulk tracking
// events.
func CanUseBulkTracking(tier Tier) bool {
	return Config(tier).BulkTracking
}
