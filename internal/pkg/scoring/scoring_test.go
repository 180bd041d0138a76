package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/estatepilot/estatepilot/app/models"
)

func TestCalculateBreakdownCanonicalScenario(t *testing.T) {
	buyer := &models.Buyer{
		Timeline:      models.TIMELINE_28_DAYS,
		PaymentMethod: models.PAYMENT_CASH,
		Purpose:       models.PURPOSE_INVESTMENT,
		BudgetBucket:  "1m_2m",
	}

	bd := CalculateBreakdown(buyer, "1m_2m")

	assert.Equal(t, 30, bd.Timeline)
	assert.Equal(t, 20, bd.Payment)
	assert.Equal(t, 18, bd.Purpose)
	assert.Equal(t, 20, bd.BudgetFit)
	assert.Equal(t, 0, bd.Engagement)
	assert.Equal(t, 88, bd.Total)
	assert.Equal(t, PriorityUrgent, Classify(bd.Total))
}

func TestBreakdownTotalEqualsComponentSum(t *testing.T) {
	timelines := []string{models.TIMELINE_28_DAYS, models.TIMELINE_0_3_MON, models.TIMELINE_3_6_MON, models.TIMELINE_FLEXIBLE, "", "garbage"}
	payments := []string{models.PAYMENT_CASH, models.PAYMENT_MORTGAGE, "", "crypto"}
	purposes := []string{models.PURPOSE_INVESTMENT, models.PURPOSE_PRIMARY_HOME, models.PURPOSE_FOR_CHILD, models.PURPOSE_HOLIDAY_HOME, "", "unknown"}
	budgets := []string{"under_500k", "500k_1m", "1m_2m", "2m_5m", "over_5m", "", "n/a"}
	engagements := []int64{0, 1, 3, 6, 100, -5}

	for _, tl := range timelines {
		for _, pm := range payments {
			for _, pp := range purposes {
				for _, bb := range budgets {
					for _, ev := range engagements {
						buyer := &models.Buyer{
							Timeline:         tl,
							PaymentMethod:    pm,
							Purpose:          pp,
							BudgetBucket:     bb,
							EngagementEvents: ev,
						}
						bd := CalculateBreakdown(buyer, "1m_2m")
						sum := bd.Timeline + bd.Payment + bd.Purpose + bd.BudgetFit + bd.Engagement
						assert.Equal(t, sum, bd.Total)
						assert.GreaterOrEqual(t, bd.Total, 0)
						assert.LessOrEqual(t, bd.Total, 100)
					}
				}
			}
		}
	}
}

func TestBudgetFitPoints(t *testing.T) {
	tests := []struct {
		buyer  string
		target string
		want   int
	}{
		{"1m_2m", "1m_2m", 20},
		{"1m_2m", "2m_5m", 15},
		{"500k_1m", "2m_5m", 10},
		{"under_500k", "2m_5m", 5},
		{"under_500k", "over_5m", 0},
		{"over_5m", "under_500k", 0},
		{"", "1m_2m", 5},
		{"1m_2m", "", 5},
		{"mystery", "1m_2m", 5},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, BudgetFitPoints(tt.buyer, tt.target),
			"BudgetFitPoints(%q, %q)", tt.buyer, tt.target)
	}
}

func TestEngagementPoints(t *testing.T) {
	assert.Equal(t, 0, EngagementPoints(0))
	assert.Equal(t, 0, EngagementPoints(-1))
	assert.Equal(t, 2, EngagementPoints(1))
	assert.Equal(t, 10, EngagementPoints(5))
	assert.Equal(t, 12, EngagementPoints(6))
	assert.Equal(t, 12, EngagementPoints(10000))
}

func TestClassifyBandEdges(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{0, PriorityNurture},
		{49, PriorityNurture},
		{50, PriorityQualified},
		{69, PriorityQualified},
		{70, PriorityHighIntent},
		{79, PriorityHighIntent},
		{80, PriorityUrgent},
		{100, PriorityUrgent},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.score), "Classify(%d)", tt.score)
	}
}

func TestClassifyIsMonotonic(t *testing.T) {
	prev := Classify(0)
	for score := 1; score <= 100; score++ {
		cur := Classify(score)
		assert.GreaterOrEqual(t, PriorityRank(cur), PriorityRank(prev),
			"priority dropped between %d and %d", score-1, score)
		prev = cur
	}
}
