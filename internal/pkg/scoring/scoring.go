package scoring

import (
	"github.com/estatepilot/estatepilot/app/models"
)

// Component weights. The maxima sum to exactly 100 so a breakdown total is
// always a valid score without clamping.
const (
	TimelineWithin28Days = 30
	TimelineZeroToThree  = 24
	TimelineThreeToSix   = 15
	TimelineFlexible     = 8

	PaymentCash     = 20
	PaymentMortgage = 12

	PurposeInvestment  = 18
	PurposePrimaryHome = 15
	PurposeOther       = 10

	BudgetFitMax   = 20
	EngagementMax  = 12
	EngagementStep = 2
)

// Priority bands. Lower bounds are inclusive; the bands partition [0,100].
const (
	PriorityUrgent     = "P1-Urgent"      // score >= 80
	PriorityHighIntent = "P1-High Intent" // score >= 70
	PriorityQualified  = "P2-Qualified"   // score >= 50
	PriorityNurture    = "P3-Nurture"     // score < 50
)

// Breakdown names the contribution of each rubric component. Total always
// equals the sum of the components.
type Breakdown struct {
	Timeline   int `json:"timeline"`
	Payment    int `json:"payment"`
	Purpose    int `json:"purpose"`
	BudgetFit  int `json:"budget_fit"`
	Engagement int `json:"engagement"`
	Total      int `json:"total"`
}

// budgetBuckets orders the budget ranges buyers pick from. The index is the
// ordinal position used for the budget-fit distance.
var budgetBuckets = []string{
	"under_500k",
	"500k_1m",
	"1m_2m",
	"2m_5m",
	"over_5m",
}

func budgetBucketIndex(bucket string) int {
	for i, b := range budgetBuckets {
		if b == bucket {
			return i
		}
	}
	return -1
}

// CalculateBreakdown scores a buyer against a target listing price bucket.
// The function is total: unknown or missing enum values fall through to the
// lowest-weight bucket, never an error.
func CalculateBreakdown(buyer *models.Buyer, targetBudgetBucket string) Breakdown {
	bd := Breakdown{
		Timeline:   timelinePoints(buyer.Timeline),
		Payment:    paymentPoints(buyer.PaymentMethod),
		Purpose:    purposePoints(buyer.Purpose),
		BudgetFit:  BudgetFitPoints(buyer.BudgetBucket, targetBudgetBucket),
		Engagement: EngagementPoints(buyer.EngagementEvents),
	}
	bd.Total = bd.Timeline + bd.Payment + bd.Purpose + bd.BudgetFit + bd.Engagement
	return bd
}

// Score returns just the total for callers that do not need the breakdown.
func Score(buyer *models.Buyer, targetBudgetBucket string) int {
	return CalculateBreakdown(buyer, targetBudgetBucket).Total
}

func timelinePoints(timeline string) int {
	switch timeline {
	case models.TIMELINE_28_DAYS:
		return TimelineWithin28Days
	case models.TIMELINE_0_3_MON:
		return TimelineZeroToThree
	case models.TIMELINE_3_6_MON:
		return TimelineThreeToSix
	default:
		return TimelineFlexible
	}
}

func paymentPoints(method string) int {
	switch method {
	case models.PAYMENT_CASH:
		return PaymentCash
	default:
		return PaymentMortgage
	}
}

func purposePoints(purpose string) int {
	switch purpose {
	case models.PURPOSE_INVESTMENT:
		return PurposeInvestment
	case models.PURPOSE_PRIMARY_HOME:
		return PurposePrimaryHome
	default:
		return PurposeOther
	}
}

// BudgetFitPoints maps the ordinal distance between the buyer's budget
// bucket and the target listing price bucket onto [0,20]. An unknown bucket
// on either side yields the neutral midpoint rather than an extreme.
func BudgetFitPoints(buyerBucket, targetBucket string) int {
	bi := budgetBucketIndex(buyerBucket)
	ti := budgetBucketIndex(targetBucket)
	if bi < 0 || ti < 0 {
		return 5
	}
	dist := bi - ti
	if dist < 0 {
		dist = -dist
	}
	switch dist {
	case 0:
		return BudgetFitMax
	case 1:
		return 15
	case 2:
		return 10
	case 3:
		return 5
	default:
		return 0
	}
}

// EngagementPoints converts the buyer's tracked engagement event count into
// [0,12]: two points per event, capped.
func EngagementPoints(events int64) int {
	if events <= 0 {
		return 0
	}
	points := int(events) * EngagementStep
	if points > EngagementMax {
		return EngagementMax
	}
	return points
}

// Classify maps a score to its priority band.
func Classify(score int) string {
	switch {
	case score >= 80:
		return PriorityUrgent
	case score >= 70:
		return PriorityHighIntent
	case score >= 50:
		return PriorityQualified
	default:
		return PriorityNurture
	}
}

// PriorityRank orders bands for monotonicity checks and sorting; a higher
// rank means a hotter lead.
func PriorityRank(priority string) int {
	switch priority {
	case PriorityUrgent:
		return 3
	case PriorityHighIntent:
		return 2
	case PriorityQualified:
		return 1
	default:
		return 0
	}
}
