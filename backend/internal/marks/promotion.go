// ============================================================================
// backend/internal/marks/promotion.go
// Promotion evaluation: yearly average vs. class-tier thresholds
// ============================================================================

package marks

import (
	"strings"

	"esomero/backend/internal/shared"
)

// Promotion thresholds by class tier. Distinct from PassThreshold: the two
// policies overlap only at S2.
const (
	lowerTierThreshold  = 45.0 // PREP and S1
	middleTierThreshold = 50.0 // S2
	upperTierThreshold  = 60.0 // S3 and above
)

// PromotionDecision is the outcome of evaluating one student's year.
// NextClass is empty when the student is retained or the class is terminal.
type PromotionDecision struct {
	Promoted  bool    `json:"promoted"`
	NextClass string  `json:"next_class,omitempty"`
	Threshold float64 `json:"threshold"`
}

// PromotionThreshold returns the minimum yearly average required to advance
// out of the given class. Prefixes are checked in tier order; unknown
// classes get the strictest threshold.
func PromotionThreshold(class string) float64 {
	switch {
	case strings.HasPrefix(class, "PREP"), strings.HasPrefix(class, "S1"):
		return lowerTierThreshold
	case strings.HasPrefix(class, "S2"):
		return middleTierThreshold
	case strings.HasPrefix(class, "S3"):
		return upperTierThreshold
	default:
		return upperTierThreshold
	}
}

// EvaluatePromotion decides promotion for a student's class and yearly
// average. Pure function; the next-class label comes from the fixed class
// hierarchy table.
func EvaluatePromotion(class string, yearlyAverage float64) PromotionDecision {
	threshold := PromotionThreshold(class)
	if yearlyAverage < threshold {
		return PromotionDecision{Threshold: threshold}
	}
	return PromotionDecision{
		Promoted:  true,
		NextClass: shared.NextClass(class),
		Threshold: threshold,
	}
}
