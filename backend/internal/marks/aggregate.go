// ============================================================================
// backend/internal/marks/aggregate.go
// Per-term mark aggregation: total, average, status, cohort ranking
// ============================================================================

package marks

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"esomero/backend/internal/shared"
)

// ErrInvalidSubject is returned when a mark carries a subject code the
// student's class does not offer.
var ErrInvalidSubject = errors.New("subject not offered for class")

// ValidateSubjects checks that every subject code in the map belongs to the
// class's subject list. Marks only ever hold codes from the owning student's
// class; bulk import filters codes itself, manual entry goes through here.
func ValidateSubjects(class string, subjects map[string]float64) error {
	classSubjects, err := shared.ClassSubjects(class)
	if err != nil {
		return err
	}

	valid := make(map[string]bool, len(classSubjects))
	for _, subject := range classSubjects {
		valid[subject.Code] = true
	}
	for code := range subjects {
		if !valid[code] {
			return fmt.Errorf("%w: %s (%s)", ErrInvalidSubject, code, class)
		}
	}
	return nil
}

// PassThreshold is the fixed term pass mark. This is NOT the promotion
// threshold, which varies by class tier (see promotion.go); the two policies
// happen to agree at S2 but are defined independently.
const PassThreshold = 50.0

// Summarize computes the derived summary fields from a subject score map.
// Only entered scores participate: a missing subject is never treated as a
// zero in the denominator. An empty map yields a NaN average (the callers
// format NaN as "N/A").
func Summarize(subjects map[string]float64) (total, average float64, status string) {
	for _, score := range subjects {
		total += score
	}
	average = total / float64(len(subjects))
	status = StatusFor(average)
	return total, average, status
}

// StatusFor maps a term average to PASS/FAIL against the fixed threshold.
// NaN averages fail.
func StatusFor(average float64) string {
	if average >= PassThreshold {
		return shared.StatusPass
	}
	return shared.StatusFail
}

// RankCohort orders a cohort (same class, year, term) by average descending
// and assigns 1-based ranks by position. Ties break on ascending student id
// so rank assignment is deterministic regardless of store query order; NaN
// averages sort last. The input slice is not modified.
func RankCohort(cohort []shared.StudentMark) []shared.StudentMark {
	ranked := make([]shared.StudentMark, len(cohort))
	copy(ranked, cohort)

	sort.SliceStable(ranked, func(i, j int) bool {
		return cohortLess(ranked[i], ranked[j])
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

func cohortLess(a, b shared.StudentMark) bool {
	switch {
	case math.IsNaN(a.Average) && math.IsNaN(b.Average):
		return a.ID < b.ID
	case math.IsNaN(a.Average):
		return false
	case math.IsNaN(b.Average):
		return true
	case a.Average != b.Average:
		return a.Average > b.Average
	}
	return a.ID < b.ID
}
