// ============================================================================
// backend/internal/marks/yearly.go
// Yearly aggregation: combining up to three term averages per student
// ============================================================================

package marks

import (
	"sort"

	"esomero/backend/internal/shared"
)

// YearlyAverage is the mean of the term averages present for the student.
// Terms with no mark are excluded from the denominator; zero terms present
// yields 0, not NaN.
func YearlyAverage(student shared.YearlyStudentMark) float64 {
	if len(student.Terms) == 0 {
		return 0
	}

	var sum float64
	for _, term := range student.Terms {
		sum += term.Average
	}
	return sum / float64(len(student.Terms))
}

// RankStudents orders students by yearly average descending and assigns
// 1-based ranks by position, with the same id tie-break as RankCohort.
// The input slice is not modified.
func RankStudents(students []shared.YearlyStudentMark) []shared.YearlyStudentMark {
	ranked := make([]shared.YearlyStudentMark, len(students))
	copy(ranked, students)

	sort.SliceStable(ranked, func(i, j int) bool {
		ai, aj := YearlyAverage(ranked[i]), YearlyAverage(ranked[j])
		if ai != aj {
			return ai > aj
		}
		return ranked[i].ID < ranked[j].ID
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

// TermRanking produces the single-term standing for the term tab view:
// students missing the term are filtered out, the rest are ranked by that
// term's average. The result is independent of the yearly rank.
func TermRanking(students []shared.YearlyStudentMark, term string) []shared.StudentMark {
	var cohort []shared.StudentMark
	for _, student := range students {
		mark, ok := student.Terms[term]
		if !ok {
			continue
		}
		cohort = append(cohort, shared.StudentMark{
			ID:   student.ID,
			Name: student.Name,
			Mark: mark,
		})
	}
	return RankCohort(cohort)
}
