// ============================================================================
// backend/internal/marks/stats.go
// Per-subject class statistics for the marks overview chart
// ============================================================================

package marks

import (
	"github.com/montanaflynn/stats"

	"esomero/backend/internal/shared"
)

// SubjectStats summarizes one subject's scores across a cohort.
type SubjectStats struct {
	Subject string  `json:"subject"`
	Code    string  `json:"code"`
	Count   int     `json:"count"`
	Mean    float64 `json:"mean"`
	Median  float64 `json:"median"`
	StdDev  float64 `json:"std_dev"`
}

// SubjectStatistics computes per-subject mean/median/stddev for a class
// cohort, in the class's subject order. Only students with an entered score
// for a subject contribute to that subject's figures; subjects nobody has a
// score for are omitted.
func SubjectStatistics(class string, cohort []shared.StudentMark) ([]SubjectStats, error) {
	subjects, err := shared.ClassSubjects(class)
	if err != nil {
		return nil, err
	}

	var result []SubjectStats
	for _, subject := range subjects {
		var scores stats.Float64Data
		for _, student := range cohort {
			if score, ok := student.Subjects[subject.Code]; ok {
				scores = append(scores, score)
			}
		}
		if len(scores) == 0 {
			continue
		}

		mean, err := scores.Mean()
		if err != nil {
			return nil, err
		}
		median, err := scores.Median()
		if err != nil {
			return nil, err
		}
		stdDev, err := scores.StandardDeviation()
		if err != nil {
			return nil, err
		}

		result = append(result, SubjectStats{
			Subject: subject.Name,
			Code:    subject.Code,
			Count:   len(scores),
			Mean:    mean,
			Median:  median,
			StdDev:  stdDev,
		})
	}
	return result, nil
}
