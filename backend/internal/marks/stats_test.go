package marks

import (
	"errors"
	"math"
	"testing"

	"esomero/backend/internal/shared"
)

func statsMark(id string, subjects map[string]float64) shared.StudentMark {
	return shared.StudentMark{ID: id, Mark: shared.Mark{Subjects: subjects}}
}

func TestSubjectStatistics(t *testing.T) {
	t.Run("figures per subject over entered scores only", func(t *testing.T) {
		cohort := []shared.StudentMark{
			statsMark("s1", map[string]float64{"ENG": 60, "MATH": 80}),
			statsMark("s2", map[string]float64{"ENG": 70}),
			statsMark("s3", map[string]float64{"ENG": 80, "MATH": 40}),
		}

		result, err := SubjectStatistics("S1A", cohort)
		if err != nil {
			t.Fatalf("SubjectStatistics: %v", err)
		}
		if len(result) != 2 {
			t.Fatalf("expected stats for 2 subjects, got %d", len(result))
		}

		// Class subject order: English before Mathematics.
		eng := result[0]
		if eng.Code != "ENG" || eng.Subject != "English" {
			t.Fatalf("first subject = %s/%s, want English/ENG", eng.Subject, eng.Code)
		}
		if eng.Count != 3 {
			t.Errorf("ENG count = %d, want 3", eng.Count)
		}
		if eng.Mean != 70 {
			t.Errorf("ENG mean = %v, want 70", eng.Mean)
		}
		if eng.Median != 70 {
			t.Errorf("ENG median = %v, want 70", eng.Median)
		}

		mathStats := result[1]
		if mathStats.Code != "MATH" {
			t.Fatalf("second subject = %s, want MATH", mathStats.Code)
		}
		if mathStats.Count != 2 {
			t.Errorf("MATH count = %d, want 2", mathStats.Count)
		}
		if mathStats.Mean != 60 {
			t.Errorf("MATH mean = %v, want 60", mathStats.Mean)
		}
		if mathStats.StdDev != 20 {
			t.Errorf("MATH stddev = %v, want 20", mathStats.StdDev)
		}
	})

	t.Run("stddev of identical scores is zero", func(t *testing.T) {
		cohort := []shared.StudentMark{
			statsMark("s1", map[string]float64{"ENG": 55}),
			statsMark("s2", map[string]float64{"ENG": 55}),
		}
		result, err := SubjectStatistics("S1A", cohort)
		if err != nil {
			t.Fatalf("SubjectStatistics: %v", err)
		}
		if math.Abs(result[0].StdDev) > 1e-9 {
			t.Errorf("stddev = %v, want 0", result[0].StdDev)
		}
	})

	t.Run("unknown class is rejected", func(t *testing.T) {
		_, err := SubjectStatistics("S9Z", nil)
		if !errors.Is(err, shared.ErrUnknownClass) {
			t.Errorf("err = %v, want ErrUnknownClass", err)
		}
	})

	t.Run("empty cohort yields no subjects", func(t *testing.T) {
		result, err := SubjectStatistics("PREP-A", nil)
		if err != nil {
			t.Fatalf("SubjectStatistics: %v", err)
		}
		if len(result) != 0 {
			t.Errorf("expected empty result, got %d entries", len(result))
		}
	})
}
