// ============================================================================
// backend/internal/report/service.go
// Report card assembly: terms x subjects with grade letters and promotion
// ============================================================================

package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"esomero/backend/internal/marks"
	"esomero/backend/internal/shared"
)

// ErrNoMarks is returned when a student has no marks for the requested year.
var ErrNoMarks = errors.New("no marks recorded for year")

// StudentReader is the slice of the student store the report service needs.
type StudentReader interface {
	ByID(ctx context.Context, id string) (*shared.Student, error)
	ByClass(ctx context.Context, class string) ([]shared.Student, error)
}

// MarkReader provides the per-term mark view models for one student.
type MarkReader interface {
	TermsForStudent(ctx context.Context, studentID, year string) ([]shared.ReportCardMark, error)
}

// TermSection is one term's column on a report card.
type TermSection struct {
	Term         string            `json:"term"`
	Mark         shared.Mark       `json:"mark"`
	Grades       map[string]string `json:"grades"` // subject code -> letter
	AverageGrade string            `json:"average_grade"`
}

// ReportCard is the assembled per-student, per-year view.
type ReportCard struct {
	Student       shared.Student          `json:"student"`
	Year          string                  `json:"year"`
	Terms         []TermSection           `json:"terms"`
	MeanScore     float64                 `json:"mean_score"`
	MeanGrade     string                  `json:"mean_grade"`
	YearlyAverage float64                 `json:"yearly_average"`
	Promotion     marks.PromotionDecision `json:"promotion"`
}

// Service assembles report cards. Class batches are cached for a few
// minutes since batch generation re-reads every student in the class.
type Service struct {
	students StudentReader
	marks    MarkReader
	batches  *Cache[[]ReportCard]
}

// NewService creates a new report Service instance
func NewService(students StudentReader, markReader MarkReader) *Service {
	return &Service{
		students: students,
		marks:    markReader,
		batches:  NewCache[[]ReportCard](5 * time.Minute),
	}
}

// StudentReport builds one student's report card for a year.
func (s *Service) StudentReport(ctx context.Context, studentID, year string) (*ReportCard, error) {
	student, err := s.students.ByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	terms, err := s.marks.TermsForStudent(ctx, studentID, year)
	if err != nil {
		if errors.Is(err, marks.ErrMarkNotFound) {
			return nil, fmt.Errorf("student %s, year %s: %w", studentID, year, ErrNoMarks)
		}
		return nil, err
	}
	if len(terms) == 0 {
		return nil, fmt.Errorf("student %s, year %s: %w", studentID, year, ErrNoMarks)
	}

	card := &ReportCard{
		Student: *student,
		Year:    year,
	}

	yearly := shared.YearlyStudentMark{ID: studentID, Terms: make(map[string]shared.Mark)}
	for _, term := range terms {
		section := TermSection{
			Term:         term.Term,
			Mark:         term.Mark,
			Grades:       make(map[string]string),
			AverageGrade: shared.GradeLetter(term.Average),
		}
		for code, score := range term.Subjects {
			section.Grades[code] = shared.GradeLetter(score)
		}
		card.Terms = append(card.Terms, section)
		yearly.Terms[term.Term] = term.Mark
	}

	// Mean grade on the footer reflects the most recent term.
	last := terms[len(terms)-1]
	card.MeanScore = last.Average
	card.MeanGrade = shared.GradeLetter(last.Average)

	card.YearlyAverage = marks.YearlyAverage(yearly)
	card.Promotion = marks.EvaluatePromotion(student.Class, card.YearlyAverage)

	return card, nil
}

// ClassReports builds report cards for every student in a class that has
// marks for the year. Results are cached; students without marks are
// omitted rather than failing the batch.
func (s *Service) ClassReports(ctx context.Context, class, year string) ([]ReportCard, error) {
	key := fmt.Sprintf("reports_%s_%s", class, year)
	if cached, ok := s.batches.Get(key); ok {
		return cached, nil
	}

	students, err := s.students.ByClass(ctx, class)
	if err != nil {
		return nil, err
	}

	var cards []ReportCard
	for _, student := range students {
		card, err := s.StudentReport(ctx, student.ID, year)
		if err != nil {
			if errors.Is(err, ErrNoMarks) {
				continue
			}
			return nil, err
		}
		cards = append(cards, *card)
	}

	s.batches.Put(key, cards)
	return cards, nil
}

// InvalidateClass drops a class's cached batch, for callers that just wrote
// new marks.
func (s *Service) InvalidateClass(class, year string) {
	s.batches.Invalidate(fmt.Sprintf("reports_%s_%s", class, year))
}

// InvalidateStudentClass drops the cached batch for the class one student
// belongs to, for callers that wrote a single mark and only know the student.
func (s *Service) InvalidateStudentClass(ctx context.Context, studentID, year string) error {
	student, err := s.students.ByID(ctx, studentID)
	if err != nil {
		return err
	}
	s.InvalidateClass(student.Class, year)
	return nil
}
