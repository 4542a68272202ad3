// ============================================================================
// backend/internal/marks/service.go
// Mongo-backed mark store: one document per student, terms nested by year
// ============================================================================

package marks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"

	"esomero/backend/internal/shared"
)

// ErrMarkNotFound is returned when no mark exists for a (student, year, term).
var ErrMarkNotFound = errors.New("mark not found")

// markDocument is the stored shape: marks/{studentID} with terms nested
// under their year, so one $set on "years.<year>.<term>" merges a term
// without touching its siblings.
type markDocument struct {
	ID    string                            `bson:"_id"`
	Years map[string]map[string]shared.Mark `bson:"years"`
}

// Service provides mark persistence and cohort queries.
type Service struct {
	db          *mongo.Database
	marksCol    *mongo.Collection
	studentsCol *mongo.Collection
}

// NewService creates a new mark Service instance
func NewService(db *mongo.Database) *Service {
	return &Service{
		db:          db,
		marksCol:    db.Collection("marks"),
		studentsCol: db.Collection("students"),
	}
}

// SetMark writes one term's mark for a student, merging into the student's
// mark document (upsert). Sibling terms and years are left untouched. The
// subject codes are checked against the student's class before anything is
// written.
func (s *Service) SetMark(ctx context.Context, studentID, year, term string, mark shared.Mark) error {
	if studentID == "" || year == "" || term == "" {
		return fmt.Errorf("student id, year and term are required")
	}

	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var student shared.Student
	if err := s.studentsCol.FindOne(queryCtx, bson.M{"_id": studentID}).Decode(&student); err != nil {
		if err == mongo.ErrNoDocuments {
			return fmt.Errorf("student %s: %w", studentID, ErrMarkNotFound)
		}
		return fmt.Errorf("failed to retrieve student %s: %w", studentID, err)
	}
	if err := ValidateSubjects(student.Class, mark.Subjects); err != nil {
		return err
	}

	field := fmt.Sprintf("years.%s.%s", year, term)
	update := bson.M{"$set": bson.M{field: mark}}
	opts := options.Update().SetUpsert(true)

	if _, err := s.marksCol.UpdateOne(queryCtx, bson.M{"_id": studentID}, update, opts); err != nil {
		return fmt.Errorf("failed to write mark for student %s: %w", studentID, err)
	}
	return nil
}

// Mark retrieves one term's mark for a student.
func (s *Service) Mark(ctx context.Context, studentID, year, term string) (*shared.Mark, error) {
	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var doc markDocument
	err := s.marksCol.FindOne(queryCtx, bson.M{"_id": studentID}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrMarkNotFound
		}
		return nil, fmt.Errorf("failed to retrieve marks for student %s: %w", studentID, err)
	}

	mark, ok := doc.Years[year][term]
	if !ok {
		return nil, ErrMarkNotFound
	}
	return &mark, nil
}

// TermsForStudent returns the report-card view of all terms a student has in
// one year, in term order.
func (s *Service) TermsForStudent(ctx context.Context, studentID, year string) ([]shared.ReportCardMark, error) {
	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var student shared.Student
	if err := s.studentsCol.FindOne(queryCtx, bson.M{"_id": studentID}).Decode(&student); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("student %s: %w", studentID, ErrMarkNotFound)
		}
		return nil, fmt.Errorf("failed to retrieve student %s: %w", studentID, err)
	}

	var doc markDocument
	err := s.marksCol.FindOne(queryCtx, bson.M{"_id": studentID}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrMarkNotFound
		}
		return nil, fmt.Errorf("failed to retrieve marks for student %s: %w", studentID, err)
	}

	var result []shared.ReportCardMark
	for _, term := range shared.Terms {
		mark, ok := doc.Years[year][term]
		if !ok {
			continue
		}
		result = append(result, shared.ReportCardMark{
			ID:    studentID,
			Class: student.Class,
			Year:  year,
			Term:  term,
			Mark:  mark,
		})
	}
	return result, nil
}

// ClassMarks returns the cohort for one (class, year, term) with ranks
// recomputed from the fresh read; stored ranks are never trusted at display
// time. Mark reads fan out concurrently since no ordering is required.
func (s *Service) ClassMarks(ctx context.Context, class, year, term string) ([]shared.StudentMark, error) {
	if !shared.IsValidClass(class) {
		return nil, fmt.Errorf("%w: %s", shared.ErrUnknownClass, class)
	}

	students, err := s.classStudents(ctx, class)
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	found := make([]*shared.StudentMark, len(students))

	for i, student := range students {
		i, student := i, student
		g.Go(func() error {
			mark, err := s.Mark(gctx, student.ID, year, term)
			if err != nil {
				if errors.Is(err, ErrMarkNotFound) {
					return nil
				}
				return err
			}
			found[i] = &shared.StudentMark{ID: student.ID, Name: student.Name, Mark: *mark}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var cohort []shared.StudentMark
	for _, sm := range found {
		if sm != nil {
			cohort = append(cohort, *sm)
		}
	}
	return RankCohort(cohort), nil
}

// YearlyMarks assembles the yearly overview rows for one or more classes.
// Ranks are left unassigned; callers rank with RankStudents or TermRanking
// depending on the view.
func (s *Service) YearlyMarks(ctx context.Context, year string, classes []string) ([]shared.YearlyStudentMark, error) {
	var all []shared.YearlyStudentMark

	for _, class := range classes {
		if !shared.IsValidClass(class) {
			return nil, fmt.Errorf("%w: %s", shared.ErrUnknownClass, class)
		}

		students, err := s.classStudents(ctx, class)
		if err != nil {
			return nil, err
		}

		g, gctx := errgroup.WithContext(ctx)
		found := make([]*shared.YearlyStudentMark, len(students))

		for i, student := range students {
			i, student := i, student
			g.Go(func() error {
				terms, err := s.studentYear(gctx, student.ID, year)
				if err != nil {
					return err
				}
				if len(terms) == 0 {
					return nil
				}
				found[i] = &shared.YearlyStudentMark{
					ID:     student.ID,
					Name:   student.Name,
					Sex:    student.Sex,
					Stream: student.Class,
					Terms:  terms,
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		for _, ym := range found {
			if ym != nil {
				all = append(all, *ym)
			}
		}
	}
	return all, nil
}

// DeleteMarks removes a student's entire mark document.
func (s *Service) DeleteMarks(ctx context.Context, studentID string) error {
	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := s.marksCol.DeleteOne(queryCtx, bson.M{"_id": studentID}); err != nil {
		return fmt.Errorf("failed to delete marks for student %s: %w", studentID, err)
	}
	return nil
}

func (s *Service) classStudents(ctx context.Context, class string) ([]shared.Student, error) {
	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := s.studentsCol.Find(queryCtx, bson.M{"class": class}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to query students for class %s: %w", class, err)
	}
	defer cursor.Close(queryCtx)

	var students []shared.Student
	for cursor.Next(queryCtx) {
		var student shared.Student
		if err := cursor.Decode(&student); err != nil {
			continue
		}
		students = append(students, student)
	}
	return students, nil
}

func (s *Service) studentYear(ctx context.Context, studentID, year string) (map[string]shared.Mark, error) {
	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var doc markDocument
	err := s.marksCol.FindOne(queryCtx, bson.M{"_id": studentID}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to retrieve marks for student %s: %w", studentID, err)
	}
	return doc.Years[year], nil
}
