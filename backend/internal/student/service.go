// ============================================================================
// backend/internal/student/service.go
// Mongo-backed student records
// ============================================================================

package student

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"esomero/backend/internal/shared"
)

// ErrStudentNotFound is returned when a student id has no record.
var ErrStudentNotFound = errors.New("student not found")

// Service provides student CRUD over the students collection.
type Service struct {
	db          *mongo.Database
	studentsCol *mongo.Collection
	marksCol    *mongo.Collection
}

// NewService creates a new student Service instance
func NewService(db *mongo.Database) *Service {
	return &Service{
		db:          db,
		studentsCol: db.Collection("students"),
		marksCol:    db.Collection("marks"),
	}
}

// ByClass returns all students registered in a class, sorted by name.
func (s *Service) ByClass(ctx context.Context, class string) ([]shared.Student, error) {
	if !shared.IsValidClass(class) {
		return nil, fmt.Errorf("%w: %s", shared.ErrUnknownClass, class)
	}

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

// ByID returns one student record.
func (s *Service) ByID(ctx context.Context, id string) (*shared.Student, error) {
	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var student shared.Student
	err := s.studentsCol.FindOne(queryCtx, bson.M{"_id": id}).Decode(&student)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to retrieve student %s: %w", id, err)
	}
	return &student, nil
}

// ByNameAndClass resolves a student by exact (name, class) match, the policy
// used for import reconciliation: names alone are not unique across classes.
// Returns (nil, nil) when no student matches.
func (s *Service) ByNameAndClass(ctx context.Context, name, class string) (*shared.Student, error) {
	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var student shared.Student
	err := s.studentsCol.FindOne(queryCtx, bson.M{"name": name, "class": class}).Decode(&student)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up student %q in %s: %w", name, class, err)
	}
	return &student, nil
}

// Add creates a student with a generated id and returns the id.
func (s *Service) Add(ctx context.Context, student shared.Student) (string, error) {
	if student.Name == "" {
		return "", fmt.Errorf("student name is required")
	}
	if !shared.IsValidClass(student.Class) {
		return "", fmt.Errorf("%w: %s", shared.ErrUnknownClass, student.Class)
	}

	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	student.ID = uuid.NewString()
	if _, err := s.studentsCol.InsertOne(queryCtx, student); err != nil {
		return "", fmt.Errorf("failed to create student %q: %w", student.Name, err)
	}
	return student.ID, nil
}

// Update rewrites a student's editable fields (name, class, sex, photo).
func (s *Service) Update(ctx context.Context, id string, student shared.Student) error {
	if !shared.IsValidClass(student.Class) {
		return fmt.Errorf("%w: %s", shared.ErrUnknownClass, student.Class)
	}

	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"name":  student.Name,
		"class": student.Class,
		"sex":   student.Sex,
		"photo": student.Photo,
	}}

	result, err := s.studentsCol.UpdateOne(queryCtx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update student %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return ErrStudentNotFound
	}
	return nil
}

// Delete removes a student and the student's mark document. The two deletes
// are separate store operations; an orphaned mark document is tolerated if
// the second delete fails, matching the store's partial-failure model.
func (s *Service) Delete(ctx context.Context, id string) error {
	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	result, err := s.studentsCol.DeleteOne(queryCtx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete student %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return ErrStudentNotFound
	}

	if _, err := s.marksCol.DeleteOne(queryCtx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("student %s deleted but marks cleanup failed: %w", id, err)
	}
	return nil
}
