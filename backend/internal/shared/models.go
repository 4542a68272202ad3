// ============================================================================
// backend/internal/shared/models.go
// Shared data models and structs for MongoDB documents
// ============================================================================

package shared

import (
	"time"
)

// ============================================================================
// Student Models
// ============================================================================

// Student represents a registered student record
type Student struct {
	ID    string `bson:"_id" json:"id"`
	Name  string `bson:"name" json:"name"`
	Class string `bson:"class" json:"class"` // one of the fixed class codes, e.g. "S1A"
	Sex   string `bson:"sex" json:"sex"`
	Photo string `bson:"photo,omitempty" json:"photo,omitempty"`
}

// ============================================================================
// Mark Models
// ============================================================================

// Mark is a student's record for one (year, term): per-subject scores plus
// the derived summary fields.
type Mark struct {
	Subjects map[string]float64 `bson:"subjects" json:"subjects"`
	Total    float64            `bson:"total" json:"total"`
	Average  float64            `bson:"average" json:"average"`
	Rank     int                `bson:"rank" json:"rank"`
	Status   string             `bson:"status" json:"status"` // PASS or FAIL
}

// StudentMark pairs a Mark with the owning student's identity, used for
// class/term cohort listings.
type StudentMark struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Mark
}

// ReportCardMark is a flattened view of one term's Mark used to assemble a
// report card across all terms of a year.
type ReportCardMark struct {
	ID    string `json:"id"`
	Class string `json:"class"`
	Year  string `json:"year"`
	Term  string `json:"term"`
	Mark
}

// YearlyStudentMark aggregates a student's terms within one year for the
// yearly overview and overall ranking.
type YearlyStudentMark struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Sex    string          `json:"sex"`
	Stream string          `json:"stream"`
	Terms  map[string]Mark `json:"terms"`
	Rank   int             `json:"rank,omitempty"`
}

// ============================================================================
// Import Models
// ============================================================================

// ImportResult is the aggregate outcome of one Excel import batch.
// Uploaded counts newly created students; Updated counts rows matched to an
// existing student (the student record itself is not rewritten, only the
// mark); Skipped counts rows that failed validation or processing.
type ImportResult struct {
	Uploaded int      `json:"uploaded"`
	Updated  int      `json:"updated"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors"`
}

// ============================================================================
// User Models
// ============================================================================

// User represents a staff account able to sign in to the dashboard
type User struct {
	ID           string    `bson:"_id" json:"id"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"password_hash" json:"-"` // Never expose in JSON
	Name         string    `bson:"name" json:"name"`
	Role         string    `bson:"role" json:"role"` // admin, teacher
	IsActive     bool      `bson:"is_active" json:"is_active"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}

// ============================================================================
// Constants
// ============================================================================

const (
	// Term pass/fail status values
	StatusPass = "PASS"
	StatusFail = "FAIL"

	// User roles
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
)
