// ============================================================================
// backend/internal/shared/school.go
// Fixed school catalog: classes, subject lists, terms, years, grade scale
// ============================================================================

package shared

import (
	"errors"
	"fmt"
	"math"
)

// ErrUnknownClass is returned when a class code is not in the catalog.
var ErrUnknownClass = errors.New("unknown class")

// Subject is one teachable subject with its spreadsheet column code.
type Subject struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// Class maps a class code to its ordered subject list.
type Class struct {
	Name     string    `json:"name"`
	Subjects []Subject `json:"subjects"`
}

var s1Subjects = []Subject{
	{Name: "English", Code: "ENG"},
	{Name: "Mathematics", Code: "MATH"},
	{Name: "Christian Religious Education", Code: "CRE"},
	{Name: "Citizenship", Code: "C/SHIP"},
	{Name: "Chemistry", Code: "CHEM"},
	{Name: "Biology", Code: "BIOS"},
	{Name: "Physics", Code: "PHY"},
	{Name: "Agriculture", Code: "AGRI"},
	{Name: "Geography", Code: "GEO"},
	{Name: "History", Code: "HIST"},
	{Name: "Commerce", Code: "COMM"},
	{Name: "Arabic", Code: "ARA"},
	{Name: "Computer", Code: "COMP"},
	{Name: "Physical Education", Code: "P.O.A"},
}

var prepSubjects = []Subject{
	{Name: "English", Code: "ENG"},
	{Name: "Mathematics", Code: "MATH"},
	{Name: "Christian Religious Education", Code: "CRE"},
	{Name: "Chemistry", Code: "CHEM"},
	{Name: "Biology", Code: "BIOS"},
	{Name: "Physics", Code: "PHY"},
}

var scienceSubjects = []Subject{
	{Name: "English", Code: "ENG"},
	{Name: "Mathematics", Code: "MATH"},
	{Name: "Christian Religious Education", Code: "CRE"},
	{Name: "Citizenship", Code: "C/SHIP"},
	{Name: "Chemistry", Code: "CHEM"},
	{Name: "Biology", Code: "BIOS"},
	{Name: "Physics", Code: "PHY"},
	{Name: "Agriculture", Code: "AGRI"},
	{Name: "Additional Maths", Code: "ADD MATH"},
	{Name: "Computer", Code: "COMP"},
}

var artSubjects = []Subject{
	{Name: "English", Code: "ENG"},
	{Name: "Mathematics", Code: "MATH"},
	{Name: "Christian Religious Education", Code: "CRE"},
	{Name: "Citizenship", Code: "C/SHIP"},
	{Name: "Geography", Code: "GEO"},
	{Name: "History", Code: "HIST"},
	{Name: "Commerce", Code: "COMM"},
	{Name: "Literature", Code: "LIT"},
	{Name: "Computer", Code: "COMP"},
	{Name: "Physical Education", Code: "P.O.A"},
}

// Classes is the full fixed catalog, in display order.
var Classes = []Class{
	{Name: "PREP-A", Subjects: prepSubjects},
	{Name: "PREP-B", Subjects: prepSubjects},
	{Name: "S1A", Subjects: s1Subjects},
	{Name: "S1B", Subjects: s1Subjects},
	{Name: "S1C", Subjects: s1Subjects},
	{Name: "S1D", Subjects: s1Subjects},
	{Name: "S1E", Subjects: s1Subjects},
	{Name: "S2A", Subjects: s1Subjects},
	{Name: "S2B", Subjects: s1Subjects},
	{Name: "S3A", Subjects: scienceSubjects},
	{Name: "S3B", Subjects: artSubjects},
	{Name: "S4A", Subjects: scienceSubjects},
	{Name: "S4B", Subjects: artSubjects},
}

// Years are the academic years the dashboard offers.
var Years = []string{"2024", "2025", "2026", "2027"}

// Terms are the three grading periods of an academic year.
var Terms = []string{"Term 1", "Term 2", "Term 3"}

// ClassSubjects returns the ordered subject list for a class code.
func ClassSubjects(name string) ([]Subject, error) {
	for _, c := range Classes {
		if c.Name == name {
			return c.Subjects, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownClass, name)
}

// IsValidClass reports whether a class code is in the catalog.
func IsValidClass(name string) bool {
	_, err := ClassSubjects(name)
	return err == nil
}

// nextClass maps each class code to the class a promoted student moves into.
// Final-year classes (S4*) have no entry. S2A feeds the science stream and
// S2B the arts stream.
var nextClass = map[string]string{
	"PREP-A": "S1A",
	"PREP-B": "S1B",
	"S1A":    "S2A",
	"S1B":    "S2A",
	"S1C":    "S2B",
	"S1D":    "S2B",
	"S1E":    "S2B",
	"S2A":    "S3A",
	"S2B":    "S3B",
	"S3A":    "S4A",
	"S3B":    "S4B",
}

// NextClass returns the next tier's class label, or "" for terminal classes.
func NextClass(current string) string {
	return nextClass[current]
}

// GradeLetter converts a numeric score to the school's letter grade.
func GradeLetter(score float64) string {
	switch {
	case score >= 80:
		return "A"
	case score >= 75:
		return "A-"
	case score >= 70:
		return "B+"
	case score >= 65:
		return "B"
	case score >= 60:
		return "B-"
	case score >= 55:
		return "C+"
	case score >= 50:
		return "C"
	case score >= 45:
		return "C-"
	case score >= 40:
		return "D+"
	case score >= 35:
		return "D"
	case score >= 30:
		return "D-"
	default:
		return "E"
	}
}

// FormatScore renders a score for display, mapping NaN to "N/A".
func FormatScore(score float64) string {
	if math.IsNaN(score) {
		return "N/A"
	}
	return fmt.Sprintf("%.1f", score)
}
