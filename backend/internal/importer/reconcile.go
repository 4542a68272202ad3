// ============================================================================
// backend/internal/importer/reconcile.go
// Row-by-row reconciliation of spreadsheet rows against the student store
// ============================================================================

package importer

import (
	"context"
	"fmt"
	"io"
	"log"

	"esomero/backend/internal/shared"
)

// StudentDirectory is the slice of the student store the reconciler needs.
// ByNameAndClass returns (nil, nil) when no student matches.
type StudentDirectory interface {
	ByNameAndClass(ctx context.Context, name, class string) (*shared.Student, error)
	Add(ctx context.Context, student shared.Student) (string, error)
}

// MarkWriter writes one term's mark for a student with merge semantics.
type MarkWriter interface {
	SetMark(ctx context.Context, studentID, year, term string, mark shared.Mark) error
}

// ProgressFunc is invoked after each row is fully processed (success or
// failure) with the running count and the batch total. Optional side
// channel for progress bars; not part of the correctness contract.
type ProgressFunc func(processed, total int)

// Reconciler ingests spreadsheet rows for one (class, year, term) and writes
// mark documents, tolerating partial failure: a bad row is recorded and the
// batch continues.
type Reconciler struct {
	Students StudentDirectory
	Marks    MarkWriter
	Progress ProgressFunc
}

// Run imports the selected sheets of an xlsx stream. An unknown class or an
// unreadable workbook aborts before any row is processed; everything after
// that is per-row.
//
// Rows are processed sequentially, one at a time, to keep progress reporting
// monotonic and bound store write concurrency.
func (r *Reconciler) Run(ctx context.Context, workbook io.Reader, sheetNames []string, class, year, term string) (*shared.ImportResult, error) {
	subjects, err := shared.ClassSubjects(class)
	if err != nil {
		return nil, fmt.Errorf("class configuration not found for %s: %w", class, err)
	}

	wb, err := ParseWorkbook(workbook, sheetNames)
	if err != nil {
		return nil, err
	}

	total := wb.RowCount()
	result := &shared.ImportResult{Errors: []string{}}
	processed := 0

	step := func() {
		processed++
		if r.Progress != nil {
			r.Progress(processed, total)
		}
	}

	for _, sheet := range wb.Sheets {
		for _, row := range sheet.Rows {
			if err := row.Validate(); err != nil {
				log.Printf("Warning: skipping row in sheet %s: missing Name or Sex", sheet.Name)
				result.Errors = append(result.Errors, fmt.Sprintf("Row skipped: Missing Name or Sex for %q", row.Name))
				result.Skipped++
				step()
				continue
			}

			if err := r.importRow(ctx, row, subjects, class, year, term, result); err != nil {
				log.Printf("Error processing row for %s: %v", row.Name, err)
				result.Errors = append(result.Errors, fmt.Sprintf("Error processing student %s: %v", row.Name, err))
				result.Skipped++
			}
			step()
		}
	}

	log.Printf("Import complete: %d uploaded, %d updated, %d skipped", result.Uploaded, result.Updated, result.Skipped)
	return result, nil
}

// importRow resolves the row to a student and writes the term's mark.
//
// An existing student's stored fields are deliberately left untouched so a
// re-import cannot clobber manually edited records; "updated" only means the
// row matched an existing student and its mark was written.
func (r *Reconciler) importRow(ctx context.Context, row Row, subjects []shared.Subject, class, year, term string, result *shared.ImportResult) error {
	existing, err := r.Students.ByNameAndClass(ctx, row.Name, class)
	if err != nil {
		return err
	}

	var studentID string
	if existing != nil {
		if existing.ID == "" {
			return fmt.Errorf("existing student has no id: %s", row.Name)
		}
		studentID = existing.ID
		result.Updated++
	} else {
		studentID, err = r.Students.Add(ctx, shared.Student{
			Name:  row.Name,
			Class: class,
			Sex:   row.Sex,
			Photo: "",
		})
		if err != nil {
			return err
		}
		result.Uploaded++
	}

	// A summary cell that did not parse is recorded but never skips the row,
	// same as a missing subject.
	for _, col := range row.Malformed {
		log.Printf("Warning: unreadable %s value for student %s", col, row.Name)
		result.Errors = append(result.Errors, fmt.Sprintf("Unreadable %s value for student %s", col, row.Name))
	}

	// The summary fields are taken from the sheet's own TOT/AVE/RANK/STATUS
	// columns, not recomputed: bulk import trusts the spreadsheet.
	mark := shared.Mark{
		Subjects: make(map[string]float64),
		Total:    row.Total,
		Average:  row.Average,
		Rank:     row.Rank,
		Status:   row.Status,
	}

	for _, subject := range subjects {
		score, ok := row.Scores[subject.Code]
		if !ok {
			// A missing subject is recorded but never skips the row.
			log.Printf("Warning: missing mark for subject %s for student %s", subject.Code, row.Name)
			result.Errors = append(result.Errors, fmt.Sprintf("Missing mark for subject %s for student %s", subject.Code, row.Name))
			continue
		}
		mark.Subjects[subject.Code] = score
	}

	return r.Marks.SetMark(ctx, studentID, year, term, mark)
}
