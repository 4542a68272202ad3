package importer

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"esomero/backend/internal/shared"
)

// fakeDirectory is an in-memory StudentDirectory keyed by name and class.
type fakeDirectory struct {
	students map[string]shared.Student
	nextID   int
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{students: make(map[string]shared.Student)}
}

func directoryKey(name, class string) string {
	return name + "|" + class
}

func (d *fakeDirectory) ByNameAndClass(_ context.Context, name, class string) (*shared.Student, error) {
	if s, ok := d.students[directoryKey(name, class)]; ok {
		return &s, nil
	}
	return nil, nil
}

func (d *fakeDirectory) Add(_ context.Context, student shared.Student) (string, error) {
	d.nextID++
	student.ID = fmt.Sprintf("gen-%d", d.nextID)
	d.students[directoryKey(student.Name, student.Class)] = student
	return student.ID, nil
}

// fakeMarkWriter records every SetMark call.
type fakeMarkWriter struct {
	writes []writtenMark
	err    error
}

type writtenMark struct {
	studentID, year, term string
	mark                  shared.Mark
}

func (w *fakeMarkWriter) SetMark(_ context.Context, studentID, year, term string, mark shared.Mark) error {
	if w.err != nil {
		return w.err
	}
	w.writes = append(w.writes, writtenMark{studentID, year, term, mark})
	return nil
}

func s1aSheet(rows ...[]interface{}) map[string][][]interface{} {
	header := []interface{}{"NAME", "SEX",
		"ENG", "MATH", "CRE", "C/SHIP", "CHEM", "BIOS", "PHY",
		"AGRI", "GEO", "HIST", "COMM", "ARA", "COMP", "P.O.A",
		"TOT", "AVE", "RANK", "STATUS"}
	return map[string][][]interface{}{"S1A": append([][]interface{}{header}, rows...)}
}

func fullRow(name, sex string, score float64, rank int) []interface{} {
	row := []interface{}{name, sex}
	for i := 0; i < 14; i++ {
		row = append(row, score)
	}
	return append(row, score*14, score, rank, "PASS")
}

func TestReconcilerRun(t *testing.T) {
	ctx := context.Background()

	t.Run("two valid rows and one missing sex", func(t *testing.T) {
		dir := newFakeDirectory()
		writer := &fakeMarkWriter{}
		rec := &Reconciler{Students: dir, Marks: writer}

		reader := buildWorkbook(t, s1aSheet(
			fullRow("ALICE OKELLO", "F", 70, 1),
			fullRow("BRIAN ODONGO", "M", 55, 2),
			fullRow("CAROL APIO", "", 62, 3),
		))

		result, err := rec.Run(ctx, reader, nil, "S1A", "2025", "Term 1")
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		if result.Uploaded != 2 || result.Updated != 0 || result.Skipped != 1 {
			t.Errorf("result = %+v, want uploaded 2 updated 0 skipped 1", result)
		}
		if len(result.Errors) != 1 {
			t.Fatalf("errors = %v, want exactly 1", result.Errors)
		}
		if !strings.Contains(result.Errors[0], "Missing Name or Sex") {
			t.Errorf("error = %q", result.Errors[0])
		}
		if len(writer.writes) != 2 {
			t.Errorf("expected 2 mark writes, got %d", len(writer.writes))
		}
	})

	t.Run("row without a name is skipped", func(t *testing.T) {
		dir := newFakeDirectory()
		writer := &fakeMarkWriter{}
		rec := &Reconciler{Students: dir, Marks: writer}

		reader := buildWorkbook(t, s1aSheet(fullRow("", "M", 66, 1)))

		result, err := rec.Run(ctx, reader, nil, "S1A", "2025", "Term 1")
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		if result.Skipped != 1 || result.Uploaded != 0 {
			t.Errorf("result = %+v, want skipped 1 uploaded 0", result)
		}
		if len(writer.writes) != 0 {
			t.Error("no mark should be written for a skipped row")
		}
	})

	t.Run("summary fields come from the sheet verbatim", func(t *testing.T) {
		dir := newFakeDirectory()
		writer := &fakeMarkWriter{}
		rec := &Reconciler{Students: dir, Marks: writer}

		// AVE deliberately disagrees with the scores: the sheet wins.
		row := fullRow("ALICE OKELLO", "F", 70, 5)
		row[17] = 68.5
		reader := buildWorkbook(t, s1aSheet(row))

		if _, err := rec.Run(ctx, reader, nil, "S1A", "2025", "Term 2"); err != nil {
			t.Fatalf("Run: %v", err)
		}
		if len(writer.writes) != 1 {
			t.Fatalf("expected 1 write, got %d", len(writer.writes))
		}
		w := writer.writes[0]
		if w.year != "2025" || w.term != "Term 2" {
			t.Errorf("write addressed to %s/%s", w.year, w.term)
		}
		if w.mark.Total != 980 || w.mark.Average != 68.5 || w.mark.Rank != 5 || w.mark.Status != "PASS" {
			t.Errorf("summary = %+v", w.mark)
		}
		if len(w.mark.Subjects) != 14 {
			t.Errorf("expected 14 subject scores, got %d", len(w.mark.Subjects))
		}
	})

	t.Run("re-import matches by name and class without rewriting fields", func(t *testing.T) {
		dir := newFakeDirectory()
		id, err := dir.Add(ctx, shared.Student{Name: "ALICE OKELLO", Class: "S1A", Sex: "F", Photo: "existing.jpg"})
		if err != nil {
			t.Fatal(err)
		}
		writer := &fakeMarkWriter{}
		rec := &Reconciler{Students: dir, Marks: writer}

		reader := buildWorkbook(t, s1aSheet(fullRow("ALICE OKELLO", "F", 80, 1)))

		result, err := rec.Run(ctx, reader, nil, "S1A", "2025", "Term 1")
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		if result.Uploaded != 0 || result.Updated != 1 {
			t.Errorf("result = %+v, want uploaded 0 updated 1", result)
		}
		if writer.writes[0].studentID != id {
			t.Errorf("mark written for %s, want %s", writer.writes[0].studentID, id)
		}
		kept, _ := dir.ByNameAndClass(ctx, "ALICE OKELLO", "S1A")
		if kept.Photo != "existing.jpg" {
			t.Errorf("existing student fields were rewritten: %+v", kept)
		}

		// Second import of the same student: still no duplicate, and the new
		// mark values win.
		reader = buildWorkbook(t, s1aSheet(fullRow("ALICE OKELLO", "F", 90, 1)))
		if _, err := rec.Run(ctx, reader, nil, "S1A", "2025", "Term 1"); err != nil {
			t.Fatalf("Run: %v", err)
		}
		if len(dir.students) != 1 {
			t.Errorf("expected 1 student after re-import, got %d", len(dir.students))
		}
		if len(writer.writes) != 2 || writer.writes[1].mark.Average != 90 {
			t.Errorf("second import should rewrite the mark: %+v", writer.writes)
		}
	})

	t.Run("missing subject is an error entry but the row still imports", func(t *testing.T) {
		dir := newFakeDirectory()
		writer := &fakeMarkWriter{}
		rec := &Reconciler{Students: dir, Marks: writer}

		row := fullRow("BRIAN ODONGO", "M", 60, 1)
		row[3] = "" // blank out MATH
		reader := buildWorkbook(t, s1aSheet(row))

		result, err := rec.Run(ctx, reader, nil, "S1A", "2025", "Term 1")
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		if result.Uploaded != 1 || result.Skipped != 0 {
			t.Errorf("result = %+v, want uploaded 1 skipped 0", result)
		}
		if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "Missing mark for subject MATH") {
			t.Errorf("errors = %v", result.Errors)
		}
		if len(writer.writes) != 1 {
			t.Fatalf("expected the row to import, got %d writes", len(writer.writes))
		}
		if _, ok := writer.writes[0].mark.Subjects["MATH"]; ok {
			t.Error("MATH should be absent from the written mark")
		}
	})

	t.Run("unreadable summary cell is an error entry but the row still imports", func(t *testing.T) {
		dir := newFakeDirectory()
		writer := &fakeMarkWriter{}
		rec := &Reconciler{Students: dir, Marks: writer}

		row := fullRow("BRIAN ODONGO", "M", 60, 1)
		row[16] = "xx" // TOT
		reader := buildWorkbook(t, s1aSheet(row))

		result, err := rec.Run(ctx, reader, nil, "S1A", "2025", "Term 1")
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		if result.Uploaded != 1 || result.Skipped != 0 {
			t.Errorf("result = %+v, want uploaded 1 skipped 0", result)
		}
		if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "Unreadable TOT value for student BRIAN ODONGO") {
			t.Errorf("errors = %v", result.Errors)
		}
		if len(writer.writes) != 1 {
			t.Fatalf("expected the row to import, got %d writes", len(writer.writes))
		}
		if writer.writes[0].mark.Total != 0 {
			t.Errorf("Total = %v, want 0 for the unreadable cell", writer.writes[0].mark.Total)
		}
	})

	t.Run("write failure skips the row and the batch continues", func(t *testing.T) {
		dir := newFakeDirectory()
		writer := &fakeMarkWriter{err: fmt.Errorf("store unavailable")}
		rec := &Reconciler{Students: dir, Marks: writer}

		reader := buildWorkbook(t, s1aSheet(fullRow("ALICE OKELLO", "F", 70, 1)))

		result, err := rec.Run(ctx, reader, nil, "S1A", "2025", "Term 1")
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		if result.Skipped != 1 {
			t.Errorf("result = %+v, want skipped 1", result)
		}
		found := false
		for _, e := range result.Errors {
			if strings.Contains(e, "Error processing student ALICE OKELLO") {
				found = true
			}
		}
		if !found {
			t.Errorf("errors = %v, want a processing error for ALICE OKELLO", result.Errors)
		}
	})

	t.Run("progress is invoked after every row including failures", func(t *testing.T) {
		dir := newFakeDirectory()
		writer := &fakeMarkWriter{}
		var calls [][2]int
		rec := &Reconciler{
			Students: dir,
			Marks:    writer,
			Progress: func(processed, total int) {
				calls = append(calls, [2]int{processed, total})
			},
		}

		reader := buildWorkbook(t, s1aSheet(
			fullRow("ALICE OKELLO", "F", 70, 1),
			fullRow("CAROL APIO", "", 62, 2),
			fullRow("BRIAN ODONGO", "M", 55, 3),
		))

		if _, err := rec.Run(ctx, reader, nil, "S1A", "2025", "Term 1"); err != nil {
			t.Fatalf("Run: %v", err)
		}
		if len(calls) != 3 {
			t.Fatalf("expected 3 progress calls, got %d", len(calls))
		}
		for i, call := range calls {
			if call[0] != i+1 || call[1] != 3 {
				t.Errorf("call %d = %v, want [%d 3]", i, call, i+1)
			}
		}
	})

	t.Run("unknown class aborts before any row", func(t *testing.T) {
		dir := newFakeDirectory()
		writer := &fakeMarkWriter{}
		rec := &Reconciler{Students: dir, Marks: writer}

		reader := buildWorkbook(t, s1aSheet(fullRow("ALICE OKELLO", "F", 70, 1)))

		if _, err := rec.Run(ctx, reader, nil, "S9Z", "2025", "Term 1"); err == nil {
			t.Fatal("expected error for unknown class")
		}
		if len(writer.writes) != 0 || len(dir.students) != 0 {
			t.Error("no row should have been processed")
		}
	})

	t.Run("unreadable workbook aborts before any row", func(t *testing.T) {
		dir := newFakeDirectory()
		writer := &fakeMarkWriter{}
		rec := &Reconciler{Students: dir, Marks: writer}

		_, err := rec.Run(ctx, bytes.NewReader([]byte("garbage")), nil, "S1A", "2025", "Term 1")
		if err == nil {
			t.Fatal("expected error for unreadable workbook")
		}
		if len(writer.writes) != 0 {
			t.Error("no mark should have been written")
		}
	})
}
