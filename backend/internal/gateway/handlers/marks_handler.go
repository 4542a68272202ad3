package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"esomero/backend/internal/gateway/util"
	"esomero/backend/internal/marks"
	"esomero/backend/internal/report"
	"esomero/backend/internal/shared"
)

// MarksHandler serves per-term marks, cohort listings, statistics and the
// yearly overview.
type MarksHandler struct {
	Marks   *marks.Service
	Reports *report.Service
}

// ClassMarks returns the ranked cohort for (class, year, term).
func (h *MarksHandler) ClassMarks(w http.ResponseWriter, r *http.Request) {
	class, year, term, ok := cohortParams(w, r)
	if !ok {
		return
	}

	cohort, err := h.Marks.ClassMarks(r.Context(), class, year, term)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, cohort)
}

// GetMark returns one student's mark for (year, term).
func (h *MarksHandler) GetMark(w http.ResponseWriter, r *http.Request) {
	studentID := chi.URLParam(r, "studentID")
	year := r.URL.Query().Get("year")
	term := r.URL.Query().Get("term")
	if year == "" || term == "" {
		util.WriteJSONError(w, http.StatusBadRequest, "year and term query parameters are required")
		return
	}

	mark, err := h.Marks.Mark(r.Context(), studentID, year, term)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, mark)
}

type setMarkRequest struct {
	Subjects map[string]float64 `json:"subjects"`
}

// SetMark writes one student's mark for (year, term). The summary fields
// are derived from the submitted subject scores; this is the manual-entry
// path, unlike bulk import which trusts the sheet's own summary columns.
func (h *MarksHandler) SetMark(w http.ResponseWriter, r *http.Request) {
	studentID := chi.URLParam(r, "studentID")
	year := r.URL.Query().Get("year")
	term := r.URL.Query().Get("term")
	if year == "" || term == "" {
		util.WriteJSONError(w, http.StatusBadRequest, "year and term query parameters are required")
		return
	}

	var req setMarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Subjects) == 0 {
		util.WriteJSONError(w, http.StatusBadRequest, "at least one subject score is required")
		return
	}

	total, average, status := marks.Summarize(req.Subjects)
	mark := shared.Mark{
		Subjects: req.Subjects,
		Total:    total,
		Average:  average,
		Status:   status,
	}

	if err := h.Marks.SetMark(r.Context(), studentID, year, term, mark); err != nil {
		util.HandleServiceError(w, err)
		return
	}

	// The edited mark invalidates any cached report batch for the class,
	// same as bulk import.
	if err := h.Reports.InvalidateStudentClass(r.Context(), studentID, year); err != nil {
		log.Printf("Warning: failed to invalidate report cache for student %s: %v", studentID, err)
	}

	util.WriteJSON(w, http.StatusOK, mark)
}

// SubjectStats returns per-subject statistics for a cohort.
func (h *MarksHandler) SubjectStats(w http.ResponseWriter, r *http.Request) {
	class, year, term, ok := cohortParams(w, r)
	if !ok {
		return
	}

	cohort, err := h.Marks.ClassMarks(r.Context(), class, year, term)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	subjectStats, err := marks.SubjectStatistics(class, cohort)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, subjectStats)
}

// YearlyOverview returns students of one or more classes ranked by yearly
// average, or by a single term's average when the "term" parameter is set.
func (h *MarksHandler) YearlyOverview(w http.ResponseWriter, r *http.Request) {
	year := r.URL.Query().Get("year")
	classesParam := r.URL.Query().Get("classes")
	if year == "" || classesParam == "" {
		util.WriteJSONError(w, http.StatusBadRequest, "year and classes query parameters are required")
		return
	}
	classes := strings.Split(classesParam, ",")

	students, err := h.Marks.YearlyMarks(r.Context(), year, classes)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	if term := r.URL.Query().Get("term"); term != "" {
		util.WriteJSON(w, http.StatusOK, marks.TermRanking(students, term))
		return
	}

	ranked := marks.RankStudents(students)
	type overviewRow struct {
		shared.YearlyStudentMark
		YearlyAverage float64 `json:"yearly_average"`
	}
	rows := make([]overviewRow, len(ranked))
	for i, student := range ranked {
		rows[i] = overviewRow{YearlyStudentMark: student, YearlyAverage: marks.YearlyAverage(student)}
	}
	util.WriteJSON(w, http.StatusOK, rows)
}

func cohortParams(w http.ResponseWriter, r *http.Request) (class, year, term string, ok bool) {
	class = r.URL.Query().Get("class")
	year = r.URL.Query().Get("year")
	term = r.URL.Query().Get("term")
	if class == "" || year == "" || term == "" {
		util.WriteJSONError(w, http.StatusBadRequest, "class, year and term query parameters are required")
		return "", "", "", false
	}
	return class, year, term, true
}
