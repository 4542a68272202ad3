package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"esomero/backend/internal/gateway/util"
	"esomero/backend/internal/report"
)

// ReportHandler serves assembled report cards.
type ReportHandler struct {
	Reports *report.Service
}

// StudentReport returns one student's report card for a year.
func (h *ReportHandler) StudentReport(w http.ResponseWriter, r *http.Request) {
	studentID := chi.URLParam(r, "studentID")
	year := r.URL.Query().Get("year")
	if year == "" {
		util.WriteJSONError(w, http.StatusBadRequest, "year query parameter is required")
		return
	}

	card, err := h.Reports.StudentReport(r.Context(), studentID, year)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, card)
}

// ClassReports returns report cards for a whole class (batch generation).
func (h *ReportHandler) ClassReports(w http.ResponseWriter, r *http.Request) {
	class := chi.URLParam(r, "class")
	year := r.URL.Query().Get("year")
	if year == "" {
		util.WriteJSONError(w, http.StatusBadRequest, "year query parameter is required")
		return
	}

	cards, err := h.Reports.ClassReports(r.Context(), class, year)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, cards)
}
