package handlers

import (
	"log"
	"net/http"
	"strings"

	"esomero/backend/internal/gateway/util"
	"esomero/backend/internal/importer"
	"esomero/backend/internal/report"
)

// maxUploadSize bounds the multipart form parse (marksheets are small).
const maxUploadSize = 20 << 20 // 20MB

// ImportHandler serves Excel bulk imports.
type ImportHandler struct {
	Reconciler *importer.Reconciler
	Reports    *report.Service
}

// Upload ingests an xlsx file for one (class, year, term). The response is
// the per-batch result: created/matched/skipped counts plus the error list;
// a partial failure is a 200 with a populated errors array.
func (h *ImportHandler) Upload(w http.ResponseWriter, r *http.Request) {
	class := r.URL.Query().Get("class")
	year := r.URL.Query().Get("year")
	term := r.URL.Query().Get("term")
	if class == "" || year == "" || term == "" {
		util.WriteJSONError(w, http.StatusBadRequest, "class, year and term query parameters are required")
		return
	}

	var sheets []string
	if sheetsParam := r.URL.Query().Get("sheets"); sheetsParam != "" {
		sheets = strings.Split(sheetsParam, ",")
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	log.Printf("INFO: importing %s into %s %s %s", header.Filename, class, year, term)

	result, err := h.Reconciler.Run(r.Context(), file, sheets, class, year, term)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	// New marks invalidate any cached report batch for the class.
	h.Reports.InvalidateClass(class, year)

	util.WriteJSON(w, http.StatusOK, result)
}
