package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"esomero/backend/internal/gateway/util"
	"esomero/backend/internal/shared"
	"esomero/backend/internal/student"
)

// StudentHandler serves student CRUD.
type StudentHandler struct {
	Students *student.Service
}

// ListByClass returns the students registered in the class given by the
// "class" query parameter.
func (h *StudentHandler) ListByClass(w http.ResponseWriter, r *http.Request) {
	class := r.URL.Query().Get("class")
	if class == "" {
		util.WriteJSONError(w, http.StatusBadRequest, "class query parameter is required")
		return
	}

	students, err := h.Students.ByClass(r.Context(), class)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, students)
}

// Get returns one student by id.
func (h *StudentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	st, err := h.Students.ByID(r.Context(), id)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, st)
}

// Create registers a new student and returns the generated id.
func (h *StudentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var st shared.Student
	if err := json.NewDecoder(r.Body).Decode(&st); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := h.Students.Add(r.Context(), st)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// Update rewrites a student's editable fields.
func (h *StudentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var st shared.Student
	if err := json.NewDecoder(r.Body).Decode(&st); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Students.Update(r.Context(), id, st); err != nil {
		util.HandleServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, map[string]string{"id": id})
}

// Delete removes a student and the student's marks.
func (h *StudentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Students.Delete(r.Context(), id); err != nil {
		util.HandleServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, map[string]string{"id": id})
}
