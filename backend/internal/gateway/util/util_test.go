package util

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"esomero/backend/internal/auth"
	"esomero/backend/internal/marks"
	"esomero/backend/internal/report"
	"esomero/backend/internal/shared"
	"esomero/backend/internal/student"
)

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusCreated, map[string]string{"id": "s1"})

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var resp JSONResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !resp.Success {
		t.Error("Success = false, want true")
	}
}

func TestHandleServiceError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"student not found", student.ErrStudentNotFound, http.StatusNotFound},
		{"mark not found", marks.ErrMarkNotFound, http.StatusNotFound},
		{"no marks for year", report.ErrNoMarks, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("lookup: %w", student.ErrStudentNotFound), http.StatusNotFound},
		{"unknown class", shared.ErrUnknownClass, http.StatusBadRequest},
		{"invalid subject code", marks.ErrInvalidSubject, http.StatusBadRequest},
		{"wrapped invalid subject", fmt.Errorf("set mark: %w", marks.ErrInvalidSubject), http.StatusBadRequest},
		{"invalid credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{"inactive account", auth.ErrInactiveAccount, http.StatusForbidden},
		{"anything else", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleServiceError(rec, tc.err)
			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d", rec.Code, tc.want)
			}

			var resp JSONError
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if resp.Success {
				t.Error("Success = true on error response")
			}
		})
	}
}

func TestExtractToken(t *testing.T) {
	newRequest := func(header string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/api/students", nil)
		if header != "" {
			r.Header.Set("Authorization", header)
		}
		return r
	}

	t.Run("bearer token", func(t *testing.T) {
		token, err := ExtractToken(newRequest("Bearer abc.def.ghi"))
		if err != nil {
			t.Fatalf("ExtractToken: %v", err)
		}
		if token != "abc.def.ghi" {
			t.Errorf("token = %q", token)
		}
	})

	t.Run("scheme is case-insensitive", func(t *testing.T) {
		token, err := ExtractToken(newRequest("bearer abc"))
		if err != nil {
			t.Fatalf("ExtractToken: %v", err)
		}
		if token != "abc" {
			t.Errorf("token = %q", token)
		}
	})

	t.Run("missing header", func(t *testing.T) {
		if _, err := ExtractToken(newRequest("")); err == nil {
			t.Error("expected error for missing header")
		}
	})

	t.Run("wrong scheme", func(t *testing.T) {
		if _, err := ExtractToken(newRequest("Basic dXNlcg==")); err == nil {
			t.Error("expected error for non-bearer scheme")
		}
	})

	t.Run("malformed header", func(t *testing.T) {
		if _, err := ExtractToken(newRequest("Bearer")); err == nil {
			t.Error("expected error for header without token")
		}
	})
}
