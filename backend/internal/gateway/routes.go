package gateway

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"esomero/backend/internal/auth"
	"esomero/backend/internal/gateway/handlers"
	"esomero/backend/internal/gateway/util"
	"esomero/backend/internal/importer"
	"esomero/backend/internal/marks"
	"esomero/backend/internal/report"
	"esomero/backend/internal/shared"
	"esomero/backend/internal/student"
)

// Services bundles the domain services the router dispatches to.
type Services struct {
	Auth     *auth.Service
	Students *student.Service
	Marks    *marks.Service
	Reports  *report.Service
}

// SetupRoutes configures the Chi router, middleware, and route handlers.
func SetupRoutes(config *shared.ServerConfig, services *Services) *chi.Mux {
	r := chi.NewRouter()

	// 1. Global Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   config.CORS.AllowedOrigins,
		AllowedMethods:   config.CORS.AllowedMethods,
		AllowedHeaders:   config.CORS.AllowedHeaders,
		AllowCredentials: config.CORS.AllowCredentials,
		MaxAge:           config.CORS.MaxAge,
	}))

	// 2. Initialize Handlers
	authHandler := &handlers.AuthHandler{Auth: services.Auth}
	studentHandler := &handlers.StudentHandler{Students: services.Students}
	marksHandler := &handlers.MarksHandler{Marks: services.Marks, Reports: services.Reports}
	importHandler := &handlers.ImportHandler{
		Reconciler: &importer.Reconciler{Students: services.Students, Marks: services.Marks},
		Reports:    services.Reports,
	}
	reportHandler := &handlers.ReportHandler{Reports: services.Reports}

	// 3. Define Routes (grouped by prefix)
	r.Route("/api", func(r chi.Router) {

		// --- Public Routes ---
		r.Post("/auth/login", authHandler.Login)
		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			util.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		// --- Protected Routes (Require Valid Token) ---
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(services.Auth))

			// Students
			r.Route("/students", func(r chi.Router) {
				r.Get("/", studentHandler.ListByClass)
				r.Post("/", studentHandler.Create)
				r.Get("/{id}", studentHandler.Get)
				r.Put("/{id}", studentHandler.Update)
				r.Delete("/{id}", studentHandler.Delete)
			})

			// Marks
			r.Route("/marks", func(r chi.Router) {
				r.Get("/", marksHandler.ClassMarks)
				r.Get("/stats", marksHandler.SubjectStats)
				r.Get("/yearly", marksHandler.YearlyOverview)
				r.Get("/{studentID}", marksHandler.GetMark)
				r.Put("/{studentID}", marksHandler.SetMark)
			})

			// Bulk Import
			r.Post("/import", importHandler.Upload)

			// Report Cards
			r.Route("/reports", func(r chi.Router) {
				r.Get("/class/{class}", reportHandler.ClassReports)
				r.Get("/{studentID}", reportHandler.StudentReport)
			})
		})
	})

	return r
}

// AuthMiddleware creates a middleware that validates JWT tokens.
func AuthMiddleware(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, err := util.ExtractToken(r)
			if err != nil {
				util.WriteJSONError(w, http.StatusUnauthorized, "Authorization token required")
				return
			}

			if _, err := authService.VerifyToken(tokenStr); err != nil {
				util.WriteJSONError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
