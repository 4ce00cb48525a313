package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"

	"github.com/schemer-edu/schemer-server/internal/catalog"
	"github.com/schemer-edu/schemer-server/internal/config"
	"github.com/schemer-edu/schemer-server/internal/session"
	"github.com/schemer-edu/schemer-server/internal/storage"
)

// Server represents the HTTP API server
type Server struct {
	config         config.ServerConfig
	router         *chi.Mux
	repo           storage.Repository
	sessions       session.Store
	catalog        *catalog.Loader
	sessionTTL     time.Duration
	validate       *validator.Validate
	authMiddleware *AuthMiddleware
}

// NewServer creates a new API server
func NewServer(
	cfg config.ServerConfig,
	repo storage.Repository,
	sessions session.Store,
	loader *catalog.Loader,
	sessionTTL time.Duration,
) *Server {
	s := &Server{
		config:         cfg,
		repo:           repo,
		sessions:       sessions,
		catalog:        loader,
		sessionTTL:     sessionTTL,
		validate:       validator.New(),
		authMiddleware: NewAuthMiddleware(sessions),
	}
	s.setupRouter()
	return s
}

// Router returns the configured router
func (s *Server) Router() http.Handler {
	return s.router
}

// setupRouter configures all routes and middleware
func (s *Server) setupRouter() {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check (outside versioned API - public)
	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)

		// The validation engine is stateless; callers supply the full
		// schedule and profile, so no login is needed.
		r.Post("/schedule/validate", s.handleValidateSchedule)
		r.Post("/schedule/can-add", s.handleCanAdd)
		r.Get("/schedule/live", s.handleLiveValidation)

		r.Route("/courses", func(r chi.Router) {
			r.Get("/", s.handleSearchCourses)
			r.Post("/search", s.handleSearchCoursesAdvanced)
			r.Get("/departments", s.handleListDepartments)
			r.Get("/{id}", s.handleGetCourse)
		})

		r.Get("/advisors", s.handleListAdvisors)

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware.Authenticate)

			r.Post("/auth/logout", s.handleLogout)
			r.Get("/auth/me", s.handleMe)

			r.Route("/me", func(r chi.Router) {
				r.Get("/profile", s.handleGetProfile)
				r.Put("/profile", s.handleUpdateProfile)
				r.Get("/completed-courses", s.handleListCompletedCourses)
				r.Put("/completed-courses", s.handleReplaceCompletedCourses)

				r.Route("/schedule", func(r chi.Router) {
					r.Get("/", s.handleGetSchedule)
					r.Post("/courses", s.handleAddScheduledCourse)
					r.Delete("/courses/{courseId}", s.handleRemoveScheduledCourse)
				})

				r.Get("/cart", s.handleGetCart)
				r.Put("/cart", s.handleSaveCart)
			})

			r.Post("/requirements/progress", s.handleRequirementsProgress)
			r.Post("/recommendations", s.handleRecommendations)

			r.Route("/advisor", func(r chi.Router) {
				r.Use(s.authMiddleware.RequireAdvisor)

				r.Get("/students", s.handleListAdvisees)
				r.Get("/students/{studentId}/notes", s.handleListNotes)
				r.Post("/students/{studentId}/notes", s.handleCreateNote)
			})
		})
	})

	s.router = r
}

// loggingMiddleware logs HTTP requests using slog
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			slog.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
				"remote_addr", r.RemoteAddr,
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
