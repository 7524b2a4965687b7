// Package web is the presentation layer: server-rendered pages that drive
// the session manager, the access guards and the per-resource sync
// controllers. Every table it renders is a snapshot of the backend, never
// a local source of truth.
package web

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/csrf"

	"github.com/sajithv/hospmeals/internal/access"
	"github.com/sajithv/hospmeals/internal/api"
	"github.com/sajithv/hospmeals/internal/domain"
	"github.com/sajithv/hospmeals/internal/session"
	"github.com/sajithv/hospmeals/internal/sync"
)

const sessionCookie = "hospmeals_session"

// Options carries the knobs main wires from config.
type Options struct {
	// CSRFKey enables form CSRF protection when non-empty. Tests drive
	// the bare handler by leaving it unset.
	CSRFKey    string
	CSRFSecure bool
}

type Server struct {
	sessions  *session.Manager
	registry  *sync.Registry
	client    *api.Client
	templates embed.FS
	handler   http.Handler
	logger    *slog.Logger
	opts      Options
	tmplFuncs template.FuncMap
}

func NewServer(sessions *session.Manager, registry *sync.Registry, client *api.Client, tmpl embed.FS, logger *slog.Logger, opts Options) *Server {
	s := &Server{
		sessions:  sessions,
		registry:  registry,
		client:    client,
		templates: tmpl,
		logger:    logger,
		opts:      opts,
		tmplFuncs: template.FuncMap{
			"statusOptions": statusOptions,
		},
	}
	s.handler = s.buildRouter()
	if opts.CSRFKey != "" {
		protect := csrf.Protect(
			[]byte(opts.CSRFKey),
			csrf.Secure(opts.CSRFSecure),
			csrf.Path("/"),
		)
		s.handler = protect(s.handler)
	}
	return s
}

func statusOptions() []domain.TaskStatus {
	return []domain.TaskStatus{domain.StatusPending, domain.StatusInProgress, domain.StatusCompleted}
}

func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(requestLogger(s.logger))
	r.Use(securityHeaders)
	r.Use(metricsMiddleware)
	r.Use(access.Load(s.sessions, sessionCookie, s.logger))

	r.Get("/", s.handleHome)
	r.Get("/login", s.handleLoginPage)
	r.Post("/login", s.handleLogin)
	r.Get("/signup", s.handleSignupPage)
	r.Post("/signup", s.handleSignup)
	r.Post("/logout", s.handleLogout)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Method(http.MethodGet, "/metrics", metricsHandler())

	// Manager-only screens.
	r.Group(func(r chi.Router) {
		r.Use(access.RequireRole(domain.RoleManager))
		r.Get("/manager", s.handleManagerDashboard)
		r.Get("/patients", s.handlePatientsPage)
		r.Post("/patients", s.handleAddPatient)
		r.Post("/patients/delete", s.handleDeletePatients)
		r.Get("/patients/{id}/food-chart", s.handlePatientFoodChart)
	})

	// Pantry screens, reachable by managers as well.
	r.Group(func(r chi.Router) {
		r.Use(access.RequireRole(domain.RoleManager, domain.RolePantry))
		r.Get("/pantry", s.handlePantryDashboard)
		r.Get("/food-charts", s.handleFoodChartsPage)
		r.Post("/food-charts", s.handleAddFoodChart)
		r.Post("/food-charts/delete", s.handleDeleteFoodCharts)
		r.Get("/pantry-staff", s.handlePantryStaffPage)
		r.Post("/pantry-staff", s.handleAddPantryStaff)
		r.Post("/pantry-staff/{id}/delete", s.handleDeletePantryStaff)
		r.Get("/pantry-tasks", s.handlePantryTasksPage)
		r.Post("/pantry-tasks", s.handleAddPantryTask)
		r.Post("/pantry-tasks/{id}/status", s.handleUpdatePantryTask)
		r.Post("/pantry-tasks/{id}/delete", s.handleDeletePantryTask)
		r.Get("/meal-preparations", s.handleMealPrepsPage)
		r.Post("/meal-preparations", s.handleAddMealPrep)
		r.Post("/meal-preparations/{id}/status", s.handleUpdateMealPrep)
		r.Post("/meal-preparations/{id}/delete", s.handleDeleteMealPrep)
	})

	// Delivery screens, reachable by managers as well.
	r.Group(func(r chi.Router) {
		r.Use(access.RequireRole(domain.RoleManager, domain.RoleDelivery))
		r.Get("/delivery", s.handleDeliveryDashboard)
		r.Get("/deliveries", s.handleDeliveriesPage)
		r.Post("/deliveries", s.handleAddDelivery)
		r.Post("/deliveries/{id}/status", s.handleUpdateDelivery)
		r.Post("/deliveries/{id}/delete", s.handleDeleteDelivery)
	})

	return r
}

// securityHeaders adds defensive HTTP response headers to every response.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy",
			"default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:")
		next.ServeHTTP(w, r)
	})
}

// requestID tags each request so log lines from one page load correlate.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-ID", id)
		r.Header.Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"request_id", r.Header.Get("X-Request-ID"),
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("starting server", "addr", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return srv.ListenAndServe()
}

// renderPage parses and executes a full-page template set.
func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, data map[string]any, files ...string) {
	if data == nil {
		data = map[string]any{}
	}
	if sess := access.FromContext(r.Context()); sess != nil {
		data["Session"] = sess
	}
	if s.opts.CSRFKey != "" {
		data["CSRFField"] = csrf.TemplateField(r)
	}

	tmpl, err := template.New("").Funcs(s.tmplFuncs).ParseFS(s.templates, append([]string{"base.html"}, files...)...)
	if err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
		s.logger.Error("template parse failed", "files", strings.Join(files, ","), "error", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "base", data); err != nil {
		s.logger.Error("template execute failed", "files", strings.Join(files, ","), "error", err)
	}
}
