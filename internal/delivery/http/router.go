package http

import (
	"net/http"

	"medilink-api/internal/delivery/http/handler"
	"medilink-api/internal/delivery/http/middleware"
	"medilink-api/pkg/metrics"
	"medilink-api/pkg/storage"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type Handlers struct {
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	Appointment  *handler.AppointmentHandler
	Annonce      *handler.AnnonceHandler
	Directory    *handler.DirectoryHandler
	Dashboard    *handler.DashboardHandler
	Notification *handler.NotificationHandler
	AuditLog     *handler.AuditLogHandler
}

type Router struct {
	router         *mux.Router
	handlers       Handlers
	authMiddleware *middleware.AuthMiddleware
	corsMiddleware *middleware.CORSMiddleware
	rateLimiter    *middleware.RateLimiter
	files          *storage.Store
	metrics        *metrics.Metrics
	log            *logrus.Logger
}

func NewRouter(
	handlers Handlers,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	rateLimiter *middleware.RateLimiter,
	files *storage.Store,
	metrics *metrics.Metrics,
	log *logrus.Logger,
) *Router {
	return &Router{
		router:         mux.NewRouter(),
		handlers:       handlers,
		authMiddleware: authMiddleware,
		corsMiddleware: corsMiddleware,
		rateLimiter:    rateLimiter,
		files:          files,
		metrics:        metrics,
		log:            log,
	}
}

func (r *Router) Setup() *mux.Router {
	h := r.handlers

	r.router.Use(middleware.RequestID, middleware.Recovery(r.log), middleware.Logging(r.log), middleware.Metrics(r.metrics))
	r.router.Use(r.corsMiddleware.Handle)

	r.router.Handle("/metrics", r.metrics.Handler()).Methods(http.MethodGet)
	r.router.PathPrefix(r.files.URLPrefix() + "/").
		Handler(http.StripPrefix(r.files.URLPrefix(), r.files.Handler())).
		Methods(http.MethodGet)

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()
	api.Use(r.rateLimiter.Handle)

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Public routes
	api.HandleFunc("/register", h.Auth.Register).Methods(http.MethodPost)
	api.HandleFunc("/login", h.Auth.Login).Methods(http.MethodPost)
	api.HandleFunc("/check-email", h.Auth.CheckEmail).Methods(http.MethodPost)
	api.HandleFunc("/refresh-token", h.Auth.RefreshToken).Methods(http.MethodPost)
	api.HandleFunc("/annonces", h.Annonce.ListPublic).Methods(http.MethodGet)

	// Authenticated routes
	protected := api.NewRoute().Subrouter()
	protected.Use(r.authMiddleware.Authenticate)
	protected.HandleFunc("/logout", h.Auth.Logout).Methods(http.MethodPost)
	protected.HandleFunc("/auth/me", h.Auth.Me).Methods(http.MethodGet)

	protected.HandleFunc("/user/profile", h.User.GetProfile).Methods(http.MethodGet)
	protected.HandleFunc("/user/profile", h.User.UpdateProfile).Methods(http.MethodPut)
	protected.HandleFunc("/user/profile/update", h.User.UpdateProfile).Methods(http.MethodPost)
	protected.HandleFunc("/user/profile/update-avatar", h.User.UpdateAvatar).Methods(http.MethodPost)

	protected.HandleFunc("/notifications", h.Notification.List).Methods(http.MethodGet)
	protected.HandleFunc("/notifications/read-all", h.Notification.MarkAllRead).Methods(http.MethodPut)
	protected.HandleFunc("/notifications/{id}/read", h.Notification.MarkRead).Methods(http.MethodPut)

	protected.HandleFunc("/medecins", h.Directory.ListMedecins).Methods(http.MethodGet)
	protected.HandleFunc("/medecins/{id}", h.Directory.GetMedecin).Methods(http.MethodGet)
	protected.HandleFunc("/organisations", h.Directory.ListOrganisations).Methods(http.MethodGet)

	protected.HandleFunc("/appointments", h.Appointment.ListForPatient).Methods(http.MethodGet)
	protected.HandleFunc("/appointments", h.Appointment.Book).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{id}/cancel", h.Appointment.Cancel).Methods(http.MethodPut)
	protected.HandleFunc("/patient/stats", h.Dashboard.PatientStats).Methods(http.MethodGet)

	// Professional routes; admins manage listings too
	doctor := protected.PathPrefix("/doctor").Subrouter()
	doctor.Use(middleware.RequireProfessional)
	doctor.HandleFunc("/stats", h.Dashboard.ProfessionalStats).Methods(http.MethodGet)
	doctor.HandleFunc("/appointments", h.Appointment.ListForProfessional).Methods(http.MethodGet)
	doctor.HandleFunc("/appointments/{id}", h.Appointment.UpdateStatus).Methods(http.MethodPut)

	listings := protected.PathPrefix("/doctor/annonces").Subrouter()
	listings.Use(middleware.RequireListingManager)
	listings.HandleFunc("", h.Annonce.ListOwn).Methods(http.MethodGet)
	listings.HandleFunc("", h.Annonce.Create).Methods(http.MethodPost)
	listings.HandleFunc("/{id}", h.Annonce.Show).Methods(http.MethodGet)
	listings.HandleFunc("/{id}", h.Annonce.Update).Methods(http.MethodPost, http.MethodPut)
	listings.HandleFunc("/{id}", h.Annonce.Delete).Methods(http.MethodDelete)
	listings.HandleFunc("/{id}/toggle-status", h.Annonce.ToggleStatus).Methods(http.MethodPut)

	// Admin routes (protected - admin only)
	admin := protected.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("/audit-logs", h.AuditLog.GetAllAuditLogs).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs/{id}", h.AuditLog.GetAuditLog).Methods(http.MethodGet)

	// Preflight requests match no method above; the CORS middleware answers them
	r.router.PathPrefix("/").Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, req *http.Request) {})

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
