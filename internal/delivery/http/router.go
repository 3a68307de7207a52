package http

import (
	"net/http"

	"go-healthcare-booking/internal/delivery/http/handler"
	"go-healthcare-booking/internal/delivery/http/middleware"
	"go-healthcare-booking/pkg/metrics"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	router             *mux.Router
	appointmentHandler *handler.AppointmentHandler
	doctorHandler      *handler.DoctorHandler
	auditLogHandler    *handler.AuditLogHandler
	authMiddleware     *middleware.AuthMiddleware
	corsMiddleware     *middleware.CORSMiddleware
	metrics            *metrics.Metrics
	gatherer           prometheus.Gatherer
}

func NewRouter(
	appointmentHandler *handler.AppointmentHandler,
	doctorHandler *handler.DoctorHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	m *metrics.Metrics,
	gatherer prometheus.Gatherer,
) *Router {
	return &Router{
		router:             mux.NewRouter(),
		appointmentHandler: appointmentHandler,
		doctorHandler:      doctorHandler,
		auditLogHandler:    auditLogHandler,
		authMiddleware:     authMiddleware,
		corsMiddleware:     corsMiddleware,
		metrics:            m,
		gatherer:           gatherer,
	}
}

func (r *Router) Setup() *mux.Router {
	// Metrics endpoint
	r.router.Handle("/metrics", promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Doctor directory and slot catalog (public)
	api.HandleFunc("/doctors", r.doctorHandler.ListDoctors).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{id}", r.doctorHandler.GetDoctor).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{id}/slots", r.doctorHandler.GetDoctorSlots).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{id}/available-dates", r.doctorHandler.GetAvailableDates).Methods(http.MethodGet)

	// Appointment routes. Guests may book; a token binds the booking to the caller.
	// /appointments/me must be registered before /appointments/{id}.
	optional := r.authMiddleware.OptionalAuthenticate
	required := r.authMiddleware.Authenticate
	api.Handle("/appointments", optional(http.HandlerFunc(r.appointmentHandler.CreateAppointment))).Methods(http.MethodPost)
	api.Handle("/appointments/me", required(http.HandlerFunc(r.appointmentHandler.GetMyAppointments))).Methods(http.MethodGet)
	api.Handle("/appointments/{id}", optional(http.HandlerFunc(r.appointmentHandler.GetAppointment))).Methods(http.MethodGet)
	api.Handle("/appointments/{id}/reschedule", optional(http.HandlerFunc(r.appointmentHandler.RescheduleAppointment))).Methods(http.MethodPut)
	api.Handle("/appointments/{id}/cancel", optional(http.HandlerFunc(r.appointmentHandler.CancelAppointment))).Methods(http.MethodPost)
	api.Handle("/appointments/{id}/claim", required(http.HandlerFunc(r.appointmentHandler.ClaimAppointment))).Methods(http.MethodPost)

	// Admin routes (protected - admin only)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)

	// Doctor management (admin)
	admin.HandleFunc("/doctors", r.doctorHandler.CreateDoctor).Methods(http.MethodPost)
	admin.HandleFunc("/doctors/{id}/availability", r.doctorHandler.UpdateAvailability).Methods(http.MethodPut)

	// Audit trail (admin)
	admin.HandleFunc("/audit-logs", r.auditLogHandler.GetAllAuditLogs).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs/{id}", r.auditLogHandler.GetAuditLog).Methods(http.MethodGet)

	// Add CORS and metrics middleware
	r.router.Use(r.corsMiddleware.Handle)
	r.router.Use(middleware.Metrics(r.metrics))

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
