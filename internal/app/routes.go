// internal/app/routes.go
package app

import (
	"database/sql"
	"net/http"

	"github.com/gorilla/mux"

	"gram-meter/internal/advisor"
	"gram-meter/internal/config"
	hh "gram-meter/internal/handlers/http"
	"gram-meter/internal/ingest"
	"gram-meter/internal/middleware"
	mysqlrepo "gram-meter/internal/repositories/mysql"
	"gram-meter/internal/services"
)

type routeDeps struct {
	cfg *config.Config
	db  *sql.DB

	meters   *mysqlrepo.MetersRepo
	readings *mysqlrepo.ReadingsRepo
	alerts   *mysqlrepo.AlertsRepo
	users    *mysqlrepo.UsersRepo

	analyticsSvc *services.AnalyticsService
	dashboardSvc *services.DashboardService
	pipeline     *ingest.Pipeline
	advisor      *advisor.Advisor
}

// anyRole: semua role login boleh akses.
var anyRole = []string{
	middleware.RoleFarmer, middleware.RoleSarpanch,
	middleware.RoleUtility, middleware.RoleGovernment,
}

func registerRoutes(r *mux.Router, deps routeDeps) {
	r.Use(middleware.RequestID)
	r.Use(middleware.HTTPMetrics)

	login := &hh.LoginHandler{Users: deps.users, JWTSecret: deps.cfg.JWTSecret}
	metersH := &hh.MetersHandler{Repo: deps.meters}
	readingsH := &hh.ReadingsHandler{Repo: deps.readings, Pipeline: deps.pipeline}
	alertsH := &hh.AlertsHandler{Repo: deps.alerts}
	dashboardH := &hh.DashboardHandler{Svc: deps.dashboardSvc}
	streamH := &hh.StreamHandler{Readings: deps.readings}

	// --- public ---
	r.HandleFunc("/healthz", hh.HealthHandler).Methods(http.MethodGet)
	r.HandleFunc("/readyz", hh.ReadyHandler(deps.db)).Methods(http.MethodGet)
	r.HandleFunc("/metrics", hh.MetricsHandler).Methods(http.MethodGet)
	r.HandleFunc("/login", login.Login).Methods(http.MethodPost, http.MethodOptions)

	// --- ingest HTTP untuk gateway (API key, bukan JWT) ---
	ingestSub := r.PathPrefix("/api/readings").Subrouter()
	ingestSub.Use(middleware.DeviceAuth(deps.cfg.DeviceAPIKey))
	ingestSub.HandleFunc("", readingsH.Ingest).Methods(http.MethodPost)

	// --- /api (JWT) ---
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.JWTAuth(deps.cfg.JWTSecret))

	// meter CRUD: tulis hanya petugas utility / dinas energi
	write := middleware.RequireRole(middleware.RoleUtility, middleware.RoleGovernment)
	read := middleware.RequireRole(anyRole...)

	api.Handle("/meters", write(http.HandlerFunc(metersH.Create))).Methods(http.MethodPost)
	api.Handle("/meters", read(http.HandlerFunc(metersH.List))).Methods(http.MethodGet)
	api.Handle("/meters/{id}", read(http.HandlerFunc(metersH.Get))).Methods(http.MethodGet)
	api.Handle("/meters/{id}/status", write(http.HandlerFunc(metersH.UpdateStatus))).Methods(http.MethodPut)
	api.Handle("/meters/{id}", write(http.HandlerFunc(metersH.Delete))).Methods(http.MethodDelete)

	// telemetry tersimpan + live stream
	api.Handle("/meters/{id}/readings", read(http.HandlerFunc(readingsH.List))).Methods(http.MethodGet)
	api.Handle("/meters/{id}/readings/latest", read(http.HandlerFunc(readingsH.Latest))).Methods(http.MethodGet)
	api.Handle("/meters/{id}/stream", read(http.HandlerFunc(streamH.Stream))).Methods(http.MethodGet)

	// alerts
	ackRoles := middleware.RequireRole(middleware.RoleSarpanch, middleware.RoleUtility)
	api.Handle("/alerts", read(http.HandlerFunc(alertsH.List))).Methods(http.MethodGet)
	api.Handle("/alerts/summary", read(http.HandlerFunc(alertsH.Summary))).Methods(http.MethodGet)
	api.Handle("/alerts/{id}/ack", ackRoles(http.HandlerFunc(alertsH.Acknowledge))).Methods(http.MethodPost)

	// dashboard agregat
	dashRoles := middleware.RequireRole(
		middleware.RoleSarpanch, middleware.RoleUtility, middleware.RoleGovernment)
	api.Handle("/dashboard", dashRoles(http.HandlerFunc(dashboardH.Summary))).Methods(http.MethodGet)

	// analitik: chi subrouter terpisah (lihat routes_analytics.go)
	api.PathPrefix("/analytics").Handler(
		http.StripPrefix("/api/analytics",
			read(newAnalyticsRouter(deps.analyticsSvc, deps.advisor))))

	// Preflight catch-all
	api.PathPrefix("/").Methods(http.MethodOptions).HandlerFunc(hh.PreflightHandler)
}
