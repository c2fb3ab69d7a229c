// internal/app/app.go
package app

import (
	"database/sql"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"gram-meter/internal/advisor"
	"gram-meter/internal/analytics"
	"gram-meter/internal/config"
	"gram-meter/internal/ingest"
	"gram-meter/internal/notify"
	mysqlrepo "gram-meter/internal/repositories/mysql"
	"gram-meter/internal/services"
	"gram-meter/pkg/db"
)

// App menampung router utama + dependensi yang dipakai handler.
type App struct {
	Router *mux.Router
	DB     *sql.DB
	Cfg    *config.Config

	Engine *analytics.Engine
}

// New membuat instance App + registrasi semua routes.
func New(cfg *config.Config) *App {
	r := mux.NewRouter()

	conn, err := db.Open(cfg)
	if err != nil {
		// API bisa tetap hidup untuk /healthz; route berbasis DB akan 500
		log.Printf("[ERROR] mysql init: %v", err)
	}

	engine := buildEngine(cfg)

	metersRepo := &mysqlrepo.MetersRepo{DB: conn}
	readingsRepo := &mysqlrepo.ReadingsRepo{DB: conn}
	alertsRepo := &mysqlrepo.AlertsRepo{DB: conn}
	usersRepo := &mysqlrepo.UsersRepo{DB: conn}

	analyticsSvc := services.NewAnalyticsService(engine, readingsRepo, metersRepo)
	dashboardSvc := services.NewDashboardService(metersRepo, readingsRepo, alertsRepo)
	pipeline := ingest.NewPipeline(engine, readingsRepo, metersRepo, alertsRepo, notify.FromConfig(cfg.AlertWebhookURL))

	var llm advisor.Client
	if cfg.LLM.APIKey != "" {
		if c, err := advisor.NewFromEnv(); err != nil {
			log.Printf("[WARN] advisor llm init: %v", err)
		} else {
			llm = c
		}
	}
	adv := advisor.New(llm)

	registerRoutes(r, routeDeps{
		cfg:          cfg,
		db:           conn,
		meters:       metersRepo,
		readings:     readingsRepo,
		alerts:       alertsRepo,
		users:        usersRepo,
		analyticsSvc: analyticsSvc,
		dashboardSvc: dashboardSvc,
		pipeline:     pipeline,
		advisor:      adv,
	})

	return &App{Router: r, DB: conn, Cfg: cfg, Engine: engine}
}

// buildEngine memuat koefisien model bila dikonfigurasi; tanpa file
// model engine jalan penuh dengan fallback.
func buildEngine(cfg *config.Config) *analytics.Engine {
	opts := []analytics.Option{}
	if cfg.TariffFixedCharge >= 0 {
		t := analytics.DefaultTariff()
		t.FixedCharge = cfg.TariffFixedCharge
		opts = append(opts, analytics.WithTariff(t))
	}
	if cfg.ModelPath != "" {
		models, err := analytics.LoadModelSet(cfg.ModelPath)
		if err != nil {
			log.Printf("[WARN] load model file %s: %v (falling back)", cfg.ModelPath, err)
		} else {
			opts = append(opts, analytics.WithModels(models))
		}
	}
	return analytics.NewEngine(opts...)
}

// Run menjalankan server HTTP.
func (a *App) Run(addr string) {
	log.Printf("server running on %s", addr)
	if err := http.ListenAndServe(addr, a.Router); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
