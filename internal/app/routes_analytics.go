// internal/app/routes_analytics.go
package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"gram-meter/internal/advisor"
	analyticshandler "gram-meter/internal/handlers/analytics"
	"gram-meter/internal/services"
)

// newAnalyticsRouter membungkus endpoint analitik dalam chi router
// sendiri; dimount di bawah /api/analytics oleh registerRoutes.
func newAnalyticsRouter(svc *services.AnalyticsService, adv *advisor.Advisor) http.Handler {
	h := &analyticshandler.Handler{Svc: svc, Advisor: adv}

	r := chi.NewRouter()
	r.Route("/{meterID}", func(cr chi.Router) {
		cr.Get("/projection", h.Projection)
		cr.Get("/efficiency", h.Efficiency)
		cr.Get("/pattern", h.Pattern)
		cr.Get("/billing", h.Billing)
		cr.Get("/insights", h.Insights)
		cr.Route("/forecast", func(fr chi.Router) {
			fr.Get("/next-hour", h.ForecastNextHour)
			fr.Get("/weekly", h.ForecastWeek)
		})
	})
	return r
}
