package httpapi

import "net/http"

// handle registers h and records the matched pattern for logs and metrics.
func handle(mux *http.ServeMux, pattern string, h http.Handler) {
	mux.Handle(pattern, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if info := routeInfoFromContext(r.Context()); info != nil {
			info.pattern = pattern
		}
		h.ServeHTTP(w, r)
	}))
}

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, metricsHandler http.Handler) {
	handle(mux, "GET /healthz", http.HandlerFunc(handler.Healthz))
	if metricsHandler != nil {
		handle(mux, "GET /metrics", metricsHandler)
	}
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler, interestLimiter *IPRateLimiter) {
	handle(mux, "GET /v1/overview", http.HandlerFunc(handler.GetOverview))
	handle(mux, "GET /v1/cities", http.HandlerFunc(handler.ListCities))
	handle(mux, "GET /v1/cities/{citySlug}/leagues", http.HandlerFunc(handler.ListLeaguesByCity))
	handle(mux, "GET /v1/leagues", http.HandlerFunc(handler.ListLeagues))
	handle(mux, "GET /v1/leagues/{leagueID}", http.HandlerFunc(handler.GetLeague))
	handle(mux, "GET /v1/leagues/{leagueID}/document", http.HandlerFunc(handler.GetLeagueDocument))
	handle(mux, "POST /v1/leagues/{leagueID}/interests", RateLimit(interestLimiter, http.HandlerFunc(handler.RegisterInterest)))
}

func registerAdminRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	handle(mux, "POST /v1/admin/leagues", RequireAdmin(verifier, http.HandlerFunc(handler.CreateLeague)))
	handle(mux, "PUT /v1/admin/leagues/{leagueID}/status", RequireAdmin(verifier, http.HandlerFunc(handler.UpdateLeagueStatus)))
	handle(mux, "GET /v1/admin/leagues/{leagueID}/interests", RequireAdmin(verifier, http.HandlerFunc(handler.ListInterests)))
	handle(mux, "POST /v1/admin/jobs/reconcile-statuses", RequireAdmin(verifier, http.HandlerFunc(handler.ReconcileStatuses)))
}
