package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/leagues/{leagueID}/rosters", handler.ListRostersByLeague)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/scores/latest", handler.LatestScoresByLeague)
	mux.HandleFunc("GET /v1/managers/{managerID}/scores", handler.ListScoresByManager)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/sync-cycle", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSyncCycleJob)))
	mux.Handle("POST /v1/internal/jobs/refresh-players", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunRefreshPlayersJob)))
}
