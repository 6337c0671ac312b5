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

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier, resolver CallerResolver) {
	registerAuthorizedGameRoutes(mux, handler, verifier, resolver)
	registerAuthorizedCatalogRoutes(mux, handler, verifier, resolver)
	registerAuthorizedProfileRoutes(mux, handler, verifier, resolver)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/refresh", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunBatchRefresh)))
}

func registerAuthorizedGameRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier, resolver CallerResolver) {
	mux.Handle("GET /v1/games", RequireAuth(verifier, resolver, http.HandlerFunc(handler.ListGames)))
	mux.Handle("GET /v1/games/assigned", RequireAuth(verifier, resolver, http.HandlerFunc(handler.ListAssignedGames)))
	mux.Handle("GET /v1/games/unassigned", RequireAuth(verifier, resolver, http.HandlerFunc(handler.ListUnassignedGames)))
	mux.Handle("GET /v1/games/{gameID}", RequireAuth(verifier, resolver, http.HandlerFunc(handler.GetGame)))
	mux.Handle("PATCH /v1/games/{gameID}", RequireAuth(verifier, resolver, http.HandlerFunc(handler.UpdateGame)))
	mux.Handle("DELETE /v1/games/{gameID}", RequireAuth(verifier, resolver, http.HandlerFunc(handler.DeleteGame)))
	mux.Handle("PATCH /v1/games/{gameID}/assign", RequireAuth(verifier, resolver, http.HandlerFunc(handler.AssignGame)))
}

func registerAuthorizedCatalogRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier, resolver CallerResolver) {
	mux.Handle("GET /v1/leagues", RequireAuth(verifier, resolver, http.HandlerFunc(handler.ListLeagues)))
	mux.Handle("DELETE /v1/leagues/{leagueID}", RequireAuth(verifier, resolver, http.HandlerFunc(handler.DeleteLeague)))
	mux.Handle("GET /v1/countries", RequireAuth(verifier, resolver, http.HandlerFunc(handler.ListCountries)))
	mux.Handle("DELETE /v1/countries/{countryID}", RequireAuth(verifier, resolver, http.HandlerFunc(handler.DeleteCountry)))
	mux.Handle("GET /v1/teams", RequireAuth(verifier, resolver, http.HandlerFunc(handler.ListTeams)))
	mux.Handle("DELETE /v1/teams/{teamID}", RequireAuth(verifier, resolver, http.HandlerFunc(handler.DeleteTeam)))
}

func registerAuthorizedProfileRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier, resolver CallerResolver) {
	mux.Handle("GET /v1/me/profile", RequireAuth(verifier, resolver, http.HandlerFunc(handler.GetMyProfile)))
	mux.Handle("PUT /v1/users/{userID}/profile/countries", RequireAuth(verifier, resolver, http.HandlerFunc(handler.SetUserCountries)))
}
