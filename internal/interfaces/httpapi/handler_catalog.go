package httpapi

import (
	"context"
	"net/http"

	"github.com/riskibarqy/basket-api/internal/domain/access"
)

func (h *Handler) ListLeagues(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeagues")
	defer span.End()

	items, err := h.catalogService.ListLeagues(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	out := make([]leagueDTO, 0, len(items))
	for _, item := range items {
		out = append(out, leagueToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) ListCountries(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListCountries")
	defer span.End()

	items, err := h.catalogService.ListCountries(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	out := make([]countryDTO, 0, len(items))
	for _, item := range items {
		out = append(out, countryToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeams")
	defer span.End()

	items, err := h.catalogService.ListTeams(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	out := make([]teamDTO, 0, len(items))
	for _, item := range items {
		out = append(out, teamToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) DeleteLeague(w http.ResponseWriter, r *http.Request) {
	h.deleteCatalogRow(w, r, "httpapi.Handler.DeleteLeague", "leagueID", h.catalogService.DeleteLeague)
}

func (h *Handler) DeleteCountry(w http.ResponseWriter, r *http.Request) {
	h.deleteCatalogRow(w, r, "httpapi.Handler.DeleteCountry", "countryID", h.catalogService.DeleteCountry)
}

func (h *Handler) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	h.deleteCatalogRow(w, r, "httpapi.Handler.DeleteTeam", "teamID", h.catalogService.DeleteTeam)
}

func (h *Handler) deleteCatalogRow(
	w http.ResponseWriter,
	r *http.Request,
	spanName string,
	param string,
	remove func(ctx context.Context, caller access.Caller, id int64) error,
) {
	ctx, span := startSpan(r.Context(), spanName)
	defer span.End()

	caller, err := requireCaller(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	id, err := pathID(r, param)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := remove(ctx, caller, id); err != nil {
		h.logger.WarnContext(ctx, "delete catalog row failed", param, id, "user_id", caller.UserID(), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeNoContent(ctx, w)
}
