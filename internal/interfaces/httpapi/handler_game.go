package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/basket-api/internal/domain/game"
	"github.com/riskibarqy/basket-api/internal/usecase"
)

func (h *Handler) ListGames(w http.ResponseWriter, r *http.Request) {
	h.listGames(w, r, game.ViewAll, "httpapi.Handler.ListGames")
}

func (h *Handler) ListAssignedGames(w http.ResponseWriter, r *http.Request) {
	h.listGames(w, r, game.ViewAssigned, "httpapi.Handler.ListAssignedGames")
}

func (h *Handler) ListUnassignedGames(w http.ResponseWriter, r *http.Request) {
	h.listGames(w, r, game.ViewUnassigned, "httpapi.Handler.ListUnassignedGames")
}

func (h *Handler) listGames(w http.ResponseWriter, r *http.Request, view game.View, spanName string) {
	ctx, span := startSpan(r.Context(), spanName)
	defer span.End()

	caller, err := requireCaller(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	values := r.URL.Query()
	query := listGamesQuery{
		Date:    strings.TrimSpace(values.Get("date")),
		League:  strings.TrimSpace(values.Get("league")),
		Season:  strings.TrimSpace(values.Get("season")),
		Team:    strings.TrimSpace(values.Get("team")),
		Refresh: strings.TrimSpace(values.Get("refresh")),
	}
	if err := h.validateRequest(ctx, query); err != nil {
		writeError(ctx, w, err)
		return
	}
	filter, err := query.filter()
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.gameService.List(ctx, caller, usecase.ListGamesInput{
		Filter:  filter,
		View:    view,
		Refresh: query.refresh(),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "list games failed",
			"user_id", caller.UserID(),
			"view", view.String(),
			"refresh", query.refresh(),
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gamesToDTO(ctx, items))
}

func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGame")
	defer span.End()

	caller, err := requireCaller(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	gameID, err := pathID(r, "gameID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.gameService.Get(ctx, caller, gameID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gameToDTO(ctx, item))
}

func (h *Handler) AssignGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AssignGame")
	defer span.End()

	caller, err := requireCaller(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	gameID, err := pathID(r, "gameID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.gameService.Assign(ctx, caller, gameID)
	if err != nil {
		h.logger.WarnContext(ctx, "assign game failed", "user_id", caller.UserID(), "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gameToDTO(ctx, item))
}

func (h *Handler) UpdateGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateGame")
	defer span.End()

	caller, err := requireCaller(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	gameID, err := pathID(r, "gameID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req updateGameRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.gameService.Update(ctx, caller, gameID, req.input())
	if err != nil {
		h.logger.WarnContext(ctx, "update game failed", "user_id", caller.UserID(), "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gameToDTO(ctx, item))
}

func (h *Handler) DeleteGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteGame")
	defer span.End()

	caller, err := requireCaller(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	gameID, err := pathID(r, "gameID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.gameService.Delete(ctx, caller, gameID); err != nil {
		h.logger.WarnContext(ctx, "delete game failed", "user_id", caller.UserID(), "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeNoContent(ctx, w)
}
