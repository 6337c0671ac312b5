package httpapi

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/basket-api/internal/usecase"
)

// RunBatchRefresh refreshes several feed slices in one call. It backs the
// scheduler hook and is guarded by the internal job token, not a user token.
func (h *Handler) RunBatchRefresh(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunBatchRefresh")
	defer span.End()

	if h.batchRefresh == nil {
		writeError(ctx, w, fmt.Errorf("%w: feed is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	var req batchRefreshRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.batchRefresh.Run(ctx, req.input())
	if err != nil {
		h.logger.WarnContext(ctx, "batch refresh failed", "targets", len(req.Targets), "error", err)
		writeError(ctx, w, err)
		return
	}

	status := http.StatusOK
	if result.FailedCount > 0 {
		status = http.StatusMultiStatus
	}
	writeSuccess(ctx, w, status, result)
}
