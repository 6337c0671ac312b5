package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/basket-api/internal/domain/access"
	"github.com/riskibarqy/basket-api/internal/platform/logging"
	"github.com/riskibarqy/basket-api/internal/usecase"
)

const maxRequestBodyBytes = 1 << 20

type Handler struct {
	gameService    *usecase.GameService
	catalogService *usecase.CatalogService
	profileService *usecase.ProfileService
	batchRefresh   *usecase.BatchRefreshService
	logger         *logging.Logger
	validator      *validator.Validate
}

func NewHandler(
	gameService *usecase.GameService,
	catalogService *usecase.CatalogService,
	profileService *usecase.ProfileService,
	batchRefresh *usecase.BatchRefreshService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		gameService:    gameService,
		catalogService: catalogService,
		profileService: profileService,
		batchRefresh:   batchRefresh,
		logger:         logger,
		validator:      validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// decodeJSON reads a bounded body; an empty body is allowed when allowEmpty.
func decodeJSON(r *http.Request, dst any, allowEmpty bool) error {
	decoder := sonic.ConfigDefault.NewDecoder(io.LimitReader(r.Body, maxRequestBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		if allowEmpty && errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

// requireCaller reads the caller RequireAuth stored on the context.
func requireCaller(ctx context.Context) (access.Caller, error) {
	caller, ok := callerFromContext(ctx)
	if !ok {
		return nil, fmt.Errorf("%w: caller is missing from request context", usecase.ErrUnauthorized)
	}
	return caller, nil
}

// pathID parses a positive numeric path value. Malformed ids read as not found
// so they behave like unknown rows.
func pathID(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(r.PathValue(name))
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%w: %s=%q", usecase.ErrNotFound, name, raw)
	}
	return v, nil
}
