package httpapi

import (
	"net/http"

	"github.com/riskibarqy/basket-api/internal/platform/id"
	"github.com/riskibarqy/basket-api/internal/platform/logging"
)

// RouterConfig carries the non-service inputs of the router.
type RouterConfig struct {
	SwaggerEnabled     bool
	CORSAllowedOrigins []string
	InternalJobToken   string
}

func NewRouter(
	handler *Handler,
	verifier TokenVerifier,
	resolver CallerResolver,
	logger *logging.Logger,
	cfg RouterConfig,
) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler, cfg.SwaggerEnabled)
	registerAuthorizedRoutes(mux, handler, verifier, resolver)
	registerInternalJobRoutes(mux, handler, cfg.InternalJobToken)

	return RequestTracing(
		RequestID(id.NewUUIDGenerator(),
			RequestLogging(logger,
				CORS(cfg.CORSAllowedOrigins, recoverPanic(logger, mux)))))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.recoverPanic")
		defer span.End()

		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec, "path", r.URL.Path)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
