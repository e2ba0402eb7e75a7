package httpapi

import (
	"net/http"

	"github.com/riskibarqy/tennis-league/internal/platform/logging"
)

type RouterConfig struct {
	Handler            *Handler
	Verifier           TokenVerifier
	Logger             *logging.Logger
	Metrics            HTTPMetrics
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
	// InterestLimiter throttles interest sign-ups per client IP. Nil disables it.
	InterestLimiter *IPRateLimiter
}

func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, cfg.Handler, cfg.MetricsHandler)
	registerPublicRoutes(mux, cfg.Handler, cfg.InterestLimiter)
	registerAdminRoutes(mux, cfg.Handler, cfg.Verifier)

	var h http.Handler = recoverPanic(logger, mux)
	h = CORS(cfg.CORSAllowedOrigins, h)
	h = Metrics(cfg.Metrics, h)
	h = RequestLogging(logger, h)
	h = RequestID(h)
	return RequestTracing(h)
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.recoverPanic")
		defer span.End()

		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.ErrorContext(ctx, "panic recovered", "panic", rec, "request_id", RequestIDFromContext(ctx))
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
