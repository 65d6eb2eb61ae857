package httpapi

import (
	"net/http"

	"github.com/fplmetric/fplmetric/internal/platform/id"
	"github.com/fplmetric/fplmetric/internal/platform/logging"
)

func NewRouter(
	handler *Handler,
	logger *logging.Logger,
	corsAllowedOrigins []string,
	internalJobToken string,
) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler)
	registerPublicRoutes(mux, handler)
	registerInternalJobRoutes(mux, handler, internalJobToken)

	chain := recoverPanic(logger, mux)
	chain = CORS(corsAllowedOrigins, chain)
	chain = RequestID(id.NewRandomGenerator(), chain)
	return RequestTracing(RequestLogging(logger, chain))
}

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/players/current", handler.ListCurrentPlayers)
	mux.HandleFunc("GET /v1/players/price-changes", handler.ListPriceChanges)
	mux.HandleFunc("GET /v1/dashboard", handler.GetDashboard)
	mux.HandleFunc("GET /v1/gameweek/next", handler.GetNextGameweek)
	mux.HandleFunc("GET /v1/fixtures/ticker", handler.GetFixtureTicker)
	mux.HandleFunc("GET /v1/teams/upcoming", handler.ListUpcomingFixtures)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/collect", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunCollectJob)))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.recoverPanic")
		defer span.End()

		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
