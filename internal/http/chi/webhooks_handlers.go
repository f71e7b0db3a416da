package chi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"
	"github.com/marcelsud/botgate/dispatch"
	"github.com/marcelsud/botgate/metrics"
	"github.com/marcelsud/botgate/webhook"
	"github.com/rs/zerolog"
)

// WebhookHandlers sets up the public routes Telegram and the operator talk to.
// Every path other than /set-webhook, and every method chi cannot route, ends up in the
// delivery handler so nothing on this router answers with a non-200 status by itself.
func WebhookHandlers(ctx context.Context, logger zerolog.Logger, configurator webhook.UseCase, dispatcher dispatch.UseCase, recorder *metrics.Recorder, settings Settings) *chi.Mux {
	r := chi.NewRouter()
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)

	r.HandleFunc(SetWebhookPath, setWebhook(configurator, recorder, settings).ServeHTTP)

	deliveries := receiveUpdate(dispatcher, recorder, settings)
	r.Handle("/", deliveries)
	r.Handle("/*", deliveries)
	r.NotFound(deliveries.ServeHTTP)
	r.MethodNotAllowed(deliveries.ServeHTTP)

	return r
}

// HealthCheck reports whether a dependency is usable
type HealthCheck func(ctx context.Context) error

// AdminHandlers sets up the operational routes served on the admin port
func AdminHandlers(ctx context.Context, metricsHandler http.Handler, checks map[string]HealthCheck) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", health(checks).ServeHTTP)
	r.Method(http.MethodGet, "/metrics", metricsHandler)

	return r
}
