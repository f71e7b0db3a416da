package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/httplog"
	"github.com/marcelsud/botgate/config"
	"github.com/marcelsud/botgate/dispatch"
	"github.com/marcelsud/botgate/inbox"
	inboxredis "github.com/marcelsud/botgate/inbox/redis"
	"github.com/marcelsud/botgate/internal/http/chi"
	"github.com/marcelsud/botgate/metrics"
	"github.com/marcelsud/botgate/telegram"
	"github.com/marcelsud/botgate/update"
	"github.com/marcelsud/botgate/webhook"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"
)

const TIMEOUT = 30 * time.Second

/*
 * main wires the packages together and owns the process lifecycle:
 * the public server for Telegram, the admin server for probes and metrics,
 * and the runner that keeps update tasks alive after their response
 */

func main() {
	logger := httplog.NewLogger("botgate", httplog.Options{
		JSON: true,
	})
	if err := run(logger); err != nil {
		logger.Error().Err(err).Msg("exiting")
		os.Exit(1)
	}
}

func run(logger zerolog.Logger) error {
	cfg, err := config.GetConfig()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT,
	)
	defer stop()

	var (
		handler update.Handler = inbox.NewLogger(logger)
		queue   metrics.QueueMeter
		checks  = map[string]chi.HealthCheck{}
	)
	if cfg.RedisEnabled() {
		stream, err := inboxredis.NewStream(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.InboxStream, cfg.InboxMaxLen)
		if err != nil {
			return err
		}
		defer stream.Close(context.Background())
		handler, queue = stream, stream
		checks["redis"] = stream.Ping
	}

	exporter, err := metrics.NewOTelExporter(nil)
	if err != nil {
		return err
	}
	recorder, err := metrics.NewRecorder(exporter.MeterProvider())
	if err != nil {
		return err
	}
	runner := dispatch.NewRunner(logger, recorder)
	if err := exporter.RegisterCollector(metrics.NewCollector(runner, queue)); err != nil {
		return err
	}

	client := telegram.NewClient(cfg.TelegramAPIURL, nil)
	configurator := webhook.NewConfigurator(client)
	dispatcher := dispatch.NewDispatcher(handler, runner)
	settings := chi.Settings{
		Token:             telegram.Token(cfg.TelegramToken),
		DefaultScheme:     cfg.PublicScheme,
		MaxUpdateBytes:    cfg.MaxUpdateBytes,
		TrustProxyHeaders: cfg.TrustProxyHeaders,
	}

	public := &http.Server{
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		Addr:         ":" + cfg.Port,
		Handler:      otelhttp.NewHandler(chi.WebhookHandlers(ctx, logger, configurator, dispatcher, recorder, settings), "botgate"),
	}
	admin := &http.Server{
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		Addr:         ":" + cfg.AdminPort,
		Handler:      chi.AdminHandlers(ctx, exporter.ServeHTTP(), checks),
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range []*http.Server{public, admin} {
		srv := srv
		g.Go(func() error {
			logger.Info().Str("addr", srv.Addr).Msg("listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serving %s: %w", srv.Addr, err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		return shutdown(logger, runner, exporter, public, admin)
	})

	return g.Wait()
}

// shutdown stops accepting requests first, then lets scheduled updates finish
func shutdown(logger zerolog.Logger, runner *dispatch.Runner, exporter *metrics.OTelExporter, servers ...*http.Server) error {
	ctxTimeout, stop := context.WithTimeout(context.Background(), TIMEOUT)
	defer stop()

	logger.Info().Msg("shutting down server")
	var errs []error
	for _, srv := range servers {
		if err := srv.Shutdown(ctxTimeout); err != nil {
			errs = append(errs, fmt.Errorf("closing %s: %w", srv.Addr, err))
		}
	}
	if err := runner.Shutdown(ctxTimeout); err != nil {
		errs = append(errs, err)
	}
	if err := exporter.Shutdown(ctxTimeout); err != nil {
		errs = append(errs, fmt.Errorf("flushing metrics: %w", err))
	}
	return errors.Join(errs...)
}
