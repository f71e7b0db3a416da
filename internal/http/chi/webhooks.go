package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/httplog"
	"github.com/marcelsud/botgate/dispatch"
	"github.com/marcelsud/botgate/metrics"
	"github.com/marcelsud/botgate/telegram"
	"github.com/marcelsud/botgate/update"
	"github.com/marcelsud/botgate/webhook"
)

const (
	// SetWebhookPath triggers the webhook registration
	SetWebhookPath = "/set-webhook"

	infoMessage = "Bot is active. Use POST for updates or visit /set-webhook to configure."
	ackBody     = "OK"
	failureBody = "Internal Server Error"

	defaultMaxUpdateBytes = 1 << 20
)

// Settings are the per-process values the handlers need
type Settings struct {
	Token          telegram.Token
	DefaultScheme  string
	MaxUpdateBytes int64

	// TrustProxyHeaders enables X-Forwarded-Proto and X-Forwarded-Host.
	// Only set it behind a proxy that appends these headers.
	TrustProxyHeaders bool
}

// setWebhook handles /set-webhook
func setWebhook(configurator webhook.UseCase, recorder *metrics.Recorder, settings Settings) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := httplog.LogEntry(r.Context())
		origin := originFromRequest(r, settings.DefaultScheme, settings.TrustProxyHeaders)

		result, err := configurator.Configure(r.Context(), origin, settings.Token)
		if err != nil {
			logger.Error().Err(err).Str("webhook_endpoint", origin.Endpoint()).Msg("configuring webhook")
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		recorder.WebhookConfigured(r.Context(), result.Success)
		logger.Info().
			Bool("success", result.Success).
			Str("status", result.Status).
			Str("webhook_endpoint", result.WebhookEndpoint).
			Msg("webhook configured")

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}

// receiveUpdate handles every other request. Deliveries are always answered with 200:
// Telegram redelivers on anything else.
func receiveUpdate(dispatcher dispatch.UseCase, recorder *metrics.Recorder, settings Settings) http.Handler {
	maxBytes := settings.MaxUpdateBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxUpdateBytes
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeText(w, infoMessage)
			return
		}

		ctx := r.Context()
		logger := httplog.LogEntry(ctx)

		// a panic while scheduling is still acknowledged
		defer func() {
			if rec := recover(); rec != nil {
				recorder.UpdateReceived(ctx, metrics.OutcomeUnscheduled)
				logger.Error().Str("panic", fmt.Sprint(rec)).Msg("update processing error")
				writeText(w, failureBody)
			}
		}()

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBytes))
		if err != nil {
			recorder.UpdateReceived(ctx, metrics.OutcomeUnreadable)
			logger.Error().Err(err).Msg("reading update body")
			writeText(w, failureBody)
			return
		}

		u, err := dispatcher.Dispatch(ctx, body, settings.Token)
		if err != nil {
			outcome := metrics.OutcomeUnscheduled
			if errors.Is(err, update.ErrInvalidJSON) {
				outcome = metrics.OutcomeInvalid
			}
			recorder.UpdateReceived(ctx, outcome)
			logger.Error().Err(err).Msg("update processing error")
			writeText(w, failureBody)
			return
		}

		recorder.UpdateReceived(ctx, metrics.OutcomeAccepted)
		httplog.LogEntrySetField(ctx, "event_id", u.EventID)
		writeText(w, ackBody)
	})
}

func writeText(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(body))
}

// originFromRequest resolves the public scheme and hostname. Forwarded headers are read
// only when trustProxy is set, and then the last value wins: earlier ones come from the client.
func originFromRequest(r *http.Request, defaultScheme string, trustProxy bool) webhook.Origin {
	var scheme, host string
	if trustProxy {
		scheme = lastValue(r.Header.Get("X-Forwarded-Proto"))
		host = lastValue(r.Header.Get("X-Forwarded-Host"))
	}
	if scheme == "" && r.TLS != nil {
		scheme = "https"
	}
	if scheme == "" {
		scheme = defaultScheme
	}
	if scheme == "" {
		scheme = "https"
	}
	if host == "" {
		host = r.Host
	}

	return webhook.Origin{
		Scheme: strings.ToLower(scheme),
		Host:   hostname(host),
	}
}

func lastValue(header string) string {
	if i := strings.LastIndexByte(header, ','); i >= 0 {
		header = header[i+1:]
	}
	return strings.TrimSpace(header)
}

// hostname drops the port, keeping IPv6 literals bracketed
func hostname(hostport string) string {
	name := (&url.URL{Host: hostport}).Hostname()
	if strings.Contains(name, ":") {
		return "[" + name + "]"
	}
	return name
}
