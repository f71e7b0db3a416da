package inbox

import (
	"context"

	"github.com/marcelsud/botgate/telegram"
	"github.com/marcelsud/botgate/update"
	"github.com/rs/zerolog"
)

// Logger is the downstream handler used when no inbox store is configured.
// It records each update's metadata and drops the payload.
type Logger struct {
	logger zerolog.Logger
}

// NewLogger creates a logging handler
func NewLogger(logger zerolog.Logger) *Logger {
	return &Logger{logger: logger}
}

// HandleUpdate writes one log line per update
func (l *Logger) HandleUpdate(ctx context.Context, u update.Update, _ telegram.Token) error {
	l.logger.Info().
		Str("event_id", u.EventID).
		Int64("update_id", u.ID).
		Str("kind", u.Kind).
		Int("bytes", len(u.Raw)).
		Time("received_at", u.ReceivedAt).
		Msg("update received")
	return nil
}
