package update

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/marcelsud/botgate/telegram"
)

// ErrInvalidJSON is returned by Parse when the body is not a JSON document
var ErrInvalidJSON = errors.New("update body is not valid JSON")

/* Update is one delivery received from Telegram
 * Raw is forwarded untouched; the remaining fields are receipt metadata
 * and never reject a payload
 */
type Update struct {
	// EventID identifies this delivery in logs and in the inbox
	EventID string

	// ID is the Telegram update_id, zero when the body does not carry one
	ID int64

	// Kind is the first subscribed category present in the body, if any
	Kind string

	// Raw is the request body exactly as received
	Raw json.RawMessage

	ReceivedAt time.Time
}

// Handler processes updates after they have been acknowledged.
// Returned errors are logged by the caller and never retried.
type Handler interface {
	HandleUpdate(ctx context.Context, u Update, token telegram.Token) error
}

// HandlerFunc adapts a function to the Handler interface
type HandlerFunc func(ctx context.Context, u Update, token telegram.Token) error

// HandleUpdate calls f(ctx, u, token)
func (f HandlerFunc) HandleUpdate(ctx context.Context, u Update, token telegram.Token) error {
	return f(ctx, u, token)
}

// Parse accepts any JSON document. Only parseability is checked; a body that is an
// array or a scalar is still a valid update with no ID or Kind.
func Parse(data []byte) (Update, error) {
	if !json.Valid(data) {
		return Update{}, ErrInvalidJSON
	}

	raw := make(json.RawMessage, len(data))
	copy(raw, data)

	u := Update{
		EventID:    uuid.New().String(),
		Raw:        raw,
		ReceivedAt: time.Now().UTC(),
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return u, nil
	}
	if id, ok := fields["update_id"]; ok {
		// a non-numeric update_id is left at zero
		_ = json.Unmarshal(id, &u.ID)
	}
	for _, kind := range telegram.AllowedUpdates() {
		if _, ok := fields[kind]; ok {
			u.Kind = kind
			break
		}
	}
	return u, nil
}
