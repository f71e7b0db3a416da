package dispatch

import (
	"context"
	"fmt"

	"github.com/marcelsud/botgate/telegram"
	"github.com/marcelsud/botgate/update"
)

// UseCase is the delivery path behind the public endpoint
type UseCase interface {
	Dispatch(ctx context.Context, body []byte, token telegram.Token) (update.Update, error)
}

// Scheduler starts work that outlives the request
type Scheduler interface {
	Go(ctx context.Context, name string, fn func(context.Context) error) error
}

// Dispatcher parses deliveries and hands them to the downstream handler
type Dispatcher struct {
	handler   update.Handler
	scheduler Scheduler
}

// NewDispatcher creates a new dispatcher with dependency injection
func NewDispatcher(handler update.Handler, scheduler Scheduler) *Dispatcher {
	return &Dispatcher{
		handler:   handler,
		scheduler: scheduler,
	}
}

// Dispatch parses body and schedules the handler. It returns as soon as the task is
// scheduled; the handler's own result is not observed here.
func (d *Dispatcher) Dispatch(ctx context.Context, body []byte, token telegram.Token) (update.Update, error) {
	u, err := update.Parse(body)
	if err != nil {
		return update.Update{}, fmt.Errorf("parsing update: %w", err)
	}

	err = d.scheduler.Go(ctx, "update "+u.EventID, func(ctx context.Context) error {
		return d.handler.HandleUpdate(ctx, u, token)
	})
	if err != nil {
		return u, fmt.Errorf("scheduling update %s: %w", u.EventID, err)
	}
	return u, nil
}
