package webhook

import (
	"context"
	"fmt"

	"github.com/marcelsud/botgate/telegram"
)

/* Configurator represents the business logic layer
 * Uses pointer semantics as it's an API, not data
 */

// UseCase defines the administrative webhook operations
type UseCase interface {
	Configure(ctx context.Context, origin Origin, token telegram.Token) (Result, error)
}

// Registrar is the provider side of the registration.
// The provider keeps a single target, so every call overwrites the previous one.
type Registrar interface {
	SetWebhook(ctx context.Context, token telegram.Token, req telegram.SetWebhookRequest) (telegram.Response, error)
}

type Configurator struct {
	Registrar Registrar
}

// NewConfigurator creates a new configurator with dependency injection
func NewConfigurator(registrar Registrar) *Configurator {
	return &Configurator{
		Registrar: registrar,
	}
}

// Configure points the provider at origin for the fixed set of update categories
func (c *Configurator) Configure(ctx context.Context, origin Origin, token telegram.Token) (Result, error) {
	registration := NewRegistration(origin)

	resp, err := c.Registrar.SetWebhook(ctx, token, registration)
	if err != nil {
		return Result{}, fmt.Errorf("setting webhook: %w", err)
	}

	return Result{
		Success:         resp.OK,
		Status:          resp.Description,
		WebhookEndpoint: registration.URL,
		ActiveUpdates:   registration.AllowedUpdates,
	}, nil
}
