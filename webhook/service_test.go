package webhook_test

import (
	"context"
	"errors"
	"testing"

	"github.com/marcelsud/botgate/telegram"
	"github.com/marcelsud/botgate/webhook"
	"github.com/marcelsud/botgate/webhook/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigure(t *testing.T) {
	ctx := context.Background()
	origin := webhook.Origin{Scheme: "https", Host: "bot.example.com"}
	expected := telegram.SetWebhookRequest{
		URL:                "https://bot.example.com/",
		AllowedUpdates:     []string{"message", "callback_query", "chat_member", "my_chat_member"},
		DropPendingUpdates: true,
	}

	t.Run("success - provider accepts the registration", func(t *testing.T) {
		registrar := mocks.NewRegistrar(t)
		configurator := webhook.NewConfigurator(registrar)

		registrar.On("SetWebhook", ctx, telegram.Token("T1"), expected).
			Return(telegram.Response{OK: true, Description: "Webhook was set"}, nil)

		result, err := configurator.Configure(ctx, origin, "T1")

		require.NoError(t, err)
		assert.Equal(t, webhook.Result{
			Success:         true,
			Status:          "Webhook was set",
			WebhookEndpoint: "https://bot.example.com/",
			ActiveUpdates:   expected.AllowedUpdates,
		}, result)
	})

	t.Run("success - repeated calls give identical results", func(t *testing.T) {
		registrar := mocks.NewRegistrar(t)
		configurator := webhook.NewConfigurator(registrar)

		registrar.On("SetWebhook", ctx, telegram.Token("T1"), expected).
			Return(telegram.Response{OK: true, Description: "Webhook is already set"}, nil).Twice()

		first, err := configurator.Configure(ctx, origin, "T1")
		require.NoError(t, err)
		second, err := configurator.Configure(ctx, origin, "T1")
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("provider rejection is passed through", func(t *testing.T) {
		registrar := mocks.NewRegistrar(t)
		configurator := webhook.NewConfigurator(registrar)

		registrar.On("SetWebhook", ctx, telegram.Token("bad"), expected).
			Return(telegram.Response{OK: false, ErrorCode: 401, Description: "Unauthorized"}, nil)

		result, err := configurator.Configure(ctx, origin, "bad")

		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, "Unauthorized", result.Status)
		assert.Equal(t, "https://bot.example.com/", result.WebhookEndpoint)
	})

	t.Run("error - provider call fails", func(t *testing.T) {
		registrar := mocks.NewRegistrar(t)
		configurator := webhook.NewConfigurator(registrar)

		registrar.On("SetWebhook", ctx, telegram.Token("T1"), expected).
			Return(telegram.Response{}, errors.New("connection refused"))

		_, err := configurator.Configure(ctx, origin, "T1")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "setting webhook")
	})
}

func TestOrigin_Endpoint(t *testing.T) {
	assert.Equal(t, "https://bot.example.com/", webhook.Origin{Scheme: "https", Host: "bot.example.com"}.Endpoint())
	assert.Equal(t, "http://localhost/", webhook.Origin{Scheme: "http", Host: "localhost"}.Endpoint())
}
