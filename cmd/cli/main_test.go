package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/marcelsud/botgate/webhook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrigin(t *testing.T) {
	tests := []struct {
		raw  string
		want webhook.Origin
	}{
		{"https://bot.example.com", webhook.Origin{Scheme: "https", Host: "bot.example.com"}},
		{"https://bot.example.com/some/path", webhook.Origin{Scheme: "https", Host: "bot.example.com"}},
		{"http://localhost:8443", webhook.Origin{Scheme: "http", Host: "localhost:8443"}},
		{"bot.example.com", webhook.Origin{Scheme: "https", Host: "bot.example.com"}},
		{"localhost:8443", webhook.Origin{Scheme: "https", Host: "localhost:8443"}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parseOrigin(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("error - empty", func(t *testing.T) {
		_, err := parseOrigin("")
		assert.Error(t, err)
	})
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd := newRootCmd()
	cmd.SetOut(out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSetWebhookCmd(t *testing.T) {
	var gotPath string
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"ok":true,"result":true,"description":"Webhook was set"}`))
	}))
	defer srv.Close()
	t.Setenv("TELEGRAM_API_URL", srv.URL)
	t.Setenv("TELEGRAM_BOT_TOKEN", "T1")

	out, err := execute(t, "set-webhook", "https://bot.example.com")

	require.NoError(t, err)
	assert.Equal(t, "/botT1/setWebhook", gotPath)
	assert.Equal(t, "https://bot.example.com/", gotBody["url"])

	var result webhook.Result
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.True(t, result.Success)
	assert.Equal(t, "Webhook was set", result.Status)
	assert.Equal(t, "https://bot.example.com/", result.WebhookEndpoint)
}

func TestWebhookInfoCmd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botT1/getWebhookInfo", r.URL.Path)
		_, _ = w.Write([]byte(`{"ok":true,"result":{"url":"https://bot.example.com/","pending_update_count":3}}`))
	}))
	defer srv.Close()
	t.Setenv("TELEGRAM_API_URL", srv.URL)
	t.Setenv("TELEGRAM_BOT_TOKEN", "T1")

	out, err := execute(t, "webhook-info")

	require.NoError(t, err)
	assert.Contains(t, out, `"url": "https://bot.example.com/"`)
	assert.Contains(t, out, `"pending_update_count": 3`)
}

func TestInboxCmd(t *testing.T) {
	t.Run("lists stored updates", func(t *testing.T) {
		mr := miniredis.RunT(t)
		_, err := mr.XAdd("updates:telegram", "*", []string{
			"event_id", "evt-1",
			"update_id", "42",
			"kind", "message",
			"payload", `{"update_id":42}`,
			"received_at", "1704110400123",
		})
		require.NoError(t, err)
		t.Setenv("REDIS_ADDR", mr.Addr())

		out, err := execute(t, "inbox", "5")

		require.NoError(t, err)
		assert.Contains(t, out, "evt-1\t42\tmessage\t")
	})

	t.Run("error - redis not configured", func(t *testing.T) {
		t.Setenv("REDIS_ADDR", "")

		_, err := execute(t, "inbox")

		assert.Error(t, err)
	})

	t.Run("error - invalid count", func(t *testing.T) {
		_, err := execute(t, "inbox", "zero")

		assert.Error(t, err)
	})
}
