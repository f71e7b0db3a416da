package telegram

import (
	"encoding/json"
	"fmt"
)

/* Types shared by everything that talks to the Telegram Bot API
 * Only the subset this gateway needs is modelled
 */

// Update categories the gateway subscribes to
const (
	UpdateMessage       = "message"
	UpdateCallbackQuery = "callback_query"
	UpdateChatMember    = "chat_member"
	UpdateMyChatMember  = "my_chat_member"
)

// AllowedUpdates returns the fixed set of categories delivered to the webhook.
// A fresh slice is returned on every call so callers may not alter the set.
func AllowedUpdates() []string {
	return []string{UpdateMessage, UpdateCallbackQuery, UpdateChatMember, UpdateMyChatMember}
}

// Token is the bot credential. It is embedded in the API path and must never be logged.
type Token string

// String hides the token value in formatted output
func (t Token) String() string {
	if t == "" {
		return ""
	}
	return "[redacted]"
}

// SetWebhookRequest is the body of a setWebhook call
type SetWebhookRequest struct {
	URL                string   `json:"url"`
	AllowedUpdates     []string `json:"allowed_updates"`
	DropPendingUpdates bool     `json:"drop_pending_updates"`
}

// Response is the envelope every Bot API method answers with
type Response struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result,omitempty"`
	Description string          `json:"description,omitempty"`
	ErrorCode   int             `json:"error_code,omitempty"`
}

// WebhookInfo is the result of getWebhookInfo
type WebhookInfo struct {
	URL                  string   `json:"url"`
	HasCustomCertificate bool     `json:"has_custom_certificate"`
	PendingUpdateCount   int      `json:"pending_update_count"`
	IPAddress            string   `json:"ip_address,omitempty"`
	LastErrorDate        int64    `json:"last_error_date,omitempty"`
	LastErrorMessage     string   `json:"last_error_message,omitempty"`
	MaxConnections       int      `json:"max_connections,omitempty"`
	AllowedUpdates       []string `json:"allowed_updates,omitempty"`
}

// APIError is returned when the Bot API answers with ok=false
type APIError struct {
	Method      string
	Code        int
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram %s failed (%d): %s", e.Method, e.Code, e.Description)
}
