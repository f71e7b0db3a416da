package webhook

import "github.com/marcelsud/botgate/telegram"

/* Origin is where this gateway is reachable from the internet
 * Uses value semantics as it represents data, not behavior
 */
type Origin struct {
	Scheme string
	Host   string
}

// Endpoint returns the delivery URL registered with Telegram
func (o Origin) Endpoint() string {
	return o.Scheme + "://" + o.Host + "/"
}

// Result is the outcome of a configuration call, returned to the operator as is
type Result struct {
	Success         bool     `json:"success"`
	Status          string   `json:"status"`
	WebhookEndpoint string   `json:"webhook_endpoint"`
	ActiveUpdates   []string `json:"active_updates"`
}

// NewRegistration builds the setWebhook request for origin. Pending updates are always
// dropped so a reconfiguration never replays deliveries queued for the previous target.
func NewRegistration(origin Origin) telegram.SetWebhookRequest {
	return telegram.SetWebhookRequest{
		URL:                origin.Endpoint(),
		AllowedUpdates:     telegram.AllowedUpdates(),
		DropPendingUpdates: true,
	}
}
