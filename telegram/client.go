package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// DefaultBaseURL is the public Bot API endpoint
const DefaultBaseURL = "https://api.telegram.org"

/* Client is a minimal Bot API client
 * Uses pointer semantics as it's an API, not data
 */
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Bot API client. An empty baseURL selects DefaultBaseURL and a nil
// httpClient selects an instrumented client with a 30 second timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   30 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// SetWebhook registers the webhook target. A response with ok=false is not an error:
// the caller receives the provider's answer as is.
func (c *Client) SetWebhook(ctx context.Context, token Token, req SetWebhookRequest) (Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return Response{}, fmt.Errorf("marshaling setWebhook request: %w", err)
	}
	return c.call(ctx, token, http.MethodPost, "setWebhook", body)
}

// GetWebhookInfo returns the registration currently held by the provider
func (c *Client) GetWebhookInfo(ctx context.Context, token Token) (WebhookInfo, error) {
	resp, err := c.call(ctx, token, http.MethodGet, "getWebhookInfo", nil)
	if err != nil {
		return WebhookInfo{}, err
	}
	if !resp.OK {
		return WebhookInfo{}, &APIError{Method: "getWebhookInfo", Code: resp.ErrorCode, Description: resp.Description}
	}
	var info WebhookInfo
	if err := json.Unmarshal(resp.Result, &info); err != nil {
		return WebhookInfo{}, fmt.Errorf("decoding webhook info: %w", err)
	}
	return info, nil
}

func (c *Client) call(ctx context.Context, token Token, httpMethod, method string, body []byte) (Response, error) {
	endpoint := fmt.Sprintf("%s/bot%s/%s", c.baseURL, string(token), method)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, httpMethod, endpoint, reader)
	if err != nil {
		return Response{}, fmt.Errorf("creating %s request: %w", method, redact(err, token))
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("calling %s: %w", method, redact(err, token))
	}
	defer res.Body.Close()

	var out Response
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return Response{}, fmt.Errorf("decoding %s response (status %d): %w", method, res.StatusCode, err)
	}
	return out, nil
}

// redact strips the token from errors that carry the request URL
func redact(err error, token Token) error {
	if token == "" {
		return err
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		urlErr.URL = strings.ReplaceAll(urlErr.URL, string(token), token.String())
		return urlErr
	}
	msg := err.Error()
	if strings.Contains(msg, string(token)) {
		return errors.New(strings.ReplaceAll(msg, string(token), token.String()))
	}
	return err
}
