package chatwork

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/KasumiMercury/primind-chat-reminder/internal/domain"
	"github.com/KasumiMercury/primind-chat-reminder/internal/observability/tracing"
)

const (
	DefaultBaseURL = "https://api.chatwork.com/v2"
	tokenHeader    = "X-ChatWorkToken"

	// upstream bodies kept on APIError are cut to this size.
	maxErrorBody = 4096
)

type Config struct {
	BaseURL string
	// Token is used when a call does not carry its own token.
	Token         string
	RatePerSecond float64
	Burst         int
	HTTPClient    *http.Client
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
	limiter *rate.Limiter
}

// APIError carries the upstream status and payload of a rejected call.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("chat api returned %d: %s", e.StatusCode, e.Body)
}

func (e *APIError) Unwrap() error {
	return domain.ErrUpstreamFailure
}

func NewClient(cfg Config) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}

	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}

	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	return &Client{
		baseURL: baseURL,
		token:   cfg.Token,
		http:    httpClient,
		limiter: rate.NewLimiter(limit, burst),
	}
}

type sendMessageResponse struct {
	MessageID string `json:"message_id"`
}

func (c *Client) SendMessage(ctx context.Context, token string, roomID string, text string) (string, error) {
	form := url.Values{}
	form.Set("body", text)

	endpoint := c.baseURL + "/rooms/" + url.PathEscape(roomID) + "/messages"

	var res sendMessageResponse
	if err := c.do(ctx, token, http.MethodPost, endpoint, strings.NewReader(form.Encode()), &res); err != nil {
		return "", err
	}

	slog.DebugContext(ctx, "chat message sent",
		"room_id", roomID,
		"message_id", res.MessageID,
	)

	return res.MessageID, nil
}

type roomResponse struct {
	RoomID   int64  `json:"room_id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	IconPath string `json:"icon_path"`
}

func (c *Client) ListRooms(ctx context.Context, token string) ([]domain.Room, error) {
	var res []roomResponse
	if err := c.do(ctx, token, http.MethodGet, c.baseURL+"/rooms", nil, &res); err != nil {
		return nil, err
	}

	rooms := make([]domain.Room, 0, len(res))
	for _, r := range res {
		rooms = append(rooms, domain.Room{
			ID:       r.RoomID,
			Name:     r.Name,
			Type:     r.Type,
			IconPath: r.IconPath,
		})
	}

	return rooms, nil
}

func (c *Client) do(ctx context.Context, token, method, endpoint string, body io.Reader, out any) error {
	if token == "" {
		token = c.token
	}

	if token == "" {
		return domain.ErrMissingChatToken
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}

	req.Header.Set(tokenHeader, token)
	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	tracing.InjectToHTTPRequest(ctx, req)

	resp, err := c.http.Do(req)
	if err != nil {
		slog.ErrorContext(ctx, "chat api request failed",
			"method", method,
			"endpoint", endpoint,
			"error", err,
		)

		return fmt.Errorf("%w: %v", domain.ErrUpstreamFailure, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", domain.ErrUpstreamFailure, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: truncate(string(payload), maxErrorBody)}

		slog.WarnContext(ctx, "chat api rejected request",
			"method", method,
			"endpoint", endpoint,
			"status", resp.StatusCode,
			"body", apiErr.Body,
		)

		return apiErr
	}

	// ListRooms answers 204 when the account has no rooms.
	if out == nil || len(strings.TrimSpace(string(payload))) == 0 {
		return nil
	}

	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("%w: decode response: %v", domain.ErrUpstreamFailure, err)
	}

	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}

	return s[:n]
}

var _ domain.ChatClient = (*Client)(nil)
