package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/nerimoe/prismbot/internal/metrics"
	"github.com/rs/zerolog"
)

// BindType is the chat identity namespace used for all user references.
const BindType = "QQ"

// Config holds API client configuration
type Config struct {
	BaseURL string
	Timeout time.Duration
	Retries int // extra attempts for idempotent GETs only
}

// Client talks to the remote access/billing service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	retries    int
	logger     zerolog.Logger
}

// NewClient creates a new API client
func NewClient(cfg Config, logger zerolog.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("api base_url is required")
	}
	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid api base_url %q", cfg.BaseURL)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		// Exactly one separator at the base/endpoint seam: the base
		// loses its trailing slash, every endpoint path supplies one.
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		retries:    cfg.Retries,
		logger:     logger.With().Str("component", "api").Logger(),
	}, nil
}

// BindRef builds the bind reference sent in user-scoped endpoint paths.
func BindRef(id string) string {
	return BindType + ":" + id
}

// StripBind removes a "type:" prefix from a bind reference, returning
// the raw id. References without a prefix pass through unchanged.
func StripBind(ref string) string {
	if i := strings.Index(ref, ":"); i >= 0 {
		return ref[i+1:]
	}
	return ref
}

// do issues one API request. GETs are retried on transport errors and
// 5xx responses; everything else is best-effort, once.
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal %s request: %w", op, err)
		}
	}

	attempts := 1
	if method == http.MethodGet {
		attempts += c.retries
	}

	start := time.Now()
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			c.logger.Debug().
				Str("operation", op).
				Int("attempt", attempt+1).
				Msg("Retrying API request")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(500 * time.Millisecond):
			}
		}

		var reqBody io.Reader
		if payload != nil {
			reqBody = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
		if err != nil {
			return fmt.Errorf("build %s request: %w", op, err)
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%s: %w", op, err)
			metrics.APIRequestsTotal.WithLabelValues(op, "transport_error").Inc()
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("%s: read response: %w", op, err)
			metrics.APIRequestsTotal.WithLabelValues(op, "transport_error").Inc()
			continue
		}

		metrics.APIRequestsTotal.WithLabelValues(op, strconv.Itoa(resp.StatusCode)).Inc()

		if resp.StatusCode >= 500 && method == http.MethodGet && attempt < attempts-1 {
			lastErr = newError(op, resp.StatusCode, respBody)
			continue
		}
		if resp.StatusCode >= 400 {
			apiErr := newError(op, resp.StatusCode, respBody)
			c.logger.Warn().
				Str("operation", op).
				Int("status", resp.StatusCode).
				Str("message", apiErr.Message).
				Msg("API request failed")
			return apiErr
		}

		metrics.APIRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

		if out != nil && len(respBody) > 0 {
			if err := json.Unmarshal(respBody, out); err != nil {
				return fmt.Errorf("decode %s response: %w", op, err)
			}
		}
		return nil
	}
	return lastErr
}

// Register creates a user bound to the given chat id.
func (c *Client) Register(ctx context.Context, id string) error {
	body := []map[string]any{
		{"binds": []Bind{{Type: BindType, BID: id}}},
	}
	return c.do(ctx, "register", http.MethodPost, "/users", body, nil)
}

// Login opens a session for the user.
func (c *Client) Login(ctx context.Context, id string) error {
	path := "/users/" + url.PathEscape(BindRef(id)) + "/login"
	return c.do(ctx, "login", http.MethodPost, path, nil, nil)
}

// Logout closes the user's open session and returns the finalized
// session and billing.
func (c *Client) Logout(ctx context.Context, id string) (*LogoutResult, error) {
	path := "/users/" + url.PathEscape(BindRef(id)) + "/logout"
	var out LogoutResult
	if err := c.do(ctx, "logout", http.MethodPost, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BillingPreview fetches the live billing snapshot for the user's open
// session.
func (c *Client) BillingPreview(ctx context.Context, id string) (*BillingPreview, error) {
	path := "/users/" + url.PathEscape(BindRef(id)) + "/billing"
	var out BillingPreview
	if err := c.do(ctx, "billing_preview", http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListActive lists users with open sessions, including their binds.
func (c *Client) ListActive(ctx context.Context) ([]ActiveUser, error) {
	var out []ActiveUser
	if err := c.do(ctx, "list_active", http.MethodGet, "/users/logined?binds=true&sessions=true", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Wallet fetches the user's wallet with asset details.
func (c *Client) Wallet(ctx context.Context, id string) (*Wallet, error) {
	path := "/users/" + url.PathEscape(BindRef(id)) + "/wallet?details=true"
	var out Wallet
	if err := c.do(ctx, "wallet", http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Assets fetches every asset the user holds.
func (c *Client) Assets(ctx context.Context, id string) ([]UserAsset, error) {
	path := "/users/" + url.PathEscape(BindRef(id)) + "/assets?details=true"
	var out []UserAsset
	if err := c.do(ctx, "assets", http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DoorPassword fetches the user's current door access code.
func (c *Client) DoorPassword(ctx context.Context, id string) (string, error) {
	path := "/users/" + url.PathEscape(BindRef(id)) + "/door-password"
	var out struct {
		Password string `json:"password"`
	}
	if err := c.do(ctx, "door_password", http.MethodGet, path, nil, &out); err != nil {
		return "", err
	}
	return out.Password, nil
}

// SetMachinePower switches a machine on or off on behalf of a user.
func (c *Client) SetMachinePower(ctx context.Context, machine string, on bool, id string) (*MachineState, error) {
	body := map[string]any{
		"machineName": machine,
		"powerState":  on,
		"userId":      BindRef(id),
	}
	var out MachineState
	if err := c.do(ctx, "machine_power_set", http.MethodPost, "/machine/power", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MachinePower reports the power state of every machine.
func (c *Client) MachinePower(ctx context.Context) ([]MachineState, error) {
	var out []MachineState
	if err := c.do(ctx, "machine_power_get", http.MethodGet, "/machine/power", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MachinePowerByName reports the power state of one machine.
func (c *Client) MachinePowerByName(ctx context.Context, alias string) (*MachineState, error) {
	var out MachineState
	path := "/machine/power?name=" + url.QueryEscape(alias)
	if err := c.do(ctx, "machine_power_get", http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AdjustWallet credits (positive amount) or debits (negative amount)
// the user's free balance.
func (c *Client) AdjustWallet(ctx context.Context, id string, amount float64, comment string) (*WalletAdjustment, error) {
	path := "/users/" + url.PathEscape(BindRef(id)) + "/wallet"
	body := map[string]any{
		"type":    "free",
		"action":  amount,
		"comment": comment,
	}
	var out WalletAdjustment
	if err := c.do(ctx, "wallet_adjust", http.MethodPost, path, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// OverwriteCost sets an admin cost override on the user's open session.
func (c *Client) OverwriteCost(ctx context.Context, id string, cost int) error {
	path := "/users/" + url.PathEscape(BindRef(id)) + "/billing-overwrite"
	body := map[string]any{"cost": cost}
	return c.do(ctx, "cost_overwrite", http.MethodPost, path, body, nil)
}

// Redeem posts a redemption code and returns the granted items.
func (c *Client) Redeem(ctx context.Context, id, code string) ([]RedeemedItem, error) {
	path := "/users/" + url.PathEscape(BindRef(id)) + "/redeem"
	body := map[string]any{"code": code}
	var out []RedeemedItem
	if err := c.do(ctx, "redeem", http.MethodPost, path, body, &out); err != nil {
		return nil, err
	}
	return out, nil
}
