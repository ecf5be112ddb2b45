// Package command resolves acting and target identities, drives the
// remote access/billing API, and normalizes every outcome into a
// single chat reply.
package command

import (
	"context"
	"errors"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/nerimoe/prismbot/internal/api"
	"github.com/nerimoe/prismbot/internal/bot"
	"github.com/nerimoe/prismbot/internal/confirm"
	"github.com/nerimoe/prismbot/internal/metrics"
	"github.com/rs/zerolog"
)

// API is the remote access/billing service surface the handlers use.
type API interface {
	Register(ctx context.Context, id string) error
	Login(ctx context.Context, id string) error
	Logout(ctx context.Context, id string) (*api.LogoutResult, error)
	BillingPreview(ctx context.Context, id string) (*api.BillingPreview, error)
	ListActive(ctx context.Context) ([]api.ActiveUser, error)
	Wallet(ctx context.Context, id string) (*api.Wallet, error)
	Assets(ctx context.Context, id string) ([]api.UserAsset, error)
	DoorPassword(ctx context.Context, id string) (string, error)
	SetMachinePower(ctx context.Context, machine string, on bool, id string) (*api.MachineState, error)
	MachinePower(ctx context.Context) ([]api.MachineState, error)
	MachinePowerByName(ctx context.Context, alias string) (*api.MachineState, error)
	AdjustWallet(ctx context.Context, id string, amount float64, comment string) (*api.WalletAdjustment, error)
	OverwriteCost(ctx context.Context, id string, cost int) error
	Redeem(ctx context.Context, id, code string) ([]api.RedeemedItem, error)
}

const (
	machineCacheSize = 64
	machineCacheTTL  = 5 * time.Second
)

// Config holds command service configuration
type Config struct {
	AdminAuthority int
	ConfirmTTL     time.Duration
}

// Service holds the collaborators every handler shares.
type Service struct {
	api            API
	confirmations  confirm.Store
	confirmTTL     time.Duration
	adminAuthority int
	machineCache   *expirable.LRU[string, []api.MachineState]
	logger         zerolog.Logger
}

// NewService creates the command service.
func NewService(apiClient API, confirmations confirm.Store, cfg Config, logger zerolog.Logger) *Service {
	ttl := cfg.ConfirmTTL
	if ttl == 0 {
		ttl = confirm.DefaultTTL
	}
	return &Service{
		api:            apiClient,
		confirmations:  confirmations,
		confirmTTL:     ttl,
		adminAuthority: cfg.AdminAuthority,
		machineCache:   expirable.NewLRU[string, []api.MachineState](machineCacheSize, nil, machineCacheTTL),
		logger:         logger.With().Str("component", "command").Logger(),
	}
}

// Commands returns the full handler map to register with the
// dispatcher.
func (s *Service) Commands() map[string]bot.HandlerFunc {
	return map[string]bot.HandlerFunc{
		"register":  s.wrap("register", s.register),
		"login":     s.wrap("login", s.login),
		"logout":    s.wrap("logout", s.logout),
		"list":      s.wrap("list", s.list),
		"wallet":    s.wrap("wallet", s.wallet),
		"billing":   s.wrap("billing", s.billing),
		"lock":      s.wrap("lock", s.lock),
		"items":     s.wrap("items", s.items),
		"show":      s.wrap("show", s.show),
		"on":        s.wrap("on", s.powerOn),
		"off":       s.wrap("off", s.powerOff),
		"redeem":    s.wrap("redeem", s.redeem),
		"add":       s.wrap("add", s.creditWallet),
		"del":       s.wrap("del", s.debitWallet),
		"overwrite": s.wrap("overwrite", s.overwriteCost),
	}
}

// handler is the inner handler shape; wrap turns it into a
// bot.HandlerFunc that always returns a reply string.
type handler func(ctx context.Context, sess *bot.Session) (string, error)

// wrap is the single outer command layer: it times the invocation,
// maps every failure to its user-facing text and prefixes the
// quote-reference marker when the invoking message is quotable.
func (s *Service) wrap(name string, fn handler) bot.HandlerFunc {
	return func(ctx context.Context, sess *bot.Session) string {
		start := time.Now()

		reply, err := fn(ctx, sess)
		outcome := "ok"
		if err != nil {
			outcome = "error"
			reply = s.failureMessage(name, err)
		}

		metrics.CommandsTotal.WithLabelValues(name, outcome).Inc()
		metrics.CommandDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())

		if sess.QuoteID != "" {
			reply = "[quote:" + sess.QuoteID + "] " + reply
		}
		return reply
	}
}

// failureMessage maps an error to its reply per the failure taxonomy:
// authorization and input errors carry fixed local text, remote errors
// surface the service's message when it sent one, and anything
// unexpected is logged and replaced with a generic message.
func (s *Service) failureMessage(command string, err error) string {
	if errors.Is(err, errInsufficientPrivilege) {
		return msgInsufficientPrivilege
	}

	var input inputError
	if errors.As(err, &input) {
		return input.Error()
	}

	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return msgGenericFailure
	}

	s.logger.Error().Err(err).Str("command", command).Msg("Unexpected command failure")
	return msgGenericFailure
}
