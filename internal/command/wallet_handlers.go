package command

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nerimoe/prismbot/internal/api"
	"github.com/nerimoe/prismbot/internal/billing"
	"github.com/nerimoe/prismbot/internal/bot"
	"github.com/nerimoe/prismbot/internal/format"
	"github.com/nerimoe/prismbot/internal/wallet"
)

func (s *Service) wallet(ctx context.Context, sess *bot.Session) (string, error) {
	target, err := s.resolveTarget(sess, sess.Arg(0))
	if err != nil {
		return "", err
	}
	w, err := s.api.Wallet(ctx, target)
	if err != nil {
		return "", err
	}
	return wallet.RenderSummary(w), nil
}

func (s *Service) billing(ctx context.Context, sess *bot.Session) (string, error) {
	target, err := s.resolveTarget(sess, sess.Arg(0))
	if err != nil {
		return "", err
	}
	preview, err := s.api.BillingPreview(ctx, target)
	if err != nil {
		return "", err
	}
	return billing.RenderPreview(preview, time.Now()), nil
}

func (s *Service) items(ctx context.Context, sess *bot.Session) (string, error) {
	target, err := s.resolveTarget(sess, sess.Arg(0))
	if err != nil {
		return "", err
	}
	assets, err := s.api.Assets(ctx, target)
	if err != nil {
		return "", err
	}
	return wallet.RenderItems(assets), nil
}

func (s *Service) redeem(ctx context.Context, sess *bot.Session) (string, error) {
	code := sess.Arg(0)
	if code == "" {
		return "", inputError(msgMissingCode)
	}

	items, err := s.api.Redeem(ctx, sess.UserID, code)
	if err != nil {
		return "", err
	}
	if len(items) == 0 {
		return msgNothingGranted, nil
	}

	lines := []string{"Redeemed:"}
	for _, item := range items {
		lines = append(lines, redeemedItemLine(item))
	}
	return strings.Join(lines, "\n"), nil
}

// redeemedItemLine renders one granted item. Pass grants with a
// duration get a day count, but only when the duration amounts to at
// least one whole day.
func redeemedItemLine(item api.RedeemedItem) string {
	line := fmt.Sprintf("  %s ×%d", item.Name, item.Count)
	if item.AssetType == "pass" && item.DurationMS != nil {
		if days := format.WholeDays(*item.DurationMS); days > 0 {
			line += fmt.Sprintf(" (%d days)", days)
		}
	}
	return line
}

// adjustWallet is the shared body of add and del; sign carries the
// direction.
func (s *Service) adjustWallet(ctx context.Context, sess *bot.Session, sign float64) (string, error) {
	if sess.Arg(0) == "" {
		return "", inputError(msgMissingUser)
	}
	if sess.Arg(1) == "" {
		return "", inputError(msgMissingAmount)
	}

	target, err := s.resolveTarget(sess, sess.Arg(0))
	if err != nil {
		return "", err
	}
	amount, err := strconv.ParseFloat(sess.Arg(1), 64)
	if err != nil {
		return "", inputError(msgInvalidAmount)
	}

	comment := "manual adjustment by " + api.BindRef(sess.UserID)
	result, err := s.api.AdjustWallet(ctx, target, sign*amount, comment)
	if err != nil {
		return "", err
	}
	return "Balance: " + format.Money(result.OriginalBalance) + " → " + format.Money(result.FinalBalance), nil
}

func (s *Service) creditWallet(ctx context.Context, sess *bot.Session) (string, error) {
	return s.adjustWallet(ctx, sess, 1)
}

func (s *Service) debitWallet(ctx context.Context, sess *bot.Session) (string, error) {
	return s.adjustWallet(ctx, sess, -1)
}

func (s *Service) overwriteCost(ctx context.Context, sess *bot.Session) (string, error) {
	if sess.Arg(0) == "" {
		return "", inputError(msgMissingUser)
	}
	if sess.Arg(1) == "" {
		return "", inputError(msgMissingAmount)
	}

	target, err := s.resolveTarget(sess, sess.Arg(0))
	if err != nil {
		return "", err
	}
	cost, err := strconv.Atoi(sess.Arg(1))
	if err != nil {
		return "", inputError(msgInvalidAmount)
	}

	if err := s.api.OverwriteCost(ctx, target, cost); err != nil {
		return "", err
	}
	return "Cost override set to " + format.Money(float64(cost)) + ".", nil
}
