package command

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nerimoe/prismbot/internal/api"
	"github.com/nerimoe/prismbot/internal/billing"
	"github.com/nerimoe/prismbot/internal/bot"
	"github.com/nerimoe/prismbot/internal/format"
)

func (s *Service) register(ctx context.Context, sess *bot.Session) (string, error) {
	target, err := s.resolveTarget(sess, sess.Arg(0))
	if err != nil {
		return "", err
	}
	if err := s.api.Register(ctx, target); err != nil {
		return "", err
	}
	return msgRegistered, nil
}

func (s *Service) login(ctx context.Context, sess *bot.Session) (string, error) {
	target, err := s.resolveTarget(sess, sess.Arg(0))
	if err != nil {
		return "", err
	}
	if err := s.api.Login(ctx, target); err != nil {
		return "", err
	}
	return msgCheckedIn, nil
}

// logout is the two-step checkout: the first invocation inside the
// confirmation window renders a billing preview and records intent,
// the confirming second invocation performs the remote close and
// renders the receipt. The confirmation entry is keyed by the target
// user, so an admin checkout on behalf of someone confirms against
// that user's window.
func (s *Service) logout(ctx context.Context, sess *bot.Session) (string, error) {
	target, err := s.resolveTarget(sess, sess.Arg(0))
	if err != nil {
		return "", err
	}

	confirmed, err := s.confirmations.BeginOrConfirm(ctx, target)
	if err != nil {
		return "", err
	}

	if confirmed {
		result, err := s.api.Logout(ctx, target)
		if err != nil {
			return "", err
		}
		return billing.RenderReceipt(result), nil
	}

	preview, err := s.api.BillingPreview(ctx, target)
	if err != nil {
		return "", err
	}

	prompt := fmt.Sprintf("Run logout again within %d seconds to confirm checkout.",
		int(s.confirmTTL/time.Second))
	return billing.RenderPreview(preview, time.Now()) + "\n" + billing.SectionDivider + "\n" + prompt, nil
}

func (s *Service) list(ctx context.Context, sess *bot.Session) (string, error) {
	active, err := s.api.ListActive(ctx)
	if err != nil {
		return "", err
	}
	if len(active) == 0 {
		return msgNoActiveUsers, nil
	}

	lines := make([]string, 0, len(active))
	for _, user := range active {
		lines = append(lines, activeUserLine(user))
	}
	return strings.Join(lines, "\n"), nil
}

// activeUserLine renders one occupant: their chat bind and how long
// they have been in.
func activeUserLine(user api.ActiveUser) string {
	name := "(unbound)"
	for _, bind := range user.Binds {
		if bind.Type == api.BindType {
			name = bind.BID
			break
		}
	}

	if len(user.Sessions) == 0 {
		return name
	}
	return name + " — open since " + format.Timestamp(user.Sessions[0].CreatedAt)
}

func (s *Service) lock(ctx context.Context, sess *bot.Session) (string, error) {
	password, err := s.api.DoorPassword(ctx, sess.UserID)
	if err != nil {
		return "", err
	}
	return "Door code: " + password, nil
}
