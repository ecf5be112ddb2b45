package command

import (
	"errors"

	"github.com/nerimoe/prismbot/internal/api"
	"github.com/nerimoe/prismbot/internal/bot"
)

// errInsufficientPrivilege marks a caller acting on another user
// without the configured admin authority. Detected before any remote
// call is made.
var errInsufficientPrivilege = errors.New("insufficient privilege")

// inputError is a locally-detected invalid invocation. Its text is the
// localized prompt shown to the user.
type inputError string

func (e inputError) Error() string { return string(e) }

// resolveTarget resolves the target identity of a command. With no
// explicit target the caller acts on themselves. An explicit target
// requires the caller's authority to clear the admin threshold, and is
// returned with any bind-type prefix stripped.
func (s *Service) resolveTarget(sess *bot.Session, target string) (string, error) {
	if target == "" {
		return sess.UserID, nil
	}
	if sess.Authority < s.adminAuthority {
		return "", errInsufficientPrivilege
	}
	return api.StripBind(target), nil
}
