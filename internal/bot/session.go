// Package bot is the seam to the chat dispatch framework: the
// per-message context handlers receive, the command dispatcher, and a
// stdin adapter for local operation.
package bot

import "context"

// Session is the per-message context supplied by the dispatch
// framework.
type Session struct {
	// UserID is the caller's raw chat id.
	UserID string
	// Authority is the caller's tiered authority level.
	Authority int
	// QuoteID is the quotable identifier of the invoking message,
	// empty when the message carries none.
	QuoteID string
	// Args are the command arguments, command word excluded.
	Args []string
}

// Arg returns the i-th argument or an empty string.
func (s *Session) Arg(i int) string {
	if i < len(s.Args) {
		return s.Args[i]
	}
	return ""
}

// HandlerFunc handles one command invocation. The returned string is
// the complete reply; handlers never surface errors to the framework.
type HandlerFunc func(ctx context.Context, sess *Session) string
