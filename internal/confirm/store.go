// Package confirm gates destructive checkout commands behind a second
// confirmation inside a bounded time window, tracked per target user.
package confirm

import (
	"context"
	"time"
)

// DefaultTTL is the confirmation window applied when none is configured.
const DefaultTTL = 60 * time.Second

// Store tracks pending checkout intents per user.
//
// BeginOrConfirm is an atomic check-and-set: when no live pending entry
// exists for the user it records one and reports false (the caller
// shows a preview and waits); when a live entry exists it consumes it
// and reports true (the caller finalizes). At most one pending entry
// exists per user, and a confirming call always clears its own entry.
type Store interface {
	BeginOrConfirm(ctx context.Context, userID string) (confirmed bool, err error)
}
