package bot

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
)

// Dispatcher routes command words to handlers.
type Dispatcher struct {
	handlers map[string]HandlerFunc
	logger   zerolog.Logger
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher(logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		handlers: make(map[string]HandlerFunc),
		logger:   logger.With().Str("component", "dispatcher").Logger(),
	}
}

// Handle registers a handler for a command word.
func (d *Dispatcher) Handle(name string, h HandlerFunc) {
	d.handlers[name] = h
}

// HandleAll registers every handler in the map.
func (d *Dispatcher) HandleAll(handlers map[string]HandlerFunc) {
	for name, h := range handlers {
		d.Handle(name, h)
	}
}

// Dispatch parses a raw message into a command word and arguments and
// invokes the matching handler. The second return is false when the
// message names no registered command; fallthrough belongs to the
// framework, not to us.
func (d *Dispatcher) Dispatch(ctx context.Context, raw string, sess *Session) (string, bool) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return "", false
	}

	handler, ok := d.handlers[fields[0]]
	if !ok {
		return "", false
	}

	sess.Args = fields[1:]
	d.logger.Debug().
		Str("command", fields[0]).
		Str("user", sess.UserID).
		Msg("Dispatching command")

	return handler(ctx, sess), true
}
