package bot

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// Console drives the dispatcher from a line-oriented stream for local
// operation, standing in for the chat framework. Each line is
//
//	<user>[#authority] <command> [args...]
//
// e.g. "12345#3 logout" invokes logout as user 12345 with authority 3.
type Console struct {
	dispatcher *Dispatcher
	in         io.Reader
	out        io.Writer
	logger     zerolog.Logger
}

// NewConsole creates a console adapter over the given streams.
func NewConsole(dispatcher *Dispatcher, in io.Reader, out io.Writer, logger zerolog.Logger) *Console {
	return &Console{
		dispatcher: dispatcher,
		in:         in,
		out:        out,
		logger:     logger.With().Str("component", "console").Logger(),
	}
}

// Run reads lines until EOF or context cancellation.
func (c *Console) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(c.in)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		user, rest, ok := strings.Cut(line, " ")
		if !ok {
			_, _ = fmt.Fprintln(c.out, "usage: <user>[#authority] <command> [args...]")
			continue
		}

		sess := &Session{UserID: user}
		if id, auth, ok := strings.Cut(user, "#"); ok {
			level, err := strconv.Atoi(auth)
			if err != nil {
				_, _ = fmt.Fprintf(c.out, "bad authority level %q\n", auth)
				continue
			}
			sess.UserID = id
			sess.Authority = level
		}

		reply, handled := c.dispatcher.Dispatch(ctx, rest, sess)
		if !handled {
			c.logger.Debug().Str("line", rest).Msg("No handler for input")
			continue
		}
		_, _ = fmt.Fprintln(c.out, reply)
	}
	return scanner.Err()
}
