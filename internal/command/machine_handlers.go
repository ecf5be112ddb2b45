package command

import (
	"context"
	"strings"

	"github.com/nerimoe/prismbot/internal/api"
	"github.com/nerimoe/prismbot/internal/bot"
)

// allMachinesKey is the cache key for the full machine listing.
const allMachinesKey = "*"

func machineStateLine(m api.MachineState) string {
	state := "off"
	if m.State {
		state = "on"
	}
	return m.Machine + ": " + state
}

// show reports machine power state, all machines or one by alias.
// Results are held in a short-TTL cache so repeated listings don't
// hammer the machine endpoint.
func (s *Service) show(ctx context.Context, sess *bot.Session) (string, error) {
	alias := sess.Arg(0)

	key := allMachinesKey
	if alias != "" {
		key = alias
	}

	states, ok := s.machineCache.Get(key)
	if !ok {
		var err error
		if alias == "" {
			states, err = s.api.MachinePower(ctx)
		} else {
			var state *api.MachineState
			state, err = s.api.MachinePowerByName(ctx, alias)
			if err == nil {
				states = []api.MachineState{*state}
			}
		}
		if err != nil {
			return "", err
		}
		s.machineCache.Add(key, states)
	}

	if len(states) == 0 {
		return "No machines.", nil
	}
	lines := make([]string, 0, len(states))
	for _, m := range states {
		lines = append(lines, machineStateLine(m))
	}
	return strings.Join(lines, "\n"), nil
}

// setPower switches a machine on behalf of the caller; power control
// is always attributed to the acting user, never a target.
func (s *Service) setPower(ctx context.Context, sess *bot.Session, on bool) (string, error) {
	alias := sess.Arg(0)
	if alias == "" {
		return "", inputError(msgMissingMachine)
	}

	state, err := s.api.SetMachinePower(ctx, alias, on, sess.UserID)
	if err != nil {
		return "", err
	}

	// State changed remotely; cached listings are stale.
	s.machineCache.Purge()

	return machineStateLine(*state), nil
}

func (s *Service) powerOn(ctx context.Context, sess *bot.Session) (string, error) {
	return s.setPower(ctx, sess, true)
}

func (s *Service) powerOff(ctx context.Context, sess *bot.Session) (string, error) {
	return s.setPower(ctx, sess, false)
}
