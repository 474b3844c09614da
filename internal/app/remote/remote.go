// Package remote provides the interactive remote control loop that maps
// user input to playback events.
package remote

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/playerbox/internal/app/playback"
)

// Dispatcher is the controller surface the remote drives.
type Dispatcher interface {
	Dispatch(playback.Event) error
	Status() playback.Status
}

// Config holds remote configuration.
type Config struct {
	Keymap   map[string]playback.Event // Input key -> event
	HideMenu bool                      // Do not print the menu before each prompt
}

// Remote reads button presses from an input stream and dispatches them.
type Remote struct {
	d      Dispatcher
	config Config
	keys   []string
	out    io.Writer
}

// New creates a remote writing prompts and results to out.
func New(d Dispatcher, config Config, out io.Writer) *Remote {
	keys := make([]string, 0, len(config.Keymap))
	for k := range config.Keymap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return &Remote{d: d, config: config, keys: keys, out: out}
}

// Resolve maps one line of input to an event. Keymap keys are tried first,
// then event names.
func (r *Remote) Resolve(input string) (playback.Event, error) {
	input = strings.TrimSpace(input)
	if ev, ok := r.config.Keymap[input]; ok {
		return ev, nil
	}
	return playback.ParseEvent(input)
}

// Run processes input until EOF, a quit command, or ctx is done.
func (r *Remote) Run(ctx context.Context, in io.Reader) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	r.prompt()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					if err != nil {
						return errors.Wrap(err, "failed to read input")
					}
				default:
				}
				return nil
			}
			if quit := r.handleLine(line); quit {
				return nil
			}
			r.prompt()
		}
	}
}

// handleLine dispatches a single input line. It reports whether the user
// asked to quit.
func (r *Remote) handleLine(line string) bool {
	line = strings.TrimSpace(line)
	switch strings.ToLower(line) {
	case "":
		return false
	case "q", "quit", "exit":
		return true
	}

	ev, err := r.Resolve(line)
	if err != nil {
		zlog.Debug().Msgf("rejected input: %q", line)
		fmt.Fprintln(r.out, "Invalid choice.")
		return false
	}

	if err := r.d.Dispatch(ev); err != nil {
		var herr *playback.HookError
		if errors.As(err, &herr) {
			zlog.Error().Err(err).Msgf("actuator failure on %s", ev)
			fmt.Fprintf(r.out, "Device error: %v\n", err)
		} else {
			zlog.Error().Err(err).Msgf("dispatch failed: event=%s", ev)
			fmt.Fprintf(r.out, "Error: %v\n", err)
		}
	}

	fmt.Fprintf(r.out, "Player is in '%s' state\n\n", r.d.Status().State)
	return false
}

func (r *Remote) prompt() {
	if !r.config.HideMenu {
		fmt.Fprintln(r.out, "Press a button:")
		for _, k := range r.keys {
			fmt.Fprintf(r.out, "%s. %s\n", k, label(r.config.Keymap[k]))
		}
	}
	fmt.Fprint(r.out, "Choice: ")
}

func label(ev playback.Event) string {
	switch ev {
	case playback.EventPowerToggle:
		return "On / Off"
	case playback.EventPlayPauseToggle:
		return "Play / Pause"
	default:
		return ev.String()
	}
}
