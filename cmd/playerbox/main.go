// Package main provides the playerbox remote control entry point.
package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/playerbox/internal/app/notification"
	"github.com/osa030/playerbox/internal/app/playback"
	"github.com/osa030/playerbox/internal/app/remote"
	"github.com/osa030/playerbox/internal/infra/config"
	"github.com/osa030/playerbox/internal/infra/device"
	"github.com/osa030/playerbox/internal/infra/logger"
	"github.com/osa030/playerbox/internal/infra/metrics"
)

var (
	app        = kingpin.New("playerbox", "On/off, play/pause remote control")
	configPath = app.Flag("config", "Path to config file (defaults are used when empty)").String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile    = app.Flag("logfile", "Path to log file (default: config or stderr)").String()

	runCmd = app.Command("run", "Run the interactive remote (default)").Default()

	// list-transitions command
	listCmd = app.Command("list-transitions", "List defined transitions and exit")

	// send command
	sendCmd    = app.Command("send", "Dispatch events in order and print the final status")
	sendEvents = sendCmd.Arg("events", "Events (power, playpause, or keymap keys)").Required().Strings()
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	if command == listCmd.FullCommand() {
		printTransitions(os.Stdout)
		return
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	loggerConfig := logger.Config{
		Output: cfg.Logging.Output,
		Level:  cfg.Logging.Level,
	}
	// Interactive output goes to stdout; keep logs off it unless asked.
	if loggerConfig.Output == "stdout" {
		loggerConfig.Output = "stderr"
	}
	if *verbose {
		loggerConfig.Level = "debug"
	}
	if *logfile != "" {
		loggerConfig.Output = *logfile
	}
	closer, err := logger.Init(loggerConfig)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer closer.Close()

	if err := run(cfg, command); err != nil {
		zlog.Error().Msgf("playerbox error: %v", err)
		closer.Close()
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default()
	}
	return config.Load(path)
}

// run wires the controller and executes the selected command. Using a
// separate function ensures the controller is torn down on every return.
func run(cfg *config.Config, command string) error {
	keymap, err := cfg.Keymap()
	if err != nil {
		return err
	}

	chain, err := device.NewChainFromConfig(cfg, os.Stdout)
	if err != nil {
		return errors.Wrap(err, "failed to create devices")
	}

	collector, err := metrics.New()
	if err != nil {
		return err
	}

	notifier := notification.NewManager()
	defer notifier.Close()
	notifier.Subscribe(notification.StreamFunc(func(n notification.Notification) error {
		zlog.Info().
			Uint64("seq", n.SequenceNo).
			Str("from", n.Transition.From.String()).
			Str("event", n.Transition.Event.String()).
			Str("to", n.Transition.To.String()).
			Bool("indicator", n.Status.IndicatorOn).
			Bool("playback", n.Status.PlaybackActive).
			Msg("state changed")
		return nil
	}))

	var ctrl *playback.Controller
	opts := append(collector.Options(), notifier.TransitionHandler(func() playback.Status {
		return ctrl.Status()
	}))
	ctrl, err = playback.New(chain, opts...)
	if err != nil {
		return errors.Wrap(err, "failed to start controller")
	}
	sc := playback.NewSerialized(ctrl)
	defer sc.Teardown()

	if cfg.Metrics.Addr != "" {
		stop := serveMetrics(cfg.Metrics.Addr, cfg.Metrics.Path, collector)
		defer stop()
	}

	r := remote.New(sc, remote.Config{Keymap: keymap, HideMenu: cfg.Remote.HideMenu}, os.Stdout)

	switch command {
	case sendCmd.FullCommand():
		return send(os.Stdout, r, sc, *sendEvents)
	case runCmd.FullCommand():
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		err := r.Run(ctx, os.Stdin)
		if errors.Is(err, context.Canceled) {
			zlog.Info().Msg("Received shutdown signal...")
			return nil
		}
		return err
	default:
		return errors.Newf("unknown command: %s", command)
	}
}

// send resolves every argument before dispatching anything so that a typo
// does not leave the device half-driven.
func send(w io.Writer, r *remote.Remote, d remote.Dispatcher, args []string) error {
	events := make([]playback.Event, 0, len(args))
	for _, arg := range args {
		ev, err := r.Resolve(arg)
		if err != nil {
			return errors.Wrapf(err, "invalid event %q", arg)
		}
		events = append(events, ev)
	}

	for _, ev := range events {
		if err := d.Dispatch(ev); err != nil {
			return errors.Wrapf(err, "dispatch %s", ev)
		}
	}

	st := d.Status()
	fmt.Fprintf(w, "state=%s indicator=%t playback=%t\n", st.State, st.IndicatorOn, st.PlaybackActive)
	return nil
}

// serveMetrics starts the metrics endpoint and returns its shutdown func.
func serveMetrics(addr, path string, collector *metrics.Collector) func() {
	mux := http.NewServeMux()
	mux.Handle(path, collector.Handler())
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		zlog.Info().Msgf("Starting metrics server: addr=%s path=%s", addr, path)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Error().Err(err).Msg("metrics server failed")
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			zlog.Error().Msgf("Failed to shutdown metrics server: %v", err)
		}
	}
}

// printTransitions prints the transition table.
func printTransitions(w io.Writer) {
	fmt.Fprintln(w, "Defined transitions:")
	for _, t := range playback.Transitions() {
		fmt.Fprintf(w, "  %-10s --%-18s--> %s\n", t.From, t.Event, t.To)
	}
	fmt.Fprintln(w, "Any other (state, event) pair is ignored.")
}
