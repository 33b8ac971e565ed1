// Command tennis simulates tennis matches between two players.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"

	"github.com/comalice/tennisx"
	"github.com/comalice/tennisx/eventbus"
	"github.com/comalice/tennisx/internal/config"
	"github.com/comalice/tennisx/internal/metrics"
	"github.com/comalice/tennisx/internal/random"
	"github.com/comalice/tennisx/internal/scoreboard"
)

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "tennis:", err)
		os.Exit(1)
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "tennis",
		Usage:     "simulate tennis matches",
		Writer:    stdout,
		ErrWriter: stderr,
		Commands: []*cli.Command{
			newPlayCommand(),
		},
	}
}

func newPlayCommand() *cli.Command {
	return &cli.Command{
		Name:  "play",
		Usage: "play one match and print the scoreboard",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML match configuration"},
			&cli.Uint64Flag{Name: "seed", Usage: "random seed, 0 for a random one"},
			&cli.IntFlag{Name: "sets", Usage: "sets needed to win the match"},
			&cli.StringSliceFlag{Name: "player", Aliases: []string{"p"}, Usage: "player as `NAME:HITRATE`, given twice"},
			&cli.StringFlag{Name: "dispatch", Usage: "event dispatch: async or ticked"},
			&cli.DurationFlag{Name: "tick-rate", Usage: "tick interval for ticked dispatch"},
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: string(scoreboard.FormatText), Usage: "output format: text, json, yaml or dot"},
			&cli.IntFlag{Name: "depth", Value: 2, Usage: "levels shown by text and dot output, 0 for all"},
			&cli.BoolFlag{Name: "stats", Usage: "print point and unit counters"},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error"},
		},
		Action: playAction,
	}
}

func playAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	format, err := scoreboard.ParseFormat(c.String("format"))
	if err != nil {
		return err
	}
	level, err := cfg.Level()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{Level: level}))

	reg := prometheus.NewRegistry()
	collector, err := metrics.New(reg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	snap, err := play(ctx, cfg, logger, collector)
	if err != nil {
		return err
	}
	if err := scoreboard.Render(c.App.Writer, format, snap, c.Int("depth")); err != nil {
		return err
	}
	if !c.Bool("stats") {
		return nil
	}
	lines, err := metrics.Summary(reg)
	if err != nil {
		return err
	}
	for _, l := range lines {
		fmt.Fprintln(c.App.Writer, l)
	}
	return nil
}

// loadConfig reads the config file and environment, then applies flags.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if c.IsSet("seed") {
		cfg.Seed = c.Uint64("seed")
	}
	if c.IsSet("sets") {
		cfg.SetsToWin = c.Int("sets")
	}
	if c.IsSet("dispatch") {
		cfg.Dispatch = c.String("dispatch")
	}
	if c.IsSet("tick-rate") {
		cfg.TickRate = c.Duration("tick-rate")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("player") {
		cfg.Players = nil
		for _, arg := range c.StringSlice("player") {
			p, err := parsePlayer(arg)
			if err != nil {
				return nil, err
			}
			cfg.Players = append(cfg.Players, p)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.FillNames()
	return cfg, nil
}

// parsePlayer parses NAME:HITRATE. The name may be empty.
func parsePlayer(arg string) (config.Player, error) {
	i := strings.LastIndex(arg, ":")
	if i < 0 {
		return config.Player{}, fmt.Errorf("player %q: want NAME:HITRATE", arg)
	}
	rate, err := strconv.Atoi(arg[i+1:])
	if err != nil {
		return config.Player{}, fmt.Errorf("player %q: hit rate: %w", arg, err)
	}
	return config.Player{Name: arg[:i], HitRate: rate}, nil
}

// play runs one match to completion and returns its final snapshot.
func play(ctx context.Context, cfg *config.Config, logger *slog.Logger, rec tennisx.Recorder) (tennisx.Snapshot, error) {
	busOpts := []eventbus.Option{eventbus.WithLogger(logger)}
	var ticked *eventbus.Ticked
	if cfg.Dispatch == config.DispatchTicked {
		ticked = eventbus.NewTicked(eventbus.TickedConfig{TickRate: cfg.TickRate})
		busOpts = append(busOpts, eventbus.WithDispatcher(ticked))
	}
	bus := eventbus.New(busOpts...)
	defer bus.Close()

	// Every player gets its own stream so a seed replays the same match
	// under either dispatcher.
	seeds := random.New(cfg.Seed)
	players := make([]*tennisx.Player, 0, len(cfg.Players))
	for _, p := range cfg.Players {
		player, err := tennisx.NewPlayer(bus, p.Name, p.HitRate, random.New(uint64(seeds.Draw())+1))
		if err != nil {
			return tennisx.Snapshot{}, err
		}
		players = append(players, player)
	}

	m, err := tennisx.NewMatch(bus, players, cfg.SetsToWin,
		tennisx.WithLogger(logger),
		tennisx.WithRecorder(rec),
		tennisx.WithDrawer(seeds))
	if err != nil {
		return tennisx.Snapshot{}, err
	}
	logger.Info("match started",
		slog.String("match", m.ID().String()),
		slog.String("players", players[0].Name()+" vs "+players[1].Name()),
		slog.Int("sets_to_win", cfg.SetsToWin),
		slog.String("dispatch", cfg.Dispatch))

	if ticked != nil {
		// Closing the bus stops the ticker.
		go ticked.Run(ctx)
	}
	winner, err := m.Run(ctx)
	if err != nil {
		return m.Snapshot(), fmt.Errorf("match interrupted: %w", err)
	}
	logger.Info("match finished",
		slog.String("match", m.ID().String()),
		slog.String("winner", winner.Player().Name()))
	return m.Snapshot(), nil
}
