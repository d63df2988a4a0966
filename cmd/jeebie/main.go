package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/gdamore/tcell/v2"
	"github.com/urfave/cli"

	"github.com/valerio/jeebie/jeebie"
	"github.com/valerio/jeebie/jeebie/config"
	"github.com/valerio/jeebie/jeebie/debug"
	"github.com/valerio/jeebie/jeebie/headless"
	"github.com/valerio/jeebie/jeebie/timing"
)

func main() {
	app := cli.NewApp()
	app.Name = "jeebie"
	app.Description = "A Game Boy emulator core with run-control debugging"
	app.Usage = "jeebie [global options] command [command options] <ROM file>"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config, c",
			Usage: "Path to a TOML configuration file",
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn or error",
			Value: "info",
		},
	}
	app.Before = setupLogging
	app.Commands = []cli.Command{
		{
			Name:      "run",
			Usage:     "Run a ROM in real time",
			ArgsUsage: "<ROM file>",
			Flags:     append(debugFlags(), runFlags()...),
			Action:    runROM,
		},
		{
			Name:      "headless",
			Usage:     "Run ROMs for a number of frames without a display",
			ArgsUsage: "<ROM file>...",
			Flags:     headlessFlags(),
			Action:    runHeadless,
		},
		{
			Name:   "config",
			Usage:  "Print the configuration in effect as TOML",
			Action: printConfig,
		},
	}

	err := app.Run(os.Args)
	if errors.Is(err, debug.ErrQuit) {
		slog.Info("Quit by operator")
		return
	}
	if err != nil {
		slog.Error("Error running emulator", "error", err)
		os.Exit(1)
	}
}

func setupLogging(c *cli.Context) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.GlobalString("log-level"))); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
	return nil
}

func debugFlags() []cli.Flag {
	return []cli.Flag{
		cli.BoolFlag{Name: "step", Usage: "Pause before and after every instruction"},
		cli.BoolFlag{Name: "line", Usage: "Pause after every scanline"},
		cli.BoolFlag{Name: "frame", Usage: "Pause after every frame"},
		cli.BoolFlag{Name: "log", Usage: "Trace every instruction"},
		cli.BoolFlag{Name: "flagged", Usage: "Pause on instructions whose emulation is approximated"},
		cli.StringFlag{Name: "operator", Usage: "How pauses wait for the operator: none, prompt or console"},
		cli.StringFlag{Name: "breakpoints", Usage: "Lua script defining should_break(pc, opcode, name)"},
		cli.StringFlag{Name: "trace", Usage: "Write trace records as JSON lines to this file"},
	}
}

func runFlags() []cli.Flag {
	return []cli.Flag{
		cli.IntFlag{Name: "frames", Usage: "Stop after this many frames (0 = run until interrupted)"},
		cli.StringFlag{Name: "limiter", Usage: "Frame pacing: none, ticker or adaptive"},
		cli.Float64Flag{Name: "speed", Usage: "Speed multiplier"},
		cli.IntFlag{Name: "snapshot-interval", Usage: "Save a PNG every N frames (0 = disabled)"},
		cli.StringFlag{Name: "snapshot-dir", Usage: "Directory to save frame snapshots"},
	}
}

func headlessFlags() []cli.Flag {
	return []cli.Flag{
		cli.IntFlag{Name: "frames", Usage: "Number of frames to run per ROM (required)"},
		cli.IntFlag{Name: "jobs, j", Usage: "ROMs to run in parallel (0 = one per CPU)"},
		cli.IntFlag{Name: "snapshot-interval", Usage: "Save a PNG every N frames and after the last one (0 = disabled)"},
		cli.StringFlag{Name: "snapshot-dir", Usage: "Directory to save frame snapshots"},
		cli.IntFlag{Name: "snapshot-scale", Usage: "Pixel scale of the snapshots"},
		cli.BoolFlag{Name: "log", Usage: "Trace every instruction"},
	}
}

// loadConfig reads the configuration file, if any, and applies the flags
// set on the command line over it.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Default()
	if path := c.GlobalString("config"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return cfg, err
		}
	}

	setBool := func(name string, dst *bool) {
		if c.IsSet(name) {
			*dst = c.Bool(name)
		}
	}
	setString := func(name string, dst *string) {
		if c.IsSet(name) {
			*dst = c.String(name)
		}
	}
	setInt := func(name string, dst *int) {
		if c.IsSet(name) {
			*dst = c.Int(name)
		}
	}

	setBool("step", &cfg.Debug.StepByStep)
	setBool("line", &cfg.Debug.LineByLine)
	setBool("frame", &cfg.Debug.ScreenByScreen)
	setBool("log", &cfg.Debug.Log)
	setBool("flagged", &cfg.Debug.BreakOnFlagged)
	setString("operator", &cfg.Debug.Operator)
	setString("breakpoints", &cfg.Debug.Breakpoints)
	setString("trace", &cfg.Debug.Trace)
	setString("limiter", &cfg.Speed.Limiter)
	if c.IsSet("speed") {
		cfg.Speed.Multiplier = c.Float64("speed")
	}
	setInt("snapshot-interval", &cfg.Snapshot.Every)
	setString("snapshot-dir", &cfg.Snapshot.Dir)
	setInt("snapshot-scale", &cfg.Snapshot.Scale)

	return cfg, cfg.Validate()
}

func runROM(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelp(c, "run")
		return errors.New("no ROM path provided")
	}
	romPath := c.Args().First()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	emu, err := jeebie.NewWithFile(romPath)
	if err != nil {
		return err
	}
	emu.Configure(cfg)
	s := emu.Scheduler()

	controller, closeController, err := newController(cfg.Debug, emu)
	if err != nil {
		return err
	}
	defer closeController()
	s.Controller = controller

	tracer, closeTracer, err := newTracer(cfg.Debug.Trace)
	if err != nil {
		return err
	}
	defer closeTracer()
	s.Tracer = tracer

	limiter, err := timing.New(cfg.Speed.Limiter, cfg.Speed.Multiplier)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	romName := headless.ROMName(romPath)
	frames := c.Int("frames")
	slog.Info("Running", "rom", romName, "operator", cfg.Debug.Operator, "limiter", cfg.Speed.Limiter, "speed", cfg.Speed.Multiplier)

	for n := 1; frames == 0 || n <= frames; n++ {
		if ctx.Err() != nil {
			slog.Info("Interrupted", "frames", n-1)
			return nil
		}
		if err := emu.RunFrame(); err != nil {
			return err
		}

		if every := cfg.Snapshot.Every; every > 0 && n%every == 0 {
			path := filepath.Join(cfg.Snapshot.Dir, fmt.Sprintf("%s_frame_%d.png", romName, n))
			if err := debug.SaveFramePNG(emu.Frame(), path, cfg.Snapshot.Scale); err != nil {
				slog.Error("Failed to save PNG snapshot", "frame", n, "error", err)
			}
		}

		limiter.WaitForNextFrame()
	}

	return nil
}

// newController builds the pause controller for the operator mode, wrapped
// by the breakpoint script when one is configured.
func newController(cfg config.Debug, emu *jeebie.DMG) (debug.Controller, func(), error) {
	var (
		controller debug.Controller
		closers    []func()
	)
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	switch cfg.Operator {
	case "prompt":
		controller = debug.NewPrompt(os.Stdin, os.Stdout)
	case "console":
		screen, err := tcell.NewScreen()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create console screen: %w", err)
		}
		if err := screen.Init(); err != nil {
			return nil, nil, fmt.Errorf("failed to initialize console screen: %w", err)
		}
		console := debug.NewConsole(screen, emu.Memory())
		closers = append(closers, console.Close)
		controller = console
	default:
		controller = debug.Nop{}
	}

	if cfg.Breakpoints != "" {
		script, err := debug.NewLuaBreakpoints(cfg.Breakpoints, controller)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		closers = append(closers, script.Close)
		controller = script
	}

	return controller, closeAll, nil
}

// newTracer always logs records, and also writes them as JSON lines when a
// trace file is configured.
func newTracer(path string) (debug.Tracer, func(), error) {
	if path == "" {
		return debug.LogTracer{}, func() {}, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create trace file: %w", err)
	}

	jsonTracer := debug.NewJSONTracer(f)
	closeFn := func() {
		if err := jsonTracer.Flush(); err != nil {
			slog.Error("Failed to write trace", "path", path, "error", err)
		}
		f.Close()
	}

	return debug.Tracers{debug.LogTracer{}, jsonTracer}, closeFn, nil
}

func runHeadless(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelp(c, "headless")
		return errors.New("no ROM path provided")
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	opts := headless.Options{
		Frames:   c.Int("frames"),
		Snapshot: cfg.Snapshot,
	}
	if opts.Frames <= 0 {
		return errors.New("headless mode requires --frames option with a positive value")
	}

	// sessions never pause, whatever the configuration says
	cfg.Debug.StepByStep = false
	cfg.Debug.LineByLine = false
	cfg.Debug.ScreenByScreen = false
	cfg.Debug.BreakOnFlagged = false

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := headless.RunFiles(ctx, c.Args(), c.Int("jobs"), opts, func(emu *jeebie.DMG) {
		emu.Configure(cfg)
	})
	for _, res := range results {
		if res.ROM != "" {
			slog.Info("Session", "rom", res.ROM, "frames", res.Frames, "snapshots", len(res.Snapshots))
		}
	}
	return err
}

func printConfig(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	return cfg.Write(os.Stdout)
}
