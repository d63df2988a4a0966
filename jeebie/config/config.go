package config

import (
	"errors"
	"fmt"
	"io"

	"github.com/BurntSushi/toml"

	"github.com/valerio/jeebie/jeebie/display"
)

// Config is the session configuration, stored as TOML. Command line flags
// override the values loaded from a file.
type Config struct {
	Timing   Timing   `toml:"timing"`
	Debug    Debug    `toml:"debug"`
	Speed    Speed    `toml:"speed"`
	Snapshot Snapshot `toml:"snapshot"`
}

// Timing holds the scanline loop constants, in machine cycles.
type Timing struct {
	ActiveLines int `toml:"active_lines"`
	BlankLines  int `toml:"blank_lines"`
	LineTicks   int `toml:"line_ticks"`
	HBlankAfter int `toml:"hblank_after"`
}

type Debug struct {
	StepByStep     bool   `toml:"step"`
	LineByLine     bool   `toml:"line"`
	ScreenByScreen bool   `toml:"frame"`
	Log            bool   `toml:"log"`
	BreakOnFlagged bool   `toml:"break_on_flagged"`
	Operator       string `toml:"operator"`    // none, prompt or console
	Breakpoints    string `toml:"breakpoints"` // lua script
	Trace          string `toml:"trace"`       // JSON lines output
}

type Speed struct {
	Limiter    string  `toml:"limiter"`
	Multiplier float64 `toml:"multiplier"`
}

type Snapshot struct {
	Dir   string `toml:"dir"`
	Every int    `toml:"every"` // frames between snapshots, 0 disables
	Scale int    `toml:"scale"`
}

var (
	ErrUnknownKeys = errors.New("unknown configuration keys")
	ErrInvalid     = errors.New("invalid configuration")
)

// Default returns the DMG configuration.
func Default() Config {
	return Config{
		Timing: Timing{
			ActiveLines: 144,
			BlankLines:  10,
			LineTicks:   114,
			HBlankAfter: 63,
		},
		Debug: Debug{
			Operator: "none",
		},
		Speed: Speed{
			Limiter:    "adaptive",
			Multiplier: 1,
		},
		Snapshot: Snapshot{
			Dir:   ".",
			Scale: display.DefaultPixelScale,
		},
	}
}

// Load reads a configuration file. Keys missing from the file keep their
// default value, unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%w in %s: %v", ErrUnknownKeys, path, undecoded)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

// Write encodes the configuration as TOML.
func (c Config) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Validate checks the values a session can't run with.
func (c Config) Validate() error {
	t := c.Timing
	switch {
	case t.ActiveLines < 1 || t.ActiveLines > 144:
		return fmt.Errorf("%w: active_lines must be in 1-144, got %d", ErrInvalid, t.ActiveLines)
	case t.BlankLines < 0:
		return fmt.Errorf("%w: blank_lines must not be negative, got %d", ErrInvalid, t.BlankLines)
	case t.ActiveLines+t.BlankLines > 256:
		return fmt.Errorf("%w: a frame can't have more than 256 lines", ErrInvalid)
	case t.LineTicks < 1:
		return fmt.Errorf("%w: line_ticks must be positive, got %d", ErrInvalid, t.LineTicks)
	case t.HBlankAfter < 0 || t.HBlankAfter >= t.LineTicks:
		return fmt.Errorf("%w: hblank_after must be in 0-%d, got %d", ErrInvalid, t.LineTicks-1, t.HBlankAfter)
	case c.Speed.Multiplier <= 0:
		return fmt.Errorf("%w: speed multiplier must be positive, got %v", ErrInvalid, c.Speed.Multiplier)
	case c.Snapshot.Every < 0:
		return fmt.Errorf("%w: snapshot every must not be negative", ErrInvalid)
	case c.Snapshot.Scale < 1:
		return fmt.Errorf("%w: snapshot scale must be at least 1", ErrInvalid)
	}

	switch c.Debug.Operator {
	case "none", "prompt", "console":
	default:
		return fmt.Errorf("%w: unknown operator %q", ErrInvalid, c.Debug.Operator)
	}

	return nil
}
