// Package headless runs emulation sessions without any display, for
// automated testing and batch processing.
package headless

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/valerio/jeebie/jeebie"
	"github.com/valerio/jeebie/jeebie/config"
	"github.com/valerio/jeebie/jeebie/debug"
)

// Options configure a headless session.
type Options struct {
	// Frames to run, must be positive.
	Frames int
	// Snapshot saves a PNG every Snapshot.Every frames, and after the last
	// frame. Every = 0 disables snapshots.
	Snapshot config.Snapshot
}

// Result describes a finished session.
type Result struct {
	ROM       string
	Frames    int
	Snapshots []string
}

// Run drives emu for opts.Frames frames. name prefixes snapshot files.
func Run(ctx context.Context, emu jeebie.Emulator, name string, opts Options) (Result, error) {
	res := Result{ROM: name}
	if opts.Frames <= 0 {
		return res, fmt.Errorf("headless mode requires a positive frame count, got %d", opts.Frames)
	}

	every := opts.Snapshot.Every
	if every > 0 {
		if err := os.MkdirAll(opts.Snapshot.Dir, 0o755); err != nil {
			return res, fmt.Errorf("failed to create snapshot directory: %w", err)
		}
	}

	for res.Frames < opts.Frames {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := emu.RunFrame(); err != nil {
			return res, fmt.Errorf("%s: frame %d: %w", name, res.Frames+1, err)
		}
		res.Frames++

		last := res.Frames == opts.Frames
		if every > 0 && (res.Frames%every == 0 || last) {
			path := filepath.Join(opts.Snapshot.Dir, fmt.Sprintf("%s_frame_%d.png", name, res.Frames))
			if err := debug.SaveFramePNG(emu.Frame(), path, opts.Snapshot.Scale); err != nil {
				return res, fmt.Errorf("%s: snapshot: %w", name, err)
			}
			res.Snapshots = append(res.Snapshots, path)
		}

		if res.Frames%10 == 0 {
			slog.Debug("Frame progress", "rom", name, "completed", res.Frames, "total", opts.Frames)
		}
	}

	slog.Info("Headless execution completed", "rom", name, "frames", res.Frames, "snapshots", len(res.Snapshots))
	return res, nil
}

// RunFiles runs one session per ROM file, at most jobs at a time (jobs <= 0
// uses one per CPU). Sessions share nothing; the first failure cancels the
// others. setup, if not nil, configures each emulator before it runs.
// Results are in the order of paths.
func RunFiles(ctx context.Context, paths []string, jobs int, opts Options, setup func(*jeebie.DMG)) ([]Result, error) {
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	results := make([]Result, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			emu, err := jeebie.NewWithFile(path)
			if err != nil {
				return err
			}
			if setup != nil {
				setup(emu)
			}

			res, err := Run(ctx, emu, ROMName(path), opts)
			results[i] = res
			return err
		})
	}

	return results, g.Wait()
}

// ROMName is the file name of a ROM without directory and extension.
func ROMName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
