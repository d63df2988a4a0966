package jeebie

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/valerio/jeebie/jeebie/config"
	"github.com/valerio/jeebie/jeebie/cpu"
	"github.com/valerio/jeebie/jeebie/debug"
	"github.com/valerio/jeebie/jeebie/memory"
	"github.com/valerio/jeebie/jeebie/video"
)

// DMG is the root struct and entry point for running the emulation. It owns
// the memory image and every component, and wires them to the scheduler.
type DMG struct {
	mem        *memory.Image
	cpu        *cpu.CPU
	interrupts *cpu.InterruptController
	timer      *memory.Timer
	joypad     *memory.Joypad
	dma        *memory.DMA
	ppu        *video.PPU

	scheduler *Scheduler
}

func newDMG(mem *memory.Image) *DMG {
	d := &DMG{
		mem:    mem,
		cpu:    cpu.New(),
		timer:  memory.NewTimer(),
		joypad: memory.NewJoypad(),
		dma:    memory.NewDMA(),
		ppu:    video.New(),
	}
	d.interrupts = cpu.NewInterruptController(d.cpu)

	d.scheduler = NewScheduler(d.mem, Components{
		CPU:        d.cpu,
		Interrupts: d.interrupts,
		Timer:      d.timer,
		Controls:   d.joypad,
		DMA:        d.dma,
		PPU:        d.ppu,
	})

	return d
}

// New creates an emulator with no cartridge loaded.
func New() *DMG {
	return newDMG(memory.New())
}

// NewWithROM creates an emulator with the ROM data loaded.
func NewWithROM(rom []byte) (*DMG, error) {
	mem, err := memory.NewWithROM(rom)
	if err != nil {
		return nil, err
	}
	return newDMG(mem), nil
}

// NewWithFile creates an emulator and loads the file specified into it.
func NewWithFile(path string) (*DMG, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rom: %w", err)
	}

	d, err := NewWithROM(data)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	slog.Info("Loaded ROM", "path", path, "bytes", len(data))
	return d, nil
}

// Scheduler exposes the scheduler to set timing, debug flags, the pause
// controller and the tracer before running.
func (d *DMG) Scheduler() *Scheduler {
	return d.scheduler
}

// Memory returns the memory image.
func (d *DMG) Memory() *memory.Image {
	return d.mem
}

// CPU returns the processor.
func (d *DMG) CPU() *cpu.CPU {
	return d.cpu
}

// Step runs a single instruction outside the frame loop.
func (d *DMG) Step() error {
	return d.scheduler.Step()
}

// RunFrame runs a full frame, V-blank included.
func (d *DMG) RunFrame() error {
	return d.scheduler.RunFrame()
}

// Frame returns the frame buffer the PPU draws into.
func (d *DMG) Frame() *video.FrameBuffer {
	return d.ppu.Frame()
}

func (d *DMG) Press(key memory.JoypadKey) {
	d.joypad.Press(key)
}

func (d *DMG) Release(key memory.JoypadKey) {
	d.joypad.Release(key)
}

// Configure applies the timing and the debug switches of a configuration.
// Controllers and tracers are left to the caller.
func (d *DMG) Configure(cfg config.Config) {
	s := d.scheduler
	s.Timing = Timing{
		ActiveLines: cfg.Timing.ActiveLines,
		BlankLines:  cfg.Timing.BlankLines,
		LineTicks:   cfg.Timing.LineTicks,
		HBlankAfter: cfg.Timing.HBlankAfter,
	}
	s.Flags = debug.Flags{
		StepByStep:     cfg.Debug.StepByStep,
		LineByLine:     cfg.Debug.LineByLine,
		ScreenByScreen: cfg.Debug.ScreenByScreen,
		Log:            cfg.Debug.Log,
		BreakOnFlagged: cfg.Debug.BreakOnFlagged,
	}
}
