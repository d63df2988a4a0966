package jeebie

import (
	"fmt"
	"log/slog"

	"github.com/valerio/jeebie/jeebie/addr"
	"github.com/valerio/jeebie/jeebie/bit"
	"github.com/valerio/jeebie/jeebie/cpu"
	"github.com/valerio/jeebie/jeebie/debug"
	"github.com/valerio/jeebie/jeebie/memory"
)

// Processor executes instructions. Execute runs with PC on the opcode and
// returns the cycles spent on top of the descriptor's cost; the scheduler
// advances PC past the instruction afterwards.
type Processor interface {
	Fetch(opcode uint8) cpu.Descriptor
	Execute(opcode uint8, mem *memory.Image) (int, error)
	PC() uint16
	SetPC(pc uint16)
	IME() bool
	SetIME(enabled bool)
	Registers() cpu.Registers
}

// InterruptController dispatches a pending interrupt before the next fetch
// and returns the cycles the dispatch took.
type InterruptController interface {
	Check(mem *memory.Image) int
}

type Timer interface {
	Update(cycles int, mem *memory.Image)
}

type Controls interface {
	UpdateRAM(mem *memory.Image)
}

// DMA copies OAM data over the cycles elapsed in each step.
type DMA interface {
	Update(cycles int, mem *memory.Image)
}

// LineRenderer composites the line LY points at.
type LineRenderer interface {
	CommitLine(mem *memory.Image)
}

// Mode is the display mode the scheduler reports to STAT evaluation.
type Mode uint8

const (
	HBlank        Mode = 0
	VBlank        Mode = 1
	PixelTransfer Mode = 2
)

func (m Mode) String() string {
	switch m {
	case HBlank:
		return "HBlank"
	case VBlank:
		return "VBlank"
	case PixelTransfer:
		return "PixelTransfer"
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

// Timing holds the frame loop constants, in machine cycles.
type Timing struct {
	ActiveLines int
	BlankLines  int
	LineTicks   int
	// HBlankAfter is the last tick of a line still in pixel transfer.
	HBlankAfter int
}

// DefaultTiming is the DMG frame: 144 visible lines, 10 blank lines, 114
// cycles per line.
func DefaultTiming() Timing {
	return Timing{
		ActiveLines: 144,
		BlankLines:  10,
		LineTicks:   114,
		HBlankAfter: 63,
	}
}

// Components are the collaborators driven by the scheduler.
type Components struct {
	CPU        Processor
	Interrupts InterruptController
	Timer      Timer
	Controls   Controls
	DMA        DMA
	PPU        LineRenderer
}

// Scheduler interleaves instruction execution with the scanline loop. It
// owns the memory image and lends it to one component at a time.
//
// The scheduler itself only writes LY and the V-blank and STAT bits of IF.
type Scheduler struct {
	// Tick counts the cycles of the current line, reset at the start of
	// each line. Cycles counts every cycle since creation. Both wrap.
	Tick   uint64
	Cycles uint64
	Frames uint64

	Mode     Mode
	PrevMode Mode

	Timing     Timing
	Flags      debug.Flags
	Controller debug.Controller
	Tracer     debug.Tracer

	mem       *memory.Image
	parts     Components
	eiPending bool
}

// NewScheduler creates a scheduler with the default timing, no pauses and
// traces going to the logger.
func NewScheduler(mem *memory.Image, parts Components) *Scheduler {
	return &Scheduler{
		Timing:     DefaultTiming(),
		Controller: debug.Nop{},
		Tracer:     debug.LogTracer{},
		mem:        mem,
		parts:      parts,
	}
}

func (s *Scheduler) addTicks(n int) {
	s.Tick += uint64(n)
	s.Cycles += uint64(n)
}

// Step runs one instruction and propagates its cycles to the timer and DMA.
//
// EI takes effect after the instruction that follows it: the step running
// EI arms a pending enable, the next step consumes it and sets IME once its
// own instruction is done.
func (s *Scheduler) Step() error {
	enableIME := s.eiPending
	s.eiPending = false

	s.addTicks(s.parts.Interrupts.Check(s.mem))

	pc := s.parts.CPU.PC()
	desc := s.parts.CPU.Fetch(s.mem.Read(pc))

	if (desc.Flagged && s.Flags.BreakOnFlagged) || s.Flags.StepByStep || s.Controller.ShouldBreak(pc, desc) {
		s.Flags.Log = true
		rec := s.record(desc)
		s.trace(&rec)
		if err := s.await(debug.PointInstruction, &rec); err != nil {
			return err
		}
	} else if s.Flags.Log {
		rec := s.record(desc)
		s.trace(&rec)
	}

	s.addTicks(desc.Ticks)
	s.parts.Timer.Update(desc.Ticks, s.mem)
	s.parts.Controls.UpdateRAM(s.mem)

	extra, err := s.parts.CPU.Execute(desc.Opcode, s.mem)
	if err != nil {
		return err
	}
	s.addTicks(extra)

	delaysIME := desc.DelaysIME

	s.parts.CPU.SetPC(s.parts.CPU.PC() + uint16(desc.Length()))
	s.parts.DMA.Update(desc.Ticks+extra, s.mem)

	if delaysIME {
		s.eiPending = true
	}
	if enableIME {
		s.parts.CPU.SetIME(true)
	}

	return nil
}

// RunFrame runs the active lines, then the blank lines, of one frame.
// LY starts at 0 and ends at the total line count.
func (s *Scheduler) RunFrame() error {
	t := s.Timing
	s.mem.Poke(addr.LY, 0)

	for ri, rn := 0, t.ActiveLines; ri < rn; ri++ {
		if err := s.runLine(true); err != nil {
			return err
		}
	}

	s.mem.RequestInterrupt(addr.VBlankInterrupt)
	s.Mode = VBlank

	for ri, rn := 0, t.BlankLines; ri < rn; ri++ {
		if err := s.runLine(false); err != nil {
			return err
		}
	}

	s.Frames++
	if s.Flags.ScreenByScreen {
		return s.await(debug.PointFrame, nil)
	}
	return nil
}

func (s *Scheduler) runLine(active bool) error {
	lineTicks := uint64(s.Timing.LineTicks)
	hblankAfter := uint64(s.Timing.HBlankAfter)

	s.Tick = 0
	for s.Tick < lineTicks {
		if active {
			if s.Tick > hblankAfter {
				s.Mode = HBlank
			} else {
				s.Mode = PixelTransfer
			}
		}

		if err := s.Step(); err != nil {
			return err
		}
		s.UpdateSTAT(s.mem.Peek(addr.LY))

		if s.Flags.StepByStep {
			if err := s.await(debug.PointStep, nil); err != nil {
				return err
			}
		}
	}

	if active {
		s.parts.PPU.CommitLine(s.mem)
	}
	if s.Flags.LineByLine {
		if err := s.await(debug.PointLine, nil); err != nil {
			return err
		}
	}

	s.mem.Poke(addr.LY, s.mem.Peek(addr.LY)+1)
	return nil
}

// UpdateSTAT raises the STAT interrupt for the enabled sources matching the
// current line and mode. The sources are checked in a fixed order and share
// PrevMode for edge detection: the coincidence source only fires when the
// previous mode was H-blank, and every source that fires overwrites
// PrevMode for the ones after it.
func (s *Scheduler) UpdateSTAT(line uint8) {
	stat := s.mem.Peek(addr.STAT)

	if bit.IsSet(addr.STATLYCEnable, stat) && line == s.mem.Peek(addr.LYC) && s.PrevMode == HBlank {
		s.raiseSTAT("LY=LYC", line)
	}
	if bit.IsSet(addr.STATHBlankEnable, stat) && s.Mode == HBlank && s.Mode != s.PrevMode {
		s.raiseSTAT("HBlank", line)
	}
	if bit.IsSet(addr.STATVBlankEnable, stat) && s.Mode == VBlank && s.Mode != s.PrevMode {
		s.raiseSTAT("VBlank", line)
	}
	if bit.IsSet(addr.STATOAMEnable, stat) && s.Mode == PixelTransfer && s.Mode != s.PrevMode {
		s.raiseSTAT("PixelTransfer", line)
	}
}

func (s *Scheduler) raiseSTAT(source string, line uint8) {
	s.mem.RequestInterrupt(addr.LCDSTATInterrupt)
	s.PrevMode = s.Mode
	if s.Flags.Log {
		slog.Debug("STAT interrupt", "source", source, "line", line, "mode", s.Mode)
	}
}

func (s *Scheduler) await(point debug.Point, rec *debug.Record) error {
	return s.Controller.Await(debug.Pause{Point: point, Record: rec, Flags: &s.Flags})
}

func (s *Scheduler) trace(rec *debug.Record) {
	if s.Tracer != nil {
		s.Tracer.Trace(rec)
	}
}

// counter is implemented by timers exposing their internal counter.
type counter interface {
	Counter() uint16
}

func (s *Scheduler) record(desc cpu.Descriptor) debug.Record {
	rec := debug.NewRecord(s.mem, s.parts.CPU.Registers(), desc)
	rec.Tick = s.Tick
	rec.Mode = s.Mode.String()
	rec.Line = s.mem.Peek(addr.LY)

	if c, ok := s.parts.Timer.(counter); ok {
		rec.Counter = c.Counter()
	}
	if b, ok := s.parts.Controls.(fmt.Stringer); ok {
		rec.Buttons = b.String()
	}

	return rec
}
