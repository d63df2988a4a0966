package debug

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/valerio/jeebie/jeebie/addr"
	"github.com/valerio/jeebie/jeebie/cpu"
	"github.com/valerio/jeebie/jeebie/memory"
)

// Record is the machine state at the trace gate, before the instruction at
// PC executes.
type Record struct {
	Tick uint64
	Mode string
	Line uint8

	PC    uint16
	Bytes [3]byte
	Name  string
	Desc  string

	Registers cpu.Registers

	IE, IF    uint8
	STAT      uint8
	LY, LYC   uint8
	DIV, TIMA uint8
	TMA, TAC  uint8
	Counter   uint16 // internal timer counter

	P1      uint8
	Buttons string
}

// NewRecord captures the registers, the instruction bytes at the CPU's PC
// and the IO registers. The caller fills in the scheduler state.
func NewRecord(mem *memory.Image, regs cpu.Registers, desc cpu.Descriptor) Record {
	rec := Record{
		PC:        regs.PC,
		Name:      desc.Name,
		Desc:      desc.Desc,
		Registers: regs,
		IE:        mem.Peek(addr.IE),
		IF:        mem.Read(addr.IF),
		STAT:      mem.Peek(addr.STAT),
		LY:        mem.Peek(addr.LY),
		LYC:       mem.Peek(addr.LYC),
		DIV:       mem.Peek(addr.DIV),
		TIMA:      mem.Peek(addr.TIMA),
		TMA:       mem.Peek(addr.TMA),
		TAC:       mem.Peek(addr.TAC),
		P1:        mem.Peek(addr.P1),
	}
	copy(rec.Bytes[:], mem.Snapshot(regs.PC, len(rec.Bytes)))

	if desc.Opcode == 0xCB {
		rec.Name = cpu.CBName(rec.Bytes[1])
	}

	return rec
}

// LogValue implements slog.LogValuer.
func (r Record) LogValue() slog.Value {
	regs := r.Registers
	return slog.GroupValue(
		slog.Uint64("tick", r.Tick),
		slog.String("mode", r.Mode),
		slog.Int("line", int(r.Line)),
		slog.String("pc", fmt.Sprintf("0x%04X", r.PC)),
		slog.String("op", r.Name),
		slog.String("bytes", fmt.Sprintf("%02X %02X %02X", r.Bytes[0], r.Bytes[1], r.Bytes[2])),
		slog.String("af", fmt.Sprintf("%02X%02X", regs.A, regs.F)),
		slog.String("bc", fmt.Sprintf("%02X%02X", regs.B, regs.C)),
		slog.String("de", fmt.Sprintf("%02X%02X", regs.D, regs.E)),
		slog.String("hl", fmt.Sprintf("%02X%02X", regs.H, regs.L)),
		slog.String("sp", fmt.Sprintf("0x%04X", regs.SP)),
		slog.Bool("ime", regs.IME),
		slog.String("ie", fmt.Sprintf("0x%02X", r.IE)),
		slog.String("if", fmt.Sprintf("0x%02X", r.IF)),
	)
}

// WriteReport writes the record as a human readable dump.
func WriteReport(w io.Writer, r *Record) error {
	regs := r.Registers
	_, err := fmt.Fprintf(w, `OPERATION
  tick %d  mode %s  line %d
  PC $%04X  %02X %02X %02X  %s (%s)

CPU STATE
  A  $%02X   F  $%02X
  B  $%02X   C  $%02X
  D  $%02X   E  $%02X
  H  $%02X   L  $%02X
  SP $%04X  IME %t  HALT %t

FLAGS STATE
  %s
  IE $%02X  IF $%02X  STAT $%02X  LY %d  LYC %d

TIMER STATE
  DIV $%02X  TIMA $%02X  TMA $%02X  TAC $%02X  counter $%04X

INPUT STATE
  P1 $%02X  pressed [%s]
`,
		r.Tick, r.Mode, r.Line,
		r.PC, r.Bytes[0], r.Bytes[1], r.Bytes[2], r.Name, r.Desc,
		regs.A, regs.F, regs.B, regs.C, regs.D, regs.E, regs.H, regs.L,
		regs.SP, regs.IME, regs.Halted,
		regs.FlagString(),
		r.IE, r.IF, r.STAT, r.LY, r.LYC,
		r.DIV, r.TIMA, r.TMA, r.TAC, r.Counter,
		r.P1, r.Buttons,
	)
	return err
}
