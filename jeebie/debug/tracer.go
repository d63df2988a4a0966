package debug

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"

	"github.com/go-faster/jx"
)

// Tracer receives a record for every traced instruction.
type Tracer interface {
	Trace(r *Record)
}

// LogTracer writes records to the default logger at debug level.
type LogTracer struct{}

func (LogTracer) Trace(r *Record) {
	slog.Debug("trace", "state", *r)
}

// Tracers fans a record out to several tracers.
type Tracers []Tracer

func (t Tracers) Trace(r *Record) {
	for _, tracer := range t {
		tracer.Trace(r)
	}
}

// JSONTracer writes one JSON object per record. Write errors stop the
// tracer, the first one is kept and reported by Flush.
type JSONTracer struct {
	w   *bufio.Writer
	enc jx.Encoder
	err error
}

func NewJSONTracer(w io.Writer) *JSONTracer {
	return &JSONTracer{w: bufio.NewWriter(w)}
}

func (t *JSONTracer) Trace(r *Record) {
	if t.err != nil {
		return
	}

	t.enc.Reset()
	encodeRecord(&t.enc, r)

	_, err := t.w.Write(t.enc.Bytes())
	if err == nil {
		err = t.w.WriteByte('\n')
	}
	if err != nil {
		t.err = fmt.Errorf("failed to write trace: %w", err)
		slog.Error("Trace disabled", "error", err)
	}
}

// Flush writes buffered records and returns the first write error.
func (t *JSONTracer) Flush() error {
	if t.err != nil {
		return t.err
	}
	return t.w.Flush()
}

func encodeRecord(e *jx.Encoder, r *Record) {
	regs := r.Registers
	u8 := func(name string, v uint8) {
		e.Field(name, func(e *jx.Encoder) { e.Int(int(v)) })
	}

	e.Obj(func(e *jx.Encoder) {
		e.Field("tick", func(e *jx.Encoder) { e.UInt64(r.Tick) })
		e.Field("mode", func(e *jx.Encoder) { e.Str(r.Mode) })
		u8("line", r.Line)
		e.Field("pc", func(e *jx.Encoder) { e.Int(int(r.PC)) })
		e.Field("bytes", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, b := range r.Bytes {
					e.Int(int(b))
				}
			})
		})
		e.Field("op", func(e *jx.Encoder) { e.Str(r.Name) })
		u8("a", regs.A)
		u8("f", regs.F)
		u8("b", regs.B)
		u8("c", regs.C)
		u8("d", regs.D)
		u8("e", regs.E)
		u8("h", regs.H)
		u8("l", regs.L)
		e.Field("sp", func(e *jx.Encoder) { e.Int(int(regs.SP)) })
		e.Field("ime", func(e *jx.Encoder) { e.Bool(regs.IME) })
		u8("ie", r.IE)
		u8("if", r.IF)
		u8("stat", r.STAT)
		u8("ly", r.LY)
		u8("div", r.DIV)
		u8("tima", r.TIMA)
	})
}
