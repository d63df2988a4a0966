package debug

import (
	"bufio"
	"bytes"
	"errors"
	"testing"

	"github.com/go-faster/jx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingTracer struct{ n int }

func (c *countingTracer) Trace(*Record) { c.n++ }

type failingWriter struct{ err error }

func (f failingWriter) Write([]byte) (int, error) { return 0, f.err }

func TestJSONTracer(t *testing.T) {
	rec := testRecord(t)
	rec.Tick = 7

	var buf bytes.Buffer
	tracer := NewJSONTracer(&buf)
	tracer.Trace(&rec)
	rec.Tick = 8
	tracer.Trace(&rec)
	require.NoError(t, tracer.Flush())

	var lines [][]byte
	scanner := bufio.NewScanner(&buf)
	for scanner.Scan() {
		lines = append(lines, append([]byte(nil), scanner.Bytes()...))
	}
	require.Len(t, lines, 2)

	var (
		tick uint64
		pc   int
		op   string
		raw  []int
		ime  bool
	)
	err := jx.DecodeBytes(lines[1]).Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "tick":
			tick, err = d.UInt64()
		case "pc":
			pc, err = d.Int()
		case "op":
			op, err = d.Str()
		case "ime":
			ime, err = d.Bool()
		case "bytes":
			err = d.Arr(func(d *jx.Decoder) error {
				b, err := d.Int()
				raw = append(raw, b)
				return err
			})
		default:
			err = d.Skip()
		}
		return err
	})
	require.NoError(t, err)

	assert.Equal(t, uint64(8), tick)
	assert.Equal(t, 0xC000, pc)
	assert.Equal(t, "BIT 7,H", op)
	assert.Equal(t, []int{0xCB, 0x7C, 0x00}, raw)
	assert.False(t, ime)
}

func TestJSONTracerWriteError(t *testing.T) {
	boom := errors.New("disk full")
	tracer := NewJSONTracer(failingWriter{err: boom})
	rec := testRecord(t)

	tracer.Trace(&rec)

	assert.ErrorIs(t, tracer.Flush(), boom)
}

func TestTracers(t *testing.T) {
	a, b := &countingTracer{}, &countingTracer{}
	rec := testRecord(t)

	Tracers{a, b}.Trace(&rec)
	Tracers{a}.Trace(&rec)

	assert.Equal(t, 2, a.n)
	assert.Equal(t, 1, b.n)
}
