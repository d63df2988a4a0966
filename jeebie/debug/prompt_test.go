package debug

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrompt(t *testing.T) {
	t.Run("waits for a line per pause", func(t *testing.T) {
		var out bytes.Buffer
		p := NewPrompt(strings.NewReader("\nanything\n"), &out)

		assert.NoError(t, p.Await(Pause{Point: PointLine}))
		assert.NoError(t, p.Await(Pause{Point: PointFrame}))

		assert.False(t, p.Disabled())
		assert.Equal(t, "[line] Press Enter to continue...\n[frame] Press Enter to continue...\n", out.String())
	})

	t.Run("prints the report when logging", func(t *testing.T) {
		var out bytes.Buffer
		p := NewPrompt(strings.NewReader("\n"), &out)
		rec := testRecord(t)

		assert.NoError(t, p.Await(Pause{Point: PointInstruction, Record: &rec, Flags: &Flags{Log: true}}))

		assert.Contains(t, out.String(), "OPERATION")
		assert.Contains(t, out.String(), "[instruction] Press Enter to continue...")
	})

	t.Run("no report without logging", func(t *testing.T) {
		var out bytes.Buffer
		p := NewPrompt(strings.NewReader("\n"), &out)
		rec := testRecord(t)

		assert.NoError(t, p.Await(Pause{Point: PointInstruction, Record: &rec, Flags: &Flags{}}))

		assert.NotContains(t, out.String(), "OPERATION")
	})

	t.Run("EOF stops pausing", func(t *testing.T) {
		var out bytes.Buffer
		p := NewPrompt(strings.NewReader(""), &out)

		assert.NoError(t, p.Await(Pause{Point: PointStep}))
		assert.True(t, p.Disabled())

		out.Reset()
		assert.NoError(t, p.Await(Pause{Point: PointStep}))
		assert.Empty(t, out.String())
	})

	t.Run("breakpoints", func(t *testing.T) {
		p := NewPrompt(strings.NewReader(""), &bytes.Buffer{})
		p.Breakpoints.Add(0x150)

		assert.True(t, p.ShouldBreak(0x150, testDescriptor))
		assert.False(t, p.ShouldBreak(0x151, testDescriptor))
	})
}
