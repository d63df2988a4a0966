package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valerio/jeebie/jeebie/addr"
)

func TestJoypadUpdateRAM(t *testing.T) {
	tests := []struct {
		name     string
		selector uint8
		pressed  []JoypadKey
		expected uint8
	}{
		{"nothing selected", 0x30, []JoypadKey{JoypadA}, 0xFF},
		{"dpad selected", 0x20, []JoypadKey{JoypadUp}, 0xEB},
		{"buttons selected", 0x10, []JoypadKey{JoypadStart, JoypadA}, 0xD6},
		{"both selected", 0x00, []JoypadKey{JoypadRight, JoypadB}, 0xCC},
		{"dpad ignores buttons", 0x20, []JoypadKey{JoypadSelect}, 0xEF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := New()
			j := NewJoypad()
			mem.Write(addr.P1, tt.selector)

			for _, k := range tt.pressed {
				j.Press(k)
			}
			j.UpdateRAM(mem)

			assert.Equal(t, tt.expected, mem.Read(addr.P1))
		})
	}
}

func TestJoypadInterrupt(t *testing.T) {
	mem := New()
	mem.Poke(addr.IF, 0)
	j := NewJoypad()

	j.UpdateRAM(mem)
	assert.False(t, mem.ReadBit(4, addr.IF))

	j.Press(JoypadA)
	j.UpdateRAM(mem)
	assert.True(t, mem.ReadBit(4, addr.IF))

	// holding the key does not fire again
	mem.Poke(addr.IF, 0)
	j.Press(JoypadA)
	j.UpdateRAM(mem)
	assert.False(t, mem.ReadBit(4, addr.IF))

	j.Release(JoypadA)
	j.UpdateRAM(mem)
	assert.False(t, mem.ReadBit(4, addr.IF))
}

func TestJoypadString(t *testing.T) {
	j := NewJoypad()
	assert.Equal(t, "-", j.String())

	j.Press(JoypadUp)
	j.Press(JoypadStart)
	assert.Equal(t, "U ST", j.String())
}
