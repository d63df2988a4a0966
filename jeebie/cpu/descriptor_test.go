package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		opcode   uint8
		name     string
		operands uint8
		ticks    int
		flagged  bool
	}{
		{0x00, "NOP", 0, 1, false},
		{0x01, "LD BC,d16", 2, 3, false},
		{0x08, "LD (a16),SP", 2, 5, true},
		{0x10, "STOP d8", 1, 1, true},
		{0x20, "JR NZ,r8", 1, 2, false},
		{0x27, "DAA", 0, 1, true},
		{0x34, "INC (HL)", 0, 3, false},
		{0x76, "HALT", 0, 1, false},
		{0x7E, "LD A,(HL)", 0, 2, false},
		{0xC4, "CALL NZ,a16", 2, 3, false},
		{0xCB, "PREFIX CB", 1, 2, false},
		{0xCD, "CALL a16", 2, 6, false},
		{0xE0, "LDH (a8),A", 1, 3, false},
		{0xE8, "ADD SP,r8", 1, 4, true},
		{0xF8, "LD HL,SP+r8", 1, 3, true},
		{0xFF, "RST 38H", 0, 4, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decode(tt.opcode)
			assert.Equal(t, tt.opcode, d.Opcode)
			assert.Equal(t, tt.name, d.Name)
			assert.Equal(t, tt.operands, d.Operands)
			assert.Equal(t, tt.ticks, d.Ticks)
			assert.Equal(t, tt.flagged, d.Flagged)
			assert.Equal(t, 1+int(tt.operands), d.Length())
			assert.False(t, d.DelaysIME)
		})
	}
}

func TestDecodeGroups(t *testing.T) {
	assert.Equal(t, "load", Decode(0x41).Desc)
	assert.Equal(t, "arithmetic", Decode(0x80).Desc)
	assert.Equal(t, "restart", Decode(0xC7).Desc)
	assert.Equal(t, "illegal opcode", Decode(0xDD).Desc)
	assert.Equal(t, "BIT 7,(HL)", CBName(0x7E))
}

func TestOnlyEIDelaysIME(t *testing.T) {
	for i := 0; i < 256; i++ {
		d := Decode(uint8(i))
		assert.Equal(t, i == 0xFB, d.DelaysIME, "0x%02X", i)
	}
}
