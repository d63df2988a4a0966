package disasm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bytesReader map[uint16]byte

func (b bytesReader) Peek(address uint16) byte { return b[address] }

func program(at uint16, bytes ...byte) bytesReader {
	r := bytesReader{}
	for i, b := range bytes {
		r[at+uint16(i)] = b
	}
	return r
}

func TestDisassembleAt(t *testing.T) {
	tests := []struct {
		name   string
		bytes  []byte
		want   string
		length int
	}{
		{"no operands", []byte{0x00}, "NOP", 1},
		{"d8", []byte{0x3E, 0x42}, "LD A,$42", 2},
		{"d16", []byte{0x21, 0x34, 0x12}, "LD HL,$1234", 3},
		{"a16", []byte{0xCD, 0x00, 0x40}, "CALL $4000", 3},
		{"LDH", []byte{0xE0, 0x44}, "LDH ($FF44),A", 2},
		{"JR forward", []byte{0x18, 0x05}, "JR $0107", 2},
		{"JR backward", []byte{0x20, 0xFE}, "JR NZ,$0100", 2},
		{"SP offset", []byte{0xF8, 0xFF}, "LD HL,SP-1", 2},
		{"ADD SP", []byte{0xE8, 0x08}, "ADD SP,+8", 2},
		{"CB prefix", []byte{0xCB, 0x7C}, "BIT 7,H", 2},
		{"illegal", []byte{0xDD}, "DB $DD", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := DisassembleAt(0x100, program(0x100, tt.bytes...))

			assert.Equal(t, tt.want, line.Instruction)
			assert.Equal(t, tt.length, line.Length)
			assert.Equal(t, tt.bytes[:tt.length], line.Bytes)
		})
	}
}

func TestDisassemble(t *testing.T) {
	r := program(0x150,
		0xF3,             // DI
		0x31, 0xFE, 0xFF, // LD SP,$FFFE
		0xC3, 0x50, 0x01, // JP $0150
	)

	lines := Disassemble(0x150, 3, r)
	require.Len(t, lines, 3)

	assert.Equal(t, uint16(0x150), lines[0].Address)
	assert.Equal(t, "DI", lines[0].Instruction)
	assert.Equal(t, uint16(0x151), lines[1].Address)
	assert.Equal(t, "LD SP,$FFFE", lines[1].Instruction)
	assert.Equal(t, uint16(0x154), lines[2].Address)
	assert.Equal(t, "JP $0150", lines[2].Instruction)
	assert.Equal(t, "$0154: C3 50 01  JP $0150", lines[2].String())
}

func TestDisassembleEndOfMemory(t *testing.T) {
	r := program(0xFFFE, 0x00, 0x21)

	lines := Disassemble(0xFFFE, 5, r)

	require.Len(t, lines, 2)
	assert.Equal(t, "LD HL,$0000", lines[1].Instruction)
	assert.Equal(t, []byte{0x21, 0x00, 0x00}, lines[1].Bytes)
}
