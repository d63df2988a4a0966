package disasm

import (
	"fmt"
	"strings"

	"github.com/valerio/jeebie/jeebie/bit"
	"github.com/valerio/jeebie/jeebie/cpu"
)

// Reader is the raw byte access the disassembler needs.
type Reader interface {
	Peek(address uint16) byte
}

// Line is a single disassembled instruction.
type Line struct {
	Address     uint16
	Bytes       []byte
	Instruction string
	Length      int
}

// String formats the line as "$ADDR: BYTES  INSTRUCTION".
func (l Line) String() string {
	hex := make([]string, len(l.Bytes))
	for i, b := range l.Bytes {
		hex[i] = fmt.Sprintf("%02X", b)
	}
	return fmt.Sprintf("$%04X: %-8s  %s", l.Address, strings.Join(hex, " "), l.Instruction)
}

// DisassembleAt disassembles the instruction at the given program counter.
// Operand bytes past the end of the address space read as zero.
func DisassembleAt(pc uint16, r Reader) Line {
	desc := cpu.Decode(r.Peek(pc))
	length := desc.Length()

	raw := make([]byte, length)
	for i := range raw {
		if int(pc)+i <= 0xFFFF {
			raw[i] = r.Peek(pc + uint16(i))
		}
	}

	return Line{
		Address:     pc,
		Bytes:       raw,
		Instruction: format(pc, desc, raw),
		Length:      length,
	}
}

// Disassemble disassembles n consecutive instructions starting at pc,
// stopping early at the end of the address space.
func Disassemble(pc uint16, n int, r Reader) []Line {
	lines := make([]Line, 0, n)
	addr := int(pc)

	for ri, rn := 0, n; ri < rn; ri++ {
		if addr > 0xFFFF {
			break
		}
		line := DisassembleAt(uint16(addr), r)
		lines = append(lines, line)
		addr += line.Length
	}

	return lines
}

func format(pc uint16, desc cpu.Descriptor, raw []byte) string {
	name := desc.Name

	switch {
	case desc.Opcode == 0xCB:
		return cpu.CBName(raw[1])
	case desc.Illegal():
		return fmt.Sprintf("DB $%02X", desc.Opcode)
	case desc.Operands == 2:
		nn := bit.Combine(raw[2], raw[1])
		name = strings.Replace(name, "d16", fmt.Sprintf("$%04X", nn), 1)
		return strings.Replace(name, "a16", fmt.Sprintf("$%04X", nn), 1)
	case desc.Operands == 1 && strings.Contains(name, "r8"):
		offset := int8(raw[1])
		if strings.HasPrefix(name, "JR") {
			target := uint16(int(pc) + desc.Length() + int(offset))
			return strings.Replace(name, "r8", fmt.Sprintf("$%04X", target), 1)
		}
		name = strings.Replace(name, "+r8", fmt.Sprintf("%+d", offset), 1)
		return strings.Replace(name, "r8", fmt.Sprintf("%+d", offset), 1)
	case desc.Operands == 1:
		n := raw[1]
		if strings.HasPrefix(name, "LDH") {
			return strings.Replace(name, "a8", fmt.Sprintf("$FF%02X", n), 1)
		}
		name = strings.Replace(name, "d8", fmt.Sprintf("$%02X", n), 1)
		return strings.Replace(name, "a8", fmt.Sprintf("$%02X", n), 1)
	}

	return name
}
