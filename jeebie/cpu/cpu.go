package cpu

import (
	"errors"
	"fmt"

	"github.com/valerio/jeebie/jeebie/bit"
	"github.com/valerio/jeebie/jeebie/memory"
)

// Flag is one of the 4 possible flags used in the flag register (high part of AF)
type Flag uint8

const (
	zeroFlag      Flag = 0x80
	subFlag       Flag = 0x40
	halfCarryFlag Flag = 0x20
	carryFlag     Flag = 0x10
)

const (
	baseInterruptAddress uint16 = 0x40
)

// ErrIllegalOpcode is wrapped by every Fault.
var ErrIllegalOpcode = errors.New("illegal opcode")

// Fault reports an opcode the DMG does not implement. It is not recoverable:
// the session that hits it must stop.
type Fault struct {
	PC    uint16
	Bytes [3]byte
}

func (f *Fault) Error() string {
	return fmt.Sprintf("illegal opcode 0x%02X at 0x%04X (bytes %02X %02X %02X)",
		f.Bytes[0], f.PC, f.Bytes[0], f.Bytes[1], f.Bytes[2])
}

func (f *Fault) Unwrap() error {
	return ErrIllegalOpcode
}

// CPU holds the SM83 register file.
//
// The CPU does not own the instruction stream: the caller fetches the opcode
// at PC, calls Execute with PC still pointing at it and then moves PC past
// the instruction. Control transfers compensate by leaving PC at
// target - length.
type CPU struct {
	// registers
	a  uint8
	f  uint8
	b  uint8
	c  uint8
	d  uint8
	e  uint8
	h  uint8
	l  uint8
	sp uint16
	pc uint16

	// metadata
	interruptsEnabled bool
	halted            bool
}

// Registers is a copy of the register file, used for traces and reports.
type Registers struct {
	A, F, B, C, D, E, H, L uint8
	SP, PC                 uint16
	IME                    bool
	Halted                 bool
}

// Zero reports the Z flag.
func (r Registers) Zero() bool { return r.F&uint8(zeroFlag) != 0 }

// Sub reports the N flag.
func (r Registers) Sub() bool { return r.F&uint8(subFlag) != 0 }

// HalfCarry reports the H flag.
func (r Registers) HalfCarry() bool { return r.F&uint8(halfCarryFlag) != 0 }

// Carry reports the C flag.
func (r Registers) Carry() bool { return r.F&uint8(carryFlag) != 0 }

// FlagString returns a human-readable representation of the flag register
func (r Registers) FlagString() string {
	flags := []byte("----")
	if r.Zero() {
		flags[0] = 'Z'
	}
	if r.Sub() {
		flags[1] = 'N'
	}
	if r.HalfCarry() {
		flags[2] = 'H'
	}
	if r.Carry() {
		flags[3] = 'C'
	}
	return string(flags)
}

// New returns a CPU in the state the boot ROM leaves it in.
func New() *CPU {
	cpu := &CPU{}
	cpu.setAF(0x01B0)
	cpu.setBC(0x0013)
	cpu.setDE(0x00D8)
	cpu.setHL(0x014D)
	cpu.sp = 0xFFFE
	cpu.pc = 0x0100
	return cpu
}

// Fetch returns the descriptor for the opcode read at PC.
func (c *CPU) Fetch(opcode uint8) Descriptor {
	return Decode(opcode)
}

// Execute runs the instruction with the given opcode. PC must point at the
// opcode. It returns the machine cycles spent on top of the descriptor's
// base cost (taken branches, CB operations on (HL)).
func (c *CPU) Execute(opcode uint8, mem *memory.Image) (int, error) {
	instruction := opcodes[opcode]
	if instruction == nil {
		return 0, &Fault{
			PC:    c.pc,
			Bytes: [3]byte{opcode, mem.Read(c.pc + 1), mem.Read(c.pc + 2)},
		}
	}
	return instruction(c, mem), nil
}

func (c *CPU) PC() uint16      { return c.pc }
func (c *CPU) SetPC(pc uint16) { c.pc = pc }
func (c *CPU) IME() bool       { return c.interruptsEnabled }
func (c *CPU) SetIME(on bool)  { c.interruptsEnabled = on }
func (c *CPU) Halted() bool    { return c.halted }

// Registers returns a copy of the register file.
func (c *CPU) Registers() Registers {
	return Registers{
		A: c.a, F: c.f, B: c.b, C: c.c, D: c.d, E: c.e, H: c.h, L: c.l,
		SP: c.sp, PC: c.pc,
		IME:    c.interruptsEnabled,
		Halted: c.halted,
	}
}

// SetRegisters overwrites the register file. The low nibble of F is always
// kept at zero.
func (c *CPU) SetRegisters(r Registers) {
	c.a, c.b, c.c, c.d, c.e, c.h, c.l = r.A, r.B, r.C, r.D, r.E, r.H, r.L
	c.f = r.F & 0xF0
	c.sp, c.pc = r.SP, r.PC
	c.interruptsEnabled = r.IME
	c.halted = r.Halted
}

// peekImmediate returns the byte following the opcode.
// this value is known as immediate ('n' in mnemonics), some opcodes use it as a parameter
func (c *CPU) peekImmediate(mem *memory.Image) uint8 {
	return mem.Read(c.pc + 1)
}

// peekImmediateWord returns the two bytes following the opcode as a little endian word.
func (c *CPU) peekImmediateWord(mem *memory.Image) uint16 {
	low := mem.Read(c.pc + 1)
	high := mem.Read(c.pc + 2)
	return bit.Combine(high, low)
}

// peekSignedImmediate returns the byte following the opcode as a signed offset.
func (c *CPU) peekSignedImmediate(mem *memory.Image) int8 {
	return int8(c.peekImmediate(mem))
}

// jump leaves PC so that advancing it by the instruction length lands on target.
func (c *CPU) jump(target uint16, length uint16) {
	c.pc = target - length
}

func (c *CPU) setFlag(flag Flag) {
	c.f |= uint8(flag)
}

func (c *CPU) resetFlag(flag Flag) {
	c.f &= uint8(flag ^ 0xFF)
}

func (c *CPU) isSetFlag(flag Flag) bool {
	return c.f&uint8(flag) != 0
}

// flagToBit will return 1 if the passed flag is set, 0 otherwise
func (c *CPU) flagToBit(flag Flag) uint8 {
	if c.isSetFlag(flag) {
		return 1
	}

	return 0
}

func (c *CPU) setFlagToCondition(flag Flag, condition bool) {
	if !condition {
		c.resetFlag(flag)
		return
	}

	c.setFlag(flag)
}

func (c *CPU) setBC(value uint16) {
	c.b = bit.High(value)
	c.c = bit.Low(value)
}

func (c *CPU) getBC() uint16 {
	return bit.Combine(c.b, c.c)
}

func (c *CPU) setDE(value uint16) {
	c.d = bit.High(value)
	c.e = bit.Low(value)
}

func (c *CPU) getDE() uint16 {
	return bit.Combine(c.d, c.e)
}

func (c *CPU) setHL(value uint16) {
	c.h = bit.High(value)
	c.l = bit.Low(value)
}

func (c *CPU) getHL() uint16 {
	return bit.Combine(c.h, c.l)
}

func (c *CPU) setAF(value uint16) {
	c.a = bit.High(value)
	// F register lower 4 bits must be 0
	c.f = bit.Low(value) & 0xF0
}

func (c *CPU) getAF() uint16 {
	return bit.Combine(c.a, c.f)
}

// reg returns the 8 bit operand encoded by index, in opcode order:
// B, C, D, E, H, L, (HL), A.
func (c *CPU) reg(index uint8, mem *memory.Image) uint8 {
	switch index & 0x07 {
	case 0:
		return c.b
	case 1:
		return c.c
	case 2:
		return c.d
	case 3:
		return c.e
	case 4:
		return c.h
	case 5:
		return c.l
	case 6:
		return mem.Read(c.getHL())
	}
	return c.a
}

func (c *CPU) setReg(index uint8, value uint8, mem *memory.Image) {
	switch index & 0x07 {
	case 0:
		c.b = value
	case 1:
		c.c = value
	case 2:
		c.d = value
	case 3:
		c.e = value
	case 4:
		c.h = value
	case 5:
		c.l = value
	case 6:
		mem.Write(c.getHL(), value)
	default:
		c.a = value
	}
}

// pair returns the 16 bit register encoded by index: BC, DE, HL, SP.
func (c *CPU) pair(index uint8) uint16 {
	switch index & 0x03 {
	case 0:
		return c.getBC()
	case 1:
		return c.getDE()
	case 2:
		return c.getHL()
	}
	return c.sp
}

func (c *CPU) setPair(index uint8, value uint16) {
	switch index & 0x03 {
	case 0:
		c.setBC(value)
	case 1:
		c.setDE(value)
	case 2:
		c.setHL(value)
	default:
		c.sp = value
	}
}

// condition evaluates the branch condition encoded by index: NZ, Z, NC, C.
func (c *CPU) condition(index uint8) bool {
	switch index & 0x03 {
	case 0:
		return !c.isSetFlag(zeroFlag)
	case 1:
		return c.isSetFlag(zeroFlag)
	case 2:
		return !c.isSetFlag(carryFlag)
	}
	return c.isSetFlag(carryFlag)
}
