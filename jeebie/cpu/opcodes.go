package cpu

import (
	"github.com/valerio/jeebie/jeebie/bit"
	"github.com/valerio/jeebie/jeebie/memory"
)

// Opcode executes one instruction and returns the extra machine cycles it
// took on top of its descriptor cost.
type Opcode func(*CPU, *memory.Image) int

// opcodes is nil for the illegal opcodes.
var opcodes [256]Opcode

func init() {
	for i := range opcodes {
		op := uint8(i)
		y := (op >> 3) & 0x07
		z := op & 0x07
		p := (op >> 4) & 0x03

		switch {
		case illegal[op]:
			continue

		// 0x00-0x3F regular columns
		case op < 0x40 && op&0x0F == 0x01:
			opcodes[i] = func(c *CPU, mem *memory.Image) int {
				c.setPair(p, c.peekImmediateWord(mem))
				return 0
			}
		case op < 0x40 && op&0x0F == 0x03:
			opcodes[i] = func(c *CPU, _ *memory.Image) int {
				c.setPair(p, c.pair(p)+1)
				return 0
			}
		case op < 0x40 && op&0x0F == 0x09:
			opcodes[i] = func(c *CPU, _ *memory.Image) int {
				c.addToHL(c.pair(p))
				return 0
			}
		case op < 0x40 && op&0x0F == 0x0B:
			opcodes[i] = func(c *CPU, _ *memory.Image) int {
				c.setPair(p, c.pair(p)-1)
				return 0
			}
		case op < 0x40 && z == 4:
			opcodes[i] = func(c *CPU, mem *memory.Image) int {
				c.setReg(y, c.inc(c.reg(y, mem)), mem)
				return 0
			}
		case op < 0x40 && z == 5:
			opcodes[i] = func(c *CPU, mem *memory.Image) int {
				c.setReg(y, c.dec(c.reg(y, mem)), mem)
				return 0
			}
		case op < 0x40 && z == 6:
			opcodes[i] = func(c *CPU, mem *memory.Image) int {
				c.setReg(y, c.peekImmediate(mem), mem)
				return 0
			}

		// LD r,r'
		case op >= 0x40 && op < 0x80 && op != 0x76:
			opcodes[i] = func(c *CPU, mem *memory.Image) int {
				c.setReg(y, c.reg(z, mem), mem)
				return 0
			}

		// ALU A,r
		case op >= 0x80 && op < 0xC0:
			opcodes[i] = func(c *CPU, mem *memory.Image) int {
				alu[y](c, c.reg(z, mem))
				return 0
			}

		// 0xC0-0xFF regular columns
		case op >= 0xC0 && z == 6:
			opcodes[i] = func(c *CPU, mem *memory.Image) int {
				alu[y](c, c.peekImmediate(mem))
				return 0
			}
		case op >= 0xC0 && z == 7:
			vector := uint16(y) * 8
			opcodes[i] = func(c *CPU, mem *memory.Image) int {
				c.pushStack(mem, c.pc+1)
				c.jump(vector, 1)
				return 0
			}
		case op >= 0xC0 && op&0x0F == 0x01:
			opcodes[i] = func(c *CPU, mem *memory.Image) int {
				if p == 3 {
					c.setAF(c.popStack(mem))
				} else {
					c.setPair(p, c.popStack(mem))
				}
				return 0
			}
		case op >= 0xC0 && op&0x0F == 0x05:
			opcodes[i] = func(c *CPU, mem *memory.Image) int {
				if p == 3 {
					c.pushStack(mem, c.getAF())
				} else {
					c.pushStack(mem, c.pair(p))
				}
				return 0
			}
		case op >= 0xC0 && op < 0xE0 && z == 0:
			opcodes[i] = retIf(y)
		case op >= 0xC0 && op < 0xE0 && z == 2:
			opcodes[i] = jpIf(y)
		case op >= 0xC0 && op < 0xE0 && z == 4:
			opcodes[i] = callIf(y)
		}
	}

	for op, fn := range irregular {
		opcodes[op] = fn
	}
}

var irregular = map[uint8]Opcode{
	0x00: opcode0x00,
	0x02: opcode0x02, 0x0A: opcode0x0A, 0x12: opcode0x12, 0x1A: opcode0x1A,
	0x22: opcode0x22, 0x2A: opcode0x2A, 0x32: opcode0x32, 0x3A: opcode0x3A,
	0x07: opcode0x07, 0x0F: opcode0x0F, 0x17: opcode0x17, 0x1F: opcode0x1F,
	0x08: opcode0x08, 0x10: opcode0x10,
	0x18: opcode0x18, 0x20: jrIf(0), 0x28: jrIf(1), 0x30: jrIf(2), 0x38: jrIf(3),
	0x27: opcode0x27, 0x2F: opcode0x2F, 0x37: opcode0x37, 0x3F: opcode0x3F,
	0x76: opcode0x76,
	0xC3: opcode0xC3, 0xC9: opcode0xC9, 0xCB: opcode0xCB, 0xCD: opcode0xCD,
	0xD9: opcode0xD9,
	0xE0: opcode0xE0, 0xE2: opcode0xE2, 0xE8: opcode0xE8, 0xE9: opcode0xE9, 0xEA: opcode0xEA,
	0xF0: opcode0xF0, 0xF2: opcode0xF2, 0xF3: opcode0xF3, 0xF8: opcode0xF8, 0xF9: opcode0xF9,
	0xFA: opcode0xFA, 0xFB: opcode0xFB,
}

//NOP
//#0x00:
func opcode0x00(_ *CPU, _ *memory.Image) int {
	return 0
}

//LD (BC), A
//#0x02:
func opcode0x02(c *CPU, mem *memory.Image) int {
	mem.Write(c.getBC(), c.a)
	return 0
}

//LD A, (BC)
//#0x0A:
func opcode0x0A(c *CPU, mem *memory.Image) int {
	c.a = mem.Read(c.getBC())
	return 0
}

//LD (DE), A
//#0x12:
func opcode0x12(c *CPU, mem *memory.Image) int {
	mem.Write(c.getDE(), c.a)
	return 0
}

//LD A, (DE)
//#0x1A:
func opcode0x1A(c *CPU, mem *memory.Image) int {
	c.a = mem.Read(c.getDE())
	return 0
}

//LD (HL+), A
//#0x22:
func opcode0x22(c *CPU, mem *memory.Image) int {
	hl := c.getHL()
	mem.Write(hl, c.a)
	c.setHL(hl + 1)
	return 0
}

//LD A, (HL+)
//#0x2A:
func opcode0x2A(c *CPU, mem *memory.Image) int {
	hl := c.getHL()
	c.a = mem.Read(hl)
	c.setHL(hl + 1)
	return 0
}

//LD (HL-), A
//#0x32:
func opcode0x32(c *CPU, mem *memory.Image) int {
	hl := c.getHL()
	mem.Write(hl, c.a)
	c.setHL(hl - 1)
	return 0
}

//LD A, (HL-)
//#0x3A:
func opcode0x3A(c *CPU, mem *memory.Image) int {
	hl := c.getHL()
	c.a = mem.Read(hl)
	c.setHL(hl - 1)
	return 0
}

//RLCA
//#0x07:
func opcode0x07(c *CPU, _ *memory.Image) int {
	c.a = c.rlc(c.a)
	c.resetFlag(zeroFlag)
	return 0
}

//RRCA
//#0x0F:
func opcode0x0F(c *CPU, _ *memory.Image) int {
	c.a = c.rrc(c.a)
	c.resetFlag(zeroFlag)
	return 0
}

//RLA
//#0x17:
func opcode0x17(c *CPU, _ *memory.Image) int {
	c.a = c.rl(c.a)
	c.resetFlag(zeroFlag)
	return 0
}

//RRA
//#0x1F:
func opcode0x1F(c *CPU, _ *memory.Image) int {
	c.a = c.rr(c.a)
	c.resetFlag(zeroFlag)
	return 0
}

//LD (nn), SP
//#0x08:
func opcode0x08(c *CPU, mem *memory.Image) int {
	address := c.peekImmediateWord(mem)
	mem.Write(address, bit.Low(c.sp))
	mem.Write(address+1, bit.High(c.sp))
	return 0
}

//STOP
//#0x10:
// Low power mode is not emulated, STOP behaves like a two byte NOP.
func opcode0x10(_ *CPU, _ *memory.Image) int {
	return 0
}

//JR n
//#0x18:
func opcode0x18(c *CPU, mem *memory.Image) int {
	c.pc += uint16(int16(c.peekSignedImmediate(mem)))
	return 0
}

// jrIf returns JR cc,n for the condition index (NZ, Z, NC, C).
func jrIf(cond uint8) Opcode {
	return func(c *CPU, mem *memory.Image) int {
		if !c.condition(cond) {
			return 0
		}
		c.pc += uint16(int16(c.peekSignedImmediate(mem)))
		return 1
	}
}

//DAA
//#0x27:
func opcode0x27(c *CPU, _ *memory.Image) int {
	c.daa()
	return 0
}

//CPL
//#0x2F:
func opcode0x2F(c *CPU, _ *memory.Image) int {
	c.a = ^c.a
	c.setFlag(subFlag)
	c.setFlag(halfCarryFlag)
	return 0
}

//SCF
//#0x37:
func opcode0x37(c *CPU, _ *memory.Image) int {
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
	c.setFlag(carryFlag)
	return 0
}

//CCF
//#0x3F:
func opcode0x3F(c *CPU, _ *memory.Image) int {
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
	c.setFlagToCondition(carryFlag, !c.isSetFlag(carryFlag))
	return 0
}

//HALT
//#0x76:
// PC stays on the HALT opcode until an interrupt is pending, the interrupt
// controller then moves it past. With an interrupt already pending HALT
// does nothing.
func opcode0x76(c *CPU, mem *memory.Image) int {
	if mem.PendingInterrupts() != 0 {
		return 0
	}
	c.halted = true
	c.pc--
	return 0
}

// retIf returns RET cc for the condition index (NZ, Z, NC, C).
func retIf(cond uint8) Opcode {
	return func(c *CPU, mem *memory.Image) int {
		if !c.condition(cond) {
			return 0
		}
		c.jump(c.popStack(mem), 1)
		return 3
	}
}

// jpIf returns JP cc,nn for the condition index (NZ, Z, NC, C).
func jpIf(cond uint8) Opcode {
	return func(c *CPU, mem *memory.Image) int {
		if !c.condition(cond) {
			return 0
		}
		c.jump(c.peekImmediateWord(mem), 3)
		return 1
	}
}

// callIf returns CALL cc,nn for the condition index (NZ, Z, NC, C).
func callIf(cond uint8) Opcode {
	return func(c *CPU, mem *memory.Image) int {
		if !c.condition(cond) {
			return 0
		}
		c.pushStack(mem, c.pc+3)
		c.jump(c.peekImmediateWord(mem), 3)
		return 3
	}
}

//JP nn
//#0xC3:
func opcode0xC3(c *CPU, mem *memory.Image) int {
	c.jump(c.peekImmediateWord(mem), 3)
	return 0
}

//RET
//#0xC9:
func opcode0xC9(c *CPU, mem *memory.Image) int {
	c.jump(c.popStack(mem), 1)
	return 0
}

//CB prefix
//#0xCB:
func opcode0xCB(c *CPU, mem *memory.Image) int {
	op := c.peekImmediate(mem)
	index := op & 0x07
	y := (op >> 3) & 0x07
	value := c.reg(index, mem)

	switch op >> 6 {
	case 0:
		c.setReg(index, shifts[y](c, value), mem)
	case 1:
		c.testBit(y, value)
		if index == 6 {
			return 1
		}
		return 0
	case 2:
		c.setReg(index, bit.Reset(y, value), mem)
	case 3:
		c.setReg(index, bit.Set(y, value), mem)
	}

	if index == 6 {
		return 2
	}
	return 0
}

//CALL nn
//#0xCD:
func opcode0xCD(c *CPU, mem *memory.Image) int {
	c.pushStack(mem, c.pc+3)
	c.jump(c.peekImmediateWord(mem), 3)
	return 0
}

//RETI
//#0xD9:
func opcode0xD9(c *CPU, mem *memory.Image) int {
	c.interruptsEnabled = true
	c.jump(c.popStack(mem), 1)
	return 0
}

//LD (0xFF00+n), A
//#0xE0:
func opcode0xE0(c *CPU, mem *memory.Image) int {
	mem.Write(0xFF00+uint16(c.peekImmediate(mem)), c.a)
	return 0
}

//LD (0xFF00+C), A
//#0xE2:
func opcode0xE2(c *CPU, mem *memory.Image) int {
	mem.Write(0xFF00+uint16(c.c), c.a)
	return 0
}

//ADD SP, n
//#0xE8:
func opcode0xE8(c *CPU, mem *memory.Image) int {
	c.sp = c.addToSP(c.peekSignedImmediate(mem))
	return 0
}

//JP (HL)
//#0xE9:
func opcode0xE9(c *CPU, _ *memory.Image) int {
	c.jump(c.getHL(), 1)
	return 0
}

//LD (nn), A
//#0xEA:
func opcode0xEA(c *CPU, mem *memory.Image) int {
	mem.Write(c.peekImmediateWord(mem), c.a)
	return 0
}

//LD A, (0xFF00+n)
//#0xF0:
func opcode0xF0(c *CPU, mem *memory.Image) int {
	c.a = mem.Read(0xFF00 + uint16(c.peekImmediate(mem)))
	return 0
}

//LD A, (0xFF00+C)
//#0xF2:
func opcode0xF2(c *CPU, mem *memory.Image) int {
	c.a = mem.Read(0xFF00 + uint16(c.c))
	return 0
}

//DI
//#0xF3:
func opcode0xF3(c *CPU, _ *memory.Image) int {
	c.interruptsEnabled = false
	return 0
}

//LD HL, SP+n
//#0xF8:
func opcode0xF8(c *CPU, mem *memory.Image) int {
	c.setHL(c.addToSP(c.peekSignedImmediate(mem)))
	return 0
}

//LD SP, HL
//#0xF9:
func opcode0xF9(c *CPU, _ *memory.Image) int {
	c.sp = c.getHL()
	return 0
}

//LD A, (nn)
//#0xFA:
func opcode0xFA(c *CPU, mem *memory.Image) int {
	c.a = mem.Read(c.peekImmediateWord(mem))
	return 0
}

//EI
//#0xFB:
// The enable is delayed by one instruction, the caller applies it.
func opcode0xFB(_ *CPU, _ *memory.Image) int {
	return 0
}
