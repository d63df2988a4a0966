package cpu

import (
	"github.com/valerio/jeebie/jeebie/bit"
	"github.com/valerio/jeebie/jeebie/memory"
)

func (c *CPU) pushStack(mem *memory.Image, value uint16) {
	c.sp--
	mem.Write(c.sp, bit.High(value))
	c.sp--
	mem.Write(c.sp, bit.Low(value))
}

func (c *CPU) popStack(mem *memory.Image) uint16 {
	low := mem.Read(c.sp)
	c.sp++
	high := mem.Read(c.sp)
	c.sp++

	return bit.Combine(high, low)
}

func (c *CPU) inc(value uint8) uint8 {
	result := value + 1

	c.setFlagToCondition(zeroFlag, result == 0)
	c.setFlagToCondition(halfCarryFlag, (value&0xF) == 0xF)
	c.resetFlag(subFlag)

	return result
}

func (c *CPU) dec(value uint8) uint8 {
	result := value - 1

	c.setFlagToCondition(zeroFlag, result == 0)
	c.setFlagToCondition(halfCarryFlag, (value&0xF) == 0)
	c.setFlag(subFlag)

	return result
}

// addToA sets the result of adding a value (and optionally the carry) to A,
// while setting all relevant flags.
func (c *CPU) addToA(value uint8, withCarry bool) {
	var carryIn uint8
	if withCarry {
		carryIn = c.flagToBit(carryFlag)
	}

	a := c.a
	sum := uint16(a) + uint16(value) + uint16(carryIn)
	result := uint8(sum)

	c.setFlagToCondition(zeroFlag, result == 0)
	c.resetFlag(subFlag)
	c.setFlagToCondition(halfCarryFlag, (a&0xF)+(value&0xF)+carryIn > 0xF)
	c.setFlagToCondition(carryFlag, sum > 0xFF)

	c.a = result
}

// subFromA computes A - value (and optionally the carry), setting flags.
// The result is stored only when store is set, so CP can reuse it.
func (c *CPU) subFromA(value uint8, withCarry, store bool) {
	var carryIn uint8
	if withCarry {
		carryIn = c.flagToBit(carryFlag)
	}

	a := c.a
	diff := int(a) - int(value) - int(carryIn)
	result := uint8(diff)

	c.setFlagToCondition(zeroFlag, result == 0)
	c.setFlag(subFlag)
	c.setFlagToCondition(halfCarryFlag, int(a&0xF)-int(value&0xF)-int(carryIn) < 0)
	c.setFlagToCondition(carryFlag, diff < 0)

	if store {
		c.a = result
	}
}

func (c *CPU) and(value uint8) {
	c.a &= value
	c.f = 0
	c.setFlagToCondition(zeroFlag, c.a == 0)
	c.setFlag(halfCarryFlag)
}

func (c *CPU) xor(value uint8) {
	c.a ^= value
	c.f = 0
	c.setFlagToCondition(zeroFlag, c.a == 0)
}

func (c *CPU) or(value uint8) {
	c.a |= value
	c.f = 0
	c.setFlagToCondition(zeroFlag, c.a == 0)
}

// alu holds the 8 operations of the 0x80-0xBF block and of the d8 variants,
// in opcode order.
var alu = [8]func(*CPU, uint8){
	func(c *CPU, v uint8) { c.addToA(v, false) },
	func(c *CPU, v uint8) { c.addToA(v, true) },
	func(c *CPU, v uint8) { c.subFromA(v, false, true) },
	func(c *CPU, v uint8) { c.subFromA(v, true, true) },
	(*CPU).and,
	(*CPU).xor,
	(*CPU).or,
	func(c *CPU, v uint8) { c.subFromA(v, false, false) },
}

// addToHL sets the result of adding a 16 bit value to HL, while setting relevant flags.
func (c *CPU) addToHL(value uint16) {
	hl := c.getHL()
	result := uint32(hl) + uint32(value)

	c.resetFlag(subFlag)
	c.setFlagToCondition(halfCarryFlag, (hl&0xFFF)+(value&0xFFF) > 0xFFF)
	c.setFlagToCondition(carryFlag, result > 0xFFFF)

	c.setHL(uint16(result))
}

// addToSP returns SP plus a signed offset. Flags come from the unsigned
// addition on the low byte, as for ADD SP,e and LD HL,SP+e.
func (c *CPU) addToSP(offset int8) uint16 {
	sp := c.sp
	value := uint16(int16(offset))

	c.f = 0
	c.setFlagToCondition(halfCarryFlag, (sp&0xF)+(value&0xF) > 0xF)
	c.setFlagToCondition(carryFlag, (sp&0xFF)+(value&0xFF) > 0xFF)

	return sp + value
}

// daa adjusts A after a BCD addition or subtraction.
func (c *CPU) daa() {
	a := c.a
	var correction uint8
	carry := c.isSetFlag(carryFlag)

	if c.isSetFlag(halfCarryFlag) || (!c.isSetFlag(subFlag) && a&0xF > 0x9) {
		correction |= 0x06
	}
	if carry || (!c.isSetFlag(subFlag) && a > 0x99) {
		correction |= 0x60
		carry = true
	}

	if c.isSetFlag(subFlag) {
		a -= correction
	} else {
		a += correction
	}

	c.a = a
	c.setFlagToCondition(zeroFlag, a == 0)
	c.resetFlag(halfCarryFlag)
	c.setFlagToCondition(carryFlag, carry)
}

// rotate and shift operations return the result and update all flags.
// The accumulator variants (RLCA, RLA, RRCA, RRA) clear Z afterwards.

func (c *CPU) rlc(value uint8) uint8 {
	result := value<<1 | value>>7
	c.setShiftFlags(result, value&0x80 != 0)
	return result
}

func (c *CPU) rl(value uint8) uint8 {
	result := value<<1 | c.flagToBit(carryFlag)
	c.setShiftFlags(result, value&0x80 != 0)
	return result
}

func (c *CPU) rrc(value uint8) uint8 {
	result := value>>1 | value<<7
	c.setShiftFlags(result, value&0x01 != 0)
	return result
}

func (c *CPU) rr(value uint8) uint8 {
	result := value>>1 | c.flagToBit(carryFlag)<<7
	c.setShiftFlags(result, value&0x01 != 0)
	return result
}

func (c *CPU) sla(value uint8) uint8 {
	result := value << 1
	c.setShiftFlags(result, value&0x80 != 0)
	return result
}

func (c *CPU) sra(value uint8) uint8 {
	result := value>>1 | value&0x80
	c.setShiftFlags(result, value&0x01 != 0)
	return result
}

func (c *CPU) swap(value uint8) uint8 {
	result := bit.Swap(value)
	c.setShiftFlags(result, false)
	return result
}

func (c *CPU) srl(value uint8) uint8 {
	result := value >> 1
	c.setShiftFlags(result, value&0x01 != 0)
	return result
}

func (c *CPU) setShiftFlags(result uint8, carry bool) {
	c.f = 0
	c.setFlagToCondition(zeroFlag, result == 0)
	c.setFlagToCondition(carryFlag, carry)
}

// shifts holds the CB 0x00-0x3F operations in opcode order.
var shifts = [8]func(*CPU, uint8) uint8{
	(*CPU).rlc, (*CPU).rrc, (*CPU).rl, (*CPU).rr,
	(*CPU).sla, (*CPU).sra, (*CPU).swap, (*CPU).srl,
}

// testBit tests a bit of value, setting Z if it is clear.
func (c *CPU) testBit(index uint8, value uint8) {
	c.setFlagToCondition(zeroFlag, !bit.IsSet(index, value))
	c.resetFlag(subFlag)
	c.setFlag(halfCarryFlag)
}
