package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valerio/jeebie/jeebie/memory"
)

func TestCPU_stack(t *testing.T) {
	mem := memory.New()
	cpu := New()

	cpu.sp = 0xFFFE
	cpu.pushStack(mem, 0x0102)

	assert.Equal(t, uint16(0xFFFC), cpu.sp)
	assert.Equal(t, uint8(0x01), mem.Read(0xFFFD))
	assert.Equal(t, uint8(0x02), mem.Read(0xFFFC))

	popped := cpu.popStack(mem)

	assert.Equal(t, uint16(0x0102), popped)
	assert.Equal(t, uint16(0xFFFE), cpu.sp)
}

func TestCPU_inc(t *testing.T) {
	cpu := New()

	testCases := []struct {
		desc  string
		arg   uint8
		want  uint8
		flags Flag
	}{
		{desc: "increases", arg: 0x0A, want: 0x0B},
		{desc: "sets zero flag", arg: 0xFF, want: 0, flags: zeroFlag | halfCarryFlag},
		{desc: "sets half carry flag", arg: 0x0F, want: 0x10, flags: halfCarryFlag},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			cpu.f = 0
			assert.Equal(t, tC.want, cpu.inc(tC.arg))
			assert.Equal(t, uint8(tC.flags), cpu.f)
		})
	}
}

func TestCPU_dec(t *testing.T) {
	cpu := New()

	testCases := []struct {
		desc  string
		arg   uint8
		want  uint8
		flags Flag
	}{
		{desc: "decreases", arg: 0x0A, want: 0x09, flags: subFlag},
		{desc: "sets half carry flags", arg: 0, want: 0xFF, flags: subFlag | halfCarryFlag},
		{desc: "sets zero flag", arg: 0x01, want: 0, flags: subFlag | zeroFlag},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			cpu.f = 0
			assert.Equal(t, tC.want, cpu.dec(tC.arg))
			assert.Equal(t, uint8(tC.flags), cpu.f)
		})
	}
}

func TestCPU_alu(t *testing.T) {
	testCases := []struct {
		desc    string
		op      func(*CPU, uint8)
		a       uint8
		arg     uint8
		carryIn bool
		want    uint8
		flags   Flag
	}{
		{desc: "add", op: alu[0], a: 0x01, arg: 0x02, want: 0x03},
		{desc: "add half carry", op: alu[0], a: 0x0F, arg: 0x01, want: 0x10, flags: halfCarryFlag},
		{desc: "add overflow", op: alu[0], a: 0xFF, arg: 0x01, want: 0x00, flags: zeroFlag | halfCarryFlag | carryFlag},
		{desc: "adc uses carry", op: alu[1], a: 0x01, arg: 0x01, carryIn: true, want: 0x03},
		{desc: "adc half carry from carry", op: alu[1], a: 0x0F, arg: 0x00, carryIn: true, want: 0x10, flags: halfCarryFlag},
		{desc: "sub", op: alu[2], a: 0x05, arg: 0x03, want: 0x02, flags: subFlag},
		{desc: "sub to zero", op: alu[2], a: 0x05, arg: 0x05, want: 0x00, flags: subFlag | zeroFlag},
		{desc: "sub borrow", op: alu[2], a: 0x00, arg: 0x01, want: 0xFF, flags: subFlag | halfCarryFlag | carryFlag},
		{desc: "sbc uses carry", op: alu[3], a: 0x05, arg: 0x03, carryIn: true, want: 0x01, flags: subFlag},
		{desc: "and", op: alu[4], a: 0xF0, arg: 0x3C, want: 0x30, flags: halfCarryFlag},
		{desc: "and zero", op: alu[4], a: 0xF0, arg: 0x0F, want: 0x00, flags: zeroFlag | halfCarryFlag},
		{desc: "xor", op: alu[5], a: 0xFF, arg: 0x0F, want: 0xF0},
		{desc: "xor self", op: alu[5], a: 0x42, arg: 0x42, want: 0x00, flags: zeroFlag},
		{desc: "or", op: alu[6], a: 0xF0, arg: 0x0F, want: 0xFF},
		{desc: "cp keeps A", op: alu[7], a: 0x10, arg: 0x10, want: 0x10, flags: subFlag | zeroFlag},
		{desc: "cp lower", op: alu[7], a: 0x10, arg: 0x20, want: 0x10, flags: subFlag | carryFlag},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			cpu := New()
			cpu.f = 0
			cpu.setFlagToCondition(carryFlag, tC.carryIn)
			cpu.a = tC.a

			tC.op(cpu, tC.arg)

			assert.Equal(t, tC.want, cpu.a)
			assert.Equal(t, uint8(tC.flags), cpu.f)
		})
	}
}

func TestCPU_addToHL(t *testing.T) {
	testCases := []struct {
		desc  string
		hl    uint16
		arg   uint16
		want  uint16
		flags Flag
	}{
		{desc: "adds", hl: 0x1000, arg: 0x0234, want: 0x1234},
		{desc: "half carry on bit 11", hl: 0x0FFF, arg: 0x0001, want: 0x1000, flags: halfCarryFlag},
		{desc: "carry on bit 15", hl: 0xFFFF, arg: 0x0001, want: 0x0000, flags: halfCarryFlag | carryFlag},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			cpu := New()
			cpu.f = uint8(zeroFlag)
			cpu.setHL(tC.hl)

			cpu.addToHL(tC.arg)

			assert.Equal(t, tC.want, cpu.getHL())
			assert.Equal(t, uint8(tC.flags|zeroFlag), cpu.f, "Z is preserved")
		})
	}
}

func TestCPU_addToSP(t *testing.T) {
	cpu := New()

	cpu.sp = 0xFFF8
	assert.Equal(t, uint16(0xFFFA), cpu.addToSP(2))
	assert.Equal(t, uint8(0), cpu.f)

	cpu.sp = 0x00FF
	assert.Equal(t, uint16(0x0100), cpu.addToSP(1))
	assert.Equal(t, uint8(halfCarryFlag|carryFlag), cpu.f)

	cpu.sp = 0x0100
	assert.Equal(t, uint16(0x00FF), cpu.addToSP(-1))
	assert.Equal(t, uint8(0), cpu.f)
}

func TestCPU_shifts(t *testing.T) {
	testCases := []struct {
		desc    string
		op      func(*CPU, uint8) uint8
		arg     uint8
		carryIn bool
		want    uint8
		flags   Flag
	}{
		{desc: "rlc", op: (*CPU).rlc, arg: 0x85, want: 0x0B, flags: carryFlag},
		{desc: "rlc zero", op: (*CPU).rlc, arg: 0x00, want: 0x00, flags: zeroFlag},
		{desc: "rl through carry", op: (*CPU).rl, arg: 0x80, carryIn: true, want: 0x01, flags: carryFlag},
		{desc: "rl to zero", op: (*CPU).rl, arg: 0x80, want: 0x00, flags: zeroFlag | carryFlag},
		{desc: "rrc", op: (*CPU).rrc, arg: 0x01, want: 0x80, flags: carryFlag},
		{desc: "rr through carry", op: (*CPU).rr, arg: 0x00, carryIn: true, want: 0x80},
		{desc: "sla", op: (*CPU).sla, arg: 0xFF, want: 0xFE, flags: carryFlag},
		{desc: "sra keeps sign", op: (*CPU).sra, arg: 0x81, want: 0xC0, flags: carryFlag},
		{desc: "srl", op: (*CPU).srl, arg: 0x01, want: 0x00, flags: zeroFlag | carryFlag},
		{desc: "swap", op: (*CPU).swap, arg: 0xAB, want: 0xBA},
		{desc: "swap zero", op: (*CPU).swap, arg: 0x00, want: 0x00, flags: zeroFlag},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			cpu := New()
			cpu.f = 0
			cpu.setFlagToCondition(carryFlag, tC.carryIn)

			assert.Equal(t, tC.want, tC.op(cpu, tC.arg))
			assert.Equal(t, uint8(tC.flags), cpu.f)
		})
	}
}

func TestCPU_daa(t *testing.T) {
	testCases := []struct {
		desc  string
		a     uint8
		f     Flag
		want  uint8
		flags Flag
	}{
		{desc: "after 0x09+0x01", a: 0x0A, want: 0x10},
		{desc: "after 0x99+0x01", a: 0x9A, want: 0x00, flags: zeroFlag | carryFlag},
		{desc: "after 0x10-0x01", a: 0x0F, f: subFlag | halfCarryFlag, want: 0x09, flags: subFlag},
		{desc: "after 0x00-0x01", a: 0xFF, f: subFlag | halfCarryFlag | carryFlag, want: 0x99, flags: subFlag | carryFlag},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			cpu := New()
			cpu.a = tC.a
			cpu.f = uint8(tC.f)

			cpu.daa()

			assert.Equal(t, tC.want, cpu.a)
			assert.Equal(t, uint8(tC.flags), cpu.f)
		})
	}
}

func TestCPU_bit(t *testing.T) {
	cpu := New()

	cpu.f = uint8(carryFlag)
	cpu.testBit(7, 0x80)
	assert.Equal(t, uint8(halfCarryFlag|carryFlag), cpu.f)

	cpu.testBit(0, 0x80)
	assert.Equal(t, uint8(zeroFlag|halfCarryFlag|carryFlag), cpu.f)
}
