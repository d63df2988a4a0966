package cpu

import (
	"github.com/valerio/jeebie/jeebie/addr"
	"github.com/valerio/jeebie/jeebie/bit"
	"github.com/valerio/jeebie/jeebie/memory"
)

// dispatchCycles is the cost of jumping to an interrupt handler.
const dispatchCycles = 5

// InterruptController services pending interrupts for a CPU, before the
// next instruction is fetched.
type InterruptController struct {
	cpu *CPU
}

// NewInterruptController binds a controller to the CPU it interrupts.
func NewInterruptController(c *CPU) *InterruptController {
	return &InterruptController{cpu: c}
}

// Check wakes a halted CPU if any enabled interrupt is requested, then, if
// IME is set, dispatches the highest priority one. It returns the machine
// cycles spent, 0 when nothing was dispatched.
func (ic *InterruptController) Check(mem *memory.Image) int {
	pending := mem.PendingInterrupts()
	if pending == 0 {
		return 0
	}

	c := ic.cpu
	if c.halted {
		// leave the HALT opcode behind
		c.halted = false
		c.pc++
	}

	if !c.interruptsEnabled {
		return 0
	}

	// service interrupts in priority order (bit 0 = highest)
	for i := uint8(0); i < 5; i++ {
		if !bit.IsSet(i, pending) {
			continue
		}

		// mark as handled by clearing the bit at i
		mem.SetBit(i, addr.IF, false)
		c.interruptsEnabled = false

		// interrupt handlers are offset by 8
		// 0x40 - 0x48 - 0x50 - 0x58 - 0x60
		c.pushStack(mem, c.pc)
		c.pc = baseInterruptAddress + uint16(i)*8

		return dispatchCycles
	}

	return 0
}
