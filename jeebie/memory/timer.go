package memory

import (
	"github.com/valerio/jeebie/jeebie/addr"
	"github.com/valerio/jeebie/jeebie/bit"
)

// tacLookup maps TAC input clock select (bits 1–0) to the bit position
// of the 16‑bit internal divider (systemCounter) used as the timer’s
// clock source. The timer increments on falling edges of this selected
// bit when the timer is enabled (TAC bit 2 = 1).
//
// Mapping per Pan Docs (DMG):
//
//	00 -> bit 9  (4096 Hz)
//	01 -> bit 3  (262144 Hz)
//	10 -> bit 5  (65536 Hz)
//	11 -> bit 7  (16384 Hz)
var tacLookup = [4]uint16{9, 3, 5, 7}

// Timer drives DIV and TIMA from the cycle cost of each executed instruction.
// Registers live in the memory image, the timer only keeps the internal
// divider and the last sampled edge.
type Timer struct {
	systemCounter uint16 // DIV is the upper 8 bits
	lastTimerBit  bool
}

// NewTimer returns a timer whose divider matches the post-boot DIV value.
func NewTimer() *Timer {
	return &Timer{systemCounter: 0xABCC}
}

// Counter returns the internal 16 bit divider.
func (t *Timer) Counter() uint16 {
	return t.systemCounter
}

// Update advances the timer by the given amount of machine cycles.
func (t *Timer) Update(cycles int, mem *Image) {
	if mem.TakeDIVReset() {
		t.systemCounter = 0
	}

	tac := mem.Peek(addr.TAC)
	enabled := bit.IsSet(2, tac)
	selected := tacLookup[tac&0x03]

	// the divider runs at the clock rate, 4 ticks per machine cycle
	for ri, rn := 0, cycles*4; ri < rn; ri++ {
		t.systemCounter++

		if !enabled {
			t.lastTimerBit = false
			continue
		}

		current := bit.IsSet16(selected, t.systemCounter)
		if t.lastTimerBit && !current {
			t.incrementTIMA(mem)
		}
		t.lastTimerBit = current
	}

	mem.Poke(addr.DIV, bit.High(t.systemCounter))
}

func (t *Timer) incrementTIMA(mem *Image) {
	tima := mem.Peek(addr.TIMA)
	if tima == 0xFF {
		mem.Poke(addr.TIMA, mem.Peek(addr.TMA))
		mem.RequestInterrupt(addr.TimerInterrupt)
		return
	}
	mem.Poke(addr.TIMA, tima+1)
}
