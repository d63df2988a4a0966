package memory

import (
	"strings"

	"github.com/valerio/jeebie/jeebie/addr"
	"github.com/valerio/jeebie/jeebie/bit"
)

// JoypadKey represents a key on the Gameboy joypad
type JoypadKey uint8

const (
	JoypadRight JoypadKey = iota
	JoypadLeft
	JoypadUp
	JoypadDown
	JoypadA
	JoypadB
	JoypadSelect
	JoypadStart
)

var keyNames = [...]string{"R", "L", "U", "D", "A", "B", "SE", "ST"}

func (k JoypadKey) String() string {
	if int(k) < len(keyNames) {
		return keyNames[k]
	}
	return "?"
}

// Joypad holds the state of the buttons and mirrors it into P1 once per
// instruction step.
//
// Note that 1 -> button released, 0 -> button pressed.
type Joypad struct {
	buttons uint8 // A, B, Select, Start in bits 0-3
	dpad    uint8 // Right, Left, Up, Down in bits 0-3

	pressed bool // a key went from released to pressed since the last update
}

// NewJoypad creates a new Joypad instance with every key released.
func NewJoypad() *Joypad {
	return &Joypad{
		buttons: 0x0F,
		dpad:    0x0F,
	}
}

// Press updates the joypad state when a key is pressed
func (j *Joypad) Press(key JoypadKey) {
	oldButtons, oldDpad := j.buttons, j.dpad

	switch key {
	case JoypadRight, JoypadLeft, JoypadUp, JoypadDown:
		j.dpad = bit.Reset(uint8(key-JoypadRight), j.dpad)
	case JoypadA, JoypadB, JoypadSelect, JoypadStart:
		j.buttons = bit.Reset(uint8(key-JoypadA), j.buttons)
	}

	if oldButtons&^j.buttons|oldDpad&^j.dpad != 0 {
		j.pressed = true
	}
}

// Release updates the joypad state when a key is released
func (j *Joypad) Release(key JoypadKey) {
	switch key {
	case JoypadRight, JoypadLeft, JoypadUp, JoypadDown:
		j.dpad = bit.Set(uint8(key-JoypadRight), j.dpad)
	case JoypadA, JoypadB, JoypadSelect, JoypadStart:
		j.buttons = bit.Set(uint8(key-JoypadA), j.buttons)
	}
}

// UpdateRAM sets the joypad register (P1) according to selection bits
// and buttons status.
//
// The mapping:
//   - if bit 4 is clear, bits 0-3 are mapped to the 4 d-pad directions
//   - if bit 5 is clear, bits 0-3 are mapped to A, B, Select, Start
//   - if both are clear, hw does an AND of both button sets
//   - if neither are clear, return 0x0F (high impedance state)
//
// Bits 6-7 are unused, they always read as 1 on real hardware.
func (j *Joypad) UpdateRAM(mem *Image) {
	p1 := mem.Peek(addr.P1)
	result := uint8(0b11000000) | p1&0b00110000

	selectDpad := !bit.IsSet(4, p1)
	selectButtons := !bit.IsSet(5, p1)

	switch {
	case selectButtons && selectDpad:
		result |= j.buttons & j.dpad & 0x0F
	case selectButtons:
		result |= j.buttons & 0x0F
	case selectDpad:
		result |= j.dpad & 0x0F
	default:
		result |= 0x0F
	}

	mem.Poke(addr.P1, result)

	if j.pressed {
		j.pressed = false
		mem.RequestInterrupt(addr.JoypadInterrupt)
	}
}

// String lists the pressed keys, e.g. "U A ST".
func (j *Joypad) String() string {
	var keys []string
	for k := JoypadRight; k <= JoypadStart; k++ {
		if j.isPressed(k) {
			keys = append(keys, k.String())
		}
	}
	if len(keys) == 0 {
		return "-"
	}
	return strings.Join(keys, " ")
}

func (j *Joypad) isPressed(key JoypadKey) bool {
	if key <= JoypadDown {
		return !bit.IsSet(uint8(key-JoypadRight), j.dpad)
	}
	return !bit.IsSet(uint8(key-JoypadA), j.buttons)
}
