package memory

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/valerio/jeebie/jeebie/addr"
	"github.com/valerio/jeebie/jeebie/bit"
)

// Size is the size of the flat address space.
const Size = 0x10000

// ErrEmptyROM is returned when loading a ROM with no data.
var ErrEmptyROM = errors.New("rom is empty")

// Image is the flat memory image shared by every component.
//
// Components never hold on to an Image: each call that needs memory receives
// it as a parameter, and the scheduler calls components one at a time.
//
// Read and Write model CPU bus accesses and apply the side effects of the
// few registers that react to writes. Peek and Poke are raw accesses used
// by components to update their own registers.
type Image struct {
	data [Size]byte

	divReset   bool
	dmaPending bool
}

// New creates a memory image in post-boot state, with no cartridge loaded.
func New() *Image {
	m := &Image{}
	m.Reset()
	return m
}

// NewWithROM creates a memory image and loads the ROM data into it.
func NewWithROM(rom []byte) (*Image, error) {
	m := New()
	if err := m.Load(rom); err != nil {
		return nil, err
	}
	return m, nil
}

// Load copies the ROM into the cartridge window. Bank switching is not
// emulated, only the first 32KiB are mapped.
func (m *Image) Load(rom []byte) error {
	if len(rom) == 0 {
		return ErrEmptyROM
	}

	romSize := int(addr.ROMEnd) + 1
	if len(rom) > romSize {
		slog.Warn("ROM larger than the unbanked window, truncating", "size", len(rom), "mapped", romSize)
		rom = rom[:romSize]
	}

	copy(m.data[:], rom)
	return nil
}

// Reset clears RAM and sets the IO registers to their post-boot values.
// The cartridge window is left untouched.
func (m *Image) Reset() {
	clear(m.data[addr.ROMEnd+1:])
	m.divReset = false
	m.dmaPending = false

	m.data[addr.P1] = 0xCF
	m.data[addr.DIV] = 0xAB
	m.data[addr.TAC] = 0xF8
	m.data[addr.IF] = 0xE1
	m.data[addr.LCDC] = 0x91
	m.data[addr.STAT] = 0x85
	m.data[addr.DMA] = 0xFF
	m.data[addr.BGP] = 0xFC
	m.data[addr.OBP0] = 0xFF
	m.data[addr.OBP1] = 0xFF

	// sound registers only hold their values, audio is not emulated
	m.data[0xFF10] = 0x80
	m.data[0xFF11] = 0xBF
	m.data[0xFF12] = 0xF3
	m.data[0xFF14] = 0xBF
	m.data[0xFF16] = 0x3F
	m.data[0xFF19] = 0xBF
	m.data[0xFF1A] = 0x7F
	m.data[0xFF1B] = 0xFF
	m.data[0xFF1C] = 0x9F
	m.data[0xFF1E] = 0xBF
	m.data[0xFF20] = 0xFF
	m.data[0xFF23] = 0xBF
	m.data[0xFF24] = 0x77
	m.data[0xFF25] = 0xF3
	m.data[0xFF26] = 0xF1
}

// Read performs a CPU bus read.
func (m *Image) Read(address uint16) byte {
	switch {
	case address >= addr.EchoStart && address <= addr.EchoEnd:
		return m.data[address-0x2000]
	case address == addr.IF:
		// upper 3 bits of IF are unused and always read as 1
		return m.data[address] | 0xE0
	}
	return m.data[address]
}

// Write performs a CPU bus write.
func (m *Image) Write(address uint16, value byte) {
	switch {
	case address <= addr.ROMEnd:
		// no MBC: writes to the cartridge window are dropped
		return
	case address >= addr.EchoStart && address <= addr.EchoEnd:
		m.data[address-0x2000] = value
		return
	}

	switch address {
	case addr.P1:
		// only the selection bits are writable
		m.data[address] = m.data[address]&0xCF | value&0x30
	case addr.DIV:
		m.data[address] = 0
		m.divReset = true
	case addr.LY:
		// owned by the scheduler
	case addr.DMA:
		m.data[address] = value
		m.dmaPending = true
	default:
		m.data[address] = value
	}
}

// Peek reads a byte without any side effect.
func (m *Image) Peek(address uint16) byte {
	return m.data[address]
}

// Poke writes a byte without any side effect.
func (m *Image) Poke(address uint16, value byte) {
	m.data[address] = value
}

// ReadBit reports whether the bit at index is set at the given address.
func (m *Image) ReadBit(index uint8, address uint16) bool {
	return bit.IsSet(index, m.data[address])
}

// SetBit sets or resets the bit at index at the given address.
func (m *Image) SetBit(index uint8, address uint16, set bool) {
	if set {
		m.data[address] = bit.Set(index, m.data[address])
		return
	}
	m.data[address] = bit.Reset(index, m.data[address])
}

// RequestInterrupt sets the flag of the chosen interrupt in IF.
func (m *Image) RequestInterrupt(interrupt addr.Interrupt) {
	if uint8(interrupt)&addr.InterruptMask == 0 {
		panic(fmt.Sprintf("unknown interrupt: 0x%02X", uint8(interrupt)))
	}
	m.data[addr.IF] |= uint8(interrupt)
}

// PendingInterrupts returns the interrupts both requested and enabled.
func (m *Image) PendingInterrupts() uint8 {
	return m.data[addr.IE] & m.data[addr.IF] & addr.InterruptMask
}

// TakeDIVReset reports whether DIV was written since the last call.
func (m *Image) TakeDIVReset() bool {
	reset := m.divReset
	m.divReset = false
	return reset
}

// TakeDMARequest returns the source page of a DMA transfer requested since
// the last call.
func (m *Image) TakeDMARequest() (page uint8, ok bool) {
	if !m.dmaPending {
		return 0, false
	}
	m.dmaPending = false
	return m.data[addr.DMA], true
}

// Snapshot copies up to n bytes starting at start, without wrapping past the
// end of the address space.
func (m *Image) Snapshot(start uint16, n int) []byte {
	end := int(start) + n
	if end > Size {
		end = Size
	}
	out := make([]byte, end-int(start))
	copy(out, m.data[start:end])
	return out
}
