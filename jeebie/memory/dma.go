package memory

import (
	"log/slog"

	"github.com/valerio/jeebie/jeebie/addr"
)

// DMA propagates OAM DMA transfers. A write to the DMA register starts a
// transfer of 160 bytes from page<<8 into OAM, one byte per machine cycle.
type DMA struct {
	source     uint16
	index      uint16
	inProgress bool
}

// NewDMA returns an idle DMA unit.
func NewDMA() *DMA {
	return &DMA{}
}

// Active reports whether a transfer is in flight.
func (d *DMA) Active() bool {
	return d.inProgress
}

// Update advances the in-flight transfer by the cycles elapsed in the last
// instruction step. A new request restarts the transfer.
func (d *DMA) Update(cycles int, mem *Image) {
	if page, ok := mem.TakeDMARequest(); ok {
		d.source = uint16(page) << 8
		d.index = 0
		d.inProgress = true
		slog.Debug("Begin OAM DMA transfer", "page", page)
	}

	if !d.inProgress {
		return
	}

	for ri, rn := 0, cycles; ri < rn; ri++ {
		mem.Poke(addr.OAMStart+d.index, mem.Read(d.source+d.index))
		d.index++
		if d.index == addr.OAMSize {
			d.inProgress = false
			slog.Debug("End OAM DMA transfer", "source", d.source)
			return
		}
	}
}
