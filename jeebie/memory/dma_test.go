package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valerio/jeebie/jeebie/addr"
)

func TestDMATransfer(t *testing.T) {
	mem := New()
	for i := uint16(0); i < uint16(addr.OAMSize); i++ {
		mem.Write(0xC100+i, uint8(i)+1)
	}

	dma := NewDMA()
	dma.Update(10, mem)
	assert.False(t, dma.Active(), "no request, nothing to do")

	mem.Write(addr.DMA, 0xC1)
	dma.Update(100, mem)
	assert.True(t, dma.Active())
	assert.Equal(t, uint8(100), mem.Peek(addr.OAMStart+99))
	assert.Equal(t, uint8(0), mem.Peek(addr.OAMStart+100))

	dma.Update(100, mem)
	assert.False(t, dma.Active())
	assert.Equal(t, mem.Snapshot(0xC100, addr.OAMSize), mem.Snapshot(addr.OAMStart, addr.OAMSize))
}

func TestDMARestart(t *testing.T) {
	mem := New()
	mem.Write(0xC000, 0x11)
	mem.Write(0xD000, 0x22)

	dma := NewDMA()
	mem.Write(addr.DMA, 0xC0)
	dma.Update(5, mem)
	assert.Equal(t, uint8(0x11), mem.Peek(addr.OAMStart))

	mem.Write(addr.DMA, 0xD0)
	dma.Update(1, mem)
	assert.Equal(t, uint8(0x22), mem.Peek(addr.OAMStart))
}
