package video

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valerio/jeebie/jeebie/addr"
	"github.com/valerio/jeebie/jeebie/memory"
)

const identityPalette = 0xE4

func newTestMemory(lcdc uint8) *memory.Image {
	mem := memory.New()
	mem.Poke(addr.LCDC, lcdc)
	mem.Poke(addr.BGP, identityPalette)
	mem.Poke(addr.OBP0, identityPalette)
	mem.Poke(addr.OBP1, 0x1B)
	return mem
}

// fillTile sets every row of an unsigned-addressed tile to the same pattern.
func fillTile(mem *memory.Image, tile uint8, low, high byte) {
	base := addr.TileData0 + uint16(tile)*16
	for row := 0; row < 8; row++ {
		mem.Poke(base+uint16(row*2), low)
		mem.Poke(base+uint16(row*2)+1, high)
	}
}

func commit(p *PPU, mem *memory.Image, line uint8) {
	mem.Poke(addr.LY, line)
	p.CommitLine(mem)
}

func linePixels(p *PPU, line uint) []uint32 {
	fb := p.Frame()
	out := make([]uint32, fb.Width())
	for x := uint(0); x < fb.Width(); x++ {
		out[x] = fb.GetPixel(x, line)
	}
	return out
}

func TestPPU_DisplayOff(t *testing.T) {
	mem := newTestMemory(0x11)
	fillTile(mem, 0, 0xFF, 0xFF)
	p := New()
	p.Frame().Clear(BlackColor)

	commit(p, mem, 0)

	for x, px := range linePixels(p, 0) {
		assert.Equal(t, uint32(WhiteColor), px, "pixel %d", x)
	}
	assert.Equal(t, uint32(BlackColor), p.Frame().GetPixel(0, 1))
	assert.Equal(t, 1, p.CommittedLines())
}

func TestPPU_Background(t *testing.T) {
	t.Run("palette lookup", func(t *testing.T) {
		mem := newTestMemory(0x91)
		fillTile(mem, 0, 0xFF, 0x00)
		p := New()

		commit(p, mem, 5)

		assert.Equal(t, uint32(LightGreyColor), p.Frame().GetPixel(0, 5))
		assert.Equal(t, uint32(LightGreyColor), p.Frame().GetPixel(159, 5))
	})

	t.Run("background disabled draws color 0", func(t *testing.T) {
		mem := newTestMemory(0x90)
		mem.Poke(addr.BGP, 0x03)
		fillTile(mem, 0, 0x00, 0x00)
		p := New()

		commit(p, mem, 0)

		assert.Equal(t, uint32(BlackColor), p.Frame().GetPixel(80, 0))
	})

	t.Run("horizontal scroll", func(t *testing.T) {
		mem := newTestMemory(0x91)
		fillTile(mem, 1, 0xFF, 0xFF)
		mem.Poke(addr.TileMap0+1, 1)
		mem.Poke(addr.SCX, 4)
		p := New()

		commit(p, mem, 0)

		assert.Equal(t, uint32(WhiteColor), p.Frame().GetPixel(3, 0))
		assert.Equal(t, uint32(BlackColor), p.Frame().GetPixel(4, 0))
		assert.Equal(t, uint32(BlackColor), p.Frame().GetPixel(11, 0))
		assert.Equal(t, uint32(WhiteColor), p.Frame().GetPixel(12, 0))
	})

	t.Run("vertical scroll wraps", func(t *testing.T) {
		mem := newTestMemory(0x91)
		fillTile(mem, 1, 0xFF, 0xFF)
		// row 0 of the map, reached from line 0 with SCY=0 and from
		// line 16 with SCY=240
		mem.Poke(addr.TileMap0, 1)
		mem.Poke(addr.SCY, 240)
		p := New()

		commit(p, mem, 16)

		assert.Equal(t, uint32(BlackColor), p.Frame().GetPixel(0, 16))
		assert.Equal(t, uint32(WhiteColor), p.Frame().GetPixel(8, 16))
	})

	t.Run("signed tile data", func(t *testing.T) {
		// tile data select off: tile 0xFF lives at 0x8FF0
		mem := newTestMemory(0x81)
		mem.Poke(addr.TileMap0, 0xFF)
		mem.Poke(0x8FF0, 0x80)
		p := New()

		commit(p, mem, 0)

		assert.Equal(t, uint32(LightGreyColor), p.Frame().GetPixel(0, 0))
		assert.Equal(t, uint32(WhiteColor), p.Frame().GetPixel(1, 0))
	})
}

func TestPPU_Window(t *testing.T) {
	mem := newTestMemory(0x91 | 1<<lcdcWindowEnable | 1<<lcdcWindowTileMapSelect)
	fillTile(mem, 1, 0xFF, 0xFF)
	for i := 0; i < 32*32; i++ {
		mem.Poke(addr.TileMap1+uint16(i), 1)
	}
	mem.Poke(addr.WY, 10)
	mem.Poke(addr.WX, 7+80)
	p := New()

	commit(p, mem, 9)
	assert.Equal(t, uint32(WhiteColor), p.Frame().GetPixel(100, 9), "above WY")

	commit(p, mem, 10)
	assert.Equal(t, uint32(WhiteColor), p.Frame().GetPixel(79, 10))
	assert.Equal(t, uint32(BlackColor), p.Frame().GetPixel(80, 10))
	assert.Equal(t, uint32(BlackColor), p.Frame().GetPixel(159, 10))
	assert.Equal(t, 1, p.windowLine)

	commit(p, mem, 0)
	assert.Equal(t, 0, p.windowLine, "reset on a new frame")
}

func TestPPU_Sprites(t *testing.T) {
	t.Run("color 0 is transparent", func(t *testing.T) {
		mem := newTestMemory(0x93)
		fillTile(mem, 2, 0x80, 0x00)
		writeSprite(mem, 0, 0, 0, 2, 0)
		p := New()

		commit(p, mem, 0)

		assert.Equal(t, uint32(LightGreyColor), p.Frame().GetPixel(0, 0))
		assert.Equal(t, uint32(WhiteColor), p.Frame().GetPixel(1, 0))
	})

	t.Run("flip X and OBP1", func(t *testing.T) {
		mem := newTestMemory(0x93)
		fillTile(mem, 2, 0x80, 0x00)
		writeSprite(mem, 0, 0, 0, 2, 0x30)
		p := New()

		commit(p, mem, 0)

		// OBP1 0x1B maps index 1 to dark grey
		assert.Equal(t, uint32(WhiteColor), p.Frame().GetPixel(0, 0))
		assert.Equal(t, uint32(DarkGreyColor), p.Frame().GetPixel(7, 0))
	})

	t.Run("behind background", func(t *testing.T) {
		mem := newTestMemory(0x93)
		fillTile(mem, 1, 0xFF, 0x00)
		fillTile(mem, 2, 0xFF, 0xFF)
		mem.Poke(addr.TileMap0, 1)
		writeSprite(mem, 0, 0, 4, 2, 0x80)
		p := New()

		commit(p, mem, 0)

		assert.Equal(t, uint32(LightGreyColor), p.Frame().GetPixel(7, 0), "background color 1 wins")
		assert.Equal(t, uint32(BlackColor), p.Frame().GetPixel(8, 0), "background color 0 loses")
	})

	t.Run("sprites disabled", func(t *testing.T) {
		mem := newTestMemory(0x91)
		fillTile(mem, 2, 0xFF, 0xFF)
		writeSprite(mem, 0, 0, 0, 2, 0)
		p := New()

		commit(p, mem, 0)

		assert.Equal(t, uint32(WhiteColor), p.Frame().GetPixel(0, 0))
	})
}

func TestPPU_LineAccounting(t *testing.T) {
	mem := newTestMemory(0x91)
	p := New()

	for line := 0; line < 154; line++ {
		commit(p, mem, uint8(line))
	}

	assert.Equal(t, FramebufferHeight, p.CommittedLines())
	assert.Equal(t, uint64(1), p.Frames())

	commit(p, mem, 0)
	assert.Equal(t, 1, p.CommittedLines())
}
