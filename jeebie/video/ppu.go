package video

import (
	"github.com/valerio/jeebie/jeebie/addr"
	"github.com/valerio/jeebie/jeebie/bit"
	"github.com/valerio/jeebie/jeebie/memory"
)

// LCDC (LCD Control) Register bit values
// Bit 7 - LCD Display Enable (0=Off, 1=On)
// Bit 6 - Window Tile Map Display Select (0=9800-9BFF, 1=9C00-9FFF)
// Bit 5 - Window Display Enable (0=Off, 1=On)
// Bit 4 - BG & Window Tile Data Select (0=8800-97FF, 1=8000-8FFF)
// Bit 3 - BG Tile Map Display Select (0=9800-9BFF, 1=9C00-9FFF)
// Bit 2 - OBJ (Sprite) Size (0=8x8, 1=8x16)
// Bit 1 - OBJ (Sprite) Display Enable (0=Off, 1=On)
// Bit 0 - BG Display (0=Off, 1=On)
const (
	lcdcDisplayEnable       uint8 = 7
	lcdcWindowTileMapSelect uint8 = 6
	lcdcWindowEnable        uint8 = 5
	lcdcTileDataSelect      uint8 = 4
	lcdcBGTileMapSelect     uint8 = 3
	lcdcSpriteSize          uint8 = 2
	lcdcSpriteEnable        uint8 = 1
	lcdcBGEnable            uint8 = 0
)

// PPU composites one scanline at a time into its frame buffer. It never
// writes to memory: line timing, LY and the LCD interrupts belong to the
// scheduler, which calls CommitLine at the end of each active line.
type PPU struct {
	framebuffer *FrameBuffer
	oam         OAM

	// color index of the background/window under each pixel of the
	// current line, used for the sprite behind-BG attribute
	bgIndex [FramebufferWidth]int

	windowLine int
	committed  int
	frames     uint64
}

// New returns a PPU with a white frame buffer.
func New() *PPU {
	return &PPU{
		framebuffer: NewFrameBuffer(),
	}
}

// Frame returns the frame buffer. Lines are updated in place as they are
// committed.
func (p *PPU) Frame() *FrameBuffer {
	return p.framebuffer
}

// CommittedLines returns how many lines were committed in the current frame.
func (p *PPU) CommittedLines() int {
	return p.committed
}

// Frames returns how many complete frames were committed.
func (p *PPU) Frames() uint64 {
	return p.frames
}

// CommitLine renders the line LY currently points at.
func (p *PPU) CommitLine(mem *memory.Image) {
	line := int(mem.Peek(addr.LY))
	if line >= FramebufferHeight {
		return
	}

	if line == 0 {
		p.windowLine = 0
		p.committed = 0
	}

	lcdc := mem.Peek(addr.LCDC)
	if !bit.IsSet(lcdcDisplayEnable, lcdc) {
		p.fillLine(line, WhiteColor)
	} else {
		p.drawBackground(mem, line, lcdc)
		p.drawWindow(mem, line, lcdc)
		p.drawSprites(mem, line, lcdc)
	}

	p.committed++
	if line == FramebufferHeight-1 {
		p.frames++
	}
}

func (p *PPU) fillLine(line int, color GBColor) {
	for x := 0; x < FramebufferWidth; x++ {
		p.bgIndex[x] = 0
		p.framebuffer.SetPixel(uint(x), uint(line), color)
	}
}

func tileMapBase(selectHigh bool) uint16 {
	if selectHigh {
		return addr.TileMap1
	}
	return addr.TileMap0
}

func (p *PPU) drawBackground(mem MemoryReader, line int, lcdc uint8) {
	bgp := mem.Peek(addr.BGP)
	if !bit.IsSet(lcdcBGEnable, lcdc) {
		p.fillLine(line, paletteColor(bgp, 0))
		return
	}

	mapBase := tileMapBase(bit.IsSet(lcdcBGTileMapSelect, lcdc))
	unsigned := bit.IsSet(lcdcTileDataSelect, lcdc)
	scx := int(mem.Peek(addr.SCX))
	y := (line + int(mem.Peek(addr.SCY))) & 0xFF

	for x := 0; x < FramebufferWidth; x++ {
		bgX := (x + scx) & 0xFF
		tileNumber := mem.Peek(mapBase + uint16((y/8)*32+bgX/8))
		row := FetchTileRow(mem, tileAddress(unsigned, tileNumber), y%8)

		index := row.GetPixel(bgX % 8)
		p.bgIndex[x] = index
		p.framebuffer.SetPixel(uint(x), uint(line), paletteColor(bgp, index))
	}
}

func (p *PPU) drawWindow(mem MemoryReader, line int, lcdc uint8) {
	if !bit.IsSet(lcdcWindowEnable, lcdc) || !bit.IsSet(lcdcBGEnable, lcdc) {
		return
	}

	wy := int(mem.Peek(addr.WY))
	wx := int(mem.Peek(addr.WX)) - 7
	if line < wy || wx >= FramebufferWidth {
		return
	}

	bgp := mem.Peek(addr.BGP)
	mapBase := tileMapBase(bit.IsSet(lcdcWindowTileMapSelect, lcdc))
	unsigned := bit.IsSet(lcdcTileDataSelect, lcdc)
	y := p.windowLine

	for x := max(wx, 0); x < FramebufferWidth; x++ {
		winX := x - wx
		tileNumber := mem.Peek(mapBase + uint16((y/8)*32+winX/8))
		row := FetchTileRow(mem, tileAddress(unsigned, tileNumber), y%8)

		index := row.GetPixel(winX % 8)
		p.bgIndex[x] = index
		p.framebuffer.SetPixel(uint(x), uint(line), paletteColor(bgp, index))
	}

	// the window keeps its own line counter, it only advances on lines
	// where the window was drawn
	p.windowLine++
}

func (p *PPU) drawSprites(mem MemoryReader, line int, lcdc uint8) {
	if !bit.IsSet(lcdcSpriteEnable, lcdc) {
		return
	}

	obp0 := mem.Peek(addr.OBP0)
	obp1 := mem.Peek(addr.OBP1)

	for _, sprite := range p.oam.ScanLine(mem, line, lcdc) {
		row := sprite.row(mem, line)
		palette := obp0
		if sprite.PaletteOBP1 {
			palette = obp1
		}

		for pixelX := 0; pixelX < 8; pixelX++ {
			x := sprite.X + pixelX
			if x < 0 || x >= FramebufferWidth || !sprite.HasPriorityForPixel(pixelX) {
				continue
			}

			index := row.GetPixel(pixelX)
			if sprite.FlipX {
				index = row.GetPixelFlipped(pixelX)
			}

			// color 0 is transparent for sprites
			if index == 0 {
				continue
			}
			if sprite.BehindBG && p.bgIndex[x] != 0 {
				continue
			}

			p.framebuffer.SetPixel(uint(x), uint(line), paletteColor(palette, index))
		}
	}
}
