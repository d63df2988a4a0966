package video

import (
	"github.com/valerio/jeebie/jeebie/addr"
	"github.com/valerio/jeebie/jeebie/bit"
)

const (
	spriteCount       = 40
	spritesPerLine    = 10
	spriteHeightShort = 8
	spriteHeightTall  = 16
)

// Sprite represents a single object in OAM (0xFE00-0xFE9F).
// Positions are screen coordinates, the hardware offsets (+16, +8) are
// already removed and can be negative.
type Sprite struct {
	Y         int
	X         int
	TileIndex uint8
	Flags     uint8
	OAMIndex  int
	Height    int // 8 or 16, from LCDC bit 2

	PaletteOBP1 bool // false = OBP0, true = OBP1
	FlipX       bool
	FlipY       bool
	BehindBG    bool // background colors 1-3 are drawn over the sprite

	// PixelMask has a bit set for each pixel this sprite owns after
	// sprite-to-sprite priority. Bit 7 is the leftmost pixel.
	PixelMask uint8
}

func (s *Sprite) parseFlags() {
	s.PaletteOBP1 = bit.IsSet(4, s.Flags)
	s.FlipX = bit.IsSet(5, s.Flags)
	s.FlipY = bit.IsSet(6, s.Flags)
	s.BehindBG = bit.IsSet(7, s.Flags)
}

// HasPriorityForPixel reports whether this sprite owns the pixel at the
// given offset (0-7) inside the sprite.
func (s *Sprite) HasPriorityForPixel(pixelX int) bool {
	if pixelX < 0 || pixelX > 7 {
		return false
	}
	return s.PixelMask&(1<<(7-pixelX)) != 0
}

// row returns the tile row of the sprite drawn on the given scanline.
func (s *Sprite) row(mem MemoryReader, scanline int) TileRow {
	line := scanline - s.Y
	if s.FlipY {
		line = s.Height - 1 - line
	}

	tile := s.TileIndex
	if s.Height == spriteHeightTall {
		// bit 0 is ignored for 8x16 sprites
		tile &= 0xFE
	}

	return FetchTileRow(mem, addr.TileData0+uint16(tile)*16, line)
}

func spriteHeight(lcdc uint8) int {
	if bit.IsSet(lcdcSpriteSize, lcdc) {
		return spriteHeightTall
	}
	return spriteHeightShort
}

// ReadSprite decodes OAM entry index (0-39).
func ReadSprite(mem MemoryReader, index int, lcdc uint8) Sprite {
	base := addr.OAMStart + uint16(index*4)

	sprite := Sprite{
		Y:         int(mem.Peek(base)) - 16,
		X:         int(mem.Peek(base+1)) - 8,
		TileIndex: mem.Peek(base + 2),
		Flags:     mem.Peek(base + 3),
		OAMIndex:  index,
		Height:    spriteHeight(lcdc),
	}
	sprite.parseFlags()

	return sprite
}

// OAM selects the sprites of a scanline.
type OAM struct {
	priorityBuffer SpritePriorityBuffer
	spriteBuffer   [spritesPerLine]Sprite
}

// ScanLine returns the sprites that overlap the scanline, at most 10, in
// OAM order and with their pixel priority resolved. Sprites off the
// horizontal edges still count toward the limit.
//
// The returned slice is reused by the next call.
func (o *OAM) ScanLine(mem MemoryReader, scanline int, lcdc uint8) []Sprite {
	sprites := o.spriteBuffer[:0]
	o.priorityBuffer.Clear()

	height := spriteHeight(lcdc)
	for i := 0; i < spriteCount; i++ {
		y := int(mem.Peek(addr.OAMStart+uint16(i*4))) - 16
		if scanline < y || scanline >= y+height {
			continue
		}

		sprite := ReadSprite(mem, i, lcdc)
		for pixelX := 0; pixelX < 8; pixelX++ {
			o.priorityBuffer.TryClaimPixel(sprite.X+pixelX, sprite.OAMIndex, sprite.X)
		}
		sprites = append(sprites, sprite)

		if len(sprites) == spritesPerLine {
			break
		}
	}

	for i := range sprites {
		var mask uint8
		for pixelX := 0; pixelX < 8; pixelX++ {
			if o.priorityBuffer.GetOwner(sprites[i].X+pixelX) == sprites[i].OAMIndex {
				mask |= 1 << (7 - pixelX)
			}
		}
		sprites[i].PixelMask = mask
	}

	return sprites
}
