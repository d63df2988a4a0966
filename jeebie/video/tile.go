package video

import (
	"github.com/valerio/jeebie/jeebie/addr"
	"github.com/valerio/jeebie/jeebie/bit"
)

// TileRow represents one row of a tile pattern (8 pixels).
//
// Each row uses 2 bytes in bit-plane format: the low byte gives bit 0 of
// every pixel's color index, the high byte gives bit 1. Bit 7 is the
// leftmost pixel.
//
// Example: bytes $3C and $7E decode to the indexes 0 2 3 3 3 3 2 0.
//
// Reference: https://gbdev.io/pandocs/Tile_Data.html
type TileRow struct {
	Low  byte
	High byte
}

// GetPixel extracts a color index (0-3) from the tile row.
// pixelX should be 0-7, where 0 is the leftmost pixel.
func (t TileRow) GetPixel(pixelX int) int {
	return t.pixelAt(uint8(7 - pixelX))
}

// GetPixelFlipped extracts a color index with horizontal flip, as used by
// sprites with the flip X attribute.
func (t TileRow) GetPixelFlipped(pixelX int) int {
	return t.pixelAt(uint8(pixelX))
}

func (t TileRow) pixelAt(bitIndex uint8) int {
	pixel := 0
	if bit.IsSet(bitIndex, t.Low) {
		pixel |= 1
	}
	if bit.IsSet(bitIndex, t.High) {
		pixel |= 2
	}
	return pixel
}

// MemoryReader is the raw read access the renderer needs.
type MemoryReader interface {
	Peek(address uint16) byte
}

// FetchTileRow reads row (0-7) of the tile stored at base.
func FetchTileRow(mem MemoryReader, base uint16, row int) TileRow {
	address := base + uint16(row*2)
	return TileRow{
		Low:  mem.Peek(address),
		High: mem.Peek(address + 1),
	}
}

// tileAddress returns where the data of a background or window tile
// starts. With unsigned addressing tiles 0-255 live at 0x8000, otherwise
// the number is signed and based at 0x9000.
func tileAddress(unsigned bool, tileNumber uint8) uint16 {
	if unsigned {
		return addr.TileData0 + uint16(tileNumber)*16
	}
	return uint16(int(addr.TileData2) + int(int8(tileNumber))*16)
}
