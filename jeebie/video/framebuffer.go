package video

const (
	// FramebufferWidth is the width of the LCD in pixels.
	FramebufferWidth = 160
	// FramebufferHeight is the height of the LCD in pixels, one per active line.
	FramebufferHeight = 144
)

// GBColor is an RGBA pixel value.
type GBColor uint32

const (
	WhiteColor     GBColor = 0xFFFFFFFF
	LightGreyColor GBColor = 0xAAAAAAFF
	DarkGreyColor  GBColor = 0x555555FF
	BlackColor     GBColor = 0x000000FF
)

// shades maps the 2 bit shade selected by a palette register to a color.
var shades = [4]GBColor{WhiteColor, LightGreyColor, DarkGreyColor, BlackColor}

// paletteColor resolves a color index (0-3) through a palette register
// (BGP, OBP0 or OBP1).
func paletteColor(palette uint8, index int) GBColor {
	return shades[(palette>>(uint(index)*2))&0x03]
}

// FrameBuffer holds the pixels committed so far for the current frame.
type FrameBuffer struct {
	width  uint
	height uint
	buffer []uint32
}

// NewFrameBuffer creates a frame buffer the size of the LCD, filled with white.
func NewFrameBuffer() *FrameBuffer {
	fb := &FrameBuffer{
		width:  FramebufferWidth,
		height: FramebufferHeight,
		buffer: make([]uint32, FramebufferWidth*FramebufferHeight),
	}
	fb.Clear(WhiteColor)
	return fb
}

func (fb *FrameBuffer) Width() uint  { return fb.width }
func (fb *FrameBuffer) Height() uint { return fb.height }

func (fb *FrameBuffer) GetPixel(x, y uint) uint32 {
	return fb.buffer[y*fb.width+x]
}

func (fb *FrameBuffer) SetPixel(x, y uint, color GBColor) {
	fb.buffer[y*fb.width+x] = uint32(color)
}

// Clear fills the whole buffer with a single color.
func (fb *FrameBuffer) Clear(color GBColor) {
	for i := range fb.buffer {
		fb.buffer[i] = uint32(color)
	}
}

func (fb *FrameBuffer) ToSlice() []uint32 {
	return fb.buffer
}
