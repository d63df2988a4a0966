package display

// RGBA pixel format of the frame buffer: one uint32 per pixel, red in the
// most significant byte.
const (
	RGBABytesPerPixel = 4
	RGBARShift        = 24
	RGBAGShift        = 16
	RGBABShift        = 8
	RGBAColorMask     = 0xFF
)

// DefaultPixelScale is the default scaling factor of frame snapshots.
const DefaultPixelScale = 4
