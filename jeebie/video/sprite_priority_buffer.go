package video

// SpritePriorityBuffer resolves which sprite owns each pixel of a scanline,
// see https://gbdev.io/pandocs/OAM.html#drawing-priority.
//
// On the DMG the sprite with the lower X coordinate wins, and on equal X
// the lower OAM index wins:
//
//	Pixels:     0  1  2  3  4  5  6  7  8  9 10 11 12 13 14 15 16 17
//	Sprite 0:                  [-----A-----]                    (X=5, OAM=0)
//	Sprite 1:                           [-----B-----]           (X=10, OAM=1)
//	Result:                    [-----A-----]--B-----]
//
// Sprites claim pixels while OAM is scanned, so no sort is needed before
// drawing: each sprite only draws the pixels it owns.
type SpritePriorityBuffer struct {
	// ownerIndex is the OAM index owning each pixel, -1 when unowned
	ownerIndex [FramebufferWidth]int
	// ownerX is the X coordinate of the owner, compared on overlaps
	ownerX [FramebufferWidth]int
}

// Clear resets the buffer for a new scanline
func (s *SpritePriorityBuffer) Clear() {
	for i := 0; i < FramebufferWidth; i++ {
		s.ownerIndex[i] = -1
		s.ownerX[i] = 0xFF
	}
}

// TryClaimPixel gives the pixel to the sprite if it is unowned or the sprite
// beats the current owner. It reports whether the sprite claimed it.
func (s *SpritePriorityBuffer) TryClaimPixel(pixelX, spriteIndex, spriteX int) bool {
	if pixelX < 0 || pixelX >= FramebufferWidth {
		return false
	}

	owner := s.ownerIndex[pixelX]
	ownerX := s.ownerX[pixelX]

	if owner == -1 || spriteX < ownerX || (spriteX == ownerX && spriteIndex < owner) {
		s.ownerIndex[pixelX] = spriteIndex
		s.ownerX[pixelX] = spriteX
		return true
	}

	return false
}

// GetOwner returns the sprite index that owns a pixel, or -1 if none
func (s *SpritePriorityBuffer) GetOwner(pixelX int) int {
	if pixelX < 0 || pixelX >= FramebufferWidth {
		return -1
	}
	return s.ownerIndex[pixelX]
}
