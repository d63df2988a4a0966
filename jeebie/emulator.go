package jeebie

import (
	"github.com/valerio/jeebie/jeebie/memory"
	"github.com/valerio/jeebie/jeebie/video"
)

// Emulator is what the frontends drive: run a frame, show it, feed input.
type Emulator interface {
	RunFrame() error
	Frame() *video.FrameBuffer
	Press(key memory.JoypadKey)
	Release(key memory.JoypadKey)
}

var _ Emulator = (*DMG)(nil)
