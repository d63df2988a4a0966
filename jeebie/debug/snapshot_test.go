package debug

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valerio/jeebie/jeebie/video"
)

func TestFrameImage(t *testing.T) {
	fb := video.NewFrameBuffer()
	fb.SetPixel(0, 0, video.BlackColor)
	fb.SetPixel(1, 0, video.LightGreyColor)

	img := FrameImage(fb, 2)

	assert.Equal(t, 320, img.Bounds().Dx())
	assert.Equal(t, 288, img.Bounds().Dy())
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, img.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, img.RGBAAt(1, 1))
	assert.Equal(t, color.RGBA{0xAA, 0xAA, 0xAA, 255}, img.RGBAAt(2, 0))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, img.RGBAAt(4, 0))

	unscaled := FrameImage(fb, 0)
	assert.Equal(t, 160, unscaled.Bounds().Dx())
}

func TestSaveFramePNG(t *testing.T) {
	fb := video.NewFrameBuffer()
	fb.SetPixel(159, 143, video.DarkGreyColor)
	path := filepath.Join(t.TempDir(), "frame.png")

	require.NoError(t, SaveFramePNG(fb, path, 1))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 160, img.Bounds().Dx())
	assert.Equal(t, 144, img.Bounds().Dy())

	r, g, b, a := img.At(159, 143).RGBA()
	assert.Equal(t, [4]uint32{0x5555, 0x5555, 0x5555, 0xFFFF}, [4]uint32{r, g, b, a})
}
