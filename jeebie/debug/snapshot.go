package debug

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"

	"golang.org/x/image/draw"

	"github.com/valerio/jeebie/jeebie/display"
	"github.com/valerio/jeebie/jeebie/video"
)

// FrameImage converts a frame buffer to an image, scaled by an integer
// factor with nearest neighbour sampling.
func FrameImage(fb *video.FrameBuffer, scale int) *image.RGBA {
	if scale < 1 {
		scale = 1
	}

	width, height := int(fb.Width()), int(fb.Height())
	src := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			src.SetRGBA(x, y, pixelToRGBA(fb.GetPixel(uint(x), uint(y))))
		}
	}
	if scale == 1 {
		return src
	}

	dst := image.NewRGBA(image.Rect(0, 0, width*scale, height*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// SaveFramePNG writes the frame buffer to path as a PNG.
func SaveFramePNG(fb *video.FrameBuffer, path string, scale int) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer file.Close()

	img := FrameImage(fb, scale)
	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}

	slog.Debug("Snapshot saved", "path", path, "size", fmt.Sprintf("%dx%d", img.Bounds().Dx(), img.Bounds().Dy()))
	return file.Close()
}

func pixelToRGBA(pixel uint32) color.RGBA {
	return color.RGBA{
		R: uint8(pixel >> display.RGBARShift & display.RGBAColorMask),
		G: uint8(pixel >> display.RGBAGShift & display.RGBAColorMask),
		B: uint8(pixel >> display.RGBABShift & display.RGBAColorMask),
		A: uint8(pixel & display.RGBAColorMask),
	}
}
