package detsim

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
)

// LoadPNG reads a PNG and converts it to a normalized irradiance image in [0, 1]
// (16-bit luminance / 65535). Color images are reduced to luminance.
func LoadPNG(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadPNG(f)
}

// ReadPNG decodes a PNG stream the same way as LoadPNG.
func ReadPNG(r io.Reader) (*Image, error) {
	src, err := png.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: PNG: %v", ErrFormat, err)
	}
	b := src.Bounds()
	img, err := NewImage(b.Dy(), b.Dx())
	if err != nil {
		return nil, err
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			g := color.Gray16Model.Convert(src.At(x, y)).(color.Gray16)
			img.Set(y-b.Min.Y, x-b.Min.X, Real(g.Y)/65535.0)
		}
	}
	DebugLog("Read PNG image %dx%d", img.Rows, img.Cols)
	return img, nil
}

// SavePNG writes the image as a 16-bit grayscale PNG, mapping [0, 1] to [0, 65535].
// Samples above 1 are clipped.
func (im *Image) SavePNG(path string) error {
	out := image.NewGray16(image.Rect(0, 0, im.Cols, im.Rows))
	for r := 0; r < im.Rows; r++ {
		for c := 0; c < im.Cols; c++ {
			v := im.At(r, c)
			if v > 1 {
				v = 1
			} else if v < 0 {
				v = 0
			}
			out.SetGray16(c, r, color.Gray16{Y: uint16(v*65535 + 0.5)})
		}
	}
	return writePNG(path, out)
}
