package detsim

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"math"
	"os"
	"path/filepath"
)

// grayPalette is the 256 level gray ramp used for GIF frames.
var grayPalette = func() color.Palette {
	p := make(color.Palette, 256)
	for i := range p {
		p[i] = color.Gray{Y: uint8(i)}
	}
	return p
}()

// SaveAnimatedGIF writes a GIF with one frame per exposure.
// delay is in 100ths of a second (e.g., 5 => 20 fps).
// Digital values are normalized by the ADC range (not per frame) so brightness is
// comparable across the series; gamma != 1 applies v^(1/gamma).
func SaveAnimatedGIF(frames []*Frame, path string, delay int, gamma Real) error {
	if len(frames) == 0 {
		return fmt.Errorf("%w: no frames to write", ErrInput)
	}
	out := &gif.GIF{
		Image:     make([]*image.Paletted, 0, len(frames)),
		Delay:     make([]int, 0, len(frames)),
		LoopCount: 0,
	}

	// helper: DN → 0..255 with gamma
	toByte := func(v, scale Real) uint8 {
		if v <= 0 {
			return 0
		}
		n := v * scale // 0..1
		if n > 1 {
			n = 1
		}
		if gamma > 0 && gamma != 1 {
			n = math.Pow(n, 1.0/gamma)
		}
		return uint8(math.Round(n * 255))
	}

	for k, f := range frames {
		if k%imax(1, len(frames)/100) == 0 { // ~1% steps
			DebugLog("[GIF] %.2f%%", Real(k+1)*100/Real(len(frames)))
		}
		scale := 1.0 / Real(f.MaxDN())
		pimg := image.NewPaletted(image.Rect(0, 0, f.Cols, f.Rows), grayPalette)
		for r := 0; r < f.Rows; r++ {
			rowOff := r * pimg.Stride
			for c := 0; c < f.Cols; c++ {
				// palette index i is gray level i
				pimg.Pix[rowOff+c] = toByte(Real(f.At(r, c)), scale)
			}
		}
		out.Image = append(out.Image, pimg)
		out.Delay = append(out.Delay, delay)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	defer fh.Close()
	return gif.EncodeAll(fh, out)
}
