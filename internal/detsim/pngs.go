package detsim

import (
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"
)

// writePNG encodes img losslessly, creating the parent directory if needed.
func writePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := png.Encoder{CompressionLevel: png.BestCompression} // still lossless
	if err := enc.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// SaveFramePNG16 writes one frame as a 16-bit grayscale PNG. Digital values are
// shifted so that the full ADC range fills the 16-bit range (see Frame.Gray16).
func SaveFramePNG16(f *Frame, path string) error {
	return writePNG(path, f.Gray16())
}

// SaveFramePNGSequence16 writes one 16-bit PNG per frame as prefix_<i>.png,
// zero padded to the number of frames.
func SaveFramePNGSequence16(frames []*Frame, prefix string) error {
	n := len(frames)

	// Zero-padding width based on number of frames.
	width := 1
	if n > 1 {
		width = int(math.Log10(Real(n-1))) + 1
	}

	// Progress print step (~1%).
	step := imax(1, n/100)

	for k, f := range frames {
		if k%step == 0 {
			DebugLog("[PNG] %.2f%%", Real(k+1)*100/Real(n))
		}
		full := fmt.Sprintf("%s_%0*d.png", prefix, width, k)
		if err := SaveFramePNG16(f, full); err != nil {
			return err
		}
	}
	return nil
}
