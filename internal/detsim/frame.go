package detsim

import (
	"image"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Frame is a quantized detector readout. Pix is row-major, every value is in
// [0, 2^BitDepth - 1].
type Frame struct {
	Rows, Cols int
	BitDepth   int
	Pix        []uint16
	Clipped    ClipCounts
}

// FrameStats summarizes the digital values of a frame.
type FrameStats struct {
	Mean   Real `json:"mean" cbor:"mean"`
	StdDev Real `json:"stdDev" cbor:"stdDev"`
	Min    Real `json:"min" cbor:"min"`
	Max    Real `json:"max" cbor:"max"`
}

func newFrame(rows, cols, bitDepth int) *Frame {
	return &Frame{Rows: rows, Cols: cols, BitDepth: bitDepth, Pix: make([]uint16, rows*cols)}
}

// At returns the digital value at row r, column c.
func (f *Frame) At(r, c int) uint16 { return f.Pix[r*f.Cols+c] }

// MaxDN returns 2^BitDepth - 1.
func (f *Frame) MaxDN() uint16 { return uint16(uint32(1)<<f.BitDepth - 1) }

// Values returns the digital values as float64 for numeric processing.
func (f *Frame) Values() []Real {
	out := make([]Real, len(f.Pix))
	for i, v := range f.Pix {
		out[i] = Real(v)
	}
	return out
}

// Stats returns mean, sample standard deviation and range of the digital values.
func (f *Frame) Stats() FrameStats {
	if len(f.Pix) == 0 {
		return FrameStats{}
	}
	v := f.Values()
	mean, std := stat.MeanStdDev(v, nil)
	if len(v) < 2 {
		std = 0
	}
	return FrameStats{Mean: mean, StdDev: std, Min: floats.Min(v), Max: floats.Max(v)}
}

// Gray16 renders the frame as a 16-bit grayscale image, shifting the digital
// values so that MaxDN maps to the top of the 16-bit range.
func (f *Frame) Gray16() *image.Gray16 {
	img := image.NewGray16(image.Rect(0, 0, f.Cols, f.Rows))
	shift := uint(MaxBitDepth - f.BitDepth)
	for r := 0; r < f.Rows; r++ {
		rowOff := r * img.Stride
		for c := 0; c < f.Cols; c++ {
			v := f.Pix[r*f.Cols+c] << shift
			p := rowOff + c*2
			// Gray16 stores big-endian uint16.
			img.Pix[p+0] = uint8(v >> 8)
			img.Pix[p+1] = uint8(v)
		}
	}
	return img
}
