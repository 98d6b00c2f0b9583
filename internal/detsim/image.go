package detsim

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Real is the sample type of images and statistics.
type Real = float64

// Image stores a 2D grid of non-negative samples (irradiance or electrons).
// Samples are in a flat row-major buffer: Buf[r*Cols + c].
type Image struct {
	Rows, Cols int
	Buf        []Real
}

// NewImage allocates a zero-initialized image.
func NewImage(rows, cols int) (*Image, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: image size must be positive, got %dx%d", ErrInput, rows, cols)
	}
	return &Image{Rows: rows, Cols: cols, Buf: make([]Real, rows*cols)}, nil
}

// ImageFromMatrix copies a gonum matrix (as produced by the optics pipeline) into an Image.
func ImageFromMatrix(m mat.Matrix) (*Image, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: nil matrix", ErrInput)
	}
	r, c := m.Dims()
	img, err := NewImage(r, c)
	if err != nil {
		return nil, err
	}
	for i := 0; i < r; i++ {
		row := img.Buf[i*c : (i+1)*c]
		for j := range row {
			row[j] = m.At(i, j)
		}
	}
	if err := img.Validate(); err != nil {
		return nil, err
	}
	return img, nil
}

// Dense returns a copy of the image as a gonum dense matrix.
func (im *Image) Dense() *mat.Dense {
	buf := make([]Real, len(im.Buf))
	copy(buf, im.Buf)
	return mat.NewDense(im.Rows, im.Cols, buf)
}

// Flat buffer index helper.
func (im *Image) idx(r, c int) int {
	return r*im.Cols + c
}

// At returns the sample at row r, column c.
func (im *Image) At(r, c int) Real { return im.Buf[im.idx(r, c)] }

// Set stores v at row r, column c.
func (im *Image) Set(r, c int, v Real) { im.Buf[im.idx(r, c)] = v }

// Clone returns a deep copy.
func (im *Image) Clone() *Image {
	buf := make([]Real, len(im.Buf))
	copy(buf, im.Buf)
	return &Image{Rows: im.Rows, Cols: im.Cols, Buf: buf}
}

// Peak returns the largest sample (0 for an empty buffer).
func (im *Image) Peak() Real {
	if len(im.Buf) == 0 {
		return 0
	}
	return floats.Max(im.Buf)
}

// Validate checks the shape and that every sample is finite and non-negative.
func (im *Image) Validate() error {
	if im == nil {
		return fmt.Errorf("%w: nil image", ErrInput)
	}
	if im.Rows <= 0 || im.Cols <= 0 {
		return fmt.Errorf("%w: zero sized image %dx%d", ErrInput, im.Rows, im.Cols)
	}
	if len(im.Buf) != im.Rows*im.Cols {
		return fmt.Errorf("%w: buffer length %d does not match %dx%d", ErrInput, len(im.Buf), im.Rows, im.Cols)
	}
	for i, v := range im.Buf {
		if !isFinite(v) || v < 0 {
			return fmt.Errorf("%w: sample (%d,%d) = %g", ErrInput, i/im.Cols, i%im.Cols, v)
		}
	}
	return nil
}

// ScaleToPeak returns a new image normalized so that its brightest sample equals peak
// (electrons). An all-zero image stays all zero.
func (im *Image) ScaleToPeak(peak Real) (*Image, error) {
	if err := im.Validate(); err != nil {
		return nil, err
	}
	if !isFinite(peak) || peak < 0 {
		return nil, fmt.Errorf("%w: peak electrons must be finite and >= 0, got %g", ErrInput, peak)
	}
	out := im.Clone()
	if m := out.Peak(); m > 0 {
		floats.Scale(peak/m, out.Buf)
	}
	DebugLog("Scaled %dx%d image to peak %.6g e-", out.Rows, out.Cols, peak)
	return out, nil
}

// FlatField returns a uniform image at the given level.
func FlatField(rows, cols int, level Real) (*Image, error) {
	img, err := NewImage(rows, cols)
	if err != nil {
		return nil, err
	}
	for i := range img.Buf {
		img.Buf[i] = level
	}
	if err := img.Validate(); err != nil {
		return nil, err
	}
	return img, nil
}

// Ramp returns a horizontal gradient from 0 (first column) to 1 (last column).
func Ramp(rows, cols int) (*Image, error) {
	img, err := NewImage(rows, cols)
	if err != nil {
		return nil, err
	}
	den := Real(imax(cols-1, 1))
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			img.Set(r, c, Real(c)/den)
		}
	}
	return img, nil
}
