package detsim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestNewImage(t *testing.T) {
	img, err := NewImage(3, 4)
	require.NoError(t, err)
	assert.Len(t, img.Buf, 12)
	assert.NoError(t, img.Validate())

	for _, sz := range [][2]int{{0, 4}, {3, 0}, {-1, 2}} {
		img, err := NewImage(sz[0], sz[1])
		assert.Nil(t, img)
		assert.ErrorIs(t, err, ErrInput)
	}
}

func TestImageFromMatrix(t *testing.T) {
	m := mat.NewDense(2, 3, []float64{0, 1, 2, 3, 4, 5})
	img, err := ImageFromMatrix(m)
	require.NoError(t, err)
	assert.Equal(t, 2, img.Rows)
	assert.Equal(t, 3, img.Cols)
	assert.Equal(t, Real(5), img.At(1, 2))
	assert.Equal(t, Real(1), img.At(0, 1))
	assert.True(t, mat.Equal(m, img.Dense()))

	// Dense is a copy
	d := img.Dense()
	d.Set(0, 0, 99)
	assert.Equal(t, Real(0), img.At(0, 0))

	img, err = ImageFromMatrix(mat.NewDense(1, 2, []float64{1, -1}))
	assert.Nil(t, img)
	assert.ErrorIs(t, err, ErrInput)

	img, err = ImageFromMatrix(nil)
	assert.Nil(t, img)
	assert.ErrorIs(t, err, ErrInput)
}

func TestImageValidateInf(t *testing.T) {
	img, err := NewImage(2, 2)
	require.NoError(t, err)
	img.Set(1, 0, math.Inf(1))
	assert.ErrorIs(t, img.Validate(), ErrInput)
}

func TestScaleToPeak(t *testing.T) {
	img, err := NewImage(2, 2)
	require.NoError(t, err)
	img.Buf = []Real{0, 0.25, 0.5, 2}

	out, err := img.ScaleToPeak(1000)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []Real{0, 125, 250, 1000}, out.Buf, 1e-9)
	assert.Equal(t, Real(1000), out.Peak())
	// source untouched
	assert.Equal(t, []Real{0, 0.25, 0.5, 2}, img.Buf)

	zero, err := NewImage(3, 3)
	require.NoError(t, err)
	out, err = zero.ScaleToPeak(500)
	require.NoError(t, err)
	assert.Equal(t, Real(0), out.Peak())

	for _, p := range []Real{-1, math.NaN(), math.Inf(1)} {
		out, err := img.ScaleToPeak(p)
		assert.Nil(t, out)
		assert.ErrorIs(t, err, ErrInput)
	}
}

func TestFlatFieldAndRamp(t *testing.T) {
	flat, err := FlatField(3, 5, 7.5)
	require.NoError(t, err)
	for _, v := range flat.Buf {
		assert.Equal(t, 7.5, v)
	}

	flat, err = FlatField(3, 5, -1)
	assert.Nil(t, flat)
	assert.ErrorIs(t, err, ErrInput)

	ramp, err := Ramp(2, 5)
	require.NoError(t, err)
	assert.Equal(t, []Real{0, 0.25, 0.5, 0.75, 1, 0, 0.25, 0.5, 0.75, 1}, ramp.Buf)

	single, err := Ramp(2, 1)
	require.NoError(t, err)
	assert.Equal(t, []Real{0, 0}, single.Buf)

	_, err = Ramp(0, 3)
	assert.ErrorIs(t, err, ErrInput)
}
