package detsim

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawRoundTrip(t *testing.T) {
	img, err := Ramp(3, 7)
	require.NoError(t, err)
	img.Set(2, 3, 12345.678)

	path := filepath.Join(t.TempDir(), "nested", "img.raw")
	require.NoError(t, img.SaveRaw(path))

	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(8+3*7*8), fi.Size())

	got, err := LoadRaw(path)
	require.NoError(t, err)
	assert.Equal(t, img, got)
}

func rawBytes(rows, cols int32, samples []float64) []byte {
	var b bytes.Buffer
	_ = binary.Write(&b, binary.LittleEndian, [2]int32{rows, cols})
	_ = binary.Write(&b, binary.LittleEndian, samples)
	return b.Bytes()
}

func TestReadRawErrors(t *testing.T) {
	_, err := ReadRaw(bytes.NewReader([]byte{1, 0}))
	assert.ErrorIs(t, err, ErrFormat, "short header")

	_, err = ReadRaw(bytes.NewReader(rawBytes(2, 2, []float64{1, 2, 3})))
	assert.ErrorIs(t, err, ErrFormat, "short body")

	_, err = ReadRaw(bytes.NewReader(rawBytes(0, 2, nil)))
	assert.ErrorIs(t, err, ErrInput, "zero rows")

	_, err = ReadRaw(bytes.NewReader(rawBytes(1, 2, []float64{1, -2})))
	assert.ErrorIs(t, err, ErrInput, "negative sample")

	_, err = ReadRaw(bytes.NewReader(rawBytes(1, 2, []float64{math.NaN(), 1})))
	assert.ErrorIs(t, err, ErrInput, "NaN sample")

	_, err = ReadRaw(bytes.NewReader(rawBytes(1<<30, 1<<30, nil)))
	assert.ErrorIs(t, err, ErrFormat, "oversized header")

	_, err = ReadRaw(bytes.NewReader(rawBytes(1, 2, []float64{1, 2, 3})))
	assert.ErrorIs(t, err, ErrFormat, "trailing sample")

	_, err = ReadRaw(bytes.NewReader(append(rawBytes(1, 2, []float64{1, 2}), 0)))
	assert.ErrorIs(t, err, ErrFormat, "trailing byte")

	img, err := ReadRaw(bytes.NewReader(rawBytes(1, 2, []float64{0.5, 4})))
	require.NoError(t, err)
	assert.Equal(t, []Real{0.5, 4}, img.Buf)
}

func TestSaveRawMismatch(t *testing.T) {
	img := &Image{Rows: 2, Cols: 2, Buf: make([]Real, 3)}
	assert.ErrorIs(t, img.SaveRaw(filepath.Join(t.TempDir(), "x.raw")), ErrInput)
}

func TestLoadRawSizeMismatch(t *testing.T) {
	dir := t.TempDir()

	huge := filepath.Join(dir, "huge.raw")
	require.NoError(t, os.WriteFile(huge, rawBytes(100_000, 100_000, nil), 0o600))
	_, err := LoadRaw(huge)
	assert.ErrorIs(t, err, ErrFormat)

	short := filepath.Join(dir, "short.raw")
	require.NoError(t, os.WriteFile(short, rawBytes(1000, 1000, []float64{1, 2}), 0o600))
	_, err = LoadRaw(short)
	assert.ErrorIs(t, err, ErrFormat)

	long := filepath.Join(dir, "long.raw")
	require.NoError(t, os.WriteFile(long, rawBytes(1, 1, []float64{1, 2}), 0o600))
	_, err = LoadRaw(long)
	assert.ErrorIs(t, err, ErrFormat)
}
