package detsim

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// SaveRaw writes the image as a little-endian RAW file:
// int32 rows, int32 cols, then rows*cols float64 samples in row-major order.
func (im *Image) SaveRaw(path string) error {
	// Sanity checks
	if im.Rows < 0 || im.Cols < 0 {
		return fmt.Errorf("%w: negative dimensions: rows=%d cols=%d", ErrInput, im.Rows, im.Cols)
	}
	exp64 := int64(im.Rows) * int64(im.Cols)
	if int64(len(im.Buf)) != exp64 {
		return fmt.Errorf("%w: Buf length mismatch: got %d, expected %d (rows*cols)", ErrInput, len(im.Buf), exp64)
	}

	// Make sure parent directory exists.
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := binary.Write(w, binary.LittleEndian, [2]int32{int32(im.Rows), int32(im.Cols)}); err != nil {
		return err
	}
	if exp64 > 0 {
		if err := binary.Write(w, binary.LittleEndian, im.Buf); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return f.Close()
}

// LoadRaw reads an image written by SaveRaw and validates its samples.
// The file size must match the header exactly.
func LoadRaw(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	return readRaw(bufio.NewReader(f), fi.Size())
}

// ReadRaw decodes the RAW layout described in SaveRaw. The stream must end
// right after the last sample.
func ReadRaw(r io.Reader) (*Image, error) {
	return readRaw(r, -1)
}

// readRaw decodes a RAW stream; size is the total stream length or -1 if unknown.
func readRaw(r io.Reader, size int64) (*Image, error) {
	var hdr [2]int32
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("%w: RAW header: %v", ErrFormat, err)
	}
	rows, cols := int(hdr[0]), int(hdr[1])
	if rows > 0 && cols > 0 {
		n := int64(hdr[0]) * int64(hdr[1])
		if n > MaxRawSamples {
			return nil, fmt.Errorf("%w: RAW header %dx%d exceeds %d samples", ErrFormat, rows, cols, int64(MaxRawSamples))
		}
		if size >= 0 && size != rawHeaderSize+8*n {
			return nil, fmt.Errorf("%w: RAW size %d bytes, header %dx%d needs %d", ErrFormat, size, rows, cols, rawHeaderSize+8*n)
		}
	}
	img, err := NewImage(rows, cols)
	if err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.LittleEndian, img.Buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: RAW body shorter than %dx%d samples", ErrFormat, rows, cols)
		}
		return nil, err
	}
	var extra [1]byte
	if n, _ := io.ReadFull(r, extra[:]); n > 0 {
		return nil, fmt.Errorf("%w: trailing data after %dx%d samples", ErrFormat, rows, cols)
	}
	if err := img.Validate(); err != nil {
		return nil, err
	}
	DebugLog("Read RAW image %dx%d", rows, cols)
	return img, nil
}
