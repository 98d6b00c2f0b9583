package detsim

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// archiveEncMode encodes frame records deterministically with nanosecond timestamps.
var archiveEncMode cbor.EncMode

// archiveDecMode decodes frame records.
var archiveDecMode cbor.DecMode

func init() {
	var err error
	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}
	archiveEncMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create archive CBOR encoder mode: %v", err))
	}
	decOpts := cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyEnforcedAPF,
		IndefLength: cbor.IndefLengthAllowed,
	}
	archiveDecMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create archive CBOR decoder mode: %v", err))
	}
}

// FrameRecord is one archived exposure with everything needed to reproduce it.
// CBOR encoding uses integer keys for compactness.
type FrameRecord struct {
	RunID     string      `cbor:"1,keyasint"`
	Index     int         `cbor:"2,keyasint"`
	Seed      uint64      `cbor:"3,keyasint"`
	CreatedAt time.Time   `cbor:"4,keyasint"`
	Detector  DetectorCfg `cbor:"5,keyasint"`
	Rows      int         `cbor:"6,keyasint"`
	Cols      int         `cbor:"7,keyasint"`
	BitDepth  int         `cbor:"8,keyasint"`
	Pix       []uint16    `cbor:"9,keyasint"`
	Clipped   ClipCounts  `cbor:"10,keyasint"`
}

// NewFrameRecord wraps a frame produced by det with run metadata.
func NewFrameRecord(runID string, index int, seed uint64, det *Detector, f *Frame) FrameRecord {
	return FrameRecord{
		RunID:     runID,
		Index:     index,
		Seed:      seed,
		CreatedAt: time.Now().UTC(),
		Detector:  det.Config(),
		Rows:      f.Rows,
		Cols:      f.Cols,
		BitDepth:  f.BitDepth,
		Pix:       f.Pix,
		Clipped:   f.Clipped,
	}
}

// Frame rebuilds the frame, checking shape and value range.
func (r FrameRecord) Frame() (*Frame, error) {
	if r.Rows <= 0 || r.Cols <= 0 || len(r.Pix) != r.Rows*r.Cols {
		return nil, fmt.Errorf("%w: record %s/%d has %d pixels for %dx%d", ErrFormat, r.RunID, r.Index, len(r.Pix), r.Rows, r.Cols)
	}
	if r.BitDepth < 1 || r.BitDepth > MaxBitDepth {
		return nil, fmt.Errorf("%w: record %s/%d bit depth %d", ErrFormat, r.RunID, r.Index, r.BitDepth)
	}
	f := newFrame(r.Rows, r.Cols, r.BitDepth)
	maxDN := f.MaxDN()
	for i, v := range r.Pix {
		if v > maxDN {
			return nil, fmt.Errorf("%w: record %s/%d pixel %d = %d exceeds %d", ErrFormat, r.RunID, r.Index, i, v, maxDN)
		}
		f.Pix[i] = v
	}
	f.Clipped = r.Clipped
	return f, nil
}

// EncodeRecords writes records as a sequence of CBOR items.
func EncodeRecords(w io.Writer, recs []FrameRecord) error {
	enc := archiveEncMode.NewEncoder(w)
	for i := range recs {
		if err := enc.Encode(recs[i]); err != nil {
			return err
		}
	}
	return nil
}

// DecodeRecords reads CBOR items until EOF.
func DecodeRecords(r io.Reader) ([]FrameRecord, error) {
	dec := archiveDecMode.NewDecoder(r)
	var recs []FrameRecord
	for {
		var rec FrameRecord
		if err := dec.Decode(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				return recs, nil
			}
			return nil, fmt.Errorf("%w: archive item %d: %v", ErrFormat, len(recs), err)
		}
		recs = append(recs, rec)
	}
}

// WriteArchive creates (or truncates) path and writes recs to it.
func WriteArchive(path string, recs []FrameRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	if err := EncodeRecords(w, recs); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return f.Close()
}

// ReadArchive reads all records from path.
func ReadArchive(path string) ([]FrameRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeRecords(bufio.NewReader(f))
}
