package detsim

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// bandStream offsets band indices so per-band PCG streams never collide with
// the stream numbers callers use for frame sources.
const bandStream = 0x9e3779b97f4a7c15

// ExposeSeeded reads out img in parallel. Rows are split into fixed bands of
// BandRows rows; band b draws from NewSource(seed, bandStream^b), so the frame
// depends only on seed and img, never on the number of workers.
// workers <= 0 means runtime.NumCPU().
func (d *Detector) ExposeSeeded(img *Image, seed uint64, workers int) (*Frame, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	nBands := (img.Rows + BandRows - 1) / BandRows
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers < 1 {
		workers = 1
	}
	if workers > nBands {
		workers = nBands
	}
	DebugLog("Exposing %dx%d image: %d bands, %d workers, seed %d", img.Rows, img.Cols, nBands, workers, seed)

	f := newFrame(img.Rows, img.Cols, d.cfg.BitDepth)
	counts := make([]ClipCounts, nBands)

	var next, done int64
	nextPrint := int64(imax(1, nBands/100)) // ~1%
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for {
				b := int(atomic.AddInt64(&next, 1) - 1)
				if b >= nBands {
					return
				}
				r0 := b * BandRows
				r1 := imin(r0+BandRows, img.Rows)
				s := NewSampler(NewSource(seed, bandStream^uint64(b)))
				// each band owns rows [r0, r1) of f.Pix and counts[b]
				counts[b] = d.exposeRows(img, f, r0, r1, s)
				if fin := atomic.AddInt64(&done, 1); Debug && fin%nextPrint == 0 {
					DebugLog("[PROGRESS] %.2f%%", Real(fin)*100/Real(nBands))
				}
			}
		}()
	}
	wg.Wait()

	for _, c := range counts {
		f.Clipped.merge(c)
	}
	return f, nil
}
