package detsim

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// DetectorCfg holds the scalar parameters of a detector readout.
type DetectorCfg struct {
	DarkCurrent      Real `json:"darkCurrent" yaml:"darkCurrent" cbor:"darkCurrent"`    // e-/pixel/s
	ReadNoise        Real `json:"readNoise" yaml:"readNoise" cbor:"readNoise"`          // e- rms
	Bias             Real `json:"bias" yaml:"bias" cbor:"bias"`                         // e-, may be negative
	FullWell         Real `json:"fullWell" yaml:"fullWell" cbor:"fullWell"`             // e-
	Gain             Real `json:"gain" yaml:"gain" cbor:"gain"`                         // e-/DN
	BitDepth         int  `json:"bitDepth" yaml:"bitDepth" cbor:"bitDepth"`             // bits, [1, MaxBitDepth]
	ExposureTime     Real `json:"exposureTime" yaml:"exposureTime" cbor:"exposureTime"` // s
	DisableShotNoise bool `json:"disableShotNoise,omitempty" yaml:"disableShotNoise,omitempty" cbor:"disableShotNoise,omitempty"`
}

// DefaultDetectorCfg returns the detector used when a run config omits a field.
func DefaultDetectorCfg() DetectorCfg {
	return DetectorCfg{
		DarkCurrent:  DarkCurrent,
		ReadNoise:    ReadNoise,
		Bias:         Bias,
		FullWell:     FullWell,
		Gain:         Gain,
		BitDepth:     DefaultBitDepth,
		ExposureTime: ExposureTime,
	}
}

// Validate reports the first invalid parameter, wrapped in ErrConfig.
func (c DetectorCfg) Validate() error {
	for _, f := range []struct {
		name string
		v    Real
	}{
		{"darkCurrent", c.DarkCurrent},
		{"readNoise", c.ReadNoise},
		{"bias", c.Bias},
		{"fullWell", c.FullWell},
		{"gain", c.Gain},
		{"exposureTime", c.ExposureTime},
	} {
		if !isFinite(f.v) {
			return fmt.Errorf("%w: %s must be finite, got %g", ErrConfig, f.name, f.v)
		}
	}
	switch {
	case c.Gain <= 0:
		return fmt.Errorf("%w: gain must be > 0, got %g", ErrConfig, c.Gain)
	case c.FullWell <= 0:
		return fmt.Errorf("%w: fullWell must be > 0, got %g", ErrConfig, c.FullWell)
	case c.ExposureTime < 0:
		return fmt.Errorf("%w: exposureTime must be >= 0, got %g", ErrConfig, c.ExposureTime)
	case c.BitDepth < 1 || c.BitDepth > MaxBitDepth:
		return fmt.Errorf("%w: bitDepth must be in [1, %d], got %d", ErrConfig, MaxBitDepth, c.BitDepth)
	case c.DarkCurrent < 0:
		return fmt.Errorf("%w: darkCurrent must be >= 0, got %g", ErrConfig, c.DarkCurrent)
	case c.ReadNoise < 0:
		return fmt.Errorf("%w: readNoise must be >= 0, got %g", ErrConfig, c.ReadNoise)
	}
	return nil
}

// Detector converts electron images into digital frames. It is immutable and safe
// for concurrent use.
type Detector struct {
	cfg DetectorCfg

	// cached
	darkMean Real // dark electrons per pixel per exposure
	maxDN    Real // 2^bitDepth - 1
}

// NewDetector validates cfg and builds a Detector.
func NewDetector(cfg DetectorCfg) (*Detector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	d := &Detector{
		cfg:      cfg,
		darkMean: cfg.DarkCurrent * cfg.ExposureTime,
		maxDN:    Real(uint32(1)<<cfg.BitDepth - 1),
	}
	DebugLog("Created detector %+v (dark mean %.6g e-, max DN %.0f)", cfg, d.darkMean, d.maxDN)
	return d, nil
}

// Config returns a copy of the detector parameters.
func (d *Detector) Config() DetectorCfg { return d.cfg }

// MaxDN returns the largest digital value, 2^bitDepth - 1.
func (d *Detector) MaxDN() uint16 { return uint16(d.maxDN) }

// SaturationDN returns the digital value of a pixel at full well with no noise.
func (d *Detector) SaturationDN() uint16 {
	dn, _ := d.quantize(d.cfg.FullWell)
	return dn
}

// readout runs the per-pixel stages in their fixed order:
// shot noise, dark current, read noise, full-well clip, bias, gain, quantization.
func (d *Detector) readout(lambda Real, s Sampler) (uint16, Clip) {
	e := lambda
	if !d.cfg.DisableShotNoise && lambda > 0 {
		e = s.Poisson(lambda)
	}
	if d.darkMean > 0 {
		e += s.Poisson(d.darkMean)
	}
	if d.cfg.ReadNoise > 0 {
		e += s.Normal(d.cfg.ReadNoise)
	}
	var flags Clip
	if e > d.cfg.FullWell {
		e = d.cfg.FullWell
		flags |= ClipSaturated
	}
	dn, f := d.quantize(e)
	return dn, flags | f
}

// quantize applies bias and gain to an electron count and clips to the ADC range.
func (d *Detector) quantize(e Real) (uint16, Clip) {
	dn := math.Round((e + d.cfg.Bias) / d.cfg.Gain)
	switch {
	case dn > d.maxDN:
		return uint16(d.maxDN), ClipADCHigh
	case dn < 0:
		return 0, ClipADCLow
	}
	return uint16(dn), 0
}

// exposeRows reads out rows [r0, r1) of img into f.Pix using s.
func (d *Detector) exposeRows(img *Image, f *Frame, r0, r1 int, s Sampler) ClipCounts {
	var cc ClipCounts
	for i := r0 * img.Cols; i < r1*img.Cols; i++ {
		dn, flags := d.readout(img.Buf[i], s)
		f.Pix[i] = dn
		if flags != 0 {
			cc.add(flags)
		}
	}
	return cc
}

// Expose reads out an electron image sequentially, drawing noise from src.
// Equal sources (same seed and state) give identical frames; a nil src uses the
// process-wide random source. img is not modified.
func (d *Detector) Expose(img *Image, src rand.Source) (*Frame, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	f := newFrame(img.Rows, img.Cols, d.cfg.BitDepth)
	f.Clipped = d.exposeRows(img, f, 0, img.Rows, NewSampler(src))
	return f, nil
}
