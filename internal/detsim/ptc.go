package detsim

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// PTCOptions configures a photon transfer measurement.
type PTCOptions struct {
	Rows, Cols int
	Levels     []Real // flat-field signal levels in electrons
	Seed       uint64
	Workers    int
}

// PTCPoint is the DN mean and variance of one flat field.
type PTCPoint struct {
	Electrons Real `json:"electrons"`
	Mean      Real `json:"mean"`
	Variance  Real `json:"variance"`
	Clipped   int  `json:"clipped"`
}

// PTCResult holds the measured points and the gain fitted from them.
type PTCResult struct {
	Points []PTCPoint `json:"points"`
	// Gain is the fitted conversion gain (e-/DN); 0 when fewer than two usable points.
	Gain Real `json:"gain"`
	// Offset is the fitted variance intercept (DN^2), read and quantization noise.
	Offset Real `json:"offset"`
}

// PhotonTransfer exposes one flat field per level and fits
// variance = Offset + mean/Gain over the points without clipped pixels.
// Shot-noise limited variance grows as mean/gain, so the slope is 1/gain.
func PhotonTransfer(det *Detector, opts PTCOptions) (*PTCResult, error) {
	if det == nil {
		return nil, fmt.Errorf("%w: photon transfer needs a detector", ErrInput)
	}
	if len(opts.Levels) == 0 {
		return nil, fmt.Errorf("%w: photon transfer needs at least one level", ErrInput)
	}
	res := &PTCResult{Points: make([]PTCPoint, 0, len(opts.Levels))}
	var xs, ys []Real
	for i, lvl := range opts.Levels {
		img, err := FlatField(opts.Rows, opts.Cols, lvl)
		if err != nil {
			return nil, err
		}
		f, err := det.ExposeSeeded(img, opts.Seed+uint64(i), opts.Workers)
		if err != nil {
			return nil, err
		}
		mean, variance := stat.MeanVariance(f.Values(), nil)
		p := PTCPoint{Electrons: lvl, Mean: mean, Variance: variance, Clipped: f.Clipped.Total()}
		res.Points = append(res.Points, p)
		DebugLog("PTC level %.6g e-: mean %.3f DN, variance %.3f DN^2, clipped %d", lvl, mean, variance, p.Clipped)
		if p.Clipped == 0 {
			xs = append(xs, mean)
			ys = append(ys, variance)
		}
	}
	if len(xs) >= 2 {
		alpha, beta := stat.LinearRegression(xs, ys, nil, false)
		if beta > 0 {
			res.Gain = 1 / beta
		}
		res.Offset = alpha
	}
	return res, nil
}
