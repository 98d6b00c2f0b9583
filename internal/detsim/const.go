package detsim

// Defaults used when a run config leaves a value unset.
const (
	Rows            = 256
	Cols            = 256
	PeakElectrons   = 20_000
	Frames          = 1
	Pattern         = "ramp"
	GIFDelay        = 5 // 100ths of a second per frame
	Gamma           = 1.0
	BandRows        = 16 // rows per worker band, fixes the RNG stream layout
	MaxBitDepth     = 16 // Frame stores uint16 samples
	DefaultBitDepth = 12
	MaxRawSamples   = 1 << 28 // largest RAW image accepted (2 GiB of float64)
	rawHeaderSize   = 8       // int32 rows, int32 cols
	// detector defaults (a typical scientific CMOS readout)
	DarkCurrent  = 0.1
	ReadNoise    = 5.0
	Bias         = 800.0
	FullWell     = 50_000.0
	Gain         = 5.0
	ExposureTime = 1.0
)
