package detsim

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lukaszgryglicki/detsim/internal/catalog"
)

// RunResult is what a simulation run produced.
type RunResult struct {
	ID     string
	Seed   uint64
	Frames []*Frame
	Stats  []FrameStats
}

// Run loads the config at cfgPath and runs it.
func Run(cfgPath string) (*RunResult, error) {
	cfg, err := LoadConfig(cfgPath)
	if err != nil {
		return nil, err
	}
	return RunConfig(cfg, cfgPath)
}

// loadInput returns the normalized input image named by cfg, or the synthetic pattern.
func loadInput(cfg *Config) (*Image, error) {
	switch {
	case cfg.Input == "":
		if cfg.Pattern == "flat" {
			return FlatField(cfg.Rows, cfg.Cols, 1)
		}
		return Ramp(cfg.Rows, cfg.Cols)
	case strings.EqualFold(filepath.Ext(cfg.Input), ".png"):
		return LoadPNG(cfg.Input)
	default:
		return LoadRaw(cfg.Input)
	}
}

// RunConfig exposes cfg.Frames frames of the configured input and writes the
// requested outputs. Frame i uses seed+i. cfgPath is only recorded in the catalog.
func RunConfig(cfg *Config, cfgPath string) (*RunResult, error) {
	det, err := NewDetector(cfg.Detector)
	if err != nil {
		return nil, err
	}
	src, err := loadInput(cfg)
	if err != nil {
		return nil, err
	}
	electrons, err := src.ScaleToPeak(cfg.PeakElectrons)
	if err != nil {
		return nil, err
	}

	var seed uint64
	if cfg.Seed != nil {
		seed = *cfg.Seed
	} else {
		seed = uint64(time.Now().UnixNano())
	}
	res := &RunResult{ID: uuid.NewString(), Seed: seed}
	Logger.Info("run started", "id", res.ID, "rows", electrons.Rows, "cols", electrons.Cols,
		"peak_electrons", cfg.PeakElectrons, "frames", cfg.Frames, "seed", seed)

	start := time.Now()
	for i := 0; i < cfg.Frames; i++ {
		f, err := det.ExposeSeeded(electrons, seed+uint64(i), cfg.Workers)
		if err != nil {
			return nil, err
		}
		st := f.Stats()
		res.Frames = append(res.Frames, f)
		res.Stats = append(res.Stats, st)
		Logger.Debug("frame exposed", "id", res.ID, "frame", i, "mean_dn", st.Mean, "std_dn", st.StdDev,
			"saturated", f.Clipped.Saturated, "adc_high", f.Clipped.ADCHigh, "adc_low", f.Clipped.ADCLow)
	}
	DebugLog("Frames: %d, time: %s", cfg.Frames, time.Since(start))

	if err := writeOutputs(cfg, det, electrons, res); err != nil {
		return nil, err
	}
	if cfg.Catalog != "" {
		if err := recordRun(cfg.Catalog, cfgPath, res); err != nil {
			return nil, err
		}
	}
	Logger.Info("run finished", "id", res.ID, "frames", len(res.Frames), "elapsed", time.Since(start))
	return res, nil
}

func writeOutputs(cfg *Config, det *Detector, electrons *Image, res *RunResult) error {
	if cfg.RawOut != "" {
		if err := electrons.SaveRaw(cfg.RawOut); err != nil {
			return fmt.Errorf("raw output: %w", err)
		}
		DebugLog("Saved electron image: %s", cfg.RawOut)
	}
	if cfg.PNGOut != "" {
		prefix := strings.TrimSuffix(cfg.PNGOut, ".png")
		if err := SaveFramePNGSequence16(res.Frames, prefix); err != nil {
			return fmt.Errorf("png output: %w", err)
		}
		DebugLog("Saved PNG sequence with prefix: %s", prefix)
	}
	if cfg.GIFOut != "" {
		if err := SaveAnimatedGIF(res.Frames, cfg.GIFOut, cfg.GIFDelay, cfg.Gamma); err != nil {
			return fmt.Errorf("gif output: %w", err)
		}
		DebugLog("Saved animated GIF: %s", cfg.GIFOut)
	}
	if cfg.ArchiveOut != "" {
		recs := make([]FrameRecord, len(res.Frames))
		for i, f := range res.Frames {
			recs[i] = NewFrameRecord(res.ID, i, res.Seed+uint64(i), det, f)
		}
		if err := WriteArchive(cfg.ArchiveOut, recs); err != nil {
			return fmt.Errorf("archive output: %w", err)
		}
		DebugLog("Saved frame archive: %s", cfg.ArchiveOut)
	}
	return nil
}

func recordRun(path, cfgPath string, res *RunResult) error {
	store, err := catalog.NewStore(path)
	if err != nil {
		return err
	}
	defer store.Close()
	now := time.Now()
	for i, f := range res.Frames {
		err := store.RecordRun(catalog.Run{
			ID:         res.ID,
			FrameIndex: i,
			CreatedAt:  now,
			ConfigPath: cfgPath,
			Seed:       res.Seed + uint64(i),
			Rows:       f.Rows,
			Cols:       f.Cols,
			BitDepth:   f.BitDepth,
			MeanDN:     res.Stats[i].Mean,
			StdDN:      res.Stats[i].StdDev,
			Saturated:  f.Clipped.Saturated,
			ADCHigh:    f.Clipped.ADCHigh,
			ADCLow:     f.Clipped.ADCLow,
		})
		if err != nil {
			return err
		}
	}
	return nil
}
