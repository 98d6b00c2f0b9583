package detsim

// Clip flags what happened to a pixel during readout.
type Clip uint8

const (
	ClipSaturated Clip = 1 << iota // electron count exceeded full well
	ClipADCHigh                    // digital value exceeded 2^bitDepth - 1
	ClipADCLow                     // digital value fell below zero
)

// ClipCounts counts clipped pixels per Clip flag. A pixel may be counted under
// more than one flag (saturated and above the ADC range, for example).
type ClipCounts struct {
	Saturated int `json:"saturated" cbor:"saturated"`
	ADCHigh   int `json:"adcHigh" cbor:"adcHigh"`
	ADCLow    int `json:"adcLow" cbor:"adcLow"`
}

func (c *ClipCounts) add(f Clip) {
	if f&ClipSaturated != 0 {
		c.Saturated++
	}
	if f&ClipADCHigh != 0 {
		c.ADCHigh++
	}
	if f&ClipADCLow != 0 {
		c.ADCLow++
	}
}

func (c *ClipCounts) merge(o ClipCounts) {
	c.Saturated += o.Saturated
	c.ADCHigh += o.ADCHigh
	c.ADCLow += o.ADCLow
}

// Total returns the sum of all counters.
func (c ClipCounts) Total() int {
	return c.Saturated + c.ADCHigh + c.ADCLow
}
