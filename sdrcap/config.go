package sdrcap

import "hz.tools/rf"

// GainMode selects how the SDR's gain is controlled.
type GainMode uint8

const (
	// GainModeManual means the gain is a fixed value the caller sets.
	GainModeManual GainMode = iota
	// GainModeAGCSlow means the hardware's slow-attack automatic gain
	// control loop is in control.
	GainModeAGCSlow
	// GainModeAGCFast means the hardware's fast-attack automatic gain
	// control loop is in control.
	GainModeAGCFast
	// GainModeAGCHybrid means the hardware blends manual and automatic
	// gain control.
	GainModeAGCHybrid
)

func (m GainMode) String() string {
	switch m {
	case GainModeManual:
		return "manual"
	case GainModeAGCSlow:
		return "agc_slow"
	case GainModeAGCFast:
		return "agc_fast"
	case GainModeAGCHybrid:
		return "agc_hybrid"
	default:
		return "unknown"
	}
}

// Config is the SDR configuration record: everything the streaming gateway
// may request of the device, and everything it reports back to remote
// subscribers once the device has accepted it.
type Config struct {
	CenterFreqHz          rf.Hz
	SampleRateHz          uint
	BandwidthHz           rf.Hz
	GainDb                float64
	GainMode              GainMode
	EnabledChannels       []int
	AcquisitionBufferSize int
}

// clampedBandwidthFraction is the fraction of SampleRateHz that an invalid
// (too wide) BandwidthHz is clamped down to.
const clampedBandwidthFraction = 0.8

// Clamped returns a copy of cfg with BandwidthHz clamped to
// clampedBandwidthFraction*SampleRateHz if it exceeds that value, and
// reports whether a clamp was applied.
func (cfg Config) Clamped() (Config, bool) {
	maxBandwidth := rf.Hz(clampedBandwidthFraction * float64(cfg.SampleRateHz))
	if cfg.BandwidthHz <= maxBandwidth {
		return cfg, false
	}
	cfg.BandwidthHz = maxBandwidth
	return cfg, true
}

// vim: foldmethod=marker
