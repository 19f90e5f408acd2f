package sdrcap

import "hz.tools/rf"

// ConfigPatch is a partial Config: only fields present (non-nil) are
// meant to override the base configuration. It is the shape the control
// listener builds from an incoming Context packet's present CIF fields.
type ConfigPatch struct {
	CenterFreqHz *rf.Hz
	SampleRateHz *uint
	BandwidthHz  *rf.Hz
	GainDb       *float64
}

// IsEmpty reports whether the patch carries no fields at all.
func (p ConfigPatch) IsEmpty() bool {
	return p.CenterFreqHz == nil && p.SampleRateHz == nil && p.BandwidthHz == nil && p.GainDb == nil
}

// Apply merges p onto base, returning the merged Config. Fields absent
// from p are taken from base unchanged.
func (p ConfigPatch) Apply(base Config) Config {
	out := base
	if p.CenterFreqHz != nil {
		out.CenterFreqHz = *p.CenterFreqHz
	}
	if p.SampleRateHz != nil {
		out.SampleRateHz = *p.SampleRateHz
	}
	if p.BandwidthHz != nil {
		out.BandwidthHz = *p.BandwidthHz
	}
	if p.GainDb != nil {
		out.GainDb = *p.GainDb
	}
	return out
}

// vim: foldmethod=marker
