package sdrcap

import (
	"context"
	"fmt"

	hsdr "hz.tools/vrt/sdr"
)

// Hardware adapts a single hz.tools/vrt/sdr.Receiver (the teacher's
// broader device interface) into the narrow Capability this gateway uses.
// Open is expected to dial and return a concrete Receiver implementation;
// none is vendored in this repo, so a caller wiring a real device supplies
// its own. It supports exactly one enabled channel, since hsdr.Receiver
// exposes a single baseband stream per device; a real multi-channel front
// end would need its own Capability implementation composing several
// Receivers.
type Hardware struct {
	// Open connects to and returns the underlying device. It is called
	// once, from Connect.
	Open func(ctx context.Context) (hsdr.Receiver, error)

	dev    hsdr.Receiver
	stream hsdr.ReadCloser
	cfg    Config
}

// Connect implements Capability.
func (h *Hardware) Connect(ctx context.Context) error {
	if h.Open == nil {
		return ErrDeviceUnavailable
	}
	dev, err := h.Open(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDeviceUnavailable, err)
	}
	h.dev = dev
	return nil
}

// ApplyConfig implements Capability.
func (h *Hardware) ApplyConfig(cfg Config) error {
	if h.dev == nil {
		return ErrDeviceUnavailable
	}
	if len(cfg.EnabledChannels) != 1 {
		return &ConfigRejectedError{Field: "enabled_channels", Requested: cfg.EnabledChannels, Permitted: "exactly one channel"}
	}

	if err := h.dev.SetCenterFrequency(cfg.CenterFreqHz); err != nil {
		return err
	}
	if err := h.dev.SetSampleRate(cfg.SampleRateHz); err != nil {
		return err
	}
	switch cfg.GainMode {
	case GainModeManual:
		if err := h.dev.SetAutomaticGain(false); err != nil && err != hsdr.ErrNotSupported {
			return err
		}
		if stages, err := h.dev.GetGainStages(); err == nil && len(stages) > 0 {
			if err := h.dev.SetGain(stages[0], float32(cfg.GainDb)); err != nil {
				return err
			}
		}
	default:
		if err := h.dev.SetAutomaticGain(true); err != nil && err != hsdr.ErrNotSupported {
			return err
		}
	}

	actualFreq, err := h.dev.GetCenterFrequency()
	if err != nil {
		return err
	}
	actualRate, err := h.dev.GetSampleRate()
	if err != nil {
		return err
	}

	h.cfg = cfg
	h.cfg.CenterFreqHz = actualFreq
	h.cfg.SampleRateHz = actualRate

	stream, err := h.dev.StartRx()
	if err != nil {
		return err
	}
	if h.stream != nil {
		h.stream.Close()
	}
	h.stream = stream
	return nil
}

// CurrentConfig implements Capability.
func (h *Hardware) CurrentConfig() Config {
	return h.cfg
}

// Receive implements Capability.
func (h *Hardware) Receive() ([]ChannelBuffer, bool) {
	if h.stream == nil || h.cfg.AcquisitionBufferSize == 0 {
		return nil, false
	}
	buf := make(hsdr.SamplesC64, h.cfg.AcquisitionBufferSize)
	n, err := hsdr.ReadFull(h.stream, buf)
	if err != nil || n == 0 {
		return nil, false
	}
	out := make(ChannelBuffer, n)
	for i, s := range buf[:n] {
		out[i] = complex(float64(real(s)), float64(imag(s)))
	}
	return []ChannelBuffer{out}, true
}

// Disconnect implements Capability.
func (h *Hardware) Disconnect() error {
	if h.stream != nil {
		h.stream.Close()
		h.stream = nil
	}
	if h.dev == nil {
		return nil
	}
	err := h.dev.Close()
	h.dev = nil
	return err
}

var _ Capability = (*Hardware)(nil)

// vim: foldmethod=marker
