package sdrcap

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// simulatedIFOffsetHz is the fixed intermediate-frequency offset the
// simulated tone is generated at, independent of configured center
// frequency (mirroring testutils.CW's role in the teacher's test suite,
// adapted here to run continuously instead of once per test).
const simulatedIFOffsetHz = 1_000_000.0

// simulatedNoiseAmplitude is the standard deviation of the additive white
// noise mixed into the simulated tone.
const simulatedNoiseAmplitude = 0.02

// Simulated is a Capability implementation that synthesizes, per enabled
// channel, a constant-amplitude tone at simulatedIFOffsetHz plus additive
// white noise. It throttles Receive to real time based on SampleRateHz so
// that downstream backpressure and timing behavior can be exercised
// without real hardware.
type Simulated struct {
	rng *rand.Rand

	cfg       Config
	connected bool
	phase     []float64
	lastRecv  time.Time
}

// Connect implements Capability.
func (s *Simulated) Connect(ctx context.Context) error {
	s.connected = true
	s.rng = rand.New(rand.NewSource(1))
	return nil
}

// ApplyConfig implements Capability. Simulated never rejects or coerces a
// configuration; the accepted config is always exactly the requested one.
func (s *Simulated) ApplyConfig(cfg Config) error {
	if !s.connected {
		return ErrDeviceUnavailable
	}
	s.cfg = cfg
	s.phase = make([]float64, len(cfg.EnabledChannels))
	return nil
}

// CurrentConfig implements Capability.
func (s *Simulated) CurrentConfig() Config {
	return s.cfg
}

// Receive implements Capability.
func (s *Simulated) Receive() ([]ChannelBuffer, bool) {
	if !s.connected || s.cfg.AcquisitionBufferSize == 0 || len(s.cfg.EnabledChannels) == 0 {
		return nil, false
	}

	n := s.cfg.AcquisitionBufferSize
	sampleRate := float64(s.cfg.SampleRateHz)
	if sampleRate <= 0 {
		return nil, false
	}

	s.throttle(n, sampleRate)

	buffers := make([]ChannelBuffer, len(s.cfg.EnabledChannels))
	tau := 2 * math.Pi
	dt := 1 / sampleRate
	for ch := range s.cfg.EnabledChannels {
		buf := make(ChannelBuffer, n)
		phase := s.phase[ch]
		for i := 0; i < n; i++ {
			phase += tau * simulatedIFOffsetHz * dt
			noiseI := s.rng.NormFloat64() * simulatedNoiseAmplitude
			noiseQ := s.rng.NormFloat64() * simulatedNoiseAmplitude
			buf[i] = complex(0.5*math.Cos(phase)+noiseI, 0.5*math.Sin(phase)+noiseQ)
		}
		s.phase[ch] = math.Mod(phase, tau)
		buffers[ch] = buf
	}
	return buffers, true
}

// throttle sleeps until the wallclock time a buffer of n samples at
// sampleRate actually takes to acquire has elapsed, so callers exercise the
// same pacing a real device would impose.
func (s *Simulated) throttle(n int, sampleRate float64) {
	want := time.Duration(float64(n) / sampleRate * float64(time.Second))
	if s.lastRecv.IsZero() {
		s.lastRecv = time.Now()
		return
	}
	elapsed := time.Since(s.lastRecv)
	if elapsed < want {
		time.Sleep(want - elapsed)
	}
	s.lastRecv = time.Now()
}

// Disconnect implements Capability.
func (s *Simulated) Disconnect() error {
	s.connected = false
	return nil
}

var _ Capability = (*Simulated)(nil)

// vim: foldmethod=marker
