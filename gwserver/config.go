package gwserver

import (
	"time"

	"hz.tools/vrt/sdrcap"
)

// Config is the streaming server's own configuration, independent of the
// SDR configuration record (sdrcap.Config): the data-plane socket, MTU,
// Context cadence, and timing knobs.
type Config struct {
	// DataAddr is the UDP address (host:port) the data socket binds to.
	// Defaults to ":4991".
	DataAddr string

	// MTU bounds the Signal Data payload size; SamplesPerPacket is derived
	// from it via vrtstream.MaxSamplesPerPacket unless explicitly set.
	MTU int

	// SamplesPerPacket overrides the MTU-derived sample count when
	// non-zero.
	SamplesPerPacket int

	// ContextInterval is the number of Signal Data packets emitted on a
	// channel between scheduled Context packets.
	ContextInterval int

	// Scale is the fixed-point scale factor applied to outgoing I/Q
	// samples. Defaults to vrt.DefaultScale.
	Scale float64

	// DeviceID and DataType feed vrtstream.MakeStreamID for each enabled
	// channel.
	DeviceID uint8
	DataType uint8

	// SweepInterval bounds how often the subscriber registry is swept for
	// timed-out entries; the reference cadence is about once a second.
	SweepInterval time.Duration

	// ShutdownTimeout bounds how long Stop waits for the streaming task to
	// finish its current fan-out cycle before returning anyway.
	ShutdownTimeout time.Duration

	// AcquireRetryDelay is how long the streaming loop waits after a
	// Capability.Receive miss before retrying.
	AcquireRetryDelay time.Duration

	// InitialConfig is applied to the Capability once, right after
	// Connect succeeds and before the streaming loop starts. Later
	// changes arrive only through ApplyConfigPatch.
	InitialConfig sdrcap.Config
}

// DefaultConfig returns a Config with the reference implementation's
// defaults: 1500-byte MTU (362-sample packets, as derived by
// vrtstream.MaxSamplesPerPacket), a Context every 100 packets, a ~1Hz
// registry sweep, and a 2s shutdown timeout.
func DefaultConfig() Config {
	return Config{
		DataAddr:          ":4991",
		MTU:               1500,
		ContextInterval:   100,
		Scale:             1 << 14,
		SweepInterval:     time.Second,
		ShutdownTimeout:   2 * time.Second,
		AcquireRetryDelay: 10 * time.Millisecond,
	}
}

// vim: foldmethod=marker
