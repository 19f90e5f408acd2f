package sdrcap

import (
	"context"
	"fmt"
)

// ErrDeviceUnavailable is returned by Connect when the underlying hardware
// cannot be reached.
var ErrDeviceUnavailable = fmt.Errorf("sdrcap: device unavailable")

// ConfigRejectedError is returned by ApplyConfig when a requested field
// cannot be honored at all,
// as opposed to being silently coerced to the nearest permitted value.
type ConfigRejectedError struct {
	Field     string
	Requested interface{}
	Permitted interface{}
}

func (e *ConfigRejectedError) Error() string {
	return fmt.Sprintf("sdrcap: config rejected: field %q requested %v, permitted %v", e.Field, e.Requested, e.Permitted)
}

// ChannelBuffer is a contiguous run of complex baseband samples for one
// enabled channel.
type ChannelBuffer []complex128

// Capability is the narrow interface the streaming gateway depends on. A
// Hardware value wraps a real device; a Simulated value synthesizes
// signal. Both are safe to use from a single goroutine only - the
// streaming server is that goroutine's sole owner, per the gateway's
// concurrency model.
type Capability interface {
	// Connect opens the device. It must be called exactly once, before any
	// other method.
	Connect(ctx context.Context) error

	// ApplyConfig is the only mutator. Implementations may coerce
	// requested values to the nearest permitted value; CurrentConfig
	// reflects what was actually accepted.
	ApplyConfig(Config) error

	// CurrentConfig reflects the last configuration accepted by the
	// device, which may differ from what was last requested.
	CurrentConfig() Config

	// Receive acquires the next buffer set: one ChannelBuffer per entry in
	// CurrentConfig().EnabledChannels, in that order. ok is false on a
	// transient acquisition failure; the caller should retry shortly.
	Receive() (buffers []ChannelBuffer, ok bool)

	// Disconnect releases the device. It is idempotent.
	Disconnect() error
}

// DroppedBufferCounter is an optional capability a Capability may also
// implement: a monotonically increasing count of acquisition buffers the
// device has dropped (overrun), never reset between calls. Callers should
// type-assert for it the way the teacher's rtltcp server type-asserts for
// Tunerable.
type DroppedBufferCounter interface {
	Dropped() uint64
}

// vim: foldmethod=marker
