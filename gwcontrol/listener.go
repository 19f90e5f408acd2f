package gwcontrol

import (
	"context"
	"net"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"

	"hz.tools/rf"
	"hz.tools/vrt"
	"hz.tools/vrt/registry"
	"hz.tools/vrt/sdrcap"
)

// clampedBandwidthFraction mirrors sdrcap.Config.Clamped's constant: a
// patch that requests both a sample rate and a bandwidth wider than this
// fraction of it is clamped here, at validation time, rather than left for
// the streaming server to coerce silently.
const clampedBandwidthFraction = 0.8

// maxDatagramSize bounds a single read from the control socket.
const maxDatagramSize = 65535

// Target is the narrow surface the control listener needs from the
// streaming server: apply a configuration patch, and register a
// data-plane subscriber. *gwserver.Server satisfies this.
type Target interface {
	ApplyConfigPatch(sdrcap.ConfigPatch)
	RegisterSubscriber(addr *net.UDPAddr) registry.Outcome
}

// Listener is the control-port UDP listener.
type Listener struct {
	// Addr is the control socket's local address, e.g. ":4990".
	Addr string

	// DataPort is the port subscribers are registered against: the
	// sender's IP paired with this port, not the control packet's source
	// port, since the control and data sockets are independent.
	DataPort int

	// PollTimeout bounds how long a single read blocks before the loop
	// re-checks for cancellation. Defaults to 100ms.
	PollTimeout time.Duration

	Target Target
	Log    log.FieldLogger

	conn   *net.UDPConn
	cancel context.CancelFunc
	doneCh chan struct{}

	packetsReceived uint64
	decodeErrors    uint64
	patchesApplied  uint64
	patchesRejected uint64
}

// Start binds the control socket and begins the receive loop in a
// background goroutine.
func (l *Listener) Start(ctx context.Context) error {
	if l.PollTimeout == 0 {
		l.PollTimeout = 100 * time.Millisecond
	}
	if l.Log == nil {
		l.Log = log.StandardLogger()
	}

	addr, err := net.ResolveUDPAddr("udp", l.Addr)
	if err != nil {
		return err
	}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return err
	}
	l.conn = conn

	runCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.doneCh = make(chan struct{})

	go l.run(runCtx)
	return nil
}

// LocalAddr returns the control socket's bound address. Useful when Addr
// was given with a zero port, e.g. in tests.
func (l *Listener) LocalAddr() *net.UDPAddr {
	return l.conn.LocalAddr().(*net.UDPAddr)
}

// Stop cancels the receive loop and waits for it to exit before closing the
// socket.
func (l *Listener) Stop() {
	if l.cancel != nil {
		l.cancel()
	}
	if l.doneCh != nil {
		<-l.doneCh
	}
	if l.conn != nil {
		l.conn.Close()
	}
}

func (l *Listener) run(ctx context.Context) {
	defer close(l.doneCh)
	buf := make([]byte, maxDatagramSize)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		l.conn.SetReadDeadline(time.Now().Add(l.PollTimeout))
		n, from, err := l.conn.ReadFromUDP(buf)
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			select {
			case <-ctx.Done():
				return
			default:
			}
			continue
		}

		l.handle(buf[:n], from)
	}
}

func (l *Listener) handle(data []byte, from *net.UDPAddr) {
	atomic.AddUint64(&l.packetsReceived, 1)

	pkt, err := vrt.Decode(data)
	if err != nil || pkt.Context == nil {
		atomic.AddUint64(&l.decodeErrors, 1)
		l.Log.WithField("from", from).Debug("gwcontrol: dropping undecodable control datagram")
		return
	}

	if !fieldsValid(pkt.Context.Fields) {
		atomic.AddUint64(&l.patchesRejected, 1)
		l.Log.WithField("from", from).Warn("gwcontrol: dropping invalid configuration patch")
		return
	}
	patch := clampPatch(patchFromContext(pkt.Context.Fields))

	if !patch.IsEmpty() {
		l.Target.ApplyConfigPatch(patch)
		atomic.AddUint64(&l.patchesApplied, 1)
	}

	dataAddr := &net.UDPAddr{IP: from.IP, Port: l.DataPort, Zone: from.Zone}
	l.Target.RegisterSubscriber(dataAddr)
}

// patchFromContext translates the present CIF fields of a decoded Context
// packet into an sdrcap.ConfigPatch.
func patchFromContext(fields vrt.Context) sdrcap.ConfigPatch {
	var patch sdrcap.ConfigPatch
	if fields.RFReferenceHz != nil {
		v := rf.Hz(*fields.RFReferenceHz)
		patch.CenterFreqHz = &v
	}
	if fields.SampleRateHz != nil {
		v := uint(*fields.SampleRateHz)
		patch.SampleRateHz = &v
	}
	if fields.BandwidthHz != nil {
		v := rf.Hz(*fields.BandwidthHz)
		patch.BandwidthHz = &v
	}
	if fields.Gain != nil {
		v := fields.Gain.Stage1
		patch.GainDb = &v
	}
	return patch
}

// fieldsValid rejects a patch carrying a negative or zero sample rate, or a
// negative bandwidth, before any fixed-point-to-Hz conversion takes place.
func fieldsValid(fields vrt.Context) bool {
	if fields.SampleRateHz != nil && *fields.SampleRateHz <= 0 {
		return false
	}
	if fields.BandwidthHz != nil && *fields.BandwidthHz < 0 {
		return false
	}
	return true
}

// clampPatch clamps bandwidth to clampedBandwidthFraction*sampleRate when
// the patch carries both fields and bandwidth exceeds that fraction of the
// sample rate.
func clampPatch(patch sdrcap.ConfigPatch) sdrcap.ConfigPatch {
	if patch.SampleRateHz != nil && patch.BandwidthHz != nil {
		clamped := rf.Hz(clampedBandwidthFraction * float64(*patch.SampleRateHz))
		if *patch.BandwidthHz > clamped {
			patch.BandwidthHz = &clamped
		}
	}
	return patch
}

// Stats is a point-in-time snapshot of the listener's counters.
type Stats struct {
	PacketsReceived uint64
	DecodeErrors    uint64
	PatchesApplied  uint64
	PatchesRejected uint64
}

// Stats returns the listener's running counters.
func (l *Listener) Stats() Stats {
	return Stats{
		PacketsReceived: atomic.LoadUint64(&l.packetsReceived),
		DecodeErrors:    atomic.LoadUint64(&l.decodeErrors),
		PatchesApplied:  atomic.LoadUint64(&l.patchesApplied),
		PatchesRejected: atomic.LoadUint64(&l.patchesRejected),
	}
}

// vim: foldmethod=marker
