package gwserver

import (
	"context"
	"fmt"
	"net"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"

	"hz.tools/vrt"
	"hz.tools/vrt/registry"
	"hz.tools/vrt/sdrcap"
	"hz.tools/vrt/vrtstream"
)

// newSubscriberQueueDepth bounds how many just-added subscribers may be
// waiting for their context-on-subscribe packet at once. A full queue drops
// the notification, not the registration: the subscriber still receives
// Signal Data and the next scheduled Context packet.
const newSubscriberQueueDepth = 16

// Server drives one sdrcap.Capability's acquisition loop and fans the
// resulting VRT packets out to a registry.Registry of subscribers. Per the
// gateway's concurrency model, a Server's Capability and channel state
// (encoders, per-channel packet counts, latched state/event bits) are
// touched only by the single goroutine the streaming loop runs on; the
// registry is the one structure other goroutines (the control listener) may
// touch directly, via its own mutex.
type Server struct {
	cap      sdrcap.Capability
	cfg      Config
	registry *registry.Registry
	log      log.FieldLogger

	conn   *net.UDPConn
	cancel context.CancelFunc
	doneCh chan struct{}

	pendingPatch atomic.Pointer[sdrcap.ConfigPatch]
	newSubs      chan *net.UDPAddr

	stats Stats

	// encoders, packet counters and latched state bits below are owned
	// exclusively by the streaming goroutine started in Start; no lock
	// guards them.
	encoders     map[uint32]*vrt.Encoder
	sinceContext map[uint32]int
	latched      map[uint32]*vrt.StateEvent
	lastDropped  uint64
}

// NewServer creates a Server over cap, using cfg (see DefaultConfig) and a
// fresh subscriber registry.
func NewServer(cap sdrcap.Capability, cfg Config) *Server {
	return &Server{
		cap:          cap,
		cfg:          cfg,
		registry:     registry.New(),
		log:          log.StandardLogger(),
		newSubs:      make(chan *net.UDPAddr, newSubscriberQueueDepth),
		encoders:     make(map[uint32]*vrt.Encoder),
		sinceContext: make(map[uint32]int),
		latched:      make(map[uint32]*vrt.StateEvent),
	}
}

// SetLogger overrides the logger used by the streaming loop. Must be called
// before Start.
func (s *Server) SetLogger(l log.FieldLogger) {
	s.log = l
}

// Stats returns the server's live counters.
func (s *Server) Stats() *Stats {
	return &s.stats
}

// Registry returns the subscriber registry, for the control listener to
// register senders against.
func (s *Server) Registry() *registry.Registry {
	return s.registry
}

// Start connects the Capability, binds the data socket and starts the
// streaming loop in a background goroutine. It returns once both have
// succeeded; the loop itself runs until ctx is cancelled or Stop is called.
func (s *Server) Start(ctx context.Context) error {
	if err := s.cap.Connect(ctx); err != nil {
		return fmt.Errorf("gwserver: connect: %w", err)
	}
	if err := s.cap.ApplyConfig(s.cfg.InitialConfig); err != nil {
		return fmt.Errorf("gwserver: apply initial config: %w", err)
	}

	addr, err := net.ResolveUDPAddr("udp", s.cfg.DataAddr)
	if err != nil {
		return fmt.Errorf("gwserver: resolve data addr: %w", err)
	}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return fmt.Errorf("gwserver: listen data addr: %w", err)
	}
	if err := setDataSocketOptions(conn); err != nil {
		s.log.WithError(err).Warn("gwserver: could not tune data socket options")
	}
	s.conn = conn

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.doneCh = make(chan struct{})

	go s.run(runCtx)
	return nil
}

// Stop cancels the streaming loop and waits up to cfg.ShutdownTimeout for it
// to exit before releasing the data socket and the Capability regardless.
func (s *Server) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	if s.doneCh != nil {
		select {
		case <-s.doneCh:
		case <-time.After(s.cfg.ShutdownTimeout):
			s.log.Warn("gwserver: streaming loop did not stop within shutdown timeout")
		}
	}
	if s.conn != nil {
		s.conn.Close()
	}
	if err := s.cap.Disconnect(); err != nil {
		s.log.WithError(err).Warn("gwserver: disconnect")
	}
}

// RegisterSubscriber registers addr as a data-plane subscriber. On a fresh
// registration it queues addr for an immediate out-of-band Context packet
// on every active channel, without disturbing that channel's scheduled
// context_interval countdown.
func (s *Server) RegisterSubscriber(addr *net.UDPAddr) registry.Outcome {
	outcome := s.registry.RegisterOrRefresh(addr)
	if outcome == registry.Added {
		select {
		case s.newSubs <- addr:
		default:
			s.log.Warn("gwserver: new-subscriber queue full, skipping context-on-subscribe")
		}
	}
	return outcome
}

// ApplyConfigPatch hands the streaming loop a configuration change to apply
// at the start of its next iteration. A later call before the loop picks up
// an earlier one replaces it outright: only the most recent patch survives.
func (s *Server) ApplyConfigPatch(patch sdrcap.ConfigPatch) {
	p := patch
	s.pendingPatch.Store(&p)
}

func (s *Server) takePendingPatch() *sdrcap.ConfigPatch {
	return s.pendingPatch.Swap(nil)
}

func (s *Server) samplesPerPacket() int {
	if s.cfg.SamplesPerPacket > 0 {
		return s.cfg.SamplesPerPacket
	}
	return vrtstream.MaxSamplesPerPacket(s.cfg.MTU)
}

func (s *Server) encoderFor(streamID uint32) *vrt.Encoder {
	enc, ok := s.encoders[streamID]
	if !ok {
		enc = vrt.NewEncoder(streamID)
		s.encoders[streamID] = enc
	}
	return enc
}

func (s *Server) run(ctx context.Context) {
	defer close(s.doneCh)

	lastSweep := time.Now()
	samplesPerPacket := s.samplesPerPacket()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if patch := s.takePendingPatch(); patch != nil {
			if s.applyPatch(*patch) {
				s.emitReconfiguredContext()
			}
			samplesPerPacket = s.samplesPerPacket()
		}

		bufferWallclock := time.Now()
		buffers, ok := s.cap.Receive()
		if !ok {
			s.stats.addAcquisitionMiss()
			time.Sleep(s.cfg.AcquireRetryDelay)
			continue
		}

		cfg := s.cap.CurrentConfig()
		subs := s.registry.Snapshot()

		var dropped uint64
		if dc, ok := s.cap.(sdrcap.DroppedBufferCounter); ok {
			dropped = dc.Dropped()
		}
		sampleLoss := dropped > s.lastDropped
		s.lastDropped = dropped

		baseNanos := bufferWallclock.UnixNano()

		for chIdx, buf := range buffers {
			if chIdx >= len(cfg.EnabledChannels) {
				continue
			}
			channel := uint8(cfg.EnabledChannels[chIdx])
			streamID := vrtstream.MakeStreamID(channel, s.cfg.DeviceID, s.cfg.DataType)
			enc := s.encoderFor(streamID)

			if sampleLoss {
				s.latchFor(streamID).SampleLoss = true
			}

			if samplesPerPacket <= 0 {
				continue
			}

			for offset := 0; offset < len(buf); offset += samplesPerPacket {
				end := offset + samplesPerPacket
				if end > len(buf) {
					end = len(buf)
				}
				chunk := buf[offset:end]

				var sampleOffsetNanos int64
				if cfg.SampleRateHz > 0 {
					sampleOffsetNanos = int64(offset) * 1_000_000_000 / int64(cfg.SampleRateHz)
				}
				ts := vrt.FromUnixNano(vrt.TSIUTC, baseNanos+sampleOffsetNanos)

				data, err := enc.EncodeSignalData(chunk, ts, nil, nil, s.cfg.Scale)
				if err != nil {
					s.log.WithError(err).Warn("gwserver: encode signal data")
					continue
				}
				s.fanout(data, subs)
				s.stats.addSamplesSent(len(chunk))

				s.sinceContext[streamID]++
				if s.sinceContext[streamID] >= s.contextInterval() {
					s.emitScheduledContext(streamID, enc, cfg, ts, subs)
					s.sinceContext[streamID] = 0
				}
			}
		}

		s.flushNewSubscribers(cfg)

		if time.Since(lastSweep) >= s.cfg.SweepInterval {
			s.registry.Sweep()
			lastSweep = time.Now()
		}
	}
}

func (s *Server) contextInterval() int {
	if s.cfg.ContextInterval <= 0 {
		return 100
	}
	return s.cfg.ContextInterval
}

// applyPatch applies patch to the Capability and reports whether it
// succeeded. On failure the previous configuration is left in place, per
// the gateway's failure semantics for apply_config.
func (s *Server) applyPatch(patch sdrcap.ConfigPatch) bool {
	base := s.cap.CurrentConfig()
	cfg := patch.Apply(base)
	if clamped, wasClamped := cfg.Clamped(); wasClamped {
		s.log.WithField("requested_bandwidth_hz", cfg.BandwidthHz).Info("gwserver: clamped bandwidth to sample rate fraction")
		cfg = clamped
	}
	if err := s.cap.ApplyConfig(cfg); err != nil {
		s.log.WithError(err).Warn("gwserver: configuration patch rejected")
		return false
	}
	return true
}

// emitReconfiguredContext immediately sends a Context packet with the
// Capability's actual post-coercion values on every known channel. This
// establishes the happens-before edge the gateway requires between a
// config patch taking effect and subscribers observing it: it runs on the
// streaming goroutine, after ApplyConfig has returned, before the next
// Signal Data packet is encoded.
func (s *Server) emitReconfiguredContext() {
	cfg := s.cap.CurrentConfig()
	subs := s.registry.Snapshot()
	ts := vrt.FromUnixNano(vrt.TSIUTC, time.Now().UnixNano())
	for _, channel := range cfg.EnabledChannels {
		streamID := vrtstream.MakeStreamID(uint8(channel), s.cfg.DeviceID, s.cfg.DataType)
		enc := s.encoderFor(streamID)
		s.emitScheduledContext(streamID, enc, cfg, ts, subs)
		s.sinceContext[streamID] = 0
	}
}

func (s *Server) latchFor(streamID uint32) *vrt.StateEvent {
	se, ok := s.latched[streamID]
	if !ok {
		se = &vrt.StateEvent{}
		s.latched[streamID] = se
	}
	return se
}

// contextFor builds the VRT Context fields reported for streamID given the
// current SDR configuration, clearing any latched state/event bits in the
// process.
func (s *Server) contextFor(streamID uint32, cfg sdrcap.Config) vrt.Context {
	bandwidth := float64(cfg.BandwidthHz)
	rfRef := float64(cfg.CenterFreqHz)
	sampleRate := float64(cfg.SampleRateHz)
	gain := vrt.Gain{Stage1: cfg.GainDb}

	se := *s.latchFor(streamID)
	s.latched[streamID] = &vrt.StateEvent{}

	return vrt.Context{
		BandwidthHz:   &bandwidth,
		RFReferenceHz: &rfRef,
		SampleRateHz:  &sampleRate,
		Gain:          &gain,
		StateEvent:    &se,
	}
}

func (s *Server) emitScheduledContext(streamID uint32, enc *vrt.Encoder, cfg sdrcap.Config, ts vrt.Timestamp, subs []registry.Subscriber) {
	fields := s.contextFor(streamID, cfg)
	data, err := enc.EncodeContext(fields, ts, nil)
	if err != nil {
		s.log.WithError(err).Warn("gwserver: encode context")
		return
	}
	s.fanout(data, subs)
	s.stats.addContextPacketSent()
}

// flushNewSubscribers sends every channel's current Context, unicast, to
// each subscriber queued since the last iteration. This is the
// context-on-subscribe behavior: it does not reset any channel's
// context_interval countdown.
func (s *Server) flushNewSubscribers(cfg sdrcap.Config) {
	for {
		select {
		case addr := <-s.newSubs:
			ts := vrt.FromUnixNano(vrt.TSIUTC, time.Now().UnixNano())
			for streamID, enc := range s.encoders {
				fields := s.peekContextFor(streamID, cfg)
				data, err := enc.EncodeContext(fields, ts, nil)
				if err != nil {
					s.log.WithError(err).Warn("gwserver: encode context-on-subscribe")
					continue
				}
				if _, err := s.conn.WriteToUDP(data, addr); err != nil {
					s.log.WithError(err).WithField("addr", addr).Warn("gwserver: context-on-subscribe send failed")
					continue
				}
				s.stats.addPacketSent(len(data))
				s.stats.addContextPacketSent()
			}
		default:
			return
		}
	}
}

// peekContextFor is like contextFor but does not clear latched state: the
// out-of-band context-on-subscribe packet reports current state without
// consuming the next scheduled Context packet's latch.
func (s *Server) peekContextFor(streamID uint32, cfg sdrcap.Config) vrt.Context {
	bandwidth := float64(cfg.BandwidthHz)
	rfRef := float64(cfg.CenterFreqHz)
	sampleRate := float64(cfg.SampleRateHz)
	gain := vrt.Gain{Stage1: cfg.GainDb}
	se := *s.latchFor(streamID)

	return vrt.Context{
		BandwidthHz:   &bandwidth,
		RFReferenceHz: &rfRef,
		SampleRateHz:  &sampleRate,
		Gain:          &gain,
		StateEvent:    &se,
	}
}

func (s *Server) fanout(data []byte, subs []registry.Subscriber) {
	if len(subs) == 0 {
		s.stats.addPacketDropped()
		return
	}
	for _, sub := range subs {
		if _, err := s.conn.WriteToUDP(data, sub.Addr); err != nil {
			s.registry.RecordFailure(sub.Addr)
			s.stats.addPacketDropped()
			continue
		}
		s.registry.RecordSuccess(sub.Addr)
	}
	s.stats.addPacketSent(len(data))
}

// vim: foldmethod=marker
