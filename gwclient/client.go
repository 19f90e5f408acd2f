package gwclient

import (
	"context"
	"net"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"

	"hz.tools/vrt"
)

// defaultQueueCapacity is used when Client.QueueCapacity is zero.
const defaultQueueCapacity = 256

// maxDatagramSize bounds a single read from the data socket.
const maxDatagramSize = 65535

// SamplesMessage is one decoded Signal Data packet queued for delivery.
type SamplesMessage struct {
	Packet  vrt.Packet
	Samples []complex128
}

// Client binds a VRT data port and demultiplexes incoming packets to
// caller-supplied callbacks. The zero value is usable once Addr and at
// least one callback are set.
type Client struct {
	// Addr is the data socket's local address, e.g. ":4991".
	Addr string

	// Scale is the fixed-point scale factor used to decode Signal Data
	// payloads. Defaults to vrt.DefaultScale.
	Scale float64

	// QueueCapacity bounds the internal Signal Data delivery queue.
	// Defaults to defaultQueueCapacity.
	QueueCapacity int

	// OnSamples is invoked once per decoded Signal Data packet, from a
	// dedicated dispatch goroutine separate from the socket read loop. It
	// must not block for long: a slow callback only delays further
	// delivery, it never blocks the receive loop, but a backed-up queue
	// still means data is being dropped upstream of it.
	OnSamples func(SamplesMessage)

	// OnContext is invoked once per decoded Context packet, directly from
	// the receive loop. Per the callback contract, it must not block.
	OnContext func(vrt.Context)

	Log log.FieldLogger

	conn   *net.UDPConn
	queue  chan SamplesMessage
	cancel context.CancelFunc
	doneCh chan struct{}

	packetsReceived uint64
	samplesReceived uint64
	otherDropped    uint64
	queueDropped    uint64

	lastContext atomic.Pointer[vrt.Context]
}

// Start binds the data socket and begins the receive and dispatch loops.
func (c *Client) Start(ctx context.Context) error {
	if c.Scale == 0 {
		c.Scale = vrt.DefaultScale
	}
	if c.QueueCapacity == 0 {
		c.QueueCapacity = defaultQueueCapacity
	}
	if c.Log == nil {
		c.Log = log.StandardLogger()
	}

	addr, err := net.ResolveUDPAddr("udp", c.Addr)
	if err != nil {
		return err
	}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return err
	}
	c.conn = conn
	c.queue = make(chan SamplesMessage, c.QueueCapacity)

	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.doneCh = make(chan struct{})

	dispatchDone := make(chan struct{})
	go c.dispatch(runCtx, dispatchDone)
	go c.receive(runCtx, dispatchDone)

	return nil
}

// Stop cancels both loops and closes the data socket.
func (c *Client) Stop() {
	if c.cancel != nil {
		c.cancel()
	}
	if c.doneCh != nil {
		<-c.doneCh
	}
	if c.conn != nil {
		c.conn.Close()
	}
}

// LocalAddr returns the data socket's bound address.
func (c *Client) LocalAddr() *net.UDPAddr {
	return c.conn.LocalAddr().(*net.UDPAddr)
}

// LastContext returns the most recently received Context, or nil if none
// has arrived yet.
func (c *Client) LastContext() *vrt.Context {
	return c.lastContext.Load()
}

func (c *Client) receive(ctx context.Context, dispatchDone <-chan struct{}) {
	defer close(c.doneCh)
	buf := make([]byte, maxDatagramSize)

	for {
		select {
		case <-ctx.Done():
			<-dispatchDone
			return
		default:
		}

		c.conn.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
		n, _, err := c.conn.ReadFromUDP(buf)
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			select {
			case <-ctx.Done():
				<-dispatchDone
				return
			default:
			}
			continue
		}

		c.handle(buf[:n])
	}
}

func (c *Client) handle(data []byte) {
	atomic.AddUint64(&c.packetsReceived, 1)

	pkt, err := vrt.Decode(data)
	if err != nil {
		atomic.AddUint64(&c.otherDropped, 1)
		return
	}

	switch {
	case pkt.SignalData != nil:
		samples, err := vrt.ToIQSamples(pkt.SignalData.Payload, c.Scale)
		if err != nil {
			atomic.AddUint64(&c.otherDropped, 1)
			return
		}
		atomic.AddUint64(&c.samplesReceived, uint64(len(samples)))
		msg := SamplesMessage{Packet: pkt, Samples: samples}
		select {
		case c.queue <- msg:
		default:
			atomic.AddUint64(&c.queueDropped, 1)
		}
	case pkt.Context != nil:
		fields := pkt.Context.Fields
		c.lastContext.Store(&fields)
		if c.OnContext != nil {
			c.OnContext(fields)
		}
	default:
		atomic.AddUint64(&c.otherDropped, 1)
	}
}

func (c *Client) dispatch(ctx context.Context, done chan<- struct{}) {
	defer close(done)
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-c.queue:
			if c.OnSamples != nil {
				c.OnSamples(msg)
			}
		}
	}
}

// Stats is a point-in-time snapshot of the client's counters.
type Stats struct {
	PacketsReceived uint64
	SamplesReceived uint64
	OtherDropped    uint64
	QueueDropped    uint64
}

// Stats returns the client's running counters.
func (c *Client) Stats() Stats {
	return Stats{
		PacketsReceived: atomic.LoadUint64(&c.packetsReceived),
		SamplesReceived: atomic.LoadUint64(&c.samplesReceived),
		OtherDropped:    atomic.LoadUint64(&c.otherDropped),
		QueueDropped:    atomic.LoadUint64(&c.queueDropped),
	}
}

// vim: foldmethod=marker
