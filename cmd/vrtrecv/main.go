// Command vrtrecv is a minimal example VRT receiver: it binds a data port,
// prints a line per Context update and a running sample count, and exits
// on SIGINT/SIGTERM.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"hz.tools/vrt"
	"hz.tools/vrt/gwclient"
)

func main() {
	var (
		addr        = pflag.StringP("addr", "a", ":4991", "data socket address to bind")
		logInterval = pflag.Duration("log-interval", 5*time.Second, "how often to print a running total")
	)
	pflag.Parse()

	var samples uint64

	c := &gwclient.Client{
		Addr: *addr,
		OnSamples: func(msg gwclient.SamplesMessage) {
			atomic.AddUint64(&samples, uint64(len(msg.Samples)))
		},
		OnContext: func(ctx vrt.Context) {
			log.WithFields(log.Fields{
				"bandwidth_hz":    derefFloat(ctx.BandwidthHz),
				"sample_rate_hz":  derefFloat(ctx.SampleRateHz),
				"rf_reference_hz": derefFloat(ctx.RFReferenceHz),
			}).Info("vrtrecv: context update")
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := c.Start(ctx); err != nil {
		log.WithError(err).Fatal("vrtrecv: starting client")
	}
	defer c.Stop()

	log.WithField("addr", c.LocalAddr()).Info("vrtrecv: listening")

	ticker := time.NewTicker(*logInterval)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case <-sigCh:
			fmt.Printf("received %d samples total\n", atomic.LoadUint64(&samples))
			return
		case <-ticker.C:
			stats := c.Stats()
			log.WithFields(log.Fields{
				"packets_received": stats.PacketsReceived,
				"samples_received": stats.SamplesReceived,
				"queue_dropped":    stats.QueueDropped,
			}).Info("vrtrecv: running totals")
		}
	}
}

func derefFloat(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

// vim: foldmethod=marker
