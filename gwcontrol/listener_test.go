package gwcontrol_test

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"hz.tools/vrt"
	"hz.tools/vrt/gwcontrol"
	"hz.tools/vrt/registry"
	"hz.tools/vrt/sdrcap"
)

type fakeTarget struct {
	mu        sync.Mutex
	patches   []sdrcap.ConfigPatch
	subs      []*net.UDPAddr
	outcome   registry.Outcome
}

func (f *fakeTarget) ApplyConfigPatch(p sdrcap.ConfigPatch) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.patches = append(f.patches, p)
}

func (f *fakeTarget) RegisterSubscriber(addr *net.UDPAddr) registry.Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs = append(f.subs, addr)
	if f.outcome == 0 {
		return registry.Added
	}
	return f.outcome
}

func (f *fakeTarget) snapshot() ([]sdrcap.ConfigPatch, []*net.UDPAddr) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sdrcap.ConfigPatch(nil), f.patches...), append([]*net.UDPAddr(nil), f.subs...)
}

func sendContext(t *testing.T, controlAddr *net.UDPAddr, fields vrt.Context) {
	t.Helper()
	conn, err := net.DialUDP("udp", nil, controlAddr)
	require.NoError(t, err)
	defer conn.Close()

	enc := vrt.NewEncoder(0x1)
	ts := vrt.FromSeconds(vrt.TSIUTC, 1700000000)
	data, err := enc.EncodeContext(fields, ts, nil)
	require.NoError(t, err)
	_, err = conn.Write(data)
	require.NoError(t, err)
}

func TestListenerAppliesValidPatchAndRegisters(t *testing.T) {
	target := &fakeTarget{}
	l := &gwcontrol.Listener{
		Addr:        "127.0.0.1:0",
		DataPort:    4991,
		PollTimeout: 20 * time.Millisecond,
		Target:      target,
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, l.Start(ctx))
	defer l.Stop()

	rate := 2_000_000.0
	bw := 1_000_000.0
	sendContext(t, l.LocalAddr(), vrt.Context{SampleRateHz: &rate, BandwidthHz: &bw})

	require.Eventually(t, func() bool {
		patches, subs := target.snapshot()
		return len(patches) == 1 && len(subs) == 1
	}, time.Second, 10*time.Millisecond)

	patches, subs := target.snapshot()
	require.NotNil(t, patches[0].SampleRateHz)
	require.Equal(t, uint(2_000_000), *patches[0].SampleRateHz)
	require.Equal(t, 4991, subs[0].Port)
}

func TestListenerClampsOversizedBandwidth(t *testing.T) {
	target := &fakeTarget{}
	l := &gwcontrol.Listener{
		Addr:        "127.0.0.1:0",
		DataPort:    4991,
		PollTimeout: 20 * time.Millisecond,
		Target:      target,
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, l.Start(ctx))
	defer l.Stop()

	rate := 1_000_000.0
	bw := 900_000.0
	sendContext(t, l.LocalAddr(), vrt.Context{SampleRateHz: &rate, BandwidthHz: &bw})

	require.Eventually(t, func() bool {
		patches, _ := target.snapshot()
		return len(patches) == 1
	}, time.Second, 10*time.Millisecond)

	patches, _ := target.snapshot()
	require.InDelta(t, 800_000.0, float64(*patches[0].BandwidthHz), 1.0)
}

func TestListenerDropsNegativeSampleRate(t *testing.T) {
	target := &fakeTarget{}
	l := &gwcontrol.Listener{
		Addr:        "127.0.0.1:0",
		DataPort:    4991,
		PollTimeout: 20 * time.Millisecond,
		Target:      target,
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, l.Start(ctx))
	defer l.Stop()

	rate := -5.0
	sendContext(t, l.LocalAddr(), vrt.Context{SampleRateHz: &rate})

	time.Sleep(100 * time.Millisecond)
	patches, _ := target.snapshot()
	require.Empty(t, patches)
	require.Equal(t, uint64(1), l.Stats().PatchesRejected)
}
