package gwserver_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"hz.tools/rf"
	"hz.tools/vrt"
	"hz.tools/vrt/gwserver"
	"hz.tools/vrt/registry"
	"hz.tools/vrt/sdrcap"
)

func newTestServer(t *testing.T) (*gwserver.Server, *sdrcap.Simulated) {
	t.Helper()
	sim := &sdrcap.Simulated{}

	cfg := gwserver.DefaultConfig()
	cfg.DataAddr = "127.0.0.1:0"
	cfg.SamplesPerPacket = 8
	cfg.ContextInterval = 2
	cfg.SweepInterval = time.Hour
	cfg.AcquireRetryDelay = time.Millisecond
	cfg.InitialConfig = sdrcap.Config{
		CenterFreqHz:          100 * rf.MHz,
		SampleRateHz:          8000,
		BandwidthHz:           4000,
		GainDb:                10,
		EnabledChannels:       []int{0},
		AcquisitionBufferSize: 16,
	}

	s := gwserver.NewServer(sim, cfg)
	return s, sim
}

func TestServerFansOutSignalDataAndContext(t *testing.T) {
	s, _ := newTestServer(t)

	client, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.ParseIP("127.0.0.1")})
	require.NoError(t, err)
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, s.Start(ctx))
	defer s.Stop()

	outcome := s.RegisterSubscriber(client.LocalAddr().(*net.UDPAddr))
	require.Equal(t, registry.Added, outcome)

	sawSignalData := false
	sawContext := false
	deadline := time.Now().Add(2 * time.Second)
	buf := make([]byte, 2048)
	for time.Now().Before(deadline) && !(sawSignalData && sawContext) {
		client.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
		n, _, err := client.ReadFromUDP(buf)
		if err != nil {
			continue
		}
		pkt, err := vrt.Decode(buf[:n])
		if err != nil {
			continue
		}
		if pkt.SignalData != nil {
			sawSignalData = true
		}
		if pkt.Context != nil {
			sawContext = true
		}
	}

	require.True(t, sawSignalData, "expected at least one signal data packet")
	require.True(t, sawContext, "expected at least one context packet (scheduled or on-subscribe)")
}

func TestServerAppliesConfigPatch(t *testing.T) {
	s, sim := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, s.Start(ctx))
	defer s.Stop()

	newRate := uint(16000)
	s.ApplyConfigPatch(sdrcap.ConfigPatch{SampleRateHz: &newRate})

	require.Eventually(t, func() bool {
		return sim.CurrentConfig().SampleRateHz == newRate
	}, 2*time.Second, 10*time.Millisecond)
}
