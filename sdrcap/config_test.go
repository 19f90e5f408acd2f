package sdrcap_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hz.tools/rf"
	"hz.tools/vrt/sdrcap"
)

func TestConfigClampedBandwidth(t *testing.T) {
	cfg := sdrcap.Config{SampleRateHz: 10_000_000, BandwidthHz: 9_000_000}
	clamped, didClamp := cfg.Clamped()
	assert.True(t, didClamp)
	assert.InDelta(t, 8_000_000.0, float64(clamped.BandwidthHz), 1.0)
}

func TestConfigNotClampedWhenValid(t *testing.T) {
	cfg := sdrcap.Config{SampleRateHz: 10_000_000, BandwidthHz: 5_000_000}
	clamped, didClamp := cfg.Clamped()
	assert.False(t, didClamp)
	assert.Equal(t, cfg.BandwidthHz, clamped.BandwidthHz)
}

func TestSimulatedReceiveProducesEnabledChannels(t *testing.T) {
	sim := &sdrcap.Simulated{}
	require.NoError(t, sim.Connect(context.Background()))
	require.NoError(t, sim.ApplyConfig(sdrcap.Config{
		CenterFreqHz:          100 * rf.MHz,
		SampleRateHz:          1_000_000,
		BandwidthHz:           800_000,
		GainMode:              sdrcap.GainModeManual,
		EnabledChannels:       []int{0, 1},
		AcquisitionBufferSize: 64,
	}))

	buffers, ok := sim.Receive()
	require.True(t, ok)
	require.Len(t, buffers, 2)
	assert.Len(t, buffers[0], 64)
	assert.Len(t, buffers[1], 64)

	require.NoError(t, sim.Disconnect())
}

func TestSimulatedReceiveBeforeConfigFails(t *testing.T) {
	sim := &sdrcap.Simulated{}
	require.NoError(t, sim.Connect(context.Background()))
	_, ok := sim.Receive()
	assert.False(t, ok)
}
