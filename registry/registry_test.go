package registry

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAddr(port int) *net.UDPAddr {
	return &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: port}
}

func TestRegisterOrRefreshIdempotent(t *testing.T) {
	r := New()
	addr := testAddr(9000)
	assert.Equal(t, Added, r.RegisterOrRefresh(addr))
	assert.Equal(t, Refreshed, r.RegisterOrRefresh(addr))
	assert.Equal(t, 1, r.Len())
}

func TestRegistryCapEnforced(t *testing.T) {
	r := New()
	for i := 0; i < MaxSubscribers; i++ {
		assert.Equal(t, Added, r.RegisterOrRefresh(testAddr(9000+i)))
	}
	assert.Equal(t, Rejected, r.RegisterOrRefresh(testAddr(20000)))
	assert.Equal(t, MaxSubscribers, r.Len())
}

func TestRegistryReplacesTimedOutSlot(t *testing.T) {
	r := New()
	clock := time.Now()
	r.now = func() time.Time { return clock }

	for i := 0; i < MaxSubscribers; i++ {
		require.Equal(t, Added, r.RegisterOrRefresh(testAddr(9000+i)))
	}

	clock = clock.Add(Timeout + time.Second)
	r.Sweep()

	outcome := r.RegisterOrRefresh(testAddr(30000))
	assert.Equal(t, Added, outcome)
	assert.Equal(t, MaxSubscribers, r.Len())
}

func TestRecordFailureMarksInactiveAtThreshold(t *testing.T) {
	r := New()
	addr := testAddr(9000)
	r.RegisterOrRefresh(addr)
	for i := 0; i < FailThreshold; i++ {
		r.RecordFailure(addr)
	}
	snap := r.Snapshot()
	assert.Empty(t, snap)
}

func TestRecordSuccessResetsFailures(t *testing.T) {
	r := New()
	addr := testAddr(9000)
	r.RegisterOrRefresh(addr)
	for i := 0; i < FailThreshold-1; i++ {
		r.RecordFailure(addr)
	}
	r.RecordSuccess(addr)
	sub := r.subs[key(addr)]
	require.NotNil(t, sub)
	assert.Zero(t, sub.ConsecutiveFailures)
	assert.Equal(t, uint64(1), sub.PacketsSent)
}

func TestSnapshotExcludesTimedOut(t *testing.T) {
	r := New()
	clock := time.Now()
	r.now = func() time.Time { return clock }

	addr := testAddr(9000)
	r.RegisterOrRefresh(addr)
	assert.Len(t, r.Snapshot(), 1)

	clock = clock.Add(Timeout + time.Second)
	r.Sweep()
	assert.Empty(t, r.Snapshot())
}

func TestInvariantNoLiveRecordExceedsLimits(t *testing.T) {
	r := New()
	for i := 0; i < MaxSubscribers+4; i++ {
		r.RegisterOrRefresh(testAddr(9000 + i))
	}
	assert.LessOrEqual(t, r.Len(), MaxSubscribers)
	for _, sub := range r.Snapshot() {
		assert.Less(t, sub.ConsecutiveFailures, FailThreshold)
	}
}
