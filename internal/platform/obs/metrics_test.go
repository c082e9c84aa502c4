package obs

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMetricsCountRequestsAndLookups(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.ObserveRequest("tcp", "ok")
	m.ObserveRequest("tcp", "ok")
	m.ObserveRequest("udp", "integrity_error")
	m.ObserveLookup(true)
	m.ObserveLookup(false)
	m.ObserveLookup(false)
	m.SetCacheEntries(7)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("tcp", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("udp", "integrity_error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("miss")))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.CacheEntries))
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	m.ObserveRequest("tcp", "ok")
	m.ObserveLookup(true)
	m.SetQueueDepth(3)
}

func TestTimeLogsRequestIDAndError(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	defer restore()

	ctx, id := WithRequestID(context.Background())
	require.NotEmpty(t, id)
	require.Equal(t, id, RequestID(ctx))

	err := errors.New("boom")
	Time(ctx, "unit.op")(&err)
	Time(ctx, "unit.ok")(nil)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "op failed", entries[0].Message)
	assert.Equal(t, id, entries[0].ContextMap()["req_id"])
	assert.Equal(t, "unit.op", entries[0].ContextMap()["op"])
	assert.Equal(t, "op done", entries[1].Message)
}

func TestNewLoggerRejectsUnknownFormat(t *testing.T) {
	_, err := NewLogger("info", "xml")
	require.Error(t, err)

	_, err = NewLogger("loud", "json")
	require.Error(t, err)

	logger, err := NewLogger("debug", "console")
	require.NoError(t, err)
	require.NotNil(t, logger)
}
