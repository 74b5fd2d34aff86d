package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsCollector(t *testing.T) {
	mc := NewMetricsCollector(prometheus.NewRegistry())

	mc.RecordComment("accepted")
	mc.RecordComment("accepted")
	mc.RecordComment("rate limited")
	mc.RecordReaction("LIKE")
	mc.RecordContentPublished("VIDEO")
	mc.RecordGeneratorCall("article", "fallback")
	mc.RecordHTTPRequest("GET", "/api/v1/feed", "200", 10*time.Millisecond)
	mc.StreamClientConnected()
	mc.StreamClientConnected()
	mc.StreamClientDisconnected()

	assert.Equal(t, 2.0, testutil.ToFloat64(mc.commentsTotal.WithLabelValues("accepted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(mc.commentsTotal.WithLabelValues("rate limited")))
	assert.Equal(t, 1.0, testutil.ToFloat64(mc.reactionsTotal.WithLabelValues("LIKE")))
	assert.Equal(t, 1.0, testutil.ToFloat64(mc.contentPublished.WithLabelValues("VIDEO")))
	assert.Equal(t, 1.0, testutil.ToFloat64(mc.generatorCalls.WithLabelValues("article", "fallback")))
	assert.Equal(t, 1.0, testutil.ToFloat64(mc.httpRequestsTotal.WithLabelValues("GET", "/api/v1/feed", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(mc.sseClients))
}

func TestNilCollectorIsSafe(t *testing.T) {
	var mc *MetricsCollector
	mc.RecordComment("accepted")
	mc.RecordReaction("LIKE")
	mc.RecordContentPublished("NEWS")
	mc.RecordGeneratorCall("tags", "ok")
	mc.RecordHTTPRequest("GET", "/", "200", time.Millisecond)
	mc.StreamClientConnected()
	mc.StreamClientDisconnected()
}
