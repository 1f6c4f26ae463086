package metrics

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorderCounts(t *testing.T) {
	reg := prom.NewRegistry()
	rec := NewPrometheusRecorder(reg)

	rec.IncUpsertOutcome("create")
	rec.IncUpsertOutcome("create")
	rec.IncUpsertOutcome("update")
	rec.AddDroppedChildren(3)
	rec.AddDroppedChildren(0) // no-op
	rec.IncFormatterFallback("css")
	rec.ObserveRequestDuration("/notion/pages", 200, 42*time.Millisecond)

	require.Equal(t, float64(2), testutil.ToFloat64(rec.upsertOutcomes.WithLabelValues("create")))
	require.Equal(t, float64(1), testutil.ToFloat64(rec.upsertOutcomes.WithLabelValues("update")))
	require.Equal(t, float64(3), testutil.ToFloat64(rec.droppedChildren))
	require.Equal(t, float64(1), testutil.ToFloat64(rec.formatterFallbacks.WithLabelValues("css")))
}

func TestNoopRecorderIsSafe(t *testing.T) {
	var rec Recorder = NoopRecorder{}
	rec.ObserveRequestDuration("/x", 500, time.Second)
	rec.IncUpsertOutcome("error")
	rec.AddDroppedChildren(1)
	rec.IncFormatterFallback("html")
}
