package pubgen

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetricsRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	m.observeBuild(250 * time.Millisecond)
	m.pageWritten(KindTag)
	m.pageWritten(KindTag)
	m.buildFailed("templates")
	m.corpusLoaded(7, 3)

	require.Equal(t, float64(2), testutil.ToFloat64(m.pagesWritten.WithLabelValues(KindTag)))
	require.Equal(t, float64(1), testutil.ToFloat64(m.buildFailures.WithLabelValues("templates")))
	require.Equal(t, float64(7), testutil.ToFloat64(m.corpusPosts))
	require.Equal(t, float64(3), testutil.ToFloat64(m.corpusTags))
	require.Equal(t, 1, testutil.CollectAndCount(m.buildDuration))
}

func TestMetricsDoubleRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewMetrics(reg)
	require.NoError(t, err)
	_, err = NewMetrics(reg)
	require.Error(t, err)
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	m.observeBuild(time.Second)
	m.pageWritten(KindPost)
	m.buildFailed("clean")
	m.corpusLoaded(1, 1)
}
