package metrics_test

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/vk/evogrid/internal/metrics"
)

func TestRecorder_Counts(t *testing.T) {
	r := metrics.New()
	r.Births.WithLabelValues("main").Add(3)
	r.Deaths.WithLabelValues("main").Inc()
	r.Tick.Set(12)
	r.TraitMean.WithLabelValues("main", "fitness").Set(2.5)

	require.Equal(t, 3.0, testutil.ToFloat64(r.Births.WithLabelValues("main")))
	require.Equal(t, 1.0, testutil.ToFloat64(r.Deaths.WithLabelValues("main")))
	require.Equal(t, 12.0, testutil.ToFloat64(r.Tick))
	require.Equal(t, 2.5, testutil.ToFloat64(r.TraitMean.WithLabelValues("main", "fitness")))
}

func TestRecorder_Handler(t *testing.T) {
	r := metrics.New()
	r.Orgs.WithLabelValues("main").Set(4)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	require.Contains(t, rec.Body.String(), `evogrid_organisms{population="main"} 4`)
}

func TestRecorder_WriteTextfile(t *testing.T) {
	r := metrics.New()
	r.Mutations.Add(2)
	path := filepath.Join(t.TempDir(), "run.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(data), "evogrid_mutations_total 2"))
}
