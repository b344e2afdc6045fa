package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantframe/gbmsim/pkg/gbm"
)

func TestObserveSimulation(t *testing.T) {
	m, err := New("gbmsim_test", nil)
	require.NoError(t, err)

	m.ObserveSimulation(gbm.Scalar, 1000, 5*time.Millisecond)
	m.ObserveSimulation(gbm.Scalar, 2000, 7*time.Millisecond)
	m.ObserveSimulation(gbm.Multithreaded, 500, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.simulations.WithLabelValues("SCALAR")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.simulations.WithLabelValues("MT")))
	assert.Equal(t, 3500.0, testutil.ToFloat64(m.paths))
}

func TestHandlerServesExposition(t *testing.T) {
	m, err := New("gbmsim_test", nil)
	require.NoError(t, err)
	m.ObserveSimulation(gbm.VectorizedMultithreaded, 100, time.Millisecond)

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "gbmsim_test_simulations_total")
	assert.Contains(t, rr.Body.String(), "gbmsim_test_paths_simulated_total")
}

func TestDispatcherIntegration(t *testing.T) {
	m, err := New("gbmsim_test", nil)
	require.NoError(t, err)

	d := gbm.New(gbm.Config{Observer: m})
	_, err = d.Dispatch(gbm.Request{
		StartingPrice: 100,
		Drift:         0.01,
		Variance:      0.0004,
		Volatility:    0.02,
		Steps:         10,
		Paths:         50,
	}, gbm.Scalar)
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.simulations.WithLabelValues("SCALAR")))
	assert.Equal(t, 50.0, testutil.ToFloat64(m.paths))
}
