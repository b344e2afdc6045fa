package gbm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// convergenceRequest is large enough for the ensemble average to settle
// within a fraction of a percent.
func convergenceRequest() Request {
	return Request{
		StartingPrice: 100,
		Drift:         0.01,
		Variance:      0.0004,
		Volatility:    0.02,
		Steps:         50,
		Paths:         200000,
		Seed:          12345,
	}
}

func TestEnginesStatisticallyEquivalent(t *testing.T) {
	req := convergenceRequest()

	averages := map[EngineKind]float64{}
	for _, kind := range []EngineKind{Scalar, Multithreaded, VectorizedMultithreaded} {
		if !Available(kind) {
			continue
		}
		result, err := Dispatch(req, kind)
		require.NoError(t, err)
		averages[kind] = result.AvgTerminalPrice
		t.Logf("%s average terminal price: %.4f", kind, result.AvgTerminalPrice)
	}
	require.GreaterOrEqual(t, len(averages), 2)

	// All engines must agree within 1% of each other, and with the
	// analytic expectation S0*exp(mu).
	expected := req.StartingPrice * math.Exp(req.Drift)
	for kind, avg := range averages {
		assert.InEpsilonf(t, expected, avg, 0.01, "%s diverges from analytic mean", kind)
		for other, otherAvg := range averages {
			assert.InEpsilonf(t, avg, otherAvg, 0.01, "%s and %s disagree", kind, other)
		}
	}
}

func TestPathSampleInvariants(t *testing.T) {
	req := Request{
		StartingPrice: 250,
		Drift:         0.02,
		Variance:      0.0009,
		Volatility:    0.03,
		Steps:         25,
		Paths:         500,
		SampleSize:    40,
		Seed:          7,
	}

	for _, kind := range []EngineKind{Scalar, Multithreaded, VectorizedMultithreaded} {
		if !Available(kind) {
			continue
		}
		t.Run(kind.String(), func(t *testing.T) {
			result, err := Dispatch(req, kind)
			require.NoError(t, err)

			require.Len(t, result.PathSample, 40)
			for _, path := range result.PathSample {
				require.Len(t, path, req.Steps+1)
				assert.Equal(t, req.StartingPrice, path[0])
				for _, price := range path {
					assert.Greater(t, price, 0.0)
				}
			}
		})
	}
}

func TestSampleNeverExceedsPaths(t *testing.T) {
	req := Request{
		StartingPrice: 100,
		Drift:         0.01,
		Variance:      0.0004,
		Volatility:    0.02,
		Steps:         10,
		Paths:         7,
		SampleSize:    50,
	}
	result, err := Dispatch(req, Scalar)
	require.NoError(t, err)
	assert.Len(t, result.PathSample, 7)
}

func TestDefaultSampleCap(t *testing.T) {
	req := convergenceRequest()
	req.Paths = 5000
	result, err := Dispatch(req, Scalar)
	require.NoError(t, err)
	assert.Len(t, result.PathSample, DefaultSampleSize)
}

func TestScalarSeedReproducible(t *testing.T) {
	req := Request{
		StartingPrice: 100,
		Drift:         0.01,
		Variance:      0.0004,
		Volatility:    0.02,
		Steps:         20,
		Paths:         200,
		Seed:          42,
	}

	first, err := Dispatch(req, Scalar)
	require.NoError(t, err)
	second, err := Dispatch(req, Scalar)
	require.NoError(t, err)

	assert.Equal(t, first.AvgTerminalPrice, second.AvgTerminalPrice)
	assert.Equal(t, first.PathSample, second.PathSample)
}

func TestZeroVolatilityIsDeterministic(t *testing.T) {
	// With sigma = 0 every path is the pure drift walk, so the
	// terminal price is exactly S0 * exp(mu - 0) for any engine.
	req := Request{
		StartingPrice: 100,
		Drift:         0.05,
		Variance:      0,
		Volatility:    0,
		Steps:         10,
		Paths:         64,
	}
	expected := req.StartingPrice * math.Exp(req.Drift)

	for _, kind := range []EngineKind{Scalar, Multithreaded, VectorizedMultithreaded} {
		if !Available(kind) {
			continue
		}
		result, err := Dispatch(req, kind)
		require.NoError(t, err)
		assert.InDelta(t, expected, result.AvgTerminalPrice, 1e-9, "engine %s", kind)
	}
}

func TestMemoryBudgetExceeded(t *testing.T) {
	prev := SetMemoryBudget(1024)
	defer SetMemoryBudget(prev)

	req := Request{
		StartingPrice: 100,
		Drift:         0.01,
		Variance:      0.0004,
		Volatility:    0.02,
		Steps:         1000,
		Paths:         1000,
		SampleSize:    1000,
	}

	for _, kind := range []EngineKind{Scalar, Multithreaded, VectorizedMultithreaded} {
		if !Available(kind) {
			continue
		}
		_, err := Dispatch(req, kind)
		var exhausted *ResourceExhaustedError
		require.ErrorAs(t, err, &exhausted, "engine %s", kind)
		assert.Equal(t, uint64(1024), exhausted.Budget)
	}
}

func BenchmarkScalar(b *testing.B) {
	benchmarkEngine(b, Scalar)
}

func BenchmarkMultithreaded(b *testing.B) {
	benchmarkEngine(b, Multithreaded)
}

func BenchmarkVectorizedMultithreaded(b *testing.B) {
	benchmarkEngine(b, VectorizedMultithreaded)
}

func benchmarkEngine(b *testing.B, kind EngineKind) {
	if !Available(kind) {
		b.Skipf("engine %s not compiled in", kind)
	}
	req := Request{
		StartingPrice: 100,
		Drift:         0.01,
		Variance:      0.0004,
		Volatility:    0.02,
		Steps:         50,
		Paths:         50000,
		Seed:          1,
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Dispatch(req, kind); err != nil {
			b.Fatal(err)
		}
	}
}
