package cpu

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	rec := Detect()

	t.Logf("AVX2: %v", rec.HasAVX2)
	t.Logf("AVX512: %v", rec.HasAVX512)
	t.Logf("Threads: %d", rec.Threads)
	t.Logf("Cache line: %d bytes", rec.CacheLineBytes)

	require.GreaterOrEqual(t, rec.Threads, 1)
	require.Greater(t, rec.CacheLineBytes, 0)
}

func TestDetectCached(t *testing.T) {
	first := Detect()
	second := Detect()
	assert.Equal(t, first, second)
}

func TestDetectConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	records := make([]Record, 16)
	for i := range records {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			records[i] = Detect()
		}(i)
	}
	wg.Wait()

	for i := 1; i < len(records); i++ {
		assert.Equal(t, records[0], records[i])
	}
}

func TestSetOverride(t *testing.T) {
	defer SetOverride(nil)

	forced := Record{HasAVX2: true, HasAVX512: true, Threads: 128, CacheLineBytes: 128}
	SetOverride(&forced)
	assert.Equal(t, forced, Detect())

	SetOverride(nil)
	assert.Equal(t, Detect(), Detect())
}

func TestWideSIMD(t *testing.T) {
	assert.False(t, Record{}.WideSIMD())
	assert.True(t, Record{HasAVX2: true}.WideSIMD())
	assert.True(t, Record{HasAVX512: true}.WideSIMD())
}
