package telemetry

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sysdash/sysdash-agent/internal/process"
)

// fakeSampler returns canned readings without blocking.
type fakeSampler struct {
	cpuReadings []float64
	cpuCalls    int
	cpuErr      error
	memPercent  float64
	memErr      error
	procs       []process.Info
	procsErr    error
	disks       []DiskStats
	disksErr    error
}

func (s *fakeSampler) CPUPercent(time.Duration) (float64, error) {
	if s.cpuErr != nil {
		return 0, s.cpuErr
	}
	reading := s.cpuReadings[s.cpuCalls%len(s.cpuReadings)]
	s.cpuCalls++
	return reading, nil
}

func (s *fakeSampler) MemoryPercent() (float64, error) { return s.memPercent, s.memErr }

func (s *fakeSampler) Processes() ([]process.Info, error) { return s.procs, s.procsErr }

func (s *fakeSampler) Disks() ([]DiskStats, error) { return s.disks, s.disksErr }

func TestSummarize_AvgCPUIsMeanOfReadings(t *testing.T) {
	sampler := &fakeSampler{cpuReadings: []float64{30, 30, 30}, memPercent: 41.5}
	agg := NewAggregatorWithSampler(sampler)

	summary, err := agg.Summarize(3, 3)
	require.NoError(t, err)

	assert.InDelta(t, 30.0, summary.AvgCPUPercent, 1e-9)
	assert.Equal(t, 3, sampler.cpuCalls)
	assert.Equal(t, 41.5, summary.MemPercent)
	assert.Equal(t, 3, summary.WindowSeconds)
}

func TestSummarize_OneReadingPerWindowSecond(t *testing.T) {
	sampler := &fakeSampler{cpuReadings: []float64{10, 20, 30, 40, 50}}
	agg := NewAggregatorWithSampler(sampler)

	summary, err := agg.Summarize(5, 1)
	require.NoError(t, err)

	assert.Equal(t, 5, sampler.cpuCalls)
	assert.InDelta(t, 30.0, summary.AvgCPUPercent, 1e-9)
}

func TestSummarize_TopNBoundAndOrdering(t *testing.T) {
	sampler := &fakeSampler{
		cpuReadings: []float64{10},
		procs: []process.Info{
			{PID: 4, Name: "d", CPUPercent: 20},
			{PID: 2, Name: "b", CPUPercent: 50},
			{PID: 3, Name: "c", CPUPercent: 50},
			{PID: 1, Name: "a", CPUPercent: 90},
		},
	}
	agg := NewAggregatorWithSampler(sampler)

	summary, err := agg.Summarize(1, 3)
	require.NoError(t, err)

	require.Len(t, summary.TopProcesses, 3)
	assert.Equal(t, int32(1), summary.TopProcesses[0].PID)
	// 50% tie resolves by ascending pid
	assert.Equal(t, int32(2), summary.TopProcesses[1].PID)
	assert.Equal(t, int32(3), summary.TopProcesses[2].PID)
}

func TestSummarize_TopNNeverExceeded(t *testing.T) {
	sampler := &fakeSampler{
		cpuReadings: []float64{10},
		procs:       []process.Info{{PID: 1, CPUPercent: 5}},
	}
	agg := NewAggregatorWithSampler(sampler)

	summary, err := agg.Summarize(1, 10)
	require.NoError(t, err)
	assert.Len(t, summary.TopProcesses, 1)
}

func TestSummarize_HighUsageDisks(t *testing.T) {
	sampler := &fakeSampler{
		cpuReadings: []float64{10},
		disks: []DiskStats{
			{Mount: "/", Percent: 95.2},
			{Mount: "/home", Percent: 90.0},
			{Mount: "/data", Percent: 42.0},
		},
	}
	agg := NewAggregatorWithSampler(sampler)

	summary, err := agg.Summarize(1, 1)
	require.NoError(t, err)

	// Threshold is exclusive: exactly 90% does not count as pressure.
	require.Len(t, summary.HighUsageDisks, 1)
	assert.Equal(t, "/", summary.HighUsageDisks[0].Mount)
}

func TestSummarize_PartialResultsOnSamplerFailure(t *testing.T) {
	sampler := &fakeSampler{
		cpuReadings: []float64{25},
		memErr:      errors.New("denied"),
		procsErr:    errors.New("denied"),
		disksErr:    errors.New("denied"),
	}
	agg := NewAggregatorWithSampler(sampler)

	summary, err := agg.Summarize(2, 3)
	require.NoError(t, err)

	assert.Empty(t, summary.TopProcesses)
	assert.Empty(t, summary.HighUsageDisks)
	assert.Zero(t, summary.MemPercent)
	assert.InDelta(t, 25.0, summary.AvgCPUPercent, 1e-9)
}

func TestSummarize_AllCPUReadingsFail(t *testing.T) {
	sampler := &fakeSampler{cpuReadings: []float64{1}, cpuErr: errors.New("denied")}
	agg := NewAggregatorWithSampler(sampler)

	summary, err := agg.Summarize(3, 1)
	require.NoError(t, err)
	assert.Zero(t, summary.AvgCPUPercent)
}

func TestSummarize_ValidatesWindow(t *testing.T) {
	agg := NewAggregatorWithSampler(&fakeSampler{cpuReadings: []float64{1}})

	for _, window := range []int{0, -1, 61} {
		_, err := agg.Summarize(window, 3)
		assert.ErrorIs(t, err, ErrValidation)
	}
}

func TestSummarize_ValidatesTopN(t *testing.T) {
	agg := NewAggregatorWithSampler(&fakeSampler{cpuReadings: []float64{1}})

	for _, topN := range []int{0, -5, 11, 20} {
		_, err := agg.Summarize(5, topN)
		assert.ErrorIs(t, err, ErrValidation)
	}
}
