package telemetry

import (
	"errors"
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/sysdash/sysdash-agent/internal/process"
)

// highDiskUsagePercent is the used-percent above which a partition is
// reported as under disk pressure in a summary.
const highDiskUsagePercent = 90.0

// sampleInterval is the granularity of CPU sampling within a summary window.
const sampleInterval = time.Second

// Summary window and ranking bounds.
const (
	MinWindowSeconds = 1
	MaxWindowSeconds = 60
	MinTopN          = 1
	MaxTopN          = 10
)

// ErrValidation marks a summary request with out-of-range parameters.
// Callers should report it to the client rather than as a server fault.
var ErrValidation = errors.New("invalid summary parameter")

// Sampler provides the raw readings a summary is built from. It exists so
// tests can drive the aggregator without real hardware or real time.
type Sampler interface {
	// CPUPercent blocks for the given interval and returns overall CPU
	// usage over it.
	CPUPercent(interval time.Duration) (float64, error)
	MemoryPercent() (float64, error)
	Processes() ([]process.Info, error)
	Disks() ([]DiskStats, error)
}

// systemSampler reads from the live system via gopsutil.
type systemSampler struct {
	lister    *process.Lister
	collector *Collector
}

func (s *systemSampler) CPUPercent(interval time.Duration) (float64, error) {
	vals, err := cpu.Percent(interval, false)
	if err != nil {
		return 0, fmt.Errorf("failed to get cpu percent: %w", err)
	}
	if len(vals) == 0 {
		return 0, nil
	}
	return vals[0], nil
}

func (s *systemSampler) MemoryPercent() (float64, error) {
	vmem, err := mem.VirtualMemory()
	if err != nil {
		return 0, fmt.Errorf("failed to get virtual memory: %w", err)
	}
	return vmem.UsedPercent, nil
}

func (s *systemSampler) Processes() ([]process.Info, error) {
	return s.lister.Top(MaxTopN)
}

func (s *systemSampler) Disks() ([]DiskStats, error) {
	return s.collector.Disks()
}

// Aggregator reduces windowed samples into a Summary.
type Aggregator struct {
	sampler Sampler
}

// NewAggregator creates an aggregator reading from the live system.
func NewAggregator(lister *process.Lister, collector *Collector) *Aggregator {
	return &Aggregator{sampler: &systemSampler{lister: lister, collector: collector}}
}

// NewAggregatorWithSampler creates an aggregator with a custom sampler.
func NewAggregatorWithSampler(sampler Sampler) *Aggregator {
	return &Aggregator{sampler: sampler}
}

// Summarize samples the system over windowSeconds and reduces the result.
//
// CPU is sampled once per second across the window and averaged; each
// CPUPercent call is the one deliberate blocking step in the agent.
// Memory percent is a single point sample, since it moves too slowly for
// averaging to mean anything. Processes are ranked once at the end of the
// window. Sampling failures degrade to partial results: a summary with
// empty lists is preferred over a failed call.
func (a *Aggregator) Summarize(windowSeconds, topN int) (*Summary, error) {
	if windowSeconds < MinWindowSeconds || windowSeconds > MaxWindowSeconds {
		return nil, fmt.Errorf("%w: window_s must be within [%d,%d], got %d",
			ErrValidation, MinWindowSeconds, MaxWindowSeconds, windowSeconds)
	}
	if topN < MinTopN || topN > MaxTopN {
		return nil, fmt.Errorf("%w: top_n must be within [%d,%d], got %d",
			ErrValidation, MinTopN, MaxTopN, topN)
	}

	var readings []float64
	for i := 0; i < windowSeconds; i++ {
		reading, err := a.sampler.CPUPercent(sampleInterval)
		if err != nil {
			continue
		}
		readings = append(readings, reading)
	}

	memPercent, err := a.sampler.MemoryPercent()
	if err != nil {
		memPercent = 0
	}

	var top []process.Info
	if procs, err := a.sampler.Processes(); err == nil {
		process.SortByCPU(procs)
		if len(procs) > topN {
			procs = procs[:topN]
		}
		top = procs
	}

	var highUsage []DiskStats
	if disks, err := a.sampler.Disks(); err == nil {
		for _, d := range disks {
			if d.Percent > highDiskUsagePercent {
				highUsage = append(highUsage, d)
			}
		}
	}

	return &Summary{
		WindowSeconds:  windowSeconds,
		AvgCPUPercent:  mean(readings),
		MemPercent:     memPercent,
		TopProcesses:   top,
		HighUsageDisks: highUsage,
	}, nil
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}
