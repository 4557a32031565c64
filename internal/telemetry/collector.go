package telemetry

import (
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/net"
)

// Collector handles point-in-time system metrics collection
type Collector struct{}

// NewCollector creates a new metrics collector
func NewCollector() *Collector {
	return &Collector{}
}

// CPU retrieves overall and per-core CPU usage
func (c *Collector) CPU() (*CPUStats, error) {
	percentTotal, err := cpu.Percent(200*time.Millisecond, false)
	if err != nil {
		return nil, fmt.Errorf("failed to get cpu percent: %w", err)
	}

	perCore, err := cpu.Percent(200*time.Millisecond, true)
	if err != nil {
		return nil, fmt.Errorf("failed to get per-cpu percent: %w", err)
	}

	loadAvg, err := load.Avg()
	if err != nil {
		// Load average might not be available on all systems
		loadAvg = &load.AvgStat{}
	}

	var overall float64
	if len(percentTotal) > 0 {
		overall = percentTotal[0]
	}

	return &CPUStats{
		Overall:   overall,
		PerCore:   perCore,
		Cores:     len(perCore),
		LoadAvg1:  loadAvg.Load1,
		LoadAvg5:  loadAvg.Load5,
		LoadAvg15: loadAvg.Load15,
	}, nil
}

// Memory retrieves memory usage information
func (c *Collector) Memory() (*MemoryStats, error) {
	vmem, err := mem.VirtualMemory()
	if err != nil {
		return nil, fmt.Errorf("failed to get virtual memory: %w", err)
	}

	swap, err := mem.SwapMemory()
	if err != nil {
		// Swap might not be available
		swap = &mem.SwapMemoryStat{}
	}

	return &MemoryStats{
		Total:     vmem.Total,
		Used:      vmem.Used,
		Available: vmem.Available,
		Percent:   vmem.UsedPercent,
		SwapTotal: swap.Total,
		SwapUsed:  swap.Used,
	}, nil
}

// Disks retrieves usage for all mounted real partitions
func (c *Collector) Disks() ([]DiskStats, error) {
	partitions, err := disk.Partitions(false)
	if err != nil {
		return nil, fmt.Errorf("failed to get disk partitions: %w", err)
	}

	var disks []DiskStats
	for _, p := range partitions {
		// Skip pseudo filesystems
		if p.Fstype == "squashfs" || p.Fstype == "tmpfs" || p.Fstype == "devtmpfs" {
			continue
		}

		usage, err := disk.Usage(p.Mountpoint)
		if err != nil {
			continue
		}

		disks = append(disks, DiskStats{
			Device:  p.Device,
			Mount:   p.Mountpoint,
			Fstype:  p.Fstype,
			Total:   usage.Total,
			Used:    usage.Used,
			Percent: usage.UsedPercent,
		})
	}

	return disks, nil
}

// Network retrieves aggregate network I/O counters since boot
func (c *Collector) Network() (*NetworkStats, error) {
	counters, err := net.IOCounters(false)
	if err != nil {
		return nil, fmt.Errorf("failed to get network io counters: %w", err)
	}
	if len(counters) == 0 {
		return &NetworkStats{}, nil
	}

	total := counters[0]
	return &NetworkStats{
		BytesSent:   total.BytesSent,
		BytesRecv:   total.BytesRecv,
		PacketsSent: total.PacketsSent,
		PacketsRecv: total.PacketsRecv,
	}, nil
}

// All retrieves a combined snapshot of every metric
func (c *Collector) All() (*Snapshot, error) {
	host, err := GetHostInfo()
	if err != nil {
		return nil, err
	}

	cpuStats, err := c.CPU()
	if err != nil {
		return nil, err
	}

	memory, err := c.Memory()
	if err != nil {
		return nil, err
	}

	disks, err := c.Disks()
	if err != nil {
		return nil, err
	}

	network, err := c.Network()
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		Timestamp: time.Now(),
		Host:      *host,
		CPU:       *cpuStats,
		Memory:    *memory,
		Disks:     disks,
		Network:   *network,
	}, nil
}
