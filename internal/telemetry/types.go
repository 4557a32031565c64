package telemetry

import (
	"time"

	"github.com/sysdash/sysdash-agent/internal/process"
)

// HostInfo contains system identification information
type HostInfo struct {
	Hostname        string `json:"hostname"`
	OS              string `json:"os"`
	Platform        string `json:"platform"`
	PlatformVersion string `json:"platform_version"`
	KernelVersion   string `json:"kernel_version"`
	KernelArch      string `json:"kernel_arch"`
	Uptime          uint64 `json:"uptime"`
	UptimeHuman     string `json:"uptime_human"`
	BootTime        uint64 `json:"boot_time"`
	Procs           uint64 `json:"procs"`
}

// CPUStats contains CPU usage information
type CPUStats struct {
	Overall   float64   `json:"overall"`
	PerCore   []float64 `json:"per_core"`
	Cores     int       `json:"cores"`
	LoadAvg1  float64   `json:"load_avg_1"`
	LoadAvg5  float64   `json:"load_avg_5"`
	LoadAvg15 float64   `json:"load_avg_15"`
}

// MemoryStats contains memory usage information
type MemoryStats struct {
	Total     uint64  `json:"total"`
	Used      uint64  `json:"used"`
	Available uint64  `json:"available"`
	Percent   float64 `json:"percent"`
	SwapTotal uint64  `json:"swap_total"`
	SwapUsed  uint64  `json:"swap_used"`
}

// DiskStats describes usage of one mounted partition
type DiskStats struct {
	Device  string  `json:"device"`
	Mount   string  `json:"mount"`
	Fstype  string  `json:"fstype"`
	Total   uint64  `json:"total"`
	Used    uint64  `json:"used"`
	Percent float64 `json:"percent"`
}

// NetworkStats contains aggregate network I/O counters
type NetworkStats struct {
	BytesSent   uint64 `json:"bytes_sent"`
	BytesRecv   uint64 `json:"bytes_recv"`
	PacketsSent uint64 `json:"packets_sent"`
	PacketsRecv uint64 `json:"packets_recv"`
}

// Snapshot contains all point-in-time metrics combined
type Snapshot struct {
	Timestamp time.Time    `json:"timestamp"`
	Host      HostInfo     `json:"host"`
	CPU       CPUStats     `json:"cpu"`
	Memory    MemoryStats  `json:"memory"`
	Disks     []DiskStats  `json:"disks"`
	Network   NetworkStats `json:"network"`
}

// Summary is an aggregated view of the system over a sampling window,
// as opposed to a single point-in-time Snapshot.
type Summary struct {
	WindowSeconds  int            `json:"window_s"`
	AvgCPUPercent  float64        `json:"avg_cpu_percent"`
	MemPercent     float64        `json:"mem_percent"`
	TopProcesses   []process.Info `json:"top_processes"`
	HighUsageDisks []DiskStats    `json:"high_usage_disks"`
}
