package process

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/process"
)

// cpuMeasureInterval is how long the lister waits between priming the
// per-process CPU counters and reading them. gopsutil reports CPU usage
// relative to the previous CPUPercent call, so the first read is primed
// and the second, after this interval, is the one kept.
const cpuMeasureInterval = 200 * time.Millisecond

// Lister enumerates running processes.
type Lister struct{}

// NewLister creates a process lister.
func NewLister() *Lister {
	return &Lister{}
}

// List returns running processes filtered, sorted, and truncated per opts.
// Processes that disappear or deny access mid-scan are skipped; the listing
// degrades to whatever remains readable rather than failing.
func (l *Lister) List(opts ListOptions) (*List, error) {
	procs, err := process.Processes()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate processes: %w", err)
	}

	// Prime CPU counters, then measure after a short interval.
	for _, p := range procs {
		_, _ = p.CPUPercent()
	}
	time.Sleep(cpuMeasureInterval)

	infos := make([]Info, 0, len(procs))
	for _, p := range procs {
		info, err := snapshot(p)
		if err != nil {
			continue
		}
		infos = append(infos, *info)
	}

	infos = Filter(infos, opts.NameContains, opts.User)
	Sort(infos, opts.SortBy)

	total := len(infos)
	if opts.Limit >= 1 && opts.Limit < len(infos) {
		infos = infos[:opts.Limit]
	}

	return &List{Processes: infos, Total: total}, nil
}

// Top returns the n heaviest processes by CPU usage.
func (l *Lister) Top(n int) ([]Info, error) {
	list, err := l.List(ListOptions{SortBy: "cpu", Limit: n})
	if err != nil {
		return nil, err
	}
	return list.Processes, nil
}

// Filter keeps processes matching the name substring (case-insensitive)
// and exact username, when set.
func Filter(infos []Info, nameContains, user string) []Info {
	if nameContains == "" && user == "" {
		return infos
	}

	nameLower := strings.ToLower(nameContains)
	out := infos[:0]
	for _, info := range infos {
		if nameLower != "" && !strings.Contains(strings.ToLower(info.Name), nameLower) {
			continue
		}
		if user != "" && info.Username != user {
			continue
		}
		out = append(out, info)
	}
	return out
}

// Sort orders processes in place. cpu and memory sort descending, pid and
// name ascending. CPU ties break by ascending pid so rankings are stable
// across calls.
func Sort(infos []Info, sortBy string) {
	switch sortBy {
	case "memory":
		sort.Slice(infos, func(i, j int) bool {
			if infos[i].MemPercent != infos[j].MemPercent {
				return infos[i].MemPercent > infos[j].MemPercent
			}
			return infos[i].PID < infos[j].PID
		})
	case "pid":
		sort.Slice(infos, func(i, j int) bool { return infos[i].PID < infos[j].PID })
	case "name":
		sort.Slice(infos, func(i, j int) bool {
			if infos[i].Name != infos[j].Name {
				return infos[i].Name < infos[j].Name
			}
			return infos[i].PID < infos[j].PID
		})
	default: // "cpu"
		SortByCPU(infos)
	}
}

// SortByCPU orders by CPU percent descending with ascending pid tie-break.
func SortByCPU(infos []Info) {
	sort.Slice(infos, func(i, j int) bool {
		if infos[i].CPUPercent != infos[j].CPUPercent {
			return infos[i].CPUPercent > infos[j].CPUPercent
		}
		return infos[i].PID < infos[j].PID
	})
}

func snapshot(p *process.Process) (*Info, error) {
	name, err := p.Name()
	if err != nil {
		return nil, err
	}

	username, _ := p.Username()
	cpuPercent, _ := p.CPUPercent()
	memPercent, _ := p.MemoryPercent()
	memInfo, _ := p.MemoryInfo()
	cmdline, _ := p.Cmdline()

	var memRSS uint64
	if memInfo != nil {
		memRSS = memInfo.RSS
	}

	return &Info{
		PID:        p.Pid,
		Name:       name,
		Username:   username,
		CPUPercent: cpuPercent,
		MemPercent: memPercent,
		MemRSS:     memRSS,
		Cmdline:    cmdline,
	}, nil
}
