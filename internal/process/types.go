package process

// Info is a point-in-time snapshot of one running process.
type Info struct {
	PID        int32   `json:"pid"`
	Name       string  `json:"name"`
	Username   string  `json:"username"`
	CPUPercent float64 `json:"cpu_percent"`
	MemPercent float32 `json:"mem_percent"`
	MemRSS     uint64  `json:"mem_rss"`
	Cmdline    string  `json:"cmdline"`
}

// List contains a page of processes plus the total seen before limiting.
type List struct {
	Processes []Info `json:"processes"`
	Total     int    `json:"total"`
}

// ListOptions controls filtering and ordering of a process listing.
type ListOptions struct {
	// SortBy is one of "cpu", "memory", "pid", "name". Unknown values
	// fall back to "cpu".
	SortBy string
	// Limit caps the number of returned processes. Must be >= 1.
	Limit int
	// NameContains filters by case-insensitive name substring.
	NameContains string
	// User filters by exact username.
	User string
}
