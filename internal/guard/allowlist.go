package guard

import (
	"path/filepath"
	"sort"
	"strings"
)

// Allowlist is the set of process names that may be terminated without the
// unsafe override. It is built once at startup and is safe for concurrent
// reads.
type Allowlist struct {
	names map[string]struct{}
}

// NewAllowlist builds an allowlist from the configured names. Names are
// compared case-insensitively.
func NewAllowlist(names []string) *Allowlist {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name != "" {
			set[name] = struct{}{}
		}
	}
	return &Allowlist{names: set}
}

// Allows reports whether a process with the given name may be terminated.
// The unsafe flag bypasses the allowlist entirely.
//
// Matching is exact on the lowercased base executable name. Substring
// matching would let "chrome" authorize killing "chrome_crashpad_handler",
// which is too loose for a destructive operation.
func (a *Allowlist) Allows(processName string, unsafe bool) bool {
	if unsafe {
		return true
	}
	base := strings.ToLower(filepath.Base(strings.TrimSpace(processName)))
	if base == "" || base == "." {
		return false
	}
	_, ok := a.names[base]
	return ok
}

// Names returns the allowlisted names in sorted order.
func (a *Allowlist) Names() []string {
	out := make([]string, 0, len(a.names))
	for name := range a.names {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
