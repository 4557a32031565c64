package guard

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by a Resolver when no process has the given pid.
var ErrNotFound = errors.New("process not found")

// Process is the resolved target of a kill request.
type Process interface {
	Pid() int32
	Name() (string, error)
	// Terminate asks the process to exit and escalates if it refuses.
	Terminate() error
}

// Resolver looks up a live process by pid. It returns ErrNotFound (possibly
// wrapped) when the pid does not exist.
type Resolver func(pid int32) (Process, error)

// KillRequest carries the caller-supplied flags for one termination attempt.
type KillRequest struct {
	PID     int32 `json:"pid"`
	Confirm bool  `json:"confirm"`
	Unsafe  bool  `json:"unsafe"`
	DryRun  bool  `json:"dry_run"`
}

// KillResult is the terminal outcome of a kill request. Every rejection
// carries a human-readable reason; nothing in the kill path panics or
// returns a bare error to the transport.
type KillResult struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// Controller runs the safety checks around process termination.
type Controller struct {
	allowlist *Allowlist
	limiter   *KillLimiter
	resolve   Resolver
}

// NewController wires the allowlist, limiter, and process resolver together.
func NewController(allowlist *Allowlist, limiter *KillLimiter, resolve Resolver) *Controller {
	return &Controller{
		allowlist: allowlist,
		limiter:   limiter,
		resolve:   resolve,
	}
}

// Kill attempts to terminate the requested process. Checks run in order and
// short-circuit on the first failure:
//
//  1. the pid must resolve to a live process
//  2. confirm must be set
//  3. the process name must be allowlisted, or unsafe set
//  4. dry runs return here, without touching the rate limiter
//  5. the kill budget for the current window must not be exhausted
//  6. the OS terminate call must succeed
//
// The limiter is consulted after the dry-run check so previews never burn
// budget, and its lock is released before the terminate syscall runs.
func (c *Controller) Kill(req KillRequest) KillResult {
	proc, err := c.resolve(req.PID)
	if err != nil {
		return KillResult{OK: false, Message: fmt.Sprintf("process %d not found", req.PID)}
	}

	name, err := proc.Name()
	if err != nil {
		return KillResult{OK: false, Message: fmt.Sprintf("cannot read name of process %d: %v", req.PID, err)}
	}

	if !req.Confirm {
		return KillResult{OK: false, Message: "confirmation required: set confirm=true to proceed"}
	}

	if !c.allowlist.Allows(name, req.Unsafe) {
		return KillResult{
			OK:      false,
			Message: fmt.Sprintf("process '%s' not in allowlist: set unsafe=true to override", name),
		}
	}

	if req.DryRun {
		return KillResult{
			OK:      true,
			Message: fmt.Sprintf("[DRY RUN] would terminate %d (%s)", req.PID, name),
		}
	}

	if !c.limiter.Allow() {
		return KillResult{
			OK: false,
			Message: fmt.Sprintf("rate limit exceeded: max %d kills per minute, try again later",
				c.limiter.MaxPerWindow()),
		}
	}

	if err := proc.Terminate(); err != nil {
		return KillResult{OK: false, Message: fmt.Sprintf("failed to terminate %d (%s): %v", req.PID, name, err)}
	}

	return KillResult{OK: true, Message: fmt.Sprintf("terminated %d (%s)", req.PID, name)}
}
