package guard

import "time"

// Clock supplies the current time. The kill limiter takes it as a
// dependency so tests can move across the rate window without sleeping.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return systemClock{} }
