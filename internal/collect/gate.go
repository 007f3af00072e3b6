package collect

import (
	"time"

	"golang.org/x/time/rate"
)

// RunGate is the process-wide rate gate for collector runs: one run per
// cooldown interval. It is created once at process start and never
// reset; concurrent callers race on a single token, so at most one of
// them proceeds.
type RunGate struct {
	limiter *rate.Limiter
}

// NewRunGate creates a gate allowing one run per cooldown.
func NewRunGate(cooldown time.Duration) *RunGate {
	if cooldown <= 0 {
		return &RunGate{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &RunGate{limiter: rate.NewLimiter(rate.Every(cooldown), 1)}
}

// Allow reports whether a run may start now.
func (g *RunGate) Allow() bool {
	return g.limiter.Allow()
}
