// Package simulate models network behaviour for the fabricated backend.
// Every "remote" call in the engine sleeps through Wait before resolving so
// the client behaves like it is talking to a real service.
package simulate

import (
	"context"
	"time"
)

// Wait blocks for base scaled by factor, or until the context is cancelled.
// A factor of 0 disables the delay entirely.
func Wait(ctx context.Context, base time.Duration, factor float64) error {
	if factor <= 0 {
		return ctx.Err()
	}

	delay := time.Duration(float64(base) * factor)
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
