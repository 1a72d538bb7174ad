//go:build !tinygo

package hal

import "time"

// hostCycles simulates a cycle counter from the wall clock, at a fixed
// 64 cycles per microsecond (a Cortex-M class figure). The 32-bit count
// wraps roughly every minute, like the hardware counter it stands in for.
type hostCycles struct {
	start time.Time
}

func newHostCycles() *hostCycles {
	return &hostCycles{start: time.Now()}
}

func (c *hostCycles) Count() uint32 {
	us := time.Since(c.start).Microseconds()
	return uint32(us * int64(c.PerMicrosecond()))
}

func (c *hostCycles) PerMicrosecond() uint32 { return 64 }
