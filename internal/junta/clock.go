package junta

import "time"

// Clock gets the current time. clockwork.Clock implements this.
type Clock interface {
	Now() time.Time
}

// schedule derives segment indexes from elapsed time. Pure; no failure
// modes. The segment index is clamped to [0, SegmentCount], so a finished
// game always reports SegmentCount regardless of how long ago it ended.
type schedule struct {
	start  time.Time
	length time.Duration
	count  int
}

func newSchedule(cfg Config) schedule {
	return schedule{start: cfg.StartTime, length: cfg.SegmentLength, count: cfg.SegmentCount}
}

func (s schedule) segmentAt(now time.Time) int {
	elapsed := now.Sub(s.start)
	if elapsed < 0 {
		return 0
	}
	seg := int(elapsed / s.length)
	if seg > s.count {
		return s.count
	}
	return seg
}

func (s schedule) completedAt(now time.Time) bool {
	return s.segmentAt(now) >= s.count
}

// lastDepositSegment is the last segment in which a deposit is accepted.
// The window after it is reserved for yield accrual before settlement.
func (s schedule) lastDepositSegment() int {
	return s.count - 1
}
