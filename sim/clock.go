// Implements the dual-policy display clock.
//
// The raw tick counter is ground truth and always advances by one per tick.
// The display clock is the user-facing elapsed time: under the
// transit-exclusive policy it skips ticks where the entire system was idle
// except for items in transit, so reported elapsed time stays comparable
// with lead times (which also exclude transit).
//
// Non-negotiable contract: the display clock never stalls while any item is
// processing or queued. It may stall only on transit-only ticks.

package sim

// Clock converts raw tick counts into the display timeline.
type Clock struct {
	// CountTransit includes transit-only ticks in the display clock.
	CountTransit bool
}

// DisplayTicks returns the display clock value for the given raw tick count
// and cumulative transit-only tick count.
func (c Clock) DisplayTicks(rawTicks, transitOnlyTicks int64) int64 {
	if c.CountTransit {
		return rawTicks
	}
	d := rawTicks - transitOnlyTicks
	if d < 0 {
		return 0
	}
	return d
}

// IsTransitOnlyTick reports whether a tick counts as transit-only: at least
// one item is in transit and no item is simultaneously processing or queued.
// Terminal items are ignored.
func IsTransitOnlyTick(items []*Item) bool {
	anyTransit := false
	for _, it := range items {
		switch it.Status {
		case StatusTransit:
			anyTransit = true
		case StatusProcessing, StatusQueued:
			return false
		}
	}
	return anyTransit
}
