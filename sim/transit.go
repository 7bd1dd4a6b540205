package sim

import "math"

// DistancePerTick converts canvas distance into transit ticks: an item in
// transit covers this many distance units per tick.
const DistancePerTick = 50.0

// TransitModel computes transit durations for edges. An explicit edge
// override wins; otherwise the duration is derived from the Euclidean
// distance between the two station positions, floored at one tick.
type TransitModel struct{}

// Duration returns the transit time in ticks for traversing edge e
// between stations from and to.
func (TransitModel) Duration(e *Edge, from, to *Station) int64 {
	if e.TransitOverride != nil {
		if *e.TransitOverride < 1 {
			return 1
		}
		return *e.TransitOverride
	}
	dx := to.X - from.X
	dy := to.Y - from.Y
	dist := math.Hypot(dx, dy)
	ticks := int64(math.Round(dist / DistancePerTick))
	if ticks < 1 {
		return 1
	}
	return ticks
}
