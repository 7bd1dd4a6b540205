// Implements exact-demand arrival generation. Given a target count over a
// bounded horizon, a station spawns exactly that many items by the horizon's
// last open tick, spread smoothly across its open ticks.

package sim

// demandState carries the per-station accumulator between ticks.
type demandState struct {
	carry     float64 // fractional arrivals carried to the next open tick
	generated int     // arrivals produced so far in this horizon
	openSeen  int64   // open ticks consumed so far in this horizon
}

// DemandGenerator produces exact-total arrival counts per source station.
// It is stateful per station and reset on every metrics-epoch bump so a
// reconfigured demand target restarts its horizon cleanly.
type DemandGenerator struct {
	states map[string]*demandState
}

// NewDemandGenerator creates an empty generator.
func NewDemandGenerator() *DemandGenerator {
	return &DemandGenerator{states: make(map[string]*demandState)}
}

// SpawnCount returns how many items the station spawns on the current open
// tick. Callers must only invoke it on ticks where the station is open.
// totalOpenTicks is the number of open ticks inside the demand horizon; when
// it is 0 the station generates nothing.
//
// The fractional accumulator guarantees the cumulative total never exceeds
// target, and the last open tick forcibly tops up to exactly target. The
// top-up is clamped to max(0, target-generated) but deliberately not
// smoothed further: the whole remaining target can land on one tick.
func (g *DemandGenerator) SpawnCount(stationID string, target int, totalOpenTicks int64) int {
	if target <= 0 || totalOpenTicks <= 0 {
		return 0
	}
	st, ok := g.states[stationID]
	if !ok {
		st = &demandState{}
		g.states[stationID] = st
	}
	if st.openSeen >= totalOpenTicks {
		// Horizon exhausted; the target was met on its last open tick.
		return 0
	}
	st.openSeen++

	st.carry += float64(target) / float64(totalOpenTicks)
	n := int(st.carry)
	st.carry -= float64(n)

	if st.openSeen >= totalOpenTicks {
		// Final open tick: force the exact total.
		n = target - st.generated
	}
	if st.generated+n > target {
		n = target - st.generated
	}
	if n < 0 {
		n = 0
	}
	st.generated += n
	return n
}

// Generated returns how many arrivals the station has produced in the
// current horizon.
func (g *DemandGenerator) Generated(stationID string) int {
	if st, ok := g.states[stationID]; ok {
		return st.generated
	}
	return 0
}

// Exhausted reports whether the station has met its target.
func (g *DemandGenerator) Exhausted(stationID string, target int) bool {
	return g.Generated(stationID) >= target
}

// Reset clears all per-station state, restarting every horizon.
func (g *DemandGenerator) Reset() {
	g.states = make(map[string]*demandState)
}
