package sim

// Snapshot is the engine's output surface for collaborators: the item
// population, per-station aggregates, derived indices, and the current
// metrics and clock values. It is rebuilt on demand and safe to read while
// the engine is between ticks.
type Snapshot struct {
	Tick        int64
	DisplayTick int64
	Progress    float64 // 0..100 of the target duration, 0 when unbounded
	Running     bool
	Epoch       int64

	Items          []*Item
	ItemsByStation map[string][]*Item
	CountsByStatus map[ItemStatus]int

	StationStats      map[string]StationStats
	StationAdvisories map[string][]Advisory

	CompletedTotal int64
	Metrics        WindowMetrics
	History        []HistorySample
}

// Snapshot assembles the current output state.
func (s *Simulator) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:              s.TickCount,
		DisplayTick:       s.DisplayClock.DisplayTicks(s.TickCount, s.TransitOnlyTicks),
		Progress:          s.Progress(),
		Running:           s.Running,
		Epoch:             s.Epoch,
		Items:             s.Items,
		ItemsByStation:    make(map[string][]*Item),
		CountsByStatus:    make(map[ItemStatus]int),
		StationStats:      make(map[string]StationStats, len(s.Stations)),
		StationAdvisories: make(map[string][]Advisory, len(s.Stations)),
		CompletedTotal:    s.CompletedTotal,
		Metrics:           s.Metrics(),
		History:           s.History.Samples(),
	}
	for _, it := range s.Items {
		snap.CountsByStatus[it.Status]++
		if it.CurrentStationID != "" && !it.Status.Terminal() {
			snap.ItemsByStation[it.CurrentStationID] = append(snap.ItemsByStation[it.CurrentStationID], it)
		}
	}
	for _, st := range s.Stations {
		snap.StationStats[st.ID] = st.Stats
		snap.StationAdvisories[st.ID] = st.Advisories
	}
	return snap
}

// WIP counts the items not yet in a terminal state.
func (s *Simulator) WIP() int {
	n := 0
	for _, it := range s.Items {
		if !it.Status.Terminal() {
			n++
		}
	}
	return n
}
