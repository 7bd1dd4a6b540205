package sim

// Shared builders for engine tests.

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }

// newLineSim builds the canonical three-station line
// src -> proc -> sink with rate-based arrivals at src.
func newLineSim(procTime int64, capacity int, interval int64, transitTicks int64, cfg RunConfig) *Simulator {
	stations, edges := lineGraph(procTime, capacity, interval, transitTicks)
	return NewSimulator(stations, edges, cfg)
}

func lineGraph(procTime int64, capacity int, interval int64, transitTicks int64) ([]*Station, []*Edge) {
	src := &Station{
		ID: "src", Kind: KindSource, Capacity: 1, QualityRate: 1,
		SourceConfig:   &SourceConfig{Enabled: true, Interval: interval, BatchSize: 1},
		RoutingWeights: map[string]float64{},
	}
	proc := &Station{
		ID: "proc", Kind: KindProcess, ProcessingTime: procTime, Capacity: capacity,
		QualityRate: 1, RoutingWeights: map[string]float64{},
	}
	sink := &Station{
		ID: "sink", Kind: KindSink, Capacity: SinkDefaultCapacity, QualityRate: 1,
		RoutingWeights: map[string]float64{},
	}
	edges := []*Edge{
		{From: "src", To: "proc", TransitOverride: int64Ptr(transitTicks)},
		{From: "proc", To: "sink", TransitOverride: int64Ptr(transitTicks)},
	}
	return []*Station{src, proc, sink}, edges
}

// seedItem drops a pre-built queued item into the simulator.
func seedItem(s *Simulator, id, stationID string) *Item {
	it := NewItem(id, stationID, s.TickCount, s.Epoch)
	s.Items = append(s.Items, it)
	return it
}
