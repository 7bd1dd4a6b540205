package cmd

import sim "github.com/vsm-sim/vsm-sim/sim"

// defaultScenario returns the built-in demo stream used when no scenario
// file is given: one source feeding two parallel process stations that
// merge into a sink, with a mild quality loss at assembly.
func defaultScenario() *sim.Scenario {
	capacity := func(n int) *int { return &n }
	quality := func(q float64) *float64 { return &q }

	return &sim.Scenario{
		Stations: []sim.StationSpec{
			{
				ID:   "intake",
				Name: "Intake",
				Kind: "source",
				X:    0, Y: 0,
				Capacity: capacity(1),
				Source:   &sim.SourceConfig{Enabled: true, Interval: 6, BatchSize: 1},
				RoutingWeights: map[string]float64{
					"mill-a": 1,
					"mill-b": 1,
				},
			},
			{
				ID:   "mill-a",
				Name: "Milling A",
				Kind: "process",
				X:    200, Y: -80,
				ProcessingTime: 4,
				Capacity:       capacity(1),
				Variability:    0.2,
			},
			{
				ID:   "mill-b",
				Name: "Milling B",
				Kind: "process",
				X:    200, Y: 80,
				ProcessingTime: 5,
				Capacity:       capacity(1),
				Variability:    0.2,
			},
			{
				ID:   "assembly",
				Name: "Assembly",
				Kind: "process",
				X:    400, Y: 0,
				ProcessingTime: 3,
				Capacity:       capacity(2),
				QualityRate:    quality(0.95),
			},
			{
				ID:   "shipping",
				Name: "Shipping",
				Kind: "sink",
				X:    600, Y: 0,
			},
		},
		Edges: []sim.EdgeSpec{
			{From: "intake", To: "mill-a"},
			{From: "intake", To: "mill-b"},
			{From: "mill-a", To: "assembly"},
			{From: "mill-b", To: "assembly"},
			{From: "assembly", To: "shipping"},
		},
		Run: sim.RunConfig{
			DemandMode: sim.DemandModeAuto,
			DemandUnit: "hour",
		},
	}
}
