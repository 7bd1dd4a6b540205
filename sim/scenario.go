package sim

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario holds a full stream graph plus run configuration, loadable from
// a YAML file. This is the bulk-load boundary: collaborators must get a nil
// error from Validate before constructing an engine from the scenario.
type Scenario struct {
	Stations []StationSpec `yaml:"stations"`
	Edges    []EdgeSpec    `yaml:"edges"`
	Run      RunConfig     `yaml:"run"`
}

// StationSpec is the YAML shape of one station. Pointer fields distinguish
// "not set" from explicit zeroes.
type StationSpec struct {
	ID             string              `yaml:"id"`
	Name           string              `yaml:"name"`
	Kind           string              `yaml:"kind"` // "source", "process", "sink"
	ProcessingTime int64               `yaml:"processing_time"`
	Capacity       *int                `yaml:"capacity"`
	QualityRate    *float64            `yaml:"quality_rate"`
	Variability    float64             `yaml:"variability"`
	RoutingWeights map[string]float64  `yaml:"routing_weights"`
	Source         *SourceConfig       `yaml:"source"`
	DemandTarget   *int                `yaml:"demand_target"`
	WorkingHours   *WorkingHoursConfig `yaml:"working_hours"`
	X              float64             `yaml:"x"`
	Y              float64             `yaml:"y"`
}

// EdgeSpec is the YAML shape of one edge.
type EdgeSpec struct {
	From            string `yaml:"from"`
	To              string `yaml:"to"`
	TransitOverride *int64 `yaml:"transit_override"`
}

// SinkDefaultCapacity is applied to sinks whose capacity is not set:
// end stations conventionally accept everything at once.
const SinkDefaultCapacity = 100000

// ValidStationKinds is the set of recognized station kind names.
var ValidStationKinds = map[string]bool{"source": true, "process": true, "sink": true}

// LoadScenario reads and parses a YAML scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	return &sc, nil
}

// Validate checks structural soundness: unique station IDs, known kinds,
// edges between existing stations, and parameter ranges. Advisory-level
// conditions (zero capacity, missing outgoing path) are deliberately NOT
// errors here; the engine surfaces them as per-station flags.
func (sc *Scenario) Validate() error {
	if len(sc.Stations) == 0 {
		return fmt.Errorf("scenario has no stations")
	}
	ids := make(map[string]bool, len(sc.Stations))
	for i, st := range sc.Stations {
		if st.ID == "" {
			return fmt.Errorf("station %d has no id", i)
		}
		if ids[st.ID] {
			return fmt.Errorf("duplicate station id %q", st.ID)
		}
		ids[st.ID] = true
		if !ValidStationKinds[st.Kind] {
			return fmt.Errorf("station %q: unknown kind %q", st.ID, st.Kind)
		}
		if st.ProcessingTime < 0 {
			return fmt.Errorf("station %q: processing_time must be non-negative, got %d", st.ID, st.ProcessingTime)
		}
		if st.Capacity != nil && *st.Capacity < 0 {
			return fmt.Errorf("station %q: capacity must be non-negative, got %d", st.ID, *st.Capacity)
		}
		if st.QualityRate != nil && (*st.QualityRate < 0 || *st.QualityRate > 1) {
			return fmt.Errorf("station %q: quality_rate must be in [0,1], got %f", st.ID, *st.QualityRate)
		}
		if st.Variability < 0 || st.Variability > 1 {
			return fmt.Errorf("station %q: variability must be in [0,1], got %f", st.ID, st.Variability)
		}
		for target, w := range st.RoutingWeights {
			if w < 0 {
				return fmt.Errorf("station %q: routing weight to %q must be non-negative, got %f", st.ID, target, w)
			}
		}
		if st.Source != nil && st.Source.Interval < 0 {
			return fmt.Errorf("station %q: source interval must be non-negative, got %d", st.ID, st.Source.Interval)
		}
		if st.DemandTarget != nil && *st.DemandTarget < 0 {
			return fmt.Errorf("station %q: demand_target must be non-negative, got %d", st.ID, *st.DemandTarget)
		}
		if wh := st.WorkingHours; wh != nil {
			if wh.HoursPerDay < 0 || wh.HoursPerDay > HoursPerDay {
				return fmt.Errorf("station %q: hours_per_day must be in 0..%d, got %d", st.ID, HoursPerDay, wh.HoursPerDay)
			}
			if wh.DaysPerWeek < 0 || wh.DaysPerWeek > DaysPerWeek {
				return fmt.Errorf("station %q: days_per_week must be in 0..%d, got %d", st.ID, DaysPerWeek, wh.DaysPerWeek)
			}
		}
	}
	for i, e := range sc.Edges {
		if !ids[e.From] {
			return fmt.Errorf("edge %d: unknown source station %q", i, e.From)
		}
		if !ids[e.To] {
			return fmt.Errorf("edge %d: unknown target station %q", i, e.To)
		}
		if e.From == e.To {
			return fmt.Errorf("edge %d: self-loop on station %q", i, e.From)
		}
		if e.TransitOverride != nil && *e.TransitOverride < 1 {
			return fmt.Errorf("edge %d: transit_override must be at least 1 tick, got %d", i, *e.TransitOverride)
		}
	}
	if m := sc.Run.DemandMode; m != "" && m != DemandModeAuto && m != DemandModeTarget {
		return fmt.Errorf("unknown demand mode %q", m)
	}
	if u := sc.Run.DemandUnit; u != "" {
		if _, ok := DemandUnitTicks[u]; !ok {
			return fmt.Errorf("unknown demand unit %q", u)
		}
	}
	return nil
}

// Build materializes the scenario into engine inputs, applying defaults:
// capacity 1 for sources and process stations, effectively unlimited for
// sinks, quality rate 1.0.
func (sc *Scenario) Build() ([]*Station, []*Edge) {
	stations := make([]*Station, 0, len(sc.Stations))
	for _, spec := range sc.Stations {
		st := &Station{
			ID:             spec.ID,
			Name:           spec.Name,
			Kind:           StationKind(spec.Kind),
			ProcessingTime: spec.ProcessingTime,
			Capacity:       1,
			QualityRate:    1.0,
			Variability:    spec.Variability,
			RoutingWeights: spec.RoutingWeights,
			SourceConfig:   spec.Source,
			DemandTarget:   spec.DemandTarget,
			WorkingHours:   spec.WorkingHours,
			X:              spec.X,
			Y:              spec.Y,
		}
		if st.Kind == KindSink {
			st.Capacity = SinkDefaultCapacity
		}
		if spec.Capacity != nil {
			st.Capacity = *spec.Capacity
		}
		if spec.QualityRate != nil {
			st.QualityRate = *spec.QualityRate
		}
		if st.RoutingWeights == nil {
			st.RoutingWeights = map[string]float64{}
		}
		stations = append(stations, st)
	}
	edges := make([]*Edge, 0, len(sc.Edges))
	for _, spec := range sc.Edges {
		edges = append(edges, &Edge{From: spec.From, To: spec.To, TransitOverride: spec.TransitOverride})
	}
	return stations, edges
}
