// Defines the Station struct that models one node of the stream graph:
// sources that generate arrivals, process stations that hold and transform
// items, and sinks that absorb them.

package sim

import (
	"fmt"
)

// StationKind classifies a station's role in the graph. "Is this a true
// sink" and "does this generate arrivals" are explicit, checkable
// properties, never inferred from naming.
type StationKind string

const (
	KindSource  StationKind = "source"
	KindProcess StationKind = "process"
	KindSink    StationKind = "sink"
)

// SourceConfig drives rate-based arrival generation at a source station.
type SourceConfig struct {
	Enabled   bool  `yaml:"enabled"`
	Interval  int64 `yaml:"interval"`   // Ticks between batches
	BatchSize int   `yaml:"batch_size"` // Items per batch, 0 treated as 1
}

// WorkingHoursConfig is a station's weekly open schedule: the first
// HoursPerDay hours of each of the first DaysPerWeek days are open.
type WorkingHoursConfig struct {
	Enabled     bool `yaml:"enabled"`
	HoursPerDay int  `yaml:"hours_per_day"` // 0..8
	DaysPerWeek int  `yaml:"days_per_week"` // 0..5
}

// StationStats accumulates per-station resolution counters across a run.
type StationStats struct {
	Processed int // Items that passed the quality check here
	Failed    int // Items scrapped by the quality check here
}

// Advisory is a non-fatal configuration flag surfaced on a station.
// Advisories never stop the engine; affected items simply stop progressing.
type Advisory string

const (
	AdvisoryNoOutgoingPath Advisory = "no-outgoing-path"
	AdvisoryZeroCapacity   Advisory = "zero-capacity"
)

// Station models one node of the stream graph. The editing layer owns the
// configuration fields; the engine only writes Stats and Advisories.
type Station struct {
	ID   string
	Name string
	Kind StationKind

	ProcessingTime int64   // Base processing duration in ticks, 0 = pass-through
	Capacity       int     // Concurrent processing slots, 0 = nothing promoted
	QualityRate    float64 // Pass probability 0..1
	Variability    float64 // Processing jitter amplitude 0..1

	RoutingWeights map[string]float64 // Downstream station id -> weight

	SourceConfig *SourceConfig       // Rate-based arrivals, nil for non-sources
	DemandTarget *int                // Exact-demand target, nil disables target mode here
	WorkingHours *WorkingHoursConfig // Weekly schedule, nil = always open

	X float64 // Canvas position, feeds distance-derived transit times
	Y float64

	Stats      StationStats
	Advisories []Advisory
}

// IsSink reports whether the station is a true end of the stream. Only
// sinks grant terminal-station credit on completion.
func (st *Station) IsSink() bool {
	return st.Kind == KindSink
}

// GeneratesArrivals reports whether the station spawns new items: it must
// be a source with an enabled source config.
func (st *Station) GeneratesArrivals() bool {
	return st.Kind == KindSource && st.SourceConfig != nil && st.SourceConfig.Enabled
}

// This method returns a human-readable string representation of a Station.
func (st Station) String() string {
	return fmt.Sprintf("Station: (ID: %s, Kind: %s, Capacity: %d, ProcessingTime: %d)",
		st.ID, st.Kind, st.Capacity, st.ProcessingTime)
}
