package sim

// Demand modes select how source stations generate arrivals.
const (
	DemandModeAuto   = "auto"   // interval/batch-size driven
	DemandModeTarget = "target" // exact count over a bounded horizon
)

// DemandUnitTicks maps a demand-unit key to its horizon length in ticks.
var DemandUnitTicks = map[string]int64{
	"hour": TicksPerHour,
	"day":  TicksPerDay,
	"week": TicksPerWeek,
}

// DurationPresetTicks maps a duration key to a target run length in ticks.
// "unbounded" disables auto-stop.
var DurationPresetTicks = map[string]int64{
	"1h":        TicksPerHour,
	"4h":        4 * TicksPerHour,
	"8h":        TicksPerDay,
	"week":      TicksPerWeek,
	"unbounded": 0,
}

// SpeedPresetTPS maps a speed key to a ticks-per-second target consumed by
// the RateScheduler. The engine itself never reads these; cadence is the
// external driver's concern.
var SpeedPresetTPS = map[string]float64{
	"slow":   1,
	"normal": 5,
	"fast":   15,
	"max":    60,
}

// RunConfig is the engine's run-level configuration. Station- and
// edge-level settings live on the graph itself.
type RunConfig struct {
	Seed                int64  `yaml:"seed"`
	MetricsWindowSize   int    `yaml:"metrics_window_size"`
	CountTransitInClock bool   `yaml:"count_transit_in_clock"`
	DemandMode          string `yaml:"demand_mode"` // "auto" or "target"
	DemandUnit          string `yaml:"demand_unit"` // "hour", "day", "week"
	TargetDurationTicks int64  `yaml:"target_duration_ticks"` // 0 = unbounded
	TicksPerSecond      float64 `yaml:"ticks_per_second"`
}

// withDefaults fills unset fields with the standard run configuration.
func (c RunConfig) withDefaults() RunConfig {
	if c.MetricsWindowSize <= 0 {
		c.MetricsWindowSize = DefaultMetricsWindow
	}
	if c.DemandMode == "" {
		c.DemandMode = DemandModeAuto
	}
	if c.DemandUnit == "" {
		c.DemandUnit = "hour"
	}
	if c.TicksPerSecond <= 0 {
		c.TicksPerSecond = SpeedPresetTPS["normal"]
	}
	return c
}

// === Preset setters ===
//
// Unknown keys are invalid parameters: the call is a no-op and the prior
// configuration is retained. No error is surfaced; this mirrors how the
// collaborating UI treats stale preset ids.

// SetDurationPreset sets the auto-stop target from a duration key.
func (s *Simulator) SetDurationPreset(key string) {
	ticks, ok := DurationPresetTicks[key]
	if !ok {
		return
	}
	s.Config.TargetDurationTicks = ticks
}

// SetSpeedPreset sets the driver pacing target from a speed key.
func (s *Simulator) SetSpeedPreset(key string) {
	tps, ok := SpeedPresetTPS[key]
	if !ok {
		return
	}
	s.Config.TicksPerSecond = tps
}

// SetDemandUnit sets the demand horizon from a unit key. A recognized key
// changes the arrival profile, so it bumps the metrics epoch.
func (s *Simulator) SetDemandUnit(key string) {
	if _, ok := DemandUnitTicks[key]; !ok {
		return
	}
	if s.Config.DemandUnit == key {
		return
	}
	s.Config.DemandUnit = key
	s.BumpEpoch()
}

// SetDemandMode switches between auto and target arrival generation.
func (s *Simulator) SetDemandMode(mode string) {
	if mode != DemandModeAuto && mode != DemandModeTarget {
		return
	}
	if s.Config.DemandMode == mode {
		return
	}
	s.Config.DemandMode = mode
	s.BumpEpoch()
}

// SetCountTransitInClock flips the display-clock policy. The raw and
// transit-only counters are policy-independent, so no epoch bump is needed.
func (s *Simulator) SetCountTransitInClock(v bool) {
	s.Config.CountTransitInClock = v
	s.DisplayClock.CountTransit = v
}

// SetMetricsWindowSize changes how many recent completions metrics average
// over. The window re-selects from existing completions; no epoch bump.
func (s *Simulator) SetMetricsWindowSize(n int) {
	if n <= 0 {
		return
	}
	s.Config.MetricsWindowSize = n
}

// === Station and edge mutators ===
//
// Every mutator that changes timing, quality, capacity, routing, or demand
// invalidates historical comparability and bumps the metrics epoch.

// SetStationProcessingTime updates a station's base processing time.
func (s *Simulator) SetStationProcessingTime(id string, ticks int64) {
	st := s.station(id)
	if st == nil || ticks < 0 {
		return
	}
	st.ProcessingTime = ticks
	s.BumpEpoch()
}

// SetStationCapacity updates a station's concurrent slot count.
func (s *Simulator) SetStationCapacity(id string, capacity int) {
	st := s.station(id)
	if st == nil || capacity < 0 {
		return
	}
	st.Capacity = capacity
	s.BumpEpoch()
}

// SetStationQualityRate updates a station's pass probability, clamped to 0..1.
func (s *Simulator) SetStationQualityRate(id string, rate float64) {
	st := s.station(id)
	if st == nil {
		return
	}
	st.QualityRate = clampFloat(rate, 0, 1)
	s.BumpEpoch()
}

// SetStationVariability updates a station's processing jitter, clamped to 0..1.
func (s *Simulator) SetStationVariability(id string, v float64) {
	st := s.station(id)
	if st == nil {
		return
	}
	st.Variability = clampFloat(v, 0, 1)
	s.BumpEpoch()
}

// SetStationWorkingHours replaces a station's weekly schedule. nil removes it.
func (s *Simulator) SetStationWorkingHours(id string, cfg *WorkingHoursConfig) {
	st := s.station(id)
	if st == nil {
		return
	}
	st.WorkingHours = cfg
	s.hours[id] = NewWorkingHoursModel(cfg)
	s.BumpEpoch()
}

// SetStationRoutingWeights replaces a station's downstream weights.
func (s *Simulator) SetStationRoutingWeights(id string, weights map[string]float64) {
	st := s.station(id)
	if st == nil {
		return
	}
	st.RoutingWeights = weights
	s.BumpEpoch()
}

// SetStationSourceConfig replaces a station's rate-based arrival config.
func (s *Simulator) SetStationSourceConfig(id string, cfg *SourceConfig) {
	st := s.station(id)
	if st == nil {
		return
	}
	st.SourceConfig = cfg
	s.BumpEpoch()
}

// SetStationDemandTarget replaces a station's exact-demand target.
// nil disables target generation for the station.
func (s *Simulator) SetStationDemandTarget(id string, target *int) {
	st := s.station(id)
	if st == nil {
		return
	}
	st.DemandTarget = target
	s.BumpEpoch()
}

// SetEdgeTransitOverride updates the transit override of the edge from->to.
// nil restores distance-derived durations.
func (s *Simulator) SetEdgeTransitOverride(from, to string, override *int64) {
	for _, e := range s.Edges {
		if e.From == from && e.To == to {
			e.TransitOverride = override
			s.BumpEpoch()
			return
		}
	}
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
