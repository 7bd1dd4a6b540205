// sim/simulator.go
package sim

import (
	"fmt"
	"math"
	"sort"

	"github.com/sirupsen/logrus"
)

// TerminalRetentionCap bounds how many completed/failed items are retained.
// The cap stays above the largest sensible metrics window so the rolling
// window always has its population available.
const TerminalRetentionCap = 500

// Simulator is the core object that holds simulation time, the stream graph,
// the item population, and the per-tick state transition.
//
// The engine is single-threaded and turn-based: Tick is not reentrant and an
// external driver decides when to call it. Apparent simultaneity comes from
// advancing the whole item set in a fixed phase order inside one call:
//
//	1. open-ness per station        5. station stats and advisories
//	2. arrival generation           6. history sampling
//	3. advance active items         7. terminal-item retention
//	4. resource assignment          8. clock bookkeeping
type Simulator struct {
	Stations []*Station // stable order, drives deterministic assignment
	Edges    []*Edge
	Items    []*Item

	Config RunConfig

	// DisplayClock converts raw ticks into the user-facing timeline.
	DisplayClock Clock
	// History is the bounded ring of periodic run samples.
	History *History

	TickCount        int64 // raw tick counter, ground truth
	TransitOnlyTicks int64 // cumulative ticks where only transit moved
	CompletedTotal   int64 // completions since the last epoch bump
	Epoch            int64 // metrics epoch, bumped on timing-relevant edits
	Running          bool

	rng      *PartitionedRNG
	transit  TransitModel
	demand   *DemandGenerator
	hours    map[string]*WorkingHoursModel
	index    map[string]*Station
	outgoing map[string][]*Edge
	nextID   int64
}

// NewSimulator builds an engine over the given graph. The graph is owned by
// the caller's editing layer; the engine only reads it, except for the
// cumulative Stats and Advisories fields it maintains per station.
func NewSimulator(stations []*Station, edges []*Edge, cfg RunConfig) *Simulator {
	cfg = cfg.withDefaults()
	s := &Simulator{
		Stations: stations,
		Edges:    edges,
		Items:    make([]*Item, 0),
		Config:   cfg,
		History:  &History{},
		Running:  true,
		rng:      NewPartitionedRNG(NewSimulationKey(cfg.Seed)),
		demand:   NewDemandGenerator(),
		hours:    make(map[string]*WorkingHoursModel, len(stations)),
		index:    make(map[string]*Station, len(stations)),
	}
	s.DisplayClock = Clock{CountTransit: cfg.CountTransitInClock}
	for _, st := range stations {
		s.index[st.ID] = st
		s.hours[st.ID] = NewWorkingHoursModel(st.WorkingHours)
	}
	s.rebuildOutgoing()
	s.refreshAdvisories()
	return s
}

func (s *Simulator) rebuildOutgoing() {
	s.outgoing = make(map[string][]*Edge, len(s.Stations))
	for _, e := range s.Edges {
		s.outgoing[e.From] = append(s.outgoing[e.From], e)
	}
}

func (s *Simulator) station(id string) *Station {
	return s.index[id]
}

// Cadence returns the driver pacing for the configured ticks-per-second
// target. Pacing never affects tick semantics.
func (s *Simulator) Cadence() Cadence {
	return RateScheduler{}.CadenceFor(s.Config.TicksPerSecond)
}

// Progress returns run progress as a percentage of the target duration,
// 0 when the run is unbounded.
func (s *Simulator) Progress() float64 {
	target := s.Config.TargetDurationTicks
	if target <= 0 {
		return 0
	}
	p := float64(s.TickCount) / float64(target) * 100
	if p > 100 {
		return 100
	}
	return p
}

// Metrics computes the rolling window metrics for the current epoch.
func (s *Simulator) Metrics() WindowMetrics {
	epoch := s.Epoch
	return ComputeWindowMetrics(s.Items, s.Config.MetricsWindowSize, &epoch)
}

// BumpEpoch invalidates historical comparability after a timing-relevant
// configuration change: rolling history, cumulative completions, and demand
// horizons restart. Raw and transit-only tick counters are untouched so the
// clock stays monotonic.
func (s *Simulator) BumpEpoch() {
	s.Epoch++
	s.History.Reset()
	s.CompletedTotal = 0
	s.demand.Reset()
	logrus.Debugf("[tick %07d] Metrics epoch bumped to %d", s.TickCount, s.Epoch)
}

// Run advances the simulation by up to n ticks, stopping early if the
// target duration auto-stops the run.
func (s *Simulator) Run(n int) {
	for i := 0; i < n && s.Running; i++ {
		s.Tick()
	}
}

// Tick advances the simulation by exactly one logical tick. Invalid graph
// configurations never raise errors; affected stations carry advisories and
// their items simply stop progressing.
func (s *Simulator) Tick() {
	if s.Config.TargetDurationTicks > 0 && s.TickCount >= s.Config.TargetDurationTicks {
		// Auto-stop: the run is over, the tick is a no-op.
		s.Running = false
		return
	}
	now := s.TickCount

	// Phase 1: open-ness per station.
	open := make(map[string]bool, len(s.Stations))
	for _, st := range s.Stations {
		open[st.ID] = s.hours[st.ID].IsOpen(now)
	}

	// Phase 2: arrival generation.
	s.generateArrivals(now, open)

	// Phase 3: advance existing and newly spawned items.
	s.advanceItems(now, open)

	// Phase 4: promote queued items into freed capacity.
	s.assignSlots(now, open)

	// Phase 5: refresh per-station advisories. Stats counters were already
	// accumulated by this tick's resolutions.
	s.refreshAdvisories()

	// Phase 6: periodic history sample.
	if now%HistoryStride == 0 {
		s.History.Append(HistorySample{
			Tick:       now,
			WIP:        s.WIP(),
			Completed:  s.CompletedTotal,
			Throughput: s.Metrics().Throughput,
		})
	}

	// Phase 7: bound the terminal-item population.
	s.pruneTerminal()

	// Phase 8: clock bookkeeping.
	if IsTransitOnlyTick(s.Items) {
		s.TransitOnlyTicks++
	}
	s.TickCount++
}

// generateArrivals spawns new items at enabled, open source stations.
func (s *Simulator) generateArrivals(now int64, open map[string]bool) {
	for _, st := range s.Stations {
		if !st.GeneratesArrivals() || !open[st.ID] {
			continue
		}
		if s.Config.DemandMode == DemandModeTarget {
			if st.DemandTarget == nil {
				continue
			}
			target := *st.DemandTarget
			if s.demand.Exhausted(st.ID, target) {
				continue
			}
			horizon := DemandUnitTicks[s.Config.DemandUnit]
			totalOpen := s.hours[st.ID].OpenTicksWithin(0, horizon)
			n := s.demand.SpawnCount(st.ID, target, totalOpen)
			for i := 0; i < n; i++ {
				s.spawn(st, now)
			}
			continue
		}
		cfg := st.SourceConfig
		if cfg.Interval <= 0 || now%cfg.Interval != 0 {
			continue
		}
		batch := cfg.BatchSize
		if batch <= 0 {
			batch = 1
		}
		for i := 0; i < batch; i++ {
			s.spawn(st, now)
		}
	}
}

func (s *Simulator) spawn(st *Station, now int64) *Item {
	s.nextID++
	it := NewItem(fmt.Sprintf("item_%d", s.nextID), st.ID, now, s.Epoch)
	s.Items = append(s.Items, it)
	logrus.Debugf("[tick %07d] << Arrival: %s at %s", now, it.ID, st.ID)
	return it
}

// advanceItems runs the single pass over the item set. Time buckets advance
// in lockstep with TotalTime so that, for every terminal item,
// TimeActive+TimeWaiting+TimeTransit == TotalTime. Items parked at a closed
// station advance nothing at all.
func (s *Simulator) advanceItems(now int64, open map[string]bool) {
	for _, it := range s.Items {
		if it.Status.Terminal() {
			continue
		}
		switch it.Status {
		case StatusProcessing:
			if !open[it.CurrentStationID] {
				continue
			}
			it.TotalTime++
			it.TimeActive++
			it.RemainingTime--
			if it.AssignedDuration > 0 {
				it.Progress = float64(it.AssignedDuration-it.RemainingTime) / float64(it.AssignedDuration) * 100
			} else {
				it.Progress = 100
			}
			if it.RemainingTime <= 0 {
				s.resolve(it, s.index[it.CurrentStationID], now)
			}
		case StatusTransit:
			it.TotalTime++
			it.TimeTransit++
			it.RemainingTime--
			if it.AssignedDuration > 0 {
				it.TransitProgress = float64(it.AssignedDuration-it.RemainingTime) / float64(it.AssignedDuration)
			} else {
				it.TransitProgress = 1
			}
			if it.RemainingTime <= 0 {
				it.Status = StatusQueued
				it.FromStationID = ""
				it.QueuedSince = now
				it.TransitProgress = 0
				it.Progress = 0
				logrus.Debugf("[tick %07d] %s arrived at %s", now, it.ID, it.CurrentStationID)
			}
		case StatusQueued:
			if !open[it.CurrentStationID] {
				continue
			}
			it.TotalTime++
			it.TimeWaiting++
		}
	}
}

// resolve settles an item whose processing phase just finished: quality
// check, then weighted routing or completion. Terminal-station credit is
// only given when the item finishes at a true sink.
func (s *Simulator) resolve(it *Item, st *Station, now int64) {
	if st == nil {
		// Dangling station reference; scenario validation prevents this,
		// but a mid-run graph edit could race it. Drop the item as failed.
		it.Status = StatusFailed
		it.Completed = true
		it.CompletionTick = now
		it.CurrentStationID = ""
		return
	}
	if s.rng.ForSubsystem(SubsystemQuality).Float64() >= st.QualityRate {
		it.Status = StatusFailed
		it.Completed = true
		it.CompletionTick = now
		it.CurrentStationID = ""
		st.Stats.Failed++
		logrus.Debugf("[tick %07d] %s failed quality at %s", now, it.ID, st.ID)
		return
	}
	st.Stats.Processed++

	out := s.outgoing[st.ID]
	if len(out) == 0 {
		it.Status = StatusCompleted
		it.Completed = true
		it.CompletionTick = now
		if st.IsSink() {
			it.TerminalStationID = st.ID
		}
		it.CurrentStationID = ""
		s.CompletedTotal++
		logrus.Debugf("[tick %07d] %s completed", now, it.ID)
		return
	}

	edge := s.chooseEdge(st, out)
	dest := s.index[edge.To]
	var dur int64 = 1
	if dest != nil {
		dur = s.transit.Duration(edge, st, dest)
	}
	it.Status = StatusTransit
	it.FromStationID = st.ID
	it.CurrentStationID = edge.To
	it.RemainingTime = dur
	it.AssignedDuration = dur
	it.TransitProgress = 0
	it.Progress = 0
}

// chooseEdge samples an outgoing edge by cumulative routing weight.
// Negative weights are clamped to zero; an all-zero weight sum falls back
// to a uniform choice instead of dividing by zero. Single-edge stations
// skip sampling entirely so they draw nothing from the RNG.
func (s *Simulator) chooseEdge(st *Station, edges []*Edge) *Edge {
	if len(edges) == 1 {
		return edges[0]
	}
	rng := s.rng.ForSubsystem(SubsystemRouting)
	weights := make([]float64, len(edges))
	total := 0.0
	for i, e := range edges {
		w := st.RoutingWeights[e.To]
		if w < 0 {
			w = 0
		}
		weights[i] = w
		total += w
	}
	if total <= 0 {
		return edges[rng.Intn(len(edges))]
	}
	r := rng.Float64() * total
	cum := 0.0
	for i, e := range edges {
		cum += weights[i]
		if r < cum {
			return e
		}
	}
	return edges[len(edges)-1]
}

// assignSlots promotes queued items into free capacity, station by station
// in graph order, FIFO by queue-entry tick within a station. Occupancy is
// counted after the advance pass, so slots freed this tick are reusable
// this tick. Zero-time stations resolve their items immediately instead of
// holding a slot across ticks, but each resolution still consumes one of
// this tick's slots.
func (s *Simulator) assignSlots(now int64, open map[string]bool) {
	for _, st := range s.Stations {
		if !open[st.ID] || st.Capacity <= 0 {
			continue
		}
		occupied := 0
		q := &ItemQueue{}
		for _, it := range s.Items {
			if it.CurrentStationID != st.ID {
				continue
			}
			switch it.Status {
			case StatusProcessing:
				occupied++
			case StatusQueued:
				q.Enqueue(it)
			}
		}
		q.SortFIFO()
		free := st.Capacity - occupied
		for free > 0 && q.Len() > 0 {
			it := q.Dequeue()
			free--
			dur := s.sampleProcessingDuration(st)
			if dur <= 0 {
				it.AssignedDuration = 0
				it.Progress = 100
				s.resolve(it, st, now)
				continue
			}
			it.Status = StatusProcessing
			it.RemainingTime = dur
			it.AssignedDuration = dur
			it.Progress = 0
		}
	}
}

// sampleProcessingDuration draws an item's processing duration from the
// station's base time widened by triangular-like jitter (mean of two
// uniforms). Variability 0 returns exactly the base value; jittered draws
// are floored at one tick.
func (s *Simulator) sampleProcessingDuration(st *Station) int64 {
	base := st.ProcessingTime
	if base <= 0 {
		return 0
	}
	if st.Variability <= 0 {
		return base
	}
	rng := s.rng.ForSubsystem(SubsystemVariability)
	tri := (rng.Float64() + rng.Float64()) / 2
	factor := 1 + st.Variability*(2*tri-1)
	d := int64(math.Round(float64(base) * factor))
	if d < 1 {
		d = 1
	}
	return d
}

// refreshAdvisories recomputes the non-fatal configuration flags.
func (s *Simulator) refreshAdvisories() {
	for _, st := range s.Stations {
		var adv []Advisory
		if !st.IsSink() && len(s.outgoing[st.ID]) == 0 {
			adv = append(adv, AdvisoryNoOutgoingPath)
		}
		if st.Capacity == 0 {
			adv = append(adv, AdvisoryZeroCapacity)
		}
		st.Advisories = adv
	}
}

// pruneTerminal bounds memory by dropping the oldest terminal items once
// the retention cap is exceeded. The most recently completed items are kept
// so the metrics window stays valid.
func (s *Simulator) pruneTerminal() {
	terminal := 0
	for _, it := range s.Items {
		if it.Status.Terminal() {
			terminal++
		}
	}
	if terminal <= TerminalRetentionCap {
		return
	}

	// Find the completion-tick cutoff for the newest TerminalRetentionCap items.
	ticks := make([]int64, 0, terminal)
	for _, it := range s.Items {
		if it.Status.Terminal() {
			ticks = append(ticks, it.CompletionTick)
		}
	}
	cutoff := selectNewest(ticks, TerminalRetentionCap)

	kept := s.Items[:0]
	budget := TerminalRetentionCap
	// Two passes over completion ticks: strictly newer than the cutoff are
	// always kept; items exactly at the cutoff fill the remaining budget in
	// population order.
	atCutoff := 0
	for _, it := range s.Items {
		if it.Status.Terminal() && it.CompletionTick > cutoff {
			budget--
		}
	}
	for _, it := range s.Items {
		if !it.Status.Terminal() {
			kept = append(kept, it)
			continue
		}
		if it.CompletionTick > cutoff {
			kept = append(kept, it)
		} else if it.CompletionTick == cutoff && atCutoff < budget {
			kept = append(kept, it)
			atCutoff++
		}
	}
	s.Items = kept
}

// selectNewest returns the k-th largest value in ticks (1-based), i.e. the
// completion tick of the oldest item that still fits in a budget of k.
func selectNewest(ticks []int64, k int) int64 {
	sorted := make([]int64, len(ticks))
	copy(sorted, ticks)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] > sorted[j] })
	if k > len(sorted) {
		k = len(sorted)
	}
	return sorted[k-1]
}
