package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTick_SingleItemLifecycle(t *testing.T) {
	// GIVEN one item queued at a lone 3-tick process station
	p := &Station{ID: "p", Kind: KindProcess, ProcessingTime: 3, Capacity: 1, QualityRate: 1}
	s := NewSimulator([]*Station{p}, nil, RunConfig{Seed: 1})
	it := seedItem(s, "i1", "p")

	// Tick 0: the item waits one tick, then takes the free slot.
	s.Tick()
	assert.Equal(t, StatusProcessing, it.Status)
	assert.Equal(t, int64(1), it.TimeWaiting)
	assert.Equal(t, int64(3), it.RemainingTime)

	// Ticks 1..3: processing runs down and resolves.
	s.Run(3)
	assert.Equal(t, StatusCompleted, it.Status)
	assert.Equal(t, int64(3), it.TimeActive)
	assert.Equal(t, int64(1), it.TimeWaiting)
	assert.Equal(t, int64(0), it.TimeTransit)
	assert.Equal(t, int64(4), it.TotalTime)
	assert.True(t, it.Completed)
	assert.Equal(t, int64(3), it.CompletionTick)
	// No terminal-station credit: p is not a sink.
	assert.Empty(t, it.TerminalStationID)
	assert.Equal(t, 1, p.Stats.Processed)
}

func TestTick_CompletionAtSink_GetsTerminalCredit(t *testing.T) {
	s := newLineSim(2, 1, 5, 1, RunConfig{Seed: 1})
	s.Run(60)

	found := false
	for _, it := range s.Items {
		if it.Status == StatusCompleted {
			found = true
			assert.Equal(t, "sink", it.TerminalStationID)
		}
	}
	require.True(t, found, "expected completions after 60 ticks")
}

func TestTick_CapacityInvariant(t *testing.T) {
	// GIVEN a line with capacity 2 and arrivals faster than service
	s := newLineSim(4, 2, 2, 1, RunConfig{Seed: 3})
	s.station("proc").Variability = 0.4
	s.station("proc").QualityRate = 0.9

	// THEN at no tick does any station exceed its capacity
	for i := 0; i < 300; i++ {
		s.Tick()
		counts := map[string]int{}
		for _, it := range s.Items {
			if it.Status == StatusProcessing {
				counts[it.CurrentStationID]++
			}
		}
		for _, st := range s.Stations {
			require.LessOrEqualf(t, counts[st.ID], st.Capacity,
				"tick %d: station %s over capacity", i, st.ID)
		}
	}
}

func TestTick_TimeBucketConservation(t *testing.T) {
	// GIVEN a noisy run with quality losses, jitter, and transit
	s := newLineSim(3, 1, 4, 2, RunConfig{Seed: 11})
	s.station("proc").Variability = 0.5
	s.station("proc").QualityRate = 0.8
	s.Run(400)

	// THEN every terminal item's buckets sum to its total time
	checked := 0
	for _, it := range s.Items {
		if !it.Status.Terminal() {
			continue
		}
		checked++
		require.Equalf(t, it.TotalTime, it.TimeActive+it.TimeWaiting+it.TimeTransit,
			"item %s: bucket sum != total", it.ID)
	}
	require.Greater(t, checked, 10, "expected a meaningful terminal population")
}

func TestTick_WeightedRouting_ApproximatesConfiguredProportions(t *testing.T) {
	// GIVEN a splitter with weights A:1, B:4 and 1000 queued items
	split := &Station{
		ID: "split", Kind: KindProcess, ProcessingTime: 0, Capacity: 2000,
		QualityRate:    1,
		RoutingWeights: map[string]float64{"a": 1, "b": 4},
	}
	a := &Station{ID: "a", Kind: KindSink, Capacity: SinkDefaultCapacity, QualityRate: 1}
	b := &Station{ID: "b", Kind: KindSink, Capacity: SinkDefaultCapacity, QualityRate: 1}
	edges := []*Edge{
		{From: "split", To: "a", TransitOverride: int64Ptr(1)},
		{From: "split", To: "b", TransitOverride: int64Ptr(1)},
	}
	s := NewSimulator([]*Station{split, a, b}, edges, RunConfig{Seed: 5})
	for i := 0; i < 1000; i++ {
		seedItem(s, "i", "split")
	}

	// WHEN one tick resolves all of them through the zero-time splitter
	s.Tick()

	// THEN the transit destinations approximate 20%/80%
	toB := 0
	for _, it := range s.Items {
		require.Equal(t, StatusTransit, it.Status)
		if it.CurrentStationID == "b" {
			toB++
		}
	}
	assert.InDelta(t, 800, toB, 50, "weighted routing proportion off")
}

func TestTick_ZeroWeightSum_FallsBackToUniform(t *testing.T) {
	split := &Station{
		ID: "split", Kind: KindProcess, ProcessingTime: 0, Capacity: 2000,
		QualityRate:    1,
		RoutingWeights: map[string]float64{"a": 0, "b": -3},
	}
	a := &Station{ID: "a", Kind: KindSink, Capacity: SinkDefaultCapacity, QualityRate: 1}
	b := &Station{ID: "b", Kind: KindSink, Capacity: SinkDefaultCapacity, QualityRate: 1}
	edges := []*Edge{
		{From: "split", To: "a", TransitOverride: int64Ptr(1)},
		{From: "split", To: "b", TransitOverride: int64Ptr(1)},
	}
	s := NewSimulator([]*Station{split, a, b}, edges, RunConfig{Seed: 5})
	for i := 0; i < 1000; i++ {
		seedItem(s, "i", "split")
	}
	s.Tick()

	toA := 0
	for _, it := range s.Items {
		if it.CurrentStationID == "a" {
			toA++
		}
	}
	assert.InDelta(t, 500, toA, 60, "zero-weight fallback should be uniform")
}

func TestTick_QualityFailure_IsTerminalWithoutRetry(t *testing.T) {
	// GIVEN a station that fails everything
	p := &Station{ID: "p", Kind: KindProcess, ProcessingTime: 1, Capacity: 1, QualityRate: 0}
	s := NewSimulator([]*Station{p}, nil, RunConfig{Seed: 1})
	it := seedItem(s, "i1", "p")

	s.Run(3)

	assert.Equal(t, StatusFailed, it.Status)
	assert.True(t, it.Completed)
	assert.Empty(t, it.TerminalStationID)
	assert.Equal(t, 1, p.Stats.Failed)
	assert.Equal(t, 0, p.Stats.Processed)
	assert.Zero(t, s.CompletedTotal, "failures are not completions")
	assert.Zero(t, s.Metrics().SampleSize, "failures never enter the metrics window")
}

func TestTick_ZeroProcessingTime_ResolvesSameTick(t *testing.T) {
	s := newLineSim(0, 1, 1000, 4, RunConfig{Seed: 1})
	it := seedItem(s, "i1", "proc")

	s.Tick()

	// Promoted and resolved within the same tick: no slot held across ticks.
	assert.Equal(t, StatusTransit, it.Status)
	assert.Equal(t, "sink", it.CurrentStationID)
	assert.Equal(t, "proc", it.FromStationID)
	assert.Equal(t, int64(4), it.RemainingTime)
}

func TestTick_ClosedStation_QueuedItemsAccrueNothing(t *testing.T) {
	// GIVEN a zero-capacity station open one hour per day
	p := &Station{
		ID: "p", Kind: KindProcess, ProcessingTime: 3, Capacity: 0, QualityRate: 1,
		WorkingHours: &WorkingHoursConfig{Enabled: true, HoursPerDay: 1, DaysPerWeek: 5},
	}
	s := NewSimulator([]*Station{p}, nil, RunConfig{Seed: 1})
	it := seedItem(s, "i1", "p")

	// WHEN two hours pass
	s.Run(120)

	// THEN waiting accrued only during the 60 open ticks
	assert.Equal(t, StatusQueued, it.Status)
	assert.Equal(t, int64(60), it.TimeWaiting)
	assert.Equal(t, int64(60), it.TotalTime)
}

func TestTick_ClosedStation_ProcessingFrozen(t *testing.T) {
	// GIVEN processing longer than the open window
	p := &Station{
		ID: "p", Kind: KindProcess, ProcessingTime: 100, Capacity: 1, QualityRate: 1,
		WorkingHours: &WorkingHoursConfig{Enabled: true, HoursPerDay: 1, DaysPerWeek: 5},
	}
	s := NewSimulator([]*Station{p}, nil, RunConfig{Seed: 1})
	it := seedItem(s, "i1", "p")

	s.Run(120)

	// Promoted on tick 0; 59 open processing ticks remain in the first hour.
	assert.Equal(t, StatusProcessing, it.Status)
	assert.Equal(t, int64(59), it.TimeActive)
	assert.Equal(t, int64(41), it.RemainingTime)
	assert.Equal(t, int64(60), it.TotalTime)
}

func TestTick_RateArrivals_IntervalAndBatch(t *testing.T) {
	src := &Station{
		ID: "src", Kind: KindSource, Capacity: 0, QualityRate: 1,
		SourceConfig: &SourceConfig{Enabled: true, Interval: 5, BatchSize: 3},
	}
	s := NewSimulator([]*Station{src}, nil, RunConfig{Seed: 1})

	s.Run(11)

	// Batches at ticks 0, 5, 10.
	assert.Len(t, s.Items, 9)
}

func TestTick_RateArrivals_ClosedSourceDoesNotSpawn(t *testing.T) {
	src := &Station{
		ID: "src", Kind: KindSource, Capacity: 0, QualityRate: 1,
		SourceConfig: &SourceConfig{Enabled: true, Interval: 30, BatchSize: 1},
		WorkingHours: &WorkingHoursConfig{Enabled: true, HoursPerDay: 1, DaysPerWeek: 5},
	}
	s := NewSimulator([]*Station{src}, nil, RunConfig{Seed: 1})

	s.Run(120)

	// Interval hits at 0, 30, 60, 90 but only 0 and 30 are open.
	assert.Len(t, s.Items, 2)
}

func TestTick_TargetDemand_ExactTotalOverHour(t *testing.T) {
	// GIVEN a 60-item target over a 60-tick hour with no working-hours limits
	src := &Station{
		ID: "src", Kind: KindSource, Capacity: 0, QualityRate: 1,
		SourceConfig: &SourceConfig{Enabled: true},
		DemandTarget: intPtr(60),
	}
	s := NewSimulator([]*Station{src}, nil, RunConfig{
		Seed: 1, DemandMode: DemandModeTarget, DemandUnit: "hour",
	})

	// WHEN twice the horizon elapses
	s.Run(120)

	// THEN exactly 60 items spawned, all within the hour, all at src
	require.Len(t, s.Items, 60)
	for _, it := range s.Items {
		assert.Less(t, it.SpawnTick, int64(60))
		assert.Equal(t, "src", it.CurrentStationID)
	}
}

func TestTick_TargetDemand_RespectsWorkingHours(t *testing.T) {
	// GIVEN a 10-item target over a day at a station open 1h/day
	src := &Station{
		ID: "src", Kind: KindSource, Capacity: 0, QualityRate: 1,
		SourceConfig: &SourceConfig{Enabled: true},
		DemandTarget: intPtr(10),
		WorkingHours: &WorkingHoursConfig{Enabled: true, HoursPerDay: 1, DaysPerWeek: 5},
	}
	s := NewSimulator([]*Station{src}, nil, RunConfig{
		Seed: 1, DemandMode: DemandModeTarget, DemandUnit: "day",
	})

	s.Run(TicksPerDay)

	// THEN all 10 arrivals land inside the first open hour
	require.Len(t, s.Items, 10)
	for _, it := range s.Items {
		assert.Less(t, it.SpawnTick, int64(60))
	}
}

func TestTick_AutoStop(t *testing.T) {
	s := newLineSim(2, 1, 5, 1, RunConfig{Seed: 1, TargetDurationTicks: 10})

	s.Run(50)

	assert.Equal(t, int64(10), s.TickCount)
	assert.False(t, s.Running)
	assert.Equal(t, 100.0, s.Progress())

	// Further ticks stay no-ops.
	s.Tick()
	s.Tick()
	assert.Equal(t, int64(10), s.TickCount)
}

func TestProgress_UnboundedReadsZero(t *testing.T) {
	s := newLineSim(2, 1, 5, 1, RunConfig{Seed: 1})
	s.Run(30)
	assert.Zero(t, s.Progress())
}

func TestClock_IncludeTransit_DisplayEqualsRawEveryTick(t *testing.T) {
	s := newLineSim(3, 1, 4, 6, RunConfig{Seed: 1, CountTransitInClock: true})
	for i := 0; i < 100; i++ {
		s.Tick()
		require.Equal(t, s.TickCount, s.DisplayClock.DisplayTicks(s.TickCount, s.TransitOnlyTicks))
	}
}

func TestClock_ExcludeTransit_MonotoneAndBounded(t *testing.T) {
	// GIVEN items continuously cycling through a 3-tick station
	s := newLineSim(3, 1, 3, 2, RunConfig{Seed: 1})
	prev := int64(0)
	for i := 0; i < 50; i++ {
		s.Tick()
		d := s.DisplayClock.DisplayTicks(s.TickCount, s.TransitOnlyTicks)
		require.GreaterOrEqual(t, d, prev, "display clock decreased")
		require.LessOrEqual(t, d, s.TickCount)
		prev = d
	}
	// The clock must not sit still while work is continuously processing.
	assert.Greater(t, prev, int64(10))
}

func TestClock_TransitOnlyTicks_StallDisplayClock(t *testing.T) {
	// GIVEN a single item whose journey is dominated by a 10-tick transit
	p := &Station{ID: "p", Kind: KindProcess, ProcessingTime: 1, Capacity: 1, QualityRate: 1}
	sink := &Station{ID: "sink", Kind: KindSink, Capacity: SinkDefaultCapacity, QualityRate: 1}
	edges := []*Edge{{From: "p", To: "sink", TransitOverride: int64Ptr(10)}}
	s := NewSimulator([]*Station{p, sink}, edges, RunConfig{Seed: 1})
	it := seedItem(s, "i1", "p")

	s.Run(12)

	require.Equal(t, StatusCompleted, it.Status)
	assert.Equal(t, int64(10), s.TransitOnlyTicks)
	assert.Equal(t, int64(12), s.TickCount)
	assert.Equal(t, int64(2), s.DisplayClock.DisplayTicks(s.TickCount, s.TransitOnlyTicks))
	// Bucket conservation across the whole journey.
	assert.Equal(t, it.TotalTime, it.TimeActive+it.TimeWaiting+it.TimeTransit)
}

func TestThroughput_InvariantToTransitDuration(t *testing.T) {
	// GIVEN two identical lines except transit is 1 vs 20 ticks
	short := newLineSim(2, 1, 6, 1, RunConfig{Seed: 9})
	long := newLineSim(2, 1, 6, 20, RunConfig{Seed: 9})

	short.Run(600)
	long.Run(600)

	ms, ml := short.Metrics(), long.Metrics()
	require.Greater(t, ms.SampleSize, 10)
	require.Greater(t, ml.SampleSize, 10)
	assert.InDelta(t, ms.Throughput, ml.Throughput, 1.0)
	assert.InDelta(t, ms.AvgLeadTime, ml.AvgLeadTime, 1e-9)
}

func TestTick_Determinism_SameSeedSameOutcome(t *testing.T) {
	a := newLineSim(3, 2, 3, 2, RunConfig{Seed: 21})
	b := newLineSim(3, 2, 3, 2, RunConfig{Seed: 21})
	a.station("proc").Variability = 0.5
	b.station("proc").Variability = 0.5
	a.station("proc").QualityRate = 0.85
	b.station("proc").QualityRate = 0.85

	a.Run(300)
	b.Run(300)

	require.Equal(t, len(a.Items), len(b.Items))
	for i := range a.Items {
		require.Equal(t, a.Items[i].Status, b.Items[i].Status)
		require.Equal(t, a.Items[i].TotalTime, b.Items[i].TotalTime)
	}
	assert.Equal(t, a.CompletedTotal, b.CompletedTotal)
}

func TestTick_Advisories(t *testing.T) {
	stuck := &Station{ID: "stuck", Kind: KindProcess, ProcessingTime: 1, Capacity: 0, QualityRate: 1}
	sink := &Station{ID: "out", Kind: KindSink, Capacity: SinkDefaultCapacity, QualityRate: 1}
	s := NewSimulator([]*Station{stuck, sink}, nil, RunConfig{Seed: 1})
	s.Tick()

	assert.Contains(t, stuck.Advisories, AdvisoryNoOutgoingPath)
	assert.Contains(t, stuck.Advisories, AdvisoryZeroCapacity)
	// Sinks never need an outgoing path.
	assert.Empty(t, sink.Advisories)
}

func TestTick_HistorySampling_StrideAndContent(t *testing.T) {
	s := newLineSim(2, 1, 5, 1, RunConfig{Seed: 1})
	s.Run(11)

	// Samples at ticks 0, 5, 10.
	require.Equal(t, 3, s.History.Len())
	assert.Equal(t, int64(0), s.History.Samples()[0].Tick)
	assert.Equal(t, int64(10), s.History.Samples()[2].Tick)
}

func TestPruneTerminal_KeepsMostRecentCompletions(t *testing.T) {
	// GIVEN 600 terminal items with ascending completion ticks
	p := &Station{ID: "p", Kind: KindProcess, ProcessingTime: 1, Capacity: 1, QualityRate: 1}
	s := NewSimulator([]*Station{p}, nil, RunConfig{Seed: 1})
	for i := 0; i < 600; i++ {
		it := seedItem(s, "i", "p")
		it.Status = StatusCompleted
		it.Completed = true
		it.CompletionTick = int64(i)
	}
	live := seedItem(s, "live", "p")

	s.pruneTerminal()

	assert.Len(t, s.Items, TerminalRetentionCap+1)
	for _, it := range s.Items {
		if it == live {
			continue
		}
		assert.GreaterOrEqual(t, it.CompletionTick, int64(100))
	}
}

func TestSnapshot_IndicesAndCounts(t *testing.T) {
	s := newLineSim(3, 1, 4, 2, RunConfig{Seed: 2})
	s.Run(50)

	snap := s.Snapshot()
	assert.Equal(t, int64(50), snap.Tick)

	total := 0
	for _, n := range snap.CountsByStatus {
		total += n
	}
	assert.Equal(t, len(s.Items), total)

	// The station index holds only live items.
	for station, items := range snap.ItemsByStation {
		for _, it := range items {
			assert.False(t, it.Status.Terminal())
			assert.Equal(t, station, it.CurrentStationID)
		}
	}
	assert.Equal(t, s.CompletedTotal, snap.CompletedTotal)
	assert.Equal(t, snap.Metrics.SampleSize, s.Metrics().SampleSize)
}
