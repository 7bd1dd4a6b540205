// Defines the Item struct that models an individual work item flowing
// through the stream. Tracks lifecycle status, location, per-phase progress,
// and the time buckets the metrics window aggregates.

package sim

import (
	"fmt"
)

// ItemStatus represents the lifecycle state of an item.
type ItemStatus string

const (
	StatusQueued     ItemStatus = "queued"
	StatusProcessing ItemStatus = "processing"
	StatusTransit    ItemStatus = "transit"
	StatusCompleted  ItemStatus = "completed"
	StatusFailed     ItemStatus = "failed"
)

// Terminal reports whether the status is final. Terminal items never move
// again and are eventually dropped by retention pruning.
func (s ItemStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Item models one unit of work moving through the station graph.
//
// The time buckets advance in lockstep with TotalTime, one bucket per tick,
// so for every terminal item TimeActive+TimeWaiting+TimeTransit == TotalTime.
type Item struct {
	ID     string     // Unique identifier for the item
	Status ItemStatus // queued, processing, transit, completed, failed

	CurrentStationID string // Station the item occupies, or transit destination; empty once terminal
	FromStationID    string // Transit origin, empty outside transit

	RemainingTime    int64   // Ticks left in the current processing or transit phase
	AssignedDuration int64   // Total duration drawn for the current phase
	Progress         float64 // Processing progress 0..100
	TransitProgress  float64 // Transit progress 0..1

	SpawnTick      int64 // Tick the item entered the system
	QueuedSince    int64 // Tick the item entered its current queue, drives FIFO order
	CompletionTick int64 // Tick the item reached a terminal status
	Completed      bool  // Set once terminal (completed or failed)

	TerminalStationID string // Sink that completed the item; empty for failures and non-sink completions
	MetricsEpoch      int64  // Epoch the item was spawned in, filters the metrics window

	TimeActive  int64 // Ticks spent processing at open stations
	TimeWaiting int64 // Ticks spent queued at open stations
	TimeTransit int64 // Ticks spent moving between stations
	TotalTime   int64 // Sum of the three buckets above
}

// NewItem creates a queued item at the given station with zeroed buckets.
func NewItem(id, stationID string, spawnTick, epoch int64) *Item {
	return &Item{
		ID:               id,
		Status:           StatusQueued,
		CurrentStationID: stationID,
		SpawnTick:        spawnTick,
		QueuedSince:      spawnTick,
		MetricsEpoch:     epoch,
	}
}

// LeadTime is the item's value-stream lead time in ticks: active plus
// waiting. Transit is excluded on both sides of the efficiency ratio.
func (it *Item) LeadTime() int64 {
	return it.TimeActive + it.TimeWaiting
}

// EffectiveCompletionTick is the completion tick with transit removed, used
// so windowed throughput does not dilute under long conveyors.
func (it *Item) EffectiveCompletionTick() int64 {
	return it.SpawnTick + it.TimeActive + it.TimeWaiting
}

// This method returns a human-readable string representation of an Item.
func (it Item) String() string {
	return fmt.Sprintf("Item: (ID: %s, Status: %s, Station: %s, SpawnTick: %d, TotalTime: %d)",
		it.ID, it.Status, it.CurrentStationID, it.SpawnTick, it.TotalTime)
}
