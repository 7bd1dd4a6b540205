// Implements the working-hours calendar that decides whether a station is
// open at a given tick and how many open ticks fall inside a horizon.

package sim

// Calendar constants. A simulated hour is 60 ticks; the working week is
// 5 days of 8 hours. Working-hours schedules carve open time out of the
// front of each day and the front of each week.
const (
	TicksPerHour = 60
	HoursPerDay  = 8
	TicksPerDay  = TicksPerHour * HoursPerDay
	DaysPerWeek  = 5
	TicksPerWeek = TicksPerDay * DaysPerWeek
)

// WorkingHoursModel answers open/closed questions for one station's weekly
// schedule. The zero-value model (nil config) is always open.
type WorkingHoursModel struct {
	cfg *WorkingHoursConfig
}

// NewWorkingHoursModel wraps a station's schedule. cfg may be nil.
func NewWorkingHoursModel(cfg *WorkingHoursConfig) *WorkingHoursModel {
	return &WorkingHoursModel{cfg: cfg}
}

// IsOpen reports whether the station is open at the given tick.
// Stations without an enabled schedule are always open.
func (m *WorkingHoursModel) IsOpen(tick int64) bool {
	if m.cfg == nil || !m.cfg.Enabled {
		return true
	}
	hours := clampInt(m.cfg.HoursPerDay, 0, HoursPerDay)
	days := clampInt(m.cfg.DaysPerWeek, 0, DaysPerWeek)
	if hours == 0 || days == 0 {
		return false
	}
	dayIndex := (tick / TicksPerDay) % DaysPerWeek
	tickInDay := tick % TicksPerDay
	return dayIndex < int64(days) && tickInDay < int64(hours)*TicksPerHour
}

// OpenTicksWithin counts the open ticks in the half-open range
// [start, start+horizon).
func (m *WorkingHoursModel) OpenTicksWithin(start, horizon int64) int64 {
	if horizon <= 0 {
		return 0
	}
	if m.cfg == nil || !m.cfg.Enabled {
		return horizon
	}
	var open int64
	for t := start; t < start+horizon; t++ {
		if m.IsOpen(t) {
			open++
		}
	}
	return open
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
