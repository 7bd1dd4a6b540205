package sim

// Cadence tells an external driver how to pace tick() calls to approximate
// a target ticks-per-second rate. The driver fires every IntervalMS
// milliseconds and advances TicksPerFire ticks per firing, carrying the
// fractional remainder itself. Cadence has no effect on tick semantics.
type Cadence struct {
	IntervalMS   float64
	TicksPerFire float64
}

// MaxFiresPerSecond caps the driver firing frequency; beyond it, extra
// speed comes from batching multiple ticks per firing instead.
const MaxFiresPerSecond = 30.0

// RateScheduler converts a ticks-per-second target into a driving cadence.
type RateScheduler struct{}

// CadenceFor returns the cadence for the given ticks-per-second rate.
// Non-positive rates pause the driver: interval 0, zero ticks per fire.
func (RateScheduler) CadenceFor(ticksPerSecond float64) Cadence {
	if ticksPerSecond <= 0 {
		return Cadence{}
	}
	if ticksPerSecond <= MaxFiresPerSecond {
		return Cadence{
			IntervalMS:   1000.0 / ticksPerSecond,
			TicksPerFire: 1,
		}
	}
	return Cadence{
		IntervalMS:   1000.0 / MaxFiresPerSecond,
		TicksPerFire: ticksPerSecond / MaxFiresPerSecond,
	}
}
