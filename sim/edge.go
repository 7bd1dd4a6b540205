package sim

// Edge is a directed connection between two stations. Transit duration is
// derived from station positions unless TransitOverride pins it.
type Edge struct {
	From string
	To   string

	// TransitOverride fixes the transit time in ticks, minimum 1.
	// nil falls back to distance-derived duration.
	TransitOverride *int64
}
