package roll

const (
	// DefaultThreshold is the low-stock level, in grams, for materials without
	// a configured threshold.
	DefaultThreshold = 300.0

	// WarnLevel is the remaining weight below which a roll is worth watching.
	WarnLevel = 1000.0
)

// Status is the stock level of a roll.
type Status int

const (
	StatusOK Status = iota
	StatusWarn
	StatusLow
)

func (s Status) String() string {
	switch s {
	case StatusLow:
		return "low"
	case StatusWarn:
		return "warn"
	default:
		return "ok"
	}
}

// StatusFor classifies remaining grams against the material threshold. A
// roll is low under either the threshold or DefaultThreshold.
func StatusFor(remaining, threshold float64) Status {
	switch {
	case remaining < DefaultThreshold || remaining < threshold:
		return StatusLow
	case remaining < WarnLevel:
		return StatusWarn
	default:
		return StatusOK
	}
}
