package timing

// Rational is an edit rate or sample rate expressed as numerator/denominator
// frames (or samples) per second.
type Rational struct {
	Numerator   uint32
	Denominator uint32
}

const (
	maxReasonableNumerator   = 1_000_000_000
	maxReasonableDenominator = 1_000_000_000
	minReasonableComponent   = 1

	// maxReasonableTimestamp bounds any timestamp or index this package
	// will treat as valid; values above it, along with UndefinedIndex
	// itself, are rejected by the validators below.
	maxReasonableTimestamp = ^uint64(0) / 2
)

// UndefinedIndex is the sentinel returned for any invalid input or
// out-of-range result, matching MXL_UNDEFINED_INDEX: all bits set.
const UndefinedIndex = ^uint64(0)

func isValidRate(rate *Rational) bool {
	if rate == nil {
		return false
	}
	if rate.Numerator == 0 || rate.Denominator == 0 {
		return false
	}
	if rate.Numerator > maxReasonableNumerator || rate.Denominator > maxReasonableDenominator {
		return false
	}
	if rate.Numerator < minReasonableComponent || rate.Denominator < minReasonableComponent {
		return false
	}
	return true
}

func isValidTimestamp(ts uint64) bool {
	return ts != UndefinedIndex && ts <= maxReasonableTimestamp
}

func isValidIndex(idx uint64) bool {
	return idx != UndefinedIndex && idx <= maxReasonableTimestamp
}
