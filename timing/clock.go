package timing

import (
	"math"
	"time"
)

// Clock supplies the current time as TAI-epoch nanoseconds. The default
// clock reads the host wall clock; tests substitute a fixed or
// manually-advanced implementation instead of sleeping for real.
type Clock interface {
	NowNs() uint64
}

// SystemClock reads time.Now(). True TAI requires a leap-second table
// this package does not maintain; the host's UTC-epoch nanosecond clock
// is used as a practical stand-in, matching the source's reliance on the
// OS-provided TAI clock where available and falling back silently
// otherwise.
type SystemClock struct{}

// NowNs returns the current time as nanoseconds since the epoch, or 0 if
// the reading is somehow negative.
func (SystemClock) NowNs() uint64 {
	ns := time.Now().UnixNano()
	if ns < 0 {
		return 0
	}
	result := uint64(ns)
	if result > maxReasonableTimestamp {
		return 0
	}
	return result
}

// DefaultClock is the package-level clock used by Now, CurrentIndex,
// NsUntilIndex, and SleepUntilIndex. Replace it (e.g. in tests) to
// control what "now" means without relying on real sleeps.
var DefaultClock Clock = SystemClock{}

// Now returns DefaultClock.NowNs().
func Now() uint64 {
	return DefaultClock.NowNs()
}

// CurrentIndex returns the index of "now" at the given rate, or
// UndefinedIndex if the rate is invalid or the clock read failed.
func CurrentIndex(rate Rational) uint64 {
	if !isValidRate(&rate) {
		return UndefinedIndex
	}
	now := Now()
	if now == 0 {
		return UndefinedIndex
	}
	return TimestampToIndex(rate, now)
}

// NsUntilIndex returns how many nanoseconds remain until the given index
// occurs at rate, 0 if it has already passed, or UndefinedIndex if the
// rate/index is invalid, the clock read failed (Now returned 0), or the
// target timestamp overflowed.
func NsUntilIndex(index uint64, rate Rational) uint64 {
	if !isValidRate(&rate) || !isValidIndex(index) {
		return UndefinedIndex
	}
	targetNs := IndexToTimestamp(rate, index)
	if targetNs == UndefinedIndex {
		return UndefinedIndex
	}
	nowNs := Now()
	if nowNs == 0 {
		return UndefinedIndex
	}
	if targetNs < nowNs {
		return 0
	}
	diff := targetNs - nowNs
	if diff > maxReasonableTimestamp {
		return UndefinedIndex
	}
	return diff
}

// SleepForNs blocks for ns nanoseconds, capping absurdly large values at
// math.MaxInt64 and treating 0 as a no-op rather than an error.
func SleepForNs(ns uint64) {
	if ns == 0 {
		return
	}
	if ns > math.MaxInt64 {
		ns = math.MaxInt64
	}
	time.Sleep(time.Duration(ns))
}

// SleepUntilIndex blocks until the given index occurs at rate, or
// returns immediately if the index is invalid or already past.
func SleepUntilIndex(index uint64, rate Rational) {
	ns := NsUntilIndex(index, rate)
	if ns == UndefinedIndex {
		return
	}
	SleepForNs(ns)
}
