// Package timing converts between TAI-epoch nanosecond timestamps and
// grain/sample indices of a given edit (or sample) rate, and provides a
// wall-clock time source that can be swapped out in tests.
//
// The conversion arithmetic mirrors a C implementation that leans on
// __int128_t intermediates to avoid overflow in timestamp*numerator.
// Go has no native 128-bit integer type, so math/big.Int stands in for
// it; the three-term numerator/rounding/denominator split and the
// overflow/range checks are otherwise unchanged.
package timing
