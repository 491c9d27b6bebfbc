package timing

import "math/big"

// safeCastToUint64 mirrors safecast128ToUint64: negative or
// out-of-reasonable-range results collapse to UndefinedIndex rather than
// wrapping.
func safeCastToUint64(v *big.Int) uint64 {
	if v.Sign() < 0 {
		return UndefinedIndex
	}
	if !v.IsUint64() {
		return UndefinedIndex
	}
	u := v.Uint64()
	if u > maxReasonableTimestamp {
		return UndefinedIndex
	}
	return u
}

// TimestampToIndex converts a TAI-nanosecond timestamp to the index of
// the rate-sized interval it falls within, rounding to the nearest
// index (half away from zero, since all inputs are non-negative).
//
//	index = floor((timestamp*num + den*1e9/2) / (den*1e9))
//
// expressed as the integer-only numerator/rounding/denominator split the
// original C implementation uses to stay exact under __int128_t.
func TimestampToIndex(rate Rational, timestamp uint64) uint64 {
	if !isValidRate(&rate) || !isValidTimestamp(timestamp) {
		return UndefinedIndex
	}

	ts := new(big.Int).SetUint64(timestamp)
	num := new(big.Int).Mul(ts, big.NewInt(int64(rate.Numerator)))
	rounding := new(big.Int).Mul(big.NewInt(500_000_000), big.NewInt(int64(rate.Denominator)))
	den := new(big.Int).Mul(big.NewInt(1_000_000_000), big.NewInt(int64(rate.Denominator)))

	if den.Sign() <= 0 {
		return UndefinedIndex
	}

	result := new(big.Int).Add(num, rounding)
	result.Quo(result, den)
	return safeCastToUint64(result)
}

// IndexToTimestamp converts a rate-relative index back to a TAI-nanosecond
// timestamp, the inverse of TimestampToIndex:
//
//	timestamp = floor((index*den*1e9 + num/2) / num)
func IndexToTimestamp(rate Rational, index uint64) uint64 {
	if !isValidRate(&rate) || !isValidIndex(index) {
		return UndefinedIndex
	}

	idx := new(big.Int).SetUint64(index)
	num := new(big.Int).Mul(idx, big.NewInt(int64(rate.Denominator)))
	num.Mul(num, big.NewInt(1_000_000_000))
	rounding := big.NewInt(int64(rate.Numerator) / 2)
	den := big.NewInt(int64(rate.Numerator))

	if den.Sign() <= 0 {
		return UndefinedIndex
	}

	result := new(big.Int).Add(num, rounding)
	result.Quo(result, den)
	return safeCastToUint64(result)
}
