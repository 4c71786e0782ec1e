package sale

import "math/big"

// elapsedPeriods returns the number of vesting tranches unlocked at now. The
// first tranche unlocks at the cliff itself, so the count is floor-division
// plus one, clamped to the configured total so the final tranche releases the
// exact remainder.
func elapsedPeriods(now, withdrawStart, periodDuration int64, periodNumber uint64) uint64 {
	if now < withdrawStart || periodDuration <= 0 || periodNumber == 0 {
		return 0
	}
	elapsed := uint64((now-withdrawStart)/periodDuration) + 1
	if elapsed > periodNumber {
		return periodNumber
	}
	return elapsed
}

// unlockedAmount returns how much of claimable has vested after elapsed of
// periodNumber tranches. Multiply-before-divide with floor division; the clamp
// in elapsedPeriods guarantees the full claimable amount at the final tranche
// with no residue.
func unlockedAmount(claimable *big.Int, elapsed, periodNumber uint64) *big.Int {
	if claimable == nil || claimable.Sign() <= 0 || elapsed == 0 || periodNumber == 0 {
		return big.NewInt(0)
	}
	if elapsed >= periodNumber {
		return new(big.Int).Set(claimable)
	}
	unlocked := new(big.Int).Mul(claimable, new(big.Int).SetUint64(elapsed))
	return unlocked.Div(unlocked, new(big.Int).SetUint64(periodNumber))
}
