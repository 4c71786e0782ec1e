package sale

import (
	"math/big"
	"testing"
)

func TestElapsedPeriods(t *testing.T) {
	const (
		start    = int64(1000)
		duration = int64(100)
		periods  = uint64(10)
	)
	cases := []struct {
		name string
		now  int64
		want uint64
	}{
		{"before cliff", start - 1, 0},
		{"at cliff", start, 1},
		{"mid first period", start + duration - 1, 1},
		{"second period boundary", start + duration, 2},
		{"fifth period", start + 4*duration, 5},
		{"final period", start + 9*duration, 10},
		{"past schedule", start + 25*duration, 10},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := elapsedPeriods(tc.now, start, duration, periods)
			if got != tc.want {
				t.Fatalf("elapsedPeriods(%d) = %d, want %d", tc.now, got, tc.want)
			}
		})
	}
}

func TestUnlockedAmount(t *testing.T) {
	claimable := big.NewInt(125_000)
	cases := []struct {
		name    string
		elapsed uint64
		want    int64
	}{
		{"nothing elapsed", 0, 0},
		{"one period", 1, 12_500},
		{"five periods", 5, 62_500},
		{"all periods", 10, 125_000},
		{"beyond schedule", 12, 125_000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := unlockedAmount(claimable, tc.elapsed, 10)
			if got.Cmp(big.NewInt(tc.want)) != 0 {
				t.Fatalf("unlockedAmount(%d) = %s, want %d", tc.elapsed, got, tc.want)
			}
		})
	}
}

// Tranche division rounds down; the final period releases the rounding dust.
func TestUnlockedAmountIndivisible(t *testing.T) {
	claimable := big.NewInt(16_650) // not divisible by 4
	if got := unlockedAmount(claimable, 1, 4); got.Cmp(big.NewInt(4_162)) != 0 {
		t.Fatalf("period 1 = %s, want 4162", got)
	}
	if got := unlockedAmount(claimable, 3, 4); got.Cmp(big.NewInt(12_487)) != 0 {
		t.Fatalf("period 3 = %s, want 12487", got)
	}
	if got := unlockedAmount(claimable, 4, 4); got.Cmp(claimable) != 0 {
		t.Fatalf("final period = %s, want full claimable", got)
	}
}
