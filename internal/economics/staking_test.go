package economics

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/fape-labs/adrena-client/internal/domain"
)

func TestEarlyExitFeeRateBounds(t *testing.T) {
	const day = int64(86_400)

	tests := []struct {
		name  string
		stake domain.LockedStake
		now   int64
		want  string
	}{
		{
			name:  "at lock start",
			stake: domain.LockedStake{LockDuration: 180 * day, EndTime: 1000 + 180*day},
			now:   1000,
			want:  "0.4",
		},
		{
			name:  "halfway through",
			stake: domain.LockedStake{LockDuration: 180 * day, EndTime: 1000 + 180*day},
			now:   1000 + 90*day,
			want:  "0.275",
		},
		{
			name:  "at maturity",
			stake: domain.LockedStake{LockDuration: 180 * day, EndTime: 1000 + 180*day},
			now:   1000 + 180*day,
			want:  "0.15",
		},
		{
			name:  "past maturity",
			stake: domain.LockedStake{LockDuration: 180 * day, EndTime: 1000 + 180*day},
			now:   1000 + 365*day,
			want:  "0.15",
		},
		{
			// now before the lock even started: remaining exceeds the
			// duration, the cap holds.
			name:  "clock skew before start",
			stake: domain.LockedStake{LockDuration: 180 * day, EndTime: 1000 + 180*day},
			now:   1000 - 90*day,
			want:  "0.4",
		},
		{
			name:  "zero duration",
			stake: domain.LockedStake{LockDuration: 0, EndTime: 2000},
			now:   1000,
			want:  "0.15",
		},
	}

	floor := decimal.NewFromFloat(0.15)
	cap := decimal.NewFromFloat(0.40)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EarlyExitFeeRate(&tt.stake, tt.now)

			want, _ := decimal.NewFromString(tt.want)
			if !got.Equal(want) {
				t.Errorf("EarlyExitFeeRate = %s, want %s", got, want)
			}
			if got.LessThan(floor) || got.GreaterThan(cap) {
				t.Errorf("rate %s escaped [0.15, 0.40]", got)
			}
		})
	}
}

func TestEarlyExitFeeAmountTruncates(t *testing.T) {
	const day = int64(86_400)
	stake := &domain.LockedStake{
		Amount:       1001,
		LockDuration: 180 * day,
		EndTime:      180 * day, // fully remaining at now=0
	}
	// 1001 * 0.40 = 400.4, truncated to 400.
	if got := EarlyExitFeeAmount(stake, 0); got != 400 {
		t.Fatalf("EarlyExitFeeAmount = %d, want 400", got)
	}
}
