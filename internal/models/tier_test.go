package models

import (
	"testing"
)

func TestTierLimits_LimitFor(t *testing.T) {
	limits := &TierLimits{
		Tier:               TierBasic,
		WinksPerDay:        10,
		WinksPerWeek:       50,
		WinksPerMonth:      150,
		LikesPerDay:        5,
		LikesPerWeek:       25,
		LikesPerMonth:      75,
		InterestedPerDay:   3,
		InterestedPerWeek:  15,
		InterestedPerMonth: 45,
	}

	tests := []struct {
		activityType string
		period       string
		want         int64
	}{
		{ActivityWink, PeriodDay, 10},
		{ActivityWink, PeriodWeek, 50},
		{ActivityWink, PeriodMonth, 150},
		{ActivityLike, PeriodDay, 5},
		{ActivityLike, PeriodWeek, 25},
		{ActivityLike, PeriodMonth, 75},
		{ActivityInterested, PeriodDay, 3},
		{ActivityInterested, PeriodWeek, 15},
		{ActivityInterested, PeriodMonth, 45},
		// Rejections are never quota-limited.
		{ActivityRejected, PeriodDay, 0},
	}

	for _, tt := range tests {
		t.Run(tt.activityType+"_"+tt.period, func(t *testing.T) {
			if got := limits.LimitFor(tt.activityType, tt.period); got != tt.want {
				t.Errorf("LimitFor(%q, %q) = %d, want %d", tt.activityType, tt.period, got, tt.want)
			}
		})
	}
}

func TestTierLimits_ZeroMeansUnlimited(t *testing.T) {
	limits := &TierLimits{Tier: TierVIP}

	for _, activityType := range []string{ActivityWink, ActivityLike, ActivityInterested} {
		for _, period := range []string{PeriodDay, PeriodWeek, PeriodMonth} {
			if got := limits.LimitFor(activityType, period); got != 0 {
				t.Errorf("LimitFor(%q, %q) = %d, want 0 (unlimited)", activityType, period, got)
			}
		}
	}
}

func TestNormalizePair(t *testing.T) {
	tests := []struct {
		name  string
		a, b  uint
		want1 uint
		want2 uint
	}{
		{"Already ordered", 1, 2, 1, 2},
		{"Swapped", 9, 3, 3, 9},
		{"Large ids", 100000, 99999, 99999, 100000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got1, got2 := NormalizePair(tt.a, tt.b)
			if got1 != tt.want1 || got2 != tt.want2 {
				t.Errorf("NormalizePair(%d, %d) = (%d, %d), want (%d, %d)",
					tt.a, tt.b, got1, got2, tt.want1, tt.want2)
			}
		})
	}
}
