package utils

import (
	"testing"
	"time"
)

func TestRemaining(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	deadline := base.Add(5 * time.Minute)

	tests := []struct {
		name string
		now  time.Time
		want time.Duration
	}{
		{"at creation", base, 5 * time.Minute},
		{"mid window", base.Add(2 * time.Minute), 3 * time.Minute},
		{"one second left", base.Add(299 * time.Second), time.Second},
		{"at deadline", deadline, 0},
		{"past deadline", deadline.Add(time.Hour), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Remaining(deadline, tt.now); got != tt.want {
				t.Errorf("Remaining = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsLive(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	deadline := base.Add(5 * time.Minute)

	if !IsLive(deadline, base) {
		t.Error("IsLive at creation = false, want true")
	}
	if !IsLive(deadline, deadline.Add(-time.Nanosecond)) {
		t.Error("IsLive just before deadline = false, want true")
	}
	if IsLive(deadline, deadline) {
		t.Error("IsLive at deadline = true, want false")
	}
	if IsLive(deadline, deadline.Add(time.Second)) {
		t.Error("IsLive past deadline = true, want false")
	}
}
