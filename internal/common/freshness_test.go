package common

import (
	"testing"
	"time"
)

func TestIsFresh(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name    string
		updated time.Time
		ttl     time.Duration
		want    bool
	}{
		{"zero time never fresh", time.Time{}, time.Hour, false},
		{"just updated", now, time.Hour, true},
		{"well within ttl", now.Add(-30 * time.Minute), time.Hour, true},
		{"exactly at ttl is stale", now.Add(-time.Hour), time.Hour, false},
		{"past ttl", now.Add(-2 * time.Hour), time.Hour, false},
		{"zero ttl always stale", now, 0, false},
	}

	for _, tc := range tests {
		if got := IsFresh(tc.updated, tc.ttl); got != tc.want {
			t.Errorf("%s: IsFresh(%v, %v) = %v, want %v", tc.name, tc.updated, tc.ttl, got, tc.want)
		}
	}
}
