package models

import (
	"testing"
	"time"
)

func TestDue(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		status string
		at     time.Time
		want   bool
	}{
		{PostStatusPending, now.Add(-time.Minute), true},
		{PostStatusPending, now, true},
		{PostStatusPending, now.Add(time.Minute), false},
		{PostStatusPosted, now.Add(-time.Minute), false},
		{PostStatusCancelled, now.Add(-time.Minute), false},
		{PostStatusFailed, now.Add(-time.Minute), false},
	}
	for _, tc := range cases {
		p := &ScheduledPost{Status: tc.status, ScheduledTime: tc.at}
		if got := p.Due(now); got != tc.want {
			t.Errorf("Due(%s at %v) = %v, want %v", tc.status, tc.at, got, tc.want)
		}
	}
}

func TestTerminal(t *testing.T) {
	for _, status := range []string{PostStatusPosted, PostStatusCancelled, PostStatusFailed} {
		if !(&ScheduledPost{Status: status}).Terminal() {
			t.Errorf("%s should be terminal", status)
		}
	}
	if (&ScheduledPost{Status: PostStatusPending}).Terminal() {
		t.Error("pending should not be terminal")
	}
}
