package jobs

import (
	"testing"
	"time"
)

func TestPreviousMonth(t *testing.T) {
	cases := []struct {
		now       time.Time
		wantYear  int
		wantMonth int
	}{
		{time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC), 2025, 5},
		{time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), 2024, 12},
		{time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC), 2025, 2},
	}
	for _, tc := range cases {
		year, month := previousMonth(tc.now)
		if year != tc.wantYear || month != tc.wantMonth {
			t.Errorf("previousMonth(%v) = (%d, %d), want (%d, %d)",
				tc.now, year, month, tc.wantYear, tc.wantMonth)
		}
	}
}

func TestIsQuarterStart(t *testing.T) {
	quarters := map[time.Month]bool{
		time.January: true, time.April: true, time.July: true, time.October: true,
	}
	for m := time.January; m <= time.December; m++ {
		if got := isQuarterStart(m); got != quarters[m] {
			t.Errorf("isQuarterStart(%v) = %v, want %v", m, got, quarters[m])
		}
	}
}

func drainTypes(s *Service) []string {
	var types []string
	for {
		select {
		case j := <-s.queue:
			types = append(types, j.Type)
		default:
			return types
		}
	}
}

func TestFireDueJanuaryFirst(t *testing.T) {
	s := New(nil, nil, nil, 0)
	s.fireDue(time.Date(2026, time.January, 1, 3, 0, 0, 0, time.UTC))

	got := drainTypes(s)
	want := []string{JobCarryForward, JobMonthlyAccrual, JobCapEnforcement}
	if len(got) != len(want) {
		t.Fatalf("queued %v, want %v", got, want)
	}
	// Carry-forward must precede the accrual so January works from the
	// post-carry baseline; the single worker preserves queue order.
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("queued %v, want %v", got, want)
		}
	}
}

func TestFireDueOrdinaryMonthFirst(t *testing.T) {
	s := New(nil, nil, nil, 0)
	s.fireDue(time.Date(2026, time.March, 1, 3, 0, 0, 0, time.UTC))

	got := drainTypes(s)
	if len(got) != 1 || got[0] != JobMonthlyAccrual {
		t.Fatalf("queued %v, want only the accrual", got)
	}
}

func TestFireDueQuarterStart(t *testing.T) {
	s := New(nil, nil, nil, 0)
	s.fireDue(time.Date(2026, time.April, 1, 3, 0, 0, 0, time.UTC))

	got := drainTypes(s)
	want := []string{JobMonthlyAccrual, JobCapEnforcement}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("queued %v, want %v", got, want)
	}
}

func TestFireDueMidMonth(t *testing.T) {
	s := New(nil, nil, nil, 0)
	s.fireDue(time.Date(2026, time.March, 15, 3, 0, 0, 0, time.UTC))

	if got := drainTypes(s); len(got) != 0 {
		t.Fatalf("queued %v, want nothing mid-month", got)
	}
}
