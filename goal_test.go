package pkm

import (
	"errors"
	"testing"
)

func newTestTracker(t *testing.T) *Tracker {
	t.Helper()
	tr, err := NewTracker(NewMemStore())
	if err != nil {
		t.Fatalf("NewTracker: %v", err)
	}
	return tr
}

func TestTrackerInitValidation(t *testing.T) {
	tr := newTestTracker(t)
	tests := []struct {
		name string
		goal Goal
	}{
		{"target below start", Goal{StartingCapital: 1000, TargetCapital: 500, DurationDays: 30}},
		{"target equals start", Goal{StartingCapital: 1000, TargetCapital: 1000, DurationDays: 30}},
		{"zero duration", Goal{StartingCapital: 1000, TargetCapital: 2000}},
		{"zero start", Goal{TargetCapital: 2000, DurationDays: 30}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tr.Init(tc.goal)
			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("Init = %v, want ValidationError", err)
			}
		})
	}
}

func TestTrackerStatus(t *testing.T) {
	tr := newTestTracker(t)
	start := NewDate(2025, 6, 1)
	if err := tr.Init(Goal{StartingCapital: 1000, TargetCapital: 10000, DurationDays: 365, StartDate: start}); err != nil {
		t.Fatalf("Init: %v", err)
	}

	s, err := tr.Status(start.Add(10), 1500)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if s.DaysPassed != 10 || s.DaysRemaining != 355 {
		t.Errorf("days = %d passed / %d remaining", s.DaysPassed, s.DaysRemaining)
	}
	if s.Remaining != 8500 {
		t.Errorf("Remaining = %v, want 8500", s.Remaining)
	}
	if s.DailyTarget != 23.94 {
		t.Errorf("DailyTarget = %v, want 23.94", s.DailyTarget)
	}
	// 500 of the 9000 span covered.
	if !s.Progress.Equal(Percent(5.56)) {
		t.Errorf("Progress = %v, want 5.56", s.Progress)
	}
}

func TestTrackerStatusPastTarget(t *testing.T) {
	tr := newTestTracker(t)
	start := NewDate(2025, 6, 1)
	if err := tr.Init(Goal{StartingCapital: 1000, TargetCapital: 2000, DurationDays: 30, StartDate: start}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	// Target already hit: nothing remaining, nothing per day.
	s, err := tr.Status(start.Add(5), 2500)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if s.Remaining != 0 || s.DailyTarget != 0 {
		t.Errorf("remaining = %v, daily = %v", s.Remaining, s.DailyTarget)
	}

	// Past the deadline: days remaining clamps to zero and there is no
	// daily target left to compute.
	s, err = tr.Status(start.Add(40), 1500)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if s.DaysRemaining != 0 {
		t.Errorf("DaysRemaining = %d, want 0", s.DaysRemaining)
	}
	if s.DailyTarget != 0 {
		t.Errorf("DailyTarget = %v, want 0", s.DailyTarget)
	}
}

func TestTrackerInitWritesDayZero(t *testing.T) {
	tr := newTestTracker(t)
	start := NewDate(2025, 6, 1)
	if err := tr.Init(Goal{StartingCapital: 1000, TargetCapital: 2000, DurationDays: 30, StartDate: start}); err != nil {
		t.Fatalf("Init: %v", err)
	}

	records, err := tr.Records()
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("records after Init: %d, want the day-zero row", len(records))
	}
	day0 := records[0]
	if day0.Date != start || day0.Delta != 0 || day0.Capital != 1000 {
		t.Errorf("day zero = %+v", day0)
	}
	if day0.DaysRemaining != 30 || day0.Target != 2000 || day0.AmountRemaining != 1000 {
		t.Errorf("day-zero derived columns = %+v", day0)
	}
}

func TestTrackerRecord(t *testing.T) {
	tr := newTestTracker(t)
	start := NewDate(2025, 6, 1)
	if err := tr.Init(Goal{StartingCapital: 1000, TargetCapital: 2000, DurationDays: 30, StartDate: start}); err != nil {
		t.Fatalf("Init: %v", err)
	}

	// The first day's change is measured against the starting capital.
	first, err := tr.Record(start.Add(1), 1200)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if first.Delta != 200 {
		t.Errorf("first delta = %v, want 200", first.Delta)
	}
	if first.ID != 2 || first.DaysRemaining != 29 || first.AmountRemaining != 800 {
		t.Errorf("first record = %+v", first)
	}

	second, err := tr.Record(start.Add(2), 1150)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if second.Delta != -50 {
		t.Errorf("delta = %v, want -50", second.Delta)
	}

	// Same-day entry is rejected, history unchanged.
	_, err = tr.Record(start.Add(2), 1300)
	var dup DuplicateSnapshotError
	if !errors.As(err, &dup) {
		t.Errorf("same-day Record = %v, want DuplicateSnapshotError", err)
	}
	records, _ := tr.Records()
	if len(records) != 3 {
		t.Errorf("history has %d entries, want 3", len(records))
	}
}

func TestTrackerRecordEmptyLogFallsBackToStart(t *testing.T) {
	s := NewMemStore()
	tr, err := NewTracker(s)
	if err != nil {
		t.Fatalf("NewTracker: %v", err)
	}
	start := NewDate(2025, 6, 1)
	if err := tr.Init(Goal{StartingCapital: 1000, TargetCapital: 2000, DurationDays: 30, StartDate: start}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	// A hand-wiped log: the previous capital falls back to the start.
	history, err := s.Table("goal_history", goalHistoryHeader)
	if err != nil {
		t.Fatalf("Table: %v", err)
	}
	if err := history.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	rec, err := tr.Record(start.Add(1), 1200)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if rec.Delta != 200 {
		t.Errorf("delta = %v, want 200 against the starting capital", rec.Delta)
	}
	if rec.ID != 1 {
		t.Errorf("ID = %d, want 1", rec.ID)
	}
}

func TestTrackerRecordWithoutGoal(t *testing.T) {
	tr := newTestTracker(t)
	if _, err := tr.Record(Today(), 1000); err == nil {
		t.Error("Record without an active challenge succeeded")
	}
	if _, err := tr.Status(Today(), 1000); err == nil {
		t.Error("Status without an active challenge succeeded")
	}
}

func TestTrackerReset(t *testing.T) {
	tr := newTestTracker(t)
	start := NewDate(2025, 6, 1)
	if err := tr.Init(Goal{StartingCapital: 1000, TargetCapital: 2000, DurationDays: 30, StartDate: start}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if _, err := tr.Record(start.Add(1), 1100); err != nil {
		t.Fatalf("Record: %v", err)
	}

	if err := tr.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if _, ok, err := tr.Goal(); err != nil || ok {
		t.Errorf("Goal after reset = %v, %v", ok, err)
	}
	records, _ := tr.Records()
	if len(records) != 0 {
		t.Errorf("history survived reset: %v", records)
	}
}

func TestTrackerInitIsOneShot(t *testing.T) {
	tr := newTestTracker(t)
	start := NewDate(2025, 6, 1)
	if err := tr.Init(Goal{StartingCapital: 1000, TargetCapital: 2000, DurationDays: 30, StartDate: start}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if _, err := tr.Record(start.Add(1), 1100); err != nil {
		t.Fatalf("Record: %v", err)
	}

	// A second Init on an active challenge is rejected: only Reset clears it.
	err := tr.Init(Goal{StartingCapital: 500, TargetCapital: 5000, DurationDays: 60, StartDate: start})
	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("re-Init = %v, want ValidationError", err)
	}

	if err := tr.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if err := tr.Init(Goal{StartingCapital: 500, TargetCapital: 5000, DurationDays: 60, StartDate: start}); err != nil {
		t.Fatalf("Init after reset: %v", err)
	}
	records, _ := tr.Records()
	if len(records) != 1 || records[0].Capital != 500 {
		t.Errorf("records after re-init = %+v, want the new day-zero row", records)
	}
	g, ok, err := tr.Goal()
	if err != nil || !ok {
		t.Fatalf("Goal: %v %v", ok, err)
	}
	if g.TargetCapital != 5000 {
		t.Errorf("TargetCapital = %v, want 5000", g.TargetCapital)
	}
}
