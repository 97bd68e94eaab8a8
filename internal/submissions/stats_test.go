package submissions

import (
	"testing"

	"github.com/antigravity-dev/gradefast/internal/gfpath"
)

func vw(v float64, id int) ValueWithID { return ValueWithID{Value: v, ID: id} }

func TestEmptyStatsSentinel(t *testing.T) {
	s := GetGradingStats(nil)
	if !s.Empty {
		t.Fatal("expected Empty stats for nil input")
	}
}

func TestStatsOddCountMedian(t *testing.T) {
	s := GetGradingStats([]ValueWithID{vw(1, 1), vw(5, 2), vw(3, 3)})
	if s.Median != 3 || len(s.MedianIDs) != 1 || s.MedianIDs[0] != 3 {
		t.Fatalf("median = %v (%v), want 3 ([3])", s.Median, s.MedianIDs)
	}
	if s.Min != 1 || s.MinIDs[0] != 1 {
		t.Fatalf("min = %v (%v), want 1 ([1])", s.Min, s.MinIDs)
	}
	if s.Max != 5 || s.MaxIDs[0] != 2 {
		t.Fatalf("max = %v (%v), want 5 ([2])", s.Max, s.MaxIDs)
	}
}

func TestStatsEvenCountMedianAverages(t *testing.T) {
	s := GetGradingStats([]ValueWithID{vw(1, 1), vw(2, 2), vw(3, 3), vw(4, 4)})
	if s.Median != 2.5 {
		t.Fatalf("median = %v, want 2.5", s.Median)
	}
	if len(s.MedianIDs) != 2 || s.MedianIDs[0] != 2 || s.MedianIDs[1] != 3 {
		t.Fatalf("medianIDs = %v, want [2 3]", s.MedianIDs)
	}
}

func TestStatsMeanAndStdDev(t *testing.T) {
	s := GetGradingStats([]ValueWithID{vw(2, 1), vw(4, 2), vw(4, 3), vw(4, 4), vw(5, 5), vw(5, 6), vw(7, 7), vw(9, 8)})
	if s.Mean != 5 {
		t.Fatalf("mean = %v, want 5", s.Mean)
	}
	if s.StdDev < 2.0 || s.StdDev > 2.1 {
		t.Fatalf("stddev = %v, want ~2.0", s.StdDev)
	}
}

func TestStatsModesAllTiedValues(t *testing.T) {
	s := GetGradingStats([]ValueWithID{vw(1, 1), vw(2, 2), vw(2, 3), vw(3, 4), vw(3, 5)})
	if len(s.Modes) != 2 {
		t.Fatalf("modes = %v, want two tied modes", s.Modes)
	}
}

func TestManagerInsertionOrderAndNavigation(t *testing.T) {
	m := New(nil)
	a := m.AddSubmission("alice", gfpath.New(""), nil)
	b := m.AddSubmission("bob", gfpath.New(""), nil)
	c := m.AddSubmission("carol", gfpath.New(""), nil)

	first, ok := m.GetFirstSubmissionID()
	if !ok || first != a.ID {
		t.Fatalf("first = %v, want %v", first, a.ID)
	}
	last, ok := m.GetLastSubmissionID()
	if !ok || last != c.ID {
		t.Fatalf("last = %v, want %v", last, c.ID)
	}
	next, ok := m.GetNextSubmissionID(a.ID)
	if !ok || next != b.ID {
		t.Fatalf("next after a = %v, want %v", next, b.ID)
	}
	prev, ok := m.GetPreviousSubmissionID(c.ID)
	if !ok || prev != b.ID {
		t.Fatalf("prev before c = %v, want %v", prev, b.ID)
	}
	if _, ok := m.GetNextSubmissionID(c.ID); ok {
		t.Fatal("expected no next submission after the last one")
	}
}

func TestManagerDropSubmission(t *testing.T) {
	m := New(nil)
	a := m.AddSubmission("alice", gfpath.New(""), nil)
	m.AddSubmission("bob", gfpath.New(""), nil)

	m.DropSubmission(a.ID)
	if _, ok := m.GetSubmission(a.ID); ok {
		t.Fatal("dropped submission is still retrievable")
	}
	if len(m.All()) != 1 {
		t.Fatalf("All() len = %d, want 1", len(m.All()))
	}
}

func TestTimerIntervals(t *testing.T) {
	m := New(nil)
	s := m.AddSubmission("alice", gfpath.New(""), nil)
	m.StartTimer(s)
	m.StopTimer(s)
	m.StartTimer(s)
	m.StopTimer(s)
	if len(s.Intervals()) != 2 {
		t.Fatalf("intervals = %d, want 2", len(s.Intervals()))
	}
}
