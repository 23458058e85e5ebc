package achievements_test

import (
	"testing"

	"github.com/dalemusser/agenseek/internal/app/achievements"
)

func byID(statuses []achievements.Status) map[string]achievements.Status {
	m := make(map[string]achievements.Status, len(statuses))
	for _, s := range statuses {
		m[s.ID] = s
	}
	return m
}

func TestEvaluate_ZeroStats(t *testing.T) {
	got := achievements.Evaluate(achievements.Stats{})
	if len(got) != len(achievements.All()) {
		t.Fatalf("len: got %d, want %d", len(got), len(achievements.All()))
	}
	if n := achievements.Unlocked(got); n != 0 {
		t.Errorf("Unlocked: got %d, want 0", n)
	}
	for _, s := range got {
		if s.Percent != 0 {
			t.Errorf("%s percent: got %d, want 0", s.ID, s.Percent)
		}
	}
}

func TestEvaluate_Thresholds(t *testing.T) {
	got := byID(achievements.Evaluate(achievements.Stats{
		GuidesCompleted: 6,
		CoreComplete:    true,
		CurrentStreak:   2,
		LongestStreak:   8,
		NotesCreated:    1,
		TasksCompleted:  5,
	}))

	tests := []struct {
		id       string
		unlocked bool
		percent  int
	}{
		{"first-guide", true, 100},
		{"five-guides", true, 100},
		{"ten-guides", false, 60},
		{"core-complete", true, 100},
		{"streak-3", true, 100},
		{"streak-7", true, 100},
		{"streak-30", false, 26},
		{"first-note", true, 100},
		{"ten-notes", false, 10},
		{"ten-tasks", false, 50},
	}
	for _, tc := range tests {
		s, ok := got[tc.id]
		if !ok {
			t.Errorf("missing achievement %q", tc.id)
			continue
		}
		if s.Unlocked != tc.unlocked {
			t.Errorf("%s unlocked: got %v, want %v", tc.id, s.Unlocked, tc.unlocked)
		}
		if s.Percent != tc.percent {
			t.Errorf("%s percent: got %d, want %d", tc.id, s.Percent, tc.percent)
		}
	}
}

func TestAll_ReturnsCopy(t *testing.T) {
	a := achievements.All()
	a[0].ID = "changed"
	if achievements.All()[0].ID == "changed" {
		t.Error("All exposed internal slice")
	}
}
