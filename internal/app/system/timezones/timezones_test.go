package timezones

import (
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	if err := Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
}

func TestAll_ZonesLoad(t *testing.T) {
	zones, err := All()
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(zones) == 0 {
		t.Fatal("All() returned no zones")
	}
	for _, z := range zones {
		if z.Label == "" {
			t.Errorf("zone %q has empty label", z.ID)
		}
		if _, err := time.LoadLocation(z.ID); err != nil {
			t.Errorf("zone %q does not load: %v", z.ID, err)
		}
	}
}

func TestLabel(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"Asia/Jerusalem", "Israel (Jerusalem)"},
		{"UTC", "UTC"},
		{"Pacific/Fiji", "Pacific/Fiji"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Label(tt.id); got != tt.want {
			t.Errorf("Label(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestListed(t *testing.T) {
	if !Listed("Asia/Jerusalem") {
		t.Error("Asia/Jerusalem should be listed")
	}
	if Listed("Invalid/Zone") {
		t.Error("Invalid/Zone should not be listed")
	}
}

func TestGroups(t *testing.T) {
	groups, err := Groups()
	if err != nil {
		t.Fatalf("Groups() error = %v", err)
	}
	for i := 1; i < len(groups); i++ {
		if groups[i-1].Region >= groups[i].Region {
			t.Errorf("regions out of order: %q before %q", groups[i-1].Region, groups[i].Region)
		}
	}
	var other bool
	for _, g := range groups {
		for j := 1; j < len(g.Zones); j++ {
			if g.Zones[j-1].Label > g.Zones[j].Label {
				t.Errorf("%s: %q before %q", g.Region, g.Zones[j-1].Label, g.Zones[j].Label)
			}
		}
		if g.Region == "Other" {
			other = true
		}
	}
	if !other {
		t.Error("zones without a region should be grouped under Other")
	}
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"missing id", "zones:\n  - {label: Nowhere}\n"},
		{"duplicate", "zones:\n  - {id: UTC, label: A}\n  - {id: UTC, label: B}\n"},
		{"bad yaml", "zones: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, _, err := parse([]byte(tt.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}
