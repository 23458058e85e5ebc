// Package timezones holds the curated zone list behind the profile
// time-zone picker.
//
// The list is embedded and parsed on first use. Validation of stored zones
// still goes through time.LoadLocation; a zone outside this list is legal,
// it just isn't offered in the picker.
package timezones

import (
	_ "embed"
	"fmt"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed zones.yaml
var bundled []byte

// Zone is one picker entry.
type Zone struct {
	ID     string `yaml:"id" json:"id"`
	Label  string `yaml:"label" json:"label"`
	Region string `yaml:"region" json:"region,omitempty"`
}

// ZoneGroup is the zones of one region, sorted by label.
type ZoneGroup struct {
	Region string `json:"region"`
	Zones  []Zone `json:"zones"`
}

var (
	loadOnce sync.Once
	zones    []Zone
	byID     map[string]Zone
	groups   []ZoneGroup
	loadErr  error
)

func load() {
	loadOnce.Do(func() {
		zones, byID, groups, loadErr = parse(bundled)
	})
}

func parse(data []byte) ([]Zone, map[string]Zone, []ZoneGroup, error) {
	var f struct {
		Zones []Zone `yaml:"zones"`
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, nil, nil, fmt.Errorf("parse zones: %w", err)
	}

	ids := make(map[string]Zone, len(f.Zones))
	byRegion := make(map[string][]Zone)
	for _, z := range f.Zones {
		if z.ID == "" {
			return nil, nil, nil, fmt.Errorf("zone with label %q has no id", z.Label)
		}
		if _, dup := ids[z.ID]; dup {
			return nil, nil, nil, fmt.Errorf("duplicate zone %q", z.ID)
		}
		ids[z.ID] = z
		region := z.Region
		if region == "" {
			region = "Other"
		}
		byRegion[region] = append(byRegion[region], z)
	}

	out := make([]ZoneGroup, 0, len(byRegion))
	for region, zs := range byRegion {
		sort.SliceStable(zs, func(i, j int) bool { return zs[i].Label < zs[j].Label })
		out = append(out, ZoneGroup{Region: region, Zones: zs})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Region < out[j].Region })

	return f.Zones, ids, out, nil
}

// Load parses the embedded list. Startup calls it to fail fast.
func Load() error {
	load()
	return loadErr
}

// All returns the zones in file order.
func All() ([]Zone, error) {
	load()
	return zones, loadErr
}

// Groups returns the zones grouped by region, regions in name order.
func Groups() ([]ZoneGroup, error) {
	load()
	return groups, loadErr
}

// Label returns the display label for id, or id itself when it is not in
// the list.
func Label(id string) string {
	load()
	if z, ok := byID[id]; ok && z.Label != "" {
		return z.Label
	}
	return id
}

// Listed reports whether id is one of the curated zones.
func Listed(id string) bool {
	load()
	_, ok := byID[id]
	return ok
}
