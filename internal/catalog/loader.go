package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultDocument []byte

// document mirrors catalog.yaml.
type document struct {
	RarityWeights map[Rarity]float64 `yaml:"rarity_weights"`
	Fighters      []rawProfile       `yaml:"fighters"`
}

type rawProfile struct {
	Name       string   `yaml:"name"`
	Subtitle   string   `yaml:"subtitle"`
	Category   Category `yaml:"category"`
	Image      string   `yaml:"image"`
	MaxHealth  int      `yaml:"max_health"`
	PowerLevel int      `yaml:"power_level"`
	CritRate   float64  `yaml:"crit_rate"`
	Rarity     Rarity   `yaml:"rarity"`
	RollWeight *float64 `yaml:"roll_weight,omitempty"` // nil -> rarity_weights[rarity]
}

// Default returns the catalog shipped with the binary.
func Default() (*Catalog, error) {
	return Parse(defaultDocument)
}

// Load reads a catalog document from disk.
func Load(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(b)
}

// Parse decodes a YAML catalog document. Every entry goes through
// NewFighterProfile, so out-of-range numbers are clamped, not rejected.
func Parse(b []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(doc.Fighters) == 0 {
		return nil, fmt.Errorf("parse catalog: no fighters")
	}
	profiles := make([]FighterProfile, 0, len(doc.Fighters))
	for _, r := range doc.Fighters {
		weight := doc.RarityWeights[r.Rarity]
		if r.RollWeight != nil {
			weight = *r.RollWeight
		}
		profiles = append(profiles, NewFighterProfile(
			r.Name, r.Subtitle, r.Category, r.Image,
			r.MaxHealth, r.PowerLevel, r.CritRate, r.Rarity, weight,
		))
	}
	return New(profiles)
}
