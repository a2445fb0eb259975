package game

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/xtding233/gacha-arena/internal/catalog"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Paths helper for the override files in a config directory.
type Paths struct {
	BaseDir string // e.g. /etc/arena; empty means embedded defaults only
}

func (p Paths) RulesPath() string {
	if p.BaseDir == "" {
		return ""
	}
	return filepath.Join(p.BaseDir, "rules.yaml")
}

func (p Paths) CatalogPath() string {
	if p.BaseDir == "" {
		return ""
	}
	return filepath.Join(p.BaseDir, "catalog.yaml")
}

// Watched lists the files a FileWatcher should poll.
func (p Paths) Watched() []string {
	if p.BaseDir == "" {
		return nil
	}
	return []string{p.RulesPath(), p.CatalogPath()}
}

// Loader reads YAML configs and merges embedded default <- rules.yaml.
type Loader struct {
	paths Paths

	mu    sync.RWMutex
	cache *RawConfig
}

// NewLoader creates a config loader with the given base directory.
func NewLoader(baseDir string) *Loader {
	return &Loader{paths: Paths{BaseDir: baseDir}}
}

// Paths returns the files this loader reads.
func (l *Loader) Paths() Paths { return l.paths }

// LoadMerged returns the merged RawConfig (without normalization).
func (l *Loader) LoadMerged() (RawConfig, error) {
	l.mu.RLock()
	if l.cache != nil {
		cfg := *l.cache
		l.mu.RUnlock()
		return cfg, nil
	}
	l.mu.RUnlock()

	var defCfg RawConfig
	if err := yaml.Unmarshal(defaultYAML, &defCfg); err != nil {
		return RawConfig{}, fmt.Errorf("read default: %w", err)
	}
	var override RawConfig
	if path := l.paths.RulesPath(); path != "" {
		var err error
		override, err = readYAML(path) // rules file is optional
		if err != nil {
			return RawConfig{}, fmt.Errorf("read %s: %w", path, err)
		}
	}
	merged := mergeRaw(defCfg, override)

	l.mu.Lock()
	l.cache = &merged
	l.mu.Unlock()

	return merged, nil
}

// Rules loads, validates and normalizes the effective rules.
func (l *Loader) Rules() (Rules, error) {
	raw, err := l.LoadMerged()
	if err != nil {
		return Rules{}, err
	}
	if err := ValidateRaw(raw); err != nil {
		return Rules{}, err
	}
	return Resolve(raw), nil
}

// Catalog loads <dir>/catalog.yaml when present, else the embedded catalog.
// The initial opponent named by rules must exist in it.
func (l *Loader) Catalog(rules Rules) (*catalog.Catalog, error) {
	var (
		c   *catalog.Catalog
		err error
	)
	path := l.paths.CatalogPath()
	if path != "" {
		if _, statErr := os.Stat(path); statErr == nil {
			c, err = catalog.Load(path)
		} else if !errors.Is(statErr, os.ErrNotExist) {
			return nil, fmt.Errorf("stat %s: %w", path, statErr)
		}
	}
	if c == nil && err == nil {
		c, err = catalog.Default()
	}
	if err != nil {
		return nil, err
	}
	op, err := c.LookupByName(rules.InitialOpponent)
	if err != nil {
		return nil, fmt.Errorf("initial opponent: %w", err)
	}
	if op.Category != catalog.Opponent {
		return nil, fmt.Errorf("initial opponent %q is not an opponent", op.Name)
	}
	if !drawable(c.Playables()) || !drawable(c.Opponents()) {
		return nil, fmt.Errorf("catalog needs at least one playable and one opponent with roll_weight > 0")
	}
	return c, nil
}

// drawable reports whether a weighted draw over ps can pick anything.
func drawable(ps []catalog.FighterProfile) bool {
	for _, p := range ps {
		if p.RollWeight > 0 {
			return true
		}
	}
	return false
}

// Load returns the effective rules and the catalog they apply to.
func (l *Loader) Load() (Rules, *catalog.Catalog, error) {
	rules, err := l.Rules()
	if err != nil {
		return Rules{}, nil, err
	}
	c, err := l.Catalog(rules)
	if err != nil {
		return Rules{}, nil, err
	}
	return rules, c, nil
}

// Invalidate clears loader's cache. Call after hot-reload detects changes.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = nil
}

// readYAML loads a YAML file into RawConfig. Missing files return zero cfg, no error.
func readYAML(path string) (RawConfig, error) {
	var cfg RawConfig
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return RawConfig{}, nil
		}
		return RawConfig{}, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return RawConfig{}, err
	}
	return cfg, nil
}

// mergeRaw performs a deep merge: 'b' overrides 'a' where set.
func mergeRaw(a, b RawConfig) RawConfig {
	out := a

	// top-level scalars
	if b.Version != "" {
		out.Version = b.Version
	}
	if b.Notes != "" {
		out.Notes = b.Notes
	}

	// gacha
	setInt(&out.Gacha.Cost, b.Gacha.Cost)
	setInt(&out.Gacha.TenRollCost, b.Gacha.TenRollCost)
	setInt(&out.Gacha.Pity, b.Gacha.Pity)
	if b.Gacha.PityRarity != "" {
		out.Gacha.PityRarity = b.Gacha.PityRarity
	}
	if b.Gacha.SoftPity != nil {
		c := *b.Gacha.SoftPity
		out.Gacha.SoftPity = &c
	}
	switch {
	case b.Gacha.Refund == nil:
	case out.Gacha.Refund == nil:
		c := *b.Gacha.Refund
		out.Gacha.Refund = &c
	default:
		c := *out.Gacha.Refund
		setInt(&c.Coins, b.Gacha.Refund.Coins)
		setInt(&c.Healing, b.Gacha.Refund.Healing)
		out.Gacha.Refund = &c
	}

	// rewards
	setInt(&out.Rewards.CoinBase, b.Rewards.CoinBase)
	setInt(&out.Rewards.CoinPerPower, b.Rewards.CoinPerPower)
	setInt(&out.Rewards.HealingPerPower, b.Rewards.HealingPerPower)

	// progression
	setInt(&out.Progression.StartingCurrency, b.Progression.StartingCurrency)
	setInt(&out.Progression.StartingHealing, b.Progression.StartingHealing)
	setInt(&out.Progression.LevelEvery, b.Progression.LevelEvery)
	setInt(&out.Progression.FailsafeHealing, b.Progression.FailsafeHealing)
	if b.Progression.InitialOpponent != "" {
		out.Progression.InitialOpponent = b.Progression.InitialOpponent
	}

	// healing
	switch {
	case b.Healing == nil:
	case out.Healing == nil:
		c := *b.Healing
		out.Healing = &c
	default:
		c := *out.Healing
		setInt(&c.PerUnit, b.Healing.PerUnit)
		out.Healing = &c
	}

	return out
}

func setInt(dst **int, v *int) {
	if v != nil {
		*dst = v
	}
}
