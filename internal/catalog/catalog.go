package catalog

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("profile not found")
	ErrDuplicateProfile = errors.New("duplicate profile name")
)

// Catalog is a fixed, ordered set of profiles. It is built once and only read
// afterwards, so it is safe to share between goroutines.
type Catalog struct {
	profiles []FighterProfile
	byName   map[string]int
}

// New builds a catalog, keeping declaration order. Names must be unique.
func New(profiles []FighterProfile) (*Catalog, error) {
	c := &Catalog{
		profiles: make([]FighterProfile, 0, len(profiles)),
		byName:   make(map[string]int, len(profiles)),
	}
	for _, p := range profiles {
		if _, ok := c.byName[p.Name]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateProfile, p.Name)
		}
		c.byName[p.Name] = len(c.profiles)
		c.profiles = append(c.profiles, p)
	}
	return c, nil
}

// LookupByName is an exact, case-sensitive match.
func (c *Catalog) LookupByName(name string) (FighterProfile, error) {
	if c != nil {
		if i, ok := c.byName[name]; ok {
			return c.profiles[i], nil
		}
	}
	return FighterProfile{}, fmt.Errorf("%w: %q", ErrNotFound, name)
}

// ListAll returns every profile in declaration order.
func (c *Catalog) ListAll() []FighterProfile {
	if c == nil {
		return nil
	}
	return append([]FighterProfile(nil), c.profiles...)
}

// Playables returns the profiles players can roll.
func (c *Catalog) Playables() []FighterProfile { return c.filter(Playable) }

// Opponents returns the computer-controlled profiles.
func (c *Catalog) Opponents() []FighterProfile { return c.filter(Opponent) }

func (c *Catalog) filter(cat Category) []FighterProfile {
	if c == nil {
		return nil
	}
	var out []FighterProfile
	for _, p := range c.profiles {
		if p.Category == cat {
			out = append(out, p)
		}
	}
	return out
}

// Len is the number of profiles.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.profiles)
}
