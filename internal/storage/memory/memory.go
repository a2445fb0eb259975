// Package memory provides an in-process Store, used when no database path is
// configured and in tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/xtding233/gacha-arena/internal/progression"
	"github.com/xtding233/gacha-arena/internal/storage"
)

type Store struct {
	mu        sync.RWMutex
	players   map[string]progression.Player
	usernames map[string]string
	members   map[string]map[string]progression.Member // owner -> member id -> member
}

func New() *Store {
	return &Store{
		players:   make(map[string]progression.Player),
		usernames: make(map[string]string),
		members:   make(map[string]map[string]progression.Member),
	}
}

func (s *Store) CreatePlayer(ctx context.Context, p progression.Player) (progression.Player, error) {
	if err := ctx.Err(); err != nil {
		return progression.Player{}, err
	}
	if strings.TrimSpace(p.ID) == "" {
		return progression.Player{}, fmt.Errorf("player id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.players[p.ID]; ok {
		return progression.Player{}, storage.ErrAlreadyExists
	}
	if _, ok := s.usernames[p.Username]; ok {
		return progression.Player{}, storage.ErrAlreadyExists
	}
	p.Version = 1
	s.players[p.ID] = p
	s.usernames[p.Username] = p.ID
	s.members[p.ID] = make(map[string]progression.Member)
	return p, nil
}

func (s *Store) GetPlayer(ctx context.Context, id string) (progression.Player, error) {
	if err := ctx.Err(); err != nil {
		return progression.Player{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.players[id]
	if !ok {
		return progression.Player{}, storage.ErrNotFound
	}
	return p, nil
}

func (s *Store) ListMembers(ctx context.Context, ownerID string) ([]progression.Member, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.players[ownerID]; !ok {
		return nil, storage.ErrNotFound
	}
	out := make([]progression.Member, 0, len(s.members[ownerID]))
	for _, m := range s.members[ownerID] {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) GetMember(ctx context.Context, ownerID, memberID string) (progression.Member, error) {
	if err := ctx.Err(); err != nil {
		return progression.Member{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.members[ownerID][memberID]
	if !ok {
		return progression.Member{}, storage.ErrNotFound
	}
	return m, nil
}

func (s *Store) Commit(ctx context.Context, c storage.Change) (progression.Player, error) {
	if err := ctx.Err(); err != nil {
		return progression.Player{}, err
	}
	if err := c.Validate(); err != nil {
		return progression.Player{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.players[c.Player.ID]
	if !ok {
		return progression.Player{}, storage.ErrNotFound
	}
	if cur.Version != c.ExpectedVersion {
		return progression.Player{}, fmt.Errorf("%w: player %s at version %d, expected %d",
			storage.ErrConflict, cur.ID, cur.Version, c.ExpectedVersion)
	}

	owned := s.members[cur.ID]
	byProfile := make(map[string]string, len(owned))
	for id, m := range owned {
		byProfile[m.Profile.Name] = id
	}
	// check every member before writing anything
	for _, m := range c.Members {
		if id, ok := byProfile[m.Profile.Name]; ok && id != m.ID {
			return progression.Player{}, fmt.Errorf("%w: %s already owns %s", storage.ErrAlreadyExists, cur.ID, m.Profile.Name)
		}
		byProfile[m.Profile.Name] = m.ID
	}

	for _, m := range c.Members {
		if prev, ok := owned[m.ID]; ok {
			// profile and creation time are fixed once stored
			m.Profile = prev.Profile
			m.CreatedAt = prev.CreatedAt
		}
		owned[m.ID] = m
	}
	next := c.Player
	next.Username = cur.Username
	next.CreatedAt = cur.CreatedAt
	next.Version = cur.Version + 1
	s.players[next.ID] = next
	return next, nil
}

func (s *Store) Close() error { return nil }

var _ storage.Store = (*Store)(nil)
