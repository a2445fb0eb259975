// Package storage defines persistence contracts for players and their
// collections.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xtding233/gacha-arena/internal/progression"
)

var (
	// ErrNotFound indicates a requested record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates a uniqueness-constrained record already exists.
	ErrAlreadyExists = errors.New("record already exists")
	// ErrConflict indicates the player changed since it was read.
	ErrConflict = errors.New("version conflict")
)

// Change is one atomic player update: the new player state plus every
// member that was created or modified alongside it.
type Change struct {
	Player          progression.Player
	ExpectedVersion int64
	Members         []progression.Member
}

// Validate checks a change before it reaches a store.
func (c Change) Validate() error {
	if strings.TrimSpace(c.Player.ID) == "" {
		return fmt.Errorf("player id is required")
	}
	for _, m := range c.Members {
		if strings.TrimSpace(m.ID) == "" {
			return fmt.Errorf("member id is required")
		}
		if m.OwnerID != c.Player.ID {
			return fmt.Errorf("member %s belongs to %q, not %q", m.ID, m.OwnerID, c.Player.ID)
		}
	}
	return nil
}

// Store persists players and members.
type Store interface {
	// CreatePlayer inserts a new player at version 1. Usernames are unique.
	CreatePlayer(ctx context.Context, p progression.Player) (progression.Player, error)
	GetPlayer(ctx context.Context, id string) (progression.Player, error)
	// ListMembers returns a player's members, oldest first.
	ListMembers(ctx context.Context, ownerID string) ([]progression.Member, error)
	GetMember(ctx context.Context, ownerID, memberID string) (progression.Member, error)
	// Commit applies c only if the stored player is still at
	// c.ExpectedVersion, and returns the player at its new version.
	Commit(ctx context.Context, c Change) (progression.Player, error)
	Close() error
}
