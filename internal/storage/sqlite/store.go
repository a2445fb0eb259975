// Package sqlite provides a SQLite-backed Store.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/xtding233/gacha-arena/internal/catalog"
	"github.com/xtding233/gacha-arena/internal/progression"
	"github.com/xtding233/gacha-arena/internal/storage"
	"github.com/xtding233/gacha-arena/internal/storage/sqlite/migrations"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// Store persists players and members in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// one writer at a time; readers wait on the pool instead of SQLITE_BUSY
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(context.Background(), sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

// CreatePlayer inserts a player at version 1.
func (s *Store) CreatePlayer(ctx context.Context, p progression.Player) (progression.Player, error) {
	if err := s.ready(ctx); err != nil {
		return progression.Player{}, err
	}
	if strings.TrimSpace(p.ID) == "" {
		return progression.Player{}, fmt.Errorf("player id is required")
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	p.CreatedAt = fromMillis(toMillis(p.CreatedAt))
	p.Version = 1

	state, err := json.Marshal(p.State)
	if err != nil {
		return progression.Player{}, fmt.Errorf("encode player state: %w", err)
	}
	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO players (id, username, state, version, created_at) VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.Username, string(state), p.Version, toMillis(p.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return progression.Player{}, storage.ErrAlreadyExists
		}
		return progression.Player{}, fmt.Errorf("create player: %w", err)
	}
	return p, nil
}

// GetPlayer returns one player by ID.
func (s *Store) GetPlayer(ctx context.Context, id string) (progression.Player, error) {
	if err := s.ready(ctx); err != nil {
		return progression.Player{}, err
	}
	return getPlayer(ctx, s.sqlDB, id)
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getPlayer(ctx context.Context, q queryer, id string) (progression.Player, error) {
	var (
		p         progression.Player
		state     string
		createdAt int64
	)
	err := q.QueryRowContext(ctx,
		`SELECT id, username, state, version, created_at FROM players WHERE id = ?`, id,
	).Scan(&p.ID, &p.Username, &state, &p.Version, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return progression.Player{}, storage.ErrNotFound
		}
		return progression.Player{}, fmt.Errorf("get player: %w", err)
	}
	if err := json.Unmarshal([]byte(state), &p.State); err != nil {
		return progression.Player{}, fmt.Errorf("decode player state: %w", err)
	}
	p.CreatedAt = fromMillis(createdAt)
	return p, nil
}

const memberColumns = `id, owner_id, profile, chosen_name, renamed, health, total_wins, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanMember(row scanner) (progression.Member, error) {
	var (
		m         progression.Member
		profile   string
		renamed   int
		createdAt int64
	)
	if err := row.Scan(&m.ID, &m.OwnerID, &profile, &m.ChosenName, &renamed, &m.Health, &m.TotalWins, &createdAt); err != nil {
		return progression.Member{}, err
	}
	var p catalog.FighterProfile
	if err := json.Unmarshal([]byte(profile), &p); err != nil {
		return progression.Member{}, fmt.Errorf("decode member profile: %w", err)
	}
	m.Profile = p
	m.Renamed = renamed != 0
	m.CreatedAt = fromMillis(createdAt)
	return m, nil
}

// ListMembers returns a player's members, oldest first.
func (s *Store) ListMembers(ctx context.Context, ownerID string) ([]progression.Member, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	if _, err := getPlayer(ctx, s.sqlDB, ownerID); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT `+memberColumns+` FROM members WHERE owner_id = ? ORDER BY created_at ASC, id ASC`, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	out := []progression.Member{}
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("list members: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return out, nil
}

// GetMember returns one member owned by ownerID.
func (s *Store) GetMember(ctx context.Context, ownerID, memberID string) (progression.Member, error) {
	if err := s.ready(ctx); err != nil {
		return progression.Member{}, err
	}
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT `+memberColumns+` FROM members WHERE owner_id = ? AND id = ?`, ownerID, memberID,
	)
	m, err := scanMember(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return progression.Member{}, storage.ErrNotFound
		}
		return progression.Member{}, fmt.Errorf("get member: %w", err)
	}
	return m, nil
}

// Commit writes the player and its changed members in one transaction,
// guarded by the expected version.
func (s *Store) Commit(ctx context.Context, c storage.Change) (progression.Player, error) {
	if err := s.ready(ctx); err != nil {
		return progression.Player{}, err
	}
	if err := c.Validate(); err != nil {
		return progression.Player{}, err
	}
	state, err := json.Marshal(c.Player.State)
	if err != nil {
		return progression.Player{}, fmt.Errorf("encode player state: %w", err)
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return progression.Player{}, fmt.Errorf("start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	res, err := tx.ExecContext(ctx,
		`UPDATE players SET state = ?, version = version + 1 WHERE id = ? AND version = ?`,
		string(state), c.Player.ID, c.ExpectedVersion,
	)
	if err != nil {
		return progression.Player{}, fmt.Errorf("update player: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return progression.Player{}, fmt.Errorf("update player: %w", err)
	}
	if n == 0 {
		cur, err := getPlayer(ctx, tx, c.Player.ID)
		if err != nil {
			return progression.Player{}, err
		}
		return progression.Player{}, fmt.Errorf("%w: player %s at version %d, expected %d",
			storage.ErrConflict, cur.ID, cur.Version, c.ExpectedVersion)
	}

	for _, m := range c.Members {
		if err := upsertMember(ctx, tx, m); err != nil {
			return progression.Player{}, err
		}
	}

	next, err := getPlayer(ctx, tx, c.Player.ID)
	if err != nil {
		return progression.Player{}, err
	}
	if err := tx.Commit(); err != nil {
		return progression.Player{}, fmt.Errorf("commit player: %w", err)
	}
	return next, nil
}

func upsertMember(ctx context.Context, tx *sql.Tx, m progression.Member) error {
	profile, err := json.Marshal(m.Profile)
	if err != nil {
		return fmt.Errorf("encode member profile: %w", err)
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	renamed := 0
	if m.Renamed {
		renamed = 1
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO members (id, owner_id, profile_name, profile, chosen_name, renamed, health, total_wins, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		   chosen_name = excluded.chosen_name,
		   renamed = excluded.renamed,
		   health = excluded.health,
		   total_wins = excluded.total_wins
		 WHERE members.owner_id = excluded.owner_id`,
		m.ID, m.OwnerID, m.Profile.Name, string(profile), m.ChosenName, renamed, m.Health, m.TotalWins, toMillis(m.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s already owns %s", storage.ErrAlreadyExists, m.OwnerID, m.Profile.Name)
		}
		return fmt.Errorf("put member %s: %w", m.ID, err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

var _ storage.Store = (*Store)(nil)
