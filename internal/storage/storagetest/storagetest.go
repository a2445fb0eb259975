// Package storagetest holds behavior checks shared by every Store
// implementation.
package storagetest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/xtding233/gacha-arena/internal/catalog"
	"github.com/xtding233/gacha-arena/internal/progression"
	"github.com/xtding233/gacha-arena/internal/storage"
)

// Run exercises a Store. open must return an empty store.
func Run(t *testing.T, open func(t *testing.T) storage.Store) {
	t.Run("CreateGetPlayer", func(t *testing.T) { testCreateGetPlayer(t, open(t)) })
	t.Run("DuplicatePlayer", func(t *testing.T) { testDuplicatePlayer(t, open(t)) })
	t.Run("MissingRecords", func(t *testing.T) { testMissingRecords(t, open(t)) })
	t.Run("CommitPersistsMembers", func(t *testing.T) { testCommitPersistsMembers(t, open(t)) })
	t.Run("CommitConflict", func(t *testing.T) { testCommitConflict(t, open(t)) })
	t.Run("CommitRejectsDuplicateProfile", func(t *testing.T) { testCommitRejectsDuplicateProfile(t, open(t)) })
	t.Run("CommitRejectsForeignMember", func(t *testing.T) { testCommitRejectsForeignMember(t, open(t)) })
	t.Run("ConcurrentCommits", func(t *testing.T) { testConcurrentCommits(t, open(t)) })
}

var (
	tabby = catalog.NewFighterProfile("Tabby", "Striped", catalog.Playable, "/img/cats/tabby.png", 50, 5, 0.1, catalog.Common, 0.105)
	tony  = catalog.NewFighterProfile("Tony", "Might just be a tiger", catalog.Playable, "/img/cats/tony.png", 80, 11, 0.1, catalog.Legendary, 0.005)
	cheez = catalog.NewFighterProfile("Cheesy", "", catalog.Opponent, "", 20, 2, 0, catalog.Common, 1)
)

func newPlayer(id, username string) progression.Player {
	return progression.Player{
		ID:       id,
		Username: username,
		State: progression.State{
			Currency:   100,
			TotalLevel: 1,
			Opponent:   cheez,
		},
		CreatedAt: time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC),
	}
}

func mustCreate(t *testing.T, s storage.Store, p progression.Player) progression.Player {
	t.Helper()
	got, err := s.CreatePlayer(context.Background(), p)
	if err != nil {
		t.Fatalf("create player: %v", err)
	}
	return got
}

func testCreateGetPlayer(t *testing.T, s storage.Store) {
	ctx := context.Background()
	created := mustCreate(t, s, newPlayer("p1", "mia"))
	if created.Version != 1 {
		t.Fatalf("version = %d, want 1", created.Version)
	}

	got, err := s.GetPlayer(ctx, "p1")
	if err != nil {
		t.Fatalf("get player: %v", err)
	}
	if got.Username != "mia" || got.Version != 1 {
		t.Fatalf("player = %+v", got)
	}
	if got.State != created.State {
		t.Fatalf("state = %+v, want %+v", got.State, created.State)
	}
	if !got.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("created_at = %v, want %v", got.CreatedAt, created.CreatedAt)
	}

	members, err := s.ListMembers(ctx, "p1")
	if err != nil {
		t.Fatalf("list members: %v", err)
	}
	if len(members) != 0 {
		t.Fatalf("members = %d, want 0", len(members))
	}
}

func testDuplicatePlayer(t *testing.T, s storage.Store) {
	ctx := context.Background()
	mustCreate(t, s, newPlayer("p1", "mia"))
	if _, err := s.CreatePlayer(ctx, newPlayer("p1", "other")); !errors.Is(err, storage.ErrAlreadyExists) {
		t.Fatalf("duplicate id err = %v, want ErrAlreadyExists", err)
	}
	if _, err := s.CreatePlayer(ctx, newPlayer("p2", "mia")); !errors.Is(err, storage.ErrAlreadyExists) {
		t.Fatalf("duplicate username err = %v, want ErrAlreadyExists", err)
	}
}

func testMissingRecords(t *testing.T, s storage.Store) {
	ctx := context.Background()
	if _, err := s.GetPlayer(ctx, "nope"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("get player err = %v, want ErrNotFound", err)
	}
	if _, err := s.ListMembers(ctx, "nope"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("list members err = %v, want ErrNotFound", err)
	}
	mustCreate(t, s, newPlayer("p1", "mia"))
	if _, err := s.GetMember(ctx, "p1", "nope"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("get member err = %v, want ErrNotFound", err)
	}
	_, err := s.Commit(ctx, storage.Change{Player: newPlayer("ghost", "ghost"), ExpectedVersion: 1})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("commit missing player err = %v, want ErrNotFound", err)
	}
}

func testCommitPersistsMembers(t *testing.T, s storage.Store) {
	ctx := context.Background()
	p := mustCreate(t, s, newPlayer("p1", "mia"))

	first := progression.NewMember("p1", tabby)
	first.CreatedAt = time.Date(2026, time.March, 1, 12, 1, 0, 0, time.UTC)
	second := progression.NewMember("p1", tony)
	second.CreatedAt = time.Date(2026, time.March, 1, 12, 2, 0, 0, time.UTC)

	p.State.Currency = 80
	next, err := s.Commit(ctx, storage.Change{Player: p, ExpectedVersion: p.Version, Members: []progression.Member{second, first}})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if next.Version != 2 || next.State.Currency != 80 {
		t.Fatalf("committed player = %+v", next)
	}

	members, err := s.ListMembers(ctx, "p1")
	if err != nil {
		t.Fatalf("list members: %v", err)
	}
	if len(members) != 2 || members[0].ID != first.ID || members[1].ID != second.ID {
		t.Fatalf("members out of order: %+v", members)
	}
	if members[1].Profile != tony {
		t.Fatalf("profile = %+v, want %+v", members[1].Profile, tony)
	}

	// update an existing member
	first.Health = 7
	first.TotalWins = 2
	first, _ = progression.Rename(first, "Stripes")
	next.State.WinStreak = 2
	next, err = s.Commit(ctx, storage.Change{Player: next, ExpectedVersion: next.Version, Members: []progression.Member{first}})
	if err != nil {
		t.Fatalf("second commit: %v", err)
	}
	if next.Version != 3 {
		t.Fatalf("version = %d, want 3", next.Version)
	}
	got, err := s.GetMember(ctx, "p1", first.ID)
	if err != nil {
		t.Fatalf("get member: %v", err)
	}
	if got.Health != 7 || got.TotalWins != 2 || got.ChosenName != "Stripes" || !got.Renamed {
		t.Fatalf("member = %+v", got)
	}
	if _, err := s.GetMember(ctx, "someone-else", first.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("foreign owner err = %v, want ErrNotFound", err)
	}
}

func testCommitConflict(t *testing.T, s storage.Store) {
	ctx := context.Background()
	p := mustCreate(t, s, newPlayer("p1", "mia"))

	a := p
	a.State.Currency = 90
	if _, err := s.Commit(ctx, storage.Change{Player: a, ExpectedVersion: p.Version}); err != nil {
		t.Fatalf("first commit: %v", err)
	}
	b := p
	b.State.Currency = 10
	_, err := s.Commit(ctx, storage.Change{Player: b, ExpectedVersion: p.Version, Members: []progression.Member{progression.NewMember("p1", tabby)}})
	if !errors.Is(err, storage.ErrConflict) {
		t.Fatalf("stale commit err = %v, want ErrConflict", err)
	}

	got, _ := s.GetPlayer(ctx, "p1")
	if got.State.Currency != 90 || got.Version != 2 {
		t.Fatalf("stale commit leaked: %+v", got)
	}
	members, _ := s.ListMembers(ctx, "p1")
	if len(members) != 0 {
		t.Fatalf("stale commit wrote members: %+v", members)
	}
}

func testCommitRejectsDuplicateProfile(t *testing.T, s storage.Store) {
	ctx := context.Background()
	p := mustCreate(t, s, newPlayer("p1", "mia"))
	next, err := s.Commit(ctx, storage.Change{Player: p, ExpectedVersion: p.Version, Members: []progression.Member{progression.NewMember("p1", tabby)}})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}

	next.State.Currency = 1
	_, err = s.Commit(ctx, storage.Change{Player: next, ExpectedVersion: next.Version, Members: []progression.Member{progression.NewMember("p1", tabby)}})
	if !errors.Is(err, storage.ErrAlreadyExists) {
		t.Fatalf("duplicate profile err = %v, want ErrAlreadyExists", err)
	}
	got, _ := s.GetPlayer(ctx, "p1")
	if got.Version != next.Version || got.State.Currency != 100 {
		t.Fatalf("rejected commit changed player: %+v", got)
	}

	// a second player may own the same profile
	q := mustCreate(t, s, newPlayer("p2", "noor"))
	if _, err := s.Commit(ctx, storage.Change{Player: q, ExpectedVersion: q.Version, Members: []progression.Member{progression.NewMember("p2", tabby)}}); err != nil {
		t.Fatalf("other player commit: %v", err)
	}
}

func testCommitRejectsForeignMember(t *testing.T, s storage.Store) {
	ctx := context.Background()
	p := mustCreate(t, s, newPlayer("p1", "mia"))
	_, err := s.Commit(ctx, storage.Change{Player: p, ExpectedVersion: p.Version, Members: []progression.Member{progression.NewMember("p2", tabby)}})
	if err == nil {
		t.Fatal("expected owner mismatch error")
	}
}

func testConcurrentCommits(t *testing.T, s storage.Store) {
	ctx := context.Background()
	p := mustCreate(t, s, newPlayer("p1", "mia"))

	const writers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		ok        int
		conflicts int
	)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			next := p
			next.State.Currency = i
			_, err := s.Commit(ctx, storage.Change{Player: next, ExpectedVersion: p.Version})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, storage.ErrConflict):
				conflicts++
			default:
				t.Errorf("commit %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()
	if ok != 1 || conflicts != writers-1 {
		t.Fatalf("ok = %d conflicts = %d, want 1 and %d", ok, conflicts, writers-1)
	}
}
