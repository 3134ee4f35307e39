package store_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/MrWong99/kith/internal/model"
	"github.com/MrWong99/kith/internal/store"
)

func openTestDB(t *testing.T) (*store.DB, string) {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "kith.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	owner, err := db.DefaultOwner(context.Background())
	if err != nil {
		t.Fatalf("DefaultOwner: %v", err)
	}
	return db, owner
}

func TestDefaultOwner_Stable(t *testing.T) {
	t.Parallel()

	db, owner := openTestDB(t)
	again, err := db.DefaultOwner(context.Background())
	if err != nil {
		t.Fatalf("DefaultOwner second call: %v", err)
	}
	if again != owner {
		t.Errorf("DefaultOwner returned %q then %q, want the same ID", owner, again)
	}
}

func TestOpen_CreatesParentDirectory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "dir", "kith.db")
	db, err := store.Open(path)
	if err != nil {
		t.Fatalf("Open with missing parent: %v", err)
	}
	db.Close()
}

func TestCreateAndListPeople(t *testing.T) {
	t.Parallel()

	db, owner := openTestDB(t)
	ctx := context.Background()

	me := model.NewPerson("Me")
	me.IsSelf = true
	alice := model.NewPerson("Alice Smith")
	alice.Nickname = "Ally"
	gone := model.NewPerson("Bygone Bob")
	gone.Archived = true

	for _, p := range []model.Person{me, alice, gone} {
		if err := db.CreatePerson(ctx, owner, p); err != nil {
			t.Fatalf("CreatePerson(%s): %v", p.Name, err)
		}
	}

	people, err := db.ActivePeople(ctx, owner)
	if err != nil {
		t.Fatalf("ActivePeople: %v", err)
	}
	if len(people) != 2 {
		t.Fatalf("ActivePeople returned %d, want 2 (archived excluded)", len(people))
	}
	if people[0].Name != "Alice Smith" || people[0].Nickname != "Ally" {
		t.Errorf("first person=%+v, want Alice Smith with nickname Ally", people[0])
	}

	names, err := db.ActiveNames(ctx, owner)
	if err != nil {
		t.Fatalf("ActiveNames: %v", err)
	}
	if len(names) != 1 || names[0] != "Alice Smith" {
		t.Errorf("ActiveNames=%v, want [Alice Smith] (self and archived excluded)", names)
	}
}

func TestLogInteraction(t *testing.T) {
	t.Parallel()

	db, owner := openTestDB(t)
	ctx := context.Background()

	alice := model.NewPerson("Alice")
	if err := db.CreatePerson(ctx, owner, alice); err != nil {
		t.Fatalf("CreatePerson: %v", err)
	}

	date := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	in := model.NewInPersonInteraction("Starbucks", []string{"her new job", "travel"}, "", date)
	if err := db.LogInteraction(ctx, owner, alice.ID, in); err != nil {
		t.Fatalf("LogInteraction: %v", err)
	}

	// Logging against an unknown person must fail without side effects.
	err := db.LogInteraction(ctx, owner, "no-such-person", in)
	if err == nil {
		t.Error("LogInteraction with unknown person should fail")
	}
}

func TestCorrections_RecentFirstAndLimited(t *testing.T) {
	t.Parallel()

	db, owner := openTestDB(t)
	ctx := context.Background()

	for _, text := range []string{"first", "second", "third"} {
		if err := db.InsertCorrection(ctx, owner, text, `{"a":1}`, `{"a":2}`); err != nil {
			t.Fatalf("InsertCorrection(%s): %v", text, err)
		}
	}

	got, err := db.RecentCorrections(ctx, owner, 2)
	if err != nil {
		t.Fatalf("RecentCorrections: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("RecentCorrections returned %d, want limit 2", len(got))
	}
	if got[0].OriginalText != "third" || got[1].OriginalText != "second" {
		t.Errorf("order=%s,%s, want third,second (most recent first)",
			got[0].OriginalText, got[1].OriginalText)
	}
}

func TestCorrections_EmptyDatabase(t *testing.T) {
	t.Parallel()

	db, owner := openTestDB(t)
	got, err := db.RecentCorrections(context.Background(), owner, 10)
	if err != nil {
		t.Fatalf("RecentCorrections: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("RecentCorrections on a fresh database=%v, want none", got)
	}
}
