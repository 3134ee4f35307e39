package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/MrWong99/kith/internal/model"
)

// DefaultPath is the database location used when none is configured.
const DefaultPath = ".data/kith.db"

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY NOT NULL,
	name TEXT NOT NULL,
	email TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS people (
	id TEXT PRIMARY KEY NOT NULL,
	owner_id TEXT NOT NULL REFERENCES users(id),
	name TEXT NOT NULL,
	nickname TEXT,
	is_self INTEGER NOT NULL DEFAULT 0,
	archived INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS interactions (
	id TEXT PRIMARY KEY NOT NULL,
	owner_id TEXT NOT NULL REFERENCES users(id),
	person_id TEXT NOT NULL REFERENCES people(id) ON DELETE CASCADE,
	date TEXT NOT NULL,
	medium TEXT NOT NULL,
	my_location TEXT NOT NULL,
	their_location TEXT,
	note TEXT,
	created_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS interaction_topics (
	interaction_id TEXT NOT NULL REFERENCES interactions(id) ON DELETE CASCADE,
	topic TEXT NOT NULL,
	PRIMARY KEY (interaction_id, topic)
);

CREATE TABLE IF NOT EXISTS ai_corrections (
	id TEXT PRIMARY KEY NOT NULL,
	owner_id TEXT NOT NULL REFERENCES users(id),
	original_text TEXT NOT NULL,
	ai_output TEXT NOT NULL,
	user_output TEXT NOT NULL,
	created_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_people_owner ON people(owner_id);
CREATE INDEX IF NOT EXISTS idx_interactions_person ON interactions(person_id);
CREATE INDEX IF NOT EXISTS idx_corrections_owner ON ai_corrections(owner_id);
`

// DB is the SQLite-backed implementation of every store interface.
type DB struct {
	db *sql.DB
}

var (
	_ PersonStore      = (*DB)(nil)
	_ InteractionStore = (*DB)(nil)
	_ CorrectionStore  = (*DB)(nil)
)

// Open opens (creating if necessary) the database at path and applies the
// schema. The parent directory is created when missing.
func Open(path string) (*DB, error) {
	if path == "" {
		path = DefaultPath
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("store: create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: enable foreign keys: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &DB{db: db}, nil
}

// Close closes the underlying database handle.
func (d *DB) Close() error {
	return d.db.Close()
}

// DefaultOwner returns the ID of the single local user, creating the row on
// first use.
func (d *DB) DefaultOwner(ctx context.Context) (string, error) {
	var id string
	err := d.db.QueryRowContext(ctx, "SELECT id FROM users ORDER BY rowid LIMIT 1").Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return "", fmt.Errorf("store: look up owner: %w", err)
	}

	id = uuid.NewString()
	_, err = d.db.ExecContext(ctx,
		"INSERT INTO users (id, name) VALUES (?, ?)", id, "default")
	if err != nil {
		return "", fmt.Errorf("store: create owner: %w", err)
	}
	return id, nil
}

// CreatePerson inserts p into the owner's network.
func (d *DB) CreatePerson(ctx context.Context, ownerID string, p model.Person) error {
	var nickname any
	if p.Nickname != "" {
		nickname = p.Nickname
	}
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO people (id, owner_id, name, nickname, is_self, archived)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, ownerID, p.Name, nickname, p.IsSelf, p.Archived)
	if err != nil {
		return fmt.Errorf("store: create person %q: %w", p.Name, err)
	}
	return nil
}

// ActivePeople returns every non-archived contact, self included, ordered by
// name.
func (d *DB) ActivePeople(ctx context.Context, ownerID string) ([]model.Person, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT id, name, nickname, is_self, archived
		 FROM people
		 WHERE owner_id = ? AND archived = 0
		 ORDER BY name`,
		ownerID)
	if err != nil {
		return nil, fmt.Errorf("store: query active people: %w", err)
	}
	defer rows.Close()

	var people []model.Person
	for rows.Next() {
		var (
			p        model.Person
			nickname sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.Name, &nickname, &p.IsSelf, &p.Archived); err != nil {
			return nil, fmt.Errorf("store: scan person: %w", err)
		}
		p.Nickname = nickname.String
		people = append(people, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate people: %w", err)
	}
	return people, nil
}

// ActiveNames returns the names of non-archived, non-self contacts ordered
// by name.
func (d *DB) ActiveNames(ctx context.Context, ownerID string) ([]string, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT name FROM people
		 WHERE owner_id = ? AND archived = 0 AND is_self = 0
		 ORDER BY name`,
		ownerID)
	if err != nil {
		return nil, fmt.Errorf("store: query active names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("store: scan name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate names: %w", err)
	}
	return names, nil
}

// LogInteraction stores in and its topics atomically for one person.
func (d *DB) LogInteraction(ctx context.Context, ownerID, personID string, in model.Interaction) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx,
		"SELECT 1 FROM people WHERE id = ? AND owner_id = ?", personID, ownerID).Scan(&exists)
	if err == sql.ErrNoRows {
		return fmt.Errorf("store: log interaction: person %s: %w", personID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("store: verify person: %w", err)
	}

	var theirLocation, note any
	if in.TheirLocation != "" {
		theirLocation = in.TheirLocation
	}
	if in.Note != "" {
		note = in.Note
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO interactions (id, owner_id, person_id, date, medium, my_location, their_location, note)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, ownerID, personID, in.Date.Format(time.DateOnly), string(in.Medium),
		in.MyLocation, theirLocation, note)
	if err != nil {
		return fmt.Errorf("store: insert interaction: %w", err)
	}

	for _, topic := range in.Topics {
		_, err = tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO interaction_topics (interaction_id, topic) VALUES (?, ?)",
			in.ID, topic)
		if err != nil {
			return fmt.Errorf("store: insert topic %q: %w", topic, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit interaction: %w", err)
	}
	return nil
}

// InsertCorrection saves one AI parse correction.
func (d *DB) InsertCorrection(ctx context.Context, ownerID, originalText, aiOutput, userOutput string) error {
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO ai_corrections (id, owner_id, original_text, ai_output, user_output)
		 VALUES (?, ?, ?, ?, ?)`,
		uuid.NewString(), ownerID, originalText, aiOutput, userOutput)
	if err != nil {
		return fmt.Errorf("store: insert correction: %w", err)
	}
	return nil
}

// RecentCorrections returns up to limit corrections, most recent first.
func (d *DB) RecentCorrections(ctx context.Context, ownerID string, limit int) ([]model.CorrectionExample, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT original_text, ai_output, user_output
		 FROM ai_corrections
		 WHERE owner_id = ?
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("store: query corrections: %w", err)
	}
	defer rows.Close()

	var corrections []model.CorrectionExample
	for rows.Next() {
		var c model.CorrectionExample
		if err := rows.Scan(&c.OriginalText, &c.AIOutput, &c.UserOutput); err != nil {
			return nil, fmt.Errorf("store: scan correction: %w", err)
		}
		corrections = append(corrections, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate corrections: %w", err)
	}
	return corrections, nil
}
