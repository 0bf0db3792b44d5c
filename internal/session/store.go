package session

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/beatgen/studio/internal/edit"
)

// Store persists sessions in a SQLite database.
type Store struct {
	db *sql.DB
}

const schema = `
	CREATE TABLE IF NOT EXISTS sessions (
		name TEXT PRIMARY KEY,
		genre TEXT NOT NULL,
		key_sig TEXT NOT NULL,
		bpm INTEGER NOT NULL,
		seed INTEGER,
		variety REAL NOT NULL,
		density REAL NOT NULL,
		weirdness REAL NOT NULL,
		duration INTEGER,
		preset TEXT,
		samplesDir TEXT NOT NULL,
		selections TEXT NOT NULL DEFAULT '{}',
		prompts TEXT NOT NULL DEFAULT '{}',
		mixVolumes TEXT NOT NULL DEFAULT '{}',
		arrangement TEXT,
		createdAt REAL NOT NULL,
		updatedAt REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sample_edits (
		sessionName TEXT NOT NULL REFERENCES sessions(name) ON DELETE CASCADE,
		instrument TEXT NOT NULL,
		params TEXT NOT NULL,
		PRIMARY KEY (sessionName, instrument)
	);
`

// Open opens (or creates) the session database with WAL journaling.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// List returns all session names, sorted.
func (s *Store) List() ([]string, error) {
	rows, err := s.db.Query(`SELECT name FROM sessions ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan session name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Load reads a session by name, nil when it doesn't exist.
func (s *Store) Load(name string) (*Session, error) {
	row := s.db.QueryRow(`
		SELECT name, genre, key_sig, bpm, seed, variety, density, weirdness,
		       duration, preset, samplesDir, selections, prompts, mixVolumes,
		       arrangement, createdAt, updatedAt
		FROM sessions
		WHERE name = ?
	`, name)

	var sess Session
	var seed sql.NullInt64
	var duration sql.NullInt64
	var preset, arrangement sql.NullString
	var selections, prompts, mixVolumes string
	var createdAt, updatedAt float64

	if err := row.Scan(&sess.Name, &sess.Genre, &sess.Key, &sess.BPM, &seed,
		&sess.Variety, &sess.Density, &sess.Weirdness, &duration, &preset,
		&sess.SamplesDir, &selections, &prompts, &mixVolumes, &arrangement,
		&createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan session: %w", err)
	}

	if seed.Valid {
		sess.Seed = &seed.Int64
	}
	if duration.Valid {
		d := int(duration.Int64)
		sess.Duration = &d
	}
	if preset.Valid {
		sess.Preset = preset.String
	}
	if arrangement.Valid && arrangement.String != "" {
		sess.Arrangement = json.RawMessage(arrangement.String)
	}
	if err := json.Unmarshal([]byte(selections), &sess.Selections); err != nil {
		return nil, fmt.Errorf("unmarshal selections: %w", err)
	}
	if err := json.Unmarshal([]byte(prompts), &sess.Prompts); err != nil {
		return nil, fmt.Errorf("unmarshal prompts: %w", err)
	}
	if err := json.Unmarshal([]byte(mixVolumes), &sess.MixVolumes); err != nil {
		return nil, fmt.Errorf("unmarshal mix volumes: %w", err)
	}
	sess.CreatedAt = timeFromUnix(createdAt)
	sess.UpdatedAt = timeFromUnix(updatedAt)

	if err := s.loadEdits(&sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *Store) loadEdits(sess *Session) error {
	rows, err := s.db.Query(`
		SELECT instrument, params FROM sample_edits WHERE sessionName = ?
	`, sess.Name)
	if err != nil {
		return fmt.Errorf("query edits: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var instrument, params string
		if err := rows.Scan(&instrument, &params); err != nil {
			return fmt.Errorf("scan edit record: %w", err)
		}
		var m edit.Model
		if err := json.Unmarshal([]byte(params), &m); err != nil {
			return fmt.Errorf("unmarshal edits for %s: %w", instrument, err)
		}
		sess.SetEdits(instrument, m)
	}
	return rows.Err()
}

// Save upserts the session and rewrites its edit records. Default edit
// models are never written: their rows are simply absent.
func (s *Store) Save(sess *Session) error {
	sess.UpdatedAt = time.Now()
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = sess.UpdatedAt
	}

	selections, err := json.Marshal(orEmpty(sess.Selections))
	if err != nil {
		return fmt.Errorf("marshal selections: %w", err)
	}
	prompts, err := json.Marshal(orEmpty(sess.Prompts))
	if err != nil {
		return fmt.Errorf("marshal prompts: %w", err)
	}
	mixVolumes, err := json.Marshal(orEmptyF(sess.MixVolumes))
	if err != nil {
		return fmt.Errorf("marshal mix volumes: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO sessions (name, genre, key_sig, bpm, seed, variety, density,
			weirdness, duration, preset, samplesDir, selections, prompts,
			mixVolumes, arrangement, createdAt, updatedAt)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			genre=excluded.genre, key_sig=excluded.key_sig, bpm=excluded.bpm,
			seed=excluded.seed, variety=excluded.variety, density=excluded.density,
			weirdness=excluded.weirdness, duration=excluded.duration,
			preset=excluded.preset, samplesDir=excluded.samplesDir,
			selections=excluded.selections, prompts=excluded.prompts,
			mixVolumes=excluded.mixVolumes, arrangement=excluded.arrangement,
			updatedAt=excluded.updatedAt
	`, sess.Name, sess.Genre, sess.Key, sess.BPM, nullInt64(sess.Seed),
		sess.Variety, sess.Density, sess.Weirdness, nullInt(sess.Duration),
		nullString(sess.Preset), sess.SamplesDir, string(selections),
		string(prompts), string(mixVolumes), nullString(string(sess.Arrangement)),
		timeToUnix(sess.CreatedAt), timeToUnix(sess.UpdatedAt))
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM sample_edits WHERE sessionName = ?`, sess.Name); err != nil {
		return fmt.Errorf("clear edits: %w", err)
	}
	for instrument, m := range sess.edits {
		params, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("marshal edits for %s: %w", instrument, err)
		}
		if _, err := tx.Exec(`
			INSERT INTO sample_edits (sessionName, instrument, params) VALUES (?, ?, ?)
		`, sess.Name, instrument, string(params)); err != nil {
			return fmt.Errorf("insert edits for %s: %w", instrument, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Delete removes a session and its edit records. Deleting a session that
// doesn't exist is not an error.
func (s *Store) Delete(name string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM sample_edits WHERE sessionName = ?`, name); err != nil {
		return fmt.Errorf("delete edits: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM sessions WHERE name = ?`, name); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return tx.Commit()
}

func nullInt64(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullString(v string) any {
	if v == "" {
		return nil
	}
	return v
}

func orEmpty(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}

func orEmptyF(m map[string]float64) map[string]float64 {
	if m == nil {
		return map[string]float64{}
	}
	return m
}

func timeFromUnix(ts float64) time.Time {
	sec := int64(ts)
	nsec := int64((ts - float64(sec)) * 1e9)
	return time.Unix(sec, nsec)
}

func timeToUnix(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}
