// Package progress persists lesson progress across sessions in a SQLite
// database under the user's state directory.
package progress

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"gitcoach/internal/logging"
)

// Store manages the progress database.
type Store struct {
	db     *sql.DB
	dbPath string
	mu     sync.Mutex
}

// Session is one tutoring session.
type Session struct {
	ID        string
	Lesson    string
	StartedAt time.Time
	EndedAt   *time.Time
}

// StepResult is the latest recorded state of one lesson step.
type StepResult struct {
	Lesson    string
	StepIndex int
	Passed    bool
	Attempts  int
	UpdatedAt time.Time
}

// LessonSummary aggregates a learner's standing in one lesson.
type LessonSummary struct {
	Lesson      string
	StepsPassed int
	StepsSeen   int
}

// NewStore creates or opens the progress store at dbPath.
func NewStore(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db, dbPath: dbPath}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logging.Store("Opened progress store at %s", dbPath)
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		lesson TEXT NOT NULL,
		started_at DATETIME NOT NULL,
		ended_at DATETIME
	);
	CREATE INDEX IF NOT EXISTS idx_sessions_lesson ON sessions(lesson);

	CREATE TABLE IF NOT EXISTS step_results (
		lesson TEXT NOT NULL,
		step_index INTEGER NOT NULL,
		passed INTEGER NOT NULL DEFAULT 0,
		attempts INTEGER NOT NULL DEFAULT 0,
		updated_at DATETIME NOT NULL,
		PRIMARY KEY (lesson, step_index)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// StartSession records the beginning of a lesson session and returns it.
func (s *Store) StartSession(lesson string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := &Session{
		ID:        uuid.NewString(),
		Lesson:    lesson,
		StartedAt: time.Now().UTC(),
	}
	_, err := s.db.Exec(
		`INSERT INTO sessions (id, lesson, started_at) VALUES (?, ?, ?)`,
		sess.ID, sess.Lesson, sess.StartedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	logging.StoreDebug("Started session %s for lesson %q", sess.ID, lesson)
	return sess, nil
}

// EndSession stamps a session's end time.
func (s *Store) EndSession(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`UPDATE sessions SET ended_at = ? WHERE id = ?`, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	return nil
}

// RecordStep upserts the result of one step attempt. Attempts accumulate
// across sessions; a step once passed stays passed.
func (s *Store) RecordStep(lesson string, stepIndex int, passed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO step_results (lesson, step_index, passed, attempts, updated_at)
		VALUES (?, ?, ?, 1, ?)
		ON CONFLICT(lesson, step_index) DO UPDATE SET
			passed = MAX(step_results.passed, excluded.passed),
			attempts = step_results.attempts + 1,
			updated_at = excluded.updated_at`,
		lesson, stepIndex, boolToInt(passed), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("record step: %w", err)
	}
	logging.StoreDebug("Recorded %s step %d passed=%v", lesson, stepIndex, passed)
	return nil
}

// StepResults returns the recorded steps of a lesson in step order.
func (s *Store) StepResults(lesson string) ([]StepResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`
		SELECT lesson, step_index, passed, attempts, updated_at
		FROM step_results WHERE lesson = ? ORDER BY step_index`,
		lesson,
	)
	if err != nil {
		return nil, fmt.Errorf("query step results: %w", err)
	}
	defer rows.Close()

	var results []StepResult
	for rows.Next() {
		var r StepResult
		var passed int
		if err := rows.Scan(&r.Lesson, &r.StepIndex, &passed, &r.Attempts, &r.UpdatedAt); err != nil {
			return nil, err
		}
		r.Passed = passed != 0
		results = append(results, r)
	}
	return results, rows.Err()
}

// Summaries returns per-lesson progress for every lesson with recorded
// steps, ordered by lesson name.
func (s *Store) Summaries() ([]LessonSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`
		SELECT lesson, SUM(passed), COUNT(*)
		FROM step_results GROUP BY lesson ORDER BY lesson`)
	if err != nil {
		return nil, fmt.Errorf("query summaries: %w", err)
	}
	defer rows.Close()

	var out []LessonSummary
	for rows.Next() {
		var sum LessonSummary
		if err := rows.Scan(&sum.Lesson, &sum.StepsPassed, &sum.StepsSeen); err != nil {
			return nil, err
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Reset wipes recorded progress for one lesson.
func (s *Store) Reset(lesson string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(`DELETE FROM step_results WHERE lesson = ?`, lesson); err != nil {
		return fmt.Errorf("reset lesson: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
