// Package storage provides SQLite-based persistence for match-3 runs.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// sqliteTime is the layout CURRENT_TIMESTAMP produces.
const sqliteTime = "2006-01-02 15:04:05"

// Store manages the SQLite database connection for score persistence.
type Store struct {
	db *sql.DB
}

// Run is one finished game.
type Run struct {
	Mode      string
	Score     int // total points across every level of the run
	Level     int // highest level reached
	Moves     int // accepted swaps and detonations
	BestChain int // longest cascade, in resolve passes
}

// ScoreEntry represents a single stored run.
type ScoreEntry struct {
	ID        int64
	Run
	CreatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			mode TEXT NOT NULL,
			score INTEGER NOT NULL,
			level INTEGER NOT NULL DEFAULT 1,
			moves INTEGER NOT NULL DEFAULT 0,
			best_chain INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_mode ON runs(mode);
		CREATE INDEX IF NOT EXISTS idx_runs_top ON runs(mode, score DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveScore records a bare score for the given mode.
func (s *Store) SaveScore(mode string, score int) (int64, error) {
	return s.SaveRun(Run{Mode: mode, Score: score, Level: 1})
}

// SaveRun records a finished run and returns the ID of the inserted record.
func (s *Store) SaveRun(r Run) (int64, error) {
	if r.Mode == "" {
		return 0, errors.New("storage: run has no mode")
	}
	if r.Level < 1 {
		r.Level = 1
	}

	result, err := s.db.Exec(
		"INSERT INTO runs (mode, score, level, moves, best_chain) VALUES (?, ?, ?, ?, ?)",
		r.Mode, r.Score, r.Level, r.Moves, r.BestChain,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// TopScores retrieves the top N runs for the given mode.
// Results are ordered by score descending; ties go to the earlier run.
func (s *Store) TopScores(mode string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, mode, score, level, moves, best_chain, created_at
		 FROM runs
		 WHERE mode = ?
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		mode, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.Mode, &e.Score, &e.Level, &e.Moves, &e.BestChain, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// HighScore returns the highest score for the given mode.
// Returns 0 if no runs exist.
func (s *Store) HighScore(mode string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM runs WHERE mode = ?",
		mode,
	).Scan(&score)

	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return int(score.Int64), nil
}

// ClearScores deletes all runs for the given mode.
func (s *Store) ClearScores(mode string) error {
	_, err := s.db.Exec("DELETE FROM runs WHERE mode = ?", mode)
	if err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}

// ModeStats contains aggregated statistics for a mode.
type ModeStats struct {
	Mode       string
	Runs       int
	HighScore  int
	AvgScore   float64
	BestLevel  int
	BestChain  int
	TotalMoves int64
	LastPlayed time.Time
}

// GetModeStats retrieves aggregated statistics for a specific mode.
func (s *Store) GetModeStats(mode string) (*ModeStats, error) {
	stats := &ModeStats{Mode: mode}
	var lastPlayed any

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0),
		        COALESCE(MAX(level), 0), COALESCE(MAX(best_chain), 0),
		        COALESCE(SUM(moves), 0), MAX(created_at)
		 FROM runs WHERE mode = ?`,
		mode,
	).Scan(&stats.Runs, &stats.HighScore, &stats.AvgScore,
		&stats.BestLevel, &stats.BestChain, &stats.TotalMoves, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get mode stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)

	return stats, nil
}

// GetAllModeStats retrieves statistics for every mode that has been played.
func (s *Store) GetAllModeStats() (map[string]*ModeStats, error) {
	rows, err := s.db.Query(
		`SELECT mode, COUNT(*), MAX(score), AVG(score), MAX(level), MAX(best_chain), SUM(moves), MAX(created_at)
		 FROM runs
		 GROUP BY mode`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all mode stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*ModeStats)
	for rows.Next() {
		var m ModeStats
		var lastPlayed any
		if err := rows.Scan(&m.Mode, &m.Runs, &m.HighScore, &m.AvgScore,
			&m.BestLevel, &m.BestChain, &m.TotalMoves, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		m.LastPlayed = parseTime(lastPlayed)
		stats[m.Mode] = &m
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// parseTime handles the driver returning either time.Time or text.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(sqliteTime, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
