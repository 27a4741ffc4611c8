package store

import (
	"database/sql"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/agentcortex/agentmemory/internal/logging"
	_ "github.com/mattn/go-sqlite3"
)

var log = logging.GetLogger("store")

// Store is the durable backing store for all three memory kinds. It
// wraps a single *sql.DB with a RWMutex: SQLite only tolerates one
// writer, so every write path takes the write lock while reads take
// the read lock. GetEpisodicByID is the one read that also writes (it
// bumps retrieval_count), so it takes the write lock too.
type Store struct {
	db   *sql.DB
	path string
	mu   sync.RWMutex
}

// Open opens (creating if necessary) the SQLite database at path and
// initializes its schema.
func Open(path string) (*Store, error) {
	log.Info("opening store", "path", path)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Error("failed to create database directory", "error", err, "dir", dir)
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dsn := fmt.Sprintf("%s?_foreign_keys=on&_journal_mode=WAL", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		log.Error("failed to open database", "error", err)
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		db.Close()
		log.Error("failed to ping database", "error", err)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{db: db, path: path}

	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	log.Info("store ready", "path", path)
	return s, nil
}

func (s *Store) initSchema() error {
	log.Info("initializing schema", "version", SchemaVersion)

	s.mu.Lock()
	defer s.mu.Unlock()

	var version int
	err := s.db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&version)
	if err == nil && version >= SchemaVersion {
		log.Debug("schema already current", "version", version)
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin schema transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(CoreSchema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	if _, err := tx.Exec(`INSERT OR REPLACE INTO schema_version (version, applied_at) VALUES (?, CURRENT_TIMESTAMP)`, SchemaVersion); err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schema: %w", err)
	}

	log.Info("schema initialized", "version", SchemaVersion)
	return nil
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Checkpoint forces a WAL checkpoint, truncating the WAL file.
func (s *Store) Checkpoint() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
	return err
}

// Backup copies the database to destPath after checkpointing the WAL
// so the copy reflects all committed writes.
func (s *Store) Backup(destPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return fmt.Errorf("failed to checkpoint before backup: %w", err)
	}

	src, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("failed to open source database: %w", err)
	}
	defer src.Close()

	if dir := filepath.Dir(destPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create backup directory: %w", err)
		}
	}

	dst, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create backup file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to copy database: %w", err)
	}

	log.Info("backup written", "dest", destPath)
	return nil
}

// MostRetrieved identifies the single episodic memory with the highest
// retrieval_count.
type MostRetrieved struct {
	ID          int64
	Description string
	Count       int
}

// Stats summarizes row counts, file size, and episodic aggregates for
// the stats operation.
type Stats struct {
	Path            string
	SchemaVersion   int
	EpisodicCount   int
	SemanticCount   int
	ProceduralCount int
	TotalCount      int
	FileSizeBytes   int64
	FileSizeMB      float64
	OldestEpisodic  string
	NewestEpisodic  string
	AvgImportance   float64
	MostRetrieved   *MostRetrieved
}

// GetStats returns aggregate counts and derived statistics across all
// three tables, mirroring the fields the original memory database's
// get_statistics reported.
func (s *Store) GetStats() (*Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &Stats{Path: s.path}

	s.db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&stats.SchemaVersion)
	s.db.QueryRow(`SELECT COUNT(*) FROM episodic_memories`).Scan(&stats.EpisodicCount)
	s.db.QueryRow(`SELECT COUNT(*) FROM semantic_memories`).Scan(&stats.SemanticCount)
	s.db.QueryRow(`SELECT COUNT(*) FROM procedural_memories`).Scan(&stats.ProceduralCount)
	stats.TotalCount = stats.EpisodicCount + stats.SemanticCount + stats.ProceduralCount

	if info, err := os.Stat(s.path); err == nil {
		stats.FileSizeBytes = info.Size()
		stats.FileSizeMB = math.Round(float64(info.Size())/(1024*1024)*100) / 100
	}

	var oldest, newest sql.NullString
	s.db.QueryRow(`SELECT MIN(timestamp), MAX(timestamp) FROM episodic_memories`).Scan(&oldest, &newest)
	stats.OldestEpisodic = oldest.String
	stats.NewestEpisodic = newest.String

	var avgImportance sql.NullFloat64
	s.db.QueryRow(`SELECT AVG(importance_score) FROM episodic_memories`).Scan(&avgImportance)
	if avgImportance.Valid {
		stats.AvgImportance = math.Round(avgImportance.Float64*100) / 100
	}

	var mostRetrieved MostRetrieved
	err := s.db.QueryRow(`
		SELECT id, event_description, retrieval_count FROM episodic_memories
		ORDER BY retrieval_count DESC LIMIT 1
	`).Scan(&mostRetrieved.ID, &mostRetrieved.Description, &mostRetrieved.Count)
	if err == nil {
		stats.MostRetrieved = &mostRetrieved
	} else if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to read most-retrieved episodic memory: %w", err)
	}

	return stats, nil
}
