package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/agentcortex/agentmemory/internal/model"
	"github.com/agentcortex/agentmemory/internal/textutil"
)

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: textutil.FormatISO8601(*t), Valid: true}
}

func marshalSet(s model.StringSet) string {
	if s == nil {
		s = model.StringSet{}
	}
	b, _ := json.Marshal([]string(s))
	return string(b)
}

func unmarshalSet(s string) model.StringSet {
	if s == "" {
		return model.StringSet{}
	}
	var out model.StringSet
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return model.StringSet{}
	}
	return out
}

func marshalIntSet(s model.IntSet) string {
	if s == nil {
		s = model.IntSet{}
	}
	b, _ := json.Marshal([]int64(s))
	return string(b)
}

func unmarshalIntSet(s string) model.IntSet {
	if s == "" {
		return model.IntSet{}
	}
	var out model.IntSet
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return model.IntSet{}
	}
	return out
}

// CreateEpisodic inserts a new episodic memory and assigns its ID.
func (s *Store) CreateEpisodic(m *model.Episodic) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	m.CreatedAt = now
	m.UpdatedAt = now

	res, err := s.db.Exec(`
		INSERT INTO episodic_memories (
			timestamp, duration_seconds, event_description, context,
			participants, location, sensory_data, observations,
			importance_score, emotional_valence, tags, categories,
			associated_concepts, retrieval_count, last_accessed,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		textutil.FormatISO8601(m.Timestamp), nullFloat(m.DurationSeconds), m.EventDescription, nullString(m.Context),
		marshalSet(m.Participants), nullString(m.Location), nullRaw(m.SensoryData), nullString(m.Observations),
		m.ImportanceScore, m.EmotionalValence, marshalSet(m.Tags), marshalSet(m.Categories),
		marshalSet(m.AssociatedConcepts), m.RetrievalCount, nullTime(m.LastAccessed),
		textutil.FormatISO8601(m.CreatedAt), textutil.FormatISO8601(m.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create episodic memory: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read inserted id: %w", err)
	}
	m.ID = id
	return nil
}

func nullRaw(v model.JSONValue) sql.NullString {
	if v.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: string(v.Raw()), Valid: true}
}

func scanEpisodic(scan func(...interface{}) error) (*model.Episodic, error) {
	var m model.Episodic
	var timestamp, createdAt, updatedAt string
	var context, location, sensoryData, observations sql.NullString
	var participants, tags, categories, associatedConcepts string
	var durationSeconds sql.NullFloat64
	var lastAccessed sql.NullString

	err := scan(
		&m.ID, &timestamp, &durationSeconds, &m.EventDescription, &context,
		&participants, &location, &sensoryData, &observations,
		&m.ImportanceScore, &m.EmotionalValence, &tags, &categories,
		&associatedConcepts, &m.RetrievalCount, &lastAccessed,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if ts, perr := textutil.ParseISO8601(timestamp); perr == nil {
		m.Timestamp = ts
	}
	if durationSeconds.Valid {
		v := durationSeconds.Float64
		m.DurationSeconds = &v
	}
	m.Context = context.String
	m.Participants = unmarshalSet(participants)
	m.Location = location.String
	if sensoryData.Valid {
		_ = m.SensoryData.UnmarshalJSON([]byte(sensoryData.String))
	}
	m.Observations = observations.String
	m.Tags = unmarshalSet(tags)
	m.Categories = unmarshalSet(categories)
	m.AssociatedConcepts = unmarshalSet(associatedConcepts)
	if lastAccessed.Valid {
		if t, perr := textutil.ParseISO8601(lastAccessed.String); perr == nil {
			m.LastAccessed = &t
		}
	}
	if t, perr := textutil.ParseISO8601(createdAt); perr == nil {
		m.CreatedAt = t
	}
	if t, perr := textutil.ParseISO8601(updatedAt); perr == nil {
		m.UpdatedAt = t
	}

	return &m, nil
}

const episodicColumns = `
	id, timestamp, duration_seconds, event_description, context,
	participants, location, sensory_data, observations,
	importance_score, emotional_valence, tags, categories,
	associated_concepts, retrieval_count, last_accessed,
	created_at, updated_at
`

// GetEpisodicByID returns the episodic memory with the given id. This
// is the one read path that mutates state: it bumps retrieval_count
// and sets last_accessed, so it takes the write lock rather than the
// read lock other list/search paths use.
func (s *Store) GetEpisodicByID(id int64) (*model.Episodic, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRow(`SELECT `+episodicColumns+` FROM episodic_memories WHERE id = ?`, id)
	m, err := scanEpisodic(row.Scan)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get episodic memory: %w", err)
	}

	now := time.Now()
	if _, err := s.db.Exec(`
		UPDATE episodic_memories SET retrieval_count = retrieval_count + 1, last_accessed = ?
		WHERE id = ?
	`, textutil.FormatISO8601(now), id); err != nil {
		return nil, false, fmt.Errorf("failed to record retrieval: %w", err)
	}
	m.RetrievalCount++
	m.LastAccessed = &now

	return m, true, nil
}

// peekEpisodicByID reads an episodic memory without incrementing its
// retrieval counter and without taking the store lock. Only the
// package's tests call it.
func (s *Store) peekEpisodicByID(id int64) (*model.Episodic, bool, error) {
	row := s.db.QueryRow(`SELECT `+episodicColumns+` FROM episodic_memories WHERE id = ?`, id)
	m, err := scanEpisodic(row.Scan)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get episodic memory: %w", err)
	}
	return m, true, nil
}

// ListEpisodic returns all episodic memories ordered by timestamp
// descending, without touching retrieval counters.
func (s *Store) ListEpisodic(limit int) ([]*model.Episodic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT ` + episodicColumns + ` FROM episodic_memories ORDER BY timestamp DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list episodic memories: %w", err)
	}
	defer rows.Close()

	return scanEpisodicRows(rows)
}

func scanEpisodicRows(rows *sql.Rows) ([]*model.Episodic, error) {
	var results []*model.Episodic
	for rows.Next() {
		m, err := scanEpisodic(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan episodic memory: %w", err)
		}
		results = append(results, m)
	}
	return results, rows.Err()
}

// SearchEpisodic performs a case-insensitive LIKE substring search over
// event_description, context, and observations.
func (s *Store) SearchEpisodic(query string, limit int) ([]*model.Episodic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pattern := "%" + query + "%"
	q := `SELECT ` + episodicColumns + ` FROM episodic_memories
		WHERE event_description LIKE ? OR context LIKE ? OR observations LIKE ?
		ORDER BY timestamp DESC`
	args := []interface{}{pattern, pattern, pattern}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search episodic memories: %w", err)
	}
	defer rows.Close()

	return scanEpisodicRows(rows)
}

// EpisodicFilter constrains ListEpisodicFiltered to a structured subset
// of records. Zero-value fields are not applied as predicates.
type EpisodicFilter struct {
	StartTime       *time.Time
	EndTime         *time.Time
	MinImportance   *float64
	Tags            []string
	Categories      []string
	Limit           int
}

// ListEpisodicFiltered applies structured predicates (time range,
// minimum importance, tag/category membership) server-side.
func (s *Store) ListEpisodicFiltered(f EpisodicFilter) ([]*model.Episodic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var clauses []string
	var args []interface{}

	if f.StartTime != nil {
		clauses = append(clauses, "timestamp >= ?")
		args = append(args, textutil.FormatISO8601(*f.StartTime))
	}
	if f.EndTime != nil {
		clauses = append(clauses, "timestamp <= ?")
		args = append(args, textutil.FormatISO8601(*f.EndTime))
	}
	if f.MinImportance != nil {
		clauses = append(clauses, "importance_score >= ?")
		args = append(args, *f.MinImportance)
	}
	for _, tag := range f.Tags {
		clauses = append(clauses, "tags LIKE ?")
		args = append(args, "%\""+tag+"\"%")
	}
	for _, cat := range f.Categories {
		clauses = append(clauses, "categories LIKE ?")
		args = append(args, "%\""+cat+"\"%")
	}

	query := `SELECT ` + episodicColumns + ` FROM episodic_memories`
	if len(clauses) > 0 {
		query += ` WHERE ` + strings.Join(clauses, " AND ")
	}
	query += ` ORDER BY timestamp DESC`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to filter episodic memories: %w", err)
	}
	defer rows.Close()

	return scanEpisodicRows(rows)
}

// UpdateEpisodic applies a full replace of the mutable fields on m,
// keyed by m.ID. created_at is preserved; updated_at is refreshed.
func (s *Store) UpdateEpisodic(m *model.Episodic) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m.UpdatedAt = time.Now()

	res, err := s.db.Exec(`
		UPDATE episodic_memories SET
			timestamp = ?, duration_seconds = ?, event_description = ?, context = ?,
			participants = ?, location = ?, sensory_data = ?, observations = ?,
			importance_score = ?, emotional_valence = ?, tags = ?, categories = ?,
			associated_concepts = ?, retrieval_count = ?, last_accessed = ?, updated_at = ?
		WHERE id = ?
	`,
		textutil.FormatISO8601(m.Timestamp), nullFloat(m.DurationSeconds), m.EventDescription, nullString(m.Context),
		marshalSet(m.Participants), nullString(m.Location), nullRaw(m.SensoryData), nullString(m.Observations),
		m.ImportanceScore, m.EmotionalValence, marshalSet(m.Tags), marshalSet(m.Categories),
		marshalSet(m.AssociatedConcepts), m.RetrievalCount, nullTime(m.LastAccessed), textutil.FormatISO8601(m.UpdatedAt),
		m.ID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update episodic memory: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n > 0, nil
}

// DeleteEpisodic removes the episodic memory with the given id,
// reporting whether a row was actually deleted.
func (s *Store) DeleteEpisodic(id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`DELETE FROM episodic_memories WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete episodic memory: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n > 0, nil
}
