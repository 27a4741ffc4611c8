package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/agentcortex/agentmemory/internal/model"
	"github.com/agentcortex/agentmemory/internal/textutil"
)

const semanticColumns = `
	id, concept_name, definition, properties, relationships,
	confidence_score, source, evidence, tags, categories,
	linked_episodes, created_at, updated_at
`

// CreateSemantic inserts a new semantic memory and assigns its ID.
func (s *Store) CreateSemantic(m *model.Semantic) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	m.CreatedAt = now
	m.UpdatedAt = now

	res, err := s.db.Exec(`
		INSERT INTO semantic_memories (
			concept_name, definition, properties, relationships,
			confidence_score, source, evidence, tags, categories,
			linked_episodes, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		m.ConceptName, m.Definition, nullRaw(m.Properties), nullRaw(m.Relationships),
		m.ConfidenceScore, nullString(m.Source), nullString(m.Evidence), marshalSet(m.Tags), marshalSet(m.Categories),
		marshalIntSet(m.LinkedEpisodes), textutil.FormatISO8601(m.CreatedAt), textutil.FormatISO8601(m.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("concept %q already exists: %w", m.ConceptName, ErrUniqueViolation)
		}
		return fmt.Errorf("failed to create semantic memory: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read inserted id: %w", err)
	}
	m.ID = id
	return nil
}

func scanSemantic(scan func(...interface{}) error) (*model.Semantic, error) {
	var m model.Semantic
	var properties, relationships, source, evidence sql.NullString
	var tags, categories, linkedEpisodes, createdAt, updatedAt string

	err := scan(
		&m.ID, &m.ConceptName, &m.Definition, &properties, &relationships,
		&m.ConfidenceScore, &source, &evidence, &tags, &categories,
		&linkedEpisodes, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if properties.Valid {
		_ = m.Properties.UnmarshalJSON([]byte(properties.String))
	}
	if relationships.Valid {
		_ = m.Relationships.UnmarshalJSON([]byte(relationships.String))
	}
	m.Source = source.String
	m.Evidence = evidence.String
	m.Tags = unmarshalSet(tags)
	m.Categories = unmarshalSet(categories)
	m.LinkedEpisodes = unmarshalIntSet(linkedEpisodes)
	if t, perr := textutil.ParseISO8601(createdAt); perr == nil {
		m.CreatedAt = t
	}
	if t, perr := textutil.ParseISO8601(updatedAt); perr == nil {
		m.UpdatedAt = t
	}

	return &m, nil
}

func scanSemanticRows(rows *sql.Rows) ([]*model.Semantic, error) {
	var results []*model.Semantic
	for rows.Next() {
		m, err := scanSemantic(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan semantic memory: %w", err)
		}
		results = append(results, m)
	}
	return results, rows.Err()
}

// GetSemanticByID returns the semantic memory with the given id.
func (s *Store) GetSemanticByID(id int64) (*model.Semantic, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`SELECT `+semanticColumns+` FROM semantic_memories WHERE id = ?`, id)
	m, err := scanSemantic(row.Scan)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get semantic memory: %w", err)
	}
	return m, true, nil
}

// GetSemanticByName returns the semantic memory with the given
// concept_name, which is unique.
func (s *Store) GetSemanticByName(name string) (*model.Semantic, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`SELECT `+semanticColumns+` FROM semantic_memories WHERE concept_name = ?`, name)
	m, err := scanSemantic(row.Scan)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get semantic memory: %w", err)
	}
	return m, true, nil
}

// ListSemantic returns all semantic memories ordered by concept_name.
func (s *Store) ListSemantic(limit int) ([]*model.Semantic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT ` + semanticColumns + ` FROM semantic_memories ORDER BY concept_name ASC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list semantic memories: %w", err)
	}
	defer rows.Close()

	return scanSemanticRows(rows)
}

// SearchSemantic performs a case-insensitive LIKE substring search over
// concept_name, definition, and evidence.
func (s *Store) SearchSemantic(query string, limit int) ([]*model.Semantic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pattern := "%" + query + "%"
	q := `SELECT ` + semanticColumns + ` FROM semantic_memories
		WHERE concept_name LIKE ? OR definition LIKE ? OR evidence LIKE ?
		ORDER BY concept_name ASC`
	args := []interface{}{pattern, pattern, pattern}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search semantic memories: %w", err)
	}
	defer rows.Close()

	return scanSemanticRows(rows)
}

// UpdateSemantic applies a full replace of the mutable fields on m,
// keyed by m.ID.
func (s *Store) UpdateSemantic(m *model.Semantic) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m.UpdatedAt = time.Now()

	res, err := s.db.Exec(`
		UPDATE semantic_memories SET
			concept_name = ?, definition = ?, properties = ?, relationships = ?,
			confidence_score = ?, source = ?, evidence = ?, tags = ?, categories = ?,
			linked_episodes = ?, updated_at = ?
		WHERE id = ?
	`,
		m.ConceptName, m.Definition, nullRaw(m.Properties), nullRaw(m.Relationships),
		m.ConfidenceScore, nullString(m.Source), nullString(m.Evidence), marshalSet(m.Tags), marshalSet(m.Categories),
		marshalIntSet(m.LinkedEpisodes), textutil.FormatISO8601(m.UpdatedAt),
		m.ID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update semantic memory: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n > 0, nil
}

// DeleteSemantic removes the semantic memory with the given id.
func (s *Store) DeleteSemantic(id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`DELETE FROM semantic_memories WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete semantic memory: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n > 0, nil
}
