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

const proceduralColumns = `
	id, procedure_name, description, purpose, steps, parameters,
	success_rate, execution_count, average_duration_seconds,
	prerequisites, dependencies, tags, categories, last_executed,
	created_at, updated_at
`

func marshalSteps(steps []string) string {
	if steps == nil {
		steps = []string{}
	}
	b, _ := json.Marshal(steps)
	return string(b)
}

func unmarshalSteps(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil
	}
	return out
}

// CreateProcedural inserts a new procedural memory and assigns its ID.
func (s *Store) CreateProcedural(m *model.Procedural) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	m.CreatedAt = now
	m.UpdatedAt = now

	res, err := s.db.Exec(`
		INSERT INTO procedural_memories (
			procedure_name, description, purpose, steps, parameters,
			success_rate, execution_count, average_duration_seconds,
			prerequisites, dependencies, tags, categories, last_executed,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		m.ProcedureName, m.Description, nullString(m.Purpose), marshalSteps(m.Steps), nullRaw(m.Parameters),
		m.SuccessRate, m.ExecutionCount, nullFloat(m.AverageDurationSeconds),
		marshalSet(m.Prerequisites), nullString(m.Dependencies), marshalSet(m.Tags), marshalSet(m.Categories), nullTime(m.LastExecuted),
		textutil.FormatISO8601(m.CreatedAt), textutil.FormatISO8601(m.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("procedure %q already exists: %w", m.ProcedureName, ErrUniqueViolation)
		}
		return fmt.Errorf("failed to create procedural memory: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read inserted id: %w", err)
	}
	m.ID = id
	return nil
}

func scanProcedural(scan func(...interface{}) error) (*model.Procedural, error) {
	var m model.Procedural
	var purpose, dependencies sql.NullString
	var steps, prerequisites, tags, categories, createdAt, updatedAt string
	var parameters sql.NullString
	var averageDuration sql.NullFloat64
	var lastExecuted sql.NullString

	err := scan(
		&m.ID, &m.ProcedureName, &m.Description, &purpose, &steps, &parameters,
		&m.SuccessRate, &m.ExecutionCount, &averageDuration,
		&prerequisites, &dependencies, &tags, &categories, &lastExecuted,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	m.Purpose = purpose.String
	m.Steps = unmarshalSteps(steps)
	if parameters.Valid {
		_ = m.Parameters.UnmarshalJSON([]byte(parameters.String))
	}
	if averageDuration.Valid {
		v := averageDuration.Float64
		m.AverageDurationSeconds = &v
	}
	m.Prerequisites = unmarshalSet(prerequisites)
	m.Dependencies = dependencies.String
	m.Tags = unmarshalSet(tags)
	m.Categories = unmarshalSet(categories)
	if lastExecuted.Valid {
		if t, perr := textutil.ParseISO8601(lastExecuted.String); perr == nil {
			m.LastExecuted = &t
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

func scanProceduralRows(rows *sql.Rows) ([]*model.Procedural, error) {
	var results []*model.Procedural
	for rows.Next() {
		m, err := scanProcedural(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan procedural memory: %w", err)
		}
		results = append(results, m)
	}
	return results, rows.Err()
}

// GetProceduralByID returns the procedural memory with the given id.
func (s *Store) GetProceduralByID(id int64) (*model.Procedural, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`SELECT `+proceduralColumns+` FROM procedural_memories WHERE id = ?`, id)
	m, err := scanProcedural(row.Scan)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get procedural memory: %w", err)
	}
	return m, true, nil
}

// GetProceduralByName returns the procedural memory with the given
// procedure_name, which is unique.
func (s *Store) GetProceduralByName(name string) (*model.Procedural, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`SELECT `+proceduralColumns+` FROM procedural_memories WHERE procedure_name = ?`, name)
	m, err := scanProcedural(row.Scan)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get procedural memory: %w", err)
	}
	return m, true, nil
}

// ListProcedural returns all procedural memories ordered by procedure_name.
func (s *Store) ListProcedural(limit int) ([]*model.Procedural, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT ` + proceduralColumns + ` FROM procedural_memories ORDER BY procedure_name ASC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list procedural memories: %w", err)
	}
	defer rows.Close()

	return scanProceduralRows(rows)
}

// SearchProcedural performs a case-insensitive LIKE substring search
// over procedure_name, description, and purpose.
func (s *Store) SearchProcedural(query string, limit int) ([]*model.Procedural, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pattern := "%" + query + "%"
	q := `SELECT ` + proceduralColumns + ` FROM procedural_memories
		WHERE procedure_name LIKE ? OR description LIKE ? OR purpose LIKE ?
		ORDER BY procedure_name ASC`
	args := []interface{}{pattern, pattern, pattern}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search procedural memories: %w", err)
	}
	defer rows.Close()

	return scanProceduralRows(rows)
}

// UpdateProcedural applies a full replace of the mutable fields on m,
// keyed by m.ID.
func (s *Store) UpdateProcedural(m *model.Procedural) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m.UpdatedAt = time.Now()

	res, err := s.db.Exec(`
		UPDATE procedural_memories SET
			procedure_name = ?, description = ?, purpose = ?, steps = ?, parameters = ?,
			success_rate = ?, execution_count = ?, average_duration_seconds = ?,
			prerequisites = ?, dependencies = ?, tags = ?, categories = ?, last_executed = ?,
			updated_at = ?
		WHERE id = ?
	`,
		m.ProcedureName, m.Description, nullString(m.Purpose), marshalSteps(m.Steps), nullRaw(m.Parameters),
		m.SuccessRate, m.ExecutionCount, nullFloat(m.AverageDurationSeconds),
		marshalSet(m.Prerequisites), nullString(m.Dependencies), marshalSet(m.Tags), marshalSet(m.Categories), nullTime(m.LastExecuted),
		textutil.FormatISO8601(m.UpdatedAt),
		m.ID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update procedural memory: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n > 0, nil
}

// DeleteProcedural removes the procedural memory with the given id.
func (s *Store) DeleteProcedural(id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`DELETE FROM procedural_memories WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete procedural memory: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n > 0, nil
}
