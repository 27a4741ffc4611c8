package store

import (
	"time"

	"github.com/agentcortex/agentmemory/internal/model"
	"github.com/agentcortex/agentmemory/internal/textutil"
)

// Snapshot is the JSON-serializable bundle produced by Export and
// consumed by Import. Statistics are informational only; Import
// ignores them.
type Snapshot struct {
	Episodic   []*model.Episodic   `json:"episodic"`
	Semantic   []*model.Semantic   `json:"semantic"`
	Procedural []*model.Procedural `json:"procedural"`
	Statistics *Stats              `json:"statistics"`
	ExportedAt string              `json:"export_timestamp"`
}

// Export reads every record of every kind into a single Snapshot.
func (s *Store) Export() (*Snapshot, error) {
	episodic, err := s.ListEpisodic(0)
	if err != nil {
		return nil, err
	}
	semantic, err := s.ListSemantic(0)
	if err != nil {
		return nil, err
	}
	procedural, err := s.ListProcedural(0)
	if err != nil {
		return nil, err
	}
	stats, err := s.GetStats()
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		Episodic:   episodic,
		Semantic:   semantic,
		Procedural: procedural,
		Statistics: stats,
		ExportedAt: textutil.FormatISO8601(time.Now()),
	}, nil
}

// ImportResult reports, per kind, how many records were inserted and
// any per-record errors encountered along the way. A failing record
// does not abort the rest of the import.
type ImportResult struct {
	EpisodicImported   int
	SemanticImported   int
	ProceduralImported int
	Errors             []string
}

// Import inserts every record in snap as a new row, discarding the
// original IDs so the destination's autoincrement sequence assigns
// fresh ones. One record failing (e.g. a duplicate concept_name) is
// recorded in the result and does not stop the remaining records.
func (s *Store) Import(snap *Snapshot) *ImportResult {
	result := &ImportResult{}

	for _, m := range snap.Episodic {
		cp := *m
		cp.ID = 0
		if err := s.CreateEpisodic(&cp); err != nil {
			log.Warn("skipping episodic record on import", "error", err)
			result.Errors = append(result.Errors, "episodic: "+err.Error())
			continue
		}
		result.EpisodicImported++
	}

	for _, m := range snap.Semantic {
		cp := *m
		cp.ID = 0
		if err := s.CreateSemantic(&cp); err != nil {
			log.Warn("skipping semantic record on import", "error", err)
			result.Errors = append(result.Errors, "semantic: "+err.Error())
			continue
		}
		result.SemanticImported++
	}

	for _, m := range snap.Procedural {
		cp := *m
		cp.ID = 0
		if err := s.CreateProcedural(&cp); err != nil {
			log.Warn("skipping procedural record on import", "error", err)
			result.Errors = append(result.Errors, "procedural: "+err.Error())
			continue
		}
		result.ProceduralImported++
	}

	return result
}
