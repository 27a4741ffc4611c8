package memory

import (
	"fmt"
	"sort"
	"time"

	"github.com/agentcortex/agentmemory/internal/logging"
	"github.com/agentcortex/agentmemory/internal/model"
	"github.com/agentcortex/agentmemory/internal/retrieval"
	"github.com/agentcortex/agentmemory/internal/store"
	"github.com/agentcortex/agentmemory/internal/textutil"
	"github.com/agentcortex/agentmemory/pkg/config"
)

var log = logging.GetLogger("memory")

// Service is the single entry point external callers (CLI, REST,
// embedders) use to interact with the memory system.
type Service struct {
	store     *store.Store
	retrieval *retrieval.Engine
	cfg       *config.Config
}

// New builds a Service over an already-open store and loaded config.
func New(s *store.Store, cfg *config.Config) *Service {
	return &Service{
		store:     s,
		retrieval: retrieval.New(s, cfg),
		cfg:       cfg,
	}
}

// EpisodeInput carries the optional fields a caller may supply when
// storing an episodic memory; zero values are filled with defaults.
type EpisodeInput struct {
	Timestamp          *time.Time
	DurationSeconds    *float64
	Context            string
	Participants        []string
	Location            string
	SensoryData         model.JSONValue
	Observations        string
	ImportanceScore     *float64
	EmotionalValence    *float64
	Tags                []string
	Categories          []string
	AssociatedConcepts  []string
}

// StoreEpisode validates and persists a new episodic memory, filling
// the timestamp and auto-populating tags via keyword extraction when
// the caller did not supply any.
func (s *Service) StoreEpisode(description string, in EpisodeInput) (int64, error) {
	ts := time.Now()
	if in.Timestamp != nil {
		ts = *in.Timestamp
	}

	importance := model.DefaultImportanceScore
	if in.ImportanceScore != nil {
		importance = *in.ImportanceScore
	}
	valence := model.DefaultEmotionalValence
	if in.EmotionalValence != nil {
		valence = *in.EmotionalValence
	}

	ok, msg := textutil.ValidateEpisodic(textutil.EpisodicInput{
		Timestamp:        textutil.FormatISO8601(ts),
		EventDescription: description,
		ImportanceScore:  &importance,
		EmotionalValence: &valence,
	})
	if !ok {
		return 0, fmt.Errorf("%s: %w", msg, ErrValidation)
	}

	tags := in.Tags
	if len(tags) == 0 {
		tags = textutil.ExtractKeywords(description, 5)
	}

	m := &model.Episodic{
		Timestamp:          ts,
		DurationSeconds:    in.DurationSeconds,
		EventDescription:   description,
		Context:            in.Context,
		Participants:       in.Participants,
		Location:           in.Location,
		SensoryData:        in.SensoryData,
		Observations:       in.Observations,
		ImportanceScore:    importance,
		EmotionalValence:   valence,
		Tags:               tags,
		Categories:         in.Categories,
		AssociatedConcepts: in.AssociatedConcepts,
	}

	if err := s.store.CreateEpisodic(m); err != nil {
		return 0, err
	}
	log.Info("stored episode", "id", m.ID)
	return m.ID, nil
}

// RecallEpisode returns the episodic memory with the given id. This
// read bumps the record's retrieval statistics, per the store's
// contract for GetEpisodicByID.
func (s *Service) RecallEpisode(id int64) (*model.Episodic, bool, error) {
	return s.store.GetEpisodicByID(id)
}

// SearchEpisodes performs a substring search across episodic memories.
func (s *Service) SearchEpisodes(query string, limit int) ([]*model.Episodic, error) {
	return s.store.SearchEpisodic(query, limit)
}

// GetRecentEpisodes returns episodic memories from the last N days.
func (s *Service) GetRecentEpisodes(days, limit int) ([]*model.Episodic, error) {
	return s.retrieval.RetrieveRecentEpisodic(days, limit, time.Now())
}

// GetImportantEpisodes returns episodic memories at or above
// minImportance after decay and retrieval boost are applied.
func (s *Service) GetImportantEpisodes(minImportance float64, limit int) ([]retrieval.ScoredEpisodic, error) {
	return s.retrieval.RetrieveByImportance(minImportance, true, limit, time.Now())
}

// ConceptInput carries the optional fields a caller may supply when
// storing a semantic memory.
type ConceptInput struct {
	Properties      model.JSONValue
	Relationships   model.JSONValue
	ConfidenceScore *float64
	Source          string
	Evidence        string
	Tags            []string
	Categories      []string
	LinkedEpisodes  []int64
}

// StoreConcept validates and persists a new semantic memory, auto-
// populating tags from the definition when none are supplied.
func (s *Service) StoreConcept(conceptName, definition string, in ConceptInput) (int64, error) {
	confidence := model.DefaultConfidenceScore
	if in.ConfidenceScore != nil {
		confidence = *in.ConfidenceScore
	}

	ok, msg := textutil.ValidateSemantic(textutil.SemanticInput{
		ConceptName:     conceptName,
		Definition:      definition,
		ConfidenceScore: &confidence,
	})
	if !ok {
		return 0, fmt.Errorf("%s: %w", msg, ErrValidation)
	}

	tags := in.Tags
	if len(tags) == 0 {
		tags = textutil.ExtractKeywords(definition, 5)
	}

	m := &model.Semantic{
		ConceptName:     conceptName,
		Definition:      definition,
		Properties:      in.Properties,
		Relationships:   in.Relationships,
		ConfidenceScore: confidence,
		Source:          in.Source,
		Evidence:        in.Evidence,
		Tags:            tags,
		Categories:      in.Categories,
		LinkedEpisodes:  in.LinkedEpisodes,
	}

	if err := s.store.CreateSemantic(m); err != nil {
		return 0, err
	}
	log.Info("stored concept", "id", m.ID, "concept_name", conceptName)
	return m.ID, nil
}

// RecallConcept returns the semantic memory with the given concept
// name, which is unique.
func (s *Service) RecallConcept(conceptName string) (*model.Semantic, bool, error) {
	return s.store.GetSemanticByName(conceptName)
}

// SearchConcepts performs a substring search across semantic memories.
func (s *Service) SearchConcepts(query string, limit int) ([]*model.Semantic, error) {
	return s.store.SearchSemantic(query, limit)
}

// UpdateConceptConfidence adjusts the confidence score of an existing
// concept; a no-op if the concept does not exist.
func (s *Service) UpdateConceptConfidence(conceptName string, newConfidence float64) error {
	concept, ok, err := s.store.GetSemanticByName(conceptName)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	concept.ConfidenceScore = newConfidence
	_, err = s.store.UpdateSemantic(concept)
	return err
}

// ProcedureInput carries the optional fields a caller may supply when
// storing a procedural memory.
type ProcedureInput struct {
	Purpose       string
	Parameters    model.JSONValue
	SuccessRate   *float64
	Prerequisites []string
	Dependencies  string
	Tags          []string
	Categories    []string
}

// StoreProcedure validates and persists a new procedural memory, auto-
// populating tags from the description when none are supplied.
func (s *Service) StoreProcedure(procedureName, description string, steps []string, in ProcedureInput) (int64, error) {
	successRate := model.DefaultSuccessRate
	if in.SuccessRate != nil {
		successRate = *in.SuccessRate
	}

	ok, msg := textutil.ValidateProcedural(textutil.ProceduralInput{
		ProcedureName: procedureName,
		Description:   description,
		Steps:         steps,
		SuccessRate:   &successRate,
	})
	if !ok {
		return 0, fmt.Errorf("%s: %w", msg, ErrValidation)
	}

	tags := in.Tags
	if len(tags) == 0 {
		tags = textutil.ExtractKeywords(description, 5)
	}

	m := &model.Procedural{
		ProcedureName: procedureName,
		Description:   description,
		Purpose:       in.Purpose,
		Steps:         steps,
		Parameters:    in.Parameters,
		SuccessRate:   successRate,
		Prerequisites: in.Prerequisites,
		Dependencies:  in.Dependencies,
		Tags:          tags,
		Categories:    in.Categories,
	}

	if err := s.store.CreateProcedural(m); err != nil {
		return 0, err
	}
	log.Info("stored procedure", "id", m.ID, "procedure_name", procedureName)
	return m.ID, nil
}

// RecallProcedure returns the procedural memory with the given
// procedure name, which is unique.
func (s *Service) RecallProcedure(procedureName string) (*model.Procedural, bool, error) {
	return s.store.GetProceduralByName(procedureName)
}

// SearchProcedures performs a substring search across procedural
// memories.
func (s *Service) SearchProcedures(query string, limit int) ([]*model.Procedural, error) {
	return s.store.SearchProcedural(query, limit)
}

// ExecuteProcedure records one execution of procedureName and folds
// it into the running-mean success rate and average duration. A
// missing procedure is a silent no-op, matching the façade's recall
// semantics elsewhere.
func (s *Service) ExecuteProcedure(procedureName string, success bool, duration *float64) error {
	proc, ok, err := s.store.GetProceduralByName(procedureName)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	nOld := proc.ExecutionCount
	nNew := nOld + 1

	successValue := 0.0
	if success {
		successValue = 100.0
	}
	proc.SuccessRate = (proc.SuccessRate*float64(nOld) + successValue) / float64(nNew)

	if duration != nil {
		oldAvg := 0.0
		if proc.AverageDurationSeconds != nil {
			oldAvg = *proc.AverageDurationSeconds
		}
		newAvg := (oldAvg*float64(nOld) + *duration) / float64(nNew)
		proc.AverageDurationSeconds = &newAvg
	}

	proc.ExecutionCount = nNew
	now := time.Now()
	proc.LastExecuted = &now

	_, err = s.store.UpdateProcedural(proc)
	return err
}

// FindSimilarEpisodic returns episodic memories Jaccard-similar to
// refID.
func (s *Service) FindSimilarEpisodic(refID int64, limit int) ([]retrieval.ScoredEpisodic, error) {
	return s.retrieval.RetrieveSimilarEpisodic(refID, limit)
}

// FindSimilarSemantic returns semantic memories Jaccard-similar to
// refID.
func (s *Service) FindSimilarSemantic(refID int64, limit int) ([]retrieval.ScoredSemantic, error) {
	return s.retrieval.RetrieveSimilarSemantic(refID, limit)
}

// FindSimilarProcedural returns procedural memories Jaccard-similar to
// refID.
func (s *Service) FindSimilarProcedural(refID int64, limit int) ([]retrieval.ScoredProcedural, error) {
	return s.retrieval.RetrieveSimilarProcedural(refID, limit)
}

// RetrieveEpisodicByContext scores episodic memories against keywords.
func (s *Service) RetrieveEpisodicByContext(keywords []string, limit int) ([]retrieval.ScoredEpisodic, error) {
	return s.retrieval.RetrieveEpisodicByContext(keywords, limit)
}

// GetMemoryChain builds an associative chain starting from seedID.
func (s *Service) GetMemoryChain(seedID int64, maxDepth int) ([]*model.Episodic, error) {
	return s.retrieval.RetrieveAssociativeChain(seedID, maxDepth)
}

// SearchByTag returns records across all three kinds that carry tag.
func (s *Service) SearchByTag(tag string, limit int) (*retrieval.TagResults, error) {
	return s.retrieval.RetrieveByTag(tag, limit)
}

// ConsolidationCandidate describes one pair of episodic memories found
// similar enough to merge, whether or not the merge was applied.
type ConsolidationCandidate struct {
	ID1        int64
	ID2        int64
	Similarity float64
	Desc1      string
	Desc2      string
}

// ConsolidationResult summarizes one consolidation pass.
type ConsolidationResult struct {
	MergedCount   int
	ArchivedCount int
	Candidates    []ConsolidationCandidate
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// ConsolidateMemories scans episodic memories pairwise in insertion
// order, merging descriptions at or above the configured similarity
// threshold. With dryRun true, candidates are reported but nothing is
// written. The lower-indexed record of a matching pair always
// survives; the other is deleted after its stats are folded in.
func (s *Service) ConsolidateMemories(dryRun bool) (*ConsolidationResult, error) {
	result := &ConsolidationResult{}

	if s.cfg != nil && !s.cfg.Consolidation.Enabled {
		return result, nil
	}

	threshold := 0.85
	if s.cfg != nil {
		threshold = s.cfg.Consolidation.MergeSimilarityThreshold
	}

	all, err := s.store.ListEpisodic(0)
	if err != nil {
		return nil, err
	}
	// ListEpisodic orders by timestamp; ids follow insertion order.
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	merged := make(map[int64]bool)

	for i, e1 := range all {
		if merged[e1.ID] {
			continue
		}
		for j := i + 1; j < len(all); j++ {
			e2 := all[j]
			if merged[e2.ID] {
				continue
			}

			sim := textutil.JaccardSimilarity(e1.EventDescription, e2.EventDescription)
			if sim < threshold {
				continue
			}

			result.Candidates = append(result.Candidates, ConsolidationCandidate{
				ID1:        e1.ID,
				ID2:        e2.ID,
				Similarity: sim,
				Desc1:      truncate(e1.EventDescription, 50),
				Desc2:      truncate(e2.EventDescription, 50),
			})

			if dryRun {
				continue
			}

			e1.RetrievalCount += e2.RetrievalCount
			if e2.ImportanceScore > e1.ImportanceScore {
				e1.ImportanceScore = e2.ImportanceScore
			}
			e1.Tags = textutil.MergeTags(e1.Tags, e2.Tags)

			if _, err := s.store.UpdateEpisodic(e1); err != nil {
				return nil, err
			}
			if _, err := s.store.DeleteEpisodic(e2.ID); err != nil {
				return nil, err
			}
			merged[e2.ID] = true
			result.MergedCount++
			result.ArchivedCount++
		}
	}

	return result, nil
}

// GetStatistics returns aggregate counts and file size across the
// store.
func (s *Service) GetStatistics() (*store.Stats, error) {
	return s.store.GetStats()
}

// Backup writes a checkpointed copy of the database to destPath.
func (s *Service) Backup(destPath string) error {
	return s.store.Backup(destPath)
}

// ExportAll returns a full snapshot of every record for serialization.
func (s *Service) ExportAll() (*store.Snapshot, error) {
	return s.store.Export()
}

// ImportMemories inserts every record in snap as new rows.
func (s *Service) ImportMemories(snap *store.Snapshot) *store.ImportResult {
	return s.store.Import(snap)
}

// Kind identifies which table DeleteMemory should operate on.
type Kind = model.Kind

// DeleteMemory removes the record of the given kind and id, reporting
// whether a row was actually deleted.
func (s *Service) DeleteMemory(id int64, kind Kind) (bool, error) {
	switch kind {
	case model.KindEpisodic:
		return s.store.DeleteEpisodic(id)
	case model.KindSemantic:
		return s.store.DeleteSemantic(id)
	case model.KindProcedural:
		return s.store.DeleteProcedural(id)
	default:
		return false, fmt.Errorf("unknown memory kind %q: %w", kind, ErrValidation)
	}
}
