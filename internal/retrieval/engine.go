// Package retrieval implements ranked and context-aware reads over the
// memory store: context scoring, temporal retrieval, similarity
// search, importance ranking with decay, associative chains, tag
// fan-out, and recent windows.
package retrieval

import (
	"sort"
	"strings"
	"time"

	"github.com/agentcortex/agentmemory/internal/logging"
	"github.com/agentcortex/agentmemory/internal/model"
	"github.com/agentcortex/agentmemory/internal/store"
	"github.com/agentcortex/agentmemory/internal/textutil"
	"github.com/agentcortex/agentmemory/pkg/config"
)

var log = logging.GetLogger("retrieval")

// Engine scores and ranks records read from a Store, honoring the
// thresholds and decay parameters carried in Config.
type Engine struct {
	store *store.Store
	cfg   *config.Config
}

// New builds an Engine over the given store and configuration.
func New(s *store.Store, cfg *config.Config) *Engine {
	return &Engine{store: s, cfg: cfg}
}

// ScoredEpisodic pairs an episodic record with its context score.
type ScoredEpisodic struct {
	*model.Episodic
	Score float64
}

// ScoredSemantic pairs a semantic record with its context score.
type ScoredSemantic struct {
	*model.Semantic
	Score float64
}

// ScoredProcedural pairs a procedural record with its context score.
type ScoredProcedural struct {
	*model.Procedural
	Score float64
}

func matchCount(keywords []string, text string) int {
	lower := strings.ToLower(text)
	n := 0
	for _, k := range keywords {
		if strings.Contains(lower, strings.ToLower(k)) {
			n++
		}
	}
	return n
}

// RetrieveEpisodicByContext scores every episodic record against
// keywords and returns the top `limit` by descending score.
func (e *Engine) RetrieveEpisodicByContext(keywords []string, limit int) ([]ScoredEpisodic, error) {
	all, err := e.store.ListEpisodic(0)
	if err != nil {
		return nil, err
	}

	var scored []ScoredEpisodic
	for _, m := range all {
		text := m.EventDescription + " " + m.Context + " " + m.Observations
		score := contextScore(keywords, text, m.ImportanceScore/100)
		if score > 0 {
			scored = append(scored, ScoredEpisodic{Episodic: m, Score: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

// RetrieveSemanticByContext scores every semantic record against
// keywords and returns the top `limit` by descending score.
func (e *Engine) RetrieveSemanticByContext(keywords []string, limit int) ([]ScoredSemantic, error) {
	all, err := e.store.ListSemantic(0)
	if err != nil {
		return nil, err
	}

	var scored []ScoredSemantic
	for _, m := range all {
		text := m.ConceptName + " " + m.Definition
		score := contextScore(keywords, text, m.ConfidenceScore)
		if score > 0 {
			scored = append(scored, ScoredSemantic{Semantic: m, Score: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

// RetrieveProceduralByContext scores every procedural record against
// keywords and returns the top `limit` by descending score.
func (e *Engine) RetrieveProceduralByContext(keywords []string, limit int) ([]ScoredProcedural, error) {
	all, err := e.store.ListProcedural(0)
	if err != nil {
		return nil, err
	}

	var scored []ScoredProcedural
	for _, m := range all {
		text := m.ProcedureName + " " + m.Description
		score := contextScore(keywords, text, m.SuccessRate/100)
		if score > 0 {
			scored = append(scored, ScoredProcedural{Procedural: m, Score: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

func contextScore(keywords []string, text string, weight float64) float64 {
	if len(keywords) == 0 {
		return 0
	}
	matches := matchCount(keywords, text)
	base := float64(matches) / float64(len(keywords))
	return base * weight
}

// RetrieveEpisodicByPeriod parses the named phrase and returns
// episodic records whose timestamp falls within the resolved range.
func (e *Engine) RetrieveEpisodicByPeriod(phrase string, now time.Time) ([]*model.Episodic, error) {
	startStr, endStr, ok := textutil.ParseDateRange(phrase, now)
	if !ok {
		return nil, nil
	}
	start, _ := textutil.ParseISO8601(startStr)
	end, _ := textutil.ParseISO8601(endStr)
	return e.store.ListEpisodicFiltered(store.EpisodicFilter{StartTime: &start, EndTime: &end})
}

// RetrieveSemanticByPeriod parses the named phrase and filters semantic
// records by created_at after a full read.
func (e *Engine) RetrieveSemanticByPeriod(phrase string, now time.Time) ([]*model.Semantic, error) {
	startStr, endStr, ok := textutil.ParseDateRange(phrase, now)
	if !ok {
		return nil, nil
	}
	all, err := e.store.ListSemantic(0)
	if err != nil {
		return nil, err
	}
	var out []*model.Semantic
	for _, m := range all {
		ts := textutil.FormatISO8601(m.CreatedAt)
		if ts >= startStr && ts <= endStr {
			out = append(out, m)
		}
	}
	return out, nil
}

// RetrieveProceduralByPeriod parses the named phrase and filters
// procedural records by created_at after a full read.
func (e *Engine) RetrieveProceduralByPeriod(phrase string, now time.Time) ([]*model.Procedural, error) {
	startStr, endStr, ok := textutil.ParseDateRange(phrase, now)
	if !ok {
		return nil, nil
	}
	all, err := e.store.ListProcedural(0)
	if err != nil {
		return nil, err
	}
	var out []*model.Procedural
	for _, m := range all {
		ts := textutil.FormatISO8601(m.CreatedAt)
		if ts >= startStr && ts <= endStr {
			out = append(out, m)
		}
	}
	return out, nil
}

func (e *Engine) similarityThreshold() float64 {
	if e.cfg != nil && e.cfg.Retrieval.SimilarityThreshold > 0 {
		return e.cfg.Retrieval.SimilarityThreshold
	}
	return 0.3
}

// RetrieveSimilarEpisodic finds episodic records whose description is
// Jaccard-similar to refID's, excluding refID itself.
func (e *Engine) RetrieveSimilarEpisodic(refID int64, limit int) ([]ScoredEpisodic, error) {
	ref, ok, err := e.store.GetEpisodicByID(refID)
	if err != nil || !ok {
		return nil, err
	}

	all, err := e.store.ListEpisodic(0)
	if err != nil {
		return nil, err
	}

	threshold := e.similarityThreshold()
	var scored []ScoredEpisodic
	for _, m := range all {
		if m.ID == ref.ID {
			continue
		}
		sim := textutil.JaccardSimilarity(ref.EventDescription, m.EventDescription)
		if sim >= threshold {
			scored = append(scored, ScoredEpisodic{Episodic: m, Score: sim})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

// RetrieveSimilarSemantic finds semantic records whose definition is
// Jaccard-similar to refID's, excluding refID itself.
func (e *Engine) RetrieveSimilarSemantic(refID int64, limit int) ([]ScoredSemantic, error) {
	ref, ok, err := e.store.GetSemanticByID(refID)
	if err != nil || !ok {
		return nil, err
	}

	all, err := e.store.ListSemantic(0)
	if err != nil {
		return nil, err
	}

	threshold := e.similarityThreshold()
	var scored []ScoredSemantic
	for _, m := range all {
		if m.ID == ref.ID {
			continue
		}
		sim := textutil.JaccardSimilarity(ref.Definition, m.Definition)
		if sim >= threshold {
			scored = append(scored, ScoredSemantic{Semantic: m, Score: sim})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

// RetrieveSimilarProcedural finds procedural records whose description
// is Jaccard-similar to refID's, excluding refID itself.
func (e *Engine) RetrieveSimilarProcedural(refID int64, limit int) ([]ScoredProcedural, error) {
	ref, ok, err := e.store.GetProceduralByID(refID)
	if err != nil || !ok {
		return nil, err
	}

	all, err := e.store.ListProcedural(0)
	if err != nil {
		return nil, err
	}

	threshold := e.similarityThreshold()
	var scored []ScoredProcedural
	for _, m := range all {
		if m.ID == ref.ID {
			continue
		}
		sim := textutil.JaccardSimilarity(ref.Description, m.Description)
		if sim >= threshold {
			scored = append(scored, ScoredProcedural{Procedural: m, Score: sim})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

// RetrieveByImportance returns episodic records whose decayed,
// boosted importance is at least minImportance, sorted descending.
// When decay is disabled in config, the stored importance is used
// directly and no retrieval boost is applied.
func (e *Engine) RetrieveByImportance(minImportance float64, applyDecay bool, limit int, now time.Time) ([]ScoredEpisodic, error) {
	all, err := e.store.ListEpisodic(0)
	if err != nil {
		return nil, err
	}

	decayEnabled := e.cfg == nil || e.cfg.Decay.Enabled
	decayRate := 0.1
	halfLife := 30.0
	boostFactor := 0.05
	if e.cfg != nil {
		decayRate = e.cfg.Decay.DecayRate
		halfLife = e.cfg.Decay.HalfLifeDays
		boostFactor = e.cfg.ImportanceCalculation.RetrievalBoostFactor
	}

	var scored []ScoredEpisodic
	for _, m := range all {
		adjusted := m.ImportanceScore
		if applyDecay && decayEnabled {
			adjusted = textutil.TemporalDecayAt(m.ImportanceScore, m.Timestamp, decayRate, halfLife, now)
			adjusted += textutil.RetrievalBoost(m.RetrievalCount, boostFactor)
		}
		if adjusted >= minImportance {
			scored = append(scored, ScoredEpisodic{Episodic: m, Score: adjusted})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

// RetrieveAssociativeChain walks associated_concepts and tags from the
// seed episode outward, returning the traversal order starting with
// the seed itself.
func (e *Engine) RetrieveAssociativeChain(seedID int64, maxDepth int) ([]*model.Episodic, error) {
	seed, ok, err := e.store.GetEpisodicByID(seedID)
	if err != nil || !ok {
		return nil, err
	}

	chain := []*model.Episodic{seed}
	visited := map[int64]struct{}{seed.ID: {}}
	current := seed

	for i := 0; i < maxDepth; i++ {
		terms := append(append([]string{}, current.AssociatedConcepts...), current.Tags...)
		if len(terms) == 0 {
			break
		}
		if len(terms) > 3 {
			terms = terms[:3]
		}

		var next *model.Episodic
		for _, term := range terms {
			results, err := e.store.SearchEpisodic(term, 5)
			if err != nil {
				log.Warn("associative search failed", "term", term, "error", err)
				continue
			}
			for _, r := range results {
				if _, seen := visited[r.ID]; !seen {
					next = r
					break
				}
			}
			if next != nil {
				break
			}
		}

		if next == nil {
			break
		}
		chain = append(chain, next)
		visited[next.ID] = struct{}{}
		current = next
	}

	return chain, nil
}

// TagResults groups per-kind tag-membership matches.
type TagResults struct {
	Episodic   []*model.Episodic
	Semantic   []*model.Semantic
	Procedural []*model.Procedural
}

// RetrieveByTag returns records whose tag set contains tag
// (case-insensitive), grouped by kind and each bounded by limit.
func (e *Engine) RetrieveByTag(tag string, limit int) (*TagResults, error) {
	lower := strings.ToLower(tag)
	results := &TagResults{}

	episodic, err := e.store.ListEpisodic(0)
	if err != nil {
		return nil, err
	}
	for _, m := range episodic {
		if hasTag(m.Tags, lower) {
			results.Episodic = append(results.Episodic, m)
			if limit > 0 && len(results.Episodic) >= limit {
				break
			}
		}
	}

	semantic, err := e.store.ListSemantic(0)
	if err != nil {
		return nil, err
	}
	for _, m := range semantic {
		if hasTag(m.Tags, lower) {
			results.Semantic = append(results.Semantic, m)
			if limit > 0 && len(results.Semantic) >= limit {
				break
			}
		}
	}

	procedural, err := e.store.ListProcedural(0)
	if err != nil {
		return nil, err
	}
	for _, m := range procedural {
		if hasTag(m.Tags, lower) {
			results.Procedural = append(results.Procedural, m)
			if limit > 0 && len(results.Procedural) >= limit {
				break
			}
		}
	}

	return results, nil
}

func hasTag(tags model.StringSet, lowerTag string) bool {
	for _, t := range tags {
		if strings.ToLower(t) == lowerTag {
			return true
		}
	}
	return false
}

// RetrieveRecentEpisodic is a convenience wrapper over the time-period
// path with an N-day window ending now.
func (e *Engine) RetrieveRecentEpisodic(days, limit int, now time.Time) ([]*model.Episodic, error) {
	start := now.AddDate(0, 0, -days)
	return e.store.ListEpisodicFiltered(store.EpisodicFilter{StartTime: &start, EndTime: &now, Limit: limit})
}

// RetrieveRecentSemantic returns semantic records created within the
// last N days, newest first.
func (e *Engine) RetrieveRecentSemantic(days, limit int, now time.Time) ([]*model.Semantic, error) {
	start := now.AddDate(0, 0, -days)
	startStr := textutil.FormatISO8601(start)

	all, err := e.store.ListSemantic(0)
	if err != nil {
		return nil, err
	}
	var out []*model.Semantic
	for _, m := range all {
		if textutil.FormatISO8601(m.CreatedAt) >= startStr {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// RetrieveRecentProcedural returns procedural records created within
// the last N days, newest first.
func (e *Engine) RetrieveRecentProcedural(days, limit int, now time.Time) ([]*model.Procedural, error) {
	start := now.AddDate(0, 0, -days)
	startStr := textutil.FormatISO8601(start)

	all, err := e.store.ListProcedural(0)
	if err != nil {
		return nil, err
	}
	var out []*model.Procedural
	for _, m := range all {
		if textutil.FormatISO8601(m.CreatedAt) >= startStr {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
