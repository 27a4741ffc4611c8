package retrieval

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/agentcortex/agentmemory/internal/model"
	"github.com/agentcortex/agentmemory/internal/store"
)

func newTestEngine(t *testing.T) (*Engine, *store.Store) {
	t.Helper()

	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return New(s, nil), s
}

func TestRetrieveEpisodicByContext(t *testing.T) {
	e, s := newTestEngine(t)

	if err := s.CreateEpisodic(&model.Episodic{
		Timestamp:        time.Now(),
		EventDescription: "deployed the staging cluster",
		ImportanceScore:  80,
	}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := s.CreateEpisodic(&model.Episodic{
		Timestamp:        time.Now(),
		EventDescription: "reviewed a pull request",
		ImportanceScore:  50,
	}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	results, err := e.RetrieveEpisodicByContext([]string{"deployed", "cluster"}, 10)
	if err != nil {
		t.Fatalf("retrieve failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 scored result, got %d", len(results))
	}
	if results[0].EventDescription != "deployed the staging cluster" {
		t.Errorf("unexpected match: %+v", results[0])
	}
}

func TestRetrieveSimilarEpisodicExcludesSelf(t *testing.T) {
	e, s := newTestEngine(t)

	m1 := &model.Episodic{Timestamp: time.Now(), EventDescription: "deployed the staging web cluster today"}
	if err := s.CreateEpisodic(m1); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	m2 := &model.Episodic{Timestamp: time.Now(), EventDescription: "deployed the staging web cluster this morning"}
	if err := s.CreateEpisodic(m2); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	results, err := e.RetrieveSimilarEpisodic(m1.ID, 10)
	if err != nil {
		t.Fatalf("retrieve failed: %v", err)
	}
	for _, r := range results {
		if r.ID == m1.ID {
			t.Error("expected the reference record to be excluded from its own similarity results")
		}
	}
	if len(results) != 1 {
		t.Fatalf("expected exactly 1 similar record, got %d", len(results))
	}
}

func TestRetrieveByImportanceAppliesDecay(t *testing.T) {
	e, s := newTestEngine(t)

	old := &model.Episodic{
		Timestamp:        time.Now().AddDate(0, -6, 0),
		EventDescription: "an old important memory",
		ImportanceScore:  90,
	}
	if err := s.CreateEpisodic(old); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	results, err := e.RetrieveByImportance(90, true, 10, time.Now())
	if err != nil {
		t.Fatalf("retrieve failed: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected decay to drop a six-month-old memory below its original threshold, got %d results", len(results))
	}

	undecayed, err := e.RetrieveByImportance(90, false, 10, time.Now())
	if err != nil {
		t.Fatalf("retrieve failed: %v", err)
	}
	if len(undecayed) != 1 {
		t.Fatalf("expected 1 result without decay applied, got %d", len(undecayed))
	}
}

func TestRetrieveAssociativeChainStartsWithSeed(t *testing.T) {
	e, s := newTestEngine(t)

	seed := &model.Episodic{
		Timestamp:          time.Now(),
		EventDescription:   "investigated a memory leak",
		AssociatedConcepts: model.StringSet{"memoryleak"},
	}
	if err := s.CreateEpisodic(seed); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	linked := &model.Episodic{
		Timestamp:        time.Now(),
		EventDescription: "fixed the memoryleak in the worker pool",
	}
	if err := s.CreateEpisodic(linked); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	chain, err := e.RetrieveAssociativeChain(seed.ID, 3)
	if err != nil {
		t.Fatalf("chain failed: %v", err)
	}
	if len(chain) == 0 || chain[0].ID != seed.ID {
		t.Fatal("expected the chain to start with the seed episode")
	}
}

func TestRetrieveByTagGroupsAcrossKinds(t *testing.T) {
	e, s := newTestEngine(t)

	if err := s.CreateEpisodic(&model.Episodic{
		Timestamp:        time.Now(),
		EventDescription: "tagged episode",
		Tags:             model.StringSet{"incident"},
	}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := s.CreateSemantic(&model.Semantic{
		ConceptName: "postmortem",
		Definition:  "a retrospective analysis",
		Tags:        model.StringSet{"incident"},
	}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	results, err := e.RetrieveByTag("incident", 10)
	if err != nil {
		t.Fatalf("retrieve by tag failed: %v", err)
	}
	if len(results.Episodic) != 1 || len(results.Semantic) != 1 {
		t.Errorf("expected one match in each kind, got episodic=%d semantic=%d",
			len(results.Episodic), len(results.Semantic))
	}
}
