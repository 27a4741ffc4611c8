package memory

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/agentcortex/agentmemory/internal/model"
	"github.com/agentcortex/agentmemory/internal/store"
	"github.com/agentcortex/agentmemory/pkg/config"
)

func newTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()

	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return New(s, config.DefaultConfig()), s
}

func TestStoreEpisodeAutoTagsWhenEmpty(t *testing.T) {
	svc, _ := newTestService(t)

	id, err := svc.StoreEpisode("deployed the staging cluster overnight", EpisodeInput{})
	if err != nil {
		t.Fatalf("store failed: %v", err)
	}

	got, ok, err := svc.RecallEpisode(id)
	if err != nil {
		t.Fatalf("recall failed: %v", err)
	}
	if !ok {
		t.Fatal("expected to find the stored episode")
	}
	if len(got.Tags) == 0 {
		t.Error("expected auto-extracted tags when none were supplied")
	}
}

func TestStoreEpisodeRejectsInvalidImportance(t *testing.T) {
	svc, _ := newTestService(t)

	bad := 500.0
	_, err := svc.StoreEpisode("test", EpisodeInput{ImportanceScore: &bad})
	if err == nil {
		t.Fatal("expected validation error for out-of-range importance")
	}
	if !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestStoreConceptUniqueName(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.StoreConcept("caching", "store to avoid recompute", ConceptInput{}); err != nil {
		t.Fatalf("store failed: %v", err)
	}
	_, err := svc.StoreConcept("caching", "a duplicate definition", ConceptInput{})
	if err == nil {
		t.Fatal("expected a unique-violation error on duplicate concept name")
	}
}

func TestExecuteProcedureUpdatesRunningMean(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.StoreProcedure("deploy_service", "deploy the service", []string{"build", "push", "rollout"}, ProcedureInput{}); err != nil {
		t.Fatalf("store failed: %v", err)
	}

	if err := svc.ExecuteProcedure("deploy_service", true, nil); err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	proc, ok, err := svc.RecallProcedure("deploy_service")
	if err != nil || !ok {
		t.Fatalf("recall failed: ok=%v err=%v", ok, err)
	}
	if proc.SuccessRate != 100 {
		t.Errorf("expected success_rate 100 after one success, got %v", proc.SuccessRate)
	}
	if proc.ExecutionCount != 1 {
		t.Errorf("expected execution_count 1, got %d", proc.ExecutionCount)
	}

	if err := svc.ExecuteProcedure("deploy_service", false, nil); err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	proc, _, _ = svc.RecallProcedure("deploy_service")
	if proc.SuccessRate != 50 {
		t.Errorf("expected success_rate 50 after one success and one failure, got %v", proc.SuccessRate)
	}
}

func TestExecuteProcedureMissingIsNoOp(t *testing.T) {
	svc, _ := newTestService(t)

	if err := svc.ExecuteProcedure("does_not_exist", true, nil); err != nil {
		t.Errorf("expected no-op for missing procedure, got %v", err)
	}
}

func TestConsolidateMemoriesMergesDuplicates(t *testing.T) {
	svc, s := newTestService(t)

	m1 := &model.Episodic{EventDescription: "deployed the staging web cluster today", ImportanceScore: 40, Tags: model.StringSet{"deploy"}, RetrievalCount: 3}
	if err := s.CreateEpisodic(m1); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	m2 := &model.Episodic{EventDescription: "deployed the staging web cluster today", ImportanceScore: 60, Tags: model.StringSet{"cluster"}, RetrievalCount: 2}
	if err := s.CreateEpisodic(m2); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	result, err := svc.ConsolidateMemories(false)
	if err != nil {
		t.Fatalf("consolidate failed: %v", err)
	}
	if result.MergedCount != 1 {
		t.Fatalf("expected 1 merge, got %d", result.MergedCount)
	}

	// RecallEpisode bumps retrieval_count by one more on its way out, so
	// the persisted sum (3+2) should read back as 6.
	survivor, ok, err := svc.RecallEpisode(m1.ID)
	if err != nil || !ok {
		t.Fatalf("expected survivor m1 to remain: ok=%v err=%v", ok, err)
	}
	if survivor.ImportanceScore != 60 {
		t.Errorf("expected merged importance_score to take the max (60), got %v", survivor.ImportanceScore)
	}
	if survivor.RetrievalCount != 6 {
		t.Errorf("expected merged retrieval_count to persist as the sum (3+2=5, plus this recall's bump), got %d", survivor.RetrievalCount)
	}

	if _, ok, _ := svc.RecallEpisode(m2.ID); ok {
		t.Error("expected the duplicate to be deleted after merge")
	}
}

func TestConsolidateMemoriesDryRunMakesNoChanges(t *testing.T) {
	svc, s := newTestService(t)

	m1 := &model.Episodic{EventDescription: "rotated the signing keys", ImportanceScore: 40}
	if err := s.CreateEpisodic(m1); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	m2 := &model.Episodic{EventDescription: "rotated the signing keys", ImportanceScore: 60}
	if err := s.CreateEpisodic(m2); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	result, err := svc.ConsolidateMemories(true)
	if err != nil {
		t.Fatalf("consolidate failed: %v", err)
	}
	if len(result.Candidates) != 1 {
		t.Fatalf("expected 1 candidate reported, got %d", len(result.Candidates))
	}
	if result.MergedCount != 0 {
		t.Error("expected dry run to report zero merges")
	}

	if _, ok, _ := svc.RecallEpisode(m2.ID); !ok {
		t.Error("expected dry run to leave both records in place")
	}
}

func TestDeleteMemoryUnknownKind(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.DeleteMemory(1, model.Kind("bogus"))
	if err == nil {
		t.Fatal("expected an error for an unknown memory kind")
	}
}
