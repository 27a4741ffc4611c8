package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/agentcortex/agentmemory/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(dbPath)
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenCreatesSchema(t *testing.T) {
	s := newTestStore(t)

	var version int
	if err := s.db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&version); err != nil {
		t.Fatalf("failed to read schema version: %v", err)
	}
	if version != SchemaVersion {
		t.Errorf("expected schema version %d, got %d", SchemaVersion, version)
	}
}

func TestEpisodicCRUD(t *testing.T) {
	s := newTestStore(t)

	m := &model.Episodic{
		Timestamp:        time.Now(),
		EventDescription: "deployed the staging cluster",
		Tags:             model.StringSet{"deploy", "staging"},
	}
	if err := s.CreateEpisodic(m); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if m.ID == 0 {
		t.Fatal("expected a nonzero id")
	}

	got, ok, err := s.GetEpisodicByID(m.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !ok {
		t.Fatal("expected to find the record")
	}
	if got.RetrievalCount != 1 {
		t.Errorf("expected retrieval_count 1 after one GetEpisodicByID, got %d", got.RetrievalCount)
	}

	// A second read bumps the counter again.
	got2, _, err := s.GetEpisodicByID(m.ID)
	if err != nil {
		t.Fatalf("second get failed: %v", err)
	}
	if got2.RetrievalCount != 2 {
		t.Errorf("expected retrieval_count 2 after two reads, got %d", got2.RetrievalCount)
	}

	got2.ImportanceScore = 90
	updated, err := s.UpdateEpisodic(got2)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if !updated {
		t.Error("expected update to report a changed row")
	}

	deleted, err := s.DeleteEpisodic(m.ID)
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if !deleted {
		t.Error("expected delete to report a removed row")
	}

	if _, ok, err := s.GetEpisodicByID(m.ID); err != nil || ok {
		t.Errorf("expected record gone after delete, ok=%v err=%v", ok, err)
	}
}

func TestUpdateEpisodicPersistsRetrievalCountAndLastAccessed(t *testing.T) {
	s := newTestStore(t)

	m := &model.Episodic{Timestamp: time.Now(), EventDescription: "merged survivor"}
	if err := s.CreateEpisodic(m); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	accessed := time.Now()
	m.RetrievalCount = 5
	m.LastAccessed = &accessed
	if _, err := s.UpdateEpisodic(m); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	got, ok, err := s.peekEpisodicByID(m.ID)
	if err != nil || !ok {
		t.Fatalf("peek failed: ok=%v err=%v", ok, err)
	}
	if got.RetrievalCount != 5 {
		t.Errorf("expected UpdateEpisodic to persist retrieval_count 5, got %d", got.RetrievalCount)
	}
	if got.LastAccessed == nil {
		t.Fatal("expected UpdateEpisodic to persist last_accessed")
	}
}

func TestListEpisodicDoesNotBumpRetrievalCount(t *testing.T) {
	s := newTestStore(t)

	m := &model.Episodic{Timestamp: time.Now(), EventDescription: "wrote a report"}
	if err := s.CreateEpisodic(m); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	list, err := s.ListEpisodic(0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 record, got %d", len(list))
	}
	if list[0].RetrievalCount != 0 {
		t.Errorf("ListEpisodic must not bump retrieval_count, got %d", list[0].RetrievalCount)
	}

	results, err := s.SearchEpisodic("report", 0)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) != 1 || results[0].RetrievalCount != 0 {
		t.Errorf("SearchEpisodic must not bump retrieval_count")
	}
}

func TestSearchEpisodicSubstring(t *testing.T) {
	s := newTestStore(t)

	for _, desc := range []string{"deployed the staging cluster", "reviewed a pull request", "deployed the prod cluster"} {
		m := &model.Episodic{Timestamp: time.Now(), EventDescription: desc}
		if err := s.CreateEpisodic(m); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	results, err := s.SearchEpisodic("deployed", 0)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(results))
	}
}

func TestSemanticUniqueConceptName(t *testing.T) {
	s := newTestStore(t)

	m1 := &model.Semantic{ConceptName: "idempotency", Definition: "same result on repeat application"}
	if err := s.CreateSemantic(m1); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	m2 := &model.Semantic{ConceptName: "idempotency", Definition: "duplicate"}
	err := s.CreateSemantic(m2)
	if err == nil {
		t.Fatal("expected a unique-violation error on duplicate concept_name")
	}
}

func TestProceduralCRUD(t *testing.T) {
	s := newTestStore(t)

	m := &model.Procedural{
		ProcedureName: "rollback_deploy",
		Description:   "roll back the active deployment",
		Steps:         []string{"stop traffic", "revert image", "resume traffic"},
	}
	if err := s.CreateProcedural(m); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	got, ok, err := s.GetProceduralByName("rollback_deploy")
	if err != nil {
		t.Fatalf("get by name failed: %v", err)
	}
	if !ok {
		t.Fatal("expected to find the record")
	}
	if len(got.Steps) != 3 {
		t.Errorf("expected 3 steps, got %d", len(got.Steps))
	}
}

func TestBackupCopiesFile(t *testing.T) {
	s := newTestStore(t)

	m := &model.Episodic{Timestamp: time.Now(), EventDescription: "backup smoke test"}
	if err := s.CreateEpisodic(m); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	dest := filepath.Join(t.TempDir(), "backup.db")
	if err := s.Backup(dest); err != nil {
		t.Fatalf("backup failed: %v", err)
	}

	restored, err := Open(dest)
	if err != nil {
		t.Fatalf("failed to open backup copy: %v", err)
	}
	defer restored.Close()

	list, err := restored.ListEpisodic(0)
	if err != nil {
		t.Fatalf("list from backup failed: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("expected 1 record in backup copy, got %d", len(list))
	}
}

func TestGetStatsComputesAggregates(t *testing.T) {
	s := newTestStore(t)

	m1 := &model.Episodic{Timestamp: time.Now(), EventDescription: "low retrieval", ImportanceScore: 20}
	if err := s.CreateEpisodic(m1); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	m2 := &model.Episodic{Timestamp: time.Now(), EventDescription: "high retrieval", ImportanceScore: 80, RetrievalCount: 9}
	if err := s.CreateEpisodic(m2); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := s.CreateSemantic(&model.Semantic{ConceptName: "idempotency", Definition: "same result on repeat application"}); err != nil {
		t.Fatalf("create semantic failed: %v", err)
	}

	stats, err := s.GetStats()
	if err != nil {
		t.Fatalf("get stats failed: %v", err)
	}
	if stats.EpisodicCount != 2 || stats.SemanticCount != 1 {
		t.Fatalf("unexpected counts: episodic=%d semantic=%d", stats.EpisodicCount, stats.SemanticCount)
	}
	if stats.TotalCount != 3 {
		t.Errorf("expected total_count 3, got %d", stats.TotalCount)
	}
	if stats.AvgImportance != 50 {
		t.Errorf("expected avg_importance 50, got %v", stats.AvgImportance)
	}
	if stats.OldestEpisodic == "" || stats.NewestEpisodic == "" {
		t.Error("expected non-empty oldest/newest episodic timestamps")
	}
	if stats.MostRetrieved == nil || stats.MostRetrieved.ID != m2.ID || stats.MostRetrieved.Count != 9 {
		t.Errorf("expected most_retrieved to identify the high-retrieval record, got %+v", stats.MostRetrieved)
	}
	if stats.FileSizeBytes == 0 {
		t.Error("expected a nonzero file size")
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	src := newTestStore(t)

	if err := src.CreateEpisodic(&model.Episodic{Timestamp: time.Now(), EventDescription: "source episode"}); err != nil {
		t.Fatalf("create episodic failed: %v", err)
	}
	if err := src.CreateSemantic(&model.Semantic{ConceptName: "caching", Definition: "store to avoid recompute"}); err != nil {
		t.Fatalf("create semantic failed: %v", err)
	}

	snap, err := src.Export()
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if snap.ExportedAt == "" {
		t.Error("expected export_timestamp to be set")
	}
	if snap.Statistics == nil || snap.Statistics.EpisodicCount != 1 || snap.Statistics.SemanticCount != 1 {
		t.Errorf("expected statistics to reflect the exported records, got %+v", snap.Statistics)
	}

	dst := newTestStore(t)
	result := dst.Import(snap)
	if result.EpisodicImported != 1 {
		t.Errorf("expected 1 episodic imported, got %d", result.EpisodicImported)
	}
	if result.SemanticImported != 1 {
		t.Errorf("expected 1 semantic imported, got %d", result.SemanticImported)
	}
	if len(result.Errors) != 0 {
		t.Errorf("expected no import errors, got %v", result.Errors)
	}
}
