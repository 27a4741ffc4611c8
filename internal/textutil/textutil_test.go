package textutil

import (
	"testing"
	"time"
)

func TestTokenize(t *testing.T) {
	got := Tokenize("Deployed the Staging-Cluster v2!")
	want := []string{"deployed", "the", "staging", "cluster", "v2"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestJaccardSimilarity(t *testing.T) {
	cases := []struct {
		a, b string
		want float64
	}{
		{"the cat sat", "the cat sat", 1.0},
		{"", "anything", 0.0},
		{"cat dog", "fish bird", 0.0},
	}
	for _, c := range cases {
		got := JaccardSimilarity(c.a, c.b)
		if got != c.want {
			t.Errorf("JaccardSimilarity(%q, %q) = %v, want %v", c.a, c.b, got, c.want)
		}
	}

	// Partial overlap: {cat, dog} vs {cat, bird} -> intersection 1, union 3.
	got := JaccardSimilarity("cat dog", "cat bird")
	want := 1.0 / 3.0
	if got != want {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestTemporalDecay(t *testing.T) {
	now := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	ts := FormatISO8601(now.AddDate(0, 0, -30))

	decayed := TemporalDecay(100, ts, 0.1, 30, now)
	if decayed >= 100 {
		t.Errorf("expected decay to reduce importance below 100, got %v", decayed)
	}
	if decayed <= 0 {
		t.Errorf("expected decay to stay positive, got %v", decayed)
	}
}

func TestTemporalDecayUnparseableTimestampPassesThrough(t *testing.T) {
	got := TemporalDecay(42, "not-a-timestamp", 0.1, 30, time.Now())
	if got != 42 {
		t.Errorf("expected unparseable timestamp to return importance unchanged, got %v", got)
	}
}

func TestValidateEpisodicRequiresFields(t *testing.T) {
	ok, msg := ValidateEpisodic(EpisodicInput{})
	if ok {
		t.Fatal("expected validation to fail on empty input")
	}
	if msg == "" {
		t.Error("expected a non-empty validation message")
	}

	importance := 150.0
	ok, _ = ValidateEpisodic(EpisodicInput{
		Timestamp:        "2026-01-31T00:00:00",
		EventDescription: "test",
		ImportanceScore:  &importance,
	})
	if ok {
		t.Error("expected out-of-range importance to fail validation")
	}
}

func TestValidateProceduralRequiresSteps(t *testing.T) {
	ok, msg := ValidateProcedural(ProceduralInput{
		ProcedureName: "deploy",
		Description:   "deploy the service",
	})
	if ok {
		t.Fatal("expected validation to fail with no steps")
	}
	if msg == "" {
		t.Error("expected a non-empty validation message")
	}
}

func TestExtractKeywords(t *testing.T) {
	text := "the deployment deployment failed because the cluster cluster cluster was unreachable"
	got := ExtractKeywords(text, 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 keywords, got %v", got)
	}
	if got[0] != "cluster" {
		t.Errorf("expected most frequent keyword first, got %q", got[0])
	}
}

func TestExtractKeywordsEmptyText(t *testing.T) {
	if got := ExtractKeywords("", 5); got != nil {
		t.Errorf("expected nil for empty text, got %v", got)
	}
}

func TestMergeTags(t *testing.T) {
	got := MergeTags([]string{"a", "b"}, []string{"b", "c"}, nil)
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected %v, got %v", want, got)
			break
		}
	}
}

func TestParseDateRangeToday(t *testing.T) {
	now := time.Date(2026, 7, 31, 15, 0, 0, 0, time.UTC)
	start, end, ok := ParseDateRange("today", now)
	if !ok {
		t.Fatal("expected today to be recognized")
	}
	if start == "" || end == "" {
		t.Error("expected non-empty bounds")
	}
}

func TestParseDateRangeLastNDays(t *testing.T) {
	now := time.Date(2026, 7, 31, 15, 0, 0, 0, time.UTC)
	start, end, ok := ParseDateRange("last_7_days", now)
	if !ok {
		t.Fatal("expected last_7_days to be recognized")
	}
	if start == "" || end == "" {
		t.Error("expected non-empty bounds")
	}
}

func TestParseDateRangeUnknownPhrase(t *testing.T) {
	_, _, ok := ParseDateRange("next_quarter", time.Now())
	if ok {
		t.Error("expected an unrecognized phrase to return ok=false")
	}
}
