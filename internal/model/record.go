// Package model defines the three memory-record kinds the store
// persists: episodic, semantic, and procedural.
package model

import (
	"encoding/json"
	"time"
)

// JSONValue is an opaque structured value preserved verbatim through
// a single JSON TEXT column. The store never interprets its contents.
type JSONValue struct {
	raw json.RawMessage
}

// NewJSONValue wraps an already-decoded Go value (map, slice, struct)
// as a JSONValue, marshaling it once up front.
func NewJSONValue(v interface{}) (JSONValue, error) {
	if v == nil {
		return JSONValue{}, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return JSONValue{}, err
	}
	return JSONValue{raw: b}, nil
}

// IsZero reports whether the value carries no data.
func (j JSONValue) IsZero() bool {
	return len(j.raw) == 0
}

// Raw returns the underlying JSON bytes, or nil if empty.
func (j JSONValue) Raw() json.RawMessage {
	return j.raw
}

// MarshalJSON implements json.Marshaler.
func (j JSONValue) MarshalJSON() ([]byte, error) {
	if len(j.raw) == 0 {
		return []byte("null"), nil
	}
	return j.raw, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (j *JSONValue) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		j.raw = nil
		return nil
	}
	j.raw = append(json.RawMessage(nil), data...)
	return nil
}

// Decode unmarshals the stored value into dst.
func (j JSONValue) Decode(dst interface{}) error {
	if len(j.raw) == 0 {
		return nil
	}
	return json.Unmarshal(j.raw, dst)
}

// Kind identifies which of the three disjoint memory kinds a record is.
type Kind string

const (
	KindEpisodic   Kind = "episodic"
	KindSemantic   Kind = "semantic"
	KindProcedural Kind = "procedural"
)

// StringSet is a set of strings with no intrinsic order. It is
// persisted as a JSON array; exported order is not contractual.
type StringSet []string

// IntSet is a set of integer identifiers, used for weak references
// such as semantic.linked_episodes.
type IntSet []int64

// Episodic is a time-stamped event record.
type Episodic struct {
	ID                  int64
	Timestamp           time.Time
	DurationSeconds     *float64
	EventDescription    string
	Context             string
	Participants        StringSet
	Location            string
	SensoryData         JSONValue
	Observations        string
	ImportanceScore     float64
	EmotionalValence    float64
	Tags                StringSet
	Categories          StringSet
	AssociatedConcepts  StringSet
	RetrievalCount      int
	LastAccessed        *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Semantic is a named concept with a definition and confidence.
type Semantic struct {
	ID              int64
	ConceptName     string
	Definition      string
	Properties      JSONValue
	Relationships   JSONValue
	ConfidenceScore float64
	Source          string
	Evidence        string
	Tags            StringSet
	Categories      StringSet
	LinkedEpisodes  IntSet
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Procedural is a named workflow of ordered steps with execution
// statistics.
type Procedural struct {
	ID                      int64
	ProcedureName           string
	Description             string
	Purpose                 string
	Steps                   []string
	Parameters              JSONValue
	SuccessRate             float64
	ExecutionCount          int
	AverageDurationSeconds  *float64
	Prerequisites           StringSet
	Dependencies            string
	Tags                    StringSet
	Categories              StringSet
	LastExecuted            *time.Time
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// Default scalar values per spec.md §3.
const (
	DefaultImportanceScore  = 50.0
	DefaultEmotionalValence = 0.0
	DefaultConfidenceScore  = 0.5
	DefaultSuccessRate      = 0.0
)
