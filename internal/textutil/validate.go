package textutil

import "fmt"

// Validate checks required fields and bounded scalars for one of the
// three memory kinds and returns (ok, message). A non-empty message is
// only meaningful when ok is false.

// EpisodicInput is the subset of episodic fields validation inspects.
type EpisodicInput struct {
	Timestamp        string
	EventDescription string
	ImportanceScore  *float64
	EmotionalValence *float64
}

// ValidateEpisodic validates an episodic insert/update payload.
func ValidateEpisodic(in EpisodicInput) (bool, string) {
	if in.EventDescription == "" {
		return false, "missing required field: event_description"
	}
	if in.Timestamp == "" {
		return false, "missing required field: timestamp"
	}
	if _, err := ParseISO8601(in.Timestamp); err != nil {
		return false, "invalid timestamp format, expected ISO-8601 (YYYY-MM-DDTHH:MM:SS)"
	}
	if in.ImportanceScore != nil {
		if *in.ImportanceScore < 0 || *in.ImportanceScore > 100 {
			return false, "importance score must be between 0 and 100"
		}
	}
	if in.EmotionalValence != nil {
		if *in.EmotionalValence < -1 || *in.EmotionalValence > 1 {
			return false, "emotional valence must be between -1 and 1"
		}
	}
	return true, ""
}

// SemanticInput is the subset of semantic fields validation inspects.
type SemanticInput struct {
	ConceptName     string
	Definition      string
	ConfidenceScore *float64
}

// ValidateSemantic validates a semantic insert/update payload.
func ValidateSemantic(in SemanticInput) (bool, string) {
	if in.ConceptName == "" {
		return false, "missing required field: concept_name"
	}
	if in.Definition == "" {
		return false, "missing required field: definition"
	}
	if in.ConfidenceScore != nil {
		if *in.ConfidenceScore < 0 || *in.ConfidenceScore > 1 {
			return false, "confidence score must be between 0 and 1"
		}
	}
	return true, ""
}

// ProceduralInput is the subset of procedural fields validation inspects.
type ProceduralInput struct {
	ProcedureName string
	Description   string
	Steps         []string
	SuccessRate   *float64
}

// ValidateProcedural validates a procedural insert/update payload.
func ValidateProcedural(in ProceduralInput) (bool, string) {
	if in.ProcedureName == "" {
		return false, "missing required field: procedure_name"
	}
	if in.Description == "" {
		return false, "missing required field: description"
	}
	if len(in.Steps) == 0 {
		return false, "steps must be a non-empty sequence"
	}
	if in.SuccessRate != nil {
		if *in.SuccessRate < 0 || *in.SuccessRate > 100 {
			return false, fmt.Sprintf("success rate must be between 0 and 100, got %v", *in.SuccessRate)
		}
	}
	return true, ""
}
