package models

// GenerationParams carries the per-request knobs handed to the generation
// model. Each completion mode owns an independent parameter set; nil pointer
// fields mean "use the provider default".
type GenerationParams struct {
	Model           string
	MaxOutputTokens int32
	Temperature     *float32
	TopP            *float32
	TopK            *float32
	CandidateCount  int32
	StopSequences   []string
	// SafetyThreshold selects the harm-block level applied to every harm
	// category ("none", "only_high", "medium_and_above", "low_and_above").
	// Empty leaves the provider defaults in place.
	SafetyThreshold string
}
