package analyzer

import (
	"ai-triage-be/pkg/triage"
	"ai-triage-be/pkg/triage/code"
)

// FallbackProfile describes the fixed classification applied when the
// primary backend cannot produce a usable result for a given failure kind.
type FallbackProfile struct {
	RiskLevel      triage.RiskLevel
	Confidence     float64
	Reasoning      string
	Recommendation string
	NextAction     triage.Action
	PriorityScore  float64
	TriageCode     string // optional sentinel, empty means generate normally
	Degradation    triage.Degradation
}

// FallbackProfiles is the configuration table of profiles keyed by failure
// kind. Injected into the Analyzer so each profile is testable in isolation.
type FallbackProfiles struct {
	Malformed   FallbackProfile
	Unavailable FallbackProfile
}

// DefaultFallbackProfiles returns the standard safety-biased table:
// malformed output degrades to a mid-confidence review, backend
// unavailability forces immediate in-person triage and never yields a
// direct release.
func DefaultFallbackProfiles() FallbackProfiles {
	return FallbackProfiles{
		Malformed: FallbackProfile{
			RiskLevel:      triage.RiskYellow,
			Confidence:     50,
			Reasoning:      "Erro na análise automática",
			Recommendation: "Procure avaliação médica presencial",
			NextAction:     triage.ActionReview,
			PriorityScore:  50,
			Degradation:    triage.DegradationMalformed,
		},
		Unavailable: FallbackProfile{
			RiskLevel:      triage.RiskYellow,
			Confidence:     0,
			Reasoning:      "Erro no sistema de IA",
			Recommendation: "Sistema temporariamente indisponível. Procure triagem presencial.",
			NextAction:     triage.ActionImmediate,
			PriorityScore:  75,
			TriageCode:     code.SentinelError,
			Degradation:    triage.DegradationUnavailable,
		},
	}
}

// apply builds a fresh ClassificationResult from the profile, summarizing
// the raw symptom text with the standard cap.
func (p FallbackProfile) apply(symptomsText string) *triage.ClassificationResult {
	summary := triage.SummarizeSymptoms(symptomsText)

	return &triage.ClassificationResult{
		RiskLevel:       p.RiskLevel,
		Confidence:      p.Confidence,
		Reasoning:       p.Reasoning,
		Recommendation:  p.Recommendation,
		NextAction:      p.NextAction,
		SymptomsSummary: summary,
		PriorityScore:   p.PriorityScore,
		TriageCode:      p.TriageCode,
		Degradation:     p.Degradation,
	}
}
