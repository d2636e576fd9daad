package classifier

import (
	"strings"

	"ai-triage-be/pkg/triage"
)

// tier couples a keyword list with the (risk, confidence) it resolves to.
type tier struct {
	keywords   []string
	risk       triage.RiskLevel
	confidence float64
}

// Heuristic is the deterministic keyword classifier used as the fallback
// path and for pre-triage channels without AI access. It is side-effect-free
// and idempotent: the same text always maps to the same result.
type Heuristic struct {
	tiers []tier
}

// NewHeuristic builds the classifier with the standard symptom keyword tiers.
// Tiers are checked in descending severity, so text containing both a
// critical and a moderate keyword resolves to the higher severity.
func NewHeuristic() *Heuristic {
	return &Heuristic{
		tiers: []tier{
			{
				keywords:   []string{"dor no peito", "falta de ar", "desmaio", "inconsciente", "hemorragia"},
				risk:       triage.RiskRed,
				confidence: 92,
			},
			{
				keywords:   []string{"febre alta", "forte", "muito"},
				risk:       triage.RiskOrange,
				confidence: 80,
			},
			{
				keywords:   []string{"febre", "dor moderada", "tontura"},
				risk:       triage.RiskYellow,
				confidence: 70,
			},
		},
	}
}

// Classify scans the lower-cased text once per tier and returns the first
// matching tier's risk and confidence. Non-matching non-empty text is
// (Green, 65); empty text is (Green, 50).
func (h *Heuristic) Classify(text string) (triage.RiskLevel, float64) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return triage.RiskGreen, 50
	}

	lowered := strings.ToLower(trimmed)
	for _, t := range h.tiers {
		for _, kw := range t.keywords {
			if strings.Contains(lowered, kw) {
				return t.risk, t.confidence
			}
		}
	}

	return triage.RiskGreen, 65
}

// Analyze wraps Classify into a full ClassificationResult so the heuristic
// can stand in for the AI adapter on channels without AI access.
func (h *Heuristic) Analyze(text string) *triage.ClassificationResult {
	risk, confidence := h.Classify(text)

	return &triage.ClassificationResult{
		RiskLevel:       risk,
		Confidence:      confidence,
		Reasoning:       "keyword-tier heuristic classification",
		Recommendation:  recommendationFor(risk),
		SymptomsSummary: triage.SummarizeSymptoms(text),
		PriorityScore:   confidence,
		Degradation:     triage.DegradationNone,
	}
}

func recommendationFor(risk triage.RiskLevel) string {
	switch risk {
	case triage.RiskRed:
		return "Procure atendimento de emergência imediatamente."
	case triage.RiskOrange:
		return "Procure avaliação médica o quanto antes."
	case triage.RiskYellow:
		return "Agende uma avaliação médica."
	default:
		return "Monitore os sintomas e procure atendimento se piorarem."
	}
}
