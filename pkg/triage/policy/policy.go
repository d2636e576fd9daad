package policy

import "ai-triage-be/pkg/triage"

// Thresholds parameterize the escalation decision. The defaults reproduce
// the Manchester-derived decision criteria.
type Thresholds struct {
	DirectMinConfidence    float64 // strictly above -> direct eligible
	ImmediateMaxConfidence float64 // strictly below -> immediate forced
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		DirectMinConfidence:    85,
		ImmediateMaxConfidence: 60,
	}
}

// Policy maps (risk, confidence) pairs to an escalation action. It is a
// pure, total function; ties at boundaries resolve toward the more
// conservative action.
type Policy struct {
	thresholds Thresholds
}

func New(thresholds Thresholds) *Policy {
	return &Policy{thresholds: thresholds}
}

func NewDefault() *Policy {
	return New(DefaultThresholds())
}

// Decide returns the escalation action for a classified intake.
// Red risk or sub-60 confidence always forces immediate, regardless of the
// direct rule. Confidence above 85 with Green/Yellow risk releases directly.
// Everything else goes to scheduled review.
func (p *Policy) Decide(risk triage.RiskLevel, confidence float64) triage.Action {
	if risk == triage.RiskRed || confidence < p.thresholds.ImmediateMaxConfidence {
		return triage.ActionImmediate
	}
	if confidence > p.thresholds.DirectMinConfidence && risk <= triage.RiskYellow {
		return triage.ActionDirect
	}
	return triage.ActionReview
}

// StatusFor derives the record status from an action. Review and immediate
// outcomes stay open for an explicit human confirmation; only direct release
// finalizes without sign-off.
func (p *Policy) StatusFor(action triage.Action) triage.Status {
	if action == triage.ActionDirect {
		return triage.StatusFinalized
	}
	return triage.StatusUnderReview
}

// Terminates reports whether an analysis with this confidence can end a
// multi-turn intake dialogue without further questions.
func (p *Policy) Terminates(risk triage.RiskLevel, confidence float64) bool {
	// Red never needs more questions, and confidence above the direct
	// threshold is enough to release.
	return risk == triage.RiskRed || confidence > p.thresholds.DirectMinConfidence
}
