package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ai-triage-be/pkg/triage"
)

func TestDecideImmediate(t *testing.T) {
	p := NewDefault()

	// Red forces immediate at any confidence.
	for _, conf := range []float64{0, 50, 70, 92, 100} {
		assert.Equal(t, triage.ActionImmediate, p.Decide(triage.RiskRed, conf))
	}

	// Sub-60 confidence forces immediate regardless of risk.
	for _, risk := range []triage.RiskLevel{triage.RiskGreen, triage.RiskYellow, triage.RiskOrange, triage.RiskRed} {
		assert.Equal(t, triage.ActionImmediate, p.Decide(risk, 59.9))
		assert.Equal(t, triage.ActionImmediate, p.Decide(risk, 0))
	}
}

func TestDecideDirect(t *testing.T) {
	p := NewDefault()

	assert.Equal(t, triage.ActionDirect, p.Decide(triage.RiskGreen, 86))
	assert.Equal(t, triage.ActionDirect, p.Decide(triage.RiskGreen, 100))
	assert.Equal(t, triage.ActionDirect, p.Decide(triage.RiskYellow, 90))

	// Boundary: exactly 85 is not "above 85", so it stays in review.
	assert.Equal(t, triage.ActionReview, p.Decide(triage.RiskGreen, 85))
	assert.Equal(t, triage.ActionReview, p.Decide(triage.RiskYellow, 85))
}

func TestDecideReview(t *testing.T) {
	p := NewDefault()

	assert.Equal(t, triage.ActionReview, p.Decide(triage.RiskGreen, 60))
	assert.Equal(t, triage.ActionReview, p.Decide(triage.RiskYellow, 70))
	assert.Equal(t, triage.ActionReview, p.Decide(triage.RiskOrange, 80))

	// High-confidence Orange never releases directly.
	assert.Equal(t, triage.ActionReview, p.Decide(triage.RiskOrange, 95))
}

func TestDecideIsTotal(t *testing.T) {
	p := NewDefault()

	for _, risk := range []triage.RiskLevel{triage.RiskGreen, triage.RiskYellow, triage.RiskOrange, triage.RiskRed} {
		for conf := 0.0; conf <= 100; conf += 0.5 {
			action := p.Decide(risk, conf)
			assert.Contains(t, []triage.Action{triage.ActionDirect, triage.ActionReview, triage.ActionImmediate}, action)

			// Partition check: exactly one rule applies.
			switch {
			case risk == triage.RiskRed || conf < 60:
				assert.Equal(t, triage.ActionImmediate, action)
			case conf > 85 && risk <= triage.RiskYellow:
				assert.Equal(t, triage.ActionDirect, action)
			default:
				assert.Equal(t, triage.ActionReview, action)
			}
		}
	}
}

func TestStatusFor(t *testing.T) {
	p := NewDefault()

	assert.Equal(t, triage.StatusFinalized, p.StatusFor(triage.ActionDirect))
	assert.Equal(t, triage.StatusUnderReview, p.StatusFor(triage.ActionReview))
	assert.Equal(t, triage.StatusUnderReview, p.StatusFor(triage.ActionImmediate))
}

func TestTerminates(t *testing.T) {
	p := NewDefault()

	assert.True(t, p.Terminates(triage.RiskRed, 10))
	assert.True(t, p.Terminates(triage.RiskGreen, 90))
	assert.False(t, p.Terminates(triage.RiskGreen, 85))
	assert.False(t, p.Terminates(triage.RiskYellow, 70))
}
