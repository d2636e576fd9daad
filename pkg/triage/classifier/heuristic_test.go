package classifier

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"ai-triage-be/pkg/triage"
)

func TestClassifyKeywordTiers(t *testing.T) {
	h := NewHeuristic()

	tests := []struct {
		name       string
		text       string
		risk       triage.RiskLevel
		confidence float64
	}{
		{"critical chest pain", "dor no peito", triage.RiskRed, 92},
		{"critical shortness of breath", "sinto falta de ar desde ontem", triage.RiskRed, 92},
		{"amplifier high fever", "febre alta há dois dias", triage.RiskOrange, 80},
		{"amplifier strong pain", "dor muito forte na perna", triage.RiskOrange, 80},
		{"moderate fever", "febre", triage.RiskYellow, 70},
		{"moderate dizziness", "estou com tontura", triage.RiskYellow, 70},
		{"unmatched text", "unha quebrada", triage.RiskGreen, 65},
		{"empty text", "", triage.RiskGreen, 50},
		{"whitespace only", "   ", triage.RiskGreen, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			risk, conf := h.Classify(tt.text)
			assert.Equal(t, tt.risk, risk)
			assert.Equal(t, tt.confidence, conf)
		})
	}
}

func TestClassifyHigherSeverityWins(t *testing.T) {
	h := NewHeuristic()

	// Both a critical and a moderate keyword: critical tier wins.
	risk, conf := h.Classify("febre e dor no peito")
	assert.Equal(t, triage.RiskRed, risk)
	assert.Equal(t, 92.0, conf)

	// "febre alta" contains "febre" but the amplifier tier is checked first.
	risk, conf = h.Classify("febre alta")
	assert.Equal(t, triage.RiskOrange, risk)
	assert.Equal(t, 80.0, conf)
}

func TestClassifyCaseInsensitive(t *testing.T) {
	h := NewHeuristic()

	risk, _ := h.Classify("DOR NO PEITO")
	assert.Equal(t, triage.RiskRed, risk)
}

func TestClassifyIdempotent(t *testing.T) {
	h := NewHeuristic()

	for i := 0; i < 10; i++ {
		risk, conf := h.Classify("febre")
		assert.Equal(t, triage.RiskYellow, risk)
		assert.Equal(t, 70.0, conf)
	}
}

func TestAnalyzeSummaryCap(t *testing.T) {
	h := NewHeuristic()

	long := ""
	for i := 0; i < 50; i++ {
		long += "dor moderada "
	}

	result := h.Analyze(long)
	assert.Equal(t, triage.RiskYellow, result.RiskLevel)
	assert.LessOrEqual(t, len(result.SymptomsSummary), 200)
	assert.Equal(t, triage.DegradationNone, result.Degradation)
}

func TestAnalyzeSummaryCapOnRuneBoundary(t *testing.T) {
	h := NewHeuristic()

	// "ã" occupies bytes 199-200, so a byte-index cut would land mid-rune;
	// the cap backs off to the previous rune boundary instead.
	long := strings.Repeat("x", 194) + "pressão alta"
	result := h.Analyze(long)

	assert.True(t, utf8.ValidString(result.SymptomsSummary))
	assert.LessOrEqual(t, len(result.SymptomsSummary), 200)
}
