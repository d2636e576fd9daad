package code

import (
	"math/rand"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"ai-triage-be/pkg/triage"
)

var codePattern = regexp.MustCompile(`^TRI-[VALR][HML]-\d{4}$`)

func TestGenerateFormat(t *testing.T) {
	g := NewGenerator(rand.New(rand.NewSource(1)))

	for _, risk := range []triage.RiskLevel{triage.RiskGreen, triage.RiskYellow, triage.RiskOrange, triage.RiskRed} {
		for _, conf := range []float64{0, 59.9, 60, 75, 80, 80.1, 100} {
			code := g.Generate(risk, conf)
			assert.Regexp(t, codePattern, code)
		}
	}
}

func TestGenerateRiskPrefixes(t *testing.T) {
	g := NewGenerator(rand.New(rand.NewSource(1)))

	assert.Equal(t, byte('V'), g.Generate(triage.RiskGreen, 90)[4])
	assert.Equal(t, byte('A'), g.Generate(triage.RiskYellow, 90)[4])
	assert.Equal(t, byte('L'), g.Generate(triage.RiskOrange, 90)[4])
	assert.Equal(t, byte('R'), g.Generate(triage.RiskRed, 90)[4])
}

func TestGenerateConfidenceBands(t *testing.T) {
	g := NewGenerator(rand.New(rand.NewSource(1)))

	assert.Equal(t, byte('H'), g.Generate(triage.RiskGreen, 81)[5])
	assert.Equal(t, byte('M'), g.Generate(triage.RiskGreen, 80)[5])
	assert.Equal(t, byte('M'), g.Generate(triage.RiskGreen, 60)[5])
	assert.Equal(t, byte('L'), g.Generate(triage.RiskGreen, 59.9)[5])
	assert.Equal(t, byte('L'), g.Generate(triage.RiskGreen, 0)[5])
}

func TestGenerateReproducibleWithSeed(t *testing.T) {
	a := NewGenerator(rand.New(rand.NewSource(42)))
	b := NewGenerator(rand.New(rand.NewSource(42)))

	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Generate(triage.RiskRed, 92), b.Generate(triage.RiskRed, 92))
	}
}
