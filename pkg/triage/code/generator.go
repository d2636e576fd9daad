package code

import (
	"fmt"
	"math/rand"
	"sync"

	"ai-triage-be/pkg/triage"
)

// SentinelError is the fixed code attached when the classifier backend is
// unavailable and no real code can be derived.
const SentinelError = "TRI-ERROR-001"

var riskPrefixes = map[triage.RiskLevel]string{
	triage.RiskGreen:  "V",
	triage.RiskYellow: "A",
	triage.RiskOrange: "L",
	triage.RiskRed:    "R",
}

// Generator produces human-facing triage codes in the format
// TRI-{R}{C}-{NNNN}. The random source is explicit so classification and
// code generation stay independently reproducible; codes are labels, not
// primary keys, so suffix collisions within a bucket are acceptable.
type Generator struct {
	mu  sync.Mutex // rand.Rand is not safe for concurrent use
	rng *rand.Rand
}

func NewGenerator(rng *rand.Rand) *Generator {
	return &Generator{rng: rng}
}

// Generate builds a code encoding the risk tier and confidence band.
// Confidence bands: H above 80, M for 60-80, L below 60.
func (g *Generator) Generate(risk triage.RiskLevel, confidence float64) string {
	prefix, ok := riskPrefixes[risk]
	if !ok {
		prefix = "X"
	}

	band := "L"
	switch {
	case confidence > 80:
		band = "H"
	case confidence >= 60:
		band = "M"
	}

	g.mu.Lock()
	suffix := g.rng.Intn(10000)
	g.mu.Unlock()

	return fmt.Sprintf("TRI-%s%s-%04d", prefix, band, suffix)
}
