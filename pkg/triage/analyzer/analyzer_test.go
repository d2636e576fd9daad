package analyzer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-triage-be/pkg/llm"
	"ai-triage-be/pkg/triage"
)

// stubProvider returns a canned response or error and records the prompt.
type stubProvider struct {
	response   string
	err        error
	lastPrompt string
	calls      int
}

func (s *stubProvider) Chat(_ context.Context, history []llm.Message, _ ...llm.Option) (string, error) {
	s.calls++
	if len(history) > 0 {
		s.lastPrompt = history[len(history)-1].Content
	}
	return s.response, s.err
}

func (s *stubProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return s.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

const validResponse = `{
	"risk_level": "Laranja",
	"confidence": 78,
	"reasoning": "Febre alta persistente com sinais de desidratação.",
	"recommendation": "Procure avaliação médica hoje.",
	"next_action": "review",
	"symptoms_summary": "Febre alta há 3 dias, pouca ingestão de líquidos.",
	"priority_score": 70
}`

func newTestAnalyzer(p llm.Provider) *Analyzer {
	return New(p, DefaultFallbackProfiles(), time.Second)
}

func TestAnalyzeSuccess(t *testing.T) {
	provider := &stubProvider{response: validResponse}
	a := newTestAnalyzer(provider)

	result := a.Analyze(context.Background(), "febre alta há 3 dias", nil)
	require.NotNil(t, result)

	assert.Equal(t, triage.RiskOrange, result.RiskLevel)
	assert.Equal(t, 78.0, result.Confidence)
	assert.Equal(t, triage.ActionReview, result.NextAction)
	assert.Equal(t, 70.0, result.PriorityScore)
	assert.Equal(t, triage.DegradationNone, result.Degradation)
	assert.Empty(t, result.TriageCode)
}

func TestAnalyzeEmbedsPatientContext(t *testing.T) {
	provider := &stubProvider{response: validResponse}
	a := newTestAnalyzer(provider)

	a.Analyze(context.Background(), "febre", &triage.PatientContext{
		Age:       34,
		BloodType: "O+",
		Allergies: "dipirona",
	})

	assert.Contains(t, provider.lastPrompt, "Idade: 34")
	assert.Contains(t, provider.lastPrompt, "Tipo sanguíneo: O+")
	assert.Contains(t, provider.lastPrompt, "Alergias: dipirona")
}

func TestAnalyzeUnknownPlaceholders(t *testing.T) {
	provider := &stubProvider{response: validResponse}
	a := newTestAnalyzer(provider)

	a.Analyze(context.Background(), "febre", nil)

	// Missing attributes are explicit placeholders, never omitted.
	assert.Contains(t, provider.lastPrompt, "Idade: não informada")
	assert.Contains(t, provider.lastPrompt, "Tipo sanguíneo: não informado")
	assert.Contains(t, provider.lastPrompt, "Alergias: nenhuma conhecida")
}

func TestAnalyzeMalformedOutputFallback(t *testing.T) {
	cases := []string{
		"I think this patient should see a doctor.",
		`{"risk_level": "Purple", "confidence": 70, "reasoning": "x", "recommendation": "y", "next_action": "review", "symptoms_summary": "s", "priority_score": 50}`,
		`{"risk_level": "Verde", "confidence": 170, "reasoning": "x", "recommendation": "y", "next_action": "review", "symptoms_summary": "s", "priority_score": 50}`,
		`{"risk_level": "Verde", "confidence": 70, "reasoning": "x", "recommendation": "y", "next_action": "escalate", "symptoms_summary": "s", "priority_score": 50}`,
		`{"risk_level": "Verde"`,
	}

	for _, response := range cases {
		provider := &stubProvider{response: response}
		a := newTestAnalyzer(provider)

		result := a.Analyze(context.Background(), "dor de cabeça", nil)
		require.NotNil(t, result)

		assert.Equal(t, triage.RiskYellow, result.RiskLevel)
		assert.Equal(t, 50.0, result.Confidence)
		assert.Equal(t, triage.ActionReview, result.NextAction)
		assert.Equal(t, 50.0, result.PriorityScore)
		assert.Equal(t, triage.DegradationMalformed, result.Degradation)
	}
}

func TestAnalyzeTransportFailureFallback(t *testing.T) {
	provider := &stubProvider{err: errors.New("connection refused")}
	a := newTestAnalyzer(provider)

	result := a.Analyze(context.Background(), "dor no peito", nil)
	require.NotNil(t, result)

	// Unavailability is safety-biased: never a direct release.
	assert.Equal(t, triage.RiskYellow, result.RiskLevel)
	assert.Equal(t, 0.0, result.Confidence)
	assert.Equal(t, triage.ActionImmediate, result.NextAction)
	assert.Equal(t, 75.0, result.PriorityScore)
	assert.Equal(t, "TRI-ERROR-001", result.TriageCode)
	assert.Equal(t, triage.DegradationUnavailable, result.Degradation)
}

func TestAnalyzeSingleAttempt(t *testing.T) {
	provider := &stubProvider{err: errors.New("timeout")}
	a := newTestAnalyzer(provider)

	a.Analyze(context.Background(), "febre", nil)
	assert.Equal(t, 1, provider.calls)
}

func TestAnalyzeSummaryTruncation(t *testing.T) {
	provider := &stubProvider{err: errors.New("down")}
	a := newTestAnalyzer(provider)

	long := strings.Repeat("sintoma ", 60)
	result := a.Analyze(context.Background(), long, nil)

	assert.Len(t, result.SymptomsSummary, 200)
}

func TestAnalyzeSummaryTruncationKeepsRunesIntact(t *testing.T) {
	provider := &stubProvider{err: errors.New("down")}
	a := newTestAnalyzer(provider)

	// "ç" is two bytes and straddles the 200-byte cap.
	long := strings.Repeat("a", 199) + "ção no peito"
	result := a.Analyze(context.Background(), long, nil)

	assert.True(t, utf8.ValidString(result.SymptomsSummary))
	assert.Equal(t, strings.Repeat("a", 199), result.SymptomsSummary)
}

func TestAnalyzeStripsMarkdownFences(t *testing.T) {
	provider := &stubProvider{response: "```json\n" + validResponse + "\n```"}
	a := newTestAnalyzer(provider)

	result := a.Analyze(context.Background(), "febre alta", nil)
	assert.Equal(t, triage.RiskOrange, result.RiskLevel)
	assert.Equal(t, triage.DegradationNone, result.Degradation)
}

func TestAnalyzeConversationNextQuestion(t *testing.T) {
	withQuestion := `{
		"risk_level": "Amarelo",
		"confidence": 62,
		"reasoning": "Sintomas inespecíficos.",
		"recommendation": "Aguardando mais informações.",
		"next_action": "review",
		"symptoms_summary": "Dor abdominal leve.",
		"priority_score": 40,
		"next_question": "A dor piora depois de comer?"
	}`

	provider := &stubProvider{response: withQuestion}
	a := newTestAnalyzer(provider)

	result := a.AnalyzeConversation(context.Background(), "dor de barriga", nil)
	assert.Equal(t, "A dor piora depois de comer?", result.NextQuestion)
}
