package session

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-triage-be/pkg/llm"
	"ai-triage-be/pkg/triage"
	"ai-triage-be/pkg/triage/analyzer"
	"ai-triage-be/pkg/triage/classifier"
	"ai-triage-be/pkg/triage/policy"
)

// scriptedProvider returns one canned response per call, in order.
type scriptedProvider struct {
	responses []string
	errs      []error
	call      int
}

func (s *scriptedProvider) Chat(_ context.Context, _ []llm.Message, _ ...llm.Option) (string, error) {
	i := s.call
	s.call++
	if i >= len(s.responses) {
		i = len(s.responses) - 1
	}
	var err error
	if i < len(s.errs) {
		err = s.errs[i]
	}
	return s.responses[i], err
}

func (s *scriptedProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return s.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

func analysisJSON(risk string, confidence float64, question string) string {
	return fmt.Sprintf(`{
		"risk_level": %q,
		"confidence": %v,
		"reasoning": "análise parcial",
		"recommendation": "continuar coleta",
		"next_action": "review",
		"symptoms_summary": "sintomas relatados",
		"priority_score": %v,
		"next_question": %q
	}`, risk, confidence, confidence, question)
}

func newTestMachine(p llm.Provider, maxTurns int) *Machine {
	a := analyzer.New(p, analyzer.DefaultFallbackProfiles(), time.Second)
	return NewMachine(a, classifier.NewHeuristic(), policy.NewDefault(), maxTurns)
}

func TestAdvanceFirstMessageMovesToCollecting(t *testing.T) {
	provider := &scriptedProvider{responses: []string{analysisJSON("Amarelo", 62, "Desde quando?")}}
	m := newTestMachine(provider, 5)

	st := &State{Contact: "+5511999990000", Step: StepStart}
	out, err := m.Advance(context.Background(), st, "estou com dor de cabeça")
	require.NoError(t, err)

	assert.Equal(t, StepCollectingSymptoms, st.Step)
	assert.False(t, out.Terminal)
	assert.Equal(t, "Desde quando?", out.Ask)
	assert.Equal(t, 1, st.Turns)
	assert.Contains(t, st.AccumulatedText, "dor de cabeça")
}

func TestAdvanceAccumulatesAcrossTurns(t *testing.T) {
	provider := &scriptedProvider{responses: []string{
		analysisJSON("Amarelo", 60, "Há quanto tempo?"),
		analysisJSON("Amarelo", 70, "Tem febre?"),
	}}
	m := newTestMachine(provider, 5)

	st := &State{Contact: "c", Step: StepStart}
	_, err := m.Advance(context.Background(), st, "dor de cabeça")
	require.NoError(t, err)
	_, err = m.Advance(context.Background(), st, "começou ontem")
	require.NoError(t, err)

	assert.Equal(t, 2, st.Turns)
	assert.Contains(t, st.AccumulatedText, "dor de cabeça")
	assert.Contains(t, st.AccumulatedText, "começou ontem")
}

// A session accumulates three inconclusive turns; the fourth-turn analysis
// crosses the direct threshold and the session classifies and releases.
func TestAdvanceReleasesWhenConfidenceCrossesThreshold(t *testing.T) {
	provider := &scriptedProvider{responses: []string{
		analysisJSON("Verde", 65, "Pergunta 1?"),
		analysisJSON("Verde", 70, "Pergunta 2?"),
		analysisJSON("Verde", 80, "Pergunta 3?"),
		analysisJSON("Verde", 90, ""),
	}}
	m := newTestMachine(provider, 10)

	st := &State{Contact: "c", Step: StepStart}
	var out *Outcome
	var err error
	for _, msg := range []string{"turno 1", "turno 2", "turno 3"} {
		out, err = m.Advance(context.Background(), st, msg)
		require.NoError(t, err)
		assert.False(t, out.Terminal)
		assert.NotEmpty(t, out.Ask)
	}

	out, err = m.Advance(context.Background(), st, "turno 4")
	require.NoError(t, err)

	assert.True(t, out.Terminal)
	assert.Equal(t, triage.ActionDirect, out.Action)
	assert.Equal(t, triage.StatusFinalized, out.Status)
	assert.Equal(t, StepReleased, st.Step)

	// Terminal state absorbs: further messages are rejected.
	_, err = m.Advance(context.Background(), st, "mais uma mensagem")
	assert.ErrorIs(t, err, triage.ErrSessionClosed)
}

func TestAdvanceRedTerminatesImmediately(t *testing.T) {
	provider := &scriptedProvider{responses: []string{analysisJSON("Vermelho", 92, "")}}
	m := newTestMachine(provider, 5)

	st := &State{Contact: "c", Step: StepStart}
	out, err := m.Advance(context.Background(), st, "dor no peito e falta de ar")
	require.NoError(t, err)

	assert.True(t, out.Terminal)
	assert.Equal(t, triage.ActionImmediate, out.Action)
	assert.Equal(t, triage.StatusUnderReview, out.Status)
	assert.Equal(t, StepUnderReview, st.Step)
}

func TestAdvanceMaxTurnsAsksForConfirmation(t *testing.T) {
	provider := &scriptedProvider{responses: []string{
		analysisJSON("Amarelo", 62, "Pergunta?"),
		analysisJSON("Amarelo", 64, "Pergunta?"),
	}}
	m := newTestMachine(provider, 2)

	st := &State{Contact: "c", Step: StepStart}
	_, err := m.Advance(context.Background(), st, "turno 1")
	require.NoError(t, err)

	out, err := m.Advance(context.Background(), st, "turno 2")
	require.NoError(t, err)

	assert.False(t, out.Terminal)
	assert.Equal(t, StepAwaitingConfirmation, st.Step)
	assert.Contains(t, out.Ask, "Posso concluir a triagem")
}

func TestConfirmationYesClassifies(t *testing.T) {
	provider := &scriptedProvider{responses: []string{
		analysisJSON("Amarelo", 62, "Pergunta?"),
		analysisJSON("Amarelo", 64, "Pergunta?"),
	}}
	m := newTestMachine(provider, 1)

	st := &State{Contact: "c", Step: StepStart}
	_, err := m.Advance(context.Background(), st, "dor moderada")
	require.NoError(t, err)
	require.Equal(t, StepAwaitingConfirmation, st.Step)

	out, err := m.Advance(context.Background(), st, "sim")
	require.NoError(t, err)

	assert.True(t, out.Terminal)
	assert.Equal(t, triage.ActionReview, out.Action)
	assert.Equal(t, triage.StatusUnderReview, out.Status)
	assert.Equal(t, StepUnderReview, st.Step)
}

func TestConfirmationNewDetailReturnsToCollecting(t *testing.T) {
	provider := &scriptedProvider{responses: []string{
		analysisJSON("Amarelo", 62, "Pergunta?"),
		analysisJSON("Vermelho", 92, ""),
	}}
	m := newTestMachine(provider, 1)

	st := &State{Contact: "c", Step: StepStart}
	_, err := m.Advance(context.Background(), st, "dor moderada")
	require.NoError(t, err)
	require.Equal(t, StepAwaitingConfirmation, st.Step)

	// A non-confirmation reply carries new symptom detail and re-analyzes.
	out, err := m.Advance(context.Background(), st, "agora estou com dor no peito")
	require.NoError(t, err)

	assert.True(t, out.Terminal)
	assert.Equal(t, triage.ActionImmediate, out.Action)
	assert.Contains(t, st.AccumulatedText, "dor no peito")
}

func TestAdvanceUsesHeuristicWhenBackendDown(t *testing.T) {
	provider := &scriptedProvider{
		responses: []string{""},
		errs:      []error{errors.New("connection refused")},
	}
	m := newTestMachine(provider, 5)

	st := &State{Contact: "c", Step: StepStart}
	out, err := m.Advance(context.Background(), st, "dor no peito")
	require.NoError(t, err)

	// Heuristic substitution: critical keyword still ends the dialogue.
	require.NotNil(t, out.Analysis)
	assert.Equal(t, triage.RiskRed, out.Analysis.RiskLevel)
	assert.Equal(t, triage.DegradationUnavailable, out.Analysis.Degradation)
	assert.True(t, out.Terminal)
	assert.Equal(t, triage.ActionImmediate, out.Action)
}

func TestMemoryLockerConflict(t *testing.T) {
	l := NewMemoryLocker()

	release, err := l.TryLock(context.Background(), "+5511999990000")
	require.NoError(t, err)

	// Second concurrent message for the same session is rejected.
	_, err = l.TryLock(context.Background(), "+5511999990000")
	assert.ErrorIs(t, err, triage.ErrSessionConflict)

	// Other contacts are unaffected.
	release2, err := l.TryLock(context.Background(), "+5511888880000")
	require.NoError(t, err)
	release2()

	release()
	release3, err := l.TryLock(context.Background(), "+5511999990000")
	assert.NoError(t, err)
	release3()
}
