package session

import (
	"context"
	"strings"

	"ai-triage-be/pkg/triage"
	"ai-triage-be/pkg/triage/analyzer"
	"ai-triage-be/pkg/triage/classifier"
	"ai-triage-be/pkg/triage/policy"
)

// Step names the position of a conversation session in the intake dialogue.
type Step string

const (
	StepStart                Step = "start"
	StepCollectingSymptoms   Step = "collecting_symptoms"
	StepAwaitingConfirmation Step = "awaiting_confirmation"
	StepClassifying          Step = "classifying"
	StepReleased             Step = "released"
	StepUnderReview          Step = "under_review"
	StepClosed               Step = "closed"
)

// Terminal reports whether no further inbound message can move the session.
func (s Step) Terminal() bool {
	return s == StepReleased || s == StepUnderReview || s == StepClosed
}

// DefaultMaxTurns bounds how many inbound messages are accumulated before
// the dialogue is forced toward classification.
const DefaultMaxTurns = 5

const defaultNextQuestion = "Pode descrever melhor seus sintomas? Desde quando você os sente?"

// State is the working snapshot of one conversation session. The service
// layer owns persistence; the machine only mutates this snapshot.
type State struct {
	Contact         string
	Step            Step
	AccumulatedText string
	Turns           int
	Patient         *triage.PatientContext
}

// Outcome describes the effect of one inbound message.
type Outcome struct {
	Analysis *triage.ClassificationResult // produced this turn, nil only for bare confirmations
	Ask      string                       // next question to relay, empty once terminal
	Terminal bool
	Action   triage.Action // set when Terminal
	Status   triage.Status // set when Terminal
}

// Machine drives the multi-turn intake dialogue:
// start -> collecting_symptoms -> awaiting_confirmation -> classifying ->
// released | under_review, with closed absorbing from anywhere on timeout.
type Machine struct {
	analyzer  *analyzer.Analyzer
	heuristic *classifier.Heuristic
	policy    *policy.Policy
	maxTurns  int
}

func NewMachine(a *analyzer.Analyzer, h *classifier.Heuristic, p *policy.Policy, maxTurns int) *Machine {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	return &Machine{
		analyzer:  a,
		heuristic: h,
		policy:    p,
		maxTurns:  maxTurns,
	}
}

// Advance feeds one inbound message into the session. Callers must hold the
// per-contact lock; the machine itself does no synchronization.
func (m *Machine) Advance(ctx context.Context, st *State, message string) (*Outcome, error) {
	if st.Step.Terminal() {
		return nil, triage.ErrSessionClosed
	}

	switch st.Step {
	case StepStart, "":
		st.Step = StepCollectingSymptoms
		return m.collect(ctx, st, message)
	case StepCollectingSymptoms:
		return m.collect(ctx, st, message)
	case StepAwaitingConfirmation:
		return m.confirm(ctx, st, message)
	default:
		return nil, triage.ErrSessionClosed
	}
}

func (m *Machine) collect(ctx context.Context, st *State, message string) (*Outcome, error) {
	m.accumulate(st, message)

	result := m.analyze(ctx, st)

	if m.policy.Terminates(result.RiskLevel, result.Confidence) {
		return m.classify(st, result), nil
	}

	if st.Turns >= m.maxTurns {
		// Out of questions without a decisive analysis: ask the contact to
		// confirm the summary before classification rather than classifying
		// on a weak result silently.
		st.Step = StepAwaitingConfirmation
		return &Outcome{
			Analysis: result,
			Ask:      confirmationQuestion(result),
		}, nil
	}

	ask := result.NextQuestion
	if ask == "" {
		ask = defaultNextQuestion
	}
	return &Outcome{Analysis: result, Ask: ask}, nil
}

func (m *Machine) confirm(ctx context.Context, st *State, message string) (*Outcome, error) {
	if isAffirmative(message) {
		st.Step = StepClassifying
		result := m.analyze(ctx, st)
		return m.classify(st, result), nil
	}

	// Anything else is treated as additional symptom detail.
	st.Step = StepCollectingSymptoms
	return m.collect(ctx, st, message)
}

// classify runs the escalation policy on the latest analysis and moves the
// session to its terminal step.
func (m *Machine) classify(st *State, result *triage.ClassificationResult) *Outcome {
	st.Step = StepClassifying

	action := m.policy.Decide(result.RiskLevel, result.Confidence)
	status := m.policy.StatusFor(action)

	if action == triage.ActionDirect {
		st.Step = StepReleased
	} else {
		st.Step = StepUnderReview
	}

	return &Outcome{
		Analysis: result,
		Terminal: true,
		Action:   action,
		Status:   status,
	}
}

// analyze invokes the AI adapter on the accumulated text, substituting the
// heuristic classifier when the backend is unavailable so the dialogue can
// still progress during an outage.
func (m *Machine) analyze(ctx context.Context, st *State) *triage.ClassificationResult {
	result := m.analyzer.AnalyzeConversation(ctx, st.AccumulatedText, st.Patient)
	if result.Degradation == triage.DegradationUnavailable && m.heuristic != nil {
		substitute := m.heuristic.Analyze(st.AccumulatedText)
		substitute.Degradation = triage.DegradationUnavailable
		return substitute
	}
	return result
}

func (m *Machine) accumulate(st *State, message string) {
	message = strings.TrimSpace(message)
	if message != "" {
		if st.AccumulatedText != "" {
			st.AccumulatedText += "\n"
		}
		st.AccumulatedText += message
	}
	st.Turns++
}

func confirmationQuestion(result *triage.ClassificationResult) string {
	summary := result.SymptomsSummary
	if summary == "" {
		summary = "os sintomas relatados"
	}
	return "Entendi: " + summary + ". Posso concluir a triagem com essas informações? (sim/não)"
}

var affirmatives = []string{"sim", "s", "yes", "ok", "pode", "confirmo", "correto", "isso"}

func isAffirmative(message string) bool {
	normalized := strings.ToLower(strings.TrimSpace(message))
	for _, a := range affirmatives {
		if normalized == a {
			return true
		}
	}
	return false
}
