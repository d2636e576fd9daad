package analyzer

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"ai-triage-be/pkg/llm"
	"ai-triage-be/pkg/triage"
)

// DefaultTimeout bounds the single classifier backend attempt.
const DefaultTimeout = 30 * time.Second

// Analyzer wraps the remote language model behind the fixed prompt contract.
// It never propagates a fault past its boundary: every call returns a
// structured ClassificationResult, degraded via the injected fallback
// profiles when the backend misbehaves.
type Analyzer struct {
	provider  llm.Provider
	fallbacks FallbackProfiles
	timeout   time.Duration
}

func New(provider llm.Provider, fallbacks FallbackProfiles, timeout time.Duration) *Analyzer {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Analyzer{
		provider:  provider,
		fallbacks: fallbacks,
		timeout:   timeout,
	}
}

// aiResponse is the required-field schema the backend output is validated
// against before use. The backend is untrusted; anything that does not fit
// this shape degrades to the malformed fallback.
type aiResponse struct {
	RiskLevel       string      `json:"risk_level"`
	Confidence      json.Number `json:"confidence"`
	Reasoning       string      `json:"reasoning"`
	Recommendation  string      `json:"recommendation"`
	NextAction      string      `json:"next_action"`
	SymptomsSummary string      `json:"symptoms_summary"`
	PriorityScore   json.Number `json:"priority_score"`
	NextQuestion    string      `json:"next_question"`
}

// Analyze classifies a single-shot intake.
func (a *Analyzer) Analyze(ctx context.Context, symptomsText string, patient *triage.PatientContext) *triage.ClassificationResult {
	return a.run(ctx, symptomsText, patient, false)
}

// AnalyzeConversation classifies accumulated multi-turn text and asks the
// model for the next question when confidence is not yet terminal.
func (a *Analyzer) AnalyzeConversation(ctx context.Context, accumulatedText string, patient *triage.PatientContext) *triage.ClassificationResult {
	return a.run(ctx, accumulatedText, patient, true)
}

func (a *Analyzer) run(ctx context.Context, symptomsText string, patient *triage.PatientContext, conversational bool) *triage.ClassificationResult {
	prompt := buildPrompt(symptomsText, patient, conversational)

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	// Exactly one attempt. Retries, if desired, belong to the caller.
	raw, err := a.provider.Generate(ctx, prompt,
		llm.WithTemperature(promptTemperature),
		llm.WithMaxTokens(promptMaxTokens),
	)
	if err != nil {
		return a.fallbacks.Unavailable.apply(symptomsText)
	}

	result, err := a.parse(raw)
	if err != nil {
		return a.fallbacks.Malformed.apply(symptomsText)
	}
	return result
}

func (a *Analyzer) parse(raw string) (*triage.ClassificationResult, error) {
	payload := extractJSON(raw)

	var resp aiResponse
	if err := json.Unmarshal([]byte(payload), &resp); err != nil {
		return nil, triage.ErrClassifierMalformed
	}

	risk, ok := triage.ParseRiskLevel(resp.RiskLevel)
	if !ok {
		return nil, triage.ErrClassifierMalformed
	}

	confidence, err := resp.Confidence.Float64()
	if err != nil || confidence < 0 || confidence > 100 {
		return nil, triage.ErrClassifierMalformed
	}

	priority, err := resp.PriorityScore.Float64()
	if err != nil || priority < 0 || priority > 100 {
		return nil, triage.ErrClassifierMalformed
	}

	action := triage.Action(resp.NextAction)
	switch action {
	case triage.ActionDirect, triage.ActionReview, triage.ActionImmediate:
	default:
		return nil, triage.ErrClassifierMalformed
	}

	if strings.TrimSpace(resp.Reasoning) == "" || strings.TrimSpace(resp.Recommendation) == "" {
		return nil, triage.ErrClassifierMalformed
	}

	return &triage.ClassificationResult{
		RiskLevel:       risk,
		Confidence:      confidence,
		Reasoning:       resp.Reasoning,
		Recommendation:  resp.Recommendation,
		NextAction:      action,
		SymptomsSummary: resp.SymptomsSummary,
		PriorityScore:   priority,
		NextQuestion:    strings.TrimSpace(resp.NextQuestion),
		Degradation:     triage.DegradationNone,
	}, nil
}

// extractJSON trims chatter around the JSON object. Models occasionally wrap
// the payload in markdown fences or prose despite the instructions.
func extractJSON(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return raw
}
