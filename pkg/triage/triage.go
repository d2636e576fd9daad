package triage

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// RiskLevel is the ordinal clinical urgency tier, Green (lowest) to Red (highest).
type RiskLevel int

const (
	RiskGreen RiskLevel = iota
	RiskYellow
	RiskOrange
	RiskRed
)

var riskNames = map[RiskLevel]string{
	RiskGreen:  "Green",
	RiskYellow: "Yellow",
	RiskOrange: "Orange",
	RiskRed:    "Red",
}

func (r RiskLevel) String() string {
	if name, ok := riskNames[r]; ok {
		return name
	}
	return "Unknown"
}

// ParseRiskLevel maps a textual risk level to its tier. It accepts both the
// English names used internally and the Portuguese names the Manchester
// prompt contract emits.
func ParseRiskLevel(s string) (RiskLevel, bool) {
	switch s {
	case "Green", "Verde":
		return RiskGreen, true
	case "Yellow", "Amarelo":
		return RiskYellow, true
	case "Orange", "Laranja":
		return RiskOrange, true
	case "Red", "Vermelho":
		return RiskRed, true
	}
	return RiskGreen, false
}

// Action is the escalation outcome for a classified intake.
type Action string

const (
	ActionDirect    Action = "direct"    // auto-release
	ActionReview    Action = "review"    // scheduled medical review
	ActionImmediate Action = "immediate" // urgent in-person attention
)

// Status of a triage record.
type Status string

const (
	StatusPending     Status = "pending"
	StatusUnderReview Status = "under_review"
	StatusFinalized   Status = "finalized"
)

// Channel identifies the intake origin.
type Channel string

const (
	ChannelWeb       Channel = "web"
	ChannelMessaging Channel = "messaging"
	ChannelKiosk     Channel = "kiosk"
)

// Degradation marks whether a classification came from the primary backend
// or from a fallback profile.
type Degradation string

const (
	DegradationNone        Degradation = "ok"
	DegradationMalformed   Degradation = "degraded_malformed"
	DegradationUnavailable Degradation = "degraded_unavailable"
)

// PatientContext carries the optional patient attributes embedded in the
// classifier prompt. Zero values mean "unknown".
type PatientContext struct {
	Age       int
	BloodType string
	Allergies string
	Notes     string
}

// ClassificationResult is the structured judgment produced by a classifier,
// AI or heuristic. Produced fresh on every call, never mutated in place.
type ClassificationResult struct {
	RiskLevel       RiskLevel
	Confidence      float64 // 0-100
	Reasoning       string
	Recommendation  string
	NextAction      Action
	SymptomsSummary string
	PriorityScore   float64 // 0-100
	NextQuestion    string  // conversation mode only
	TriageCode      string  // set only by fallback profiles that pin a sentinel
	Degradation     Degradation
}

const summaryMaxBytes = 200

// SummarizeSymptoms trims the raw symptom text and caps it at 200 bytes.
// The cut never splits a multi-byte rune, so accented Portuguese text stays
// valid UTF-8 after truncation.
func SummarizeSymptoms(text string) string {
	summary := strings.TrimSpace(text)
	if len(summary) <= summaryMaxBytes {
		return summary
	}
	cut := summaryMaxBytes
	for cut > 0 && !utf8.RuneStart(summary[cut]) {
		cut--
	}
	return summary[:cut]
}

var (
	// ErrClassifierUnavailable signals a transport or timeout failure of the
	// remote classifier backend.
	ErrClassifierUnavailable = errors.New("classifier backend unavailable")

	// ErrClassifierMalformed signals output that violated the response schema.
	ErrClassifierMalformed = errors.New("classifier output malformed")

	// ErrInvalidIntake signals an intake missing required fields.
	ErrInvalidIntake = errors.New("invalid intake")

	// ErrSessionConflict signals a concurrent mutation attempt on the same
	// conversation session. The caller may retry the inbound message.
	ErrSessionConflict = errors.New("session busy, concurrent message rejected")

	// ErrSessionClosed signals a message arriving for an already closed session.
	ErrSessionClosed = errors.New("session already closed")
)
