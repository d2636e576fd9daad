package entity

import (
	"time"

	"github.com/google/uuid"

	"ai-triage-be/pkg/triage"
)

// TriageRecord is one completed or in-flight triage of a patient, whether it
// came from the single-shot intake form or a conversational session.
type TriageRecord struct {
	Id              uuid.UUID
	PatientId       *uuid.UUID
	Contact         string
	Channel         triage.Channel
	SymptomsText    string
	RiskLevel       triage.RiskLevel
	Confidence      float64
	PriorityScore   float64
	Action          triage.Action
	Status          triage.Status
	TriageCode      string
	Reasoning       string
	Recommendation  string
	SymptomsSummary string
	Degradation     triage.Degradation
	CreatedAt       time.Time
	UpdatedAt       time.Time
	FinalizedAt     *time.Time
}

// TriageAnalysis is one classifier pass over the accumulated symptom text.
// Conversational sessions produce one row per turn; single-shot triages
// produce exactly one.
type TriageAnalysis struct {
	Id             uuid.UUID
	TriageId       uuid.UUID
	Turn           int
	RiskLevel      triage.RiskLevel
	Confidence     float64
	PriorityScore  float64
	Reasoning      string
	Recommendation string
	NextQuestion   string
	Degradation    triage.Degradation
	CreatedAt      time.Time
}

type MessageDirection string

const (
	MessageInbound  MessageDirection = "inbound"
	MessageOutbound MessageDirection = "outbound"
)

type TriageMessage struct {
	Id        uuid.UUID
	TriageId  uuid.UUID
	Direction MessageDirection
	Content   string
	CreatedAt time.Time
}

type ConversationSession struct {
	Id              uuid.UUID
	TriageId        uuid.UUID
	Contact         string
	Step            string
	AccumulatedText string
	Turns           int
	LastMessageAt   time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type ReviewDecision string

const (
	ReviewConfirmed  ReviewDecision = "confirmed"
	ReviewOverridden ReviewDecision = "overridden"
)

// TriageReview records a clinician's verdict on an under_review triage.
type TriageReview struct {
	Id            uuid.UUID
	TriageId      uuid.UUID
	ReviewerId    uuid.UUID
	Decision      ReviewDecision
	FinalRisk     triage.RiskLevel
	FinalPriority float64
	Comment       string
	CreatedAt     time.Time
}
