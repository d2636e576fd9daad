package dto

import (
	"time"

	"github.com/google/uuid"
)

// IntakeRequest is the single-shot triage submission from the web form or a
// kiosk terminal.
type IntakeRequest struct {
	Contact      string  `json:"contact" validate:"required,min=8"`
	SymptomsText string  `json:"symptoms_text" validate:"required,min=3"`
	Channel      string  `json:"channel" validate:"omitempty,oneof=web kiosk"`
	Age          *int    `json:"age" validate:"omitempty,gte=0,lte=130"`
	BloodType    *string `json:"blood_type" validate:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	Allergies    *string `json:"allergies"`
}

type TriageResponse struct {
	Id              uuid.UUID  `json:"id"`
	TriageCode      string     `json:"triage_code"`
	RiskLevel       string     `json:"risk_level"`
	Confidence      float64    `json:"confidence"`
	PriorityScore   float64    `json:"priority_score"`
	Action          string     `json:"action"`
	Status          string     `json:"status"`
	Reasoning       string     `json:"reasoning"`
	Recommendation  string     `json:"recommendation"`
	SymptomsSummary string     `json:"symptoms_summary"`
	Degraded        bool       `json:"degraded"`
	CreatedAt       time.Time  `json:"created_at"`
	FinalizedAt     *time.Time `json:"finalized_at,omitempty"`
}

type TriageListResponse struct {
	Items []*TriageResponse `json:"items"`
	Total int64             `json:"total"`
}

type AnalysisResponse struct {
	Turn           int       `json:"turn"`
	RiskLevel      string    `json:"risk_level"`
	Confidence     float64   `json:"confidence"`
	PriorityScore  float64   `json:"priority_score"`
	Reasoning      string    `json:"reasoning"`
	Recommendation string    `json:"recommendation"`
	NextQuestion   string    `json:"next_question,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// AddMessageRequest is a staff annotation appended to a triage record's
// message log.
type AddMessageRequest struct {
	Content string `json:"content" validate:"required,min=1"`
}

type MessageResponse struct {
	Id        uuid.UUID `json:"id"`
	Direction string    `json:"direction"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// InboundMessageRequest is a webhook payload from the messaging gateway.
type InboundMessageRequest struct {
	Contact string `json:"contact" validate:"required,min=8"`
	Message string `json:"message" validate:"required"`
}

// ConversationReply is what the gateway relays back to the patient.
type ConversationReply struct {
	Reply      string          `json:"reply"`
	Done       bool            `json:"done"`
	TriageCode string          `json:"triage_code,omitempty"`
	Result     *TriageResponse `json:"result,omitempty"`
}
