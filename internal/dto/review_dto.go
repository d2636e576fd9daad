package dto

import (
	"time"

	"github.com/google/uuid"
)

type ReviewRequest struct {
	Decision      string  `json:"decision" validate:"required,oneof=confirmed overridden"`
	FinalRisk     string  `json:"final_risk" validate:"omitempty,oneof=Green Yellow Orange Red"`
	FinalPriority float64 `json:"final_priority" validate:"omitempty,gte=0,lte=100"`
	Comment       string  `json:"comment"`
}

type ReviewResponse struct {
	Id            uuid.UUID `json:"id"`
	TriageId      uuid.UUID `json:"triage_id"`
	ReviewerId    uuid.UUID `json:"reviewer_id"`
	Decision      string    `json:"decision"`
	FinalRisk     string    `json:"final_risk"`
	FinalPriority float64   `json:"final_priority"`
	Comment       string    `json:"comment,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type ReviewQueueResponse struct {
	Items []*TriageResponse `json:"items"`
	Total int64             `json:"total"`
}
