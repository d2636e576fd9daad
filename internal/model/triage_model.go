package model

import (
	"time"

	"github.com/google/uuid"
)

type TriageRecord struct {
	Id              uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PatientId       *uuid.UUID `gorm:"type:uuid;index"`
	Contact         string     `gorm:"type:varchar(50);not null;index"`
	Channel         string     `gorm:"type:varchar(20);not null;default:'web'"`
	SymptomsText    string     `gorm:"type:text;not null"`
	RiskLevel       string     `gorm:"type:varchar(20);not null;index"`
	Confidence      float64    `gorm:"type:numeric(5,2);not null"`
	PriorityScore   float64    `gorm:"type:numeric(5,2);not null"`
	Action          string     `gorm:"type:varchar(20);not null"`
	Status          string     `gorm:"type:varchar(20);not null;index"`
	TriageCode      string     `gorm:"type:varchar(20);not null;index"`
	Reasoning       string     `gorm:"type:text"`
	Recommendation  string     `gorm:"type:text"`
	SymptomsSummary string     `gorm:"type:varchar(255)"`
	Degradation     string     `gorm:"type:varchar(30);not null;default:'ok'"`
	CreatedAt       time.Time  `gorm:"autoCreateTime;index"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime"`
	FinalizedAt     *time.Time
}

func (TriageRecord) TableName() string {
	return "triage_records"
}

type TriageAnalysis struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TriageId       uuid.UUID `gorm:"type:uuid;not null;index"`
	Turn           int       `gorm:"not null;default:1"`
	RiskLevel      string    `gorm:"type:varchar(20);not null"`
	Confidence     float64   `gorm:"type:numeric(5,2);not null"`
	PriorityScore  float64   `gorm:"type:numeric(5,2);not null"`
	Reasoning      string    `gorm:"type:text"`
	Recommendation string    `gorm:"type:text"`
	NextQuestion   string    `gorm:"type:text"`
	Degradation    string    `gorm:"type:varchar(30);not null;default:'ok'"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}

func (TriageAnalysis) TableName() string {
	return "triage_analyses"
}

type TriageMessage struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TriageId  uuid.UUID `gorm:"type:uuid;not null;index"`
	Direction string    `gorm:"type:varchar(10);not null"`
	Content   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (TriageMessage) TableName() string {
	return "triage_messages"
}

type ConversationSession struct {
	Id              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TriageId        uuid.UUID `gorm:"type:uuid;not null;index"`
	Contact         string    `gorm:"type:varchar(50);not null;index"`
	Step            string    `gorm:"type:varchar(30);not null;default:'start'"`
	AccumulatedText string    `gorm:"type:text"`
	Turns           int       `gorm:"not null;default:0"`
	LastMessageAt   time.Time `gorm:"not null;index"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`
}

func (ConversationSession) TableName() string {
	return "conversation_sessions"
}

type TriageReview struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TriageId      uuid.UUID `gorm:"type:uuid;not null;index"`
	ReviewerId    uuid.UUID `gorm:"type:uuid;not null;index"`
	Decision      string    `gorm:"type:varchar(20);not null"`
	FinalRisk     string    `gorm:"type:varchar(20);not null"`
	FinalPriority float64   `gorm:"type:numeric(5,2);not null"`
	Comment       string    `gorm:"type:text"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

func (TriageReview) TableName() string {
	return "triage_reviews"
}
