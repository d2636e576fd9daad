package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByContact filters triage records or sessions by patient contact.
type ByContact struct {
	Contact string
}

func (s ByContact) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("contact = ?", s.Contact)
}

// ByTriageID filters child rows (analyses, messages, reviews) by their
// owning triage record.
type ByTriageID struct {
	TriageID uuid.UUID
}

func (s ByTriageID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("triage_id = ?", s.TriageID)
}

// ByStatus filters triage records by workflow status.
type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

// ByRiskLevel filters triage records by classified risk.
type ByRiskLevel struct {
	RiskLevel string
}

func (s ByRiskLevel) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("risk_level = ?", s.RiskLevel)
}

// ActiveSteps filters conversation sessions still accepting messages.
type ActiveSteps struct{}

func (s ActiveSteps) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("step NOT IN ?", []string{"released", "under_review", "closed"})
}

// IdleSince filters conversation sessions with no message since the cutoff.
type IdleSince struct {
	Cutoff time.Time
}

func (s IdleSince) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("last_message_at < ?", s.Cutoff)
}

// Unread filters notifications not yet read.
type Unread struct{}

func (s Unread) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_read = ?", false)
}

// ByUserID filters rows owned by a user.
type ByUserID struct {
	UserID uuid.UUID
}

func (s ByUserID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}
