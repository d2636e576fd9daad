package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type NotificationType string

const (
	NotificationTriageCompleted   NotificationType = "TRIAGE_COMPLETED"
	NotificationReviewRequested   NotificationType = "REVIEW_REQUESTED"
	NotificationImmediateRequired NotificationType = "IMMEDIATE_REQUIRED"
	NotificationTriageFinalized   NotificationType = "TRIAGE_FINALIZED"
)

type Notification struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	TypeCode  NotificationType
	Title     string
	Message   string
	TriageId  *uuid.UUID
	Metadata  datatypes.JSON
	IsRead    bool
	ReadAt    *time.Time
	CreatedAt time.Time
}
