package contract

import (
	"context"

	"ai-triage-be/internal/entity"
	"ai-triage-be/internal/repository/specification"

	"github.com/google/uuid"
)

type TriageRepository interface {
	Create(ctx context.Context, record *entity.TriageRecord) error
	Update(ctx context.Context, record *entity.TriageRecord) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.TriageRecord, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.TriageRecord, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// ExistsByCode reports whether a triage code is already assigned; used
	// to keep generated codes unique per record.
	ExistsByCode(ctx context.Context, code string) (bool, error)

	CreateAnalysis(ctx context.Context, analysis *entity.TriageAnalysis) error
	FindAnalyses(ctx context.Context, specs ...specification.Specification) ([]*entity.TriageAnalysis, error)

	CreateMessage(ctx context.Context, message *entity.TriageMessage) error
	FindMessages(ctx context.Context, specs ...specification.Specification) ([]*entity.TriageMessage, error)
}

type SessionRepository interface {
	Create(ctx context.Context, session *entity.ConversationSession) error
	Update(ctx context.Context, session *entity.ConversationSession) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ConversationSession, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ConversationSession, error)
}

type ReviewRepository interface {
	Create(ctx context.Context, review *entity.TriageReview) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.TriageReview, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.TriageReview, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) error
	CreateBatch(ctx context.Context, notifications []*entity.Notification) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Notification, error)
	CountUnread(ctx context.Context, userId uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, id uuid.UUID, userId uuid.UUID) error
	MarkAllRead(ctx context.Context, userId uuid.UUID) error
}
