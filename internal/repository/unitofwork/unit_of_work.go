package unitofwork

import (
	"context"

	"ai-triage-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	TriageRepository() contract.TriageRepository
	SessionRepository() contract.SessionRepository
	ReviewRepository() contract.ReviewRepository
	NotificationRepository() contract.NotificationRepository
}
