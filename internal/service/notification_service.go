package service

import (
	"context"

	"ai-triage-be/internal/dto"
	"ai-triage-be/internal/repository/specification"
	"ai-triage-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type INotificationService interface {
	List(ctx context.Context, userId uuid.UUID, limit, offset int) (*dto.NotificationListResponse, error)
	MarkRead(ctx context.Context, userId, notificationId uuid.UUID) error
	MarkAllRead(ctx context.Context, userId uuid.UUID) error
}

type notificationService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewNotificationService(uowFactory unitofwork.RepositoryFactory) INotificationService {
	return &notificationService{uowFactory: uowFactory}
}

func (s *notificationService) List(ctx context.Context, userId uuid.UUID, limit, offset int) (*dto.NotificationListResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if limit <= 0 || limit > 100 {
		limit = 20
	}

	notifications, err := uow.NotificationRepository().FindAll(ctx,
		specification.ByUserID{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	if err != nil {
		return nil, err
	}

	unread, err := uow.NotificationRepository().CountUnread(ctx, userId)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.NotificationResponse, len(notifications))
	for i, n := range notifications {
		items[i] = &dto.NotificationResponse{
			Id:        n.Id,
			TypeCode:  string(n.TypeCode),
			Title:     n.Title,
			Message:   n.Message,
			TriageId:  n.TriageId,
			IsRead:    n.IsRead,
			ReadAt:    n.ReadAt,
			CreatedAt: n.CreatedAt,
		}
	}
	return &dto.NotificationListResponse{Items: items, UnreadCount: unread}, nil
}

func (s *notificationService) MarkRead(ctx context.Context, userId, notificationId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.NotificationRepository().MarkRead(ctx, notificationId, userId)
}

func (s *notificationService) MarkAllRead(ctx context.Context, userId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.NotificationRepository().MarkAllRead(ctx, userId)
}
