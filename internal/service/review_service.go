package service

import (
	"context"
	"errors"
	"time"

	"ai-triage-be/internal/constant"
	"ai-triage-be/internal/dto"
	"ai-triage-be/internal/entity"
	"ai-triage-be/internal/pkg/logger"
	"ai-triage-be/internal/repository/specification"
	"ai-triage-be/internal/repository/unitofwork"
	"ai-triage-be/pkg/triage"

	"github.com/google/uuid"
)

type IReviewService interface {
	Queue(ctx context.Context, limit, offset int) (*dto.ReviewQueueResponse, error)
	Review(ctx context.Context, triageId, reviewerId uuid.UUID, req *dto.ReviewRequest) (*dto.ReviewResponse, error)
}

type reviewService struct {
	uowFactory unitofwork.RepositoryFactory
	publisher  IPublisherService
	logger     logger.ILogger
}

func NewReviewService(uowFactory unitofwork.RepositoryFactory, publisher IPublisherService, log logger.ILogger) IReviewService {
	return &reviewService{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     log,
	}
}

// Queue lists triages awaiting clinical review, most urgent first.
func (s *reviewService) Queue(ctx context.Context, limit, offset int) (*dto.ReviewQueueResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if limit <= 0 || limit > 100 {
		limit = 20
	}

	statusSpec := specification.ByStatus{Status: string(triage.StatusUnderReview)}

	total, err := uow.TriageRepository().Count(ctx, statusSpec)
	if err != nil {
		return nil, err
	}

	records, err := uow.TriageRepository().FindAll(ctx,
		statusSpec,
		specification.OrderBy{Field: "priority_score", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.TriageResponse, len(records))
	for i, r := range records {
		items[i] = toTriageResponse(r)
	}
	return &dto.ReviewQueueResponse{Items: items, Total: total}, nil
}

// Review records the clinician's verdict and finalizes the triage. An
// override replaces the engine's risk and priority with the clinician's.
func (s *reviewService) Review(ctx context.Context, triageId, reviewerId uuid.UUID, req *dto.ReviewRequest) (*dto.ReviewResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	record, err := uow.TriageRepository().FindOne(ctx, specification.ByID{ID: triageId})
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, errors.New("triage not found")
	}
	if record.Status != triage.StatusUnderReview {
		return nil, errors.New("triage is not awaiting review")
	}

	finalRisk := record.RiskLevel
	finalPriority := record.PriorityScore
	decision := entity.ReviewDecision(req.Decision)

	if decision == entity.ReviewOverridden {
		if req.FinalRisk == "" {
			return nil, errors.New("final_risk is required when overriding")
		}
		parsed, ok := triage.ParseRiskLevel(req.FinalRisk)
		if !ok {
			return nil, errors.New("unknown final_risk")
		}
		finalRisk = parsed
		finalPriority = req.FinalPriority
	}

	now := time.Now()
	review := &entity.TriageReview{
		Id:            uuid.New(),
		TriageId:      record.Id,
		ReviewerId:    reviewerId,
		Decision:      decision,
		FinalRisk:     finalRisk,
		FinalPriority: finalPriority,
		Comment:       req.Comment,
		CreatedAt:     now,
	}

	record.RiskLevel = finalRisk
	record.PriorityScore = finalPriority
	record.Status = triage.StatusFinalized
	record.FinalizedAt = &now
	record.UpdatedAt = now

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.ReviewRepository().Create(ctx, review); err != nil {
		return nil, err
	}
	if err := uow.TriageRepository().Update(ctx, record); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info(constant.ModuleReview, "Triage reviewed", map[string]interface{}{
		"triage_id":   record.Id,
		"reviewer_id": reviewerId,
		"decision":    string(decision),
		"final_risk":  finalRisk.String(),
	})

	if s.publisher != nil {
		if err := s.publisher.PublishTriageCompleted(record); err != nil {
			s.logger.Error(constant.ModuleReview, "Failed to publish finalization event", map[string]interface{}{
				"triage_id": record.Id,
				"error":     err.Error(),
			})
		}
	}

	return &dto.ReviewResponse{
		Id:            review.Id,
		TriageId:      review.TriageId,
		ReviewerId:    review.ReviewerId,
		Decision:      string(review.Decision),
		FinalRisk:     review.FinalRisk.String(),
		FinalPriority: review.FinalPriority,
		Comment:       review.Comment,
		CreatedAt:     review.CreatedAt,
	}, nil
}
