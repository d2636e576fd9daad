package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"ai-triage-be/internal/constant"
	"ai-triage-be/internal/dto"
	"ai-triage-be/internal/entity"
	"ai-triage-be/internal/pkg/logger"
	"ai-triage-be/internal/repository/specification"
	"ai-triage-be/internal/repository/unitofwork"
	"ai-triage-be/pkg/triage"
	"ai-triage-be/pkg/triage/analyzer"
	"ai-triage-be/pkg/triage/code"
	"ai-triage-be/pkg/triage/policy"

	"github.com/google/uuid"
)

// codeRetries bounds how many fresh codes we draw when a generated code is
// already assigned to another record.
const codeRetries = 5

type ITriageService interface {
	Submit(ctx context.Context, req *dto.IntakeRequest) (*dto.TriageResponse, error)
	GetById(ctx context.Context, id uuid.UUID) (*dto.TriageResponse, error)
	GetByCode(ctx context.Context, triageCode string) (*dto.TriageResponse, error)
	List(ctx context.Context, status, riskLevel string, limit, offset int) (*dto.TriageListResponse, error)
	GetAnalyses(ctx context.Context, triageId uuid.UUID) ([]*dto.AnalysisResponse, error)
	GetMessages(ctx context.Context, triageId uuid.UUID) ([]*dto.MessageResponse, error)
	AddMessage(ctx context.Context, triageId uuid.UUID, req *dto.AddMessageRequest) (*dto.MessageResponse, error)
}

type triageService struct {
	uowFactory unitofwork.RepositoryFactory
	analyzer   *analyzer.Analyzer
	policy     *policy.Policy
	generator  *code.Generator
	publisher  IPublisherService
	logger     logger.ILogger
}

func NewTriageService(
	uowFactory unitofwork.RepositoryFactory,
	a *analyzer.Analyzer,
	p *policy.Policy,
	g *code.Generator,
	publisher IPublisherService,
	log logger.ILogger,
) ITriageService {
	return &triageService{
		uowFactory: uowFactory,
		analyzer:   a,
		policy:     p,
		generator:  g,
		publisher:  publisher,
		logger:     log,
	}
}

// Submit runs the single-shot triage pipeline: classify the symptom text,
// apply the escalation policy, assign a code and persist the outcome.
func (s *triageService) Submit(ctx context.Context, req *dto.IntakeRequest) (*dto.TriageResponse, error) {
	if strings.TrimSpace(req.SymptomsText) == "" {
		return nil, triage.ErrInvalidIntake
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	patient, patientId := s.resolvePatient(ctx, uow, req)

	result := s.analyzer.Analyze(ctx, req.SymptomsText, patient)

	action := s.policy.Decide(result.RiskLevel, result.Confidence)
	status := s.policy.StatusFor(action)

	triageCode := result.TriageCode
	if triageCode == "" {
		var err error
		triageCode, err = s.assignCode(ctx, uow, result.RiskLevel, result.Confidence)
		if err != nil {
			return nil, err
		}
	}

	channel := triage.Channel(req.Channel)
	if channel == "" {
		channel = triage.ChannelWeb
	}

	now := time.Now()
	record := &entity.TriageRecord{
		Id:              uuid.New(),
		PatientId:       patientId,
		Contact:         req.Contact,
		Channel:         channel,
		SymptomsText:    req.SymptomsText,
		RiskLevel:       result.RiskLevel,
		Confidence:      result.Confidence,
		PriorityScore:   result.PriorityScore,
		Action:          action,
		Status:          status,
		TriageCode:      triageCode,
		Reasoning:       result.Reasoning,
		Recommendation:  result.Recommendation,
		SymptomsSummary: result.SymptomsSummary,
		Degradation:     result.Degradation,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if status == triage.StatusFinalized {
		record.FinalizedAt = &now
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.TriageRepository().Create(ctx, record); err != nil {
		return nil, err
	}

	analysis := &entity.TriageAnalysis{
		Id:             uuid.New(),
		TriageId:       record.Id,
		Turn:           1,
		RiskLevel:      result.RiskLevel,
		Confidence:     result.Confidence,
		PriorityScore:  result.PriorityScore,
		Reasoning:      result.Reasoning,
		Recommendation: result.Recommendation,
		Degradation:    result.Degradation,
		CreatedAt:      now,
	}
	if err := uow.TriageRepository().CreateAnalysis(ctx, analysis); err != nil {
		return nil, err
	}

	inbound := &entity.TriageMessage{
		Id:        uuid.New(),
		TriageId:  record.Id,
		Direction: entity.MessageInbound,
		Content:   req.SymptomsText,
		CreatedAt: now,
	}
	if err := uow.TriageRepository().CreateMessage(ctx, inbound); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info(constant.ModuleTriage, "Triage completed", map[string]interface{}{
		"triage_id":   record.Id,
		"risk_level":  record.RiskLevel.String(),
		"action":      string(record.Action),
		"triage_code": record.TriageCode,
		"degradation": string(record.Degradation),
	})

	if s.publisher != nil {
		if err := s.publisher.PublishTriageCompleted(record); err != nil {
			s.logger.Error(constant.ModuleTriage, "Failed to publish completion event", map[string]interface{}{
				"triage_id": record.Id,
				"error":     err.Error(),
			})
		}
	}

	return toTriageResponse(record), nil
}

func (s *triageService) resolvePatient(ctx context.Context, uow unitofwork.UnitOfWork, req *dto.IntakeRequest) (*triage.PatientContext, *uuid.UUID) {
	patient := &triage.PatientContext{}
	if req.Age != nil {
		patient.Age = *req.Age
	}
	if req.BloodType != nil {
		patient.BloodType = *req.BloodType
	}
	if req.Allergies != nil {
		patient.Allergies = *req.Allergies
	}

	details, err := uow.UserRepository().FindPatientDetails(ctx, specification.ByContact{Contact: req.Contact})
	if err != nil || details == nil {
		return patient, nil
	}

	// Stored profile fills the gaps the request left open.
	if patient.Age == 0 {
		if age := details.Age(time.Now()); age != nil {
			patient.Age = *age
		}
	}
	if patient.BloodType == "" && details.BloodType != nil {
		patient.BloodType = *details.BloodType
	}
	if patient.Allergies == "" && details.Allergies != nil {
		patient.Allergies = *details.Allergies
	}
	if details.ChronicDisease != nil {
		patient.Notes = *details.ChronicDisease
	}

	return patient, &details.UserId
}

// assignCode draws codes until one is unassigned. The sentinel error code is
// shared by design and never checked for uniqueness.
func (s *triageService) assignCode(ctx context.Context, uow unitofwork.UnitOfWork, risk triage.RiskLevel, confidence float64) (string, error) {
	var lastCode string
	for i := 0; i < codeRetries; i++ {
		lastCode = s.generator.Generate(risk, confidence)
		exists, err := uow.TriageRepository().ExistsByCode(ctx, lastCode)
		if err != nil {
			return "", err
		}
		if !exists {
			return lastCode, nil
		}
	}
	return "", errors.New("could not assign a unique triage code")
}

func (s *triageService) GetById(ctx context.Context, id uuid.UUID) (*dto.TriageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	record, err := uow.TriageRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, errors.New("triage not found")
	}
	return toTriageResponse(record), nil
}

func (s *triageService) GetByCode(ctx context.Context, triageCode string) (*dto.TriageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	record, err := uow.TriageRepository().FindOne(ctx, specification.Filter("triage_code", triageCode))
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, errors.New("triage not found")
	}
	return toTriageResponse(record), nil
}

func (s *triageService) List(ctx context.Context, status, riskLevel string, limit, offset int) (*dto.TriageListResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if limit <= 0 || limit > 100 {
		limit = 20
	}

	filters := []specification.Specification{}
	if status != "" {
		filters = append(filters, specification.ByStatus{Status: status})
	}
	if riskLevel != "" {
		filters = append(filters, specification.ByRiskLevel{RiskLevel: riskLevel})
	}

	total, err := uow.TriageRepository().Count(ctx, filters...)
	if err != nil {
		return nil, err
	}

	listSpecs := append(filters,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	records, err := uow.TriageRepository().FindAll(ctx, listSpecs...)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.TriageResponse, len(records))
	for i, r := range records {
		items[i] = toTriageResponse(r)
	}
	return &dto.TriageListResponse{Items: items, Total: total}, nil
}

func (s *triageService) GetAnalyses(ctx context.Context, triageId uuid.UUID) ([]*dto.AnalysisResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	analyses, err := uow.TriageRepository().FindAnalyses(ctx,
		specification.ByTriageID{TriageID: triageId},
		specification.OrderBy{Field: "turn", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.AnalysisResponse, len(analyses))
	for i, a := range analyses {
		items[i] = &dto.AnalysisResponse{
			Turn:           a.Turn,
			RiskLevel:      a.RiskLevel.String(),
			Confidence:     a.Confidence,
			PriorityScore:  a.PriorityScore,
			Reasoning:      a.Reasoning,
			Recommendation: a.Recommendation,
			NextQuestion:   a.NextQuestion,
			CreatedAt:      a.CreatedAt,
		}
	}
	return items, nil
}

func (s *triageService) GetMessages(ctx context.Context, triageId uuid.UUID) ([]*dto.MessageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	messages, err := uow.TriageRepository().FindMessages(ctx,
		specification.ByTriageID{TriageID: triageId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.MessageResponse, len(messages))
	for i, m := range messages {
		items[i] = &dto.MessageResponse{
			Id:        m.Id,
			Direction: string(m.Direction),
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		}
	}
	return items, nil
}

// AddMessage appends a staff annotation to the record's message log. The
// annotation is outbound: it is relayed to the patient when the channel
// supports it.
func (s *triageService) AddMessage(ctx context.Context, triageId uuid.UUID, req *dto.AddMessageRequest) (*dto.MessageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	record, err := uow.TriageRepository().FindOne(ctx, specification.ByID{ID: triageId})
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, errors.New("triage not found")
	}

	message := &entity.TriageMessage{
		Id:        uuid.New(),
		TriageId:  record.Id,
		Direction: entity.MessageOutbound,
		Content:   req.Content,
		CreatedAt: time.Now(),
	}
	if err := uow.TriageRepository().CreateMessage(ctx, message); err != nil {
		return nil, err
	}

	return &dto.MessageResponse{
		Id:        message.Id,
		Direction: string(message.Direction),
		Content:   message.Content,
		CreatedAt: message.CreatedAt,
	}, nil
}

func toTriageResponse(r *entity.TriageRecord) *dto.TriageResponse {
	return &dto.TriageResponse{
		Id:              r.Id,
		TriageCode:      r.TriageCode,
		RiskLevel:       r.RiskLevel.String(),
		Confidence:      r.Confidence,
		PriorityScore:   r.PriorityScore,
		Action:          string(r.Action),
		Status:          string(r.Status),
		Reasoning:       r.Reasoning,
		Recommendation:  r.Recommendation,
		SymptomsSummary: r.SymptomsSummary,
		Degraded:        r.Degradation != triage.DegradationNone,
		CreatedAt:       r.CreatedAt,
		FinalizedAt:     r.FinalizedAt,
	}
}
