package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ai-triage-be/internal/constant"
	"ai-triage-be/internal/dto"
	"ai-triage-be/internal/entity"
	"ai-triage-be/internal/pkg/logger"
	"ai-triage-be/internal/repository/memory"
	"ai-triage-be/internal/repository/specification"
	"ai-triage-be/internal/repository/unitofwork"
	"ai-triage-be/pkg/triage"
	"ai-triage-be/pkg/triage/code"
	"ai-triage-be/pkg/triage/session"

	"github.com/google/uuid"
)

type IConversationService interface {
	HandleInbound(ctx context.Context, req *dto.InboundMessageRequest) (*dto.ConversationReply, error)
	SweepIdle(ctx context.Context, idleFor time.Duration) (int, error)
}

type conversationService struct {
	uowFactory unitofwork.RepositoryFactory
	machine    *session.Machine
	locker     session.Locker
	cache      *memory.SessionCache
	generator  *code.Generator
	publisher  IPublisherService
	logger     logger.ILogger
}

func NewConversationService(
	uowFactory unitofwork.RepositoryFactory,
	machine *session.Machine,
	locker session.Locker,
	cache *memory.SessionCache,
	generator *code.Generator,
	publisher IPublisherService,
	log logger.ILogger,
) IConversationService {
	return &conversationService{
		uowFactory: uowFactory,
		machine:    machine,
		locker:     locker,
		cache:      cache,
		generator:  generator,
		publisher:  publisher,
		logger:     log,
	}
}

// HandleInbound feeds one gateway message into the contact's session,
// creating the session (and its pending triage record) on first contact.
// A second message arriving while the first is still processing is rejected
// with ErrSessionConflict; the gateway retries after the reply.
func (s *conversationService) HandleInbound(ctx context.Context, req *dto.InboundMessageRequest) (*dto.ConversationReply, error) {
	release, err := s.locker.TryLock(ctx, req.Contact)
	if err != nil {
		return nil, err
	}
	defer release()

	uow := s.uowFactory.NewUnitOfWork(ctx)

	sess, record, st, err := s.loadOrCreate(ctx, uow, req.Contact)
	if err != nil {
		return nil, err
	}

	out, err := s.machine.Advance(ctx, st, req.Message)
	if err != nil {
		if errors.Is(err, triage.ErrSessionClosed) {
			// A closed session absorbs; the contact starts over.
			s.cache.Delete(req.Contact)
		}
		return nil, err
	}

	now := time.Now()
	sess.Step = string(st.Step)
	sess.AccumulatedText = st.AccumulatedText
	sess.Turns = st.Turns
	sess.LastMessageAt = now
	sess.UpdatedAt = now

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	inbound := &entity.TriageMessage{
		Id:        uuid.New(),
		TriageId:  record.Id,
		Direction: entity.MessageInbound,
		Content:   req.Message,
		CreatedAt: now,
	}
	if err := uow.TriageRepository().CreateMessage(ctx, inbound); err != nil {
		return nil, err
	}

	if out.Analysis != nil {
		analysis := &entity.TriageAnalysis{
			Id:             uuid.New(),
			TriageId:       record.Id,
			Turn:           st.Turns,
			RiskLevel:      out.Analysis.RiskLevel,
			Confidence:     out.Analysis.Confidence,
			PriorityScore:  out.Analysis.PriorityScore,
			Reasoning:      out.Analysis.Reasoning,
			Recommendation: out.Analysis.Recommendation,
			NextQuestion:   out.Analysis.NextQuestion,
			Degradation:    out.Analysis.Degradation,
			CreatedAt:      now,
		}
		if err := uow.TriageRepository().CreateAnalysis(ctx, analysis); err != nil {
			return nil, err
		}
	}

	reply := &dto.ConversationReply{}

	if out.Terminal {
		if err := s.finalize(ctx, uow, record, sess, out, now); err != nil {
			return nil, err
		}
		reply.Done = true
		reply.TriageCode = record.TriageCode
		reply.Result = toTriageResponse(record)
		reply.Reply = fmt.Sprintf("Triagem concluída. Sua senha é %s. %s", record.TriageCode, record.Recommendation)
	} else {
		reply.Reply = out.Ask
		if err := uow.SessionRepository().Update(ctx, sess); err != nil {
			return nil, err
		}
	}

	outbound := &entity.TriageMessage{
		Id:        uuid.New(),
		TriageId:  record.Id,
		Direction: entity.MessageOutbound,
		Content:   reply.Reply,
		CreatedAt: now,
	}
	if err := uow.TriageRepository().CreateMessage(ctx, outbound); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	if out.Terminal {
		s.cache.Delete(req.Contact)
		if s.publisher != nil {
			if err := s.publisher.PublishTriageCompleted(record); err != nil {
				s.logger.Error(constant.ModuleConversation, "Failed to publish completion event", map[string]interface{}{
					"triage_id": record.Id,
					"error":     err.Error(),
				})
			}
		}
	} else {
		s.cache.Save(req.Contact, st)
	}

	return reply, nil
}

// loadOrCreate resolves the active session for a contact: cache first, then
// the database, then a fresh session backed by a pending triage record.
func (s *conversationService) loadOrCreate(ctx context.Context, uow unitofwork.UnitOfWork, contact string) (*entity.ConversationSession, *entity.TriageRecord, *session.State, error) {
	sess, err := uow.SessionRepository().FindOne(ctx,
		specification.ByContact{Contact: contact},
		specification.ActiveSteps{},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, nil, nil, err
	}

	if sess != nil {
		record, err := uow.TriageRepository().FindOne(ctx, specification.ByID{ID: sess.TriageId})
		if err != nil {
			return nil, nil, nil, err
		}
		if record == nil {
			return nil, nil, nil, errors.New("session references missing triage record")
		}

		if st, ok := s.cache.Get(contact); ok && st.Turns == sess.Turns {
			return sess, record, st, nil
		}

		st := &session.State{
			Contact:         contact,
			Step:            session.Step(sess.Step),
			AccumulatedText: sess.AccumulatedText,
			Turns:           sess.Turns,
			Patient:         s.patientContext(ctx, uow, contact),
		}
		return sess, record, st, nil
	}

	now := time.Now()
	patient := s.patientContext(ctx, uow, contact)

	record := &entity.TriageRecord{
		Id:          uuid.New(),
		Contact:     contact,
		Channel:     triage.ChannelMessaging,
		RiskLevel:   triage.RiskGreen,
		Action:      triage.ActionReview,
		Status:      triage.StatusPending,
		Degradation: triage.DegradationNone,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if details, _ := uow.UserRepository().FindPatientDetails(ctx, specification.ByContact{Contact: contact}); details != nil {
		record.PatientId = &details.UserId
	}
	if err := uow.TriageRepository().Create(ctx, record); err != nil {
		return nil, nil, nil, err
	}

	sess = &entity.ConversationSession{
		Id:            uuid.New(),
		TriageId:      record.Id,
		Contact:       contact,
		Step:          string(session.StepStart),
		LastMessageAt: now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uow.SessionRepository().Create(ctx, sess); err != nil {
		return nil, nil, nil, err
	}

	st := &session.State{
		Contact: contact,
		Step:    session.StepStart,
		Patient: patient,
	}
	return sess, record, st, nil
}

func (s *conversationService) patientContext(ctx context.Context, uow unitofwork.UnitOfWork, contact string) *triage.PatientContext {
	details, err := uow.UserRepository().FindPatientDetails(ctx, specification.ByContact{Contact: contact})
	if err != nil || details == nil {
		return nil
	}
	patient := &triage.PatientContext{}
	if age := details.Age(time.Now()); age != nil {
		patient.Age = *age
	}
	if details.BloodType != nil {
		patient.BloodType = *details.BloodType
	}
	if details.Allergies != nil {
		patient.Allergies = *details.Allergies
	}
	if details.ChronicDisease != nil {
		patient.Notes = *details.ChronicDisease
	}
	return patient
}

// finalize stamps the terminal analysis onto the triage record and moves the
// session to its terminal step. Caller holds the open transaction.
func (s *conversationService) finalize(ctx context.Context, uow unitofwork.UnitOfWork, record *entity.TriageRecord, sess *entity.ConversationSession, out *session.Outcome, now time.Time) error {
	result := out.Analysis

	triageCode := result.TriageCode
	if triageCode == "" {
		for i := 0; i < codeRetries; i++ {
			candidate := s.generator.Generate(result.RiskLevel, result.Confidence)
			exists, err := uow.TriageRepository().ExistsByCode(ctx, candidate)
			if err != nil {
				return err
			}
			if !exists {
				triageCode = candidate
				break
			}
		}
		if triageCode == "" {
			return errors.New("could not assign a unique triage code")
		}
	}

	record.SymptomsText = sess.AccumulatedText
	record.RiskLevel = result.RiskLevel
	record.Confidence = result.Confidence
	record.PriorityScore = result.PriorityScore
	record.Action = out.Action
	record.Status = out.Status
	record.TriageCode = triageCode
	record.Reasoning = result.Reasoning
	record.Recommendation = result.Recommendation
	record.SymptomsSummary = result.SymptomsSummary
	record.Degradation = result.Degradation
	record.UpdatedAt = now
	if out.Status == triage.StatusFinalized {
		record.FinalizedAt = &now
	}

	if err := uow.TriageRepository().Update(ctx, record); err != nil {
		return err
	}

	s.logger.Info(constant.ModuleConversation, "Conversation triage completed", map[string]interface{}{
		"triage_id":   record.Id,
		"contact":     record.Contact,
		"risk_level":  record.RiskLevel.String(),
		"action":      string(record.Action),
		"triage_code": record.TriageCode,
		"turns":       sess.Turns,
	})

	return uow.SessionRepository().Update(ctx, sess)
}

// SweepIdle closes sessions whose contact went silent. A session that turned
// terminal since the sweep began is left untouched; the terminal transition
// wins.
func (s *conversationService) SweepIdle(ctx context.Context, idleFor time.Duration) (int, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	cutoff := time.Now().Add(-idleFor)
	stale, err := uow.SessionRepository().FindAll(ctx,
		specification.ActiveSteps{},
		specification.IdleSince{Cutoff: cutoff},
	)
	if err != nil {
		return 0, err
	}

	closed := 0
	for _, sess := range stale {
		// Re-read under the contact lock so a message racing the sweep is
		// not clobbered.
		release, err := s.locker.TryLock(ctx, sess.Contact)
		if err != nil {
			continue
		}

		current, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: sess.Id})
		if err != nil || current == nil || session.Step(current.Step).Terminal() {
			release()
			continue
		}
		if current.LastMessageAt.After(cutoff) {
			release()
			continue
		}

		current.Step = string(session.StepClosed)
		current.UpdatedAt = time.Now()
		if err := uow.SessionRepository().Update(ctx, current); err != nil {
			s.logger.Error(constant.ModuleConversation, "Failed to close idle session", map[string]interface{}{
				"session_id": current.Id,
				"error":      err.Error(),
			})
			release()
			continue
		}

		s.cache.Delete(current.Contact)
		closed++
		release()
	}

	if closed > 0 {
		s.logger.Info(constant.ModuleConversation, "Idle sessions closed", map[string]interface{}{"count": closed})
	}
	return closed, nil
}
