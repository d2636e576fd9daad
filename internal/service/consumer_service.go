package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"ai-triage-be/internal/constant"
	"ai-triage-be/internal/entity"
	"ai-triage-be/internal/mapper"
	"ai-triage-be/internal/pkg/mailer"
	"ai-triage-be/internal/repository/specification"
	"ai-triage-be/internal/repository/unitofwork"
	"ai-triage-be/internal/websocket"
	"ai-triage-be/pkg/events"
	pktNats "ai-triage-be/pkg/nats"
	"ai-triage-be/pkg/triage"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService turns completed-triage events into notification rows,
// websocket pushes, NATS relays and patient emails.
type consumerService struct {
	pubSub       *gochannel.GoChannel
	topicName    string
	uowFactory   unitofwork.RepositoryFactory
	hub          *websocket.Hub
	natsRelay    *pktNats.Publisher
	emailService mailer.IEmailService
	mapper       *mapper.NotificationMapper
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	hub *websocket.Hub,
	natsRelay *pktNats.Publisher,
	emailService mailer.IEmailService,
) IConsumerService {
	return &consumerService{
		pubSub:       pubSub,
		topicName:    topicName,
		uowFactory:   uowFactory,
		hub:          hub,
		natsRelay:    natsRelay,
		emailService: emailService,
		mapper:       mapper.NewNotificationMapper(),
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload TriageCompletedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	record, err := uow.TriageRepository().FindOne(ctx, specification.ByID{ID: payload.TriageId})
	if err != nil {
		log.Printf("[ERROR] Failed to load triage %s: %v", payload.TriageId, err)
		msg.Nack()
		return
	}
	if record == nil {
		log.Printf("[ERROR] Triage not found: %s", payload.TriageId)
		msg.Ack()
		return
	}

	notifications, err := cs.buildNotifications(ctx, uow, record)
	if err != nil {
		log.Printf("[ERROR] Failed to build notifications for %s: %v", record.Id, err)
		msg.Nack()
		return
	}

	if len(notifications) > 0 {
		if err := uow.NotificationRepository().CreateBatch(ctx, notifications); err != nil {
			log.Printf("[ERROR] Failed to persist notifications for %s: %v", record.Id, err)
			msg.Nack()
			return
		}

		if cs.hub != nil {
			for _, n := range notifications {
				cs.hub.Send(n.UserId, *cs.mapper.ToModel(n))
			}
		}
	}

	cs.relayExternal(ctx, record)
	cs.emailPatient(ctx, uow, record)

	msg.Ack()
}

// buildNotifications fans the event out: staff get an entry for anything
// needing attention, the patient gets their code when one was assigned.
func (cs *consumerService) buildNotifications(ctx context.Context, uow unitofwork.UnitOfWork, record *entity.TriageRecord) ([]*entity.Notification, error) {
	var notifications []*entity.Notification
	now := time.Now()

	metadata, _ := json.Marshal(map[string]interface{}{
		"triage_code": record.TriageCode,
		"risk_level":  record.RiskLevel.String(),
		"action":      string(record.Action),
	})

	if record.Status == triage.StatusUnderReview {
		typeCode := entity.NotificationReviewRequested
		title := "Triagem aguardando revisão"
		if record.Action == triage.ActionImmediate {
			typeCode = entity.NotificationImmediateRequired
			title = "Atendimento imediato necessário"
		}

		staff, err := uow.UserRepository().FindByRoles(ctx,
			string(entity.UserRoleNurse), string(entity.UserRoleDoctor))
		if err != nil {
			return nil, err
		}
		for _, u := range staff {
			notifications = append(notifications, &entity.Notification{
				Id:       uuid.New(),
				UserId:   u.Id,
				TypeCode: typeCode,
				Title:    title,
				Message: fmt.Sprintf("Triagem %s classificada como %s (confiança %.0f%%).",
					record.TriageCode, record.RiskLevel.String(), record.Confidence),
				TriageId:  &record.Id,
				Metadata:  metadata,
				CreatedAt: now,
			})
		}
	}

	if record.PatientId != nil {
		typeCode := entity.NotificationTriageCompleted
		title := "Sua triagem foi concluída"
		if record.Status == triage.StatusFinalized && record.Action != triage.ActionDirect {
			// Finalized without direct release means a clinician signed off.
			typeCode = entity.NotificationTriageFinalized
			title = "Sua triagem foi revisada"
		}
		notifications = append(notifications, &entity.Notification{
			Id:       uuid.New(),
			UserId:   *record.PatientId,
			TypeCode: typeCode,
			Title:    title,
			Message: fmt.Sprintf("Senha %s. %s",
				record.TriageCode, record.Recommendation),
			TriageId:  &record.Id,
			Metadata:  metadata,
			CreatedAt: now,
		})
	}

	return notifications, nil
}

func (cs *consumerService) relayExternal(ctx context.Context, record *entity.TriageRecord) {
	if cs.natsRelay == nil {
		return
	}
	eventType := constant.EventTriageCompleted
	if record.Status == triage.StatusFinalized && record.Action != triage.ActionDirect {
		eventType = constant.EventTriageFinalized
	}
	event := events.BaseEvent{
		Type: eventType,
		Data: map[string]interface{}{
			"triage_id":   record.Id.String(),
			"triage_code": record.TriageCode,
			"risk_level":  record.RiskLevel.String(),
			"action":      string(record.Action),
			"status":      string(record.Status),
			"contact":     record.Contact,
		},
		OccurredAt: time.Now(),
	}
	if err := cs.natsRelay.Publish(ctx, event); err != nil {
		log.Printf("[WARN] Failed to relay event to NATS for %s: %v", record.Id, err)
	}
}

func (cs *consumerService) emailPatient(ctx context.Context, uow unitofwork.UnitOfWork, record *entity.TriageRecord) {
	if cs.emailService == nil || record.PatientId == nil {
		return
	}
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: *record.PatientId})
	if err != nil || user == nil || user.Email == "" {
		return
	}

	go func(email, name, code, risk, recommendation string) {
		if err := cs.emailService.SendTriageCode(email, name, code, risk, recommendation); err != nil {
			log.Printf("[WARN] Failed to email triage code to %s: %v", email, err)
		}
	}(user.Email, user.FullName, record.TriageCode, record.RiskLevel.String(), record.Recommendation)
}
