package service

import (
	"context"
	"fmt"

	"ai-triage-be/internal/constant"
	"ai-triage-be/internal/entity"
	"ai-triage-be/internal/pkg/logger"
	"ai-triage-be/internal/pkg/mailer"
	"ai-triage-be/internal/repository/unitofwork"
	"ai-triage-be/pkg/events"
	pktNats "ai-triage-be/pkg/nats"
	"ai-triage-be/pkg/triage"
)

// IAlertService emails staff about triages needing attention. It feeds off
// the NATS relay so alerts also fire for triages completed on other
// instances.
type IAlertService interface {
	Start() error
}

type alertService struct {
	subscriber   *pktNats.Subscriber
	uowFactory   unitofwork.RepositoryFactory
	emailService mailer.IEmailService
	logger       logger.ILogger
}

func NewAlertService(
	subscriber *pktNats.Subscriber,
	uowFactory unitofwork.RepositoryFactory,
	emailService mailer.IEmailService,
	log logger.ILogger,
) IAlertService {
	return &alertService{
		subscriber:   subscriber,
		uowFactory:   uowFactory,
		emailService: emailService,
		logger:       log,
	}
}

func (s *alertService) Start() error {
	subject := fmt.Sprintf("events.%s", constant.EventTriageCompleted)
	return s.subscriber.Subscribe(subject, "triage-alert-mailer", s.handleEvent)
}

func (s *alertService) handleEvent(ctx context.Context, event events.Event) error {
	payload := event.Payload()

	action, _ := payload["action"].(string)
	if action == "" || action == string(triage.ActionDirect) {
		return nil
	}

	triageCode, _ := payload["triage_code"].(string)
	riskLevel, _ := payload["risk_level"].(string)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	staff, err := uow.UserRepository().FindByRoles(ctx,
		string(entity.UserRoleNurse), string(entity.UserRoleDoctor))
	if err != nil {
		return err
	}

	for _, u := range staff {
		if u.Email == "" {
			continue
		}
		if err := s.emailService.SendReviewAlert(u.Email, triageCode, riskLevel); err != nil {
			s.logger.Warn(constant.ModuleConsumer, "Failed to send review alert", map[string]interface{}{
				"email": u.Email,
				"error": err.Error(),
			})
		}
	}

	return nil
}
