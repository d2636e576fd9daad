package service

import (
	"encoding/json"

	"ai-triage-be/internal/constant"
	"ai-triage-be/internal/entity"
	"ai-triage-be/pkg/triage"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// TriageCompletedMessage is the internal event raised whenever the engine
// reaches a terminal decision for a triage record.
type TriageCompletedMessage struct {
	TriageId   uuid.UUID  `json:"triage_id"`
	PatientId  *uuid.UUID `json:"patient_id,omitempty"`
	Contact    string     `json:"contact"`
	TriageCode string     `json:"triage_code"`
	RiskLevel  string     `json:"risk_level"`
	Action     string     `json:"action"`
	Status     string     `json:"status"`
	Degraded   bool       `json:"degraded"`
}

type IPublisherService interface {
	PublishTriageCompleted(record *entity.TriageRecord) error
}

type publisherService struct {
	pubSub *gochannel.GoChannel
	topic  string
}

func NewPublisherService(pubSub *gochannel.GoChannel) IPublisherService {
	return &publisherService{
		pubSub: pubSub,
		topic:  constant.TopicTriageCompleted,
	}
}

func (s *publisherService) PublishTriageCompleted(record *entity.TriageRecord) error {
	payload := TriageCompletedMessage{
		TriageId:   record.Id,
		PatientId:  record.PatientId,
		Contact:    record.Contact,
		TriageCode: record.TriageCode,
		RiskLevel:  record.RiskLevel.String(),
		Action:     string(record.Action),
		Status:     string(record.Status),
		Degraded:   record.Degradation != triage.DegradationNone,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	return s.pubSub.Publish(s.topic, msg)
}
