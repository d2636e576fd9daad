package mapper

import (
	"ai-triage-be/internal/entity"
	"ai-triage-be/internal/model"
	"ai-triage-be/pkg/triage"
)

type TriageMapper struct{}

func NewTriageMapper() *TriageMapper {
	return &TriageMapper{}
}

func (m *TriageMapper) ToEntity(r *model.TriageRecord) *entity.TriageRecord {
	if r == nil {
		return nil
	}
	risk, _ := triage.ParseRiskLevel(r.RiskLevel)
	return &entity.TriageRecord{
		Id:              r.Id,
		PatientId:       r.PatientId,
		Contact:         r.Contact,
		Channel:         triage.Channel(r.Channel),
		SymptomsText:    r.SymptomsText,
		RiskLevel:       risk,
		Confidence:      r.Confidence,
		PriorityScore:   r.PriorityScore,
		Action:          triage.Action(r.Action),
		Status:          triage.Status(r.Status),
		TriageCode:      r.TriageCode,
		Reasoning:       r.Reasoning,
		Recommendation:  r.Recommendation,
		SymptomsSummary: r.SymptomsSummary,
		Degradation:     triage.Degradation(r.Degradation),
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
		FinalizedAt:     r.FinalizedAt,
	}
}

func (m *TriageMapper) ToModel(r *entity.TriageRecord) *model.TriageRecord {
	if r == nil {
		return nil
	}
	return &model.TriageRecord{
		Id:              r.Id,
		PatientId:       r.PatientId,
		Contact:         r.Contact,
		Channel:         string(r.Channel),
		SymptomsText:    r.SymptomsText,
		RiskLevel:       r.RiskLevel.String(),
		Confidence:      r.Confidence,
		PriorityScore:   r.PriorityScore,
		Action:          string(r.Action),
		Status:          string(r.Status),
		TriageCode:      r.TriageCode,
		Reasoning:       r.Reasoning,
		Recommendation:  r.Recommendation,
		SymptomsSummary: r.SymptomsSummary,
		Degradation:     string(r.Degradation),
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
		FinalizedAt:     r.FinalizedAt,
	}
}

func (m *TriageMapper) ToEntities(records []*model.TriageRecord) []*entity.TriageRecord {
	entities := make([]*entity.TriageRecord, len(records))
	for i, r := range records {
		entities[i] = m.ToEntity(r)
	}
	return entities
}

func (m *TriageMapper) AnalysisToEntity(a *model.TriageAnalysis) *entity.TriageAnalysis {
	if a == nil {
		return nil
	}
	risk, _ := triage.ParseRiskLevel(a.RiskLevel)
	return &entity.TriageAnalysis{
		Id:             a.Id,
		TriageId:       a.TriageId,
		Turn:           a.Turn,
		RiskLevel:      risk,
		Confidence:     a.Confidence,
		PriorityScore:  a.PriorityScore,
		Reasoning:      a.Reasoning,
		Recommendation: a.Recommendation,
		NextQuestion:   a.NextQuestion,
		Degradation:    triage.Degradation(a.Degradation),
		CreatedAt:      a.CreatedAt,
	}
}

func (m *TriageMapper) AnalysisToModel(a *entity.TriageAnalysis) *model.TriageAnalysis {
	if a == nil {
		return nil
	}
	return &model.TriageAnalysis{
		Id:             a.Id,
		TriageId:       a.TriageId,
		Turn:           a.Turn,
		RiskLevel:      a.RiskLevel.String(),
		Confidence:     a.Confidence,
		PriorityScore:  a.PriorityScore,
		Reasoning:      a.Reasoning,
		Recommendation: a.Recommendation,
		NextQuestion:   a.NextQuestion,
		Degradation:    string(a.Degradation),
		CreatedAt:      a.CreatedAt,
	}
}

func (m *TriageMapper) AnalysesToEntities(analyses []*model.TriageAnalysis) []*entity.TriageAnalysis {
	entities := make([]*entity.TriageAnalysis, len(analyses))
	for i, a := range analyses {
		entities[i] = m.AnalysisToEntity(a)
	}
	return entities
}

func (m *TriageMapper) MessageToEntity(msg *model.TriageMessage) *entity.TriageMessage {
	if msg == nil {
		return nil
	}
	return &entity.TriageMessage{
		Id:        msg.Id,
		TriageId:  msg.TriageId,
		Direction: entity.MessageDirection(msg.Direction),
		Content:   msg.Content,
		CreatedAt: msg.CreatedAt,
	}
}

func (m *TriageMapper) MessageToModel(msg *entity.TriageMessage) *model.TriageMessage {
	if msg == nil {
		return nil
	}
	return &model.TriageMessage{
		Id:        msg.Id,
		TriageId:  msg.TriageId,
		Direction: string(msg.Direction),
		Content:   msg.Content,
		CreatedAt: msg.CreatedAt,
	}
}

func (m *TriageMapper) MessagesToEntities(msgs []*model.TriageMessage) []*entity.TriageMessage {
	entities := make([]*entity.TriageMessage, len(msgs))
	for i, msg := range msgs {
		entities[i] = m.MessageToEntity(msg)
	}
	return entities
}

func (m *TriageMapper) SessionToEntity(s *model.ConversationSession) *entity.ConversationSession {
	if s == nil {
		return nil
	}
	return &entity.ConversationSession{
		Id:              s.Id,
		TriageId:        s.TriageId,
		Contact:         s.Contact,
		Step:            s.Step,
		AccumulatedText: s.AccumulatedText,
		Turns:           s.Turns,
		LastMessageAt:   s.LastMessageAt,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

func (m *TriageMapper) SessionToModel(s *entity.ConversationSession) *model.ConversationSession {
	if s == nil {
		return nil
	}
	return &model.ConversationSession{
		Id:              s.Id,
		TriageId:        s.TriageId,
		Contact:         s.Contact,
		Step:            s.Step,
		AccumulatedText: s.AccumulatedText,
		Turns:           s.Turns,
		LastMessageAt:   s.LastMessageAt,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

func (m *TriageMapper) ReviewToEntity(r *model.TriageReview) *entity.TriageReview {
	if r == nil {
		return nil
	}
	risk, _ := triage.ParseRiskLevel(r.FinalRisk)
	return &entity.TriageReview{
		Id:            r.Id,
		TriageId:      r.TriageId,
		ReviewerId:    r.ReviewerId,
		Decision:      entity.ReviewDecision(r.Decision),
		FinalRisk:     risk,
		FinalPriority: r.FinalPriority,
		Comment:       r.Comment,
		CreatedAt:     r.CreatedAt,
	}
}

func (m *TriageMapper) ReviewToModel(r *entity.TriageReview) *model.TriageReview {
	if r == nil {
		return nil
	}
	return &model.TriageReview{
		Id:            r.Id,
		TriageId:      r.TriageId,
		ReviewerId:    r.ReviewerId,
		Decision:      string(r.Decision),
		FinalRisk:     r.FinalRisk.String(),
		FinalPriority: r.FinalPriority,
		Comment:       r.Comment,
		CreatedAt:     r.CreatedAt,
	}
}
