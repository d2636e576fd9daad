package mapper

import (
	"ai-triage-be/internal/entity"
	"ai-triage-be/internal/model"
)

type UserMapper struct{}

func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

func (m *UserMapper) ToEntity(u *model.User) *entity.User {
	if u == nil {
		return nil
	}
	return &entity.User{
		Id:           u.Id,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		FullName:     u.FullName,
		Role:         entity.UserRole(u.Role),
		Status:       entity.UserStatus(u.Status),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (m *UserMapper) ToModel(u *entity.User) *model.User {
	if u == nil {
		return nil
	}
	return &model.User{
		Id:           u.Id,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		FullName:     u.FullName,
		Role:         string(u.Role),
		Status:       string(u.Status),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (m *UserMapper) ToEntities(users []*model.User) []*entity.User {
	entities := make([]*entity.User, len(users))
	for i, u := range users {
		entities[i] = m.ToEntity(u)
	}
	return entities
}

func (m *UserMapper) PatientDetailsToEntity(p *model.PatientDetails) *entity.PatientDetails {
	if p == nil {
		return nil
	}
	return &entity.PatientDetails{
		Id:             p.Id,
		UserId:         p.UserId,
		Contact:        p.Contact,
		BirthDate:      p.BirthDate,
		BloodType:      p.BloodType,
		Allergies:      p.Allergies,
		ChronicDisease: p.ChronicDisease,
		Notes:          p.Notes,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func (m *UserMapper) PatientDetailsToModel(p *entity.PatientDetails) *model.PatientDetails {
	if p == nil {
		return nil
	}
	return &model.PatientDetails{
		Id:             p.Id,
		UserId:         p.UserId,
		Contact:        p.Contact,
		BirthDate:      p.BirthDate,
		BloodType:      p.BloodType,
		Allergies:      p.Allergies,
		ChronicDisease: p.ChronicDisease,
		Notes:          p.Notes,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
