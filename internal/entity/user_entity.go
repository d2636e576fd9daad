package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string
type UserStatus string

const (
	UserRolePatient   UserRole = "patient"
	UserRoleNurse     UserRole = "nurse"
	UserRoleDoctor    UserRole = "doctor"
	UserRoleAdmin     UserRole = "admin"

	UserStatusPending UserStatus = "pending"
	UserStatusActive  UserStatus = "active"
	UserStatusBlocked UserStatus = "blocked"
)

type User struct {
	Id           uuid.UUID
	Email        string
	PasswordHash *string
	FullName     string
	Role         UserRole
	Status       UserStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type PatientDetails struct {
	Id             uuid.UUID
	UserId         uuid.UUID
	Contact        string
	BirthDate      *time.Time
	BloodType      *string
	Allergies      *string
	ChronicDisease *string
	Notes          *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Age derives the patient age from BirthDate at the given instant; it
// returns nil when the birth date is unknown.
func (p *PatientDetails) Age(now time.Time) *int {
	if p.BirthDate == nil {
		return nil
	}
	years := now.Year() - p.BirthDate.Year()
	anniversary := p.BirthDate.AddDate(years, 0, 0)
	if anniversary.After(now) {
		years--
	}
	return &years
}
