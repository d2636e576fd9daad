package contract

import (
	"context"

	"ai-triage-be/internal/entity"
	"ai-triage-be/internal/repository/specification"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error

	// Patient profile
	SavePatientDetails(ctx context.Context, details *entity.PatientDetails) error
	FindPatientDetails(ctx context.Context, specs ...specification.Specification) (*entity.PatientDetails, error)

	// Staff lookup for notification fan-out
	FindByRoles(ctx context.Context, roles ...string) ([]*entity.User, error)
}
