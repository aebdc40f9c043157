package availability

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, a *Availability) error
	GetByID(ctx context.Context, id uuid.UUID) (*Availability, error)
	Update(ctx context.Context, a *Availability) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListAll(ctx context.Context) ([]*Availability, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*Availability, error)
	ListByDoctorDate(ctx context.Context, doctorID uuid.UUID, date string) ([]*Availability, error)
}
