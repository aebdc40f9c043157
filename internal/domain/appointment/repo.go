package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type RequestRepository interface {
	Create(ctx context.Context, r *AppointmentRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*AppointmentRequest, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status RequestStatus) error
	List(ctx context.Context) ([]*AppointmentRequest, error)
}

type AppointmentRepository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status AppointmentStatus) error
	UpdateDatetime(ctx context.Context, id uuid.UUID, datetime time.Time) error
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Appointment, error)
}

type StatsRepository interface {
	DashboardStats(ctx context.Context) (*DashboardStats, error)
}
