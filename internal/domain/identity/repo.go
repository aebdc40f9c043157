package identity

import (
	"context"

	"github.com/google/uuid"
)

type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error
	ListPatientsAndDoctors(ctx context.Context) ([]*UserListing, error)
}

type ProfileRepository interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error)
	GetContact(ctx context.Context, userID uuid.UUID) (*ContactInformation, error)
	GetAddress(ctx context.Context, userID uuid.UUID) (*Address, error)
	GetEmergencyContact(ctx context.Context, userID uuid.UUID) (*EmergencyContact, error)
	UpsertProfile(ctx context.Context, p *Profile) error
	UpsertContact(ctx context.Context, c *ContactInformation) error
	UpsertAddress(ctx context.Context, a *Address) error
	UpsertEmergencyContact(ctx context.Context, e *EmergencyContact) error
}

type DoctorRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Doctor, error)
	ListDirectory(ctx context.Context) ([]*DoctorListing, error)
}

type PatientRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Patient, error)
}
