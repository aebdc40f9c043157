package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/clinichq/clinic-api/internal/platform/clinicerr"
)

type Service struct {
	users    UserRepository
	profiles ProfileRepository
	doctors  DoctorRepository
	patients PatientRepository
}

func NewService(users UserRepository, profiles ProfileRepository, doctors DoctorRepository, patients PatientRepository) *Service {
	return &Service{users: users, profiles: profiles, doctors: doctors, patients: patients}
}

// GetProfile assembles the user row with its optional sub-records. The
// password hash never leaves the service.
func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileView, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, clinicerr.FromPG(err, "user not found")
	}

	view := &ProfileView{User: u}

	if p, err := s.profiles.GetProfile(ctx, userID); err == nil {
		view.Profile = p
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, clinicerr.Internalf(err, "load profile")
	}
	if c, err := s.profiles.GetContact(ctx, userID); err == nil {
		view.Contact = c
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, clinicerr.Internalf(err, "load contact information")
	}
	if a, err := s.profiles.GetAddress(ctx, userID); err == nil {
		view.Address = a
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, clinicerr.Internalf(err, "load address")
	}
	if e, err := s.profiles.GetEmergencyContact(ctx, userID); err == nil {
		view.EmergencyContact = e
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, clinicerr.Internalf(err, "load emergency contact")
	}

	return view, nil
}

// UpdateProfile upserts each section the input supplies. Sections left nil
// keep their stored values.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*ProfileView, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, clinicerr.FromPG(err, "user not found")
	}

	if in := input.Profile; in != nil {
		p := &Profile{
			UserID:      userID,
			FirstName:   in.FirstName,
			LastName:    in.LastName,
			DateOfBirth: in.DateOfBirth,
			Gender:      in.Gender,
		}
		if err := s.profiles.UpsertProfile(ctx, p); err != nil {
			return nil, clinicerr.Internalf(err, "save profile")
		}
	}
	if in := input.Contact; in != nil {
		c := &ContactInformation{UserID: userID, PhoneNumber: in.PhoneNumber}
		if err := s.profiles.UpsertContact(ctx, c); err != nil {
			return nil, clinicerr.Internalf(err, "save contact information")
		}
	}
	if in := input.Address; in != nil {
		a := &Address{
			UserID:  userID,
			Street:  in.Street,
			City:    in.City,
			State:   in.State,
			ZipCode: in.ZipCode,
			Country: in.Country,
		}
		if err := s.profiles.UpsertAddress(ctx, a); err != nil {
			return nil, clinicerr.Internalf(err, "save address")
		}
	}
	if in := input.EmergencyContact; in != nil {
		e := &EmergencyContact{
			UserID:       userID,
			Name:         in.Name,
			Relationship: in.Relationship,
			PhoneNumber:  in.PhoneNumber,
		}
		if err := s.profiles.UpsertEmergencyContact(ctx, e); err != nil {
			return nil, clinicerr.Internalf(err, "save emergency contact")
		}
	}

	return s.GetProfile(ctx, userID)
}

// ChangePassword verifies the current password and stores a bcrypt hash of
// the new one.
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, current, newPassword string) error {
	if current == "" || newPassword == "" {
		return clinicerr.Validationf("current and new password are required")
	}
	if len(newPassword) < 6 {
		return clinicerr.Validationf("new password must be at least 6 characters")
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return clinicerr.FromPG(err, "user not found")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(current)); err != nil {
		return clinicerr.Validationf("current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return clinicerr.Internalf(err, "hash password")
	}

	if err := s.users.UpdatePasswordHash(ctx, userID, string(hash)); err != nil {
		return clinicerr.Internalf(err, "store password")
	}
	return nil
}

// ListDoctors is the public doctor directory.
func (s *Service) ListDoctors(ctx context.Context) ([]*DoctorListing, error) {
	items, err := s.doctors.ListDirectory(ctx)
	if err != nil {
		return nil, clinicerr.Internalf(err, "list doctors")
	}
	if items == nil {
		items = []*DoctorListing{}
	}
	return items, nil
}

// ListUsers returns the admin view of all patient and doctor accounts.
func (s *Service) ListUsers(ctx context.Context) ([]*UserListing, error) {
	items, err := s.users.ListPatientsAndDoctors(ctx)
	if err != nil {
		return nil, clinicerr.Internalf(err, "list users")
	}
	if items == nil {
		items = []*UserListing{}
	}
	return items, nil
}

// GetRoleRecord returns the caller's role together with the patient or doctor
// record behind it. A missing record is not an error; the role still answers.
func (s *Service) GetRoleRecord(ctx context.Context, userID uuid.UUID) (*RoleRecord, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, clinicerr.FromPG(err, "user not found")
	}

	rec := &RoleRecord{Role: u.Role}
	switch u.Role {
	case RolePatient:
		p, err := s.patients.GetByUserID(ctx, userID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, clinicerr.Internalf(err, "load patient record")
		}
		rec.Patient = p
	case RoleDoctor:
		d, err := s.doctors.GetByUserID(ctx, userID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, clinicerr.Internalf(err, "load doctor record")
		}
		rec.Doctor = d
	}
	return rec, nil
}

// GetDoctorByUserID resolves the doctor record for a doctor's user account.
func (s *Service) GetDoctorByUserID(ctx context.Context, userID uuid.UUID) (*Doctor, error) {
	d, err := s.doctors.GetByUserID(ctx, userID)
	if err != nil {
		return nil, clinicerr.FromPG(err, "doctor not found")
	}
	return d, nil
}

// GetPatientByUserID resolves the patient record for a patient's user account.
func (s *Service) GetPatientByUserID(ctx context.Context, userID uuid.UUID) (*Patient, error) {
	p, err := s.patients.GetByUserID(ctx, userID)
	if err != nil {
		return nil, clinicerr.FromPG(err, "patient not found")
	}
	return p, nil
}
