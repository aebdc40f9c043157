package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinichq/clinic-api/internal/domain/identity"
	"github.com/clinichq/clinic-api/internal/platform/clinicerr"
)

// TxFunc runs fn atomically. The server binds this to db.WithTx; tests pass
// a plain pass-through.
type TxFunc func(ctx context.Context, fn func(ctx context.Context) error) error

// Notifier delivers an in-app notification. Failures are logged, never
// surfaced to the API caller.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, title, message, typ string) error
}

type DoctorLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*identity.Doctor, error)
}

type PatientLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*identity.Patient, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*identity.Patient, error)
}

type Service struct {
	requests     RequestRepository
	appointments AppointmentRepository
	stats        StatsRepository
	doctors      DoctorLookup
	patients     PatientLookup
	notifier     Notifier
	inTx         TxFunc
	logger       zerolog.Logger
}

func NewService(requests RequestRepository, appointments AppointmentRepository, stats StatsRepository,
	doctors DoctorLookup, patients PatientLookup, notifier Notifier, inTx TxFunc, logger zerolog.Logger) *Service {
	return &Service{
		requests:     requests,
		appointments: appointments,
		stats:        stats,
		doctors:      doctors,
		patients:     patients,
		notifier:     notifier,
		inTx:         inTx,
		logger:       logger,
	}
}

// CreateRequestInput is the patient intake form.
type CreateRequestInput struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DateOfBirth string `json:"date_of_birth"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	PreferDate  string `json:"prefer_date"`
	PreferTime  string `json:"prefer_time"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
}

// CreateRequest files an intake form for the calling patient. New requests
// always start in Received.
func (s *Service) CreateRequest(ctx context.Context, patientUserID uuid.UUID, in CreateRequestInput) (*AppointmentRequest, error) {
	if in.FirstName == "" || in.LastName == "" {
		return nil, clinicerr.Validationf("first_name and last_name are required")
	}
	if in.PreferDate == "" {
		return nil, clinicerr.Validationf("prefer_date is required")
	}

	patient, err := s.patients.GetByUserID(ctx, patientUserID)
	if err != nil {
		return nil, clinicerr.FromPG(err, "patient not found")
	}

	req := &AppointmentRequest{
		PatientID:   patient.ID,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		DateOfBirth: in.DateOfBirth,
		Email:       in.Email,
		PhoneNumber: in.PhoneNumber,
		PreferDate:  in.PreferDate,
		PreferTime:  in.PreferTime,
		Severity:    in.Severity,
		Description: in.Description,
		Status:      StatusReceived,
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, clinicerr.Internalf(err, "create appointment request")
	}
	return req, nil
}

// ListRequests returns all requests, newest first.
func (s *Service) ListRequests(ctx context.Context) ([]*AppointmentRequest, error) {
	items, err := s.requests.List(ctx)
	if err != nil {
		return nil, clinicerr.Internalf(err, "list appointment requests")
	}
	if items == nil {
		items = []*AppointmentRequest{}
	}
	return items, nil
}

// DecideInput carries the admin's verdict on a request.
type DecideInput struct {
	Action   string     `json:"action"`
	DoctorID *uuid.UUID `json:"doctor_id"`
	Datetime *time.Time `json:"appointment_datetime"`
}

// Decide approves or rejects a request. A request can be decided once; any
// later decision hits a terminal state and conflicts. Approval writes the
// status flip and the new appointment in a single transaction.
func (s *Service) Decide(ctx context.Context, requestID uuid.UUID, in DecideInput) (*AppointmentRequest, error) {
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, clinicerr.FromPG(err, "appointment request not found")
	}
	if req.Status != StatusReceived {
		return nil, clinicerr.Conflictf("request already %s", req.Status)
	}

	switch in.Action {
	case "approve":
		return s.approve(ctx, req, in)
	case "reject":
		return s.reject(ctx, req)
	default:
		return nil, clinicerr.Validationf("action must be approve or reject")
	}
}

func (s *Service) approve(ctx context.Context, req *AppointmentRequest, in DecideInput) (*AppointmentRequest, error) {
	if in.DoctorID == nil || in.Datetime == nil {
		return nil, clinicerr.Validationf("doctor_id and appointment_datetime are required to approve")
	}
	if _, err := s.doctors.GetByID(ctx, *in.DoctorID); err != nil {
		return nil, clinicerr.FromPG(err, "doctor not found")
	}

	err := s.inTx(ctx, func(ctx context.Context) error {
		if err := s.requests.UpdateStatus(ctx, req.ID, StatusApproved); err != nil {
			return clinicerr.Internalf(err, "update request status")
		}
		appt := &Appointment{
			PatientID: req.PatientID,
			DoctorID:  *in.DoctorID,
			Datetime:  *in.Datetime,
			Status:    StatusScheduled,
		}
		if err := s.appointments.Create(ctx, appt); err != nil {
			return clinicerr.Internalf(err, "create appointment")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	req.Status = StatusApproved
	s.notifyPatient(ctx, req, "Appointment Approved",
		"Your appointment request has been approved.")
	return req, nil
}

func (s *Service) reject(ctx context.Context, req *AppointmentRequest) (*AppointmentRequest, error) {
	if err := s.requests.UpdateStatus(ctx, req.ID, StatusRejected); err != nil {
		return nil, clinicerr.Internalf(err, "update request status")
	}
	req.Status = StatusRejected
	s.notifyPatient(ctx, req, "Appointment Rejected",
		"Your appointment request has been rejected.")
	return req, nil
}

func (s *Service) notifyPatient(ctx context.Context, req *AppointmentRequest, title, message string) {
	patient, err := s.patients.GetByID(ctx, req.PatientID)
	if err != nil {
		s.logger.Warn().Err(err).Str("request_id", req.ID.String()).Msg("notify: resolve patient failed")
		return
	}
	if err := s.notifier.Notify(ctx, patient.UserID, title, message, "appointment"); err != nil {
		s.logger.Warn().Err(err).Str("user_id", patient.UserID.String()).Msg("notify failed")
	}
}

// Cancel marks an appointment Cancelled. Any current status is accepted.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	appt, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, clinicerr.FromPG(err, "appointment not found")
	}
	if err := s.appointments.UpdateStatus(ctx, id, StatusCancelled); err != nil {
		return nil, clinicerr.Internalf(err, "cancel appointment")
	}
	appt.Status = StatusCancelled
	return appt, nil
}

// Reschedule overwrites the appointment's datetime. The new time is not
// checked against the doctor's windows or other bookings.
func (s *Service) Reschedule(ctx context.Context, id uuid.UUID, datetime time.Time) (*Appointment, error) {
	appt, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, clinicerr.FromPG(err, "appointment not found")
	}
	if datetime.IsZero() {
		return nil, clinicerr.Validationf("appointment_datetime is required")
	}
	if err := s.appointments.UpdateDatetime(ctx, id, datetime); err != nil {
		return nil, clinicerr.Internalf(err, "reschedule appointment")
	}
	appt.Datetime = datetime
	return appt, nil
}

// ListByPatientUser returns the calling patient's appointments.
func (s *Service) ListByPatientUser(ctx context.Context, userID uuid.UUID) ([]*Appointment, error) {
	patient, err := s.patients.GetByUserID(ctx, userID)
	if err != nil {
		return nil, clinicerr.FromPG(err, "patient not found")
	}
	items, err := s.appointments.ListByPatient(ctx, patient.ID)
	if err != nil {
		return nil, clinicerr.Internalf(err, "list appointments")
	}
	if items == nil {
		items = []*Appointment{}
	}
	return items, nil
}

// DashboardStats is the admin overview of request and booking volume.
func (s *Service) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	stats, err := s.stats.DashboardStats(ctx)
	if err != nil {
		return nil, clinicerr.Internalf(err, "load dashboard stats")
	}
	return stats, nil
}
