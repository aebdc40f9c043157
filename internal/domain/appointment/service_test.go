package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/clinichq/clinic-api/internal/domain/identity"
	"github.com/clinichq/clinic-api/internal/platform/clinicerr"
)

// -- Mocks --

type mockRequestRepo struct {
	requests map[uuid.UUID]*AppointmentRequest
}

func newMockRequestRepo() *mockRequestRepo {
	return &mockRequestRepo{requests: make(map[uuid.UUID]*AppointmentRequest)}
}

func (m *mockRequestRepo) Create(_ context.Context, r *AppointmentRequest) error {
	r.ID = uuid.New()
	m.requests[r.ID] = r
	return nil
}

func (m *mockRequestRepo) GetByID(_ context.Context, id uuid.UUID) (*AppointmentRequest, error) {
	r, ok := m.requests[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return r, nil
}

func (m *mockRequestRepo) UpdateStatus(_ context.Context, id uuid.UUID, status RequestStatus) error {
	r, ok := m.requests[id]
	if !ok {
		return pgx.ErrNoRows
	}
	r.Status = status
	return nil
}

func (m *mockRequestRepo) List(_ context.Context) ([]*AppointmentRequest, error) {
	var result []*AppointmentRequest
	for _, r := range m.requests {
		result = append(result, r)
	}
	return result, nil
}

type mockAppointmentRepo struct {
	appointments map[uuid.UUID]*Appointment
}

func newMockAppointmentRepo() *mockAppointmentRepo {
	return &mockAppointmentRepo{appointments: make(map[uuid.UUID]*Appointment)}
}

func (m *mockAppointmentRepo) Create(_ context.Context, a *Appointment) error {
	a.ID = uuid.New()
	m.appointments[a.ID] = a
	return nil
}

func (m *mockAppointmentRepo) GetByID(_ context.Context, id uuid.UUID) (*Appointment, error) {
	a, ok := m.appointments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return a, nil
}

func (m *mockAppointmentRepo) UpdateStatus(_ context.Context, id uuid.UUID, status AppointmentStatus) error {
	a, ok := m.appointments[id]
	if !ok {
		return pgx.ErrNoRows
	}
	a.Status = status
	return nil
}

func (m *mockAppointmentRepo) UpdateDatetime(_ context.Context, id uuid.UUID, datetime time.Time) error {
	a, ok := m.appointments[id]
	if !ok {
		return pgx.ErrNoRows
	}
	a.Datetime = datetime
	return nil
}

func (m *mockAppointmentRepo) ListByPatient(_ context.Context, patientID uuid.UUID) ([]*Appointment, error) {
	var result []*Appointment
	for _, a := range m.appointments {
		if a.PatientID == patientID {
			result = append(result, a)
		}
	}
	return result, nil
}

type mockStatsRepo struct{}

func (m *mockStatsRepo) DashboardStats(_ context.Context) (*DashboardStats, error) {
	return &DashboardStats{TotalRequests: 3, ReceivedRequests: 1}, nil
}

type mockDoctorLookup struct {
	doctors map[uuid.UUID]*identity.Doctor
}

func (m *mockDoctorLookup) GetByID(_ context.Context, id uuid.UUID) (*identity.Doctor, error) {
	d, ok := m.doctors[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return d, nil
}

type mockPatientLookup struct {
	patients map[uuid.UUID]*identity.Patient
}

func (m *mockPatientLookup) GetByID(_ context.Context, id uuid.UUID) (*identity.Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return p, nil
}

func (m *mockPatientLookup) GetByUserID(_ context.Context, userID uuid.UUID) (*identity.Patient, error) {
	for _, p := range m.patients {
		if p.UserID == userID {
			return p, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type mockNotifier struct {
	sent []struct {
		UserID uuid.UUID
		Title  string
		Type   string
	}
}

func (m *mockNotifier) Notify(_ context.Context, userID uuid.UUID, title, _, typ string) error {
	m.sent = append(m.sent, struct {
		UserID uuid.UUID
		Title  string
		Type   string
	}{userID, title, typ})
	return nil
}

type testEnv struct {
	svc          *Service
	requests     *mockRequestRepo
	appointments *mockAppointmentRepo
	doctors      *mockDoctorLookup
	patients     *mockPatientLookup
	notifier     *mockNotifier
}

func newTestEnv() *testEnv {
	requests := newMockRequestRepo()
	appointments := newMockAppointmentRepo()
	doctors := &mockDoctorLookup{doctors: make(map[uuid.UUID]*identity.Doctor)}
	patients := &mockPatientLookup{patients: make(map[uuid.UUID]*identity.Patient)}
	notifier := &mockNotifier{}
	passthrough := func(ctx context.Context, fn func(ctx context.Context) error) error {
		return fn(ctx)
	}
	svc := NewService(requests, appointments, &mockStatsRepo{}, doctors, patients, notifier, passthrough, zerolog.Nop())
	return &testEnv{svc: svc, requests: requests, appointments: appointments, doctors: doctors, patients: patients, notifier: notifier}
}

func (env *testEnv) addPatient() *identity.Patient {
	p := &identity.Patient{ID: uuid.New(), UserID: uuid.New()}
	env.patients.patients[p.ID] = p
	return p
}

func (env *testEnv) addDoctor() *identity.Doctor {
	d := &identity.Doctor{ID: uuid.New(), UserID: uuid.New()}
	env.doctors.doctors[d.ID] = d
	return d
}

func (env *testEnv) addRequest(patientID uuid.UUID, status RequestStatus) *AppointmentRequest {
	r := &AppointmentRequest{
		ID:         uuid.New(),
		PatientID:  patientID,
		FirstName:  "Jane",
		LastName:   "Doe",
		PreferDate: "2026-09-15",
		Status:     status,
	}
	env.requests.requests[r.ID] = r
	return r
}

// -- Tests --

func TestCreateRequest(t *testing.T) {
	env := newTestEnv()
	patient := env.addPatient()

	req, err := env.svc.CreateRequest(context.Background(), patient.UserID, CreateRequestInput{
		FirstName:  "Jane",
		LastName:   "Doe",
		PreferDate: "2026-09-15",
		Severity:   "mild",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Status != StatusReceived {
		t.Errorf("status = %s, want %s", req.Status, StatusReceived)
	}
	if req.PatientID != patient.ID {
		t.Errorf("patient id = %s, want %s", req.PatientID, patient.ID)
	}
}

func TestCreateRequest_Validation(t *testing.T) {
	env := newTestEnv()
	patient := env.addPatient()

	cases := []struct {
		name string
		in   CreateRequestInput
	}{
		{"missing name", CreateRequestInput{PreferDate: "2026-09-15"}},
		{"missing prefer_date", CreateRequestInput{FirstName: "Jane", LastName: "Doe"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.svc.CreateRequest(context.Background(), patient.UserID, tc.in)
			if clinicerr.KindOf(err) != clinicerr.KindValidation {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreateRequest_UnknownPatient(t *testing.T) {
	env := newTestEnv()
	_, err := env.svc.CreateRequest(context.Background(), uuid.New(), CreateRequestInput{
		FirstName: "Jane", LastName: "Doe", PreferDate: "2026-09-15",
	})
	if clinicerr.KindOf(err) != clinicerr.KindNotFound {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestDecide_Approve(t *testing.T) {
	env := newTestEnv()
	patient := env.addPatient()
	doctor := env.addDoctor()
	req := env.addRequest(patient.ID, StatusReceived)
	when := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)

	decided, err := env.svc.Decide(context.Background(), req.ID, DecideInput{
		Action:   "approve",
		DoctorID: &doctor.ID,
		Datetime: &when,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decided.Status != StatusApproved {
		t.Errorf("status = %s, want %s", decided.Status, StatusApproved)
	}

	if len(env.appointments.appointments) != 1 {
		t.Fatalf("expected 1 appointment, got %d", len(env.appointments.appointments))
	}
	for _, a := range env.appointments.appointments {
		if a.PatientID != patient.ID || a.DoctorID != doctor.ID {
			t.Errorf("appointment links wrong parties: %+v", a)
		}
		if a.Status != StatusScheduled {
			t.Errorf("appointment status = %s, want %s", a.Status, StatusScheduled)
		}
		if !a.Datetime.Equal(when) {
			t.Errorf("datetime = %v, want %v", a.Datetime, when)
		}
	}

	if len(env.notifier.sent) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(env.notifier.sent))
	}
	if env.notifier.sent[0].UserID != patient.UserID {
		t.Errorf("notified %s, want %s", env.notifier.sent[0].UserID, patient.UserID)
	}
	if env.notifier.sent[0].Type != "appointment" {
		t.Errorf("notification type = %s, want appointment", env.notifier.sent[0].Type)
	}
}

func TestDecide_ApproveRequiresDoctorAndDatetime(t *testing.T) {
	env := newTestEnv()
	patient := env.addPatient()
	req := env.addRequest(patient.ID, StatusReceived)

	_, err := env.svc.Decide(context.Background(), req.ID, DecideInput{Action: "approve"})
	if clinicerr.KindOf(err) != clinicerr.KindValidation {
		t.Errorf("expected validation error, got %v", err)
	}
	if req.Status != StatusReceived {
		t.Errorf("status changed to %s on failed approval", req.Status)
	}
}

func TestDecide_ApproveUnknownDoctor(t *testing.T) {
	env := newTestEnv()
	patient := env.addPatient()
	req := env.addRequest(patient.ID, StatusReceived)
	doctorID := uuid.New()
	when := time.Now()

	_, err := env.svc.Decide(context.Background(), req.ID, DecideInput{
		Action: "approve", DoctorID: &doctorID, Datetime: &when,
	})
	if clinicerr.KindOf(err) != clinicerr.KindNotFound {
		t.Errorf("expected not found, got %v", err)
	}
	if len(env.appointments.appointments) != 0 {
		t.Error("appointment created despite unknown doctor")
	}
}

func TestDecide_Reject(t *testing.T) {
	env := newTestEnv()
	patient := env.addPatient()
	req := env.addRequest(patient.ID, StatusReceived)

	decided, err := env.svc.Decide(context.Background(), req.ID, DecideInput{Action: "reject"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decided.Status != StatusRejected {
		t.Errorf("status = %s, want %s", decided.Status, StatusRejected)
	}
	if len(env.appointments.appointments) != 0 {
		t.Error("reject must not create an appointment")
	}
	if len(env.notifier.sent) != 1 || env.notifier.sent[0].Title != "Appointment Rejected" {
		t.Errorf("unexpected notifications: %+v", env.notifier.sent)
	}
}

func TestDecide_TerminalStates(t *testing.T) {
	env := newTestEnv()
	patient := env.addPatient()

	for _, status := range []RequestStatus{StatusApproved, StatusRejected} {
		req := env.addRequest(patient.ID, status)
		_, err := env.svc.Decide(context.Background(), req.ID, DecideInput{Action: "reject"})
		if clinicerr.KindOf(err) != clinicerr.KindConflict {
			t.Errorf("status %s: expected conflict, got %v", status, err)
		}
	}
}

func TestDecide_UnknownAction(t *testing.T) {
	env := newTestEnv()
	patient := env.addPatient()
	req := env.addRequest(patient.ID, StatusReceived)

	_, err := env.svc.Decide(context.Background(), req.ID, DecideInput{Action: "defer"})
	if clinicerr.KindOf(err) != clinicerr.KindValidation {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestDecide_NotFound(t *testing.T) {
	env := newTestEnv()
	_, err := env.svc.Decide(context.Background(), uuid.New(), DecideInput{Action: "reject"})
	if clinicerr.KindOf(err) != clinicerr.KindNotFound {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestCancel(t *testing.T) {
	env := newTestEnv()
	appt := &Appointment{PatientID: uuid.New(), DoctorID: uuid.New(), Status: StatusScheduled}
	if err := env.appointments.Create(context.Background(), appt); err != nil {
		t.Fatal(err)
	}

	cancelled, err := env.svc.Cancel(context.Background(), appt.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cancelled.Status != StatusCancelled {
		t.Errorf("status = %s, want %s", cancelled.Status, StatusCancelled)
	}
}

func TestCancel_NotFound(t *testing.T) {
	env := newTestEnv()
	_, err := env.svc.Cancel(context.Background(), uuid.New())
	if clinicerr.KindOf(err) != clinicerr.KindNotFound {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestReschedule(t *testing.T) {
	env := newTestEnv()
	appt := &Appointment{PatientID: uuid.New(), DoctorID: uuid.New(), Status: StatusScheduled,
		Datetime: time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)}
	if err := env.appointments.Create(context.Background(), appt); err != nil {
		t.Fatal(err)
	}

	newTime := time.Date(2026, 9, 16, 14, 30, 0, 0, time.UTC)
	updated, err := env.svc.Reschedule(context.Background(), appt.ID, newTime)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !updated.Datetime.Equal(newTime) {
		t.Errorf("datetime = %v, want %v", updated.Datetime, newTime)
	}
}

func TestReschedule_ZeroTime(t *testing.T) {
	env := newTestEnv()
	appt := &Appointment{PatientID: uuid.New(), DoctorID: uuid.New(), Status: StatusScheduled}
	if err := env.appointments.Create(context.Background(), appt); err != nil {
		t.Fatal(err)
	}

	_, err := env.svc.Reschedule(context.Background(), appt.ID, time.Time{})
	if clinicerr.KindOf(err) != clinicerr.KindValidation {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestListByPatientUser(t *testing.T) {
	env := newTestEnv()
	patient := env.addPatient()
	other := env.addPatient()
	for _, pid := range []uuid.UUID{patient.ID, patient.ID, other.ID} {
		if err := env.appointments.Create(context.Background(), &Appointment{PatientID: pid, DoctorID: uuid.New()}); err != nil {
			t.Fatal(err)
		}
	}

	items, err := env.svc.ListByPatientUser(context.Background(), patient.UserID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("got %d appointments, want 2", len(items))
	}
}

func TestDashboardStats(t *testing.T) {
	env := newTestEnv()
	stats, err := env.svc.DashboardStats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.TotalRequests != 3 {
		t.Errorf("total requests = %d, want 3", stats.TotalRequests)
	}
}
