package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinichq/clinic-api/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// =========== Request Repository ===========

type requestRepoPG struct{ pool *pgxpool.Pool }

func NewRequestRepoPG(pool *pgxpool.Pool) RequestRepository { return &requestRepoPG{pool: pool} }

func (r *requestRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const requestCols = `id, patient_id, first_name, last_name, date_of_birth, email,
	phone_number, prefer_date, prefer_time, severity, description, status, created_at`

func (r *requestRepoPG) scan(row pgx.Row) (*AppointmentRequest, error) {
	var req AppointmentRequest
	err := row.Scan(&req.ID, &req.PatientID, &req.FirstName, &req.LastName, &req.DateOfBirth,
		&req.Email, &req.PhoneNumber, &req.PreferDate, &req.PreferTime, &req.Severity,
		&req.Description, &req.Status, &req.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *requestRepoPG) Create(ctx context.Context, req *AppointmentRequest) error {
	req.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO appointment_requests (id, patient_id, first_name, last_name,
			date_of_birth, email, phone_number, prefer_date, prefer_time,
			severity, description, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		req.ID, req.PatientID, req.FirstName, req.LastName, req.DateOfBirth,
		req.Email, req.PhoneNumber, req.PreferDate, req.PreferTime,
		req.Severity, req.Description, req.Status)
	return err
}

func (r *requestRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*AppointmentRequest, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx,
		`SELECT `+requestCols+` FROM appointment_requests WHERE id = $1`, id))
}

func (r *requestRepoPG) UpdateStatus(ctx context.Context, id uuid.UUID, status RequestStatus) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE appointment_requests SET status = $2 WHERE id = $1`, id, status)
	return err
}

func (r *requestRepoPG) List(ctx context.Context) ([]*AppointmentRequest, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+requestCols+` FROM appointment_requests ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*AppointmentRequest
	for rows.Next() {
		req, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, req)
	}
	return items, rows.Err()
}

// =========== Appointment Repository ===========

type appointmentRepoPG struct{ pool *pgxpool.Pool }

func NewAppointmentRepoPG(pool *pgxpool.Pool) AppointmentRepository {
	return &appointmentRepoPG{pool: pool}
}

func (r *appointmentRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const apptCols = `id, patient_id, doctor_id, datetime, status, created_at, updated_at`

func (r *appointmentRepoPG) scan(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.PatientID, &a.DoctorID, &a.Datetime, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *appointmentRepoPG) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO appointments (id, patient_id, doctor_id, datetime, status)
		VALUES ($1, $2, $3, $4, $5)`,
		a.ID, a.PatientID, a.DoctorID, a.Datetime, a.Status)
	return err
}

func (r *appointmentRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx,
		`SELECT `+apptCols+` FROM appointments WHERE id = $1`, id))
}

func (r *appointmentRepoPG) UpdateStatus(ctx context.Context, id uuid.UUID, status AppointmentStatus) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE appointments SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	return err
}

func (r *appointmentRepoPG) UpdateDatetime(ctx context.Context, id uuid.UUID, datetime time.Time) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE appointments SET datetime = $2, updated_at = NOW() WHERE id = $1`, id, datetime)
	return err
}

func (r *appointmentRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Appointment, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+apptCols+` FROM appointments WHERE patient_id = $1 ORDER BY datetime DESC`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Appointment
	for rows.Next() {
		a, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

// =========== Stats Repository ===========

type statsRepoPG struct{ pool *pgxpool.Pool }

func NewStatsRepoPG(pool *pgxpool.Pool) StatsRepository { return &statsRepoPG{pool: pool} }

func (r *statsRepoPG) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	var s DashboardStats
	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM appointment_requests),
			(SELECT COUNT(*) FROM appointment_requests WHERE status = 'Received'),
			(SELECT COUNT(*) FROM appointment_requests WHERE status = 'Approved'),
			(SELECT COUNT(*) FROM appointment_requests WHERE status = 'Rejected'),
			(SELECT COUNT(*) FROM appointments),
			(SELECT COUNT(*) FROM appointments WHERE status = 'Scheduled'),
			(SELECT COUNT(*) FROM patients),
			(SELECT COUNT(*) FROM doctors)`).
		Scan(&s.TotalRequests, &s.ReceivedRequests, &s.ApprovedRequests, &s.RejectedRequests,
			&s.TotalAppointments, &s.ScheduledAppointments, &s.TotalPatients, &s.TotalDoctors)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
