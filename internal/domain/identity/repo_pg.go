package identity

import (
	"context"

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

// =========== User Repository ===========

type userRepoPG struct{ pool *pgxpool.Pool }

func NewUserRepoPG(pool *pgxpool.Pool) UserRepository { return &userRepoPG{pool: pool} }

func (r *userRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *userRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var u User
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT id, email, password_hash, role, created_at FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepoPG) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	_, err := r.conn(ctx).Exec(ctx, `UPDATE users SET password_hash = $2 WHERE id = $1`, id, hash)
	return err
}

func (r *userRepoPG) ListPatientsAndDoctors(ctx context.Context) ([]*UserListing, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT u.id, u.email, u.role,
			COALESCE(p.first_name, ''), COALESCE(p.last_name, '')
		FROM users u
		LEFT JOIN profiles p ON p.user_id = u.id
		WHERE u.role IN ('patient', 'doctor')
		ORDER BY u.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*UserListing
	for rows.Next() {
		var l UserListing
		var first, last string
		if err := rows.Scan(&l.UserID, &l.Email, &l.Role, &first, &last); err != nil {
			return nil, err
		}
		l.DisplayName = displayName(l.Role, first, last, l.Email)
		items = append(items, &l)
	}
	return items, rows.Err()
}

func displayName(role Role, first, last, email string) string {
	name := first
	if last != "" {
		if name != "" {
			name += " "
		}
		name += last
	}
	if name == "" {
		return email
	}
	if role == RoleDoctor {
		return "Dr. " + name
	}
	return name
}

// =========== Profile Repository ===========

type profileRepoPG struct{ pool *pgxpool.Pool }

func NewProfileRepoPG(pool *pgxpool.Pool) ProfileRepository { return &profileRepoPG{pool: pool} }

func (r *profileRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *profileRepoPG) GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	var p Profile
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT user_id, first_name, last_name, date_of_birth, gender
		FROM profiles WHERE user_id = $1`, userID).
		Scan(&p.UserID, &p.FirstName, &p.LastName, &p.DateOfBirth, &p.Gender)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *profileRepoPG) GetContact(ctx context.Context, userID uuid.UUID) (*ContactInformation, error) {
	var c ContactInformation
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT user_id, phone_number FROM contact_information WHERE user_id = $1`, userID).
		Scan(&c.UserID, &c.PhoneNumber)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *profileRepoPG) GetAddress(ctx context.Context, userID uuid.UUID) (*Address, error) {
	var a Address
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT user_id, street, city, state, zip_code, country
		FROM addresses WHERE user_id = $1`, userID).
		Scan(&a.UserID, &a.Street, &a.City, &a.State, &a.ZipCode, &a.Country)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *profileRepoPG) GetEmergencyContact(ctx context.Context, userID uuid.UUID) (*EmergencyContact, error) {
	var e EmergencyContact
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT user_id, name, relationship, phone_number
		FROM emergency_contacts WHERE user_id = $1`, userID).
		Scan(&e.UserID, &e.Name, &e.Relationship, &e.PhoneNumber)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *profileRepoPG) UpsertProfile(ctx context.Context, p *Profile) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO profiles (user_id, first_name, last_name, date_of_birth, gender)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			date_of_birth = EXCLUDED.date_of_birth,
			gender = EXCLUDED.gender`,
		p.UserID, p.FirstName, p.LastName, p.DateOfBirth, p.Gender)
	return err
}

func (r *profileRepoPG) UpsertContact(ctx context.Context, c *ContactInformation) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO contact_information (user_id, phone_number)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET phone_number = EXCLUDED.phone_number`,
		c.UserID, c.PhoneNumber)
	return err
}

func (r *profileRepoPG) UpsertAddress(ctx context.Context, a *Address) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO addresses (user_id, street, city, state, zip_code, country)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE SET
			street = EXCLUDED.street,
			city = EXCLUDED.city,
			state = EXCLUDED.state,
			zip_code = EXCLUDED.zip_code,
			country = EXCLUDED.country`,
		a.UserID, a.Street, a.City, a.State, a.ZipCode, a.Country)
	return err
}

func (r *profileRepoPG) UpsertEmergencyContact(ctx context.Context, e *EmergencyContact) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO emergency_contacts (user_id, name, relationship, phone_number)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			name = EXCLUDED.name,
			relationship = EXCLUDED.relationship,
			phone_number = EXCLUDED.phone_number`,
		e.UserID, e.Name, e.Relationship, e.PhoneNumber)
	return err
}

// =========== Doctor Repository ===========

type doctorRepoPG struct{ pool *pgxpool.Pool }

func NewDoctorRepoPG(pool *pgxpool.Pool) DoctorRepository { return &doctorRepoPG{pool: pool} }

func (r *doctorRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *doctorRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	var d Doctor
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT id, user_id, specialization FROM doctors WHERE id = $1`, id).
		Scan(&d.ID, &d.UserID, &d.Specialization)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *doctorRepoPG) GetByUserID(ctx context.Context, userID uuid.UUID) (*Doctor, error) {
	var d Doctor
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT id, user_id, specialization FROM doctors WHERE user_id = $1`, userID).
		Scan(&d.ID, &d.UserID, &d.Specialization)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *doctorRepoPG) ListDirectory(ctx context.Context) ([]*DoctorListing, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT d.id, d.user_id, COALESCE(p.first_name, ''), COALESCE(p.last_name, ''),
			d.specialization, u.email
		FROM doctors d
		JOIN users u ON u.id = d.user_id
		LEFT JOIN profiles p ON p.user_id = d.user_id
		ORDER BY p.last_name, p.first_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*DoctorListing
	for rows.Next() {
		var l DoctorListing
		if err := rows.Scan(&l.DoctorID, &l.UserID, &l.FirstName, &l.LastName, &l.Specialization, &l.Email); err != nil {
			return nil, err
		}
		items = append(items, &l)
	}
	return items, rows.Err()
}

// =========== Patient Repository ===========

type patientRepoPG struct{ pool *pgxpool.Pool }

func NewPatientRepoPG(pool *pgxpool.Pool) PatientRepository { return &patientRepoPG{pool: pool} }

func (r *patientRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *patientRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	var p Patient
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT id, user_id FROM patients WHERE id = $1`, id).
		Scan(&p.ID, &p.UserID)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *patientRepoPG) GetByUserID(ctx context.Context, userID uuid.UUID) (*Patient, error) {
	var p Patient
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT id, user_id FROM patients WHERE user_id = $1`, userID).
		Scan(&p.ID, &p.UserID)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
