package availability

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

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const availCols = `id, doctor_id, to_char(date, 'YYYY-MM-DD'), start_time, end_time, created_at`

func (r *repoPG) scan(row pgx.Row) (*Availability, error) {
	var a Availability
	err := row.Scan(&a.ID, &a.DoctorID, &a.Date, &a.StartTime, &a.EndTime, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repoPG) Create(ctx context.Context, a *Availability) error {
	a.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO doctor_availability (id, doctor_id, date, start_time, end_time)
		VALUES ($1, $2, $3, $4, $5)`,
		a.ID, a.DoctorID, a.Date, a.StartTime, a.EndTime)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Availability, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx,
		`SELECT `+availCols+` FROM doctor_availability WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, a *Availability) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE doctor_availability SET date = $2, start_time = $3, end_time = $4
		WHERE id = $1`,
		a.ID, a.Date, a.StartTime, a.EndTime)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM doctor_availability WHERE id = $1`, id)
	return err
}

func (r *repoPG) list(ctx context.Context, query string, args ...interface{}) ([]*Availability, error) {
	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Availability
	for rows.Next() {
		a, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

func (r *repoPG) ListAll(ctx context.Context) ([]*Availability, error) {
	return r.list(ctx, `SELECT `+availCols+` FROM doctor_availability ORDER BY date, start_time`)
}

func (r *repoPG) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*Availability, error) {
	return r.list(ctx, `SELECT `+availCols+` FROM doctor_availability
		WHERE doctor_id = $1 ORDER BY date, start_time`, doctorID)
}

func (r *repoPG) ListByDoctorDate(ctx context.Context, doctorID uuid.UUID, date string) ([]*Availability, error) {
	return r.list(ctx, `SELECT `+availCols+` FROM doctor_availability
		WHERE doctor_id = $1 AND date = $2 ORDER BY start_time`, doctorID, date)
}
