package doctor

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medbook/medbook/internal/domain/schedule"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const doctorCols = `id, name, specialty, email, phone, active, created_at, updated_at`

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor
	err := row.Scan(&d.ID, &d.Name, &d.Specialty, &d.Email, &d.Phone, &d.Active,
		&d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &d, err
}

func (r *repoPG) Create(ctx context.Context, d *Doctor) error {
	d.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO doctor (id, name, specialty, email, phone, active)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		d.ID, d.Name, d.Specialty, d.Email, d.Phone, d.Active)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return scanDoctor(r.pool.QueryRow(ctx,
		`SELECT `+doctorCols+` FROM doctor WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, d *Doctor) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE doctor SET name=$2, specialty=$3, email=$4, phone=$5, active=$6, updated_at=NOW()
		WHERE id = $1`,
		d.ID, d.Name, d.Specialty, d.Email, d.Phone, d.Active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM doctor WHERE id = $1`, id)
	return err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Doctor, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM doctor`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+doctorCols+` FROM doctor ORDER BY name ASC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Doctor
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, d)
	}
	return items, total, rows.Err()
}

const sessionCols = `id, doctor_id, work_date, work_shift, created_at`

func (r *repoPG) AddWorkSession(ctx context.Context, ws *schedule.WorkSession) error {
	ws.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO doctor_work_session (id, doctor_id, work_date, work_shift)
		VALUES ($1,$2,$3,$4)`,
		ws.ID, ws.DoctorID, ws.WorkDate, ws.WorkShift)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateSession
	}
	return err
}

func (r *repoPG) ListWorkSessions(ctx context.Context, doctorID uuid.UUID) ([]schedule.WorkSession, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+sessionCols+` FROM doctor_work_session
		WHERE doctor_id = $1
		ORDER BY work_date ASC, work_shift ASC`, doctorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []schedule.WorkSession
	for rows.Next() {
		var ws schedule.WorkSession
		if err := rows.Scan(&ws.ID, &ws.DoctorID, &ws.WorkDate, &ws.WorkShift, &ws.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, ws)
	}
	return items, rows.Err()
}

func (r *repoPG) RemoveWorkSession(ctx context.Context, doctorID, sessionID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM doctor_work_session WHERE id = $1 AND doctor_id = $2`, sessionID, doctorID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (r *repoPG) HasWorkSession(ctx context.Context, doctorID uuid.UUID, date schedule.Date, shift schedule.Shift) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM doctor_work_session
			WHERE doctor_id = $1 AND work_date = $2 AND work_shift = $3
		)`, doctorID, date, shift).Scan(&exists)
	return exists, err
}
