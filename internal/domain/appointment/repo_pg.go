package appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medbook/medbook/internal/domain/schedule"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const apptCols = `a.id, a.doctor_id, a.patient_id, a.work_date, a.work_shift,
	a.status, a.payment_status, a.reason,
	COALESCE(p.name, ''), COALESCE(d.name, ''),
	a.created_at, a.updated_at`

const apptJoins = ` FROM appointment a
	LEFT JOIN patient p ON p.id = a.patient_id
	LEFT JOIN doctor d ON d.id = a.doctor_id`

func scanAppt(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.DoctorID, &a.PatientID, &a.WorkDate, &a.WorkShift,
		&a.Status, &a.PaymentStatus, &a.Reason,
		&a.PatientName, &a.DoctorName,
		&a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &a, err
}

func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO appointment (id, doctor_id, patient_id, work_date, work_shift,
			status, payment_status, reason)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		a.ID, a.DoctorID, a.PatientID, a.WorkDate, a.WorkShift,
		a.Status, a.PaymentStatus, a.Reason)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return scanAppt(r.pool.QueryRow(ctx,
		`SELECT `+apptCols+apptJoins+` WHERE a.id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, a *Appointment) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE appointment SET doctor_id=$2, patient_id=$3, work_date=$4,
			work_shift=$5, status=$6, payment_status=$7, reason=$8, updated_at=NOW()
		WHERE id = $1`,
		a.ID, a.DoctorID, a.PatientID, a.WorkDate,
		a.WorkShift, a.Status, a.PaymentStatus, a.Reason)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) TransitionStatus(ctx context.Context, id uuid.UUID, from, to Status) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE appointment SET status=$3, updated_at=NOW()
		WHERE id = $1 AND status = $2`, id, from, to)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 1 {
		return true, nil
	}
	// Distinguish a missing row from a status mismatch.
	var exists bool
	if err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM appointment WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, err
	}
	if !exists {
		return false, ErrNotFound
	}
	return false, nil
}

func (r *repoPG) ListBySession(ctx context.Context, doctorID uuid.UUID, date schedule.Date, shift schedule.Shift, status Status) ([]*Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+apptCols+apptJoins+`
		WHERE a.doctor_id = $1 AND a.work_date = $2 AND a.work_shift = $3 AND a.status = $4
		ORDER BY a.created_at ASC`, doctorID, date, shift, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Appointment
	for rows.Next() {
		a, err := scanAppt(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

func (r *repoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Appointment, int, error) {
	query := `SELECT ` + apptCols + apptJoins + ` WHERE 1=1`
	countQuery := `SELECT COUNT(*)` + apptJoins + ` WHERE 1=1`
	var args []interface{}
	idx := 1

	if p, ok := params["doctor_id"]; ok {
		query += fmt.Sprintf(` AND a.doctor_id = $%d`, idx)
		countQuery += fmt.Sprintf(` AND a.doctor_id = $%d`, idx)
		args = append(args, p)
		idx++
	}
	if p, ok := params["patient_id"]; ok {
		query += fmt.Sprintf(` AND a.patient_id = $%d`, idx)
		countQuery += fmt.Sprintf(` AND a.patient_id = $%d`, idx)
		args = append(args, p)
		idx++
	}
	if p, ok := params["status"]; ok {
		query += fmt.Sprintf(` AND a.status = $%d`, idx)
		countQuery += fmt.Sprintf(` AND a.status = $%d`, idx)
		args = append(args, p)
		idx++
	}
	if p, ok := params["patient_name"]; ok {
		query += fmt.Sprintf(` AND p.name ILIKE '%%' || $%d || '%%'`, idx)
		countQuery += fmt.Sprintf(` AND p.name ILIKE '%%' || $%d || '%%'`, idx)
		args = append(args, p)
		idx++
	}
	if p, ok := params["work_date"]; ok {
		query += fmt.Sprintf(` AND a.work_date = $%d`, idx)
		countQuery += fmt.Sprintf(` AND a.work_date = $%d`, idx)
		args = append(args, p)
		idx++
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY a.work_date DESC, a.created_at DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Appointment
	for rows.Next() {
		a, err := scanAppt(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, rows.Err()
}
