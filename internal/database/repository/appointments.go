package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// AppointmentFilters defines list filters. Day filters to a single calendar
// day in UTC; zero time means no day filter.
type AppointmentFilters struct {
	PatientID string
	DoctorID  string
	Status    string
	Day       time.Time
}

// AppointmentRepo handles appointments.
type AppointmentRepo struct {
	db *sql.DB
}

func NewAppointmentRepo(db *sql.DB) *AppointmentRepo { return &AppointmentRepo{db: db} }

func (r *AppointmentRepo) Insert(ctx context.Context, a Appointment) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO appointments(id, patient_id, doctor_id, starts_at, ends_at, status, reason, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP);
	`, a.ID, a.PatientID, a.DoctorID, a.StartsAt, a.EndsAt, a.Status, a.Reason)
	return err
}

func (r *AppointmentRepo) UpdateStatus(ctx context.Context, id string, status string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE appointments SET status = ?, updated_at=CURRENT_TIMESTAMP WHERE id = ?`, status, id)
	return err
}

func (r *AppointmentRepo) List(ctx context.Context, f AppointmentFilters) ([]Appointment, error) {
	var where []string
	var args []interface{}

	if f.PatientID != "" {
		where = append(where, "patient_id = ?")
		args = append(args, f.PatientID)
	}
	if f.DoctorID != "" {
		where = append(where, "doctor_id = ?")
		args = append(args, f.DoctorID)
	}
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, f.Status)
	}
	if !f.Day.IsZero() {
		start := time.Date(f.Day.Year(), f.Day.Month(), f.Day.Day(), 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 0, 1)
		where = append(where, "starts_at >= ? AND starts_at < ?")
		args = append(args, start, end)
	}

	query := "SELECT id, patient_id, doctor_id, starts_at, ends_at, status, reason, created_at, updated_at FROM appointments"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY starts_at ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AppointmentRepo) Get(ctx context.Context, id string) (*Appointment, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, patient_id, doctor_id, starts_at, ends_at, status, reason, created_at, updated_at FROM appointments WHERE id = ?`, id)
	a, err := scanAppointment(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// Overlapping returns the doctor's scheduled appointments intersecting
// [start, end).
func (r *AppointmentRepo) Overlapping(ctx context.Context, doctorID string, start, end time.Time) ([]Appointment, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, patient_id, doctor_id, starts_at, ends_at, status, reason, created_at, updated_at
	FROM appointments
	WHERE doctor_id = ? AND status = ? AND starts_at < ? AND ends_at > ?
	ORDER BY starts_at ASC`, doctorID, AppointmentScheduled, end, start)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanAppointment(row scanner) (Appointment, error) {
	var a Appointment
	var reason sql.NullString
	if err := row.Scan(&a.ID, &a.PatientID, &a.DoctorID, &a.StartsAt, &a.EndsAt, &a.Status, &reason, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return Appointment{}, err
	}
	if reason.Valid {
		a.Reason = &reason.String
	}
	return a, nil
}
