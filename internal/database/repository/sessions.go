package repository

import (
	"context"
	"database/sql"
	"time"
)

// CallSessionRepo handles video-call sessions.
type CallSessionRepo struct {
	db *sql.DB
}

func NewCallSessionRepo(db *sql.DB) *CallSessionRepo { return &CallSessionRepo{db: db} }

func (r *CallSessionRepo) Insert(ctx context.Context, s CallSession) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO call_sessions(id, appointment_id, room_code, status, started_at, ended_at, created_at)
	VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP);
	`, s.ID, s.AppointmentID, s.RoomCode, s.Status, s.StartedAt, s.EndedAt)
	return err
}

func (r *CallSessionRepo) Start(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE call_sessions SET status = ?, started_at = ? WHERE id = ?`, SessionLive, at, id)
	return err
}

func (r *CallSessionRepo) End(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE call_sessions SET status = ?, ended_at = ? WHERE id = ?`, SessionEnded, at, id)
	return err
}

// List returns sessions, newest first. status narrows the result when set.
func (r *CallSessionRepo) List(ctx context.Context, status string) ([]CallSession, error) {
	query := `SELECT id, appointment_id, room_code, status, started_at, ended_at, created_at FROM call_sessions`
	var args []interface{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CallSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *CallSessionRepo) ForAppointment(ctx context.Context, appointmentID string) (*CallSession, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, appointment_id, room_code, status, started_at, ended_at, created_at FROM call_sessions WHERE appointment_id = ? ORDER BY created_at DESC LIMIT 1`, appointmentID)
	s, err := scanSession(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func scanSession(row scanner) (CallSession, error) {
	var s CallSession
	var started, ended sql.NullTime
	if err := row.Scan(&s.ID, &s.AppointmentID, &s.RoomCode, &s.Status, &started, &ended, &s.CreatedAt); err != nil {
		return CallSession{}, err
	}
	if started.Valid {
		s.StartedAt = &started.Time
	}
	if ended.Valid {
		s.EndedAt = &ended.Time
	}
	return s, nil
}
