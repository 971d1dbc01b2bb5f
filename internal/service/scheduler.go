package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dermadesk/dermadesk/internal/database/repository"
)

// ErrConflict reports a booking that overlaps an existing appointment for
// the same doctor.
var ErrConflict = errors.New("appointment conflicts with an existing booking")

// SchedulerService books, cancels and completes appointments, and manages
// the video-call session bound to each one.
type SchedulerService struct {
	Appointments *repository.AppointmentRepo
	Sessions     *repository.CallSessionRepo
}

// Book schedules an appointment after checking the doctor's calendar for
// overlap. Times are stored in UTC.
func (s *SchedulerService) Book(ctx context.Context, patientID, doctorID string, start, end time.Time, reason string) (*repository.Appointment, error) {
	if !end.After(start) {
		return nil, fmt.Errorf("book: end %s is not after start %s", end, start)
	}
	start, end = start.UTC(), end.UTC()

	clashes, err := s.Appointments.Overlapping(ctx, doctorID, start, end)
	if err != nil {
		return nil, fmt.Errorf("book: check overlap: %w", err)
	}
	if len(clashes) > 0 {
		return nil, fmt.Errorf("book %s-%s: %w", start.Format("15:04"), end.Format("15:04"), ErrConflict)
	}

	appt := repository.Appointment{
		ID:        uuid.NewString(),
		PatientID: patientID,
		DoctorID:  doctorID,
		StartsAt:  start,
		EndsAt:    end,
		Status:    repository.AppointmentScheduled,
	}
	if r := strings.TrimSpace(reason); r != "" {
		appt.Reason = &r
	}
	if err := s.Appointments.Insert(ctx, appt); err != nil {
		return nil, fmt.Errorf("book: insert: %w", err)
	}
	return &appt, nil
}

// Cancel marks an appointment cancelled and ends any live call.
func (s *SchedulerService) Cancel(ctx context.Context, id string) error {
	if err := s.Appointments.UpdateStatus(ctx, id, repository.AppointmentCancelled); err != nil {
		return fmt.Errorf("cancel: %w", err)
	}
	return s.closeSession(ctx, id)
}

// Complete marks an appointment completed and ends any live call.
func (s *SchedulerService) Complete(ctx context.Context, id string) error {
	if err := s.Appointments.UpdateStatus(ctx, id, repository.AppointmentCompleted); err != nil {
		return fmt.Errorf("complete: %w", err)
	}
	return s.closeSession(ctx, id)
}

func (s *SchedulerService) closeSession(ctx context.Context, appointmentID string) error {
	if s.Sessions == nil {
		return nil
	}
	sess, err := s.Sessions.ForAppointment(ctx, appointmentID)
	if err != nil || sess == nil || sess.Status == repository.SessionEnded {
		return err
	}
	return s.Sessions.End(ctx, sess.ID, time.Now().UTC())
}

// OpenCall creates (or returns) the call session for an appointment. The
// room code is what both parties punch into the video client.
func (s *SchedulerService) OpenCall(ctx context.Context, appointmentID string) (*repository.CallSession, error) {
	existing, err := s.Sessions.ForAppointment(ctx, appointmentID)
	if err != nil {
		return nil, fmt.Errorf("open call: %w", err)
	}
	if existing != nil && existing.Status != repository.SessionEnded {
		return existing, nil
	}
	sess := repository.CallSession{
		ID:            uuid.NewString(),
		AppointmentID: appointmentID,
		RoomCode:      roomCode(),
		Status:        repository.SessionCreated,
	}
	if err := s.Sessions.Insert(ctx, sess); err != nil {
		return nil, fmt.Errorf("open call: insert: %w", err)
	}
	return &sess, nil
}

// StartCall marks the session live.
func (s *SchedulerService) StartCall(ctx context.Context, sessionID string) error {
	return s.Sessions.Start(ctx, sessionID, time.Now().UTC())
}

// EndCall marks the session ended.
func (s *SchedulerService) EndCall(ctx context.Context, sessionID string) error {
	return s.Sessions.End(ctx, sessionID, time.Now().UTC())
}

func roomCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
