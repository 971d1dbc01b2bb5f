package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dermadesk/dermadesk/internal/database/repository"
)

func TestResetWipesAllTables(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := openTestDB(t)
	patient := seedUser(t, db, repository.RolePatient, "Ann Chu")
	doctor := seedUser(t, db, repository.RoleDoctor, "Dr. Bo Marsh")

	scheduler := &SchedulerService{
		Appointments: repository.NewAppointmentRepo(db),
		Sessions:     repository.NewCallSessionRepo(db),
	}
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	appt, err := scheduler.Book(ctx, patient.ID, doctor.ID, start, start.Add(30*time.Minute), "")
	require.NoError(t, err)
	_, err = scheduler.OpenCall(ctx, appt.ID)
	require.NoError(t, err)

	require.NoError(t, (&MaintenanceService{DB: db}).Reset(ctx))

	users, err := repository.NewUserRepo(db).List(ctx, repository.UserFilters{})
	require.NoError(t, err)
	require.Empty(t, users)

	appts, err := scheduler.Appointments.List(ctx, repository.AppointmentFilters{})
	require.NoError(t, err)
	require.Empty(t, appts)

	sessions, err := scheduler.Sessions.List(ctx, "")
	require.NoError(t, err)
	require.Empty(t, sessions)

	// schema survives: booking works again immediately
	patient = seedUser(t, db, repository.RolePatient, "Ann Chu")
	doctor = seedUser(t, db, repository.RoleDoctor, "Dr. Bo Marsh")
	_, err = scheduler.Book(ctx, patient.ID, doctor.ID, start, start.Add(30*time.Minute), "")
	require.NoError(t, err)
}

func TestAppointmentDayFilter(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := openTestDB(t)
	patient := seedUser(t, db, repository.RolePatient, "Ann Chu")
	doctor := seedUser(t, db, repository.RoleDoctor, "Dr. Bo Marsh")

	svc := &SchedulerService{
		Appointments: repository.NewAppointmentRepo(db),
		Sessions:     repository.NewCallSessionRepo(db),
	}

	monday := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	tuesday := monday.AddDate(0, 0, 1)
	_, err := svc.Book(ctx, patient.ID, doctor.ID, monday, monday.Add(30*time.Minute), "")
	require.NoError(t, err)
	_, err = svc.Book(ctx, patient.ID, doctor.ID, tuesday, tuesday.Add(30*time.Minute), "")
	require.NoError(t, err)

	appts, err := svc.Appointments.List(ctx, repository.AppointmentFilters{Day: monday})
	require.NoError(t, err)
	require.Len(t, appts, 1)
	require.Equal(t, monday, appts[0].StartsAt.UTC())

	appts, err = svc.Appointments.List(ctx, repository.AppointmentFilters{})
	require.NoError(t, err)
	require.Len(t, appts, 2)
}
