package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dermadesk/dermadesk/internal/database/repository"
)

func TestPatientSearchToleratesTypos(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := openTestDB(t)
	seedUser(t, db, repository.RolePatient, "Margaret Okafor")
	seedUser(t, db, repository.RolePatient, "Miguel Ortega")
	seedUser(t, db, repository.RolePatient, "Priya Sharma")
	seedUser(t, db, repository.RoleDoctor, "Dr. Margarethe Voss") // doctors never match

	svc := &SearchService{Users: repository.NewUserRepo(db)}

	matches, err := svc.Patients(ctx, "margret")
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	require.Equal(t, "Margaret Okafor", matches[0].Patient.FullName)

	// exact substring ranks above fuzzy hits
	matches, err = svc.Patients(ctx, "ortega")
	require.NoError(t, err)
	require.Equal(t, "Miguel Ortega", matches[0].Patient.FullName)
	require.Greater(t, matches[0].Score, 0.9)

	// nothing plausible stays out
	matches, err = svc.Patients(ctx, "zzzzzzzz")
	require.NoError(t, err)
	require.Empty(t, matches)
}

func TestPatientSearchEmptyQueryListsAll(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := openTestDB(t)
	seedUser(t, db, repository.RolePatient, "Ann Chu")
	seedUser(t, db, repository.RolePatient, "Bo Marsh")

	svc := &SearchService{Users: repository.NewUserRepo(db)}
	matches, err := svc.Patients(ctx, "  ")
	require.NoError(t, err)
	require.Len(t, matches, 2)
	require.Equal(t, "Ann Chu", matches[0].Patient.FullName)
}

func TestNameSimilarity(t *testing.T) {
	t.Parallel()

	require.Greater(t, nameSimilarity("ann", "Ann Chu"), 0.9)
	require.Greater(t, nameSimilarity("anne", "Ann Chu"), nameSimilarity("bob", "Ann Chu"))
	require.InDelta(t, 1.0, similarity("", ""), 1e-9)
}
