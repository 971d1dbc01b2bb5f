package service

import (
	"context"
	"encoding/csv"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dermadesk/dermadesk/internal/database/repository"
)

func TestTrainingDataExport(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := openTestDB(t)
	patient := seedUser(t, db, repository.RolePatient, "Ann Chu")
	doctor := seedUser(t, db, repository.RoleDoctor, "Dr. Bo Marsh")

	analyses := &AnalysisService{Analyses: repository.NewAnalysisRepo(db)}

	// reviewed with a result: exported
	a, err := analyses.Submit(ctx, patient.ID, "/images/a.jpg")
	require.NoError(t, err)
	require.NoError(t, analyses.RecordResult(ctx, a.ID, "eczema", 0.91, "moderate"))
	require.NoError(t, analyses.Review(ctx, a.ID, doctor.ID, "classic presentation"))

	// still pending: not exported
	_, err = analyses.Submit(ctx, patient.ID, "/images/b.jpg")
	require.NoError(t, err)

	// reviewed but never classified: skipped
	c, err := analyses.Submit(ctx, patient.ID, "/images/c.jpg")
	require.NoError(t, err)
	require.NoError(t, analyses.Review(ctx, c.ID, doctor.ID, ""))

	svc := &ExportService{Analyses: repository.NewAnalysisRepo(db), Dir: t.TempDir()}
	res, err := svc.TrainingData(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, res.Count)

	f, err := os.Open(res.Path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, []string{"analysis_id", "image_path", "condition", "confidence", "severity"}, records[0])
	require.Equal(t, a.ID, records[1][0])
	require.Equal(t, "/images/a.jpg", records[1][1])
	require.Equal(t, "eczema", records[1][2])
	require.Equal(t, "0.9100", records[1][3])
	require.Equal(t, "moderate", records[1][4])
}

func TestAnalysisReviewRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := openTestDB(t)
	patient := seedUser(t, db, repository.RolePatient, "Ann Chu")
	doctor := seedUser(t, db, repository.RoleDoctor, "Dr. Bo Marsh")

	repo := repository.NewAnalysisRepo(db)
	svc := &AnalysisService{Analyses: repo}

	a, err := svc.Submit(ctx, patient.ID, "/images/a.jpg")
	require.NoError(t, err)

	got, err := repo.Get(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, repository.AnalysisPending, got.Status)
	require.Nil(t, got.Condition)
	require.Nil(t, got.Confidence)

	require.NoError(t, svc.RecordResult(ctx, a.ID, "psoriasis", 0.78, "high"))
	require.NoError(t, svc.Review(ctx, a.ID, doctor.ID, "follow up in 2 weeks"))

	got, err = repo.Get(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, repository.AnalysisReviewed, got.Status)
	require.NotNil(t, got.Condition)
	require.Equal(t, "psoriasis", *got.Condition)
	require.InDelta(t, 0.78, *got.Confidence, 1e-9)
	require.Equal(t, doctor.ID, *got.ReviewedBy)
	require.Equal(t, "follow up in 2 weeks", *got.Notes)
}
