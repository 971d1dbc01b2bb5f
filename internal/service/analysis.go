package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dermadesk/dermadesk/internal/database/repository"
)

// AnalysisService handles the lifecycle of a skin-condition analysis:
// intake of a patient image, the result landing from the external model
// pipeline, and a doctor's review.
type AnalysisService struct {
	Analyses *repository.AnalysisRepo
}

// Submit registers a new pending analysis for a patient image.
func (s *AnalysisService) Submit(ctx context.Context, patientID, imagePath string) (*repository.Analysis, error) {
	imagePath = strings.TrimSpace(imagePath)
	if imagePath == "" {
		return nil, fmt.Errorf("submit analysis: empty image path")
	}
	a := repository.Analysis{
		ID:        uuid.NewString(),
		PatientID: patientID,
		ImagePath: imagePath,
		Status:    repository.AnalysisPending,
	}
	if err := s.Analyses.Insert(ctx, a); err != nil {
		return nil, fmt.Errorf("submit analysis: %w", err)
	}
	return &a, nil
}

// RecordResult stores the pipeline's classification on an analysis.
func (s *AnalysisService) RecordResult(ctx context.Context, id, condition string, confidence float64, severity string) error {
	if err := s.Analyses.SetResult(ctx, id, condition, confidence, severity); err != nil {
		return fmt.Errorf("record result: %w", err)
	}
	return nil
}

// Review marks an analysis reviewed by doctorID, with optional notes.
func (s *AnalysisService) Review(ctx context.Context, id, doctorID, notes string) error {
	var n *string
	if t := strings.TrimSpace(notes); t != "" {
		n = &t
	}
	if err := s.Analyses.SetReview(ctx, id, doctorID, n); err != nil {
		return fmt.Errorf("review analysis: %w", err)
	}
	return nil
}
