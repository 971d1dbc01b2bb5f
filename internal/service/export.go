package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dermadesk/dermadesk/internal/database/repository"
)

// ExportService writes reviewed analyses to CSV for the model-training
// pipeline. Only doctor-confirmed rows leave the building.
type ExportService struct {
	Analyses *repository.AnalysisRepo
	Dir      string
}

// ExportResult summarizes one export run.
type ExportResult struct {
	Path  string
	Count int
}

// TrainingData writes one CSV line per reviewed analysis and returns the
// file path. Rows without a condition label are skipped; the trainer has no
// use for them.
func (s *ExportService) TrainingData(ctx context.Context) (ExportResult, error) {
	analyses, err := s.Analyses.List(ctx, repository.AnalysisFilters{Status: repository.AnalysisReviewed})
	if err != nil {
		return ExportResult{}, fmt.Errorf("export: list analyses: %w", err)
	}

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return ExportResult{}, fmt.Errorf("export: mkdir: %w", err)
	}
	path := filepath.Join(s.Dir, fmt.Sprintf("training-%s.csv", time.Now().UTC().Format("20060102-150405")))
	f, err := os.Create(path)
	if err != nil {
		return ExportResult{}, fmt.Errorf("export: create: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"analysis_id", "image_path", "condition", "confidence", "severity"}); err != nil {
		return ExportResult{}, fmt.Errorf("export: header: %w", err)
	}
	count := 0
	for _, a := range analyses {
		if a.Condition == nil {
			continue
		}
		confidence := ""
		if a.Confidence != nil {
			confidence = strconv.FormatFloat(*a.Confidence, 'f', 4, 64)
		}
		severity := ""
		if a.Severity != nil {
			severity = *a.Severity
		}
		if err := w.Write([]string{a.ID, a.ImagePath, *a.Condition, confidence, severity}); err != nil {
			return ExportResult{}, fmt.Errorf("export: row %s: %w", a.ID, err)
		}
		count++
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return ExportResult{}, fmt.Errorf("export: flush: %w", err)
	}
	return ExportResult{Path: path, Count: count}, nil
}
