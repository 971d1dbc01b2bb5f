package repository

import (
	"context"
	"database/sql"
	"strings"
)

// AnalysisFilters defines list filters.
type AnalysisFilters struct {
	PatientID string
	Status    string
}

// AnalysisRepo handles skin-condition analyses.
type AnalysisRepo struct {
	db *sql.DB
}

func NewAnalysisRepo(db *sql.DB) *AnalysisRepo { return &AnalysisRepo{db: db} }

func (r *AnalysisRepo) Insert(ctx context.Context, a Analysis) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO analyses(id, patient_id, image_path, condition, confidence, severity, status, reviewed_by, notes, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP);
	`, a.ID, a.PatientID, a.ImagePath, a.Condition, a.Confidence, a.Severity, a.Status, a.ReviewedBy, a.Notes)
	return err
}

// SetResult records the model pipeline's output on a pending analysis.
func (r *AnalysisRepo) SetResult(ctx context.Context, id string, condition string, confidence float64, severity string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE analyses SET condition = ?, confidence = ?, severity = ?, updated_at=CURRENT_TIMESTAMP WHERE id = ?`,
		condition, confidence, severity, id)
	return err
}

// SetReview marks an analysis reviewed by a doctor with optional notes.
func (r *AnalysisRepo) SetReview(ctx context.Context, id string, doctorID string, notes *string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE analyses SET status = ?, reviewed_by = ?, notes = ?, updated_at=CURRENT_TIMESTAMP WHERE id = ?`,
		AnalysisReviewed, doctorID, notes, id)
	return err
}

func (r *AnalysisRepo) List(ctx context.Context, f AnalysisFilters) ([]Analysis, error) {
	var where []string
	var args []interface{}

	if f.PatientID != "" {
		where = append(where, "patient_id = ?")
		args = append(args, f.PatientID)
	}
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, f.Status)
	}

	query := "SELECT id, patient_id, image_path, condition, confidence, severity, status, reviewed_by, notes, created_at, updated_at FROM analyses"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Analysis
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AnalysisRepo) Get(ctx context.Context, id string) (*Analysis, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, patient_id, image_path, condition, confidence, severity, status, reviewed_by, notes, created_at, updated_at FROM analyses WHERE id = ?`, id)
	a, err := scanAnalysis(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func scanAnalysis(row scanner) (Analysis, error) {
	var a Analysis
	var condition, severity, reviewedBy, notes sql.NullString
	var confidence sql.NullFloat64
	if err := row.Scan(&a.ID, &a.PatientID, &a.ImagePath, &condition, &confidence, &severity,
		&a.Status, &reviewedBy, &notes, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return Analysis{}, err
	}
	if condition.Valid {
		a.Condition = &condition.String
	}
	if confidence.Valid {
		a.Confidence = &confidence.Float64
	}
	if severity.Valid {
		a.Severity = &severity.String
	}
	if reviewedBy.Valid {
		a.ReviewedBy = &reviewedBy.String
	}
	if notes.Valid {
		a.Notes = &notes.String
	}
	return a, nil
}
