package performance

import (
	"context"
	"fmt"
)

const kpiColumns = `id, assigned_to, assigned_by, metric, description, unit, period, target, achieved_value,
    weightage, status, score, progress, qualitative_score, progress_notes, supervisor_comments, remarks,
    last_updated, created_at, updated_at`

const appraisalColumns = `id, employee_id, year, period, achievements, challenges, goals, self_appraisal, draft,
    reviewer_id, reviewer_comments, reviewer_score, final_score, status, last_updated, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanKPI(row rowScanner) (KPI, error) {
	var k KPI
	err := row.Scan(&k.ID, &k.AssignedTo, &k.AssignedBy, &k.Metric, &k.Description, &k.Unit, &k.Period, &k.Target, &k.AchievedValue,
		&k.Weightage, &k.Status, &k.Score, &k.Progress, &k.QualitativeScore, &k.ProgressNotes, &k.SupervisorComments, &k.Remarks,
		&k.LastUpdated, &k.CreatedAt, &k.UpdatedAt)
	return k, err
}

func scanAppraisal(row rowScanner) (Appraisal, error) {
	var a Appraisal
	err := row.Scan(&a.ID, &a.EmployeeID, &a.Year, &a.Period, &a.Achievements, &a.Challenges, &a.Goals, &a.SelfAppraisal, &a.Draft,
		&a.ReviewerID, &a.ReviewerComments, &a.ReviewerScore, &a.FinalScore, &a.Status, &a.LastUpdated, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func (s *Store) GetKPI(ctx context.Context, id string) (KPI, error) {
	row := s.DB.QueryRow(ctx, "SELECT "+kpiColumns+" FROM kpis WHERE id = $1", id)
	k, err := scanKPI(row)
	if err != nil {
		return KPI{}, mapErr(err)
	}
	return k, nil
}

func (s *Store) ListKPIs(ctx context.Context, filter KPIFilter) ([]KPI, error) {
	query := "SELECT " + kpiColumns + " FROM kpis WHERE 1=1"
	args := []any{}
	if filter.OwnerID != "" {
		args = append(args, filter.OwnerID)
		query += fmt.Sprintf(" AND assigned_to = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"
	query, args = paginate(query, args, filter.Limit, filter.Offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []KPI
	for rows.Next() {
		k, err := scanKPI(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, rows.Err()
}

func (s *Store) CreateKPI(ctx context.Context, k KPI) (KPI, error) {
	row := s.DB.QueryRow(ctx, `
    INSERT INTO kpis (assigned_to, assigned_by, metric, description, unit, period, target, achieved_value,
      weightage, status, score, progress, qualitative_score, progress_notes, supervisor_comments, remarks, last_updated)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
    RETURNING `+kpiColumns,
		k.AssignedTo, k.AssignedBy, k.Metric, k.Description, k.Unit, k.Period, k.Target, k.AchievedValue,
		k.Weightage, k.Status, k.Score, k.Progress, k.QualitativeScore, k.ProgressNotes, k.SupervisorComments, k.Remarks, k.LastUpdated)
	return scanKPI(row)
}

func (s *Store) UpdateKPI(ctx context.Context, k KPI) (KPI, error) {
	row := s.DB.QueryRow(ctx, `
    UPDATE kpis
    SET metric = $1, description = $2, unit = $3, period = $4, target = $5, achieved_value = $6,
      weightage = $7, status = $8, score = $9, progress = $10, qualitative_score = $11,
      progress_notes = $12, supervisor_comments = $13, remarks = $14, last_updated = $15, updated_at = now()
    WHERE id = $16
    RETURNING `+kpiColumns,
		k.Metric, k.Description, k.Unit, k.Period, k.Target, k.AchievedValue,
		k.Weightage, k.Status, k.Score, k.Progress, k.QualitativeScore,
		k.ProgressNotes, k.SupervisorComments, k.Remarks, k.LastUpdated, k.ID)
	updated, err := scanKPI(row)
	if err != nil {
		return KPI{}, mapErr(err)
	}
	return updated, nil
}

func (s *Store) DeleteKPI(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM kpis WHERE id = $1", id)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) CompletedKPIScores(ctx context.Context, ownerID string) ([]float64, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT score
    FROM kpis
    WHERE assigned_to = $1 AND status = $2
  `, ownerID, KPIStatusCompleted)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var scores []float64
	for rows.Next() {
		var score float64
		if err := rows.Scan(&score); err != nil {
			return nil, err
		}
		scores = append(scores, score)
	}
	return scores, rows.Err()
}

func (s *Store) GetAppraisal(ctx context.Context, id string) (Appraisal, error) {
	row := s.DB.QueryRow(ctx, "SELECT "+appraisalColumns+" FROM appraisals WHERE id = $1", id)
	a, err := scanAppraisal(row)
	if err != nil {
		return Appraisal{}, mapErr(err)
	}
	return a, nil
}

func (s *Store) ListAppraisals(ctx context.Context, filter AparFilter) ([]Appraisal, error) {
	query := "SELECT " + appraisalColumns + " FROM appraisals WHERE 1=1"
	args := []any{}
	if filter.OwnerID != "" {
		args = append(args, filter.OwnerID)
		query += fmt.Sprintf(" AND employee_id = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Year > 0 {
		args = append(args, filter.Year)
		query += fmt.Sprintf(" AND year = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"
	query, args = paginate(query, args, filter.Limit, filter.Offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []Appraisal
	for rows.Next() {
		a, err := scanAppraisal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) CreateAppraisal(ctx context.Context, a Appraisal) (Appraisal, error) {
	row := s.DB.QueryRow(ctx, `
    INSERT INTO appraisals (employee_id, year, period, achievements, challenges, goals, self_appraisal, draft,
      reviewer_id, reviewer_comments, reviewer_score, final_score, status, last_updated)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
    RETURNING `+appraisalColumns,
		a.EmployeeID, a.Year, a.Period, a.Achievements, a.Challenges, a.Goals, a.SelfAppraisal, a.Draft,
		a.ReviewerID, a.ReviewerComments, a.ReviewerScore, a.FinalScore, a.Status, a.LastUpdated)
	return scanAppraisal(row)
}

func (s *Store) UpdateAppraisal(ctx context.Context, a Appraisal) (Appraisal, error) {
	row := s.DB.QueryRow(ctx, `
    UPDATE appraisals
    SET achievements = $1, challenges = $2, goals = $3, self_appraisal = $4, draft = $5,
      reviewer_id = $6, reviewer_comments = $7, reviewer_score = $8, final_score = $9, status = $10,
      last_updated = $11, updated_at = now()
    WHERE id = $12
    RETURNING `+appraisalColumns,
		a.Achievements, a.Challenges, a.Goals, a.SelfAppraisal, a.Draft,
		a.ReviewerID, a.ReviewerComments, a.ReviewerScore, a.FinalScore, a.Status,
		a.LastUpdated, a.ID)
	updated, err := scanAppraisal(row)
	if err != nil {
		return Appraisal{}, mapErr(err)
	}
	return updated, nil
}

func (s *Store) UserExists(ctx context.Context, userID string) (bool, error) {
	var count int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM users WHERE id = $1", userID).Scan(&count); err != nil {
		if mapErr(err) == ErrNotFound {
			return false, nil
		}
		return false, err
	}
	return count > 0, nil
}

func paginate(query string, args []any, limit, offset int) (string, []any) {
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if offset > 0 {
		args = append(args, offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}
	return query, args
}
