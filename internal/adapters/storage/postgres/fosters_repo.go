package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"animal-rescue-ops/internal/domain/fosters"
)

type FostersRepo struct {
	db *sql.DB
}

func NewFostersRepo(db *sql.DB) *FostersRepo {
	return &FostersRepo{db: db}
}

const profileCols = `
	id, user_id, org_id,
	contact_name, contact_email,
	experience_level, preferred_species, preferred_ages,
	max_capacity, current_capacity,
	can_handle_medical, can_handle_behavioral, is_available,
	total_placements, successful_adoptions, avg_duration_days, rating,
	background_check_status, background_check_date,
	insurance_verified, references_checked, notes_internal,
	created_at, updated_at
`

func (r *FostersRepo) Create(ctx context.Context, p fosters.Profile) error {
	// Unicidad (org, user): la garantiza el unique index; acá solo
	// traducimos la violación al error del dominio.
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO foster_profiles (`+profileCols+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24)
	`, profileArgs(p)...)
	if err != nil && strings.Contains(err.Error(), "duplicate key") {
		return fosters.ErrAlreadyExists
	}
	return err
}

func (r *FostersRepo) Update(ctx context.Context, p fosters.Profile) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE foster_profiles
		SET
			contact_name = $3,
			contact_email = $4,
			experience_level = $5,
			preferred_species = $6,
			preferred_ages = $7,
			max_capacity = $8,
			current_capacity = $9,
			can_handle_medical = $10,
			can_handle_behavioral = $11,
			is_available = $12,
			total_placements = $13,
			successful_adoptions = $14,
			avg_duration_days = $15,
			rating = $16,
			background_check_status = $17,
			background_check_date = $18,
			insurance_verified = $19,
			references_checked = $20,
			notes_internal = $21,
			updated_at = $22
		WHERE id = $1 AND org_id = $2
	`,
		p.ID,
		p.OrgID,
		p.ContactName,
		p.ContactEmail,
		string(p.ExperienceLevel),
		p.PreferredSpecies,
		p.PreferredAges,
		p.MaxCapacity,
		p.CurrentCapacity,
		p.CanHandleMedical,
		p.CanHandleBehavioral,
		p.IsAvailable,
		p.TotalPlacements,
		p.SuccessfulAdoptions,
		p.AvgDurationDays,
		p.Rating,
		p.BackgroundCheckStatus,
		p.BackgroundCheckDate,
		p.InsuranceVerified,
		p.ReferencesChecked,
		p.NotesInternal,
		p.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fosters.ErrNotFound
	}
	return nil
}

func (r *FostersRepo) GetByID(ctx context.Context, orgID, id string) (fosters.Profile, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+profileCols+`
		FROM foster_profiles
		WHERE id = $1 AND org_id = $2
	`, strings.TrimSpace(id), orgID)
	return scanProfile(row)
}

func (r *FostersRepo) GetByUser(ctx context.Context, orgID, userID string) (fosters.Profile, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+profileCols+`
		FROM foster_profiles
		WHERE user_id = $1 AND org_id = $2
	`, strings.TrimSpace(userID), orgID)
	return scanProfile(row)
}

func (r *FostersRepo) List(ctx context.Context, orgID string, f fosters.ListFilter) ([]fosters.Profile, error) {
	query := `
		SELECT ` + profileCols + `
		FROM foster_profiles
		WHERE org_id = $1
	`
	if f.AvailableOnly {
		query += ` AND is_available = true AND current_capacity < max_capacity`
	}
	query += ` ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]fosters.Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}

	return out, rows.Err()
}

func profileArgs(p fosters.Profile) []any {
	return []any{
		p.ID,
		p.UserID,
		p.OrgID,
		p.ContactName,
		p.ContactEmail,
		string(p.ExperienceLevel),
		p.PreferredSpecies,
		p.PreferredAges,
		p.MaxCapacity,
		p.CurrentCapacity,
		p.CanHandleMedical,
		p.CanHandleBehavioral,
		p.IsAvailable,
		p.TotalPlacements,
		p.SuccessfulAdoptions,
		p.AvgDurationDays,
		p.Rating,
		p.BackgroundCheckStatus,
		p.BackgroundCheckDate,
		p.InsuranceVerified,
		p.ReferencesChecked,
		p.NotesInternal,
		p.CreatedAt,
		p.UpdatedAt,
	}
}

func scanProfile(row rowScanner) (fosters.Profile, error) {
	var p fosters.Profile
	var level string
	var avgDuration, rating sql.NullFloat64
	var bgDate sql.NullTime

	if err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.OrgID,
		&p.ContactName,
		&p.ContactEmail,
		&level,
		&p.PreferredSpecies,
		&p.PreferredAges,
		&p.MaxCapacity,
		&p.CurrentCapacity,
		&p.CanHandleMedical,
		&p.CanHandleBehavioral,
		&p.IsAvailable,
		&p.TotalPlacements,
		&p.SuccessfulAdoptions,
		&avgDuration,
		&rating,
		&p.BackgroundCheckStatus,
		&bgDate,
		&p.InsuranceVerified,
		&p.ReferencesChecked,
		&p.NotesInternal,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fosters.Profile{}, fosters.ErrNotFound
		}
		return fosters.Profile{}, err
	}

	p.ExperienceLevel = fosters.ExperienceLevel(level)
	if avgDuration.Valid {
		v := avgDuration.Float64
		p.AvgDurationDays = &v
	}
	if rating.Valid {
		v := rating.Float64
		p.Rating = &v
	}
	if bgDate.Valid {
		t := bgDate.Time
		p.BackgroundCheckDate = &t
	}

	return p, nil
}
