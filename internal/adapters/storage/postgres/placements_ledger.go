package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"animal-rescue-ops/internal/domain/animals"
	"animal-rescue-ops/internal/domain/fosters"
	"animal-rescue-ops/internal/domain/placements"
)

// PlacementsLedger implementa placements.Ledger con una transacción por
// operación de escritura. El lock pesimista va por fila: FOR UPDATE sobre
// el perfil y el animal antes de los chequeos, así dos requests
// concurrentes sobre el mismo perfil/animal se serializan y no pueden
// pasar ambos el chequeo de capacidad ni duplicar el placement activo.
type PlacementsLedger struct {
	db *sql.DB
}

func NewPlacementsLedger(db *sql.DB) *PlacementsLedger {
	return &PlacementsLedger{db: db}
}

const placementCols = `
	id, org_id, animal_id, foster_profile_id,
	start_date, expected_end_date, actual_end_date,
	outcome, notes, return_reason, success_notes,
	agreement_signed, agreement_signed_date,
	created_at, updated_at
`

func (l *PlacementsLedger) CreateActive(ctx context.Context, in placements.CreateParams) (placements.Placement, error) {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return placements.Placement{}, err
	}
	defer func() { _ = tx.Rollback() }()

	p, err := lockProfile(ctx, tx, in.OrgID, in.ProfileID)
	if err != nil {
		return placements.Placement{}, err
	}
	a, err := lockAnimal(ctx, tx, in.OrgID, in.AnimalID)
	if err != nil {
		return placements.Placement{}, err
	}

	// Con el animal lockeado, el chequeo de placement activo es estable.
	var hasActive bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM foster_placements
			WHERE animal_id = $1 AND outcome = 'active'
		)
	`, in.AnimalID).Scan(&hasActive)
	if err != nil {
		return placements.Placement{}, err
	}

	if err := placements.ValidateCreate(a, p, hasActive); err != nil {
		return placements.Placement{}, err
	}

	pl := placements.Placement{
		ID:              in.ID,
		OrgID:           in.OrgID,
		AnimalID:        in.AnimalID,
		ProfileID:       in.ProfileID,
		StartDate:       in.StartDate,
		ExpectedEndDate: in.ExpectedEndDate,
		Outcome:         placements.OutcomeActive,
		Notes:           in.Notes,
		AgreementSigned: in.AgreementSigned,
		CreatedAt:       in.StartDate,
		UpdatedAt:       in.StartDate,
	}
	if in.AgreementSigned {
		d := in.StartDate
		pl.AgreementSignedDate = &d
	}

	placements.ApplyCreate(pl, &a, &p)

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO foster_placements (`+placementCols+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
	`, placementArgs(pl)...); err != nil {
		return placements.Placement{}, err
	}
	if err := saveLedgerAnimal(ctx, tx, a); err != nil {
		return placements.Placement{}, err
	}
	if err := saveLedgerProfile(ctx, tx, p); err != nil {
		return placements.Placement{}, err
	}

	if err := tx.Commit(); err != nil {
		return placements.Placement{}, err
	}
	return pl, nil
}

func (l *PlacementsLedger) Complete(ctx context.Context, in placements.CompleteParams) (placements.Placement, error) {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return placements.Placement{}, err
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx, `
		SELECT `+placementCols+`
		FROM foster_placements
		WHERE id = $1 AND org_id = $2
		FOR UPDATE
	`, strings.TrimSpace(in.PlacementID), in.OrgID)

	pl, err := scanPlacement(row)
	if err != nil {
		return placements.Placement{}, err
	}

	p, err := lockProfile(ctx, tx, pl.OrgID, pl.ProfileID)
	if err != nil {
		return placements.Placement{}, err
	}
	a, err := lockAnimal(ctx, tx, pl.OrgID, pl.AnimalID)
	if err != nil {
		return placements.Placement{}, err
	}

	if err := placements.ApplyComplete(&pl, &a, &p, in.Outcome, in.EndDate, time.Now()); err != nil {
		return placements.Placement{}, err
	}
	pl.ReturnReason = in.ReturnReason
	pl.SuccessNotes = in.SuccessNotes

	if _, err := tx.ExecContext(ctx, `
		UPDATE foster_placements
		SET
			actual_end_date = $3,
			outcome = $4,
			return_reason = $5,
			success_notes = $6,
			updated_at = $7
		WHERE id = $1 AND org_id = $2
	`,
		pl.ID,
		pl.OrgID,
		pl.ActualEndDate,
		string(pl.Outcome),
		pl.ReturnReason,
		pl.SuccessNotes,
		pl.UpdatedAt,
	); err != nil {
		return placements.Placement{}, err
	}
	if err := saveLedgerAnimal(ctx, tx, a); err != nil {
		return placements.Placement{}, err
	}
	if err := saveLedgerProfile(ctx, tx, p); err != nil {
		return placements.Placement{}, err
	}

	if err := tx.Commit(); err != nil {
		return placements.Placement{}, err
	}
	return pl, nil
}

func (l *PlacementsLedger) GetByID(ctx context.Context, orgID, id string) (placements.Placement, error) {
	row := l.db.QueryRowContext(ctx, `
		SELECT `+placementCols+`
		FROM foster_placements
		WHERE id = $1 AND org_id = $2
	`, strings.TrimSpace(id), orgID)
	return scanPlacement(row)
}

func (l *PlacementsLedger) List(ctx context.Context, orgID string, f placements.ListFilter) ([]placements.Placement, error) {
	query := `
		SELECT ` + placementCols + `
		FROM foster_placements
		WHERE org_id = $1
	`
	args := []any{orgID}

	add := func(cond string, v any) {
		args = append(args, v)
		query += ` AND ` + cond + ` $` + strconv.Itoa(len(args))
	}

	if f.ActiveOnly {
		query += ` AND outcome = 'active'`
	} else if f.Outcome != "" {
		add(`outcome =`, string(f.Outcome))
	}
	if f.ProfileID != "" {
		add(`foster_profile_id =`, f.ProfileID)
	}
	if f.AnimalID != "" {
		add(`animal_id =`, f.AnimalID)
	}
	if f.StartDateFrom != nil {
		add(`start_date >=`, *f.StartDateFrom)
	}
	if f.StartDateTo != nil {
		add(`start_date <=`, *f.StartDateTo)
	}

	query += ` ORDER BY created_at DESC`

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]placements.Placement, 0)
	for rows.Next() {
		pl, err := scanPlacement(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, pl)
	}

	return out, rows.Err()
}

func (l *PlacementsLedger) AddNote(ctx context.Context, n placements.Note) error {
	// El service ya validó que el placement existe en la org; igual
	// scopeamos el INSERT vía el check de FK + org en la subquery.
	res, err := l.db.ExecContext(ctx, `
		INSERT INTO foster_placement_notes (
			id, org_id, placement_id, author_user_id,
			category, body, created_at
		)
		SELECT $1, $2, $3, $4, $5, $6, $7
		WHERE EXISTS (
			SELECT 1 FROM foster_placements
			WHERE id = $3 AND org_id = $2
		)
	`,
		n.ID,
		n.OrgID,
		n.PlacementID,
		n.AuthorUserID,
		n.Category,
		n.Body,
		n.CreatedAt,
	)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return placements.ErrNotFound
	}
	return nil
}

func (l *PlacementsLedger) ListNotes(ctx context.Context, orgID, placementID string) ([]placements.Note, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, org_id, placement_id, author_user_id, category, body, created_at
		FROM foster_placement_notes
		WHERE placement_id = $1 AND org_id = $2
		ORDER BY created_at DESC
	`, strings.TrimSpace(placementID), orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]placements.Note, 0)
	for rows.Next() {
		var n placements.Note
		if err := rows.Scan(
			&n.ID,
			&n.OrgID,
			&n.PlacementID,
			&n.AuthorUserID,
			&n.Category,
			&n.Body,
			&n.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, n)
	}

	return out, rows.Err()
}

// --- helpers ---

func lockProfile(ctx context.Context, tx *sql.Tx, orgID, id string) (fosters.Profile, error) {
	row := tx.QueryRowContext(ctx, `
		SELECT `+profileCols+`
		FROM foster_profiles
		WHERE id = $1 AND org_id = $2
		FOR UPDATE
	`, strings.TrimSpace(id), orgID)

	p, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, fosters.ErrNotFound) {
			return fosters.Profile{}, placements.ErrNotFound
		}
		return fosters.Profile{}, err
	}
	return p, nil
}

func lockAnimal(ctx context.Context, tx *sql.Tx, orgID, id string) (animals.Animal, error) {
	row := tx.QueryRowContext(ctx, `
		SELECT `+animalCols+`
		FROM animals
		WHERE id = $1 AND org_id = $2
		FOR UPDATE
	`, strings.TrimSpace(id), orgID)

	a, err := scanAnimal(row)
	if err != nil {
		if errors.Is(err, animals.ErrNotFound) {
			return animals.Animal{}, placements.ErrNotFound
		}
		return animals.Animal{}, err
	}
	return a, nil
}

func saveLedgerAnimal(ctx context.Context, tx *sql.Tx, a animals.Animal) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE animals
		SET status = $2, foster_user_id = $3, updated_at = $4
		WHERE id = $1
	`, a.ID, string(a.Status), a.FosterUserID, a.UpdatedAt)
	return err
}

func saveLedgerProfile(ctx context.Context, tx *sql.Tx, p fosters.Profile) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE foster_profiles
		SET
			current_capacity = $2,
			total_placements = $3,
			successful_adoptions = $4,
			avg_duration_days = $5,
			updated_at = $6
		WHERE id = $1
	`,
		p.ID,
		p.CurrentCapacity,
		p.TotalPlacements,
		p.SuccessfulAdoptions,
		p.AvgDurationDays,
		p.UpdatedAt,
	)
	return err
}

func placementArgs(pl placements.Placement) []any {
	return []any{
		pl.ID,
		pl.OrgID,
		pl.AnimalID,
		pl.ProfileID,
		pl.StartDate,
		pl.ExpectedEndDate,
		pl.ActualEndDate,
		string(pl.Outcome),
		pl.Notes,
		pl.ReturnReason,
		pl.SuccessNotes,
		pl.AgreementSigned,
		pl.AgreementSignedDate,
		pl.CreatedAt,
		pl.UpdatedAt,
	}
}

func scanPlacement(row rowScanner) (placements.Placement, error) {
	var pl placements.Placement
	var outcome string
	var expected, actual, signedDate sql.NullTime

	if err := row.Scan(
		&pl.ID,
		&pl.OrgID,
		&pl.AnimalID,
		&pl.ProfileID,
		&pl.StartDate,
		&expected,
		&actual,
		&outcome,
		&pl.Notes,
		&pl.ReturnReason,
		&pl.SuccessNotes,
		&pl.AgreementSigned,
		&signedDate,
		&pl.CreatedAt,
		&pl.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return placements.Placement{}, placements.ErrNotFound
		}
		return placements.Placement{}, err
	}

	pl.Outcome = placements.Outcome(outcome)
	if expected.Valid {
		t := expected.Time
		pl.ExpectedEndDate = &t
	}
	if actual.Valid {
		t := actual.Time
		pl.ActualEndDate = &t
	}
	if signedDate.Valid {
		t := signedDate.Time
		pl.AgreementSignedDate = &t
	}

	return pl, nil
}
