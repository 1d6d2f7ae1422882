package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"animal-rescue-ops/internal/domain/animals"
)

type AnimalsRepo struct {
	db *sql.DB
}

func NewAnimalsRepo(db *sql.DB) *AnimalsRepo {
	return &AnimalsRepo{db: db}
}

const animalCols = `
	id, org_id,
	name, species, breed, sex, status,
	description_public, description_internal, photo_url,
	foster_user_id, adopter_user_id,
	created_at, updated_at
`

func (r *AnimalsRepo) Create(ctx context.Context, a animals.Animal) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO animals (`+animalCols+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
	`,
		a.ID,
		a.OrgID,
		a.Name,
		a.Species,
		a.Breed,
		a.Sex,
		string(a.Status),
		a.DescriptionPublic,
		a.DescriptionInternal,
		a.PhotoURL,
		a.FosterUserID,
		a.AdopterUserID,
		a.CreatedAt,
		a.UpdatedAt,
	)
	return err
}

func (r *AnimalsRepo) GetByID(ctx context.Context, orgID, id string) (animals.Animal, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return animals.Animal{}, animals.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+animalCols+`
		FROM animals
		WHERE id = $1 AND org_id = $2
	`, id, orgID)

	return scanAnimal(row)
}

func (r *AnimalsRepo) List(ctx context.Context, orgID string, f animals.ListFilter) ([]animals.Animal, error) {
	orgID = strings.TrimSpace(orgID)
	if orgID == "" {
		return nil, nil
	}

	query := `
		SELECT ` + animalCols + `
		FROM animals
		WHERE org_id = $1
	`
	args := []any{orgID}
	if f.Status != "" {
		query += ` AND status = $2`
		args = append(args, string(f.Status))
	}
	query += ` ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]animals.Animal, 0)
	for rows.Next() {
		a, err := scanAnimal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}

	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnimal(row rowScanner) (animals.Animal, error) {
	var a animals.Animal
	var status string
	var fosterUserID, adopterUserID sql.NullString

	if err := row.Scan(
		&a.ID,
		&a.OrgID,
		&a.Name,
		&a.Species,
		&a.Breed,
		&a.Sex,
		&status,
		&a.DescriptionPublic,
		&a.DescriptionInternal,
		&a.PhotoURL,
		&fosterUserID,
		&adopterUserID,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return animals.Animal{}, animals.ErrNotFound
		}
		return animals.Animal{}, err
	}

	a.Status = animals.Status(status)
	if fosterUserID.Valid {
		v := fosterUserID.String
		a.FosterUserID = &v
	}
	if adopterUserID.Valid {
		v := adopterUserID.String
		a.AdopterUserID = &v
	}

	return a, nil
}
