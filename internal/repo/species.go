package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sophieizhu/biodex/internal/model"
)

type SpeciesRepository struct {
	db *sqlx.DB
}

func NewSpeciesRepository(db *sqlx.DB) *SpeciesRepository {
	return &SpeciesRepository{db: db}
}

func (r *SpeciesRepository) GetByID(ctx context.Context, id int64) (*model.Species, error) {
	var s model.Species

	row := r.db.QueryRowxContext(ctx, `SELECT * FROM species WHERE id = ?`, id)
	if row.Err() != nil {
		return nil, row.Err()
	}

	err := row.StructScan(&s)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	} else if err != nil {
		return nil, err
	}

	return &s, nil
}

func (r *SpeciesRepository) List(ctx context.Context) ([]model.Species, error) {
	var list []model.Species
	err := r.db.SelectContext(ctx, &list, `SELECT * FROM species ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *SpeciesRepository) ListByAuthor(ctx context.Context, author model.UserID) ([]model.Species, error) {
	var list []model.Species
	err := r.db.SelectContext(ctx, &list, `SELECT * FROM species WHERE author = ? ORDER BY id DESC`, author)
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *SpeciesRepository) Create(ctx context.Context, author model.UserID, p model.SpeciesPatch) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
INSERT INTO species (scientific_name, common_name, kingdom, total_population, image, description, author, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ScientificName, p.CommonName, p.Kingdom, p.TotalPopulation, p.Image, p.Description, author, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Update replaces every editable column; partial patches are not
// supported.
func (r *SpeciesRepository) Update(ctx context.Context, id int64, p model.SpeciesPatch) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE species
SET scientific_name = ?, common_name = ?, kingdom = ?, total_population = ?, image = ?, description = ?
WHERE id = ?`,
		p.ScientificName, p.CommonName, p.Kingdom, p.TotalPopulation, p.Image, p.Description, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *SpeciesRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM species WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrNotFound
	}
	return nil
}
