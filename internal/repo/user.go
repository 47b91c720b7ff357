package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"

	"github.com/sophieizhu/biodex/internal/model"
)

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.NamedExecContext(ctx, `
INSERT INTO users (id, email, display_name, biography, password_hash, created_at)
VALUES (:id, :email, :display_name, :biography, :password_hash, :created_at)`, u)
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return model.ErrAlreadyExists
	}
	return err
}

func (r *UserRepository) GetByID(ctx context.Context, id model.UserID) (*model.User, error) {
	return r.get(ctx, `SELECT * FROM users WHERE id = ?`, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.get(ctx, `SELECT * FROM users WHERE email = ?`, email)
}

func (r *UserRepository) get(ctx context.Context, query string, arg interface{}) (*model.User, error) {
	var u model.User

	row := r.db.QueryRowxContext(ctx, query, arg)
	if row.Err() != nil {
		return nil, row.Err()
	}

	err := row.StructScan(&u)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	} else if err != nil {
		return nil, err
	}

	return &u, nil
}

func (r *UserRepository) ListProfiles(ctx context.Context) ([]model.Profile, error) {
	var profiles []model.Profile
	err := r.db.SelectContext(ctx, &profiles, `SELECT id, email, display_name, biography FROM users ORDER BY display_name`)
	if err != nil {
		return nil, err
	}
	return profiles, nil
}
