package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"roamers-service/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) (int64, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id int64) (*model.User, error)
	UpdateLocation(ctx context.Context, id int64, location string) error
	UpsertAdmin(ctx context.Context, user *model.User) (int64, error)
}

type postgresUserRepository struct {
	db *sqlx.DB
}

func NewPostgresUserRepository(db *sqlx.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

func (r *postgresUserRepository) Create(ctx context.Context, user *model.User) (int64, error) {
	query := `INSERT INTO users (username, email, password_hash, role, location) VALUES ($1, $2, $3, $4, $5) RETURNING id`
	var newID int64
	err := r.db.QueryRowxContext(ctx, query, user.Username, user.Email, user.PasswordHash, user.Role, user.Location).Scan(&newID)

	if err != nil {
		return 0, translate(err)
	}

	return newID, nil
}

func (r *postgresUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	query := `SELECT id, username, email, password_hash, role, location, created_at, updated_at FROM users WHERE email = $1`
	err := r.db.GetContext(ctx, &user, query, email)

	if err != nil {
		return nil, translate(err)
	}

	return &user, nil
}

func (r *postgresUserRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	query := `SELECT id, username, email, role, location, created_at, updated_at FROM users WHERE id = $1`
	err := r.db.GetContext(ctx, &user, query, id)

	if err != nil {
		return nil, translate(err)
	}

	return &user, nil
}

func (r *postgresUserRepository) UpdateLocation(ctx context.Context, id int64, location string) error {
	query := `UPDATE users SET location = $1, updated_at = now() WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, location, id)
	if err != nil {
		return translate(err)
	}
	return requireAffected(res)
}

// UpsertAdmin inserts an admin account, or promotes and re-keys the existing
// account with the same email.
func (r *postgresUserRepository) UpsertAdmin(ctx context.Context, user *model.User) (int64, error) {
	query := `
		INSERT INTO users (username, email, password_hash, role)
		VALUES ($1, $2, $3, 'admin')
		ON CONFLICT (email) DO UPDATE
		SET role = 'admin', password_hash = EXCLUDED.password_hash, updated_at = now()
		RETURNING id
	`
	var id int64
	if err := r.db.QueryRowxContext(ctx, query, user.Username, user.Email, user.PasswordHash).Scan(&id); err != nil {
		return 0, translate(err)
	}
	return id, nil
}
