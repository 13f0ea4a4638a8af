package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"postboard/internal/dbx"
	"postboard/internal/model"
)

const userColumns = `id, username, name, email, age, password_hash, profile_image, created_at`

type UserRepository struct {
	db dbx.DBTX
}

func NewUserRepository(db dbx.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (model.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`,
		strings.TrimSpace(email))

	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (model.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)

	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u model.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, username, name, email, age, password_hash, profile_image, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		u.ID, u.Username, u.Name, u.Email, u.Age, u.PasswordHash, u.ProfileImage, u.CreatedAt)
	if isUniqueViolation(err) {
		return model.ErrUserAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.Name, &u.Email, &u.Age,
		&u.PasswordHash, &u.ProfileImage, &u.CreatedAt)
	return u, err
}
