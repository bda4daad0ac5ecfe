package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/mwalimu/ratiba/core/user"
)

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) *userRepository {
	return &userRepository{db: db}
}

type userRow struct {
	ID           string     `db:"id"`
	Name         string     `db:"name"`
	Username     string     `db:"username"`
	Email        string     `db:"email"`
	IsActive     null.Bool  `db:"is_active"`
	Roles        string     `db:"roles"`
	PasswordHash null.Bytes `db:"password_hash"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
	LastLogin    null.Time  `db:"last_login"`
}

func (row userRow) user() user.User {
	usr := user.User{
		ID:           row.ID,
		Name:         row.Name,
		Username:     row.Username,
		Email:        row.Email,
		IsActive:     row.IsActive.Ptr(),
		PasswordHash: row.PasswordHash.Bytes,
		CreatedAt:    row.CreatedAt.UTC(),
		UpdatedAt:    row.UpdatedAt.UTC(),
		LastLogin:    row.LastLogin.Time.UTC(),
	}
	if row.Roles != "" {
		usr.Roles = strings.Split(row.Roles, ",")
	}
	return usr
}

func joinRoles(roles []string) string {
	return strings.Join(roles, ",")
}

// trapNoRowsErr maps psql "no rows" err to user.ErrNotFound
func (repo userRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return user.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo *userRepository) CheckUsernameUniqueness(ctx context.Context, username, email string, excludedUsers ...user.User) error {
	excluded := make([]string, 0, len(excludedUsers))
	for _, usr := range excludedUsers {
		excluded = append(excluded, usr.ID)
	}

	var clash struct {
		Username string `db:"username"`
		Email    string `db:"email"`
	}
	err := repo.db.GetContext(ctx, &clash,
		`SELECT username, email FROM "user" WHERE (username = $1 OR email = $2) AND NOT (id = ANY($3)) LIMIT 1`,
		username, email, pq.Array(excluded),
	)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "checking uniqueness")
	}
	if clash.Username == username {
		return user.ErrUsernameExists
	}
	return user.ErrEmailExists
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	if usr.ID == "" {
		usr.ID = uuid.New().String()
	}
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO "user" (id, name, username, email, is_active, roles, password_hash, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		usr.ID, usr.Name, usr.Username, usr.Email, null.BoolFromPtr(usr.IsActive), joinRoles(usr.Roles),
		null.BytesFrom(usr.PasswordHash), usr.CreatedAt.UTC(), usr.UpdatedAt.UTC(),
	)
	if err != nil {
		return user.User{}, errors.Wrap(err, "creating user")
	}
	return usr, nil
}

func (repo *userRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	var row userRow
	err := repo.db.GetContext(ctx, &row, `SELECT * FROM "user" WHERE id = $1`, id)
	if err != nil {
		return user.User{}, repo.trapNoRowsErr(err, "getting user by id")
	}
	return row.user(), nil
}

func (repo *userRepository) GetUserByUsernameOrEmail(ctx context.Context, username string) (user.User, error) {
	var row userRow
	err := repo.db.GetContext(ctx, &row, `SELECT * FROM "user" WHERE username = $1 OR email = $1`, username)
	if err != nil {
		return user.User{}, repo.trapNoRowsErr(err, "getting user by username or email")
	}
	return row.user(), nil
}

func (repo *userRepository) UpdateOrCreateUser(ctx context.Context, usr user.User) (user.User, error) {
	if usr.ID == "" {
		existing, err := repo.GetUserByUsernameOrEmail(ctx, usr.Username)
		if err == nil {
			usr.ID = existing.ID
			usr.CreatedAt = existing.CreatedAt
		} else if errors.Cause(err) != user.ErrNotFound {
			return user.User{}, err
		}
	}
	if usr.ID == "" {
		usr.ID = uuid.New().String()
		usr.CreatedAt = time.Now().UTC()
		return repo.CreateUser(ctx, usr)
	}

	_, err := repo.db.ExecContext(ctx,
		`UPDATE "user" SET name = $1, username = $2, email = $3, is_active = $4, roles = $5, password_hash = $6, updated_at = $7
		 WHERE id = $8`,
		usr.Name, usr.Username, usr.Email, null.BoolFromPtr(usr.IsActive), joinRoles(usr.Roles),
		null.BytesFrom(usr.PasswordHash), usr.UpdatedAt.UTC(), usr.ID,
	)
	if err != nil {
		return user.User{}, errors.Wrap(err, "updating user")
	}
	return usr, nil
}

func (repo *userRepository) SetLastLogin(ctx context.Context, usr user.User, at time.Time) (user.User, error) {
	_, err := repo.db.ExecContext(ctx, `UPDATE "user" SET last_login = $1 WHERE id = $2`, at.UTC(), usr.ID)
	if err != nil {
		return user.User{}, errors.Wrap(err, "setting last login")
	}
	usr.LastLogin = at
	return usr, nil
}
