package db

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
)

type User struct {
	ID        uuid.UUID
	Username  string
	Email     string
	UserType  string
	CreatedAt time.Time
}

type Profile struct {
	UserID      uuid.UUID
	Preferences pqtype.NullRawMessage
	UpdatedAt   time.Time
}

const createUser = `INSERT INTO users (id, username, email, user_type, created_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, username, email, user_type, created_at`

type CreateUserParams struct {
	ID        uuid.UUID
	Username  string
	Email     string
	UserType  string
	CreatedAt time.Time
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := q.db.QueryRowContext(ctx, createUser,
		arg.ID,
		arg.Username,
		arg.Email,
		arg.UserType,
		arg.CreatedAt,
	)
	var i User
	err := row.Scan(
		&i.ID,
		&i.Username,
		&i.Email,
		&i.UserType,
		&i.CreatedAt,
	)
	return i, err
}

const getUser = `SELECT id, username, email, user_type, created_at FROM users WHERE id = $1`

func (q *Queries) GetUser(ctx context.Context, id uuid.UUID) (User, error) {
	row := q.db.QueryRowContext(ctx, getUser, id)
	var i User
	err := row.Scan(
		&i.ID,
		&i.Username,
		&i.Email,
		&i.UserType,
		&i.CreatedAt,
	)
	return i, err
}

const getUserByEmail = `SELECT id, username, email, user_type, created_at FROM users WHERE email = $1`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := q.db.QueryRowContext(ctx, getUserByEmail, email)
	var i User
	err := row.Scan(
		&i.ID,
		&i.Username,
		&i.Email,
		&i.UserType,
		&i.CreatedAt,
	)
	return i, err
}

const getUserByUsername = `SELECT id, username, email, user_type, created_at FROM users WHERE username = $1`

func (q *Queries) GetUserByUsername(ctx context.Context, username string) (User, error) {
	row := q.db.QueryRowContext(ctx, getUserByUsername, username)
	var i User
	err := row.Scan(
		&i.ID,
		&i.Username,
		&i.Email,
		&i.UserType,
		&i.CreatedAt,
	)
	return i, err
}

const upsertProfile = `INSERT INTO profiles (user_id, preferences, updated_at)
VALUES ($1, $2, $3)
ON CONFLICT (user_id) DO UPDATE SET preferences = excluded.preferences, updated_at = excluded.updated_at
RETURNING user_id, preferences, updated_at`

type UpsertProfileParams struct {
	UserID      uuid.UUID
	Preferences pqtype.NullRawMessage
	UpdatedAt   time.Time
}

func (q *Queries) UpsertProfile(ctx context.Context, arg UpsertProfileParams) (Profile, error) {
	row := q.db.QueryRowContext(ctx, upsertProfile, arg.UserID, arg.Preferences, arg.UpdatedAt)
	var i Profile
	err := row.Scan(&i.UserID, &i.Preferences, &i.UpdatedAt)
	return i, err
}

const getProfile = `SELECT user_id, preferences, updated_at FROM profiles WHERE user_id = $1`

func (q *Queries) GetProfile(ctx context.Context, userID uuid.UUID) (Profile, error) {
	row := q.db.QueryRowContext(ctx, getProfile, userID)
	var i Profile
	err := row.Scan(&i.UserID, &i.Preferences, &i.UpdatedAt)
	return i, err
}
