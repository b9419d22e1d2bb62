package db

import (
	"context"

	"github.com/jobly/jobly-api/auth"
	"github.com/jobly/jobly-api/types"
)

// UserColumns maps the patchable user fields to their columns
var UserColumns = map[string]string{
	"firstName": "first_name",
	"lastName":  "last_name",
	"isAdmin":   "is_admin",
}

const userColumns = "username, first_name, last_name, email, is_admin"

func scanUser(row interface{ Scan(...interface{}) error }) (*types.User, error) {
	var u types.User
	if err := row.Scan(&u.Username, &u.FirstName, &u.LastName, &u.Email, &u.IsAdmin); err != nil {
		return nil, err
	}
	return &u, nil
}

// Authenticate returns the user when password matches the stored hash
func (db *Db) Authenticate(ctx context.Context, username string, password string) (*types.User, error) {
	var (
		hash string
		u    types.User
	)
	err := db.QueryRow(ctx, "SELECT "+userColumns+", password FROM users WHERE username = $1", username).
		Scan(&u.Username, &u.FirstName, &u.LastName, &u.Email, &u.IsAdmin, &hash)
	if IsNotFound(err) {
		return nil, newError(ErrInvalidCredentials, "Invalid username/password")
	}
	if err != nil {
		return nil, err
	}

	ok, err := auth.VerifyPassword(hash, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, newError(ErrInvalidCredentials, "Invalid username/password")
	}
	return &u, nil
}

// CreateUser hashes the password of user and inserts it
func (db *Db) CreateUser(ctx context.Context, user types.NewUser) (*types.User, error) {
	hash, err := auth.HashPassword(user.Password)
	if err != nil {
		return nil, err
	}

	query := "INSERT INTO users (username, password, first_name, last_name, email, is_admin) " +
		"VALUES ($1, $2, $3, $4, $5, $6) RETURNING " + userColumns
	created, err := scanUser(db.QueryRow(ctx, query,
		user.Username, hash, user.FirstName, user.LastName, user.Email, user.IsAdmin))
	if IsDuplicateKey(err) {
		return nil, newError(ErrInvalidInput, "Duplicate username: %s", user.Username)
	}
	return created, err
}

// FindUsers returns every user ordered by username
func (db *Db) FindUsers(ctx context.Context) ([]types.User, error) {
	rows, err := db.Query(ctx, "SELECT "+userColumns+" FROM users ORDER BY username")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]types.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, mapError(err)
		}
		users = append(users, *u)
	}
	return users, mapError(rows.Err())
}

// GetUser returns the user with username and the ids of the jobs it applied to
func (db *Db) GetUser(ctx context.Context, username string) (*types.UserDetail, error) {
	user, err := scanUser(db.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE username = $1", username))
	if IsNotFound(err) {
		return nil, noUser(username)
	}
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(ctx, "SELECT job_id FROM applications WHERE username = $1 ORDER BY job_id", username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	detail := &types.UserDetail{User: *user, Jobs: make([]int64, 0)}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, mapError(err)
		}
		detail.Jobs = append(detail.Jobs, id)
	}
	return detail, mapError(rows.Err())
}

// UpdateUser applies patch to the user with username. A password in the patch
// is hashed before it is stored.
func (db *Db) UpdateUser(ctx context.Context, username string, patch types.Patch) (*types.User, error) {
	if value, ok := patch.Get("password"); ok {
		password, ok := value.(string)
		if !ok {
			return nil, newError(ErrInvalidInput, "password must be a string")
		}
		hash, err := auth.HashPassword(password)
		if err != nil {
			return nil, err
		}
		hashed := make(types.Patch, len(patch))
		copy(hashed, patch)
		hashed.Set("password", hash)
		patch = hashed
	}

	setClause, values, err := PartialUpdate(patch, UserColumns)
	if err != nil {
		return nil, err
	}

	query := updateStatement("users", setClause, "username", len(values)+1, userColumns)
	user, err := scanUser(db.QueryRow(ctx, query, append(values, username)...))
	if IsNotFound(err) {
		return nil, noUser(username)
	}
	return user, err
}

// RemoveUser deletes the user with username
func (db *Db) RemoveUser(ctx context.Context, username string) error {
	var deleted string
	err := db.QueryRow(ctx, "DELETE FROM users WHERE username = $1 RETURNING username", username).Scan(&deleted)
	if IsNotFound(err) {
		return noUser(username)
	}
	return err
}

// ApplyToJob records an application of username to the job with jobID
func (db *Db) ApplyToJob(ctx context.Context, username string, jobID int64) error {
	var exists int64
	err := db.QueryRow(ctx, "SELECT id FROM jobs WHERE id = $1", jobID).Scan(&exists)
	if IsNotFound(err) {
		return noJob(jobID)
	}
	if err != nil {
		return err
	}

	var found string
	err = db.QueryRow(ctx, "SELECT username FROM users WHERE username = $1", username).Scan(&found)
	if IsNotFound(err) {
		return noUser(username)
	}
	if err != nil {
		return err
	}

	_, err = db.Exec(ctx, "INSERT INTO applications (username, job_id) VALUES ($1, $2)", username, jobID)
	if IsDuplicateKey(err) {
		return newError(ErrDuplicateKey, "Already applied: %s to job %d", username, jobID)
	}
	return err
}

func noUser(username string) error {
	return newError(ErrNotFound, "No user: %s", username)
}
