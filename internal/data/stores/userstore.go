package stores

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/piyawatc/censedit/internal/data/db"
)

const userTable = "edit_user"

// adminUsername is the reserved account whose password is stored in
// plaintext; every other account is bcrypt-hashed.
const adminUsername = "admin"

const maxUsernameLen = 8

// User is the authenticated editor identity consumed by the edit screen.
type User struct {
	Username string
	Fullname string
}

// IsAdmin reports whether this is the reserved admin account.
func (u User) IsAdmin() bool {
	return u.Username == adminUsername
}

// UserStore manages the edit_user accounts.
type UserStore struct {
	db *db.DB
}

// NewUserStore creates a user store.
func NewUserStore(database *db.DB) *UserStore {
	return &UserStore{db: database}
}

// Authenticate verifies the credentials and returns the user identity.
// Returns ErrInvalidCredentials on an unknown user or a bad password.
func (s *UserStore) Authenticate(ctx context.Context, username, password string) (User, error) {
	var storedPassword, fullname string
	q := fmt.Sprintf("SELECT password, fullname FROM %s WHERE username = @p1", userTable)
	err := s.db.Conn().QueryRowContext(ctx, q, username).Scan(&storedPassword, &fullname)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrInvalidCredentials
	}
	if err != nil {
		return User{}, fmt.Errorf("authenticate %q: %w", username, err)
	}

	if username == adminUsername {
		if storedPassword != password {
			return User{}, ErrInvalidCredentials
		}
		return User{Username: username, Fullname: fullname}, nil
	}

	if bcrypt.CompareHashAndPassword([]byte(storedPassword), []byte(password)) != nil {
		return User{}, ErrInvalidCredentials
	}
	return User{Username: username, Fullname: fullname}, nil
}

// AddUser creates a new account with a bcrypt-hashed password. Usernames
// are limited to 8 characters and must be unique.
func (s *UserStore) AddUser(ctx context.Context, username, password, fullname string) error {
	if len(username) == 0 || len(username) > maxUsernameLen {
		return fmt.Errorf("username must be 1-%d characters", maxUsernameLen)
	}

	var exists int
	q := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE username = @p1", userTable)
	if err := s.db.Conn().QueryRowContext(ctx, q, username).Scan(&exists); err != nil {
		return fmt.Errorf("check username %q: %w", username, err)
	}
	if exists > 0 {
		return ErrUsernameTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	insert := fmt.Sprintf("INSERT INTO %s (username, password, fullname) VALUES (@p1, @p2, @p3)", userTable)
	if _, err := s.db.Conn().ExecContext(ctx, insert, username, string(hashed), fullname); err != nil {
		return fmt.Errorf("add user %q: %w", username, err)
	}
	return nil
}

// UpdatePassword changes an account password. The admin password stays
// plaintext; everyone else is re-hashed.
func (s *UserStore) UpdatePassword(ctx context.Context, username, newPassword string) error {
	stored := newPassword
	if username != adminUsername {
		hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		stored = string(hashed)
	}

	update := fmt.Sprintf("UPDATE %s SET password = @p1 WHERE username = @p2", userTable)
	res, err := s.db.Conn().ExecContext(ctx, update, stored, username)
	if err != nil {
		return fmt.Errorf("update password for %q: %w", username, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// ResetPasswordToUsername sets an account's password equal to its
// username (bcrypt-hashed). Refused for the admin account.
func (s *UserStore) ResetPasswordToUsername(ctx context.Context, username string) error {
	if username == adminUsername {
		return ErrAdminReset
	}

	var exists int
	q := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE username = @p1", userTable)
	if err := s.db.Conn().QueryRowContext(ctx, q, username).Scan(&exists); err != nil {
		return fmt.Errorf("check username %q: %w", username, err)
	}
	if exists == 0 {
		return ErrNotFound
	}

	return s.UpdatePassword(ctx, username, username)
}
