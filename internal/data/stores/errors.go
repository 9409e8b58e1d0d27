package stores

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidCredentials is returned by Authenticate on a bad
	// username/password pair.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUsernameTaken is returned by AddUser for duplicate usernames.
	ErrUsernameTaken = errors.New("username already exists")

	// ErrAdminReset is returned when a password reset targets admin.
	ErrAdminReset = errors.New("ไม่สามารถรีเซ็ตรหัสผ่าน admin ได้")
)
