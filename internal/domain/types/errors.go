package types

import "errors"

var (
	// ErrAuthFailed is matched by every authentication failure.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrWrongPassword is returned when the user exists but the password does not match.
	ErrWrongPassword error = &authError{msg: "wrong password"}

	// ErrUserDoesNotExist is returned when no account of the requested role has the username.
	ErrUserDoesNotExist error = &authError{msg: "user does not exist"}

	// ErrNotFound is returned by grade operations for an unknown student.
	ErrNotFound = errors.New("student not found")

	// ErrGradeOutOfRange is returned when a grade falls outside the configured bounds.
	ErrGradeOutOfRange = errors.New("grade out of range")
)

// authError keeps the two failure modes distinct internally while both
// match ErrAuthFailed for callers that must not tell them apart.
type authError struct{ msg string }

func (e *authError) Error() string        { return e.msg }
func (e *authError) Is(target error) bool { return target == ErrAuthFailed }
