package domain

import (
	interfaces "king/internal/domain/interfaces"
	types "king/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	Username    = types.Username
	Role        = types.Role
	Credentials = types.Credentials
	Teacher     = types.Teacher
	Student     = types.Student
	Seed        = types.Seed
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	Account         = interfaces.Account
	PasswordHasher  = interfaces.PasswordHasher
	AuthService     = interfaces.AuthService
	GradeService    = interfaces.GradeService
	CredentialStore = interfaces.CredentialStore
	GradeStore      = interfaces.GradeStore
)

// Role values.
const (
	RoleTeacher = types.RoleTeacher
	RoleStudent = types.RoleStudent
)

// Sentinel errors shared across services.
var (
	ErrAuthFailed       = types.ErrAuthFailed
	ErrWrongPassword    = types.ErrWrongPassword
	ErrUserDoesNotExist = types.ErrUserDoesNotExist
	ErrNotFound         = types.ErrNotFound
	ErrGradeOutOfRange  = types.ErrGradeOutOfRange
)

// ParseRole parses a role name or its one-letter abbreviation.
func ParseRole(s string) (Role, error) { return types.ParseRole(s) }
