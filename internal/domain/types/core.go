package types

import (
	"fmt"
	"strings"
)

// Username identifies an account within a single role.
type Username string

// String returns the string form of the username.
func (u Username) String() string { return string(u) }

// Role selects which account namespace an operation applies to.
type Role int

const (
	// RoleTeacher selects the teacher accounts.
	RoleTeacher Role = iota + 1
	// RoleStudent selects the student accounts.
	RoleStudent
)

// String returns the lower-case role name.
func (r Role) String() string {
	switch r {
	case RoleTeacher:
		return "teacher"
	case RoleStudent:
		return "student"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool { return r == RoleTeacher || r == RoleStudent }

// ParseRole accepts "t", "teacher", "s" or "student" (case-insensitive).
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "t", "teacher":
		return RoleTeacher, nil
	case "s", "student":
		return RoleStudent, nil
	}
	return 0, fmt.Errorf("unknown role %q", s)
}
