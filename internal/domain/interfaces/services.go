package interfaces

import domaintypes "king/internal/domain/types"

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
	// Decoy returns a well-formed hash that no caller knows the password of.
	Decoy() string
}

// AuthService checks credentials for a role.
type AuthService interface {
	Authenticate(role domaintypes.Role, username domaintypes.Username, password string) error
}

// GradeService records and reads student grades.
type GradeService interface {
	RecordGrade(student domaintypes.Username, grade float64) error
	Grades(student domaintypes.Username) ([]float64, error)
}
