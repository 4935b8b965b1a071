package interfaces

import domaintypes "king/internal/domain/types"

// CredentialStore exposes read-only credential lookups per role.
type CredentialStore interface {
	Credentials(
		role domaintypes.Role,
		username domaintypes.Username,
	) (domaintypes.Credentials, bool)
}

// GradeStore appends to and reads student grade lists.
type GradeStore interface {
	AppendGrade(student domaintypes.Username, grade float64) bool
	StudentGrades(student domaintypes.Username) ([]float64, bool)
}
