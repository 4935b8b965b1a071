package interfaces

import domaintypes "king/internal/domain/types"

// Account is the capability shared by teachers and students.
type Account interface {
	Creds() domaintypes.Credentials
	SetPasswordHash(hash string)
}

// Compile-time assertions that both roles implement Account.
var (
	_ Account = (*domaintypes.Teacher)(nil)
	_ Account = (*domaintypes.Student)(nil)
)
