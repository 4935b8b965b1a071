package types

// Credentials hold a username and its PHC-encoded password hash.
// The plaintext password is never stored.
type Credentials struct {
	Username     Username `json:"username"`
	PasswordHash string   `json:"password_hash"`
}

// Teacher is an account allowed to read and record grades for any student.
type Teacher struct {
	Credentials Credentials `json:"creds"`
}

// Creds returns the teacher's credentials.
func (t *Teacher) Creds() Credentials { return t.Credentials }

// SetPasswordHash replaces the stored hash.
func (t *Teacher) SetPasswordHash(hash string) { t.Credentials.PasswordHash = hash }

// Student is an account with an ordered, append-only list of grades.
type Student struct {
	Credentials Credentials `json:"creds"`
	Grades      []float64   `json:"grades"`
}

// Creds returns the student's credentials.
func (s *Student) Creds() Credentials { return s.Credentials }

// SetPasswordHash replaces the stored hash.
func (s *Student) SetPasswordHash(hash string) { s.Credentials.PasswordHash = hash }

// Seed is a bootstrap account supplied before any store file exists.
type Seed struct {
	Role     Role
	Username Username
	Password string
}
