package store

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v2"

	"king/internal/domain"
)

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// SeedsFromEnv reads bootstrap accounts from numbered variables:
//
//	TEACHER_USERNAME_1, TEACHER_PASSWORD_1, TEACHER_USERNAME_2, ...
//	STUDENT_USERNAME_1, STUDENT_PASSWORD_1, ...
//
// Numbering starts at 1 and stops at the first missing username.
func SeedsFromEnv(lookup LookupFunc) ([]domain.Seed, error) {
	var seeds []domain.Seed
	for _, r := range []struct {
		role   domain.Role
		prefix string
	}{
		{domain.RoleTeacher, "TEACHER"},
		{domain.RoleStudent, "STUDENT"},
	} {
		for i := 1; ; i++ {
			user, ok := lookup(fmt.Sprintf("%s_USERNAME_%d", r.prefix, i))
			if !ok {
				break
			}
			passKey := fmt.Sprintf("%s_PASSWORD_%d", r.prefix, i)
			pass, ok := lookup(passKey)
			if !ok {
				return nil, fmt.Errorf("%s is not set", passKey)
			}
			seeds = append(seeds, domain.Seed{Role: r.role, Username: domain.Username(user), Password: pass})
		}
	}
	return seeds, nil
}

type seedFile struct {
	Accounts []struct {
		Role     string `yaml:"role"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
	} `yaml:"accounts"`
}

// SeedsFromYAML reads bootstrap accounts from a document of the form:
//
//	accounts:
//	  - role: teacher
//	    username: Ann
//	    password: pw1
func SeedsFromYAML(r io.Reader) ([]domain.Seed, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var f seedFile
	if err := yaml.UnmarshalStrict(b, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	seeds := make([]domain.Seed, 0, len(f.Accounts))
	for i, a := range f.Accounts {
		role, err := domain.ParseRole(a.Role)
		if err != nil {
			return nil, fmt.Errorf("seed account %d: %w", i+1, err)
		}
		seeds = append(seeds, domain.Seed{Role: role, Username: domain.Username(a.Username), Password: a.Password})
	}
	return seeds, nil
}

// NewSeededStore hashes every seed password and inserts the accounts.
// Plaintext passwords are not retained.
func NewSeededStore(h domain.PasswordHasher, seeds []domain.Seed) (*Store, error) {
	s := New()
	for _, sd := range seeds {
		if sd.Username == "" {
			return nil, errors.New("seed account with empty username")
		}
		hash, err := h.Hash(sd.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password for %s %q: %w", sd.Role, sd.Username, err)
		}
		creds := domain.Credentials{Username: sd.Username, PasswordHash: hash}
		switch sd.Role {
		case domain.RoleTeacher:
			err = s.AddTeacher(domain.Teacher{Credentials: creds})
		case domain.RoleStudent:
			err = s.AddStudent(domain.Student{Credentials: creds})
		default:
			err = fmt.Errorf("seed %q has invalid %s", sd.Username, sd.Role)
		}
		if err != nil {
			return nil, err
		}
	}
	return s, nil
}
