package auth

import (
	"k8s.io/klog/v2"

	"king/internal/domain"
)

// Service authenticates accounts of either role.
type Service struct {
	store  domain.CredentialStore
	hasher domain.PasswordHasher
}

// New returns an authentication service over store using hasher.
func New(store domain.CredentialStore, hasher domain.PasswordHasher) *Service {
	return &Service{store: store, hasher: hasher}
}

// Authenticate returns nil when password matches the account of role named
// username. Otherwise it returns domain.ErrWrongPassword or
// domain.ErrUserDoesNotExist; both match domain.ErrAuthFailed.
//
// The store lock is held only for the lookup; verification runs after it is
// released. Nothing is mutated.
func (s *Service) Authenticate(role domain.Role, username domain.Username, password string) error {
	creds, ok := s.store.Credentials(role, username)
	if !ok {
		// Equalise timing with the found-user path.
		_ = s.hasher.Verify(password, s.hasher.Decoy())
		klog.V(2).InfoS("Login failed", "role", role, "username", username)
		return domain.ErrUserDoesNotExist
	}
	if !s.hasher.Verify(password, creds.PasswordHash) {
		klog.V(2).InfoS("Login failed", "role", role, "username", username)
		return domain.ErrWrongPassword
	}
	klog.V(1).InfoS("Login succeeded", "role", role, "username", username)
	return nil
}

// Compile-time assertion that Service implements domain.AuthService.
var _ domain.AuthService = (*Service)(nil)
