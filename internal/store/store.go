package store

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"king/internal/domain"
)

// ErrDuplicateUser is returned when a username already exists within a role.
var ErrDuplicateUser = errors.New("username already exists")

// roleMap is one role's accounts behind its own lock.
type roleMap[T domain.Account] struct {
	mu sync.Mutex
	m  map[domain.Username]T
}

func (r *roleMap[T]) add(u domain.Username, v T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.m[u]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateUser, u)
	}
	r.m[u] = v
	return nil
}

func (r *roleMap[T]) credentials(u domain.Username) (domain.Credentials, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.m[u]
	if !ok {
		return domain.Credentials{}, false
	}
	return v.Creds(), true
}

func (r *roleMap[T]) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.m)
}

// Store is the in-memory authority for all accounts and grades.
//
// Teachers and students are separate namespaces, each guarded by its own
// mutex so that work on one role never waits on the other. Critical sections
// are map operations only; hashing and I/O happen outside the locks.
type Store struct {
	teachers roleMap[*domain.Teacher]
	students roleMap[*domain.Student]
}

// New returns an empty store.
func New() *Store {
	s := &Store{}
	s.teachers.m = make(map[domain.Username]*domain.Teacher)
	s.students.m = make(map[domain.Username]*domain.Student)
	return s
}

// AddTeacher inserts a teacher. The username must be unused among teachers.
func (s *Store) AddTeacher(t domain.Teacher) error {
	if t.Credentials.Username == "" {
		return errors.New("empty teacher username")
	}
	return s.teachers.add(t.Credentials.Username, &t)
}

// AddStudent inserts a student. The username must be unused among students.
func (s *Store) AddStudent(st domain.Student) error {
	if st.Credentials.Username == "" {
		return errors.New("empty student username")
	}
	st.Grades = slices.Clone(st.Grades)
	if st.Grades == nil {
		st.Grades = []float64{}
	}
	return s.students.add(st.Credentials.Username, &st)
}

// Credentials looks up username within role.
func (s *Store) Credentials(role domain.Role, username domain.Username) (domain.Credentials, bool) {
	switch role {
	case domain.RoleTeacher:
		return s.teachers.credentials(username)
	case domain.RoleStudent:
		return s.students.credentials(username)
	}
	return domain.Credentials{}, false
}

// Len returns the number of accounts of role.
func (s *Store) Len(role domain.Role) int {
	switch role {
	case domain.RoleTeacher:
		return s.teachers.len()
	case domain.RoleStudent:
		return s.students.len()
	}
	return 0
}

// AppendGrade appends grade to the student's list. It reports false, and
// changes nothing, when the student does not exist.
func (s *Store) AppendGrade(student domain.Username, grade float64) bool {
	s.students.mu.Lock()
	defer s.students.mu.Unlock()

	st, ok := s.students.m[student]
	if !ok {
		return false
	}
	st.Grades = append(st.Grades, grade)
	return true
}

// StudentGrades returns a copy of the student's grades.
func (s *Store) StudentGrades(student domain.Username) ([]float64, bool) {
	s.students.mu.Lock()
	defer s.students.mu.Unlock()

	st, ok := s.students.m[student]
	if !ok {
		return nil, false
	}
	out := make([]float64, len(st.Grades))
	copy(out, st.Grades)
	return out, true
}

// Snapshot is a detached deep copy of a Store, used for serialisation.
type Snapshot struct {
	Teachers map[domain.Username]domain.Teacher `json:"teachers"`
	Students map[domain.Username]domain.Student `json:"students"`
}

// Snapshot copies each role map while holding only that map's lock.
func (s *Store) Snapshot() Snapshot {
	snap := Snapshot{}

	s.teachers.mu.Lock()
	snap.Teachers = make(map[domain.Username]domain.Teacher, len(s.teachers.m))
	for u, t := range s.teachers.m {
		snap.Teachers[u] = *t
	}
	s.teachers.mu.Unlock()

	s.students.mu.Lock()
	snap.Students = make(map[domain.Username]domain.Student, len(s.students.m))
	for u, st := range s.students.m {
		c := *st
		c.Grades = make([]float64, len(st.Grades))
		copy(c.Grades, st.Grades)
		snap.Students[u] = c
	}
	s.students.mu.Unlock()

	return snap
}

// FromSnapshot builds a Store from snap. Map keys must match the usernames
// recorded inside each account.
func FromSnapshot(snap Snapshot) (*Store, error) {
	s := New()
	for u, t := range snap.Teachers {
		if t.Credentials.Username != u {
			return nil, fmt.Errorf("teacher key %q does not match username %q", u, t.Credentials.Username)
		}
		if err := s.AddTeacher(t); err != nil {
			return nil, err
		}
	}
	for u, st := range snap.Students {
		if st.Credentials.Username != u {
			return nil, fmt.Errorf("student key %q does not match username %q", u, st.Credentials.Username)
		}
		if err := s.AddStudent(st); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Compile-time assertions that Store implements the domain store contracts.
var (
	_ domain.CredentialStore = (*Store)(nil)
	_ domain.GradeStore      = (*Store)(nil)
)
