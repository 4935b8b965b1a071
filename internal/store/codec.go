package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"

	"king/internal/domain"
)

var (
	// ErrDecodeFailed is returned when decrypted content is not a valid store document.
	ErrDecodeFailed = errors.New("decode store")
)

// Encode serialises every account, hashed password and grade of s as JSON.
func Encode(s *Store) ([]byte, error) {
	return EncodeSnapshot(s.Snapshot())
}

// EncodeSnapshot serialises snap as JSON.
func EncodeSnapshot(snap Snapshot) ([]byte, error) {
	if snap.Teachers == nil {
		snap.Teachers = map[domain.Username]domain.Teacher{}
	}
	if snap.Students == nil {
		snap.Students = map[domain.Username]domain.Student{}
	}
	for u, st := range snap.Students {
		for _, g := range st.Grades {
			// JSON has no representation for these.
			if math.IsNaN(g) || math.IsInf(g, 0) {
				return nil, fmt.Errorf("student %q has non-finite grade %v", u, g)
			}
		}
	}
	return json.Marshal(snap)
}

// Decode parses a document produced by Encode. Unknown fields, trailing
// data and inconsistent usernames are rejected with ErrDecodeFailed.
func Decode(b []byte) (*Store, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()

	var snap Snapshot
	if err := dec.Decode(&snap); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeFailed, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after document", ErrDecodeFailed)
	}
	if snap.Teachers == nil || snap.Students == nil {
		return nil, fmt.Errorf("%w: missing role map", ErrDecodeFailed)
	}
	s, err := FromSnapshot(snap)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeFailed, err)
	}
	return s, nil
}
