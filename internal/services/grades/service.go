package grades

import (
	"fmt"
	"math"

	"k8s.io/klog/v2"

	"king/internal/domain"
)

// Bounds is the inclusive range of accepted grades.
type Bounds struct {
	Min float64
	Max float64
}

// DefaultBounds returns the Swiss 0 to 6 scale.
func DefaultBounds() Bounds { return Bounds{Min: 0, Max: 6} }

// Validate checks that b describes a non-empty finite range.
func (b Bounds) Validate() error {
	if math.IsNaN(b.Min) || math.IsNaN(b.Max) || math.IsInf(b.Min, 0) || math.IsInf(b.Max, 0) {
		return fmt.Errorf("grade bounds must be finite, got [%v, %v]", b.Min, b.Max)
	}
	if b.Min > b.Max {
		return fmt.Errorf("grade bounds inverted: min %v > max %v", b.Min, b.Max)
	}
	return nil
}

// Contains reports whether g is a finite value within b.
func (b Bounds) Contains(g float64) bool {
	return !math.IsNaN(g) && g >= b.Min && g <= b.Max
}

// Service appends and reads grades.
type Service struct {
	store  domain.GradeStore
	bounds Bounds
}

// New returns a grade service enforcing bounds.
func New(store domain.GradeStore, bounds Bounds) *Service {
	return &Service{store: store, bounds: bounds}
}

// Bounds returns the enforced range.
func (s *Service) Bounds() Bounds { return s.bounds }

// RecordGrade appends grade to the student's list. Out-of-range grades are
// rejected before the lookup. Unknown students return domain.ErrNotFound;
// students are never created implicitly.
func (s *Service) RecordGrade(student domain.Username, grade float64) error {
	if !s.bounds.Contains(grade) {
		return fmt.Errorf("%w: %v not in [%v, %v]", domain.ErrGradeOutOfRange, grade, s.bounds.Min, s.bounds.Max)
	}
	if !s.store.AppendGrade(student, grade) {
		return fmt.Errorf("%w: %q", domain.ErrNotFound, student)
	}
	klog.V(1).InfoS("Grade recorded", "student", student, "grade", grade)
	return nil
}

// Grades returns a copy of the student's grades in insertion order.
func (s *Service) Grades(student domain.Username) ([]float64, error) {
	g, ok := s.store.StudentGrades(student)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrNotFound, student)
	}
	return g, nil
}

// Average returns the arithmetic mean of grades. ok is false for an empty
// list, for which no mean is defined.
func Average(grades []float64) (avg float64, ok bool) {
	if len(grades) == 0 {
		return 0, false
	}
	var sum float64
	for _, g := range grades {
		sum += g
	}
	return sum / float64(len(grades)), true
}

// Compile-time assertion that Service implements domain.GradeService.
var _ domain.GradeService = (*Service)(nil)
