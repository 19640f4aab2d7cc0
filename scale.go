package tsplot

import (
	"fmt"
	"math"
)

// Scale is the value domain of the vertical axis, trained on the data of
// one or more fields.
type Scale struct {
	Discrete bool

	DomainMin float64
	DomainMax float64

	// Missing counts the missing values seen during training.
	Missing int

	// Levels of trained String fields.
	Levels []string
}

// NewScale sets up an untrained scale suitable for the data in field.
func NewScale(field Field) *Scale {
	return &Scale{
		Discrete:  field.Discrete(),
		DomainMin: math.Inf(+1),
		DomainMax: math.Inf(-1),
	}
}

// Train updates the domain of s according to the data found in f.
func (s *Scale) Train(f Field) {
	for _, x := range f.Data {
		if math.IsNaN(x) {
			s.Missing++
			continue
		}
		if x < s.DomainMin {
			s.DomainMin = x
		}
		if x > s.DomainMax {
			s.DomainMax = x
		}
	}
	if f.Type == String {
		s.Levels = f.Levels()
	}
}

// Empty reports whether s has seen no value at all.
func (s *Scale) Empty() bool {
	return s.DomainMin > s.DomainMax
}

// Range formats the domain of s with the value format of f,
// e.g. "1.5 .. 7".
func (s *Scale) Range(f Field) string {
	if s.Empty() {
		return ""
	}
	if f.Type == String {
		return fmt.Sprintf("%d levels", len(s.Levels))
	}
	return fmt.Sprintf("%s .. %s", f.String(s.DomainMin), f.String(s.DomainMax))
}
