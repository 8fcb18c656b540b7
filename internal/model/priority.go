package model

import (
	"fmt"
	"strings"
)

// Priority is an urgency bucket. Priority1 is the most urgent.
type Priority string

const (
	Priority1 Priority = "priority1"
	Priority2 Priority = "priority2"
	Priority3 Priority = "priority3"
	Priority4 Priority = "priority4"
)

// DefaultPriority is the lowest urgency bucket.
const DefaultPriority = Priority4

// Priorities lists every bucket, most urgent first.
func Priorities() []Priority {
	return []Priority{Priority1, Priority2, Priority3, Priority4}
}

func (p Priority) Valid() bool {
	switch p {
	case Priority1, Priority2, Priority3, Priority4:
		return true
	}
	return false
}

// Level returns 1..4, or 0 for an unknown value.
func (p Priority) Level() int {
	for i, q := range Priorities() {
		if p == q {
			return i + 1
		}
	}
	return 0
}

// ParsePriority accepts "priority2", "p2" or "2".
func ParsePriority(s string) (Priority, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == "":
		return DefaultPriority, nil
	case strings.HasPrefix(s, "priority"):
		s = strings.TrimPrefix(s, "priority")
	case strings.HasPrefix(s, "p"):
		s = strings.TrimPrefix(s, "p")
	}
	p := Priority("priority" + s)
	if !p.Valid() {
		return "", fmt.Errorf("%w: unknown priority %q", ErrValidation, s)
	}
	return p, nil
}
