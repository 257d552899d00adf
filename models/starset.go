package models

// StarSet is an immutable set of star values in [1,5], stored as a bitmask.
// The zero value is the empty set.
type StarSet uint8

// NewStarSet builds a set from the given stars. Out-of-range values are rejected.
func NewStarSet(stars ...int) (StarSet, error) {
	var s StarSet
	for _, r := range stars {
		next, err := s.With(r)
		if err != nil {
			return 0, err
		}
		s = next
	}
	return s, nil
}

// Has reports whether stars is a member
func (s StarSet) Has(stars int) bool {
	if !ValidStars(stars) {
		return false
	}
	return s&(1<<uint(stars)) != 0
}

// With returns a copy of s including stars
func (s StarSet) With(stars int) (StarSet, error) {
	if !ValidStars(stars) {
		return s, ErrInvalidRating
	}
	return s | 1<<uint(stars), nil
}

// Without returns a copy of s excluding stars
func (s StarSet) Without(stars int) (StarSet, error) {
	if !ValidStars(stars) {
		return s, ErrInvalidRating
	}
	return s &^ (1 << uint(stars)), nil
}

// IsActive is true iff the set is non-empty
func (s StarSet) IsActive() bool {
	return s != 0
}

// Len returns the number of members
func (s StarSet) Len() int {
	n := 0
	for r := MinStars; r <= MaxStars; r++ {
		if s.Has(r) {
			n++
		}
	}
	return n
}

// Descending returns the members from highest to lowest
func (s StarSet) Descending() []int {
	out := make([]int, 0, MaxStars)
	for r := MaxStars; r >= MinStars; r-- {
		if s.Has(r) {
			out = append(out, r)
		}
	}
	return out
}
