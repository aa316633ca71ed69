package nodeid

import (
	"slices"
	"strconv"
	"strings"
)

// String serializes the Address into its canonical path string representation.
func (a *Address) String() string {
	if a == nil {
		return ""
	}

	var sb strings.Builder
	for i, segment := range a.Path {
		if i > 0 {
			sb.WriteRune('.')
		}
		sb.WriteString(segment.Name)
		if segment.HasIndex() {
			sb.WriteRune('[')
			sb.WriteString(strconv.Itoa(segment.Index))
			sb.WriteRune(']')
		}
	}

	return sb.String()
}

// Equal checks for deep equality between two Address pointers.
func (a *Address) Equal(other *Address) bool {
	if a == nil || other == nil {
		return a == other
	}
	return slices.Equal(a.Path, other.Path)
}

// Child returns a new address one segment below a. The receiver is not modified.
func (a *Address) Child(name string) *Address {
	n := 0
	if a != nil {
		n = len(a.Path)
	}
	child := &Address{Path: make([]PathSegment, 0, n+1)}
	if a != nil {
		child.Path = append(child.Path, a.Path...)
	}
	child.Path = append(child.Path, NewPathSegment(name))
	return child
}

// Parent returns the address without its last segment, or nil for a
// single-segment address.
func (a *Address) Parent() *Address {
	if a == nil || len(a.Path) < 2 {
		return nil
	}
	return &Address{Path: slices.Clone(a.Path[:len(a.Path)-1])}
}

// Base returns the name of the last segment.
func (a *Address) Base() string {
	if a == nil || len(a.Path) == 0 {
		return ""
	}
	return a.Path[len(a.Path)-1].Name
}
