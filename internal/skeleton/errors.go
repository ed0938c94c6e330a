package skeleton

import (
	"fmt"
	"strings"
)

// CyclicHierarchyError reports a parent chain that loops back on itself.
// Cycle lists the bone indexes on the loop, starting from the first bone
// seen twice.
type CyclicHierarchyError struct {
	Cycle []int
}

func (e *CyclicHierarchyError) Error() string {
	parts := make([]string, 0, len(e.Cycle)+1)
	for _, i := range e.Cycle {
		parts = append(parts, fmt.Sprint(i))
	}
	if len(e.Cycle) > 0 {
		parts = append(parts, fmt.Sprint(e.Cycle[0]))
	}
	return "cyclic bone hierarchy: " + strings.Join(parts, " -> ")
}

// IndexOutOfRangeError reports a bone or parent index outside [0, Count).
// Bone is the bone whose parent reference is bad, or -1 when the queried
// index itself was out of range.
type IndexOutOfRangeError struct {
	Bone  int
	Index int
	Count int
}

func (e *IndexOutOfRangeError) Error() string {
	if e.Bone < 0 {
		return fmt.Sprintf("bone index %d out of range [0, %d)", e.Index, e.Count)
	}
	return fmt.Sprintf("bone %d: parent index %d out of range [0, %d)", e.Bone, e.Index, e.Count)
}
