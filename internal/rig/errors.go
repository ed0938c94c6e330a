package rig

import "fmt"

// MalformedTransformError reports a transform with a missing, non-finite or
// degenerate component. Such transforms are rejected instead of defaulted.
type MalformedTransformError struct {
	Field  string // e.g. "boneTransforms[3].Rotation.r"
	Reason string
}

func (e *MalformedTransformError) Error() string {
	return fmt.Sprintf("rig: malformed transform %s: %s", e.Field, e.Reason)
}

func malformed(field, format string, args ...any) *MalformedTransformError {
	return &MalformedTransformError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
