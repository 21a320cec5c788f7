package domain

import (
	"fmt"
	"strings"
)

// ViolationCode identifies one class of validation defect
type ViolationCode string

const (
	ViolationCyclicDependency     ViolationCode = "CyclicDependency"
	ViolationUnresolvedDependency ViolationCode = "UnresolvedDependency"
	ViolationDuplicateLocalID     ViolationCode = "DuplicateLocalID"
	ViolationUnknownTemplate      ViolationCode = "UnknownTemplate"
	ViolationParameterConstraint  ViolationCode = "ParameterConstraintViolation"
	ViolationUnknownMitreTechnique ViolationCode = "UnknownMitreTechnique"
)

// Violation is one validation defect, tied to the offending event
// and, for parameter defects, the offending field.
type Violation struct {
	Code    ViolationCode `json:"code"`
	LocalID string        `json:"local_id,omitempty"`
	Field   string        `json:"field,omitempty"`
	Message string        `json:"message"`
}

func (v Violation) String() string {
	parts := []string{string(v.Code)}
	if v.LocalID != "" {
		parts = append(parts, "event="+v.LocalID)
	}
	if v.Field != "" {
		parts = append(parts, "field="+v.Field)
	}
	return fmt.Sprintf("%s: %s", strings.Join(parts, " "), v.Message)
}

// ValidationResult aggregates every defect found in one pass.
// Violations reject the scenario; warnings do not.
type ValidationResult struct {
	Violations []Violation `json:"violations,omitempty"`
	Warnings   []Violation `json:"warnings,omitempty"`
}

// Valid reports whether the scenario passed validation
func (r *ValidationResult) Valid() bool {
	return len(r.Violations) == 0
}

// AddViolation appends a violation
func (r *ValidationResult) AddViolation(code ViolationCode, localID, field, format string, args ...interface{}) {
	r.Violations = append(r.Violations, Violation{
		Code:    code,
		LocalID: localID,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	})
}

// AddWarning appends a non-fatal warning
func (r *ValidationResult) AddWarning(code ViolationCode, localID, field, format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, Violation{
		Code:    code,
		LocalID: localID,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	})
}

// Merge folds another result into this one
func (r *ValidationResult) Merge(other *ValidationResult) {
	if other == nil {
		return
	}
	r.Violations = append(r.Violations, other.Violations...)
	r.Warnings = append(r.Warnings, other.Warnings...)
}

// Has reports whether any violation carries the given code
func (r *ValidationResult) Has(code ViolationCode) bool {
	for _, v := range r.Violations {
		if v.Code == code {
			return true
		}
	}
	return false
}
