package models

import (
	"fmt"
	"strings"
)

// FieldError describes one field that failed validation
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every field of a position input that failed validation
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, format string, args ...interface{}) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (e *ValidationError) between(field string, v, min, max float64) {
	if v < min || v > max {
		e.add(field, "must be between %s and %s", formatNumber(min), formatNumber(max))
	}
}

// ValidatePositionInput applies the position editor rules to a record.
// It returns nil or a *ValidationError.
func ValidatePositionInput(r PositionInputRecord) error {
	verr := &ValidationError{}

	switch {
	case r.Name == "":
		verr.add("name", "is required")
	case len([]rune(r.Name)) < 3 || len([]rune(r.Name)) > 50:
		verr.add("name", "must be between 3 and 50 characters")
	}
	if strings.HasPrefix(r.Name, " ") {
		verr.add("name", "has leading whitespace")
	}
	if strings.HasSuffix(r.Name, " ") {
		verr.add("name", "has trailing whitespace")
	}

	verr.between("initialValue", r.InitialValue, 0.01, 10000000)
	if r.PricePerShare <= 0 || r.PricePerShare > 1000000 {
		verr.add("pricePerShare", "must be greater than 0 and at most 1000000")
	}
	verr.between("averageNumberOfPositionsPerDay", r.AverageNumberOfPositionsPerDay, 1, 24)
	verr.between("averageNumberOfLotsPerPosition", r.AverageNumberOfLotsPerPosition, 1, 100)
	verr.between("averageNumberOfTradingDaysPerWeek", r.AverageNumberOfTradingDaysPerWeek, 1, 7)
	verr.between("estimatedSuccessRate", r.EstimatedSuccessRate, 0, 1)
	verr.between("targetGain", r.TargetGain, 0, 1)
	verr.between("estimatedFeePerTransaction", r.EstimatedFeePerTransaction, 0, 100000)
	verr.between("expenses", r.Expenses, 0, 100000)

	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

// ValidatePatch runs the editor rules on a patched record and reports only the
// fields the patch document wrote, so reordering a legacy row still succeeds.
// It returns nil or a *ValidationError.
func ValidatePatch(r PositionInputRecord, patches []Patch) error {
	all, ok := ValidatePositionInput(r).(*ValidationError)
	if !ok {
		return nil
	}
	written := make(map[string]bool, len(patches))
	for _, patch := range patches {
		if patch.Op == PatchOpAdd || patch.Op == PatchOpReplace {
			written[strings.TrimPrefix(patch.Path, "/")] = true
		}
	}

	verr := &ValidationError{}
	for _, f := range all.Fields {
		if written[f.Field] {
			verr.Fields = append(verr.Fields, f)
		}
	}
	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}
