package schedule

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError describes one invalid field of a schedule update.
type ValidationError struct {
	Field   string
	Message string
}

// ValidationErrors is returned by Apply when one or more fields are invalid.
// Each field appears at most once.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return ErrInvalidConfig.Error()
	}

	parts := make([]string, 0, len(ve))
	for _, err := range ve {
		parts = append(parts, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return ErrInvalidConfig.Error() + ": " + strings.Join(parts, "; ")
}

// Is makes errors.Is(err, ErrInvalidConfig) work for ValidationErrors.
func (ve ValidationErrors) Is(target error) bool {
	return target == ErrInvalidConfig
}

func (ve ValidationErrors) Has(field string) bool {
	for _, err := range ve {
		if err.Field == field {
			return true
		}
	}
	return false
}

// Get returns the message for field, or "" when the field is valid.
func (ve ValidationErrors) Get(field string) string {
	for _, err := range ve {
		if err.Field == field {
			return err.Message
		}
	}
	return ""
}

func (ve ValidationErrors) Fields() []string {
	fields := make([]string, 0, len(ve))
	for _, err := range ve {
		fields = append(fields, err.Field)
	}
	return fields
}

// ExtractValidationErrors returns the ValidationErrors wrapped in err, if any.
func ExtractValidationErrors(err error) ValidationErrors {
	if err == nil {
		return nil
	}
	var verrs ValidationErrors
	if errors.As(err, &verrs) {
		return verrs
	}
	return nil
}

// Field names used in ValidationErrors.
const (
	FieldEnabled    = "enabled"
	FieldFrequency  = "frequency"
	FieldDayOfWeek  = "day_of_week"
	FieldDayOfMonth = "day_of_month"
	FieldTimeOfDay  = "time_of_day"
	FieldRecipient  = "recipient"
	FieldRangeDays  = "range_days"
)

// rule is a single field check. Rules for the same field are ordered so that
// at most one of them can fail.
type rule struct {
	field   string
	check   func() bool
	message string
}

func applyRules(rules ...rule) error {
	var errs ValidationErrors
	for _, r := range rules {
		if errs.Has(r.field) {
			continue
		}
		if !r.check() {
			errs = append(errs, ValidationError{Field: r.field, Message: r.message})
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}
