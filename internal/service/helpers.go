package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/wbsline/internal/domain"
	"github.com/google/uuid"
)

// ValidationError reports caller input that was rejected before any storage
// access. It is never retryable.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsValidation reports whether err is or wraps a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func formatValidationErrors(errs []error) error {
	var b strings.Builder
	fmt.Fprintf(&b, "import validation failed (%d errors):", len(errs))
	for _, e := range errs {
		b.WriteString("\n  - ")
		b.WriteString(e.Error())
	}
	return &ValidationError{Message: b.String()}
}

func requireName(field, name string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: field, Message: "name is required"}
	}
	return nil
}

func validateDates(d domain.Dates) error {
	for field, v := range map[string]string{
		"startDate":       d.StartDate,
		"endDate":         d.EndDate,
		"actualStartDate": d.ActualStartDate,
		"actualEndDate":   d.ActualEndDate,
	} {
		if v == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", v); err != nil {
			return &ValidationError{Field: field, Message: fmt.Sprintf("invalid date %q (expected YYYY-MM-DD)", v)}
		}
	}
	return nil
}

// stamp sets the id when missing and both timestamps.
func stamp(id *string, createdAt, updatedAt *time.Time, now time.Time) {
	if *id == "" {
		*id = uuid.New().String()
	}
	*createdAt = now
	*updatedAt = now
}
