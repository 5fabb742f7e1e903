package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"parkslot/pkg/logger"
	"parkslot/pkg/model"

	"github.com/go-playground/validator/v10"
)

const dateLayout = "2006-01-02"

var (
	dateShapeRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

	// Intentionally permissive: non-whitespace local part, @, non-whitespace
	// domain containing a dot. Not RFC 5322-complete.
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	messages := make([]string, 0, len(v))
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return strings.Join(messages, "; ")
}

// ValidDate reports whether s is shaped like YYYY-MM-DD and denotes a real
// calendar date. The parse round-trip rejects impossible day/month
// combinations (2025-02-30, 2025-13-15) that a shape check alone would pass,
// while leap days parse cleanly.
func ValidDate(s string) bool {
	if !dateShapeRegex.MatchString(s) {
		return false
	}
	parsed, err := time.Parse(dateLayout, s)
	if err != nil {
		return false
	}
	return parsed.Format(dateLayout) == s
}

func ValidEmail(s string) bool {
	return emailRegex.MatchString(s)
}

// NotPast reports whether the booking date, at local midnight, is today or
// later. Today itself is bookable.
func NotPast(dateStr string, today time.Time) bool {
	bookingDate, err := time.ParseInLocation(dateLayout, dateStr, today.Location())
	if err != nil {
		return false
	}
	todayMidnight := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	return !bookingDate.Before(todayMidnight)
}

type BookingValidator struct {
	validate *validator.Validate
	log      *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	v := validator.New()

	if err := v.RegisterValidation("booking_date", func(fl validator.FieldLevel) bool {
		return ValidDate(fl.Field().String())
	}); err != nil {
		log.Fatal("Failed to register 'booking_date' validator", "error", err)
	}

	if err := v.RegisterValidation("booking_email", func(fl validator.FieldLevel) bool {
		return ValidEmail(fl.Field().String())
	}); err != nil {
		log.Fatal("Failed to register 'booking_email' validator", "error", err)
	}

	return &BookingValidator{
		validate: v,
		log:      log,
	}
}

// Validate checks a create request: required fields, date shape and calendar
// validity, email shape, then the past-date rule against the current local day.
func (v *BookingValidator) Validate(req *model.CreateBookingRequest) error {
	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if !NotPast(req.Date, time.Now()) {
		return ValidationErrors{
			ValidationError{
				Field:   "date",
				Message: "Cannot book dates in the past",
			},
		}
	}

	return nil
}

func (v *BookingValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s characters", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s characters", err.Field(), err.Param())
		case "booking_date":
			message = "Invalid date format. Use YYYY-MM-DD"
		case "booking_email":
			message = "Invalid email format"
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
