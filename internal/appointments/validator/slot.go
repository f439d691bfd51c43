package validator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"clinicbook/pkg/config"
	"clinicbook/pkg/logger"
	"clinicbook/pkg/model"
)

// StartLayout is the external wire format for slot starts: a naive local
// timestamp at minute granularity.
const StartLayout = "2006-01-02 15:04"

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
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

// SlotValidator checks booking requests against the clinic's slot rules.
// NormalizeSlot is pure: no clock reads, no storage, safe from any
// goroutine.
type SlotValidator struct {
	validate     *validator.Validate
	slotDuration time.Duration
	openingHour  int
	closingHour  int
	logger       *logger.Logger
}

func NewSlotValidator(cfg *config.Config) *SlotValidator {
	return &SlotValidator{
		validate:     validator.New(),
		slotDuration: cfg.SlotDuration(),
		openingHour:  cfg.OpeningHour,
		closingHour:  cfg.ClosingHour,
		logger:       cfg.Log,
	}
}

// ValidateRequest checks the request shape: positive doctor id, patient
// name present and at most 255 characters, start present.
func (v *SlotValidator) ValidateRequest(req *model.AppointmentRequest) error {
	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

// NormalizeSlot turns a start string into a half-open [start, end) slot
// interval. Rules are checked in order; the first failure wins:
// parseable, aligned to the slot grid, inside operating hours, weekday.
func (v *SlotValidator) NormalizeSlot(start string) (time.Time, time.Time, error) {
	parsed, err := time.Parse(StartLayout, start)
	if err != nil {
		return time.Time{}, time.Time{}, ValidationErrors{
			{Field: "start", Message: "bad format"},
		}
	}

	stepMin := int(v.slotDuration.Minutes())
	if parsed.Minute()%stepMin != 0 {
		return time.Time{}, time.Time{}, ValidationErrors{
			{Field: "start", Message: "bad granularity"},
		}
	}

	if parsed.Hour() < v.openingHour || parsed.Hour() >= v.closingHour {
		return time.Time{}, time.Time{}, ValidationErrors{
			{Field: "start", Message: "outside operating hours"},
		}
	}

	if wd := parsed.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return time.Time{}, time.Time{}, ValidationErrors{
			{Field: "start", Message: "weekend"},
		}
	}

	return parsed, parsed.Add(v.slotDuration), nil
}

func (v *SlotValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
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
		case "gt":
			message = fmt.Sprintf("%s must be greater than %s", err.Field(), err.Param())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
