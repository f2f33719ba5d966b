package utils

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	apperrors "github.com/aditya/worknearby/internal/errors"
	"github.com/aditya/worknearby/internal/models"
	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

var weekdays = map[string]bool{
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
	"friday": true, "saturday": true, "sunday": true,
	"mon": true, "tue": true, "wed": true, "thu": true, "fri": true, "sat": true, "sun": true,
}

// Validator returns the process-wide validator with the domain rules registered.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()

		// Report JSON field names so callers can point at the offending input.
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})

		v.RegisterValidation("worker_category", func(fl validator.FieldLevel) bool {
			return models.IsValidWorkerCategory(models.WorkerCategory(fl.Field().String()))
		})
		v.RegisterValidation("booking_status", func(fl validator.FieldLevel) bool {
			return models.IsValidBookingStatus(models.BookingStatus(fl.Field().String()))
		})
		v.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
			return weekdays[strings.ToLower(fl.Field().String())]
		})

		validate = v
	})
	return validate
}

// ValidateStruct runs struct-tag validation and reports the first failure as
// a validation error naming the field.
func ValidateStruct(s interface{}) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperrors.BadRequest(err.Error())
	}

	fe := verrs[0]
	field := fieldPath(fe.Namespace())
	return apperrors.Validation(field, describe(field, fe))
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describe(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "worker_category":
		return fmt.Sprintf("%s must be one of %v", field, models.GetWorkerCategories())
	case "booking_status":
		return fmt.Sprintf("%s is not a recognized booking status", field)
	case "weekday":
		return fmt.Sprintf("%s must be a weekday name", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
