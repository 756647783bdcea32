package bookings

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var mobilePattern = regexp.MustCompile(`^[0-9]{10}$`)

// NewValidator returns a validator that knows the notblank, mobile and berth
// rules and reports fields by their JSON names
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	_ = v.RegisterValidation("mobile", func(fl validator.FieldLevel) bool {
		return mobilePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("berth", func(fl validator.FieldLevel) bool {
		return Berth(fl.Field().String()).IsValid()
	})
	return v
}

var defaultValidator = NewValidator()

// Validate rejects an empty list, then reports the first offending field of
// the first offending passenger
func Validate(list []PassengerRecord) error {
	if len(list) == 0 {
		return ErrNoPassengers
	}
	for i := range list {
		if perr := validatePassenger(defaultValidator, i, list[i]); len(perr) > 0 {
			return perr[0]
		}
	}
	return nil
}

// ValidateAll reports every offending field of every passenger
func ValidateAll(list []PassengerRecord) []*PassengerError {
	var out []*PassengerError
	for i := range list {
		out = append(out, validatePassenger(defaultValidator, i, list[i])...)
	}
	return out
}

func validatePassenger(v *validator.Validate, index int, p PassengerRecord) []*PassengerError {
	err := v.Struct(p)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []*PassengerError{{Index: index, Field: "", Rule: err.Error()}}
	}

	out := make([]*PassengerError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, &PassengerError{Index: index, Field: fe.Field(), Rule: fe.Tag()})
	}
	return out
}
