package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	airlineCode  = regexp.MustCompile(`^[A-Z0-9]{2}$`)
	airportCode  = regexp.MustCompile(`^[A-Z]{3}$`)
	flightNumber = regexp.MustCompile(`^[A-Z0-9]{2}[0-9]{1,4}$`)
	phoneNumber  = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
)

// Validator runs struct-tag validation and reports failures as *FieldErrors.
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	mustRegister(v, "iata_airline", matches(airlineCode))
	mustRegister(v, "iata_airport", matches(airportCode))
	mustRegister(v, "flight_number", matches(flightNumber))
	mustRegister(v, "phone", matches(phoneNumber))

	return &Validator{v: v}
}

func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %s: %v", tag, err))
	}
}

// Struct validates s. It returns nil, a *FieldErrors, or an error for unusable input.
func (v *Validator) Struct(s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fe := &FieldErrors{}
	for _, e := range verrs {
		fe.Add(fieldPath(e), message(e))
	}
	return fe
}

// fieldPath drops the root struct name: "AirlineInput.code" -> "code".
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return e.Field()
}

func message(e validator.FieldError) string {
	isText := e.Kind() == reflect.String
	switch e.Tag() {
	case "required", "required_if", "required_with":
		return "is required"
	case "len":
		if isText {
			return fmt.Sprintf("must be exactly %s characters", e.Param())
		}
		return fmt.Sprintf("must contain exactly %s items", e.Param())
	case "min", "gte":
		if isText {
			return fmt.Sprintf("must be at least %s characters", e.Param())
		}
		return fmt.Sprintf("must be at least %s", e.Param())
	case "max", "lte":
		if isText {
			return fmt.Sprintf("must be at most %s characters", e.Param())
		}
		return fmt.Sprintf("must be at most %s", e.Param())
	case "email":
		return "must be a valid email"
	case "url":
		return "must be a valid URL"
	case "oneof":
		return "must be one of: " + e.Param()
	case "nefield":
		return "must differ from " + e.Param()
	case "iata_airline":
		return "must be a 2-character IATA code"
	case "iata_airport":
		return "must be a 3-letter IATA code"
	case "flight_number":
		return "must be a valid flight number"
	case "phone":
		return "must be a valid phone number"
	default:
		return "is invalid"
	}
}
