package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"gamehub/internal/apperr"

	"github.com/go-playground/validator/v10"
)

// Rating bounds for reviews, inclusive on both ends.
const (
	MinRating = 0
	MaxRating = 10
)

// LibraryStatuses are the accepted library record states.
var LibraryStatuses = []string{"Owned", "Wishlisted", "Not Owned"}

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	validate.RegisterValidation("library_status", validateLibraryStatus)
	validate.RegisterValidation("rating", validateRating)
}

func indirect(v reflect.Value) (reflect.Value, bool) {
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return v, false
		}
		v = v.Elem()
	}
	return v, true
}

func validateLibraryStatus(fl validator.FieldLevel) bool {
	v, ok := indirect(fl.Field())
	if !ok {
		return true
	}
	if v.Kind() != reflect.String {
		return false
	}
	return IsLibraryStatus(v.String())
}

func validateRating(fl validator.FieldLevel) bool {
	v, ok := indirect(fl.Field())
	if !ok {
		return true
	}
	var f float64
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		f = v.Float()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		f = float64(v.Int())
	default:
		return false
	}
	return f >= MinRating && f <= MaxRating
}

// IsLibraryStatus reports whether s is one of LibraryStatuses.
func IsLibraryStatus(s string) bool {
	for _, status := range LibraryStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Struct validates s and converts failures into an InvalidArgument error whose
// message is the first field message.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperr.InvalidArgument(err.Error())
	}

	details := make([]apperr.FieldError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		details = append(details, apperr.FieldError{
			Field:   fe.Field(),
			Message: message(fe),
		})
	}
	return apperr.InvalidArgument(details[0].Message, details...)
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is missing", field)
	case "max":
		return fmt.Sprintf("%s must be %s characters or less", field, fe.Param())
	case "min":
		if fe.Param() == "1" {
			return fmt.Sprintf("%s must not be empty", field)
		}
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "uuid", "uuid4":
		return fmt.Sprintf("%s must be a valid id", field)
	case "library_status":
		return "Invalid status"
	case "rating":
		return fmt.Sprintf("%s must be between %d and %d", field, MinRating, MaxRating)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
