package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Struct runs the validate tags on an input struct and returns a single
// client-safe message for the first failing field.
func Struct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			return fmt.Errorf("%s is required", field)
		case "gt", "gte", "min":
			return fmt.Errorf("%s is out of range", field)
		case "oneof":
			return fmt.Errorf("%s must be one of: %s", field, fe.Param())
		case "email":
			return fmt.Errorf("%s must be a valid email", field)
		default:
			return fmt.Errorf("%s is invalid", field)
		}
	}
	return err
}
