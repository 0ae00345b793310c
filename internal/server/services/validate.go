package services

import (
	"errors"
	"reflect"
	"strings"

	"github.com/dmitrijs2005/bookkeeper/internal/common"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report fields under their json names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

// validateStruct runs the struct tags of s and converts failures into a
// *common.ValidationError listing every offending field.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make([]common.FieldError, 0, len(verrs))
	for _, e := range verrs {
		fields = append(fields, common.FieldError{Field: e.Field(), Message: fieldMessage(e)})
	}
	return common.NewValidationError(fields...)
}

func fieldMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "notblank":
		return "must not be blank"
	case "gt":
		return "must be greater than " + e.Param()
	case "lte":
		return "must be at most " + e.Param()
	case "min":
		return "must be at least " + e.Param() + " characters"
	case "max":
		return "must be at most " + e.Param() + " characters"
	case "printascii":
		return "must contain printable ASCII characters only"
	default:
		return "is invalid"
	}
}
