package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/maxviazov/stock-adjustment-service/internal/pagination"
)

var validate = newValidator()

// newValidator reports fields under their JSON names so clients see what they sent.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// validateStruct runs the struct tags of in and folds failures into ErrInvalidInput.
func validateStruct(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fe := make([]FieldError, 0, len(verrs))
	for _, ve := range verrs {
		fe = append(fe, FieldError{Field: ve.Field(), Message: describe(ve)})
	}
	return newInvalidInput(fe)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return "must be > " + fe.Param()
	case "gte":
		return "must be >= " + fe.Param()
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", "|")
	default:
		return "failed " + fe.Tag() + " check"
	}
}

// listError turns a lister ArgumentError into the aggregated input error.
// Anything else passes through untouched.
func listError(err error) error {
	var ae *pagination.ArgumentError
	if errors.As(err, &ae) {
		return newInvalidInput([]FieldError{{Field: ae.Field, Message: ae.Message}})
	}
	return err
}

func invalidID(id int64) error {
	if id <= 0 {
		return newInvalidInput([]FieldError{{Field: "id", Message: "must be > 0"}})
	}
	return nil
}
