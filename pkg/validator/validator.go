package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var permissionSegment = regexp.MustCompile(`^[a-z0-9][a-z0-9_\-]*$`)

// isPermissionPrefix checks that a string can lead a dotted permission name.
func isPermissionPrefix(fl validator.FieldLevel) bool {
	return permissionSegment.MatchString(fl.Field().String())
}

// RegisterCustomValidators registers custom validation functions with the validator.
func RegisterCustomValidators(validate *validator.Validate) error {
	return validate.RegisterValidation("permprefix", isPermissionPrefix)
}
