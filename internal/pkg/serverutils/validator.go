package serverutils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"docqa-be/internal/pkg/apperr"
)

var validate = validator.New()

// ValidateRequest checks a request DTO against its `validate` tags and
// returns a 422 validation error naming the offending fields.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperr.Malformed("invalid request body")
	}

	fields := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}
	return apperr.Malformed("invalid request: %s", strings.Join(fields, ", "))
}
