package serverutils

import (
	"errors"
	"fmt"
	"strings"

	"document-search-be/internal/pkg/apperrors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRequest runs struct-tag validation and maps failures to a 400.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.NewInvalidQuery(err.Error())
	}

	fields := make([]string, len(verrs))
	for i, fe := range verrs {
		fields[i] = fmt.Sprintf("%s is %s", strings.ToLower(fe.Field()), fe.Tag())
	}
	return apperrors.NewInvalidQuery(strings.Join(fields, ", "))
}
