package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "svcpulse/internal/errors"
)

// ArtifactValidator checks output documents against their struct tags
// before they are written.
type ArtifactValidator struct {
	validate *validator.Validate
}

// NewArtifactValidator creates a validator for the domain contracts.
func NewArtifactValidator() *ArtifactValidator {
	return &ArtifactValidator{validate: validator.New()}
}

// Validate returns a VALIDATION error listing every failing field.
func (a *ArtifactValidator) Validate(artifact any) error {
	err := a.validate.Struct(artifact)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.NewAppError(apperrors.ErrTypeValidation, "artifact validation failed", err)
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s(%s)", fe.Namespace(), fe.Tag()))
	}
	return apperrors.NewAppValidationError("invalid artifact fields: "+strings.Join(fields, ", ")).
		WithContext("fields", fields)
}
