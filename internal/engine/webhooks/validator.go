package webhooks

import (
	"strings"

	apperrors "hooklog/internal/pkg/errors"
)

const maxNameLength = 255

func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return apperrors.Validation("Webhook name is required")
	}
	if len(name) > maxNameLength {
		return apperrors.Validation("Webhook name must be at most 255 characters")
	}
	return nil
}
