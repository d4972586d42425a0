package domain

import (
	"fmt"
	"strings"

	apperrors "github.com/spec-kit/hr-service/pkg/util"
)

// MinReviewYear is the earliest year a review may cover.
const MinReviewYear = 2000

func requireText(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return apperrors.NewFieldError(field, fmt.Sprintf("%s must be a non-empty string", field))
	}
	return nil
}

func requireReference(field string, id int64) error {
	if id <= 0 {
		return apperrors.NewFieldError(field, fmt.Sprintf("%s must be a positive integer", field))
	}
	return nil
}
