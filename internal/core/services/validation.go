package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/SscSPs/utang_ledger/internal/apperrors"
	"github.com/SscSPs/utang_ledger/internal/core/domain"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateStruct runs the validate tags of v and folds any failure into ErrValidation.
func validateStruct(v any) error {
	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", apperrors.ErrValidation, strings.Join(fields, "; "))
		}
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	return nil
}

// validateItems applies the struct tags and the domain rules to every item.
func validateItems(items []domain.NewItem) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: at least one item is required", apperrors.ErrValidation)
	}
	for i, item := range items {
		if err := validateStruct(item); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
		if err := item.Validate(); err != nil {
			return fmt.Errorf("%w: item %d: %v", apperrors.ErrValidation, i, err)
		}
	}
	return nil
}

// validateEmail checks a single address with the same validator instance.
func validateEmail(email string) error {
	if err := validate.Var(email, "required,email,max=254"); err != nil {
		return fmt.Errorf("%w: invalid email", apperrors.ErrValidation)
	}
	return nil
}
