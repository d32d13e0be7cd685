// Package services holds the business rules. Controllers translate the
// sentinel errors declared here into HTTP statuses.
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/SuperDex7/FeatureMe-sub000/repositories"
)

var (
	ErrNotFound         = repositories.ErrNotFound
	ErrInvalidInput     = errors.New("invalid input")
	ErrForbidden        = errors.New("not allowed")
	ErrSelfFollow       = errors.New("cannot follow yourself")
	ErrBlocked          = errors.New("relation is blocked")
	ErrAlreadyFollowing = errors.New("already following")
	ErrEmailTaken       = errors.New("email already in use")
	ErrUsernameTaken    = errors.New("username already taken")
	ErrInvalidLogin     = errors.New("invalid login or password")
	ErrInvalidCode      = errors.New("invalid or expired code")
)

var validate = validator.New()

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// validateStruct runs the validator and folds its field errors into one
// ErrInvalidInput.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msg := strings.ToLower(fe.Field()) + " failed " + fe.Tag()
		if fe.Param() != "" {
			msg += "=" + fe.Param()
		}
		msgs = append(msgs, msg)
	}
	return invalid("%s", strings.Join(msgs, ", "))
}
