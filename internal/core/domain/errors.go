package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation     = errors.New("validation failure")
	ErrTooLarge       = errors.New("payload exceeds size ceiling")
	ErrConfiguration  = errors.New("configuration incomplete")
	ErrRemoteUpload   = errors.New("analysis upload failure")
	ErrRemoteWorkflow = errors.New("analysis workflow failure")
	ErrTimeout        = errors.New("processing deadline exceeded")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
