package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrInvalidYear       = fmt.Errorf("%w: invalid election year", ErrValidation)
	ErrInvalidState      = fmt.Errorf("%w: invalid state code", ErrValidation)
	ErrInvalidMessage    = fmt.Errorf("%w: invalid message", ErrValidation)
	ErrInvalidMessageID  = fmt.Errorf("%w: invalid message id", ErrValidation)
	ErrMessageNotFound   = errors.New("message not found")
	ErrInvalidTransition = errors.New("invalid message status transition")
	ErrCacheMiss         = errors.New("cache miss")
	ErrInternal          = errors.New("internal server error")
)
