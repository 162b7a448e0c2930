package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("username and password required")
	ErrConflict           = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("bad username or password")
	ErrNotFound           = errors.New("user not found")
	ErrForbidden          = errors.New("admin only")

	ErrPasswordTooLong = fmt.Errorf("%w: password longer than 72 bytes", ErrValidation)
)
