package translator

import "errors"

var (
	ErrMissingType     = errors.New("entity has no type")
	ErrInvalidDateTime = errors.New("invalid date time")
)
