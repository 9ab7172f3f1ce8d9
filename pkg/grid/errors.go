package grid

import "errors"

// Input errors. The engine itself cannot fail; these report rejected user
// input so the host can surface them.
var (
	ErrInvalidNumber      = errors.New("value is not a number")
	ErrOperatorNotAllowed = errors.New("operator not allowed for column type")
	ErrUnknownColumn      = errors.New("unknown column")
	ErrInvalidFilterSpec  = errors.New("invalid filter spec (expected field:operator:value)")
	ErrInvalidSortSpec    = errors.New("invalid sort spec (expected field:asc or field:desc)")
)
