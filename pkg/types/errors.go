package types

import "errors"

// Access errors returned by every ProcessSource and BatchSource.
var (
	ErrNotFound     = errors.New("entity not found")
	ErrUnauthorized = errors.New("not authenticated")
	ErrForbidden    = errors.New("admin role required")
	ErrInvalidID    = errors.New("invalid entity ID")
)

// Entity method errors.
var (
	ErrFieldNotEditable = errors.New("field is not editable")
	ErrTypeMismatch     = errors.New("type mismatch")
	ErrInvalidSystem    = errors.New("unknown court system")
	ErrInvalidRole      = errors.New("unknown user role")
	ErrInvalidEmail     = errors.New("invalid email")
	ErrWeakPassword     = errors.New("password must have at least 6 characters")
)

// Input errors for imports and lookups.
var (
	ErrNotPDF             = errors.New("file is not a PDF")
	ErrStateUnsupported   = errors.New("unsupported state")
	ErrEmptyProcessNumber = errors.New("process number must not be empty")
	ErrEmptySessionID     = errors.New("session id must not be empty")
	ErrInvalidPaging      = errors.New("invalid paging")
)
