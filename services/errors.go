package services

import (
	"errors"
	"fmt"
)

// Категории ошибок. Конкретные ошибки оборачивают свою категорию через %w,
// поэтому errors.Is работает и с категорией, и с конкретной ошибкой.
var (
	ErrValidation    = errors.New("validation failed")
	ErrConflict      = errors.New("concurrent update conflict, retry the request")
	ErrNotFound      = errors.New("requested resource not found")
	ErrForbidden     = errors.New("operation not allowed for the current caller")
	ErrStateConflict = errors.New("operation not allowed in the current state")
)

// Ошибки валидации
var (
	ErrInvalidSlot     = fmt.Errorf("%w: slot is empty or not part of the match", ErrValidation)
	ErrInvalidOutcome  = fmt.Errorf("%w: at most one of win, loss, draw may be set and points must not be negative", ErrValidation)
	ErrDuplicateEntry  = fmt.Errorf("%w: player listed more than once", ErrValidation)
	ErrCrossRoundSwap  = fmt.Errorf("%w: both matches must belong to the same round", ErrValidation)
	ErrNameRequired    = fmt.Errorf("%w: name is required", ErrValidation)
	ErrPasswordTooLong = fmt.Errorf("%w: password must be at most 72 bytes", ErrValidation)
)

// Ошибки состояния
var (
	ErrResultsExist     = fmt.Errorf("%w: results already recorded", ErrStateConflict)
	ErrNoParticipants   = fmt.Errorf("%w: no active participants", ErrStateConflict)
	ErrNoResultSelected = fmt.Errorf("%w: no result selected", ErrStateConflict)
	ErrDuplicatePlayer  = fmt.Errorf("%w: player already seated in the destination match", ErrStateConflict)
	ErrNameTaken        = fmt.Errorf("%w: participant name is already registered", ErrStateConflict)
)

// Ненайденные сущности
var (
	ErrRoundNotFound       = fmt.Errorf("%w: round not found", ErrNotFound)
	ErrMatchNotFound       = fmt.Errorf("%w: match not found", ErrNotFound)
	ErrParticipantNotFound = fmt.Errorf("%w: participant not found", ErrNotFound)
	ErrResultNotFound      = fmt.Errorf("%w: result not found", ErrNotFound)
)

// Аутентификация и прочее
var (
	ErrAuthInvalidCredentials = errors.New("invalid name or password")
	ErrAuthenticationFailed   = errors.New("authentication failed")
	ErrExportDisabled         = errors.New("standings export is not configured")
)
