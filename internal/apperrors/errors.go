// Package apperrors provides the structured error type shared by the engine,
// the services and the transport layer.
package apperrors

import (
	"errors"

	"connectrpc.com/connect"
)

// Code is a machine-readable error code.
type Code string

const (
	CodeUnknown Code = "UNKNOWN"

	// Not-found class
	CodeGameNotFound   Code = "GAME_NOT_FOUND"
	CodeNotParticipant Code = "NOT_PARTICIPANT"
	CodePlayerNotFound Code = "PLAYER_NOT_FOUND"

	// Validation class
	CodeInvalidTarget      Code = "INVALID_TARGET"
	CodeTargetOutOfBounds  Code = "TARGET_OUT_OF_BOUNDS"
	CodeInvalidOpponents   Code = "INVALID_OPPONENTS"
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS_FORM"

	// Business-rule class
	CodeNotYourTurn     Code = "NOT_YOUR_TURN"
	CodeDuplicateShot   Code = "DUPLICATE_SHOT"
	CodeInvalidDefender Code = "INVALID_DEFENDER"
	CodeGameOver        Code = "GAME_OVER"

	// Auth
	CodeUnauthenticated Code = "UNAUTHENTICATED"
	CodeBadCredentials  Code = "BAD_CREDENTIALS"
	CodeUsernameTaken   Code = "USERNAME_TAKEN"

	// Infrastructure
	CodeConcurrentMove     Code = "CONCURRENT_MOVE"
	CodePlacementExhausted Code = "PLACEMENT_EXHAUSTED"
)

// ConnectCode maps domain codes to transport codes. Participation failures
// share CodeNotFound with missing games so outsiders cannot tell which game ids exist.
func (c Code) ConnectCode() connect.Code {
	switch c {
	case CodeGameNotFound, CodeNotParticipant, CodePlayerNotFound:
		return connect.CodeNotFound
	case CodeInvalidTarget, CodeTargetOutOfBounds, CodeInvalidOpponents, CodeInvalidCredentials:
		return connect.CodeInvalidArgument
	case CodeNotYourTurn, CodeDuplicateShot, CodeInvalidDefender, CodeGameOver:
		return connect.CodeFailedPrecondition
	case CodeUnauthenticated, CodeBadCredentials:
		return connect.CodeUnauthenticated
	case CodeUsernameTaken:
		return connect.CodeAlreadyExists
	case CodeConcurrentMove:
		return connect.CodeAborted
	case CodePlacementExhausted:
		return connect.CodeUnavailable
	default:
		return connect.CodeInternal
	}
}

// Error is the domain error type.
type Error struct {
	Code     Code
	Message  string
	Metadata map[string]string
	Cause    error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func WithMetadata(code Code, message string, metadata map[string]string) *Error {
	return &Error{Code: code, Message: message, Metadata: metadata}
}

func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// CodeOf returns the code of the first *Error in err's chain, or CodeUnknown.
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code Code) bool {
	return CodeOf(err) == code
}

// ToConnect converts err to a connect error. Participation failures are
// reported with the same message as a missing game.
func ToConnect(err error) *connect.Error {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return connect.NewError(connect.CodeInternal, errors.New("internal error"))
	}
	msg := appErr.Message
	if appErr.Code == CodeNotParticipant {
		msg = "game not found"
	}
	cerr := connect.NewError(appErr.Code.ConnectCode(), errors.New(msg))
	cerr.Meta().Set("X-Error-Code", string(publicCode(appErr.Code)))
	return cerr
}

func publicCode(c Code) Code {
	if c == CodeNotParticipant {
		return CodeGameNotFound
	}
	return c
}
