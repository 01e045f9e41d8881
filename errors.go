package keymint

import "errors"

var (
	// ErrTokenInvalid covers unknown, expired, already-spent, and wrong-kind
	// tokens. The cases are deliberately indistinguishable so a caller probing
	// token validity learns nothing beyond "invalid".
	ErrTokenInvalid = errors.New("invalid token")
	// ErrInvalidUserID rejects token generation for an empty subject.
	ErrInvalidUserID = errors.New("invalid user id")
	// ErrStorageRequired is returned by Build when no backend was supplied.
	ErrStorageRequired = errors.New("storage backend required")
	// ErrBuilderUsed is returned when Build is called twice on one builder.
	ErrBuilderUsed = errors.New("builder already used")
	// ErrManagerNotReady guards method calls on a nil manager.
	ErrManagerNotReady = errors.New("manager not initialized")
)
