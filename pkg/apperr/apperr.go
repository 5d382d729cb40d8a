package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies why an operation was rejected.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindDuplicateKey Kind = "duplicate_key"
	KindConflict     Kind = "conflict"
	KindNotFound     Kind = "not_found"
	KindState        Kind = "state"
)

// Error carries the kind, the offending entity and a message naming the
// invariant that blocked the operation.
type Error struct {
	Kind     Kind   `json:"kind"`
	Entity   string `json:"entity,omitempty"`
	EntityID uint   `json:"entityId,omitempty"`
	Message  string `json:"message"`
}

func (e *Error) Error() string {
	if e.Entity != "" && e.EntityID != 0 {
		return fmt.Sprintf("%s %d: %s", e.Entity, e.EntityID, e.Message)
	}
	if e.Entity != "" {
		return fmt.Sprintf("%s: %s", e.Entity, e.Message)
	}
	return e.Message
}

func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func DuplicateKey(entity string, format string, args ...any) *Error {
	return &Error{Kind: KindDuplicateKey, Entity: entity, Message: fmt.Sprintf(format, args...)}
}

func Conflict(entity string, id uint, format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Entity: entity, EntityID: id, Message: fmt.Sprintf(format, args...)}
}

func NotFound(entity string, id uint) *Error {
	return &Error{Kind: KindNotFound, Entity: entity, EntityID: id, Message: "not found"}
}

func State(entity string, id uint, format string, args ...any) *Error {
	return &Error{Kind: KindState, Entity: entity, EntityID: id, Message: fmt.Sprintf(format, args...)}
}

// KindOf reports the kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func IsKind(err error, k Kind) bool { return KindOf(err) == k }
