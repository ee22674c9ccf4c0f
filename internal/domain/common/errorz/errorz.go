package errorz

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrEventNotActive     = errors.New("event is not active")
	ErrOwnEvent           = errors.New("organizers cannot book their own event")
	ErrNotAttending       = errors.New("user is not attending the event")
	ErrAlreadyReviewed    = errors.New("event already reviewed by this user")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrBadTransition      = errors.New("invalid notification status transition")
)

// CapacityError rejects a booking that would exceed the event capacity and
// reports how many places are still available.
type CapacityError struct {
	Available int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("capacity exceeded, %d places available", e.Available)
}

// AsCapacityError unwraps err into a *CapacityError if it is one.
func AsCapacityError(err error) (*CapacityError, bool) {
	var ce *CapacityError
	ok := errors.As(err, &ce)
	return ce, ok
}
