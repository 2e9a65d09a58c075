package membership

import (
	"errors"
	"fmt"

	"github.com/tendant/simple-membership/pkg/domain"
)

// operationError pairs a domain sentinel with the message shown to the caller.
type operationError struct {
	err error
	msg string
}

func (e *operationError) Error() string { return e.msg }
func (e *operationError) Unwrap() error { return e.err }

func notFoundError(id string) error {
	return &operationError{
		err: domain.ErrMembershipNotFound,
		msg: fmt.Sprintf("Membership with id:%s not found", id),
	}
}

func unauthorizedError(action string) error {
	return &operationError{
		err: domain.ErrUnauthorized,
		msg: "You are not authorized to " + action,
	}
}

func creationError(cause error) error {
	return &operationError{
		err: errors.Join(domain.ErrCreationFailed, cause),
		msg: domain.ErrCreationFailed.Error(),
	}
}
