package domain

import "errors"

// Membership errors
var (
	ErrMembershipNotFound   = errors.New("membership not found")
	ErrUnauthorized         = errors.New("not authorized")
	ErrCreationFailed       = errors.New("Issue encountered when creating Membership")
	ErrNotExpiredOrInactive = errors.New("Membership is not expired or already inactive.")
)

// Validation errors
var (
	ErrValidation = errors.New("Missing or invalid input data")
)

// Token errors
var (
	ErrInvalidToken = errors.New("invalid token")
)
