package model

import "errors"

var (
	// Import errors
	ErrIdentityExists = errors.New("auth identity already registered")
	ErrNoIdentity     = errors.New("auth identity not found for email")
	ErrInvalidAuthID  = errors.New("auth identity id is not a valid uuid")

	// Photo migration errors
	ErrEmptyPhotoURL = errors.New("photo url is empty")
)
