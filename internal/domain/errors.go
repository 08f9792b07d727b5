package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found or is not
	// owned by the caller. The two cases are deliberately merged so that
	// ownership probes cannot distinguish "doesn't exist" from "not yours".
	ErrNotFound = errors.New("not found")
	// ErrValidation indicates malformed or out-of-policy input.
	ErrValidation = errors.New("validation failed")
	// ErrEmptyCart indicates an order was attempted from a cart with no lines.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrPhotoUnavailable indicates a cart line references a photo that was
	// deleted or claimed by another order since the line was added.
	ErrPhotoUnavailable = errors.New("photo unavailable")
	// ErrPhotoLocked indicates a manual delete was attempted on a photo
	// referenced by an order.
	ErrPhotoLocked = errors.New("photo locked by order")
	// ErrAlreadyLocked indicates a lock attempt on a photo held by a
	// different order.
	ErrAlreadyLocked = errors.New("photo already locked by another order")
	// ErrInvalidTransition indicates an order status change that is not the
	// single legal next step.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrInvalidPaymentMethod indicates an unsupported payment method value.
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	// ErrSizeInactive indicates a print size that exists but is disabled for
	// ordering.
	ErrSizeInactive = errors.New("print size inactive")
	// ErrUnsupportedJurisdiction indicates no tax rate is configured for the
	// shipping state.
	ErrUnsupportedJurisdiction = errors.New("unsupported tax jurisdiction")
	// ErrDependency indicates an external collaborator (tax calculator,
	// payment processor, blob store) failed.
	ErrDependency = errors.New("dependency failure")
	// ErrAlreadyExists indicates a unique constraint violation on create.
	ErrAlreadyExists = errors.New("already exists")
)
