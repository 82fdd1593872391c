package domain

import "errors"

// Sentinel errors shared across layers. Controllers map these to stable
// API error codes; anything else is reported generically.
var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidCode         = errors.New("invalid invite code")
	ErrDuplicateRedemption = errors.New("invite code already redeemed")
	ErrInvalidTransition   = errors.New("invalid payment status transition")
	ErrNotEligible         = errors.New("booking not eligible for check-in")
	ErrAlreadyCheckedIn    = errors.New("booking already checked in")
	ErrInvalidSignature    = errors.New("invalid webhook signature")
	ErrUpstreamUnavailable = errors.New("upstream service unavailable")
	ErrInvalidCredentials  = errors.New("invalid credentials")
)
