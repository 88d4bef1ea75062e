package authservice

import "errors"

var (
	// ErrInvalidSession is returned for unknown, expired or revoked session tokens.
	ErrInvalidSession = errors.New("invalid or expired session")

	// ErrInvalidState is returned when the OAuth state is forged, expired or does not match the cookie.
	ErrInvalidState = errors.New("invalid oauth state")

	// ErrMissingCode is returned when the callback carries no authorization code.
	ErrMissingCode = errors.New("missing authorization code")

	// ErrOAuthExchange is returned when Discord rejects the code or the profile lookup fails.
	ErrOAuthExchange = errors.New("discord oauth exchange failed")
)
