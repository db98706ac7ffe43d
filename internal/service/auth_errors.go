package service

import "errors"

var (
	// ErrGoogleTokenVerificationFailed covers every way a Google credential
	// can fail verification: bad signature, wrong issuer or audience,
	// expiry, unreachable JWKS endpoint.
	ErrGoogleTokenVerificationFailed = errors.New("google token verification failed")

	// ErrGoogleLoginDisabled is returned when no Google client ID is
	// configured and the login surface runs in guest-only mode.
	ErrGoogleLoginDisabled = errors.New("google login is not configured")
)
