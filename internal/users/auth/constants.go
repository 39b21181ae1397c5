package auth

import "time"

const (
	// AccessTokenTTL is the lifetime of an issued JWT access token.
	AccessTokenTTL = 24 * time.Hour

	// confirmationSubject is the subject line of the signup email.
	confirmationSubject = "Your Kritika confirmation code"
)
