package domain

import "time"

// TokenIssuer issues bearer tokens for an API client.
type TokenIssuer interface {
	Issue(subject string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the subject it was issued to.
type TokenVerifier interface {
	Verify(token string) (subject string, err error)
}
