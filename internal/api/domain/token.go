package domain

import "time"

// TokenPair is what a successful login produces. There is no refresh token;
// access tokens end their life purely by expiry.
type TokenPair struct {
	AccessToken string
	TokenType   string // typically "Bearer"
	ExpiresIn   time.Duration
}
