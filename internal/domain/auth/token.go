// Package auth maps bearer tokens to marketplace users. It stands in for the
// institutional single-sign-on layer at its interface boundary: tokens are
// issued out-of-band and only their SHA-256 hashes are stored.
package auth

import "context"

// TokenInfo holds the identity data for a validated bearer token.
type TokenInfo struct {
	UserID    string
	TokenHash string
}

// Repository provides lookup of tokens by their SHA-256 hash.
type Repository interface {
	FindByHash(ctx context.Context, hash string) (*TokenInfo, error)
}
