package handler

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"
)

// userIDKey is the context key for the authenticated user's ID.
type userIDKey struct{}

// UserIDFromContext extracts the authenticated user ID from the context. It
// returns an empty string when the request was not authenticated.
func UserIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey{}).(string); ok {
		return id
	}
	return ""
}

// requireAuth authenticates the request by hashing the bearer token, looking
// it up in the token repository, and performing a constant-time comparison to
// prevent timing attacks. On success the user ID is stored in the request
// context.
func (h *Handler) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, codeUnauthorized, "please log in to continue")
			return
		}

		hash := sha256.Sum256([]byte(token))
		hexHash := hex.EncodeToString(hash[:])

		info, err := h.tokens.FindByHash(r.Context(), hexHash)
		if err != nil {
			writeError(w, http.StatusUnauthorized, codeUnauthorized, "please log in to continue")
			return
		}

		storedBytes, err := hex.DecodeString(info.TokenHash)
		if err != nil || subtle.ConstantTimeCompare(hash[:], storedBytes) != 1 {
			writeError(w, http.StatusUnauthorized, codeUnauthorized, "please log in to continue")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey{}, info.UserID)
		next(w, r.WithContext(ctx))
	}
}

func bearerToken(r *http.Request) (string, bool) {
	const prefix = "Bearer "
	header := r.Header.Get("Authorization")
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return header[len(prefix):], true
}
