// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// HashToken returns the SHA-256 hex digest of an opaque token.
//
// Stored refresh references and reset tokens are kept in this form only.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// TokenMatches compares a presented token to a stored digest in constant time.
func TokenMatches(presented, storedDigest string) bool {
	if presented == "" || storedDigest == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(HashToken(presented)), []byte(storedDigest)) == 1
}

// GenerateSecureToken returns a URL-safe random token of n bytes of entropy.
func GenerateSecureToken(n int) (string, error) {
	buffer := make([]byte, n)
	if _, err := rand.Read(buffer); err != nil {
		return "", fmt.Errorf("sec: failed to read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buffer), nil
}
