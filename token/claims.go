// Package token reads the expiry claim embedded in a backend-issued access
// token. The token's authenticity was established by the issuing backend at
// login; nothing here verifies a signature, and nothing ever should.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMalformed is returned when the access token cannot be decoded at all.
var ErrMalformed = errors.New("malformed access token")

var parser = jwt.NewParser()

// ExpiresAt decodes the embedded expiry instant without verifying the
// signature. A token that carries no exp claim reports the zero time, which
// callers treat as already expired.
func ExpiresAt(access string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(access, claims); err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if exp == nil {
		return time.Time{}, nil
	}
	return exp.Time, nil
}
