// Package token decodes the payload of the backend's bearer tokens. The
// signature is not verified; only the backend can do that.
package token

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrMalformedToken = errors.New("malformed token")

// ID is a user id as it appears in a token. Backends emit it either as a
// JSON number or as a string; both decode to the same textual form.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON writes numeric ids as numbers so they round-trip with the
// backend's own claims.
func (id ID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// Claims is the JWT body issued by the backend.
type Claims struct {
	UserID ID     `json:"id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Payload is the decoded content of a token.
type Payload struct {
	ID        string
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

var parser = jwt.NewParser()

// Decode extracts the payload of a compact JWT without checking its
// signature. Only the body segment is read; the header is ignored. Any
// structural problem is reported as ErrMalformedToken.
func Decode(raw string) (Payload, error) {
	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		return Payload{}, fmt.Errorf("%w: %d segments", ErrMalformedToken, len(parts))
	}
	body, err := parser.DecodeSegment(parts[1])
	if err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	claims := &Claims{}
	if err := json.Unmarshal(body, claims); err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	p := Payload{ID: string(claims.UserID), Email: claims.Email}
	if claims.IssuedAt != nil {
		p.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		p.ExpiresAt = claims.ExpiresAt.Time
	}
	return p, nil
}

// Valid reports whether the token has not expired at now. A token without
// an expiry is never valid.
func (p Payload) Valid(now time.Time) bool {
	if p.ExpiresAt.IsZero() {
		return false
	}
	return now.Unix() < p.ExpiresAt.Unix()
}

// Remaining is the lifetime left at now; zero or negative once expired.
func (p Payload) Remaining(now time.Time) time.Duration {
	if p.ExpiresAt.IsZero() {
		return 0
	}
	return p.ExpiresAt.Sub(now)
}
