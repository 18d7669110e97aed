package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Two token kinds ride the same HS256 issuer but are never interchangeable:
// a session token authenticates an API client after login, a verification
// token proves control of an email address during signup. The typ claim is
// the discriminator and both Parse methods enforce it.
const (
	kindSession      = "session"
	kindVerification = "verify"
)

var ErrInvalidToken = errors.New("invalid or expired token")

type SessionClaims struct {
	jwt.RegisteredClaims
	UserID uint   `json:"uid"`
	Kind   string `json:"typ"`
}

type VerificationClaims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
	Email    string `json:"email"`
	Kind     string `json:"typ"`
}

type Issuer struct {
	secret []byte
	ttl    time.Duration
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl}
}

// IssueSession signs a session token carrying the user id.
func (i *Issuer) IssueSession(userID uint) (string, error) {
	claims := SessionClaims{
		RegisteredClaims: i.registered(),
		UserID:           userID,
		Kind:             kindSession,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// IssueVerification signs a verification token carrying the signup identity.
// The jti makes every issued token distinct even for identical claims.
func (i *Issuer) IssueVerification(username, email string) (string, error) {
	claims := VerificationClaims{
		RegisteredClaims: i.registered(),
		Username:         username,
		Email:            email,
		Kind:             kindVerification,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

func (i *Issuer) ParseSession(tokenStr string) (*SessionClaims, error) {
	var claims SessionClaims
	if err := i.parse(tokenStr, &claims); err != nil {
		return nil, err
	}
	if claims.Kind != kindSession {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

// ParseVerification checks signature, expiry and kind. A valid token is not
// by itself a valid verification link; the caller must still match it
// against the token stored on the user record.
func (i *Issuer) ParseVerification(tokenStr string) (*VerificationClaims, error) {
	var claims VerificationClaims
	if err := i.parse(tokenStr, &claims); err != nil {
		return nil, err
	}
	if claims.Kind != kindVerification {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

func (i *Issuer) registered() jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
	}
}

func (i *Issuer) parse(tokenStr string, claims jwt.Claims) error {
	tok, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return i.secret, nil
	})
	if err != nil || !tok.Valid {
		return ErrInvalidToken
	}
	return nil
}
