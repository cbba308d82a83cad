package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid client token")

const tokenType = "client"

type clientClaims struct {
	Type string `json:"typ"`
	jwt.RegisteredClaims
}

// Tokens signs and verifies the client cookie. The token's jti is the client
// id that keys the cart and session blobs.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue mints a token for a fresh client id.
func (t *Tokens) Issue() (token, clientID string, err error) {
	clientID = uuid.NewString()
	token, err = t.Sign(clientID)
	return token, clientID, err
}

func (t *Tokens) Sign(clientID string) (string, error) {
	now := t.now()
	claims := clientClaims{
		Type: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        clientID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign client token: %w", err)
	}
	return signed, nil
}

// Parse returns the client id carried by a valid, unexpired token.
func (t *Tokens) Parse(token string) (string, error) {
	claims := &clientClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(tok *jwt.Token) (any, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(t.now))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Type != tokenType || claims.ID == "" {
		return "", ErrInvalidToken
	}
	return claims.ID, nil
}
