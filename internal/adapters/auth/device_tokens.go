package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/astroarts/contest/internal/core/domain"
)

var ErrInvalidToken = errors.New("invalid device token")

// DeviceTokens mints and verifies the bearer tokens binding a browser to
// its device ID and, after a claim, its username. There are no user
// accounts behind these tokens; the token is the identity.
type DeviceTokens struct {
	secret []byte
	ttl    time.Duration
}

func NewDeviceTokens(secret string, ttl time.Duration) *DeviceTokens {
	return &DeviceTokens{secret: []byte(secret), ttl: ttl}
}

// Anonymous issues a fresh device ID. Implements ports.IdentityProvider.
func (t *DeviceTokens) Anonymous(ctx context.Context) (string, error) {
	return uuid.NewString(), nil
}

func (t *DeviceTokens) Issue(identity domain.Identity) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"did":  identity.DeviceID,
		"name": identity.Username,
		"exp":  now.Add(t.ttl).Unix(),
		"iat":  now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign device token: %w", err)
	}
	return signed, nil
}

func (t *DeviceTokens) Parse(tokenStr string) (domain.Identity, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return domain.Identity{}, ErrInvalidToken
	}

	deviceID, ok := claims["did"].(string)
	if !ok || deviceID == "" {
		return domain.Identity{}, ErrInvalidToken
	}

	username, _ := claims["name"].(string)
	if username == "" {
		return domain.Guest(deviceID), nil
	}
	return domain.Named(deviceID, username), nil
}
