package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"repairright/models"

	"github.com/golang-jwt/jwt"
)

// LocalVerifier accepts HS256 tokens signed with a shared secret. It stands in for
// the identity provider when AUTH_MODE=local.
type LocalVerifier struct {
	secret []byte
}

// NewLocalVerifier returns a verifier for tokens signed with secret.
func NewLocalVerifier(secret string) (*LocalVerifier, error) {
	if secret == "" {
		return nil, errors.New("local auth: LOCAL_AUTH_SECRET is empty")
	}
	return &LocalVerifier{secret: []byte(secret)}, nil
}

func (v *LocalVerifier) Verify(_ context.Context, tokenString string) (models.Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return models.Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return models.Identity{}, ErrInvalidToken
	}
	return identityFromClaims("", claims)
}

// Issue signs a token for id that expires after ttl.
func (v *LocalVerifier) Issue(id models.Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":     id.UID,
		"email":   id.Email,
		"name":    id.Name,
		"picture": id.Picture,
		"iat":     now.Unix(),
		"exp":     now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}
