package auth

import (
	"context"
	"errors"
	"fmt"

	"repairright/models"

	firebaseAuth "firebase.google.com/go/v4/auth"
)

// ErrInvalidToken is returned for tokens that fail verification or carry no email.
var ErrInvalidToken = errors.New("invalid or expired token")

// TokenVerifier turns a bearer token into a trusted identity.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (models.Identity, error)
}

// IDTokenVerifier is the part of the Firebase Auth client the verifier needs.
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*firebaseAuth.Token, error)
}

// FirebaseVerifier verifies Firebase ID tokens on every call.
type FirebaseVerifier struct {
	Client IDTokenVerifier
}

// NewFirebaseVerifier wraps a Firebase Auth client.
func NewFirebaseVerifier(client IDTokenVerifier) *FirebaseVerifier {
	return &FirebaseVerifier{Client: client}
}

func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (models.Identity, error) {
	decoded, err := v.Client.VerifyIDToken(ctx, token)
	if err != nil {
		return models.Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return identityFromClaims(decoded.UID, decoded.Claims)
}

// identityFromClaims reads the standard Firebase profile claims.
func identityFromClaims(uid string, claims map[string]interface{}) (models.Identity, error) {
	str := func(key string) string {
		if v, ok := claims[key].(string); ok {
			return v
		}
		return ""
	}
	id := models.Identity{
		UID:     uid,
		Email:   models.NormalizeEmail(str("email")),
		Name:    str("name"),
		Picture: str("picture"),
	}
	if id.UID == "" {
		id.UID = str("sub")
	}
	if id.Email == "" {
		return models.Identity{}, fmt.Errorf("%w: token has no email claim", ErrInvalidToken)
	}
	return id, nil
}
