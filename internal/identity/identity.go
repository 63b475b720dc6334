package identity

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the subset of the identity provider's token this backend cares
// about: the stable external subject plus the profile fields mirrored into
// the user directory. Credential validation itself happens upstream.
type Claims struct {
	ExternalID string `json:"sub"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	jwt.RegisteredClaims
}

var ErrInvalidToken = errors.New("invalid identity token")

// ParseToken verifies an HS256 token issued by the identity provider and
// returns its claims. Anything malformed, expired or signed with another
// key comes back as ErrInvalidToken.
func ParseToken(secret, tokenString string) (Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return Claims{}, ErrInvalidToken
	}
	if claims.ExternalID == "" {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}

// GenerateToken mints a token the way the identity provider does. Used by
// tests and local development tooling.
func GenerateToken(secret, externalID, email, name string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		ExternalID: externalID,
		Email:      email,
		Name:       name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
