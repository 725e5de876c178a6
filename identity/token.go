package identity

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// TokenProvider resolves the current user from an access token issued by the hosted
// auth service (HS256, shared JWT secret).
type TokenProvider struct {
	token  string
	secret []byte
}

func NewTokenProvider(token, secret string) *TokenProvider {
	return &TokenProvider{token: token, secret: []byte(secret)}
}

func (p *TokenProvider) CurrentUser() (*User, error) {
	if p.token == "" {
		return nil, ErrNoUser
	}
	return ParseToken(p.token, p.secret)
}

// ParseToken verifies the token signature and maps its claims onto a User.
func ParseToken(tokenStr string, secret []byte) (*User, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid claims")
	}

	sub, _ := claims.GetSubject()
	if sub == "" {
		return nil, fmt.Errorf("token has no subject")
	}

	u := &User{ID: sub}
	u.Email, _ = claims["email"].(string)
	u.Anonymous, _ = claims["is_anonymous"].(bool)

	if meta, ok := claims["user_metadata"].(map[string]interface{}); ok {
		for _, key := range []string{"full_name", "display_name", "name"} {
			if name, ok := meta[key].(string); ok && name != "" {
				u.DisplayName = name
				break
			}
		}
	}

	return u, nil
}
