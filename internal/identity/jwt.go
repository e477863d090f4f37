package identity

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultCookieName is the session cookie set by the identity service.
const DefaultCookieName = "token"

type Claims struct {
	Sub      string `json:"sub"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// JWTProvider verifies HS256 session tokens from the Authorization header or
// the session cookie.
type JWTProvider struct {
	secret     []byte
	cookieName string
}

func NewJWTProvider(secret, cookieName string) *JWTProvider {
	if cookieName == "" {
		cookieName = DefaultCookieName
	}
	return &JWTProvider{secret: []byte(secret), cookieName: cookieName}
}

func (p *JWTProvider) Current(r *http.Request) (Identity, bool) {
	token := bearerToken(r)
	if token == "" {
		if c, err := r.Cookie(p.cookieName); err == nil {
			token = c.Value
		}
	}
	if token == "" {
		return Identity{}, false
	}

	claims, err := p.Parse(token)
	if err != nil {
		return Identity{}, false
	}
	return Identity{ID: claims.Sub, Username: claims.Username}, true
}

func (p *JWTProvider) Parse(tokenStr string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return p.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	claims, ok := t.Claims.(*Claims)
	if !ok || !t.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if claims.Sub == "" {
		return nil, errors.New("token has no subject")
	}
	// Path ids are canonical lowercase UUIDs; the subject must compare equal.
	sub, err := uuid.Parse(claims.Sub)
	if err != nil {
		return nil, fmt.Errorf("token subject: %w", err)
	}
	claims.Sub = sub.String()
	return claims, nil
}

// Sign issues a token for id. Used by the seed tool and tests; production
// tokens come from the identity service.
func Sign(secret string, id Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	c := Claims{
		Sub:      id.ID,
		Username: id.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
}
