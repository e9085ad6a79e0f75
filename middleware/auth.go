package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sharath018/golftrip-backend/utils"
)

var (
	ErrMissingToken = errors.New("missing Authorization header")
	ErrInvalidToken = errors.New("invalid token")
)

// AccessClaims is the payload issued by the identity provider.
type AccessClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// AuthMiddleware rejects requests without a valid bearer token.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := ParseBearer(c.GetHeader("Authorization"), secret)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, err.Error())
			return
		}
		setIdentity(c, id)
		c.Next()
	}
}

// OptionalAuth sets the identity when a valid bearer token is present and
// otherwise lets the request through anonymously. A malformed token is still rejected.
func OptionalAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}
		id, err := ParseBearer(header, secret)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, err.Error())
			return
		}
		setIdentity(c, id)
		c.Next()
	}
}

// ParseBearer validates "Bearer <jwt>" and extracts the caller.
func ParseBearer(header, secret string) (*Identity, error) {
	if header == "" {
		return nil, ErrMissingToken
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return nil, errors.New("invalid Authorization header")
	}
	if secret == "" {
		return nil, ErrInvalidToken
	}

	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(strings.TrimSpace(parts[1]), claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" || claims.Email == "" {
		return nil, errors.New("token is missing subject or email")
	}
	return &Identity{UserID: claims.Subject, Email: claims.Email}, nil
}

// SignAccessToken issues a token in the provider's format. Used by tests and local tooling.
func SignAccessToken(secret, userID, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
