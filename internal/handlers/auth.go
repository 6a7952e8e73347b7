package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const ctxUserIDKey = "auth_user_id"

// TokenVerifier checks HS256 access tokens issued by the hosted identity
// provider. The subject claim is the user id.
type TokenVerifier struct {
	Secret []byte
	Issuer string
}

func (v TokenVerifier) Configured() bool { return len(v.Secret) > 0 }

// Parse returns the user id carried by a valid token.
func (v TokenVerifier) Parse(tokenString string) (string, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.Issuer))
	}

	claims := &jwt.RegisteredClaims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return v.Secret, nil
	}, opts...)
	if err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}
	if !tok.Valid {
		return "", errors.New("invalid token")
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return "", fmt.Errorf("subject is not a user id: %w", err)
	}
	return id.String(), nil
}

// IdentityMiddleware rejects requests without a valid bearer token and
// stores the caller's user id on the context.
func IdentityMiddleware(v TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !v.Configured() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication is not configured"})
			return
		}

		h := c.GetHeader("Authorization")
		if h == "" || !strings.HasPrefix(strings.ToLower(h), "bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		userID, err := v.Parse(strings.TrimSpace(h[len("Bearer "):]))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(ctxUserIDKey, userID)
		c.Next()
	}
}

func MustGetUserID(c *gin.Context) string {
	return c.GetString(ctxUserIDKey)
}
