package auth

import (
	"errors"
	"fmt"
	"time"

	"jp_storefront/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const TokenTTL = 24 * time.Hour

var ErrInvalidToken = errors.New("invalid token")

// Claims is what a verified token carries into the request context.
type Claims struct {
	UserID    string
	Email     string
	Role      string
	TokenID   string
	ExpiresAt time.Time
}

func (c Claims) IsAdmin() bool { return c.Role == models.RoleAdmin }

// GenerateJWT signs an HS256 token for u. Every token gets its own jti so
// it can be revoked on sign-out.
func GenerateJWT(secret []byte, u models.User, now time.Time) (string, Claims, error) {
	claims := Claims{
		UserID:    u.ID.String(),
		Email:     u.Email,
		Role:      u.Role,
		TokenID:   uuid.NewString(),
		ExpiresAt: now.Add(TokenTTL),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": claims.UserID,
		"email":   claims.Email,
		"role":    claims.Role,
		"jti":     claims.TokenID,
		"iat":     now.Unix(),
		"exp":     claims.ExpiresAt.Unix(),
	})
	signed, err := token.SignedString(secret)
	return signed, claims, err
}

// ParseJWT verifies signature and expiry and extracts the claims.
func ParseJWT(secret []byte, tokenString string) (Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return Claims{}, ErrInvalidToken
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	userID, _ := mc["user_id"].(string)
	if userID == "" {
		return Claims{}, ErrInvalidToken
	}
	exp, err := mc.GetExpirationTime()
	if err != nil || exp == nil {
		return Claims{}, ErrInvalidToken
	}

	c := Claims{UserID: userID, ExpiresAt: exp.Time}
	c.Email, _ = mc["email"].(string)
	c.Role, _ = mc["role"].(string)
	c.TokenID, _ = mc["jti"].(string)
	return c, nil
}
