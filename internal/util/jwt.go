package util

import (
	"errors"
	"nihongo_backend/internal/model"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	SessionTokenHeader = "X-Session-Token"
	UsernameHeader     = "X-Username"
	RoleHeader         = "X-User-Role"

	callerKey = "caller"
)

type Claims struct {
	Username string         `json:"username"`
	Role     model.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// GenerateSessionToken signs the stored role of user so later requests can
// prove it instead of asserting it.
func GenerateSessionToken(user *model.User, secret string, expiration time.Duration) (string, error) {
	claims := &Claims{
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseSessionToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid session token")
}

func SetCaller(c *gin.Context, caller model.Caller) {
	c.Set(callerKey, caller)
}

// GetCaller returns the caller stored by the caller middleware, or an
// anonymous student when none was stored.
func GetCaller(c *gin.Context) model.Caller {
	v, exists := c.Get(callerKey)
	if !exists {
		return model.Caller{Role: model.Student}
	}
	caller, ok := v.(model.Caller)
	if !ok {
		return model.Caller{Role: model.Student}
	}
	return caller
}
