package utils

import (
	"time"

	"resto_pay/internal/pkg/config"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the identity issued by the external auth service.
type Claims struct {
	UserID  string `json:"user_id"`
	StoreID string `json:"store_id"`
	Role    int    `json:"role"`
	jwt.RegisteredClaims
}

// Staff and admin roles as issued by the auth service.
const (
	RoleStaff = 1
	RoleAdmin = 2
)

// GenerateToken issues a token. The real issuer is the external auth service;
// this is used by tests and local tooling.
func GenerateToken(userID, storeID string, role int) (string, *time.Time, error) {
	now := time.Now()
	expireTime := now.Add(24 * time.Hour)

	claims := Claims{
		UserID:  userID,
		StoreID: storeID,
		Role:    role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expireTime),
			Issuer:    "resto-pay",
		},
	}

	tokenClaims := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token, err := tokenClaims.SignedString([]byte(config.GlobalConfig.JWT.Secret))
	if err != nil {
		return "", nil, err
	}
	return token, &expireTime, nil
}

// ParseToken verifies a token and returns its claims.
func ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(config.GlobalConfig.JWT.Secret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrTokenInvalidClaims
}
