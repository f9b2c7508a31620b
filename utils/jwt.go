package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"lpfactory/config"
	"lpfactory/models"
)

// SessionCookieName is the dashboard session cookie.
const SessionCookieName = "dashboard_session"

type Claims struct {
	ClientID  uint   `json:"client_id"`
	ClientKey string `json:"client_key"`
	jwt.RegisteredClaims
}

// GenerateSessionToken issues a 24h dashboard session token for a client.
func GenerateSessionToken(client *models.Client) (string, error) {
	claims := &Claims{
		ClientID:  client.ID,
		ClientKey: client.ClientKey,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.AppConfig.EncryptionKey))
}

// ParseSessionToken validates a session token and returns its claims.
func ParseSessionToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(config.AppConfig.EncryptionKey), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
