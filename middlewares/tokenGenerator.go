package middlewares

import (
	"time"

	"pebbleserver/auth"
	"pebbleserver/models"

	jwt "github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
)

const tokenLifetime = 72 * time.Hour

// GenerateToken はプレイヤーIDを内包するJWTトークンを生成する
func GenerateToken(playerID string) (string, error) {
	claims := &models.MyClaims{
		PlayerID: playerID,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(tokenLifetime).Unix(),
			IssuedAt:  time.Now().Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(auth.JwtKey)
}

// GeneratePlayerToken は新しい匿名プレイヤーのIDとトークンを返す
func GeneratePlayerToken() (string, string, error) {
	playerID := uuid.New().String()
	token, err := GenerateToken(playerID)
	if err != nil {
		return "", "", err
	}
	return token, playerID, nil
}
