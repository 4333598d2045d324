package auth

import (
	"errors"
	"fmt"
	"strings"

	"pebbleserver/models"

	jwt "github.com/dgrijalva/jwt-go"
)

// JwtKey はトークンの署名鍵。起動時にSetSecretで設定ファイルの値に置き換える
var JwtKey = []byte("your_secret_key")

func SetSecret(secret string) {
	if secret != "" {
		JwtKey = []byte(secret)
	}
}

// BearerToken はAuthorizationヘッダーから"Bearer "を取り除く
func BearerToken(header string) string {
	return strings.TrimPrefix(strings.TrimSpace(header), "Bearer ")
}

// ParseToken はトークンを検証し、クレームを返す
func ParseToken(tokenString string) (*models.MyClaims, error) {
	if tokenString == "" {
		return nil, errors.New("token is required")
	}

	claims := &models.MyClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return JwtKey, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.PlayerID == "" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
