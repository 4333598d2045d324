package models

import (
	jwt "github.com/dgrijalva/jwt-go"
)

// MyClaims はJWTクレームの構造体定義です。
type MyClaims struct {
	PlayerID string `json:"playerid"`
	jwt.StandardClaims
}
