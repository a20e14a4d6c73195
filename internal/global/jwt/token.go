package jwt

import (
	"time"

	"github.com/golang-jwt/jwt"

	"crop-tracking-system/config"
)

// Payload 写入令牌的用户信息
type Payload struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

type Claims struct {
	Payload
	jwt.StandardClaims
}

// CreateToken 签发访问令牌，有效期由配置决定
func CreateToken(payload Payload) string {
	cfg := config.Get().JWT
	claims := Claims{
		Payload: payload,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  time.Now().Unix(),
			ExpiresAt: time.Now().Add(time.Duration(cfg.AccessExpire) * time.Second).Unix(),
			Issuer:    "crop-tracking-system",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(cfg.AccessSecret))
	if err != nil {
		// 签发失败只可能是密钥配置问题
		panic(err)
	}
	return signed
}

// ParseToken 解析并校验访问令牌
func ParseToken(tokenString string) (*Claims, bool) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(config.Get().JWT.AccessSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, false
	}
	return claims, true
}
