package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"intranet-portal-backend/pkg/models"
)

// AccessTokenTTL 访问令牌有效期
const AccessTokenTTL = 12 * time.Hour

// JWTService JWT服务
type JWTService struct {
	secretKey []byte
	ttl       time.Duration
}

// NewJWTService 创建JWT服务
func NewJWTService(secretKey string) *JWTService {
	return &JWTService{
		secretKey: []byte(secretKey),
		ttl:       AccessTokenTTL,
	}
}

// WithTTL overrides the access token lifetime.
func (j *JWTService) WithTTL(ttl time.Duration) *JWTService {
	j.ttl = ttl
	return j
}

// GenerateAccessToken 生成访问令牌
func (j *JWTService) GenerateAccessToken(userID int64, email string) (string, int64, error) {
	now := time.Now()
	expiry := now.Add(j.ttl)

	claims := &models.TokenClaims{
		UserID: userID,
		Email:  email,
		Type:   "access",
		Exp:    expiry.Unix(),
		Iat:    now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(j.secretKey)
	if err != nil {
		return "", 0, fmt.Errorf("failed to generate access token: %w", err)
	}

	return tokenString, expiry.Unix(), nil
}

// ValidateToken 验证令牌
func (j *JWTService) ValidateToken(tokenString string) (*models.TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		// 验证签名方法
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secretKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*models.TokenClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	if claims.Type != "access" {
		return nil, fmt.Errorf("invalid token type: expected access, got %s", claims.Type)
	}
	if claims.UserID <= 0 {
		return nil, fmt.Errorf("token has no user id")
	}

	return claims, nil
}
