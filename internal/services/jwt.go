package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

// JWTService выпускает токены админки и держит чёрный список
// отозванных jti в Redis
type JWTService struct {
	secretKey []byte
	redis     *redis.Client
}

func NewJWTService(secretKey string, redisClient *redis.Client) *JWTService {
	return &JWTService{
		secretKey: []byte(secretKey),
		redis:     redisClient,
	}
}

func (s *JWTService) GenerateToken(username string) (string, error) {
	jti := make([]byte, 16)
	if _, err := rand.Read(jti); err != nil {
		return "", fmt.Errorf("failed to generate jti: %v", err)
	}

	claims := jwt.MapClaims{
		"username": username,
		"role":     "admin",
		"jti":      hex.EncodeToString(jti),
		"exp":      time.Now().Add(time.Hour * 24 * 7).Unix(),
		"iat":      time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %v", err)
	}
	return tokenString, nil
}

// RevokeToken кладёт jti в чёрный список до истечения срока токена
func (s *JWTService) RevokeToken(ctx context.Context, jti string, exp time.Time) error {
	ttl := time.Until(exp)
	if ttl <= 0 {
		return nil
	}
	return s.redis.Set(ctx, blocklistKey(jti), "1", ttl).Err()
}

// IsRevoked при недоступном Redis пропускаем, только логируем
func (s *JWTService) IsRevoked(ctx context.Context, jti string) bool {
	if jti == "" {
		return false
	}
	_, err := s.redis.Get(ctx, blocklistKey(jti)).Result()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		log.Printf("Redis blocklist check failed: %v", err)
		return false
	}
	return true
}

func blocklistKey(jti string) string {
	return "pointeuse:jwt:blocklist:" + jti
}
