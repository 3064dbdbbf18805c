package auth

import (
	"errors"
	"os"
	"time"

	"github.com/brunohenrique/storage-system/internal/domain/user"
	"github.com/golang-jwt/jwt/v5"
)

// Erros específicos
var (
	ErrInvalidToken  = errors.New("token inválido")
	ErrExpiredToken  = errors.New("token expirado")
	ErrInvalidClaims = errors.New("claims inválidas")
	ErrMissingJWTKey = errors.New("chave secreta JWT não configurada")
)

// Claims representa as claims personalizadas do token de sessão
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// JWTService implementa serviços relacionados a tokens JWT.
// O mesmo token serve tanto para o cabeçalho Authorization quanto para
// o cookie de sessão "token".
type JWTService struct {
	secretKey  []byte
	expiration time.Duration
}

// NewJWTService cria uma nova instância de JWTService
func NewJWTService() (*JWTService, error) {
	secretKey := os.Getenv("JWT_SECRET_KEY")
	if secretKey == "" {
		return nil, ErrMissingJWTKey
	}

	// Duração padrão de 24 horas se não for configurado
	expiration := 24 * time.Hour
	if expirationStr := os.Getenv("JWT_EXPIRATION_HOURS"); expirationStr != "" {
		if parsed, err := time.ParseDuration(expirationStr + "h"); err == nil {
			expiration = parsed
		}
	}

	return &JWTService{
		secretKey:  []byte(secretKey),
		expiration: expiration,
	}, nil
}

// Expiration retorna a duração de validade dos tokens emitidos
func (s *JWTService) Expiration() time.Duration {
	return s.expiration
}

// GenerateToken gera um token JWT para o usuário
func (s *JWTService) GenerateToken(u *user.User) (string, error) {
	expirationTime := time.Now().Add(s.expiration)

	claims := Claims{
		UserID: u.ID,
		Email:  u.Email,
		Name:   u.Name,
		Role:   string(u.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "storage-system-api",
			Subject:   u.ID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ValidateToken valida um token JWT e retorna as claims se for válido
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Verificar o método de assinatura
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secretKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}

	return claims, nil
}
