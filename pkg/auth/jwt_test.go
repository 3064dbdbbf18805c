package auth

import (
	"testing"

	"github.com/brunohenrique/storage-system/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser() *user.User {
	return &user.User{
		ID:    "u1",
		Name:  "João Silva",
		Email: "joao@example.com",
		Role:  user.RoleOwner,
	}
}

func TestNewJWTServiceRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "")

	_, err := NewJWTService()
	assert.ErrorIs(t, err, ErrMissingJWTKey)
}

func TestNewJWTServiceExpirationFromEnv(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "segredo-de-teste")
	t.Setenv("JWT_EXPIRATION_HOURS", "2")

	svc, err := NewJWTService()
	require.NoError(t, err)
	assert.Equal(t, float64(2), svc.Expiration().Hours())
}

func TestGenerateAndValidateToken(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "segredo-de-teste")
	t.Setenv("JWT_EXPIRATION_HOURS", "")

	svc, err := NewJWTService()
	require.NoError(t, err)

	token, err := svc.GenerateToken(testUser())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "joao@example.com", claims.Email)
	assert.Equal(t, "João Silva", claims.Name)
	assert.Equal(t, string(user.RoleOwner), claims.Role)
	assert.Equal(t, "storage-system-api", claims.Issuer)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "segredo-de-teste")
	t.Setenv("JWT_EXPIRATION_HOURS", "")

	svc, err := NewJWTService()
	require.NoError(t, err)

	token, err := svc.GenerateToken(testUser())
	require.NoError(t, err)

	t.Setenv("JWT_SECRET_KEY", "outro-segredo")
	other, err := NewJWTService()
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "segredo-de-teste")
	t.Setenv("JWT_EXPIRATION_HOURS", "")

	svc, err := NewJWTService()
	require.NoError(t, err)

	_, err = svc.ValidateToken("isto-não-é-um-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
