package auth

import (
	"net/http"
	"strings"

	"github.com/brunohenrique/storage-system/internal/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// CookieName é o nome do cookie HTTP-only que carrega o token de sessão
const CookieName = "token"

// Chaves das claims no contexto Gin
const (
	ContextUserID = "user_id"
	ContextEmail  = "user_email"
	ContextName   = "user_name"
	ContextRole   = "user_role"
)

// JWTAuthMiddleware cria um middleware de autenticação. O token é
// aceito tanto no cabeçalho "Authorization: Bearer <token>" quanto no
// cookie de sessão "token". Requisições sem credencial válida recebem
// 401; a interceptação acontece aqui, uma única vez na montagem do
// router, em vez de um patch global da camada de rede.
func JWTAuthMiddleware(jwtService *JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
				http.StatusUnauthorized,
				"Autenticação requerida",
				"Forneça o token no cabeçalho Authorization ou no cookie de sessão",
			))
			return
		}

		claims, err := jwtService.ValidateToken(tokenString)
		if err != nil {
			message := "Token inválido"
			if err == ErrExpiredToken {
				message = "Token expirado"
			}

			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
				http.StatusUnauthorized,
				message,
				err.Error(),
			))
			return
		}

		// Armazenar as claims no contexto
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextName, claims.Name)
		c.Set(ContextRole, claims.Role)

		c.Next()
	}
}

// RoleAuthMiddleware cria um middleware que restringe a rota aos papéis
// informados. A verificação acontece no servidor, em cada chamada
// mutante, em vez de confiar apenas na interface do cliente.
func RoleAuthMiddleware(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleVal, exists := c.Get(ContextRole)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
				http.StatusUnauthorized,
				"Autenticação requerida",
				"Execute o middleware de autenticação antes da verificação de papel",
			))
			return
		}

		userRole, _ := roleVal.(string)
		for _, role := range roles {
			if userRole == role {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(
			http.StatusForbidden,
			"Acesso negado",
			"Seu papel não permite executar esta operação",
		))
	}
}

// extractToken busca o token primeiro no cabeçalho Authorization e
// depois no cookie de sessão
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) == 2 && tokenParts[0] == "Bearer" {
			return tokenParts[1]
		}
		return ""
	}

	if cookie, err := c.Cookie(CookieName); err == nil {
		return cookie
	}

	return ""
}
