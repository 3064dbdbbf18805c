package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/brunohenrique/storage-system/internal/adapter/api/dto"
	"github.com/brunohenrique/storage-system/internal/adapter/repository"
	"github.com/brunohenrique/storage-system/internal/domain/user"
	"github.com/brunohenrique/storage-system/pkg/auth"
	"github.com/brunohenrique/storage-system/pkg/logger"
	"github.com/gin-gonic/gin"
)

// SessionController gerencia o ciclo de vida do cookie de sessão
type SessionController struct {
	userRepository user.Repository
	jwtService     *auth.JWTService
	log            logger.Logger
}

// NewSessionController cria uma nova instância de SessionController
func NewSessionController(userRepository user.Repository, jwtService *auth.JWTService, log logger.Logger) *SessionController {
	return &SessionController{
		userRepository: userRepository,
		jwtService:     jwtService,
		log:            log,
	}
}

// Create autentica o usuário e grava o cookie de sessão
// @Summary Cria uma sessão (login)
// @Description Verifica as credenciais e grava o token no cookie HTTP-only "token"
// @Tags session
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Credenciais de login"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /session [post]
func (c *SessionController) Create(ctx *gin.Context) {
	var request dto.LoginRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	u, err := c.userRepository.FindByEmail(ctx, request.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(http.StatusUnauthorized, "Credenciais inválidas", "Email ou senha incorretos"))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao autenticar usuário", err.Error()))
		return
	}

	if !u.CheckPassword(request.Password) {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(http.StatusUnauthorized, "Credenciais inválidas", "Email ou senha incorretos"))
		return
	}

	token, err := c.jwtService.GenerateToken(u)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao gerar token", err.Error()))
		return
	}

	if err := c.userRepository.UpdateLastLogin(ctx, u.ID); err != nil {
		// Apenas registrar: a falha não impede o login
		c.log.Warn("falha ao atualizar último login", "usuario", u.ID, "erro", err)
	}

	expiresAt := time.Now().Add(c.jwtService.Expiration())
	c.setSessionCookie(ctx, token, int(c.jwtService.Expiration().Seconds()))

	ctx.JSON(http.StatusOK, dto.LoginResponse{
		Session: dto.SessionResponse{
			UserID:    u.ID,
			Email:     u.Email,
			Name:      u.Name,
			Role:      string(u.Role),
			ExpiresAt: expiresAt,
		},
		Token: token,
	})
}

// Get retorna as claims decodificadas da sessão atual
// @Summary Consulta a sessão atual
// @Description Decodifica o cookie de sessão e retorna as claims de identidade
// @Tags session
// @Produce json
// @Success 200 {object} dto.SessionResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /session [get]
func (c *SessionController) Get(ctx *gin.Context) {
	cookie, err := ctx.Cookie(auth.CookieName)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(http.StatusUnauthorized, "Sessão ausente", "Nenhum cookie de sessão encontrado"))
		return
	}

	claims, err := c.jwtService.ValidateToken(cookie)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(http.StatusUnauthorized, "Sessão inválida", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.SessionResponse{
		UserID:    claims.UserID,
		Email:     claims.Email,
		Name:      claims.Name,
		Role:      claims.Role,
		ExpiresAt: claims.ExpiresAt.Time,
	})
}

// Delete encerra a sessão limpando o cookie
// @Summary Encerra a sessão (logout)
// @Description Limpa o cookie de sessão
// @Tags session
// @Produce json
// @Success 200 {object} dto.SuccessResponse
// @Router /session [delete]
func (c *SessionController) Delete(ctx *gin.Context) {
	c.setSessionCookie(ctx, "", -1)
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Sessão encerrada", nil))
}

// setSessionCookie grava (ou limpa) o cookie HTTP-only de sessão
func (c *SessionController) setSessionCookie(ctx *gin.Context, token string, maxAge int) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(auth.CookieName, token, maxAge, "/", "", false, true)
}
