package controller

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/brunohenrique/storage-system/internal/adapter/api/dto"
	"github.com/brunohenrique/storage-system/internal/adapter/repository"
	"github.com/brunohenrique/storage-system/internal/domain/user"
	"github.com/brunohenrique/storage-system/pkg/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UserController gerencia as requisições relacionadas a usuários
type UserController struct {
	userRepository user.Repository
}

// NewUserController cria uma nova instância de UserController
func NewUserController(userRepository user.Repository) *UserController {
	return &UserController{
		userRepository: userRepository,
	}
}

// GetCurrent retorna o usuário autenticado com seu papel
// @Summary Retorna o usuário autenticado
// @Description Busca o usuário das claims do token e retorna seus dados, incluindo o papel
// @Tags users
// @Produce json
// @Security Bearer
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /user [get]
func (c *UserController) GetCurrent(ctx *gin.Context) {
	userID := ctx.GetString(auth.ContextUserID)
	if userID == "" {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(http.StatusUnauthorized, "Autenticação requerida", ""))
		return
	}

	u, err := c.userRepository.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Usuário não encontrado", ""))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao buscar usuário", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToUserResponse(u))
}

// SetRole define o papel de um usuário
// @Summary Define o papel de um usuário
// @Description Atualiza o papel (owner, editor ou member) do usuário com o email informado. Restrito ao dono.
// @Tags users
// @Accept json
// @Produce json
// @Security Bearer
// @Param role body dto.UserRoleRequest true "Email e novo papel"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /user [post]
func (c *UserController) SetRole(ctx *gin.Context) {
	var request dto.UserRoleRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	role := user.Role(request.Role)
	if !user.ValidRole(role) {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Papel inválido", "Use owner, editor ou member"))
		return
	}

	u, err := c.userRepository.FindByEmail(ctx, request.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Usuário não encontrado", ""))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao buscar usuário", err.Error()))
		return
	}

	if err := c.userRepository.UpdateRole(ctx, u.ID, role); err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao atualizar papel", err.Error()))
		return
	}

	u.Role = role
	ctx.JSON(http.StatusOK, dto.ToUserResponse(u))
}

// List lista os usuários com paginação
// @Summary Lista os usuários
// @Description Lista os usuários do sistema com paginação. Restrito ao dono.
// @Tags users
// @Produce json
// @Security Bearer
// @Param page query int false "Página"
// @Param page_size query int false "Itens por página"
// @Success 200 {object} dto.UserListResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /users [get]
func (c *UserController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("page_size", "20"))
	pagination := dto.GetPagination(page, pageSize)

	users, err := c.userRepository.List(ctx, pagination.Limit(), pagination.Offset())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao listar usuários", err.Error()))
		return
	}

	totalCount, err := c.userRepository.Count(ctx)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao contar usuários", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToUserListResponse(users, totalCount, pagination.Page, pagination.PageSize))
}

// Create cria um novo usuário
// @Summary Cria um novo usuário
// @Description Cria um novo usuário com o papel informado. Restrito ao dono.
// @Tags users
// @Accept json
// @Produce json
// @Security Bearer
// @Param user body dto.UserRequest true "Dados do usuário"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /users [post]
func (c *UserController) Create(ctx *gin.Context) {
	var request dto.UserRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	role := user.Role(request.Role)
	if !user.ValidRole(role) {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Papel inválido", "Use owner, editor ou member"))
		return
	}

	u := &user.User{
		ID:        uuid.New().String(),
		Name:      request.Name,
		Email:     request.Email,
		Role:      role,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := u.SetPassword(request.Password); err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao processar senha", err.Error()))
		return
	}

	if err := c.userRepository.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrUserDuplicateEmail) {
			ctx.JSON(http.StatusConflict, dto.NewErrorResponse(http.StatusConflict, "Usuário com mesmo email já existe", ""))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao criar usuário", err.Error()))
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToUserResponse(u))
}

// CreateFirstOwner cria o primeiro usuário dono do sistema.
// A rota não exige autenticação, mas só funciona enquanto não houver
// nenhum usuário cadastrado.
// @Summary Cria o primeiro usuário dono
// @Description Rota de configuração inicial: cria o primeiro usuário com papel owner. Falha se já existir algum usuário.
// @Tags setup
// @Accept json
// @Produce json
// @Param user body dto.UserRequest true "Dados do usuário"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /setup/owner [post]
func (c *UserController) CreateFirstOwner(ctx *gin.Context) {
	count, err := c.userRepository.Count(ctx)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao verificar usuários", err.Error()))
		return
	}

	if count > 0 {
		ctx.JSON(http.StatusConflict, dto.NewErrorResponse(http.StatusConflict, "Sistema já configurado", "Já existe um usuário cadastrado"))
		return
	}

	var request dto.UserRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	u := &user.User{
		ID:        uuid.New().String(),
		Name:      request.Name,
		Email:     request.Email,
		Role:      user.RoleOwner,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := u.SetPassword(request.Password); err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao processar senha", err.Error()))
		return
	}

	if err := c.userRepository.Create(ctx, u); err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao criar usuário", err.Error()))
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToUserResponse(u))
}
