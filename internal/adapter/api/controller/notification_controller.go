package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/brunohenrique/storage-system/internal/adapter/api/dto"
	"github.com/brunohenrique/storage-system/internal/adapter/repository"
	"github.com/brunohenrique/storage-system/internal/domain/notification"
	"github.com/gin-gonic/gin"
)

// NotificationController gerencia as requisições relacionadas a notificações
type NotificationController struct {
	notificationRepository notification.Repository
}

// NewNotificationController cria uma nova instância de NotificationController
func NewNotificationController(notificationRepository notification.Repository) *NotificationController {
	return &NotificationController{
		notificationRepository: notificationRepository,
	}
}

// List lista as notificações
// @Summary Lista as notificações
// @Description Lista as notificações mais recentes primeiro, com filtro opcional de não lidas
// @Tags notifications
// @Produce json
// @Param unread query bool false "Apenas não lidas"
// @Param page query int false "Página"
// @Param page_size query int false "Itens por página"
// @Success 200 {object} dto.NotificationListResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /notifications [get]
func (c *NotificationController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("page_size", "20"))
	pagination := dto.GetPagination(page, pageSize)

	onlyUnread := ctx.Query("unread") == "true"

	notifications, err := c.notificationRepository.List(ctx, onlyUnread, pagination.Limit(), pagination.Offset())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao listar notificações", err.Error()))
		return
	}

	unreadCount, err := c.notificationRepository.CountUnread(ctx)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao contar notificações", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToNotificationListResponse(notifications, unreadCount, pagination.Page, pagination.PageSize))
}

// MarkAsRead marca uma notificação como lida
// @Summary Marca uma notificação como lida
// @Description Transição de mão única: unread -> read
// @Tags notifications
// @Produce json
// @Param id path string true "ID da notificação"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /notifications/{id}/read [patch]
func (c *NotificationController) MarkAsRead(ctx *gin.Context) {
	id := ctx.Param("id")

	if err := c.notificationRepository.MarkAsRead(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotificationNotFound) {
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Notificação não encontrada", ""))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao marcar notificação", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Notificação marcada como lida", nil))
}

// MarkAllAsRead marca todas as notificações não lidas como lidas.
// A operação é não atômica: primeiro consulta os IDs não lidos e depois
// aplica o lote; uma notificação criada entre os dois passos não é
// coberta.
// @Summary Marca todas as notificações como lidas
// @Description Consulta as não lidas e aplica a marcação em lote (não atômico)
// @Tags notifications
// @Produce json
// @Success 200 {object} dto.SuccessResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /notifications/read-all [post]
func (c *NotificationController) MarkAllAsRead(ctx *gin.Context) {
	ids, err := c.notificationRepository.FindUnreadIDs(ctx)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao buscar notificações não lidas", err.Error()))
		return
	}

	if err := c.notificationRepository.MarkManyAsRead(ctx, ids); err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao marcar notificações", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Notificações marcadas como lidas", map[string]int{"marked": len(ids)}))
}

// Cleanup remove notificações antigas
// @Summary Remove notificações antigas
// @Description Remove notificações mais antigas que N dias; com read_only=true, remove apenas as já lidas
// @Tags notifications
// @Produce json
// @Param days query int false "Idade mínima em dias (padrão 30)"
// @Param read_only query bool false "Remover apenas notificações lidas"
// @Success 200 {object} dto.CleanupResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /notifications/cleanup [delete]
func (c *NotificationController) Cleanup(ctx *gin.Context) {
	days, err := strconv.Atoi(ctx.DefaultQuery("days", "30"))
	if err != nil || days < 1 {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Parâmetro inválido", "days deve ser um inteiro positivo"))
		return
	}

	var deleted int
	if ctx.Query("read_only") == "true" {
		deleted, err = c.notificationRepository.DeleteReadOlderThan(ctx, days)
	} else {
		deleted, err = c.notificationRepository.DeleteOlderThan(ctx, days)
	}

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao limpar notificações", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.CleanupResponse{Deleted: deleted})
}
