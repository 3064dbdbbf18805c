package route

import (
	"github.com/brunohenrique/storage-system/internal/adapter/api/controller"
	"github.com/brunohenrique/storage-system/internal/domain/user"
	"github.com/brunohenrique/storage-system/pkg/auth"
	"github.com/gin-gonic/gin"
)

// SetupNotificationRoutes configura as rotas para notificações
func SetupNotificationRoutes(router *gin.RouterGroup, notificationController *controller.NotificationController) {
	notificationRouter := router.Group("/notifications")
	{
		notificationRouter.GET("", notificationController.List)
		notificationRouter.PATCH("/:id/read", notificationController.MarkAsRead)
		notificationRouter.POST("/read-all", notificationController.MarkAllAsRead)

		// Limpeza por idade é restrita a dono e editor
		notificationRouter.DELETE("/cleanup",
			auth.RoleAuthMiddleware(string(user.RoleOwner), string(user.RoleEditor)),
			notificationController.Cleanup)
	}
}
