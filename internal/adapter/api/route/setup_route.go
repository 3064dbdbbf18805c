package route

import (
	"github.com/brunohenrique/storage-system/internal/adapter/api/controller"
	"github.com/gin-gonic/gin"
)

// SetupSetupRoutes configura as rotas para configuração inicial do sistema
func SetupSetupRoutes(router *gin.RouterGroup, userController *controller.UserController) {
	setupRouter := router.Group("/setup")
	{
		// Rota para criar o primeiro usuário dono do sistema.
		// Não requer autenticação; só funciona com a base de usuários vazia.
		setupRouter.POST("/owner", userController.CreateFirstOwner)
	}
}
