package route

import (
	"github.com/brunohenrique/storage-system/internal/adapter/api/controller"
	"github.com/gin-gonic/gin"
)

// SetupSessionRoutes configura as rotas do ciclo de vida da sessão.
// Nenhuma delas exige autenticação prévia: o GET valida o próprio
// cookie e responde 401 quando ele é ausente ou inválido.
func SetupSessionRoutes(router *gin.RouterGroup, sessionController *controller.SessionController) {
	sessionRouter := router.Group("/session")
	{
		sessionRouter.POST("", sessionController.Create)
		sessionRouter.GET("", sessionController.Get)
		sessionRouter.DELETE("", sessionController.Delete)
	}
}
