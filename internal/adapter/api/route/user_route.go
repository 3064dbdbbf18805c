package route

import (
	"github.com/brunohenrique/storage-system/internal/adapter/api/controller"
	"github.com/brunohenrique/storage-system/internal/domain/user"
	"github.com/brunohenrique/storage-system/pkg/auth"
	"github.com/gin-gonic/gin"
)

// SetupUserRoutes configura as rotas para usuários e papéis
func SetupUserRoutes(router *gin.RouterGroup, userController *controller.UserController) {
	// Consulta e definição de papel do usuário autenticado
	router.GET("/user", userController.GetCurrent)
	router.POST("/user",
		auth.RoleAuthMiddleware(string(user.RoleOwner)),
		userController.SetRole)

	// Administração de usuários, restrita ao dono
	userRouter := router.Group("/users")
	userRouter.Use(auth.RoleAuthMiddleware(string(user.RoleOwner)))
	{
		userRouter.GET("", userController.List)
		userRouter.POST("", userController.Create)
	}
}
