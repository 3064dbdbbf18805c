package route

import (
	"github.com/brunohenrique/storage-system/internal/adapter/api/controller"
	"github.com/brunohenrique/storage-system/internal/domain/user"
	"github.com/brunohenrique/storage-system/pkg/auth"
	"github.com/gin-gonic/gin"
)

// SetupBasketRoutes configura as rotas para cestas e produtos embutidos
func SetupBasketRoutes(router *gin.RouterGroup, basketController *controller.BasketController) {
	basketRouter := router.Group("/baskets")
	{
		basketRouter.GET("", basketController.List)
		basketRouter.GET("/:id", basketController.GetByID)
		basketRouter.POST("", basketController.Create)
		basketRouter.PUT("/:id", basketController.Update)

		// Exclusão de cesta é restrita a dono e editor
		basketRouter.DELETE("/:id",
			auth.RoleAuthMiddleware(string(user.RoleOwner), string(user.RoleEditor)),
			basketController.Delete)

		basketRouter.POST("/:id/products", basketController.AddProduct)
		basketRouter.PUT("/:id/products/:productId", basketController.UpdateProduct)
		basketRouter.DELETE("/:id/products/:productId",
			auth.RoleAuthMiddleware(string(user.RoleOwner), string(user.RoleEditor)),
			basketController.DeleteProduct)
	}
}
