package route

import (
	"github.com/brunohenrique/storage-system/internal/adapter/api/controller"
	"github.com/gin-gonic/gin"
)

// SetupSaleRoutes configura as rotas para vendas
func SetupSaleRoutes(router *gin.RouterGroup, saleController *controller.SaleController) {
	saleRouter := router.Group("/sales")
	{
		saleRouter.GET("", saleController.List)
		saleRouter.GET("/:id", saleController.GetByID)
		saleRouter.POST("", saleController.Create)
		saleRouter.PUT("/:id", saleController.Edit)

		// A exclusão passa pelo ciclo de vida completo: devolve o estoque
		// antes de remover o registro da venda
		saleRouter.DELETE("/:id", saleController.Delete)
	}
}
