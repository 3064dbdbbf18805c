package controller

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/brunohenrique/storage-system/internal/adapter/api/dto"
	"github.com/brunohenrique/storage-system/internal/adapter/repository"
	"github.com/brunohenrique/storage-system/internal/domain/basket"
	"github.com/brunohenrique/storage-system/internal/domain/notification"
	"github.com/brunohenrique/storage-system/internal/service/stock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BasketController gerencia as requisições relacionadas a cestas e aos
// produtos embutidos nelas
type BasketController struct {
	basketRepository basket.Repository
	reconciler       *stock.Reconciler
}

// NewBasketController cria uma nova instância de BasketController
func NewBasketController(basketRepository basket.Repository, reconciler *stock.Reconciler) *BasketController {
	return &BasketController{
		basketRepository: basketRepository,
		reconciler:       reconciler,
	}
}

// Create cria uma nova cesta
// @Summary Cria uma nova cesta
// @Description Cria uma nova cesta vazia
// @Tags baskets
// @Accept json
// @Produce json
// @Param basket body dto.BasketRequest true "Dados da cesta"
// @Success 201 {object} dto.BasketResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /baskets [post]
func (c *BasketController) Create(ctx *gin.Context) {
	var request dto.BasketRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	b := &basket.Basket{
		ID:        uuid.New().String(),
		Name:      request.Name,
		SellPrice: request.SellPrice,
		Products:  []basket.Product{},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := c.basketRepository.Create(ctx, b); err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao criar cesta", err.Error()))
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToBasketResponse(b))
}

// GetByID busca uma cesta pelo ID
// @Summary Busca uma cesta pelo ID
// @Description Busca uma cesta e seus produtos pelo ID
// @Tags baskets
// @Produce json
// @Param id path string true "ID da cesta"
// @Success 200 {object} dto.BasketResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /baskets/{id} [get]
func (c *BasketController) GetByID(ctx *gin.Context) {
	id := ctx.Param("id")

	b, err := c.basketRepository.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBasketNotFound) {
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Cesta não encontrada", ""))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao buscar cesta", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToBasketResponse(b))
}

// List lista as cestas com paginação
// @Summary Lista as cestas
// @Description Lista as cestas com paginação
// @Tags baskets
// @Produce json
// @Param page query int false "Página"
// @Param page_size query int false "Itens por página"
// @Success 200 {object} dto.BasketListResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /baskets [get]
func (c *BasketController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("page_size", "20"))
	pagination := dto.GetPagination(page, pageSize)

	baskets, err := c.basketRepository.List(ctx, pagination.Limit(), pagination.Offset())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao listar cestas", err.Error()))
		return
	}

	totalCount, err := c.basketRepository.Count(ctx)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao contar cestas", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToBasketListResponse(baskets, totalCount, pagination.Page, pagination.PageSize))
}

// Update atualiza o nome e o preço de venda de uma cesta
// @Summary Atualiza uma cesta
// @Description Atualiza o nome e o preço de venda de uma cesta
// @Tags baskets
// @Accept json
// @Produce json
// @Param id path string true "ID da cesta"
// @Param basket body dto.BasketRequest true "Dados da cesta"
// @Success 200 {object} dto.BasketResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /baskets/{id} [put]
func (c *BasketController) Update(ctx *gin.Context) {
	id := ctx.Param("id")

	var request dto.BasketRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	b, err := c.basketRepository.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBasketNotFound) {
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Cesta não encontrada", ""))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao buscar cesta", err.Error()))
		return
	}

	b.Name = request.Name
	b.SellPrice = request.SellPrice
	b.UpdatedAt = time.Now()

	if err := c.basketRepository.Update(ctx, b); err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao atualizar cesta", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToBasketResponse(b))
}

// Delete remove uma cesta
// @Summary Remove uma cesta
// @Description Remove uma cesta e seus produtos embutidos. Vendas já
// registradas sobrevivem graças aos campos desnormalizados.
// @Tags baskets
// @Produce json
// @Param id path string true "ID da cesta"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /baskets/{id} [delete]
func (c *BasketController) Delete(ctx *gin.Context) {
	id := ctx.Param("id")

	if err := c.basketRepository.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrBasketNotFound) {
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Cesta não encontrada", ""))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao remover cesta", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Cesta removida", nil))
}

// AddProduct adiciona um produto à cesta
// @Summary Adiciona um produto à cesta
// @Description Adiciona um novo produto ao array embutido da cesta
// @Tags baskets
// @Accept json
// @Produce json
// @Param id path string true "ID da cesta"
// @Param product body dto.ProductRequest true "Dados do produto"
// @Success 201 {object} dto.ProductResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /baskets/{id}/products [post]
func (c *BasketController) AddProduct(ctx *gin.Context) {
	id := ctx.Param("id")

	var request dto.ProductRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	b, err := c.basketRepository.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBasketNotFound) {
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Cesta não encontrada", ""))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao buscar cesta", err.Error()))
		return
	}

	p := basket.NewProduct(request.Name, request.Price, request.Stock, request.MinStock, request.PackSize)
	b.Products = append(b.Products, p)

	if err := c.basketRepository.UpdateProducts(ctx, b.ID, b.Products); err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao adicionar produto", err.Error()))
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToProductResponse(p))
}

// UpdateProduct aplica uma atualização parcial a um produto da cesta.
// Toda mudança de estoque passa por aqui, via reconciliação, para que
// as notificações sejam emitidas por um caminho único.
// @Summary Atualiza um produto da cesta
// @Description Aplica uma atualização parcial via reconciliação de estoque. O campo source (stock_modal ou sales) controla qual notificação dispara quando o estoque muda.
// @Tags baskets
// @Accept json
// @Produce json
// @Param id path string true "ID da cesta"
// @Param productId path string true "ID do produto"
// @Param product body dto.ProductUpdateRequest true "Campos a atualizar"
// @Success 200 {object} dto.ProductResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /baskets/{id}/products/{productId} [put]
func (c *BasketController) UpdateProduct(ctx *gin.Context) {
	id := ctx.Param("id")
	productID := ctx.Param("productId")

	var request dto.ProductUpdateRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	source := notification.SourceStockModal
	if request.Source == string(notification.SourceSales) {
		source = notification.SourceSales
	}

	update := stock.ProductUpdate{
		Name:     request.Name,
		Price:    request.Price,
		Stock:    request.Stock,
		MinStock: request.MinStock,
		PackSize: request.PackSize,
	}

	p, err := c.reconciler.Reconcile(ctx, id, productID, update, source)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrBasketNotFound):
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Cesta não encontrada", ""))
		case errors.Is(err, stock.ErrProductNotFound):
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Produto não encontrado", ""))
		default:
			ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao atualizar produto", err.Error()))
		}
		return
	}

	ctx.JSON(http.StatusOK, dto.ToProductResponse(*p))
}

// DeleteProduct remove um produto da cesta
// @Summary Remove um produto da cesta
// @Description Remove um produto do array embutido da cesta
// @Tags baskets
// @Produce json
// @Param id path string true "ID da cesta"
// @Param productId path string true "ID do produto"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /baskets/{id}/products/{productId} [delete]
func (c *BasketController) DeleteProduct(ctx *gin.Context) {
	id := ctx.Param("id")
	productID := ctx.Param("productId")

	b, err := c.basketRepository.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBasketNotFound) {
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Cesta não encontrada", ""))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao buscar cesta", err.Error()))
		return
	}

	idx := b.FindProduct(productID)
	if idx < 0 {
		ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Produto não encontrado", ""))
		return
	}

	b.Products = append(b.Products[:idx], b.Products[idx+1:]...)

	if err := c.basketRepository.UpdateProducts(ctx, b.ID, b.Products); err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao remover produto", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Produto removido", nil))
}
