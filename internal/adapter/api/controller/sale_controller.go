package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/brunohenrique/storage-system/internal/adapter/api/dto"
	"github.com/brunohenrique/storage-system/internal/adapter/repository"
	"github.com/brunohenrique/storage-system/internal/domain/sale"
	salesvc "github.com/brunohenrique/storage-system/internal/service/sale"
	"github.com/brunohenrique/storage-system/internal/service/stock"
	"github.com/gin-gonic/gin"
)

// SaleController gerencia as requisições relacionadas a vendas
type SaleController struct {
	saleService    *salesvc.Service
	saleRepository sale.Repository
}

// NewSaleController cria uma nova instância de SaleController
func NewSaleController(saleService *salesvc.Service, saleRepository sale.Repository) *SaleController {
	return &SaleController{
		saleService:    saleService,
		saleRepository: saleRepository,
	}
}

// Create registra uma nova venda
// @Summary Registra uma nova venda
// @Description Registra uma venda, congela preços e totais, e decrementa o estoque de cada linha
// @Tags sales
// @Accept json
// @Produce json
// @Param sale body dto.SaleRequest true "Dados da venda"
// @Success 201 {object} dto.SaleResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /sales [post]
func (c *SaleController) Create(ctx *gin.Context) {
	var request dto.SaleRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	created, err := c.saleService.Create(ctx, request.ToCreateInput())
	if err != nil {
		// A venda pode ter sido persistida com o estoque decrementado só
		// em parte; nesse caso devolvemos a venda junto com o aviso
		if created != nil {
			ctx.JSON(http.StatusInternalServerError, dto.SuccessResponse{
				Message: "Venda registrada",
				Warning: "O estoque foi decrementado apenas parcialmente: " + err.Error(),
				Data:    dto.ToSaleResponse(created),
			})
			return
		}
		c.writeSaleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToSaleResponse(created))
}

// List lista as vendas com paginação
// @Summary Lista as vendas
// @Description Lista as vendas mais recentes primeiro, com filtro opcional por cesta
// @Tags sales
// @Produce json
// @Param page query int false "Página"
// @Param page_size query int false "Itens por página"
// @Param basket_id query string false "Filtrar por cesta"
// @Success 200 {object} dto.SaleListResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /sales [get]
func (c *SaleController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("page_size", "20"))
	pagination := dto.GetPagination(page, pageSize)

	var sales []*sale.Sale
	var err error

	if basketID := ctx.Query("basket_id"); basketID != "" {
		sales, err = c.saleRepository.FindByBasket(ctx, basketID, pagination.Limit(), pagination.Offset())
	} else {
		sales, err = c.saleRepository.List(ctx, pagination.Limit(), pagination.Offset())
	}

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao listar vendas", err.Error()))
		return
	}

	totalCount, err := c.saleRepository.Count(ctx)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao contar vendas", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToSaleListResponse(sales, totalCount, pagination.Page, pagination.PageSize))
}

// GetByID busca uma venda pelo ID
// @Summary Busca uma venda pelo ID
// @Description Busca uma venda com seus totais persistidos
// @Tags sales
// @Produce json
// @Param id path string true "ID da venda"
// @Success 200 {object} dto.SaleResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /sales/{id} [get]
func (c *SaleController) GetByID(ctx *gin.Context) {
	id := ctx.Param("id")

	s, err := c.saleRepository.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSaleNotFound) {
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Venda não encontrada", ""))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao buscar venda", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToSaleResponse(s))
}

// Edit substitui uma venda existente
// @Summary Edita uma venda
// @Description A edição é um delete+recreate: a venda antiga é removida, o estoque é ajustado pela diferença de quantidades e uma nova venda é criada com identidade própria. Se a cesta não existir mais, a edição aborta por inteiro.
// @Tags sales
// @Accept json
// @Produce json
// @Param id path string true "ID da venda"
// @Param sale body dto.SaleRequest true "Novos dados da venda"
// @Success 200 {object} dto.SaleResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /sales/{id} [put]
func (c *SaleController) Edit(ctx *gin.Context) {
	id := ctx.Param("id")

	var request dto.SaleRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	edited, err := c.saleService.Edit(ctx, id, request.ToCreateInput())
	if err != nil {
		c.writeSaleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToSaleResponse(edited))
}

// Delete remove uma venda e devolve o estoque vendido
// @Summary Remove uma venda
// @Description Remove a venda e devolve o estoque de cada linha à cesta. Se a cesta não existir mais, a venda é removida mesmo assim e a resposta carrega um aviso.
// @Tags sales
// @Produce json
// @Param id path string true "ID da venda"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /sales/{id} [delete]
func (c *SaleController) Delete(ctx *gin.Context) {
	id := ctx.Param("id")

	result, err := c.saleService.Delete(ctx, id)
	if err != nil {
		c.writeSaleError(ctx, err)
		return
	}

	response := dto.NewSuccessResponse("Venda removida", nil)
	if !result.StockReturned {
		response.Warning = "A cesta desta venda não existe mais; o estoque não foi devolvido"
	}

	ctx.JSON(http.StatusOK, response)
}

// writeSaleError mapeia os erros do serviço de vendas para respostas HTTP
func (c *SaleController) writeSaleError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrSaleNotFound):
		ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Venda não encontrada", ""))
	case errors.Is(err, repository.ErrBasketNotFound):
		ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Cesta não encontrada", "A cesta desta venda não existe; a operação foi abortada"))
	case errors.Is(err, stock.ErrProductNotFound):
		ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Produto não encontrado", "Um dos produtos informados não existe na cesta"))
	case errors.Is(err, salesvc.ErrEmptySale):
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Venda sem itens", "Informe ao menos uma linha com quantidade maior que zero"))
	default:
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao processar venda", err.Error()))
	}
}
