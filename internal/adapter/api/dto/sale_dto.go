package dto

import (
	"time"

	"github.com/brunohenrique/storage-system/internal/domain/sale"
	salesvc "github.com/brunohenrique/storage-system/internal/service/sale"
)

// SaleLineRequest representa uma linha de venda informada pelo cliente.
// Linhas com quantidade zero são descartadas na criação.
type SaleLineRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Qty       int    `json:"qty" binding:"gte=0"`
}

// SaleRequest representa os dados para criação ou edição de uma venda
type SaleRequest struct {
	BasketID       string            `json:"basket_id" binding:"required"`
	Lines          []SaleLineRequest `json:"lines" binding:"required"`
	CustomerName   string            `json:"customer_name"`
	TrackingNumber string            `json:"tracking_number"`
	OrderCount     int               `json:"order_count"`
	Date           time.Time         `json:"date"`
}

// SaleLineResponse representa uma linha de venda na resposta
type SaleLineResponse struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Qty         int     `json:"qty"`
	PriceAtSale float64 `json:"price_at_sale"`
}

// SaleResponse representa a resposta com dados de uma venda
type SaleResponse struct {
	ID              string             `json:"id"`
	Date            time.Time          `json:"date"`
	BasketID        string             `json:"basket_id"`
	BasketName      string             `json:"basket_name"`
	BasketSellPrice float64            `json:"basket_sell_price"`
	OrderCount      int                `json:"order_count"`
	Products        []SaleLineResponse `json:"products"`
	CustomerName    string             `json:"customer_name"`
	TrackingNumber  string             `json:"tracking_number"`
	TotalCost       float64            `json:"total_cost"`
	TotalRevenue    float64            `json:"total_revenue"`
	Profit          float64            `json:"profit"`
	CreatedAt       time.Time          `json:"created_at"`
}

// SaleListResponse representa a resposta com a lista de vendas paginada
type SaleListResponse struct {
	Data       []SaleResponse `json:"data"`
	TotalCount int            `json:"total_count"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
}

// ToCreateInput converte o DTO de requisição para a entrada do serviço de vendas
func (r SaleRequest) ToCreateInput() salesvc.CreateInput {
	lines := make([]salesvc.LineInput, len(r.Lines))
	for i, l := range r.Lines {
		lines[i] = salesvc.LineInput{ProductID: l.ProductID, Qty: l.Qty}
	}

	return salesvc.CreateInput{
		BasketID:       r.BasketID,
		Lines:          lines,
		CustomerName:   r.CustomerName,
		TrackingNumber: r.TrackingNumber,
		OrderCount:     r.OrderCount,
		Date:           r.Date,
	}
}

// ToSaleResponse converte uma venda do domínio para DTO de resposta
func ToSaleResponse(s *sale.Sale) SaleResponse {
	products := make([]SaleLineResponse, len(s.Products))
	for i, l := range s.Products {
		products[i] = SaleLineResponse{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Qty:         l.Qty,
			PriceAtSale: l.PriceAtSale,
		}
	}

	return SaleResponse{
		ID:              s.ID,
		Date:            s.Date,
		BasketID:        s.BasketID,
		BasketName:      s.BasketName,
		BasketSellPrice: s.BasketSellPrice,
		OrderCount:      s.OrderCount,
		Products:        products,
		CustomerName:    s.CustomerName,
		TrackingNumber:  s.TrackingNumber,
		TotalCost:       s.TotalCost,
		TotalRevenue:    s.TotalRevenue,
		Profit:          s.Profit,
		CreatedAt:       s.CreatedAt,
	}
}

// ToSaleListResponse converte uma lista de vendas para DTO de resposta paginada
func ToSaleListResponse(sales []*sale.Sale, totalCount, page, pageSize int) SaleListResponse {
	data := make([]SaleResponse, len(sales))
	for i, s := range sales {
		data[i] = ToSaleResponse(s)
	}

	return SaleListResponse{
		Data:       data,
		TotalCount: totalCount,
		Page:       page,
		PageSize:   pageSize,
	}
}
