package dto

import (
	"time"

	"github.com/brunohenrique/storage-system/internal/domain/basket"
)

// BasketRequest representa os dados de uma cesta para criação ou atualização
type BasketRequest struct {
	Name      string  `json:"name" binding:"required"`
	SellPrice float64 `json:"sell_price" binding:"required,gt=0"`
}

// ProductRequest representa os dados de um novo produto da cesta
type ProductRequest struct {
	Name     string  `json:"name" binding:"required"`
	Price    float64 `json:"price" binding:"required,gte=0"`
	Stock    int     `json:"stock"`
	MinStock int     `json:"min_stock" binding:"gte=0"`
	PackSize int     `json:"pack_size" binding:"gte=0"`
}

// ProductUpdateRequest representa uma atualização parcial de um produto.
// Campos omitidos mantêm o valor atual. Source indica a origem da
// mudança e controla qual ramo de notificação dispara.
type ProductUpdateRequest struct {
	Name     *string  `json:"name"`
	Price    *float64 `json:"price"`
	Stock    *int     `json:"stock"`
	MinStock *int     `json:"min_stock"`
	PackSize *int     `json:"pack_size"`
	Source   string   `json:"source"`
}

// ProductResponse representa a resposta com dados de um produto
type ProductResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Stock    int     `json:"stock"`
	MinStock int     `json:"min_stock"`
	Price    float64 `json:"price"`
	PackSize int     `json:"pack_size"`
}

// BasketResponse representa a resposta com dados de uma cesta
type BasketResponse struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	SellPrice float64           `json:"sell_price"`
	Products  []ProductResponse `json:"products"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// BasketListResponse representa a resposta com a lista de cestas paginada
type BasketListResponse struct {
	Data       []BasketResponse `json:"data"`
	TotalCount int              `json:"total_count"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
}

// ToProductResponse converte um produto do domínio para DTO de resposta
func ToProductResponse(p basket.Product) ProductResponse {
	return ProductResponse{
		ID:       p.ID,
		Name:     p.Name,
		Stock:    p.Stock,
		MinStock: p.MinStock,
		Price:    p.Price,
		PackSize: p.PackSize,
	}
}

// ToBasketResponse converte uma cesta do domínio para DTO de resposta
func ToBasketResponse(b *basket.Basket) BasketResponse {
	products := make([]ProductResponse, len(b.Products))
	for i, p := range b.Products {
		products[i] = ToProductResponse(p)
	}

	return BasketResponse{
		ID:        b.ID,
		Name:      b.Name,
		SellPrice: b.SellPrice,
		Products:  products,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

// ToBasketListResponse converte uma lista de cestas para DTO de resposta paginada
func ToBasketListResponse(baskets []*basket.Basket, totalCount, page, pageSize int) BasketListResponse {
	data := make([]BasketResponse, len(baskets))
	for i, b := range baskets {
		data[i] = ToBasketResponse(b)
	}

	return BasketListResponse{
		Data:       data,
		TotalCount: totalCount,
		Page:       page,
		PageSize:   pageSize,
	}
}
