package sale

import (
	"context"
)

// Repository define a interface para operações de repositório de vendas
type Repository interface {
	// Create cria uma nova venda
	Create(ctx context.Context, s *Sale) error

	// FindByID busca uma venda pelo ID
	FindByID(ctx context.Context, id string) (*Sale, error)

	// List lista as vendas com paginação, ordenadas por data decrescente
	List(ctx context.Context, limit, offset int) ([]*Sale, error)

	// FindByBasket lista as vendas de uma determinada cesta
	FindByBasket(ctx context.Context, basketID string, limit, offset int) ([]*Sale, error)

	// Delete remove uma venda
	Delete(ctx context.Context, id string) error

	// Count conta quantas vendas existem
	Count(ctx context.Context) (int, error)
}
