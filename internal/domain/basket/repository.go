package basket

import (
	"context"
)

// Repository define a interface para operações de repositório de cestas
type Repository interface {
	// Create cria uma nova cesta
	Create(ctx context.Context, b *Basket) error

	// FindByID busca uma cesta pelo ID
	FindByID(ctx context.Context, id string) (*Basket, error)

	// List lista as cestas com paginação
	List(ctx context.Context, limit, offset int) ([]*Basket, error)

	// Update atualiza os dados de uma cesta existente (nome, preço e produtos)
	Update(ctx context.Context, b *Basket) error

	// UpdateProducts regrava a lista completa de produtos da cesta em um único UPDATE.
	// Esta é a única forma de persistir mudanças de estoque.
	UpdateProducts(ctx context.Context, id string, products []Product) error

	// Delete remove uma cesta
	Delete(ctx context.Context, id string) error

	// Count conta quantas cestas existem
	Count(ctx context.Context) (int, error)
}
