package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/brunohenrique/storage-system/internal/domain/basket"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Erros específicos do repositório de cestas
var (
	ErrBasketNotFound = errors.New("cesta não encontrada")
)

// BasketRepository implementa a interface basket.Repository usando PostgreSQL.
// A lista de produtos é armazenada como um documento JSONB dentro da linha
// da cesta e regravada por inteiro a cada alteração, reproduzindo a
// semântica de documento do sistema original (read-modify-write, última
// escrita vence).
type BasketRepository struct {
	db *pgxpool.Pool
}

// NewBasketRepository cria uma nova instância de BasketRepository
func NewBasketRepository(db *pgxpool.Pool) basket.Repository {
	return &BasketRepository{
		db: db,
	}
}

// Create implementa basket.Repository.Create
func (r *BasketRepository) Create(ctx context.Context, b *basket.Basket) error {
	products, err := json.Marshal(productsOrEmpty(b.Products))
	if err != nil {
		return fmt.Errorf("falha ao serializar produtos: %w", err)
	}

	query := `
		INSERT INTO baskets (id, name, sell_price, products, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err = r.db.Exec(ctx, query, b.ID, b.Name, b.SellPrice, products, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("falha ao inserir cesta: %w", err)
	}

	return nil
}

// FindByID implementa basket.Repository.FindByID
func (r *BasketRepository) FindByID(ctx context.Context, id string) (*basket.Basket, error) {
	query := `
		SELECT id, name, sell_price, products, created_at, updated_at
		FROM baskets
		WHERE id = $1
	`

	b := &basket.Basket{}
	var products []byte

	err := r.db.QueryRow(ctx, query, id).Scan(
		&b.ID,
		&b.Name,
		&b.SellPrice,
		&products,
		&b.CreatedAt,
		&b.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBasketNotFound
		}
		return nil, fmt.Errorf("falha ao buscar cesta: %w", err)
	}

	if err := json.Unmarshal(products, &b.Products); err != nil {
		return nil, fmt.Errorf("falha ao desserializar produtos: %w", err)
	}

	return b, nil
}

// List implementa basket.Repository.List
func (r *BasketRepository) List(ctx context.Context, limit, offset int) ([]*basket.Basket, error) {
	query := `
		SELECT id, name, sell_price, products, created_at, updated_at
		FROM baskets
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar cestas: %w", err)
	}
	defer rows.Close()

	baskets := make([]*basket.Basket, 0)
	for rows.Next() {
		b := &basket.Basket{}
		var products []byte

		if err := rows.Scan(&b.ID, &b.Name, &b.SellPrice, &products, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("falha ao ler cesta: %w", err)
		}

		if err := json.Unmarshal(products, &b.Products); err != nil {
			return nil, fmt.Errorf("falha ao desserializar produtos: %w", err)
		}

		baskets = append(baskets, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("falha ao percorrer cestas: %w", err)
	}

	return baskets, nil
}

// Update implementa basket.Repository.Update
func (r *BasketRepository) Update(ctx context.Context, b *basket.Basket) error {
	products, err := json.Marshal(productsOrEmpty(b.Products))
	if err != nil {
		return fmt.Errorf("falha ao serializar produtos: %w", err)
	}

	query := `
		UPDATE baskets
		SET name = $2, sell_price = $3, products = $4, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query, b.ID, b.Name, b.SellPrice, products)
	if err != nil {
		return fmt.Errorf("falha ao atualizar cesta: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrBasketNotFound
	}

	return nil
}

// UpdateProducts implementa basket.Repository.UpdateProducts.
// Regrava o documento de produtos inteiro em um único UPDATE, sem
// condição de versão: escritas concorrentes sobre a mesma cesta são
// última-escrita-vence.
func (r *BasketRepository) UpdateProducts(ctx context.Context, id string, products []basket.Product) error {
	payload, err := json.Marshal(productsOrEmpty(products))
	if err != nil {
		return fmt.Errorf("falha ao serializar produtos: %w", err)
	}

	query := `
		UPDATE baskets
		SET products = $2, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query, id, payload)
	if err != nil {
		return fmt.Errorf("falha ao atualizar produtos da cesta: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrBasketNotFound
	}

	return nil
}

// Delete implementa basket.Repository.Delete
func (r *BasketRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM baskets WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("falha ao remover cesta: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrBasketNotFound
	}

	return nil
}

// Count implementa basket.Repository.Count
func (r *BasketRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM baskets").Scan(&count); err != nil {
		return 0, fmt.Errorf("falha ao contar cestas: %w", err)
	}
	return count, nil
}

// productsOrEmpty garante que o documento persistido seja sempre um
// array JSON, nunca null
func productsOrEmpty(products []basket.Product) []basket.Product {
	if products == nil {
		return []basket.Product{}
	}
	return products
}
