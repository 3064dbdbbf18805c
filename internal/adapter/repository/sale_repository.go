package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/brunohenrique/storage-system/internal/domain/sale"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Erros específicos do repositório de vendas
var (
	ErrSaleNotFound = errors.New("venda não encontrada")
)

// SaleRepository implementa a interface sale.Repository usando PostgreSQL.
// As linhas da venda são um documento JSONB; os totais são gravados na
// criação e devolvidos como estão, nunca recalculados na leitura.
type SaleRepository struct {
	db *pgxpool.Pool
}

// NewSaleRepository cria uma nova instância de SaleRepository
func NewSaleRepository(db *pgxpool.Pool) sale.Repository {
	return &SaleRepository{
		db: db,
	}
}

const saleColumns = `id, date, basket_id, basket_name, basket_sell_price, order_count,
	products, customer_name, tracking_number, total_cost, total_revenue, profit, created_at`

// Create implementa sale.Repository.Create
func (r *SaleRepository) Create(ctx context.Context, s *sale.Sale) error {
	products, err := json.Marshal(s.Products)
	if err != nil {
		return fmt.Errorf("falha ao serializar linhas da venda: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO sales (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, saleColumns)

	_, err = r.db.Exec(ctx, query,
		s.ID,
		s.Date,
		s.BasketID,
		s.BasketName,
		s.BasketSellPrice,
		s.OrderCount,
		products,
		s.CustomerName,
		s.TrackingNumber,
		s.TotalCost,
		s.TotalRevenue,
		s.Profit,
		s.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("falha ao inserir venda: %w", err)
	}

	return nil
}

// FindByID implementa sale.Repository.FindByID
func (r *SaleRepository) FindByID(ctx context.Context, id string) (*sale.Sale, error) {
	query := fmt.Sprintf("SELECT %s FROM sales WHERE id = $1", saleColumns)

	s, err := scanSale(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSaleNotFound
		}
		return nil, fmt.Errorf("falha ao buscar venda: %w", err)
	}

	return s, nil
}

// List implementa sale.Repository.List
func (r *SaleRepository) List(ctx context.Context, limit, offset int) ([]*sale.Sale, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM sales
		ORDER BY date DESC
		LIMIT $1 OFFSET $2
	`, saleColumns)

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar vendas: %w", err)
	}
	defer rows.Close()

	return collectSales(rows)
}

// FindByBasket implementa sale.Repository.FindByBasket
func (r *SaleRepository) FindByBasket(ctx context.Context, basketID string, limit, offset int) ([]*sale.Sale, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM sales
		WHERE basket_id = $1
		ORDER BY date DESC
		LIMIT $2 OFFSET $3
	`, saleColumns)

	rows, err := r.db.Query(ctx, query, basketID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar vendas da cesta: %w", err)
	}
	defer rows.Close()

	return collectSales(rows)
}

// Delete implementa sale.Repository.Delete
func (r *SaleRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM sales WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("falha ao remover venda: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrSaleNotFound
	}

	return nil
}

// Count implementa sale.Repository.Count
func (r *SaleRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM sales").Scan(&count); err != nil {
		return 0, fmt.Errorf("falha ao contar vendas: %w", err)
	}
	return count, nil
}

// scanSale lê uma venda de uma linha de resultado
func scanSale(row pgx.Row) (*sale.Sale, error) {
	s := &sale.Sale{}
	var products []byte

	err := row.Scan(
		&s.ID,
		&s.Date,
		&s.BasketID,
		&s.BasketName,
		&s.BasketSellPrice,
		&s.OrderCount,
		&products,
		&s.CustomerName,
		&s.TrackingNumber,
		&s.TotalCost,
		&s.TotalRevenue,
		&s.Profit,
		&s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(products, &s.Products); err != nil {
		return nil, fmt.Errorf("falha ao desserializar linhas da venda: %w", err)
	}

	return s, nil
}

// collectSales lê todas as vendas de um conjunto de resultados
func collectSales(rows pgx.Rows) ([]*sale.Sale, error) {
	sales := make([]*sale.Sale, 0)
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("falha ao ler venda: %w", err)
		}
		sales = append(sales, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("falha ao percorrer vendas: %w", err)
	}

	return sales, nil
}
