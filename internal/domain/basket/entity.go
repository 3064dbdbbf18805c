package basket

import (
	"time"

	"github.com/google/uuid"
)

// Product representa um produto embutido em uma cesta.
// O estoque é um inteiro com sinal: valores negativos são permitidos e
// sinalizam venda a descoberto, nunca são truncados para zero.
type Product struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Stock    int     `json:"stock"`
	MinStock int     `json:"minStock"`
	Price    float64 `json:"price"`
	PackSize int     `json:"packSize"`
}

// Basket representa uma cesta: um conjunto de produtos vendidos juntos
// como uma única unidade vendável. A lista de produtos vive embutida no
// documento da cesta e é regravada por inteiro a cada alteração.
type Basket struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	SellPrice float64   `json:"sell_price"`
	Products  []Product `json:"products"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewProduct cria um novo produto com ID gerado.
// Usamos UUID em vez de timestamp para evitar colisões em inserções rápidas.
func NewProduct(name string, price float64, stock, minStock, packSize int) Product {
	return Product{
		ID:       uuid.New().String(),
		Name:     name,
		Stock:    stock,
		MinStock: minStock,
		Price:    price,
		PackSize: packSize,
	}
}

// FindProduct localiza um produto pelo ID dentro da cesta.
// Retorna o índice do produto ou -1 se não encontrado.
func (b *Basket) FindProduct(productID string) int {
	for i := range b.Products {
		if b.Products[i].ID == productID {
			return i
		}
	}
	return -1
}
