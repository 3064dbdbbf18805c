package sale

import (
	"time"
)

// Line representa uma linha de venda: quanto de cada produto foi vendido
// e a que preço. O preço é congelado no momento da venda (priceAtSale)
// para que receita e lucro históricos não mudem se o preço do produto
// for alterado depois.
type Line struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Qty         int     `json:"qty"`
	PriceAtSale float64 `json:"priceAtSale"`
}

// Sale representa uma venda concluída. BasketID é uma referência fraca:
// a venda sobrevive à exclusão da cesta graças aos campos desnormalizados
// (basketName, basketSellPrice) copiados na criação. Os totais são
// calculados na criação e persistidos; nunca são recalculados na leitura.
type Sale struct {
	ID              string    `json:"id"`
	Date            time.Time `json:"date"`
	BasketID        string    `json:"basket_id"`
	BasketName      string    `json:"basket_name"`
	BasketSellPrice float64   `json:"basket_sell_price"`
	OrderCount      int       `json:"order_count"`
	Products        []Line    `json:"products"`
	CustomerName    string    `json:"customer_name"`
	TrackingNumber  string    `json:"tracking_number"`
	TotalCost       float64   `json:"total_cost"`
	TotalRevenue    float64   `json:"total_revenue"`
	Profit          float64   `json:"profit"`
	CreatedAt       time.Time `json:"created_at"`
}

// LineFor localiza a linha de venda de um produto.
// Retorna nil se o produto não fez parte da venda.
func (s *Sale) LineFor(productID string) *Line {
	for i := range s.Products {
		if s.Products[i].ProductID == productID {
			return &s.Products[i]
		}
	}
	return nil
}
