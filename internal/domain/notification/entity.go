package notification

import (
	"time"
)

// Type representa o nível da notificação
type Type string

// Source indica qual fluxo originou a mudança de estoque
type Source string

// Action indica a direção da mudança de estoque
type Action string

// Constantes para Type
const (
	TypeInfo    Type = "info"
	TypeWarning Type = "warning"
	TypeError   Type = "error"
	TypeSuccess Type = "success"
)

// Constantes para Source. A origem determina qual ramo de notificação
// dispara na reconciliação de estoque: ajustes manuais (stock_modal)
// geram apenas a notificação genérica de atualização; vendas (sales)
// geram apenas os alertas de limite. Os dois ramos são mutuamente
// exclusivos por decisão de design, para evitar alertas duplicados.
const (
	SourceStockModal Source = "stock_modal"
	SourceSales      Source = "sales"
)

// Constantes para Action
const (
	ActionAdd    Action = "add"
	ActionRemove Action = "remove"
)

// Metadata carrega o contexto de domínio da notificação
type Metadata struct {
	ProductID  string `json:"productId,omitempty"`
	BasketID   string `json:"basketId,omitempty"`
	StockLevel int    `json:"stockLevel"`
	Action     Action `json:"action,omitempty"`
	Source     Source `json:"source,omitempty"`
}

// Notification representa um alerta de domínio exibido ao usuário.
// O estado de leitura só transita em um sentido: unread -> read.
type Notification struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      Type      `json:"type"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
	Metadata  Metadata  `json:"metadata"`
}
