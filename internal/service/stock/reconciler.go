package stock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/brunohenrique/storage-system/internal/domain/basket"
	"github.com/brunohenrique/storage-system/internal/domain/notification"
	"github.com/brunohenrique/storage-system/pkg/logger"
	"github.com/google/uuid"
)

// Erros específicos do serviço de estoque
var (
	ErrProductNotFound = errors.New("produto não encontrado na cesta")
)

// ProductUpdate representa uma atualização parcial de um produto.
// Campos nil mantêm o valor atual (merge raso).
type ProductUpdate struct {
	Name     *string
	Price    *float64
	Stock    *int
	MinStock *int
	PackSize *int
}

// Reconciler é o ponto único de entrada para mutação de estoque.
// Toda alteração em produtos passa por aqui, para que o caminho de
// emissão de notificações permaneça um só.
//
// Limitação conhecida: a reconciliação é um read-modify-write do array
// completo de produtos da cesta, sem transação nem lock. Duas chamadas
// concorrentes sobre a mesma cesta disputam a escrita e a última vence,
// descartando silenciosamente a atualização intercalada. Isso preserva o
// comportamento do sistema original; o caminho de melhoria seria um
// UPDATE condicional (compare-and-swap) via pgx.Tx.
type Reconciler struct {
	baskets       basket.Repository
	notifications notification.Repository
	log           logger.Logger
}

// NewReconciler cria uma nova instância de Reconciler
func NewReconciler(baskets basket.Repository, notifications notification.Repository, log logger.Logger) *Reconciler {
	return &Reconciler{
		baskets:       baskets,
		notifications: notifications,
		log:           log,
	}
}

// Reconcile aplica uma atualização parcial a um produto da cesta,
// regrava o array de produtos inteiro e, se o estoque mudou, emite a
// notificação correspondente à origem da mudança.
//
// Pré-condição: a cesta e o produto devem existir; caso contrário a
// chamada falha sem escrita parcial.
func (r *Reconciler) Reconcile(ctx context.Context, basketID, productID string, update ProductUpdate, source notification.Source) (*basket.Product, error) {
	b, err := r.baskets.FindByID(ctx, basketID)
	if err != nil {
		return nil, err
	}

	idx := b.FindProduct(productID)
	if idx < 0 {
		return nil, ErrProductNotFound
	}

	p := &b.Products[idx]
	oldStock := p.Stock

	// Merge raso: campos não informados mantêm o valor anterior
	if update.Name != nil {
		p.Name = *update.Name
	}
	if update.Price != nil {
		p.Price = *update.Price
	}
	if update.Stock != nil {
		p.Stock = *update.Stock
	}
	if update.MinStock != nil {
		p.MinStock = *update.MinStock
	}
	if update.PackSize != nil {
		p.PackSize = *update.PackSize
	}

	if err := r.baskets.UpdateProducts(ctx, b.ID, b.Products); err != nil {
		return nil, fmt.Errorf("falha ao persistir produtos da cesta: %w", err)
	}

	// Notificações só disparam quando o estoque foi informado e mudou
	if update.Stock != nil && oldStock != p.Stock {
		r.notify(ctx, b, p, oldStock, source)
	}

	result := *p
	return &result, nil
}

// notify decide qual notificação emitir com base na origem da mudança.
// Os dois ramos são mutuamente exclusivos: mudanças manuais nunca geram
// alerta de limite, e vendas nunca geram a notificação genérica de
// atualização. A assimetria evita alertas duplicados e é intencional.
func (r *Reconciler) notify(ctx context.Context, b *basket.Basket, p *basket.Product, oldStock int, source notification.Source) {
	var n *notification.Notification

	switch source {
	case notification.SourceSales:
		n = r.buildThresholdAlert(b, p)
	default:
		n = r.buildStockUpdate(b, p, oldStock)
	}

	if n == nil {
		return
	}

	if err := r.notifications.Create(ctx, n); err != nil {
		// A notificação é efeito colateral: a falha é registrada mas não
		// desfaz a atualização de estoque já persistida
		r.log.Error("falha ao criar notificação de estoque", "produto", p.ID, "erro", err)
	}
}

// buildStockUpdate monta a notificação genérica de atualização de
// estoque (origem stock_modal). A severidade escala apenas o texto e o
// nível da própria notificação, conforme o novo estoque se aproxima do
// mínimo; não dispara os alertas de limite do fluxo de vendas.
func (r *Reconciler) buildStockUpdate(b *basket.Basket, p *basket.Product, oldStock int) *notification.Notification {
	action := notification.ActionAdd
	if p.Stock < oldStock {
		action = notification.ActionRemove
	}

	nType := notification.TypeInfo
	message := fmt.Sprintf("Estoque de %s alterado de %d para %d unidades", p.Name, oldStock, p.Stock)
	switch {
	case p.Stock <= p.MinStock:
		nType = notification.TypeError
		message = fmt.Sprintf("CRÍTICO: %s — estoque no mínimo ou abaixo (%d)", message, p.MinStock)
	case p.Stock <= 2*p.MinStock:
		nType = notification.TypeWarning
		message = fmt.Sprintf("Atenção: %s — estoque se aproximando do mínimo (%d)", message, p.MinStock)
	}

	return &notification.Notification{
		ID:        uuid.New().String(),
		Title:     "Estoque atualizado",
		Message:   message,
		Type:      nType,
		IsRead:    false,
		CreatedAt: time.Now(),
		Metadata: notification.Metadata{
			ProductID:  p.ID,
			BasketID:   b.ID,
			StockLevel: p.Stock,
			Action:     action,
			Source:     notification.SourceStockModal,
		},
	}
}

// buildThresholdAlert monta o alerta de limite para mudanças originadas
// de vendas. Emite exatamente um alerta crítico (estoque <= mínimo) ou
// um aviso de estoque baixo (mínimo < estoque <= 2x mínimo), ou nada
// quando o estoque está acima das faixas.
func (r *Reconciler) buildThresholdAlert(b *basket.Basket, p *basket.Product) *notification.Notification {
	var nType notification.Type
	var title, message string

	switch {
	case p.Stock <= p.MinStock:
		nType = notification.TypeError
		title = "Alerta crítico de estoque"
		message = fmt.Sprintf("Estoque de %s chegou a %d unidades (mínimo: %d). Reposição urgente.", p.Name, p.Stock, p.MinStock)
	case p.Stock <= 2*p.MinStock:
		nType = notification.TypeWarning
		title = "Estoque baixo"
		message = fmt.Sprintf("Estoque de %s está em %d unidades, se aproximando do mínimo de %d.", p.Name, p.Stock, p.MinStock)
	default:
		return nil
	}

	return &notification.Notification{
		ID:        uuid.New().String(),
		Title:     title,
		Message:   message,
		Type:      nType,
		IsRead:    false,
		CreatedAt: time.Now(),
		Metadata: notification.Metadata{
			ProductID:  p.ID,
			BasketID:   b.ID,
			StockLevel: p.Stock,
			Source:     notification.SourceSales,
		},
	}
}
