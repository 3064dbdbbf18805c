package sale

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/brunohenrique/storage-system/internal/domain/basket"
	"github.com/brunohenrique/storage-system/internal/domain/notification"
	"github.com/brunohenrique/storage-system/internal/domain/sale"
	"github.com/brunohenrique/storage-system/internal/service/stock"
	"github.com/brunohenrique/storage-system/pkg/logger"
	"github.com/google/uuid"
)

// DefaultFeeRate é a taxa fixa da plataforma/marketplace descontada da
// receita de cada venda. Configurável via MARKETPLACE_FEE_RATE, mas o
// valor padrão deve ser mantido para paridade de cálculo com o
// histórico de vendas já registrado.
const DefaultFeeRate = 0.0856

// Erros específicos do ciclo de vida de vendas
var (
	ErrEmptySale = errors.New("venda sem itens com quantidade válida")
)

// LineInput representa uma linha de venda informada pelo chamador
type LineInput struct {
	ProductID string
	Qty       int
}

// CreateInput agrupa os dados para criação (ou recriação) de uma venda
type CreateInput struct {
	BasketID       string
	Lines          []LineInput
	CustomerName   string
	TrackingNumber string
	OrderCount     int
	Date           time.Time
}

// DeleteResult informa o resultado da exclusão de uma venda
type DeleteResult struct {
	// StockReturned indica se o estoque vendido foi devolvido à cesta.
	// Fica false quando a cesta já não existe; nesse caso a venda é
	// removida mesmo assim e o chamador deve avisar o usuário.
	StockReturned bool
}

// Service orquestra o ciclo de vida de vendas: criação, edição e
// exclusão, com os respectivos ajustes de estoque via reconciliação.
//
// Limitação conhecida: criar ou editar uma venda executa N+1 escritas
// sequenciais (o documento da venda mais uma reconciliação por linha)
// sem transação compensatória. Uma falha no meio do laço deixa a venda
// persistida com apenas parte do estoque decrementado. O comportamento
// é herdado do sistema original e está documentado aqui em vez de ser
// silenciosamente "corrigido"; o caminho de melhoria seria envolver
// tudo em uma transação pgx.
type Service struct {
	baskets    basket.Repository
	sales      sale.Repository
	reconciler *stock.Reconciler
	feeRate    float64
	log        logger.Logger
}

// NewService cria uma nova instância do serviço de vendas.
// feeRate <= 0 assume o valor padrão DefaultFeeRate.
func NewService(baskets basket.Repository, sales sale.Repository, reconciler *stock.Reconciler, feeRate float64, log logger.Logger) *Service {
	if feeRate <= 0 {
		feeRate = DefaultFeeRate
	}
	return &Service{
		baskets:    baskets,
		sales:      sales,
		reconciler: reconciler,
		feeRate:    feeRate,
		log:        log,
	}
}

// FeeRate retorna a taxa de marketplace em uso
func (s *Service) FeeRate() float64 {
	return s.feeRate
}

// Create registra uma nova venda e decrementa o estoque de cada linha.
//
// O preço de cada linha é congelado a partir do preço atual do produto
// (priceAtSale), e os totais são calculados uma única vez e persistidos:
//
//	totalCost    = Σ(qty × priceAtSale)
//	totalRevenue = basketSellPrice × orderCount × (1 − feeRate)
//	profit       = totalRevenue − totalCost
//
// A venda persistida é retornada mesmo quando o decremento de estoque
// falha no meio do laço (ver limitação no tipo Service); nesse caso o
// erro acompanha a venda já gravada.
func (s *Service) Create(ctx context.Context, in CreateInput) (*sale.Sale, error) {
	b, err := s.baskets.FindByID(ctx, in.BasketID)
	if err != nil {
		return nil, err
	}

	lines, err := s.buildLines(b, in.Lines, nil)
	if err != nil {
		return nil, err
	}

	orderCount := in.OrderCount
	if orderCount < 1 {
		orderCount = 1
	}

	date := in.Date
	if date.IsZero() {
		date = time.Now()
	}

	newSale := &sale.Sale{
		ID:              uuid.New().String(),
		Date:            date,
		BasketID:        b.ID,
		BasketName:      b.Name,
		BasketSellPrice: b.SellPrice,
		OrderCount:      orderCount,
		Products:        lines,
		CustomerName:    in.CustomerName,
		TrackingNumber:  in.TrackingNumber,
		CreatedAt:       time.Now(),
	}
	s.computeTotals(newSale)

	if err := s.sales.Create(ctx, newSale); err != nil {
		return nil, fmt.Errorf("falha ao registrar venda: %w", err)
	}

	// Uma reconciliação sequencial por linha; sem rollback em caso de
	// falha parcial
	if err := s.applyStockDeltas(ctx, b.ID, deltasFromLines(lines, -1)); err != nil {
		return newSale, fmt.Errorf("venda registrada, mas o estoque foi decrementado apenas parcialmente: %w", err)
	}

	return newSale, nil
}

// Edit substitui uma venda existente. A edição é um delete+recreate: a
// venda antiga é removida e uma nova é inserida com identidade própria
// e totais recalculados, reaproveitando o priceAtSale original de cada
// linha já existente (linhas novas usam o preço atual do produto).
//
// Se a cesta da venda não for encontrada a edição aborta por inteiro,
// sem efeito parcial.
func (s *Service) Edit(ctx context.Context, saleID string, in CreateInput) (*sale.Sale, error) {
	old, err := s.sales.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}

	b, err := s.baskets.FindByID(ctx, old.BasketID)
	if err != nil {
		return nil, err
	}

	lines, err := s.buildLines(b, in.Lines, old)
	if err != nil {
		return nil, err
	}

	// Diferença de quantidade por produto: aumentar a quantidade vendida
	// decrementa o estoque, reduzir devolve a diferença
	deltas := make(map[string]int)
	for _, l := range old.Products {
		deltas[l.ProductID] += l.Qty
	}
	for _, l := range lines {
		deltas[l.ProductID] -= l.Qty
	}
	if err := s.applyStockDeltas(ctx, b.ID, deltas); err != nil {
		return nil, err
	}

	if err := s.sales.Delete(ctx, old.ID); err != nil {
		return nil, fmt.Errorf("falha ao remover a venda original: %w", err)
	}

	orderCount := in.OrderCount
	if orderCount < 1 {
		orderCount = old.OrderCount
	}

	date := in.Date
	if date.IsZero() {
		date = old.Date
	}

	newSale := &sale.Sale{
		ID:              uuid.New().String(),
		Date:            date,
		BasketID:        old.BasketID,
		BasketName:      old.BasketName,
		BasketSellPrice: old.BasketSellPrice,
		OrderCount:      orderCount,
		Products:        lines,
		CustomerName:    in.CustomerName,
		TrackingNumber:  in.TrackingNumber,
		CreatedAt:       time.Now(),
	}
	s.computeTotals(newSale)

	if err := s.sales.Create(ctx, newSale); err != nil {
		return nil, fmt.Errorf("falha ao registrar a venda editada: %w", err)
	}

	return newSale, nil
}

// Delete remove uma venda e devolve o estoque vendido à cesta. A
// devolução usa a origem padrão stock_modal: gera apenas a notificação
// genérica de atualização, sem reavaliar os alertas de limite.
//
// Se a cesta não existir mais, o estoque não é devolvido mas a venda é
// removida mesmo assim — a exclusão do registro sempre prossegue.
func (s *Service) Delete(ctx context.Context, saleID string) (*DeleteResult, error) {
	old, err := s.sales.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}

	result := &DeleteResult{StockReturned: true}

	b, err := s.baskets.FindByID(ctx, old.BasketID)
	if err != nil {
		s.log.Warn("cesta da venda não encontrada, estoque não será devolvido", "venda", old.ID, "cesta", old.BasketID)
		result.StockReturned = false
	} else {
		if err := s.returnStock(ctx, b.ID, old.Products); err != nil {
			return nil, err
		}
	}

	if err := s.sales.Delete(ctx, old.ID); err != nil {
		return nil, fmt.Errorf("falha ao remover venda: %w", err)
	}

	return result, nil
}

// buildLines valida as linhas informadas contra a cesta e congela o
// preço de cada uma. Linhas com quantidade zero (ou negativa) são
// descartadas. Quando old não é nil, o priceAtSale original de linhas
// já presentes na venda é reaproveitado, para manter paridade de
// receita e custo com o histórico.
func (s *Service) buildLines(b *basket.Basket, inputs []LineInput, old *sale.Sale) ([]sale.Line, error) {
	lines := make([]sale.Line, 0, len(inputs))
	for _, in := range inputs {
		if in.Qty <= 0 {
			continue
		}

		idx := b.FindProduct(in.ProductID)
		if idx < 0 {
			return nil, stock.ErrProductNotFound
		}
		p := b.Products[idx]

		price := p.Price
		if old != nil {
			if origLine := old.LineFor(in.ProductID); origLine != nil {
				price = origLine.PriceAtSale
			}
		}

		lines = append(lines, sale.Line{
			ProductID:   p.ID,
			ProductName: p.Name,
			Qty:         in.Qty,
			PriceAtSale: price,
		})
	}

	if len(lines) == 0 {
		return nil, ErrEmptySale
	}

	return lines, nil
}

// computeTotals calcula e grava os totais da venda
func (s *Service) computeTotals(v *sale.Sale) {
	var cost float64
	for _, l := range v.Products {
		cost += float64(l.Qty) * l.PriceAtSale
	}
	v.TotalCost = cost
	v.TotalRevenue = v.BasketSellPrice * float64(v.OrderCount) * (1 - s.feeRate)
	v.Profit = v.TotalRevenue - v.TotalCost
}

// applyStockDeltas aplica um delta de estoque por produto via
// reconciliação, uma chamada sequencial por produto, com origem sales
func (s *Service) applyStockDeltas(ctx context.Context, basketID string, deltas map[string]int) error {
	b, err := s.baskets.FindByID(ctx, basketID)
	if err != nil {
		return err
	}

	pending := make(map[string]int, len(deltas))
	for productID, delta := range deltas {
		pending[productID] = delta
	}

	for _, p := range b.Products {
		delta, ok := pending[p.ID]
		delete(pending, p.ID)
		if !ok || delta == 0 {
			continue
		}

		newStock := p.Stock + delta
		if _, err := s.reconciler.Reconcile(ctx, basketID, p.ID, stock.ProductUpdate{Stock: &newStock}, notification.SourceSales); err != nil {
			return fmt.Errorf("falha ao ajustar estoque do produto %s: %w", p.ID, err)
		}
	}

	// Produtos da venda que já não existem na cesta ficam sem ajuste
	for productID, delta := range pending {
		if delta == 0 {
			continue
		}
		s.log.Warn("produto da venda não existe mais na cesta, ajuste de estoque ignorado", "produto", productID, "cesta", basketID)
	}

	return nil
}

// returnStock devolve a quantidade vendida de cada linha ao estoque da
// cesta, com a origem padrão stock_modal
func (s *Service) returnStock(ctx context.Context, basketID string, lines []sale.Line) error {
	b, err := s.baskets.FindByID(ctx, basketID)
	if err != nil {
		return err
	}

	for _, l := range lines {
		idx := b.FindProduct(l.ProductID)
		if idx < 0 {
			// O produto pode ter sido removido da cesta depois da venda;
			// nada a devolver para ele
			s.log.Warn("produto da venda não existe mais na cesta", "produto", l.ProductID, "cesta", basketID)
			continue
		}

		newStock := b.Products[idx].Stock + l.Qty
		if _, err := s.reconciler.Reconcile(ctx, basketID, l.ProductID, stock.ProductUpdate{Stock: &newStock}, notification.SourceStockModal); err != nil {
			return fmt.Errorf("falha ao devolver estoque do produto %s: %w", l.ProductID, err)
		}
	}

	return nil
}

// deltasFromLines converte linhas de venda em deltas de estoque com o
// sinal informado (-1 para decremento na criação)
func deltasFromLines(lines []sale.Line, sign int) map[string]int {
	deltas := make(map[string]int, len(lines))
	for _, l := range lines {
		deltas[l.ProductID] += sign * l.Qty
	}
	return deltas
}
