package sale

import (
	"context"
	"math"
	"testing"

	"github.com/brunohenrique/storage-system/internal/adapter/repository"
	"github.com/brunohenrique/storage-system/internal/domain/basket"
	"github.com/brunohenrique/storage-system/internal/domain/notification"
	"github.com/brunohenrique/storage-system/internal/domain/sale"
	"github.com/brunohenrique/storage-system/internal/service/stock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBasketRepo guarda cestas em memória, copiando na leitura e na
// escrita para simular o comportamento de um documento remoto
type fakeBasketRepo struct {
	baskets     map[string]*basket.Basket
	failUpdates bool
	updateCalls int
}

func newFakeBasketRepo(baskets ...*basket.Basket) *fakeBasketRepo {
	repo := &fakeBasketRepo{baskets: make(map[string]*basket.Basket)}
	for _, b := range baskets {
		repo.baskets[b.ID] = copyBasket(b)
	}
	return repo
}

func copyBasket(b *basket.Basket) *basket.Basket {
	clone := *b
	clone.Products = make([]basket.Product, len(b.Products))
	copy(clone.Products, b.Products)
	return &clone
}

func (r *fakeBasketRepo) Create(_ context.Context, b *basket.Basket) error {
	r.baskets[b.ID] = copyBasket(b)
	return nil
}

func (r *fakeBasketRepo) FindByID(_ context.Context, id string) (*basket.Basket, error) {
	b, ok := r.baskets[id]
	if !ok {
		return nil, repository.ErrBasketNotFound
	}
	return copyBasket(b), nil
}

func (r *fakeBasketRepo) List(_ context.Context, _, _ int) ([]*basket.Basket, error) {
	result := make([]*basket.Basket, 0, len(r.baskets))
	for _, b := range r.baskets {
		result = append(result, copyBasket(b))
	}
	return result, nil
}

func (r *fakeBasketRepo) Update(_ context.Context, b *basket.Basket) error {
	if _, ok := r.baskets[b.ID]; !ok {
		return repository.ErrBasketNotFound
	}
	r.baskets[b.ID] = copyBasket(b)
	return nil
}

func (r *fakeBasketRepo) UpdateProducts(_ context.Context, id string, products []basket.Product) error {
	r.updateCalls++
	if r.failUpdates {
		return assert.AnError
	}
	b, ok := r.baskets[id]
	if !ok {
		return repository.ErrBasketNotFound
	}
	b.Products = make([]basket.Product, len(products))
	copy(b.Products, products)
	return nil
}

func (r *fakeBasketRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.baskets[id]; !ok {
		return repository.ErrBasketNotFound
	}
	delete(r.baskets, id)
	return nil
}

func (r *fakeBasketRepo) Count(_ context.Context) (int, error) {
	return len(r.baskets), nil
}

func (r *fakeBasketRepo) stockOf(t *testing.T, basketID, productID string) int {
	t.Helper()
	b, ok := r.baskets[basketID]
	require.True(t, ok, "cesta %s deveria existir", basketID)
	idx := b.FindProduct(productID)
	require.GreaterOrEqual(t, idx, 0, "produto %s deveria existir na cesta", productID)
	return b.Products[idx].Stock
}

// fakeSaleRepo guarda vendas em memória
type fakeSaleRepo struct {
	sales map[string]*sale.Sale
}

func newFakeSaleRepo(sales ...*sale.Sale) *fakeSaleRepo {
	repo := &fakeSaleRepo{sales: make(map[string]*sale.Sale)}
	for _, s := range sales {
		repo.sales[s.ID] = s
	}
	return repo
}

func (r *fakeSaleRepo) Create(_ context.Context, s *sale.Sale) error {
	clone := *s
	clone.Products = make([]sale.Line, len(s.Products))
	copy(clone.Products, s.Products)
	r.sales[s.ID] = &clone
	return nil
}

func (r *fakeSaleRepo) FindByID(_ context.Context, id string) (*sale.Sale, error) {
	s, ok := r.sales[id]
	if !ok {
		return nil, repository.ErrSaleNotFound
	}
	return s, nil
}

func (r *fakeSaleRepo) List(_ context.Context, _, _ int) ([]*sale.Sale, error) {
	result := make([]*sale.Sale, 0, len(r.sales))
	for _, s := range r.sales {
		result = append(result, s)
	}
	return result, nil
}

func (r *fakeSaleRepo) FindByBasket(_ context.Context, basketID string, _, _ int) ([]*sale.Sale, error) {
	result := make([]*sale.Sale, 0)
	for _, s := range r.sales {
		if s.BasketID == basketID {
			result = append(result, s)
		}
	}
	return result, nil
}

func (r *fakeSaleRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.sales[id]; !ok {
		return repository.ErrSaleNotFound
	}
	delete(r.sales, id)
	return nil
}

func (r *fakeSaleRepo) Count(_ context.Context) (int, error) {
	return len(r.sales), nil
}

// fakeNotificationRepo registra as notificações criadas
type fakeNotificationRepo struct {
	created []*notification.Notification
}

func (r *fakeNotificationRepo) Create(_ context.Context, n *notification.Notification) error {
	clone := *n
	r.created = append(r.created, &clone)
	return nil
}

func (r *fakeNotificationRepo) FindByID(_ context.Context, id string) (*notification.Notification, error) {
	for _, n := range r.created {
		if n.ID == id {
			return n, nil
		}
	}
	return nil, repository.ErrNotificationNotFound
}

func (r *fakeNotificationRepo) List(_ context.Context, onlyUnread bool, _, _ int) ([]*notification.Notification, error) {
	result := make([]*notification.Notification, 0)
	for _, n := range r.created {
		if onlyUnread && n.IsRead {
			continue
		}
		result = append(result, n)
	}
	return result, nil
}

func (r *fakeNotificationRepo) FindUnreadIDs(_ context.Context) ([]string, error) {
	ids := make([]string, 0)
	for _, n := range r.created {
		if !n.IsRead {
			ids = append(ids, n.ID)
		}
	}
	return ids, nil
}

func (r *fakeNotificationRepo) MarkAsRead(_ context.Context, id string) error {
	for _, n := range r.created {
		if n.ID == id {
			n.IsRead = true
			return nil
		}
	}
	return repository.ErrNotificationNotFound
}

func (r *fakeNotificationRepo) MarkManyAsRead(ctx context.Context, ids []string) error {
	for _, id := range ids {
		if err := r.MarkAsRead(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeNotificationRepo) CountUnread(_ context.Context) (int, error) {
	count := 0
	for _, n := range r.created {
		if !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) DeleteOlderThan(_ context.Context, _ int) (int, error) {
	return 0, nil
}

func (r *fakeNotificationRepo) DeleteReadOlderThan(_ context.Context, _ int) (int, error) {
	return 0, nil
}

// quietLogger descarta as mensagens durante os testes
type quietLogger struct{}

func (quietLogger) Info(string, ...interface{})  {}
func (quietLogger) Error(string, ...interface{}) {}
func (quietLogger) Debug(string, ...interface{}) {}
func (quietLogger) Warn(string, ...interface{})  {}

// recordLogger captura as mensagens de aviso emitidas durante os testes
type recordLogger struct {
	quietLogger
	warns []string
}

func (l *recordLogger) Warn(msg string, _ ...interface{}) {
	l.warns = append(l.warns, msg)
}

type fixture struct {
	baskets       *fakeBasketRepo
	sales         *fakeSaleRepo
	notifications *fakeNotificationRepo
	svc           *Service
}

func newFixture(baskets ...*basket.Basket) *fixture {
	basketRepo := newFakeBasketRepo(baskets...)
	saleRepo := newFakeSaleRepo()
	notificationRepo := &fakeNotificationRepo{}
	reconciler := stock.NewReconciler(basketRepo, notificationRepo, quietLogger{})
	return &fixture{
		baskets:       basketRepo,
		sales:         saleRepo,
		notifications: notificationRepo,
		svc:           NewService(basketRepo, saleRepo, reconciler, 0, quietLogger{}),
	}
}

func testBasket() *basket.Basket {
	return &basket.Basket{
		ID:        "b1",
		Name:      "Cesta Café",
		SellPrice: 120,
		Products: []basket.Product{
			{ID: "p1", Name: "Café Torrado", Stock: 10, MinStock: 5, Price: 18.5, PackSize: 6},
			{ID: "p2", Name: "Filtro de Papel", Stock: 100, MinStock: 10, Price: 4.2, PackSize: 30},
		},
	}
}

func TestNewServiceDefaultsFeeRate(t *testing.T) {
	f := newFixture()
	assert.Equal(t, DefaultFeeRate, f.svc.FeeRate())

	reconciler := stock.NewReconciler(f.baskets, f.notifications, quietLogger{})
	custom := NewService(f.baskets, f.sales, reconciler, 0.1, quietLogger{})
	assert.Equal(t, 0.1, custom.FeeRate())
}

func TestCreateComputesTotalsAndDecrementsStock(t *testing.T) {
	f := newFixture(testBasket())

	created, err := f.svc.Create(context.Background(), CreateInput{
		BasketID:     "b1",
		OrderCount:   2,
		CustomerName: "Maria Souza",
		Lines: []LineInput{
			{ProductID: "p1", Qty: 6},
			{ProductID: "p2", Qty: 3},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, created)

	// Totais persistidos: custo pela soma das linhas, receita pela taxa
	wantCost := 6*18.5 + 3*4.2
	wantRevenue := 120 * 2 * (1 - DefaultFeeRate)
	assert.InDelta(t, wantCost, created.TotalCost, 1e-9)
	assert.InDelta(t, wantRevenue, created.TotalRevenue, 1e-9)
	assert.InDelta(t, wantRevenue-wantCost, created.Profit, 1e-9)

	// Snapshot desnormalizado da cesta
	assert.Equal(t, "Cesta Café", created.BasketName)
	assert.Equal(t, 120.0, created.BasketSellPrice)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.Date.IsZero())

	// Estoque decrementado por linha
	assert.Equal(t, 4, f.baskets.stockOf(t, "b1", "p1"))
	assert.Equal(t, 97, f.baskets.stockOf(t, "b1", "p2"))

	stored, err := f.sales.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.TotalCost, stored.TotalCost)
}

func TestCreateTotalsKeepFullPrecision(t *testing.T) {
	// 120 × 2 × (1 − 0.0856) = 219.456: a taxa de marketplace produz
	// totais com mais de duas casas decimais, que devem sobreviver à
	// gravação e à leitura sem arredondamento
	f := newFixture(testBasket())

	created, err := f.svc.Create(context.Background(), CreateInput{
		BasketID:   "b1",
		OrderCount: 2,
		Lines:      []LineInput{{ProductID: "p2", Qty: 1}},
	})
	require.NoError(t, err)

	assert.InDelta(t, 219.456, created.TotalRevenue, 1e-9)
	rounded := math.Round(created.TotalRevenue*100) / 100
	assert.NotEqual(t, rounded, created.TotalRevenue, "o total carrega a terceira casa decimal")

	stored, err := f.sales.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.TotalRevenue, stored.TotalRevenue)
	assert.Equal(t, created.TotalCost, stored.TotalCost)
	assert.Equal(t, created.Profit, stored.Profit)
}

func TestCreateFreezesPriceAtSale(t *testing.T) {
	f := newFixture(testBasket())

	created, err := f.svc.Create(context.Background(), CreateInput{
		BasketID: "b1",
		Lines:    []LineInput{{ProductID: "p1", Qty: 2}},
	})
	require.NoError(t, err)

	require.Len(t, created.Products, 1)
	line := created.Products[0]
	assert.Equal(t, "p1", line.ProductID)
	assert.Equal(t, "Café Torrado", line.ProductName)
	assert.Equal(t, 18.5, line.PriceAtSale, "o preço é congelado no momento da venda")
}

func TestCreateDropsZeroQtyLines(t *testing.T) {
	f := newFixture(testBasket())

	created, err := f.svc.Create(context.Background(), CreateInput{
		BasketID: "b1",
		Lines: []LineInput{
			{ProductID: "p1", Qty: 0},
			{ProductID: "p2", Qty: 3},
		},
	})
	require.NoError(t, err)

	require.Len(t, created.Products, 1)
	assert.Equal(t, "p2", created.Products[0].ProductID)
	assert.Equal(t, 10, f.baskets.stockOf(t, "b1", "p1"), "linha descartada não mexe no estoque")
}

func TestCreateEmptySale(t *testing.T) {
	f := newFixture(testBasket())

	_, err := f.svc.Create(context.Background(), CreateInput{
		BasketID: "b1",
		Lines:    []LineInput{{ProductID: "p1", Qty: 0}},
	})
	assert.ErrorIs(t, err, ErrEmptySale)

	count, _ := f.sales.Count(context.Background())
	assert.Zero(t, count)
}

func TestCreateBasketNotFound(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Create(context.Background(), CreateInput{
		BasketID: "missing",
		Lines:    []LineInput{{ProductID: "p1", Qty: 1}},
	})
	assert.ErrorIs(t, err, repository.ErrBasketNotFound)
}

func TestCreateUnknownProduct(t *testing.T) {
	f := newFixture(testBasket())

	_, err := f.svc.Create(context.Background(), CreateInput{
		BasketID: "b1",
		Lines:    []LineInput{{ProductID: "fantasma", Qty: 1}},
	})
	assert.ErrorIs(t, err, stock.ErrProductNotFound)
}

func TestCreateDefaultsOrderCountToOne(t *testing.T) {
	f := newFixture(testBasket())

	created, err := f.svc.Create(context.Background(), CreateInput{
		BasketID: "b1",
		Lines:    []LineInput{{ProductID: "p1", Qty: 1}},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, created.OrderCount)
	assert.InDelta(t, 120*(1-DefaultFeeRate), created.TotalRevenue, 1e-9)
}

func TestCreateReturnsSaleOnPartialStockFailure(t *testing.T) {
	f := newFixture(testBasket())
	f.baskets.failUpdates = true

	created, err := f.svc.Create(context.Background(), CreateInput{
		BasketID: "b1",
		Lines:    []LineInput{{ProductID: "p1", Qty: 2}},
	})

	// A venda fica persistida mesmo quando o decremento falha;
	// o erro acompanha a venda já gravada
	require.Error(t, err)
	require.NotNil(t, created)

	stored, findErr := f.sales.FindByID(context.Background(), created.ID)
	require.NoError(t, findErr)
	assert.Equal(t, created.ID, stored.ID)
	assert.Equal(t, 10, f.baskets.stockOf(t, "b1", "p1"), "estoque intocado após falha na reconciliação")
}

func TestCreateEmitsThresholdAlert(t *testing.T) {
	f := newFixture(testBasket())

	// 10 - 6 = 4, abaixo do mínimo de 5: alerta crítico com origem sales
	_, err := f.svc.Create(context.Background(), CreateInput{
		BasketID: "b1",
		Lines:    []LineInput{{ProductID: "p1", Qty: 6}},
	})
	require.NoError(t, err)

	require.Len(t, f.notifications.created, 1)
	n := f.notifications.created[0]
	assert.Equal(t, notification.TypeError, n.Type)
	assert.Equal(t, notification.SourceSales, n.Metadata.Source)
	assert.Equal(t, 4, n.Metadata.StockLevel)
}

func TestEditAdjustsStockByQtyDifference(t *testing.T) {
	f := newFixture(testBasket())

	created, err := f.svc.Create(context.Background(), CreateInput{
		BasketID: "b1",
		Lines:    []LineInput{{ProductID: "p1", Qty: 6}},
	})
	require.NoError(t, err)
	require.Equal(t, 4, f.baskets.stockOf(t, "b1", "p1"))

	// De 6 para 2 unidades: devolve a diferença de 4 ao estoque
	edited, err := f.svc.Edit(context.Background(), created.ID, CreateInput{
		Lines: []LineInput{{ProductID: "p1", Qty: 2}},
	})
	require.NoError(t, err)

	assert.Equal(t, 8, f.baskets.stockOf(t, "b1", "p1"))
	assert.NotEqual(t, created.ID, edited.ID, "a edição recria a venda com identidade própria")

	_, err = f.sales.FindByID(context.Background(), created.ID)
	assert.ErrorIs(t, err, repository.ErrSaleNotFound, "a venda original é removida")

	count, _ := f.sales.Count(context.Background())
	assert.Equal(t, 1, count)
}

func TestEditReusesOriginalPriceAtSale(t *testing.T) {
	f := newFixture(testBasket())

	created, err := f.svc.Create(context.Background(), CreateInput{
		BasketID:   "b1",
		OrderCount: 2,
		Lines:      []LineInput{{ProductID: "p1", Qty: 3}},
	})
	require.NoError(t, err)

	// Preço do produto muda depois da venda
	b, _ := f.baskets.FindByID(context.Background(), "b1")
	b.Products[0].Price = 25.0
	require.NoError(t, f.baskets.Update(context.Background(), b))

	edited, err := f.svc.Edit(context.Background(), created.ID, CreateInput{
		Lines: []LineInput{{ProductID: "p1", Qty: 5}},
	})
	require.NoError(t, err)

	require.Len(t, edited.Products, 1)
	assert.Equal(t, 18.5, edited.Products[0].PriceAtSale, "linhas já existentes mantêm o preço original")
	assert.InDelta(t, 5*18.5, edited.TotalCost, 1e-9)

	// Snapshot e orderCount herdados da venda original quando não informados
	assert.Equal(t, created.BasketName, edited.BasketName)
	assert.Equal(t, created.BasketSellPrice, edited.BasketSellPrice)
	assert.Equal(t, 2, edited.OrderCount)
}

func TestEditAbortsWhenBasketMissing(t *testing.T) {
	f := newFixture(testBasket())

	created, err := f.svc.Create(context.Background(), CreateInput{
		BasketID: "b1",
		Lines:    []LineInput{{ProductID: "p1", Qty: 2}},
	})
	require.NoError(t, err)

	require.NoError(t, f.baskets.Delete(context.Background(), "b1"))

	_, err = f.svc.Edit(context.Background(), created.ID, CreateInput{
		Lines: []LineInput{{ProductID: "p1", Qty: 1}},
	})
	assert.ErrorIs(t, err, repository.ErrBasketNotFound)

	// Sem efeito parcial: a venda original continua lá
	stored, findErr := f.sales.FindByID(context.Background(), created.ID)
	require.NoError(t, findErr)
	assert.Equal(t, created.ID, stored.ID)
}

func TestEditWarnsWhenOldProductLeftBasket(t *testing.T) {
	basketRepo := newFakeBasketRepo(testBasket())
	saleRepo := newFakeSaleRepo()
	notificationRepo := &fakeNotificationRepo{}
	log := &recordLogger{}
	reconciler := stock.NewReconciler(basketRepo, notificationRepo, quietLogger{})
	svc := NewService(basketRepo, saleRepo, reconciler, 0, log)

	created, err := svc.Create(context.Background(), CreateInput{
		BasketID: "b1",
		Lines: []LineInput{
			{ProductID: "p1", Qty: 2},
			{ProductID: "p2", Qty: 5},
		},
	})
	require.NoError(t, err)

	// p2 sai da cesta depois da venda
	b, _ := basketRepo.FindByID(context.Background(), "b1")
	b.Products = b.Products[:1]
	require.NoError(t, basketRepo.Update(context.Background(), b))

	edited, err := svc.Edit(context.Background(), created.ID, CreateInput{
		Lines: []LineInput{{ProductID: "p1", Qty: 1}},
	})
	require.NoError(t, err)

	// O produto remanescente recebe o ajuste; o removido fica sem
	// devolução mas deixa rastro no log
	assert.Equal(t, 9, basketRepo.stockOf(t, "b1", "p1"))
	require.Len(t, edited.Products, 1)
	require.Len(t, log.warns, 1)
	assert.Contains(t, log.warns[0], "não existe mais na cesta")
}

func TestEditSaleNotFound(t *testing.T) {
	f := newFixture(testBasket())

	_, err := f.svc.Edit(context.Background(), "missing", CreateInput{
		Lines: []LineInput{{ProductID: "p1", Qty: 1}},
	})
	assert.ErrorIs(t, err, repository.ErrSaleNotFound)
}

func TestDeleteReturnsStock(t *testing.T) {
	f := newFixture(testBasket())

	created, err := f.svc.Create(context.Background(), CreateInput{
		BasketID: "b1",
		Lines: []LineInput{
			{ProductID: "p1", Qty: 6},
			{ProductID: "p2", Qty: 10},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 4, f.baskets.stockOf(t, "b1", "p1"))

	f.notifications.created = nil

	result, err := f.svc.Delete(context.Background(), created.ID)
	require.NoError(t, err)
	assert.True(t, result.StockReturned)

	assert.Equal(t, 10, f.baskets.stockOf(t, "b1", "p1"))
	assert.Equal(t, 100, f.baskets.stockOf(t, "b1", "p2"))

	_, err = f.sales.FindByID(context.Background(), created.ID)
	assert.ErrorIs(t, err, repository.ErrSaleNotFound)

	// A devolução usa a origem stock_modal: só a notificação genérica
	for _, n := range f.notifications.created {
		assert.Equal(t, notification.SourceStockModal, n.Metadata.Source)
		assert.Equal(t, "Estoque atualizado", n.Title)
	}
}

func TestDeleteWithMissingBasketStillRemovesSale(t *testing.T) {
	f := newFixture(testBasket())

	created, err := f.svc.Create(context.Background(), CreateInput{
		BasketID: "b1",
		Lines:    []LineInput{{ProductID: "p1", Qty: 2}},
	})
	require.NoError(t, err)

	require.NoError(t, f.baskets.Delete(context.Background(), "b1"))

	result, err := f.svc.Delete(context.Background(), created.ID)
	require.NoError(t, err)
	assert.False(t, result.StockReturned, "sem cesta não há devolução de estoque")

	_, err = f.sales.FindByID(context.Background(), created.ID)
	assert.ErrorIs(t, err, repository.ErrSaleNotFound, "a venda é removida mesmo assim")
}

func TestDeleteSkipsProductsRemovedFromBasket(t *testing.T) {
	f := newFixture(testBasket())

	created, err := f.svc.Create(context.Background(), CreateInput{
		BasketID: "b1",
		Lines: []LineInput{
			{ProductID: "p1", Qty: 2},
			{ProductID: "p2", Qty: 5},
		},
	})
	require.NoError(t, err)

	// p2 sai da cesta depois da venda
	b, _ := f.baskets.FindByID(context.Background(), "b1")
	b.Products = b.Products[:1]
	require.NoError(t, f.baskets.Update(context.Background(), b))

	result, err := f.svc.Delete(context.Background(), created.ID)
	require.NoError(t, err)
	assert.True(t, result.StockReturned)

	assert.Equal(t, 10, f.baskets.stockOf(t, "b1", "p1"), "só o produto remanescente recebe a devolução")
}

func TestSaleLifecycleStockRoundTrip(t *testing.T) {
	// Ciclo completo: venda derruba o estoque para a faixa crítica,
	// reposição manual recupera, exclusão da venda devolve o restante
	f := newFixture(testBasket())
	ctx := context.Background()

	created, err := f.svc.Create(ctx, CreateInput{
		BasketID: "b1",
		Lines:    []LineInput{{ProductID: "p1", Qty: 6}},
	})
	require.NoError(t, err)
	require.Equal(t, 4, f.baskets.stockOf(t, "b1", "p1"))

	reconciler := stock.NewReconciler(f.baskets, f.notifications, quietLogger{})
	restocked := 24
	_, err = reconciler.Reconcile(ctx, "b1", "p1", stock.ProductUpdate{Stock: &restocked}, notification.SourceStockModal)
	require.NoError(t, err)
	require.Equal(t, 24, f.baskets.stockOf(t, "b1", "p1"))

	_, err = f.svc.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 30, f.baskets.stockOf(t, "b1", "p1"))
}
