package stock

import (
	"context"
	"testing"

	"github.com/brunohenrique/storage-system/internal/adapter/repository"
	"github.com/brunohenrique/storage-system/internal/domain/basket"
	"github.com/brunohenrique/storage-system/internal/domain/notification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBasketRepo guarda cestas em memória, copiando na leitura e na
// escrita para simular o comportamento de um documento remoto
type fakeBasketRepo struct {
	baskets     map[string]*basket.Basket
	failUpdates bool
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

func intPtr(v int) *int          { return &v }
func strPtr(v string) *string    { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestReconcileUpdatesStockAndPersistsWholeArray(t *testing.T) {
	baskets := newFakeBasketRepo(testBasket())
	notifications := &fakeNotificationRepo{}
	r := NewReconciler(baskets, notifications, quietLogger{})

	p, err := r.Reconcile(context.Background(), "b1", "p1", ProductUpdate{Stock: intPtr(4)}, notification.SourceSales)
	require.NoError(t, err)
	assert.Equal(t, 4, p.Stock)

	// Campos não informados mantêm o valor anterior (merge raso)
	assert.Equal(t, "Café Torrado", p.Name)
	assert.Equal(t, 18.5, p.Price)
	assert.Equal(t, 5, p.MinStock)

	stored, err := baskets.FindByID(context.Background(), "b1")
	require.NoError(t, err)
	assert.Equal(t, 4, stored.Products[0].Stock)
	assert.Equal(t, 100, stored.Products[1].Stock, "o outro produto não deve ser afetado")
}

func TestReconcileShallowMergeOfOtherFields(t *testing.T) {
	baskets := newFakeBasketRepo(testBasket())
	notifications := &fakeNotificationRepo{}
	r := NewReconciler(baskets, notifications, quietLogger{})

	p, err := r.Reconcile(context.Background(), "b1", "p1", ProductUpdate{
		Name:  strPtr("Café Premium"),
		Price: floatPtr(22.0),
	}, notification.SourceStockModal)
	require.NoError(t, err)

	assert.Equal(t, "Café Premium", p.Name)
	assert.Equal(t, 22.0, p.Price)
	assert.Equal(t, 10, p.Stock)

	// Sem mudança de estoque, nenhuma notificação dispara
	assert.Empty(t, notifications.created)
}

func TestReconcileBasketNotFound(t *testing.T) {
	baskets := newFakeBasketRepo()
	notifications := &fakeNotificationRepo{}
	r := NewReconciler(baskets, notifications, quietLogger{})

	_, err := r.Reconcile(context.Background(), "missing", "p1", ProductUpdate{Stock: intPtr(1)}, notification.SourceSales)
	assert.ErrorIs(t, err, repository.ErrBasketNotFound)
	assert.Empty(t, notifications.created)
}

func TestReconcileProductNotFound(t *testing.T) {
	b := testBasket()
	baskets := newFakeBasketRepo(b)
	notifications := &fakeNotificationRepo{}
	r := NewReconciler(baskets, notifications, quietLogger{})

	_, err := r.Reconcile(context.Background(), "b1", "missing", ProductUpdate{Stock: intPtr(1)}, notification.SourceSales)
	assert.ErrorIs(t, err, ErrProductNotFound)

	// Nada deve ter sido escrito
	stored, _ := baskets.FindByID(context.Background(), "b1")
	assert.Equal(t, b.Products, stored.Products)
	assert.Empty(t, notifications.created)
}

func TestReconcileNegativeStockAllowed(t *testing.T) {
	baskets := newFakeBasketRepo(testBasket())
	notifications := &fakeNotificationRepo{}
	r := NewReconciler(baskets, notifications, quietLogger{})

	p, err := r.Reconcile(context.Background(), "b1", "p1", ProductUpdate{Stock: intPtr(-3)}, notification.SourceSales)
	require.NoError(t, err)
	assert.Equal(t, -3, p.Stock, "estoque negativo sinaliza venda a descoberto, não é truncado")
}

func TestSalesSourceThresholds(t *testing.T) {
	// p1 tem minStock=5: crítico em <=5, aviso em 6..10, nada acima de 10
	tests := []struct {
		name      string
		newStock  int
		wantCount int
		wantType  notification.Type
	}{
		{name: "abaixo do mínimo gera alerta crítico", newStock: 4, wantCount: 1, wantType: notification.TypeError},
		{name: "exatamente no mínimo gera alerta crítico", newStock: 5, wantCount: 1, wantType: notification.TypeError},
		{name: "dentro da faixa de aviso gera estoque baixo", newStock: 7, wantCount: 1, wantType: notification.TypeWarning},
		{name: "no teto da faixa de aviso gera estoque baixo", newStock: 10, wantCount: 1, wantType: notification.TypeWarning},
		{name: "acima das faixas não gera alerta", newStock: 11, wantCount: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := testBasket()
			b.Products[0].Stock = 50
			baskets := newFakeBasketRepo(b)
			notifications := &fakeNotificationRepo{}
			r := NewReconciler(baskets, notifications, quietLogger{})

			_, err := r.Reconcile(context.Background(), "b1", "p1", ProductUpdate{Stock: intPtr(tt.newStock)}, notification.SourceSales)
			require.NoError(t, err)

			require.Len(t, notifications.created, tt.wantCount)
			if tt.wantCount > 0 {
				n := notifications.created[0]
				assert.Equal(t, tt.wantType, n.Type)
				assert.Equal(t, notification.SourceSales, n.Metadata.Source)
				assert.Equal(t, "p1", n.Metadata.ProductID)
				assert.Equal(t, "b1", n.Metadata.BasketID)
				assert.Equal(t, tt.newStock, n.Metadata.StockLevel)
				assert.False(t, n.IsRead)
			}
		})
	}
}

func TestStockModalNeverEmitsThresholdAlert(t *testing.T) {
	// Mesmo caindo abaixo do mínimo, a origem stock_modal emite apenas a
	// notificação genérica de atualização
	baskets := newFakeBasketRepo(testBasket())
	notifications := &fakeNotificationRepo{}
	r := NewReconciler(baskets, notifications, quietLogger{})

	_, err := r.Reconcile(context.Background(), "b1", "p1", ProductUpdate{Stock: intPtr(2)}, notification.SourceStockModal)
	require.NoError(t, err)

	require.Len(t, notifications.created, 1)
	n := notifications.created[0]
	assert.Equal(t, "Estoque atualizado", n.Title)
	assert.Equal(t, notification.SourceStockModal, n.Metadata.Source)
	assert.Equal(t, notification.ActionRemove, n.Metadata.Action)
	// A severidade escala o texto e o nível da mesma notificação
	assert.Equal(t, notification.TypeError, n.Type)
	assert.Contains(t, n.Message, "CRÍTICO")
}

func TestStockModalActionAndSeverityBands(t *testing.T) {
	tests := []struct {
		name       string
		newStock   int
		wantAction notification.Action
		wantType   notification.Type
	}{
		{name: "acima das faixas é informativo", newStock: 30, wantAction: notification.ActionAdd, wantType: notification.TypeInfo},
		{name: "na faixa de atenção escala para warning", newStock: 8, wantAction: notification.ActionRemove, wantType: notification.TypeWarning},
		{name: "no mínimo escala para error", newStock: 5, wantAction: notification.ActionRemove, wantType: notification.TypeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			baskets := newFakeBasketRepo(testBasket())
			notifications := &fakeNotificationRepo{}
			r := NewReconciler(baskets, notifications, quietLogger{})

			_, err := r.Reconcile(context.Background(), "b1", "p1", ProductUpdate{Stock: intPtr(tt.newStock)}, notification.SourceStockModal)
			require.NoError(t, err)

			require.Len(t, notifications.created, 1)
			n := notifications.created[0]
			assert.Equal(t, tt.wantAction, n.Metadata.Action)
			assert.Equal(t, tt.wantType, n.Type)
			assert.Equal(t, "Estoque atualizado", n.Title)
		})
	}
}

func TestSalesSourceNeverEmitsGenericUpdate(t *testing.T) {
	baskets := newFakeBasketRepo(testBasket())
	notifications := &fakeNotificationRepo{}
	r := NewReconciler(baskets, notifications, quietLogger{})

	_, err := r.Reconcile(context.Background(), "b1", "p1", ProductUpdate{Stock: intPtr(4)}, notification.SourceSales)
	require.NoError(t, err)

	require.Len(t, notifications.created, 1)
	assert.NotEqual(t, "Estoque atualizado", notifications.created[0].Title)
}

func TestReconcileNoNotificationWhenStockUnchanged(t *testing.T) {
	baskets := newFakeBasketRepo(testBasket())
	notifications := &fakeNotificationRepo{}
	r := NewReconciler(baskets, notifications, quietLogger{})

	_, err := r.Reconcile(context.Background(), "b1", "p1", ProductUpdate{Stock: intPtr(10)}, notification.SourceSales)
	require.NoError(t, err)
	assert.Empty(t, notifications.created, "estoque igual ao anterior não dispara notificação")
}
