package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/brunohenrique/storage-system/internal/domain/notification"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Erros específicos do repositório de notificações
var (
	ErrNotificationNotFound = errors.New("notificação não encontrada")
)

// NotificationRepository implementa a interface notification.Repository
// usando PostgreSQL. O metadata é um documento JSONB.
type NotificationRepository struct {
	db *pgxpool.Pool
}

// NewNotificationRepository cria uma nova instância de NotificationRepository
func NewNotificationRepository(db *pgxpool.Pool) notification.Repository {
	return &NotificationRepository{
		db: db,
	}
}

// Create implementa notification.Repository.Create
func (r *NotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	metadata, err := json.Marshal(n.Metadata)
	if err != nil {
		return fmt.Errorf("falha ao serializar metadata: %w", err)
	}

	query := `
		INSERT INTO notifications (id, title, message, type, is_read, created_at, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = r.db.Exec(ctx, query, n.ID, n.Title, n.Message, string(n.Type), n.IsRead, n.CreatedAt, metadata)
	if err != nil {
		return fmt.Errorf("falha ao inserir notificação: %w", err)
	}

	return nil
}

// FindByID implementa notification.Repository.FindByID
func (r *NotificationRepository) FindByID(ctx context.Context, id string) (*notification.Notification, error) {
	query := `
		SELECT id, title, message, type, is_read, created_at, metadata
		FROM notifications
		WHERE id = $1
	`

	n, err := scanNotification(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotificationNotFound
		}
		return nil, fmt.Errorf("falha ao buscar notificação: %w", err)
	}

	return n, nil
}

// List implementa notification.Repository.List
func (r *NotificationRepository) List(ctx context.Context, onlyUnread bool, limit, offset int) ([]*notification.Notification, error) {
	query := `
		SELECT id, title, message, type, is_read, created_at, metadata
		FROM notifications
		WHERE ($1 = false OR is_read = false)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, onlyUnread, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar notificações: %w", err)
	}
	defer rows.Close()

	notifications := make([]*notification.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("falha ao ler notificação: %w", err)
		}
		notifications = append(notifications, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("falha ao percorrer notificações: %w", err)
	}

	return notifications, nil
}

// FindUnreadIDs implementa notification.Repository.FindUnreadIDs
func (r *NotificationRepository) FindUnreadIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, "SELECT id FROM notifications WHERE is_read = false")
	if err != nil {
		return nil, fmt.Errorf("falha ao buscar notificações não lidas: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("falha ao ler ID de notificação: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("falha ao percorrer notificações não lidas: %w", err)
	}

	return ids, nil
}

// MarkAsRead implementa notification.Repository.MarkAsRead.
// A transição é de mão única: unread -> read.
func (r *NotificationRepository) MarkAsRead(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, "UPDATE notifications SET is_read = true WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("falha ao marcar notificação como lida: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotificationNotFound
	}

	return nil
}

// MarkManyAsRead implementa notification.Repository.MarkManyAsRead
func (r *NotificationRepository) MarkManyAsRead(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	_, err := r.db.Exec(ctx, "UPDATE notifications SET is_read = true WHERE id = ANY($1)", ids)
	if err != nil {
		return fmt.Errorf("falha ao marcar notificações como lidas: %w", err)
	}

	return nil
}

// CountUnread implementa notification.Repository.CountUnread
func (r *NotificationRepository) CountUnread(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM notifications WHERE is_read = false").Scan(&count); err != nil {
		return 0, fmt.Errorf("falha ao contar notificações não lidas: %w", err)
	}
	return count, nil
}

// DeleteOlderThan implementa notification.Repository.DeleteOlderThan
func (r *NotificationRepository) DeleteOlderThan(ctx context.Context, days int) (int, error) {
	query := `
		DELETE FROM notifications
		WHERE created_at < NOW() - ($1 * INTERVAL '1 day')
	`

	tag, err := r.db.Exec(ctx, query, days)
	if err != nil {
		return 0, fmt.Errorf("falha ao limpar notificações antigas: %w", err)
	}

	return int(tag.RowsAffected()), nil
}

// DeleteReadOlderThan implementa notification.Repository.DeleteReadOlderThan
func (r *NotificationRepository) DeleteReadOlderThan(ctx context.Context, days int) (int, error) {
	query := `
		DELETE FROM notifications
		WHERE is_read = true AND created_at < NOW() - ($1 * INTERVAL '1 day')
	`

	tag, err := r.db.Exec(ctx, query, days)
	if err != nil {
		return 0, fmt.Errorf("falha ao limpar notificações lidas antigas: %w", err)
	}

	return int(tag.RowsAffected()), nil
}

// scanNotification lê uma notificação de uma linha de resultado
func scanNotification(row pgx.Row) (*notification.Notification, error) {
	n := &notification.Notification{}
	var nType string
	var metadata []byte

	err := row.Scan(
		&n.ID,
		&n.Title,
		&n.Message,
		&nType,
		&n.IsRead,
		&n.CreatedAt,
		&metadata,
	)
	if err != nil {
		return nil, err
	}

	n.Type = notification.Type(nType)
	if err := json.Unmarshal(metadata, &n.Metadata); err != nil {
		return nil, fmt.Errorf("falha ao desserializar metadata: %w", err)
	}

	return n, nil
}
