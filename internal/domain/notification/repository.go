package notification

import (
	"context"
)

// Repository define a interface para operações de repositório de notificações
type Repository interface {
	// Create cria uma nova notificação
	Create(ctx context.Context, n *Notification) error

	// FindByID busca uma notificação pelo ID
	FindByID(ctx context.Context, id string) (*Notification, error)

	// List lista as notificações, mais recentes primeiro
	List(ctx context.Context, onlyUnread bool, limit, offset int) ([]*Notification, error)

	// FindUnreadIDs retorna os IDs de todas as notificações não lidas
	FindUnreadIDs(ctx context.Context) ([]string, error)

	// MarkAsRead marca uma notificação como lida
	MarkAsRead(ctx context.Context, id string) error

	// MarkManyAsRead marca um conjunto de notificações como lidas
	MarkManyAsRead(ctx context.Context, ids []string) error

	// CountUnread conta as notificações não lidas
	CountUnread(ctx context.Context) (int, error)

	// DeleteOlderThan remove notificações mais antigas que a data de corte
	DeleteOlderThan(ctx context.Context, days int) (int, error)

	// DeleteReadOlderThan remove notificações lidas mais antigas que a data de corte
	DeleteReadOlderThan(ctx context.Context, days int) (int, error)
}
