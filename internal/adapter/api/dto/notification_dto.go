package dto

import (
	"time"

	"github.com/brunohenrique/storage-system/internal/domain/notification"
)

// NotificationMetadataResponse representa o contexto de domínio da notificação
type NotificationMetadataResponse struct {
	ProductID  string `json:"product_id,omitempty"`
	BasketID   string `json:"basket_id,omitempty"`
	StockLevel int    `json:"stock_level"`
	Action     string `json:"action,omitempty"`
	Source     string `json:"source,omitempty"`
}

// NotificationResponse representa a resposta com dados de uma notificação
type NotificationResponse struct {
	ID        string                       `json:"id"`
	Title     string                       `json:"title"`
	Message   string                       `json:"message"`
	Type      string                       `json:"type"`
	IsRead    bool                         `json:"is_read"`
	CreatedAt time.Time                    `json:"created_at"`
	Metadata  NotificationMetadataResponse `json:"metadata"`
}

// NotificationListResponse representa a resposta com a lista de notificações
type NotificationListResponse struct {
	Data        []NotificationResponse `json:"data"`
	UnreadCount int                    `json:"unread_count"`
	Page        int                    `json:"page"`
	PageSize    int                    `json:"page_size"`
}

// CleanupResponse informa quantas notificações foram removidas pela limpeza
type CleanupResponse struct {
	Deleted int `json:"deleted"`
}

// ToNotificationResponse converte uma notificação do domínio para DTO de resposta
func ToNotificationResponse(n *notification.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      string(n.Type),
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
		Metadata: NotificationMetadataResponse{
			ProductID:  n.Metadata.ProductID,
			BasketID:   n.Metadata.BasketID,
			StockLevel: n.Metadata.StockLevel,
			Action:     string(n.Metadata.Action),
			Source:     string(n.Metadata.Source),
		},
	}
}

// ToNotificationListResponse converte uma lista de notificações para DTO de resposta
func ToNotificationListResponse(notifications []*notification.Notification, unreadCount, page, pageSize int) NotificationListResponse {
	data := make([]NotificationResponse, len(notifications))
	for i, n := range notifications {
		data[i] = ToNotificationResponse(n)
	}

	return NotificationListResponse{
		Data:        data,
		UnreadCount: unreadCount,
		Page:        page,
		PageSize:    pageSize,
	}
}
