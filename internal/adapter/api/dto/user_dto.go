package dto

import (
	"time"

	"github.com/brunohenrique/storage-system/internal/domain/user"
)

// UserRequest representa os dados de um usuário para criação
type UserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required"`
}

// UserRoleRequest representa a alteração de papel de um usuário
type UserRoleRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required"`
}

// UserResponse representa a resposta com dados de um usuário
type UserResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	LastLoginAt time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UserListResponse representa a resposta com a lista de usuários paginada
type UserListResponse struct {
	Data       []UserResponse `json:"data"`
	TotalCount int            `json:"total_count"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
}

// ToUserResponse converte um usuário do domínio para DTO de resposta
func ToUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        string(u.Role),
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// ToUserListResponse converte uma lista de usuários para DTO de resposta paginada
func ToUserListResponse(users []*user.User, totalCount, page, pageSize int) UserListResponse {
	data := make([]UserResponse, len(users))
	for i, u := range users {
		data[i] = ToUserResponse(u)
	}

	return UserListResponse{
		Data:       data,
		TotalCount: totalCount,
		Page:       page,
		PageSize:   pageSize,
	}
}
