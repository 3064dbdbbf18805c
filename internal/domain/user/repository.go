package user

import (
	"context"
)

// Repository define a interface para operações de repositório de usuários
type Repository interface {
	// Create cria um novo usuário
	Create(ctx context.Context, u *User) error

	// FindByID busca um usuário pelo ID
	FindByID(ctx context.Context, id string) (*User, error)

	// FindByEmail busca um usuário pelo email
	FindByEmail(ctx context.Context, email string) (*User, error)

	// List lista os usuários com paginação
	List(ctx context.Context, limit, offset int) ([]*User, error)

	// UpdateRole atualiza o papel de um usuário
	UpdateRole(ctx context.Context, id string, role Role) error

	// UpdateLastLogin atualiza o timestamp de último login do usuário
	UpdateLastLogin(ctx context.Context, id string) error

	// Delete remove um usuário do sistema
	Delete(ctx context.Context, id string) error

	// Count conta quantos usuários existem
	Count(ctx context.Context) (int, error)
}
