package user

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role representa o papel/função do usuário
type Role string

// Constantes para Role
const (
	RoleOwner  Role = "owner"  // Dono do sistema, acesso total
	RoleEditor Role = "editor" // Pode gerenciar cestas, produtos e limpeza
	RoleMember Role = "member" // Acesso de leitura e registro de vendas
)

// User representa um usuário do sistema
type User struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Password    string    `json:"-"` // O campo senha não é retornado nas respostas JSON
	Role        Role      `json:"role"`
	LastLoginAt time.Time `json:"last_login_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ValidRole verifica se o papel informado é um dos papéis conhecidos
func ValidRole(r Role) bool {
	return r == RoleOwner || r == RoleEditor || r == RoleMember
}

// SetPassword configura a senha do usuário com hash
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifica se a senha fornecida é válida
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// IsOwner verifica se o usuário é o dono do sistema
func (u *User) IsOwner() bool {
	return u.Role == RoleOwner
}

// IsEditor verifica se o usuário pode editar (o dono também edita)
func (u *User) IsEditor() bool {
	return u.Role == RoleOwner || u.Role == RoleEditor
}
