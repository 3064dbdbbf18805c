package dto

import (
	"time"
)

// LoginRequest representa as credenciais de login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SessionResponse representa as claims decodificadas da sessão atual
type SessionResponse struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// LoginResponse representa a resposta do login: as claims da sessão
// criada mais o token, que também é gravado no cookie HTTP-only
type LoginResponse struct {
	Session SessionResponse `json:"session"`
	Token   string          `json:"token"`
}
