package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/brunohenrique/storage-system/internal/domain/user"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Erros específicos do repositório de usuários
var (
	ErrUserNotFound       = errors.New("usuário não encontrado")
	ErrUserDuplicateEmail = errors.New("usuário com mesmo email já existe")
)

// UserRepository implementa a interface user.Repository usando PostgreSQL
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository cria uma nova instância de UserRepository
func NewUserRepository(db *pgxpool.Pool) user.Repository {
	return &UserRepository{
		db: db,
	}
}

// Create implementa user.Repository.Create
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (id, name, email, password, role, last_login_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		u.ID,
		u.Name,
		u.Email,
		u.Password,
		string(u.Role),
		u.LastLoginAt,
		u.CreatedAt,
		u.UpdatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return ErrUserDuplicateEmail
		}
		return fmt.Errorf("falha ao inserir usuário: %w", err)
	}

	return nil
}

// FindByID implementa user.Repository.FindByID
func (r *UserRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	return r.findBy(ctx, "id", id)
}

// FindByEmail implementa user.Repository.FindByEmail
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.findBy(ctx, "email", email)
}

func (r *UserRepository) findBy(ctx context.Context, column, value string) (*user.User, error) {
	query := fmt.Sprintf(`
		SELECT id, name, email, password, role, last_login_at, created_at, updated_at
		FROM users
		WHERE %s = $1
	`, column)

	u := &user.User{}
	var role string
	var lastLoginTime pgtype.Timestamptz

	err := r.db.QueryRow(ctx, query, value).Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.Password,
		&role,
		&lastLoginTime,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("falha ao buscar usuário: %w", err)
	}

	u.Role = user.Role(role)
	if lastLoginTime.Valid {
		u.LastLoginAt = lastLoginTime.Time
	}

	return u, nil
}

// List implementa user.Repository.List
func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]*user.User, error) {
	query := `
		SELECT id, name, email, password, role, last_login_at, created_at, updated_at
		FROM users
		ORDER BY created_at ASC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar usuários: %w", err)
	}
	defer rows.Close()

	users := make([]*user.User, 0)
	for rows.Next() {
		u := &user.User{}
		var role string
		var lastLoginTime pgtype.Timestamptz

		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &role, &lastLoginTime, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("falha ao ler usuário: %w", err)
		}

		u.Role = user.Role(role)
		if lastLoginTime.Valid {
			u.LastLoginAt = lastLoginTime.Time
		}

		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("falha ao percorrer usuários: %w", err)
	}

	return users, nil
}

// UpdateRole implementa user.Repository.UpdateRole
func (r *UserRepository) UpdateRole(ctx context.Context, id string, role user.Role) error {
	query := `
		UPDATE users
		SET role = $2, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query, id, string(role))
	if err != nil {
		return fmt.Errorf("falha ao atualizar papel do usuário: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

// UpdateLastLogin implementa user.Repository.UpdateLastLogin
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, "UPDATE users SET last_login_at = NOW() WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("falha ao atualizar último login: %w", err)
	}
	return nil
}

// Delete implementa user.Repository.Delete
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("falha ao remover usuário: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

// Count implementa user.Repository.Count
func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return 0, fmt.Errorf("falha ao contar usuários: %w", err)
	}
	return count, nil
}
