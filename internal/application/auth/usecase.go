// Package auth login de operadores (bcrypt + JWT) y alta del administrador inicial.
package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ampliart/ampliart-api/internal/application/dto"
	"github.com/ampliart/ampliart-api/internal/domain"
	"github.com/ampliart/ampliart-api/internal/domain/entity"
	"github.com/ampliart/ampliart-api/internal/domain/repository"
	"github.com/ampliart/ampliart-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AdminConfig operador inicial; PasswordHash ya viene en bcrypt.
type AdminConfig struct {
	Email        string
	Name         string
	PasswordHash string
}

// AuthUseCase casos de uso de autenticación.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg}
}

var errBadCredentials = fmt.Errorf("%w: Email ou senha inválidos", domain.ErrUnauthorized)

// Login verifica email/password, genera JWT y retorna token + usuario.
// Usuario inexistente, contraseña incorrecta o usuario inactivo devuelven el mismo error.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, strings.TrimSpace(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil || !user.Active {
		return nil, errBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, errBadCredentials
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Email, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, User: *toUserResponse(user)}, nil
}

// EnsureAdmin crea el administrador configurado si todavía no existe.
// Sin email o hash configurados no hace nada. Devuelve true si lo creó.
func (uc *AuthUseCase) EnsureAdmin(ctx context.Context, cfg AdminConfig) (bool, error) {
	email := strings.TrimSpace(cfg.Email)
	if email == "" || cfg.PasswordHash == "" {
		return false, nil
	}
	if _, err := bcrypt.Cost([]byte(cfg.PasswordHash)); err != nil {
		return false, fmt.Errorf("auth: AUTH_ADMIN_PASSWORD_HASH no es bcrypt: %w", err)
	}
	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}
	name := strings.TrimSpace(cfg.Name)
	if name == "" {
		name = email
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: cfg.PasswordHash,
		Name:         name,
		Role:         entity.RoleAdmin,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return false, err
	}
	return true, nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
	}
}
