package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ampliart/ampliart-api/internal/application/auth"
	"github.com/ampliart/ampliart-api/internal/application/dto"
	"github.com/ampliart/ampliart-api/internal/domain"
	"github.com/ampliart/ampliart-api/internal/domain/entity"
	"github.com/ampliart/ampliart-api/internal/testutil"
	"github.com/ampliart/ampliart-api/pkg/jwt"
)

const secret = "test-secret"

func setup(t *testing.T) (*auth.AuthUseCase, *testutil.UserRepo) {
	t.Helper()
	repo := testutil.NewUserRepo(testutil.NewStore())
	uc := auth.NewAuthUseCase(repo, auth.JWTConfig{Secret: secret, ExpMinutes: 60, Issuer: "ampliart-api"})
	return uc, repo
}

func hash(t *testing.T, pw string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestEnsureAdminYLogin(t *testing.T) {
	uc, _ := setup(t)
	ctx := context.Background()
	cfg := auth.AdminConfig{Email: "admin@ampliart.com", Name: "Admin", PasswordHash: hash(t, "s3nha")}

	created, err := uc.EnsureAdmin(ctx, cfg)
	require.NoError(t, err)
	assert.True(t, created)
	created, err = uc.EnsureAdmin(ctx, cfg)
	require.NoError(t, err)
	assert.False(t, created)

	resp, err := uc.Login(ctx, dto.LoginRequest{Email: "admin@ampliart.com", Password: "s3nha"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, resp.User.Role)

	claims, err := jwt.Parse(secret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, entity.RoleAdmin, claims.Role)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	uc, repo := setup(t)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &entity.User{ID: "u1", Email: "v@a.com", PasswordHash: hash(t, "ok"), Role: entity.RoleVendedor, Active: true}))
	require.NoError(t, repo.Create(ctx, &entity.User{ID: "u2", Email: "off@a.com", PasswordHash: hash(t, "ok"), Role: entity.RoleVendedor}))

	for _, in := range []dto.LoginRequest{
		{Email: "v@a.com", Password: "errada"},
		{Email: "nadie@a.com", Password: "ok"},
		{Email: "off@a.com", Password: "ok"},
	} {
		_, err := uc.Login(ctx, in)
		require.ErrorIs(t, err, domain.ErrUnauthorized, in.Email)
		assert.Equal(t, "Email ou senha inválidos", domain.Message(err))
	}
}

func TestEnsureAdmin_SinConfigONoBcrypt(t *testing.T) {
	uc, _ := setup(t)
	ctx := context.Background()

	created, err := uc.EnsureAdmin(ctx, auth.AdminConfig{})
	require.NoError(t, err)
	assert.False(t, created)

	_, err = uc.EnsureAdmin(ctx, auth.AdminConfig{Email: "a@a.com", PasswordHash: "plano"})
	require.Error(t, err)
}
