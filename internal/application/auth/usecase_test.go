package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/tms-settlements/internal/application/auth"
	"github.com/jhoicas/tms-settlements/internal/application/dto"
	"github.com/jhoicas/tms-settlements/internal/domain"
	"github.com/jhoicas/tms-settlements/internal/domain/entity"
	pkgjwt "github.com/jhoicas/tms-settlements/pkg/jwt"
)

const secret = "auth-test-secret"

type stubUsers struct {
	byEmail map[string]*entity.User
}

func (s *stubUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	for _, u := range s.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (s *stubUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return s.byEmail[email], nil
}

func (s *stubUsers) ListByCompanyAndRoles(context.Context, string, []entity.Role) ([]*entity.User, error) {
	return nil, nil
}

type stubCompanies struct {
	items map[string]*entity.Company
}

func (s *stubCompanies) GetByID(_ context.Context, id string) (*entity.Company, error) {
	return s.items[id], nil
}

func (s *stubCompanies) ListActive(context.Context) ([]*entity.Company, error) {
	return nil, nil
}

func newUseCase(t *testing.T, mutate func(u *entity.User, c *entity.Company)) *auth.AuthUseCase {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret!"), bcrypt.MinCost)
	require.NoError(t, err)

	u := &entity.User{
		ID:           "u1",
		CompanyID:    "c1",
		Email:        "ana@carrier.com",
		PasswordHash: string(hash),
		FirstName:    "Ana",
		Role:         entity.RoleAccountant,
		Status:       "active",
	}
	c := &entity.Company{ID: "c1", Name: "Carrier", Status: entity.CompanyStatusActive}
	if mutate != nil {
		mutate(u, c)
	}
	return auth.NewAuthUseCase(
		&stubUsers{byEmail: map[string]*entity.User{u.Email: u}},
		&stubCompanies{items: map[string]*entity.Company{c.ID: c}},
		auth.JWTConfig{Secret: secret, ExpMinutes: 60, Issuer: "tms-test"},
	)
}

func TestLogin_EmiteTokenConRolYEmpresa(t *testing.T) {
	uc := newUseCase(t, nil)

	out, err := uc.Login(context.Background(), dto.LoginRequest{Email: "ana@carrier.com", Password: "s3cret!"})
	require.NoError(t, err)
	assert.Equal(t, "u1", out.User.ID)
	assert.Equal(t, "ACCOUNTANT", out.User.Role)

	sub, err := pkgjwt.Parse(secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, "u1", sub.UserID)
	assert.Equal(t, "c1", sub.CompanyID)
	assert.Equal(t, "ACCOUNTANT", sub.Role)
}

func TestLogin_Errores(t *testing.T) {
	cases := []struct {
		name     string
		email    string
		password string
		mutate   func(u *entity.User, c *entity.Company)
		want     error
	}{
		{name: "usuario inexistente", email: "nadie@carrier.com", password: "x", want: domain.ErrUserNotFound},
		{name: "password incorrecto", email: "ana@carrier.com", password: "otra", want: domain.ErrUnauthorized},
		{
			name: "usuario inactivo", email: "ana@carrier.com", password: "s3cret!",
			mutate: func(u *entity.User, _ *entity.Company) { u.Status = "inactive" },
			want:   domain.ErrForbidden,
		},
		{
			name: "rol fuera del catálogo", email: "ana@carrier.com", password: "s3cret!",
			mutate: func(u *entity.User, _ *entity.Company) { u.Role = "bodeguero" },
			want:   domain.ErrForbidden,
		},
		{
			name: "empresa suspendida", email: "ana@carrier.com", password: "s3cret!",
			mutate: func(_ *entity.User, c *entity.Company) { c.Status = "suspended" },
			want:   domain.ErrForbidden,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uc := newUseCase(t, tc.mutate)
			out, err := uc.Login(context.Background(), dto.LoginRequest{Email: tc.email, Password: tc.password})
			assert.Nil(t, out)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestMe(t *testing.T) {
	uc := newUseCase(t, nil)

	out, err := uc.Me(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "ana@carrier.com", out.Email)

	_, err = uc.Me(context.Background(), "otro")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = uc.Me(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
