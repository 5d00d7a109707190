package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/invorya/ledger-api/internal/application/auth"
	"github.com/invorya/ledger-api/internal/application/dto"
	"github.com/invorya/ledger-api/internal/domain"
	"github.com/invorya/ledger-api/internal/domain/entity"
	"github.com/invorya/ledger-api/pkg/jwt"
)

const (
	authCompanyID = "co-auth-1"
	authSecret    = "secreto-de-prueba"
	authIssuer    = "invorya-ledger-test"
)

type fakeUserRepo struct {
	users []*entity.User
}

func (r *fakeUserRepo) Create(user *entity.User) error {
	r.users = append(r.users, user)
	return nil
}

func (r *fakeUserRepo) GetByEmailAndCompany(email, companyID string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email && u.CompanyID == companyID {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByEmail(email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

type fakeCompanyRepo struct {
	companies map[string]*entity.Company
}

func (r *fakeCompanyRepo) Create(company *entity.Company) error { return nil }
func (r *fakeCompanyRepo) GetByID(id string) (*entity.Company, error) {
	return r.companies[id], nil
}
func (r *fakeCompanyRepo) GetByNIT(nit string) (*entity.Company, error) { return nil, nil }
func (r *fakeCompanyRepo) Update(company *entity.Company) error         { return nil }
func (r *fakeCompanyRepo) List(limit, offset int) ([]*entity.Company, error) {
	return nil, nil
}

func newAuthFixture() (*auth.AuthUseCase, *fakeUserRepo) {
	users := &fakeUserRepo{}
	companies := &fakeCompanyRepo{companies: map[string]*entity.Company{
		authCompanyID: {ID: authCompanyID, Name: "Empresa Auth"},
	}}
	uc := auth.NewAuthUseCase(users, companies, auth.JWTConfig{
		Secret:     authSecret,
		ExpMinutes: 60,
		Issuer:     authIssuer,
	})
	return uc, users
}

func registerInput(email, role string) dto.RegisterRequest {
	return dto.RegisterRequest{
		Email:     email,
		Password:  "password-123",
		CompanyID: authCompanyID,
		Name:      "Usuario Prueba",
		Role:      role,
	}
}

func TestRegisterUser_HasheaPasswordYPersiste(t *testing.T) {
	uc, users := newAuthFixture()

	resp, err := uc.RegisterUser(registerInput("ana@empresa.com", entity.RoleAdmin))
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, resp.Role)
	assert.Equal(t, "active", resp.Status)

	require.Len(t, users.users, 1)
	stored := users.users[0]
	assert.NotEqual(t, "password-123", stored.PasswordHash, "el password nunca se persiste en plano")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("password-123")))
}

func TestRegisterUser_RolVacioPorDefectoVendedor(t *testing.T) {
	uc, _ := newAuthFixture()

	resp, err := uc.RegisterUser(registerInput("ana@empresa.com", ""))
	require.NoError(t, err)
	assert.Equal(t, entity.RoleVendedor, resp.Role)
}

func TestRegisterUser_RolDesconocidoRechazado(t *testing.T) {
	uc, users := newAuthFixture()

	_, err := uc.RegisterUser(registerInput("ana@empresa.com", "superusuario"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, users.users, "un rol inválido no persiste nada")
}

func TestRegisterUser_EmailDuplicadoEnLaEmpresa(t *testing.T) {
	uc, _ := newAuthFixture()

	_, err := uc.RegisterUser(registerInput("ana@empresa.com", entity.RoleAdmin))
	require.NoError(t, err)

	_, err = uc.RegisterUser(registerInput("ana@empresa.com", entity.RoleBodeguero))
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegisterUser_EmpresaInexistente(t *testing.T) {
	uc, _ := newAuthFixture()

	in := registerInput("ana@empresa.com", entity.RoleAdmin)
	in.CompanyID = "co-no-existe"
	_, err := uc.RegisterUser(in)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLogin_EmiteTokenConClaims(t *testing.T) {
	uc, _ := newAuthFixture()
	_, err := uc.RegisterUser(registerInput("ana@empresa.com", entity.RoleBodeguero))
	require.NoError(t, err)

	resp, err := uc.Login(dto.LoginRequest{Email: "ana@empresa.com", Password: "password-123"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)

	userID, companyID, role, err := jwt.Parse(authSecret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, userID)
	assert.Equal(t, authCompanyID, companyID)
	assert.Equal(t, entity.RoleBodeguero, role)
}

func TestLogin_PasswordIncorrecto(t *testing.T) {
	uc, _ := newAuthFixture()
	_, err := uc.RegisterUser(registerInput("ana@empresa.com", entity.RoleAdmin))
	require.NoError(t, err)

	_, err = uc.Login(dto.LoginRequest{Email: "ana@empresa.com", Password: "otra-cosa"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UsuarioInexistente(t *testing.T) {
	uc, _ := newAuthFixture()

	_, err := uc.Login(dto.LoginRequest{Email: "nadie@empresa.com", Password: "password-123"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestLogin_UsuarioInactivo(t *testing.T) {
	uc, users := newAuthFixture()
	_, err := uc.RegisterUser(registerInput("ana@empresa.com", entity.RoleAdmin))
	require.NoError(t, err)
	users.users[0].Status = "suspended"

	_, err = uc.Login(dto.LoginRequest{Email: "ana@empresa.com", Password: "password-123"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
