package processor

import (
	"context"
	"ganadero-server/internal/observability"
	"ganadero-server/internal/store"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) ListUsuarios(ctx context.Context) ([]store.Usuario, error) {
	args := m.Called(ctx)
	return args.Get(0).([]store.Usuario), args.Error(1)
}

func (m *mockStore) GetUsuarioByID(ctx context.Context, id uuid.UUID) (store.Usuario, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(store.Usuario), args.Error(1)
}

func (m *mockStore) GetUsuarioByEmail(ctx context.Context, email string) (store.Usuario, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(store.Usuario), args.Error(1)
}

func (m *mockStore) CreateUsuario(ctx context.Context, u store.Usuario) (store.Usuario, error) {
	args := m.Called(ctx, u)
	return args.Get(0).(store.Usuario), args.Error(1)
}

func (m *mockStore) UpdateUsuario(ctx context.Context, u store.Usuario) (store.Usuario, error) {
	args := m.Called(ctx, u)
	return args.Get(0).(store.Usuario), args.Error(1)
}

func (m *mockStore) DeleteUsuario(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestCreate_HashesPassword(t *testing.T) {
	st := &mockStore{}
	p := New(st, "secret", observability.NewLogger())

	st.On("GetUsuarioByEmail", mock.Anything, "ana@rancho.mx").
		Return(store.Usuario{}, store.ErrNotFound)
	st.On("CreateUsuario", mock.Anything, mock.MatchedBy(func(u store.Usuario) bool {
		if u.PasswordHash == "hunter2" {
			return false
		}
		return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("hunter2")) == nil
	})).Return(store.Usuario{ID: uuid.New(), Email: "ana@rancho.mx"}, nil)

	_, err := p.Create(context.Background(), CreateParams{
		Nombre:   "Ana",
		Email:    "ana@rancho.mx",
		Password: "hunter2",
		Rol:      "productor",
	})

	require.NoError(t, err)
	st.AssertExpectations(t)
}

func TestCreate_RejectsDuplicateEmail(t *testing.T) {
	st := &mockStore{}
	p := New(st, "secret", observability.NewLogger())

	st.On("GetUsuarioByEmail", mock.Anything, "ana@rancho.mx").
		Return(store.Usuario{ID: uuid.New()}, nil)

	_, err := p.Create(context.Background(), CreateParams{Email: "ana@rancho.mx", Password: "x"})

	assert.ErrorIs(t, err, ErrEmailEnUso)
}

func TestLogin_IssuesSignedToken(t *testing.T) {
	st := &mockStore{}
	p := New(st, "secret", observability.NewLogger())

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)
	usuario := store.Usuario{ID: uuid.New(), Email: "ana@rancho.mx", Rol: "productor", PasswordHash: string(hash)}
	st.On("GetUsuarioByEmail", mock.Anything, "ana@rancho.mx").Return(usuario, nil)

	result, err := p.Login(context.Background(), "ana@rancho.mx", "hunter2")
	require.NoError(t, err)

	token, err := jwt.Parse(result.Token, func(t *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, usuario.ID.String(), claims["sub"])
	assert.Equal(t, "productor", claims["rol"])
}

func TestLogin_WrongPassword(t *testing.T) {
	st := &mockStore{}
	p := New(st, "secret", observability.NewLogger())

	hash, _ := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	st.On("GetUsuarioByEmail", mock.Anything, "ana@rancho.mx").
		Return(store.Usuario{PasswordHash: string(hash)}, nil)

	_, err := p.Login(context.Background(), "ana@rancho.mx", "wrong")

	assert.ErrorIs(t, err, ErrCredencialesInvalidas)
}

func TestLogin_UnknownEmailSameError(t *testing.T) {
	st := &mockStore{}
	p := New(st, "secret", observability.NewLogger())

	st.On("GetUsuarioByEmail", mock.Anything, "nadie@rancho.mx").
		Return(store.Usuario{}, store.ErrNotFound)

	_, err := p.Login(context.Background(), "nadie@rancho.mx", "hunter2")

	assert.ErrorIs(t, err, ErrCredencialesInvalidas)
}
