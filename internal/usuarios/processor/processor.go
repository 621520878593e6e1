package processor

import (
	"context"
	"errors"
	"ganadero-server/internal/observability"
	"ganadero-server/internal/store"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrCredencialesInvalidas = errors.New("credenciales inválidas")
	ErrEmailEnUso            = errors.New("el email ya está registrado")
)

const tokenTTL = 24 * time.Hour

// Store defines the database operations required by UsuariosProcessor.
type Store interface {
	ListUsuarios(ctx context.Context) ([]store.Usuario, error)
	GetUsuarioByID(ctx context.Context, id uuid.UUID) (store.Usuario, error)
	GetUsuarioByEmail(ctx context.Context, email string) (store.Usuario, error)
	CreateUsuario(ctx context.Context, u store.Usuario) (store.Usuario, error)
	UpdateUsuario(ctx context.Context, u store.Usuario) (store.Usuario, error)
	DeleteUsuario(ctx context.Context, id uuid.UUID) error
}

type UsuariosProcessor struct {
	store     Store
	jwtSecret string
	logger    *observability.Logger
}

func New(store Store, jwtSecret string, logger *observability.Logger) UsuariosProcessor {
	return UsuariosProcessor{
		store:     store,
		jwtSecret: jwtSecret,
		logger:    logger,
	}
}

func (p *UsuariosProcessor) List(ctx context.Context) ([]store.Usuario, error) {
	return p.store.ListUsuarios(ctx)
}

func (p *UsuariosProcessor) Get(ctx context.Context, id uuid.UUID) (store.Usuario, error) {
	return p.store.GetUsuarioByID(ctx, id)
}

// CreateParams are the fields of a new user; Password arrives in clear and is
// stored only as a bcrypt hash.
type CreateParams struct {
	Nombre   string
	Email    string
	Password string
	Rol      string
	Telefono string
	UppID    string
}

func (p *UsuariosProcessor) Create(ctx context.Context, params CreateParams) (store.Usuario, error) {
	_, err := p.store.GetUsuarioByEmail(ctx, params.Email)
	if err == nil {
		return store.Usuario{}, ErrEmailEnUso
	}
	if !errors.Is(err, store.ErrNotFound) {
		return store.Usuario{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		p.logger.Error(ctx, "failed to hash password", err)
		return store.Usuario{}, err
	}

	usuario, err := p.store.CreateUsuario(ctx, store.Usuario{
		Nombre:       params.Nombre,
		Email:        params.Email,
		PasswordHash: string(hash),
		Rol:          params.Rol,
		Telefono:     params.Telefono,
		UppID:        params.UppID,
	})
	if err != nil {
		return store.Usuario{}, err
	}

	ctx = observability.WithFields(ctx, observability.Field{Key: "usuario_id", Value: usuario.ID.String()})
	p.logger.Info(ctx, "Usuario created")
	return usuario, nil
}

func (p *UsuariosProcessor) Update(ctx context.Context, u store.Usuario) (store.Usuario, error) {
	return p.store.UpdateUsuario(ctx, u)
}

func (p *UsuariosProcessor) Delete(ctx context.Context, id uuid.UUID) error {
	return p.store.DeleteUsuario(ctx, id)
}

// LoginResult is the authenticated user plus a signed session token.
type LoginResult struct {
	Usuario store.Usuario `json:"usuario"`
	Token   string        `json:"token"`
}

// Login verifies credentials and issues an HS256 JWT. Lookup and comparison
// failures both map to ErrCredencialesInvalidas so callers cannot probe which
// emails exist.
func (p *UsuariosProcessor) Login(ctx context.Context, email, password string) (LoginResult, error) {
	usuario, err := p.store.GetUsuarioByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return LoginResult{}, ErrCredencialesInvalidas
		}
		return LoginResult{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(usuario.PasswordHash), []byte(password)); err != nil {
		return LoginResult{}, ErrCredencialesInvalidas
	}

	claims := jwt.MapClaims{
		"sub":   usuario.ID.String(),
		"email": usuario.Email,
		"rol":   usuario.Rol,
		"exp":   time.Now().Add(tokenTTL).Unix(),
		"iat":   time.Now().Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(p.jwtSecret))
	if err != nil {
		p.logger.Error(ctx, "failed to sign session token", err)
		return LoginResult{}, err
	}

	return LoginResult{Usuario: usuario, Token: token}, nil
}
