package handler

import (
	"errors"
	"ganadero-server/internal/apierrors"
	"ganadero-server/internal/observability"
	"ganadero-server/internal/store"
	"ganadero-server/internal/usuarios/processor"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	processor processor.UsuariosProcessor
	logger    *observability.Logger
}

func New(processor processor.UsuariosProcessor, logger *observability.Logger) Handler {
	return Handler{
		processor: processor,
		logger:    logger,
	}
}

// HandleList handles GET /api/usuarios
func (h *Handler) HandleList(c *gin.Context) {
	usuarios, err := h.processor.List(c.Request.Context())
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"usuarios": usuarios, "total": len(usuarios)})
}

// HandleGet handles GET /api/usuarios/:id
func (h *Handler) HandleGet(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "ID de usuario inválido")
		return
	}

	usuario, err := h.processor.Get(c.Request.Context(), id)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, usuario)
}

// CreateUsuarioRequest registers a new producer account.
type CreateUsuarioRequest struct {
	Nombre   string `json:"nombre" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Rol      string `json:"rol"`
	Telefono string `json:"telefono"`
	UppID    string `json:"upp_id"`
}

// HandleCreate handles POST /api/usuarios
func (h *Handler) HandleCreate(c *gin.Context) {
	ctx := c.Request.Context()

	var req CreateUsuarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error(ctx, "failed to bind usuario request", err)
		apierrors.BadRequest(c, "Solicitud inválida")
		return
	}

	if req.Rol == "" {
		req.Rol = "productor"
	}

	usuario, err := h.processor.Create(ctx, processor.CreateParams{
		Nombre:   req.Nombre,
		Email:    req.Email,
		Password: req.Password,
		Rol:      req.Rol,
		Telefono: req.Telefono,
		UppID:    req.UppID,
	})
	if err != nil {
		if errors.Is(err, processor.ErrEmailEnUso) {
			apierrors.Conflict(c, "El email ya está registrado")
			return
		}
		apierrors.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, usuario)
}

// UpdateUsuarioRequest updates profile fields; the password is untouched.
type UpdateUsuarioRequest struct {
	Nombre   string `json:"nombre" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Rol      string `json:"rol"`
	Telefono string `json:"telefono"`
	UppID    string `json:"upp_id"`
}

// HandleUpdate handles PUT /api/usuarios/:id
func (h *Handler) HandleUpdate(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "ID de usuario inválido")
		return
	}

	var req UpdateUsuarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Solicitud inválida")
		return
	}

	usuario, err := h.processor.Update(ctx, store.Usuario{
		ID:       id,
		Nombre:   req.Nombre,
		Email:    req.Email,
		Rol:      req.Rol,
		Telefono: req.Telefono,
		UppID:    req.UppID,
	})
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, usuario)
}

// HandleDelete handles DELETE /api/usuarios/:id
func (h *Handler) HandleDelete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "ID de usuario inválido")
		return
	}

	if err := h.processor.Delete(c.Request.Context(), id); err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "eliminado": true})
}

// LoginRequest authenticates a user by email and password.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// HandleLogin handles POST /api/usuarios/login
func (h *Handler) HandleLogin(c *gin.Context) {
	ctx := c.Request.Context()

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Solicitud inválida")
		return
	}

	result, err := h.processor.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, processor.ErrCredencialesInvalidas) {
			apierrors.Unauthorized(c, "Credenciales inválidas")
			return
		}
		apierrors.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
