package handler

import (
	"context"
	"ganadero-server/internal/apierrors"
	"ganadero-server/internal/observability"
	"ganadero-server/internal/store"
	"ganadero-server/internal/wallet/processor"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UsuarioStore looks up the producer a credential is issued for.
type UsuarioStore interface {
	GetUsuarioByID(ctx context.Context, id uuid.UUID) (store.Usuario, error)
}

type Handler struct {
	processor *processor.WalletProcessor
	usuarios  UsuarioStore
	logger    *observability.Logger
}

func New(p *processor.WalletProcessor, usuarios UsuarioStore, logger *observability.Logger) Handler {
	return Handler{
		processor: p,
		usuarios:  usuarios,
		logger:    logger,
	}
}

type EmitirRequest struct {
	UsuarioID string `json:"usuario_id" binding:"required"`
}

// HandleEmitirCredencial handles POST /api/wallet/credenciales
func (h *Handler) HandleEmitirCredencial(c *gin.Context) {
	ctx := c.Request.Context()

	var req EmitirRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Datos de credencial inválidos")
		return
	}

	usuarioID, err := uuid.Parse(req.UsuarioID)
	if err != nil {
		apierrors.BadRequest(c, "ID de usuario inválido")
		return
	}

	usuario, err := h.usuarios.GetUsuarioByID(ctx, usuarioID)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	credencial, err := h.processor.EmitirCredencial(ctx, usuario)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, credencial)
}
