package handler

import (
	"ganadero-server/internal/apierrors"
	"ganadero-server/internal/ganado/processor"
	"ganadero-server/internal/observability"
	"ganadero-server/internal/store"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	processor processor.GanadoProcessor
	logger    *observability.Logger
}

func New(processor processor.GanadoProcessor, logger *observability.Logger) Handler {
	return Handler{
		processor: processor,
		logger:    logger,
	}
}

// HandleList handles GET /api/ganado
func (h *Handler) HandleList(c *gin.Context) {
	animales, err := h.processor.List(c.Request.Context())
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ganado": animales, "total": len(animales)})
}

// HandleGet handles GET /api/ganado/:id
func (h *Handler) HandleGet(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "ID de ganado inválido")
		return
	}

	animal, err := h.processor.Get(c.Request.Context(), id)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, animal)
}

// GanadoRequest is the payload for registering or updating an animal.
type GanadoRequest struct {
	Arete           string  `json:"arete" binding:"required"`
	Nombre          string  `json:"nombre"`
	Raza            string  `json:"raza"`
	Sexo            string  `json:"sexo"`
	PesoKg          float64 `json:"peso_kg"`
	FechaNacimiento string  `json:"fecha_nacimiento"`
	UppID           string  `json:"upp_id"`
	EstadoSalud     string  `json:"estado_salud"`
}

// HandleCreate handles POST /api/ganado
func (h *Handler) HandleCreate(c *gin.Context) {
	ctx := c.Request.Context()

	var req GanadoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error(ctx, "failed to bind ganado request", err)
		apierrors.BadRequest(c, "Solicitud inválida")
		return
	}

	animal, err := h.processor.Create(ctx, store.Ganado{
		Arete:           req.Arete,
		Nombre:          req.Nombre,
		Raza:            req.Raza,
		Sexo:            req.Sexo,
		PesoKg:          req.PesoKg,
		FechaNacimiento: req.FechaNacimiento,
		UppID:           req.UppID,
		EstadoSalud:     req.EstadoSalud,
	})
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, animal)
}

// HandleUpdate handles PUT /api/ganado/:id
func (h *Handler) HandleUpdate(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "ID de ganado inválido")
		return
	}

	var req GanadoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Solicitud inválida")
		return
	}

	animal, err := h.processor.Update(ctx, store.Ganado{
		ID:              id,
		Arete:           req.Arete,
		Nombre:          req.Nombre,
		Raza:            req.Raza,
		Sexo:            req.Sexo,
		PesoKg:          req.PesoKg,
		FechaNacimiento: req.FechaNacimiento,
		UppID:           req.UppID,
		EstadoSalud:     req.EstadoSalud,
	})
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, animal)
}

// HandleDelete handles DELETE /api/ganado/:id
func (h *Handler) HandleDelete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "ID de ganado inválido")
		return
	}

	if err := h.processor.Delete(c.Request.Context(), id); err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "eliminado": true})
}
