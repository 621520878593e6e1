package handler

import (
	"errors"
	"ganadero-server/internal/apierrors"
	"ganadero-server/internal/observability"
	"ganadero-server/internal/store"
	"ganadero-server/internal/tramites/processor"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	processor processor.TramitesProcessor
	logger    *observability.Logger
}

func New(processor processor.TramitesProcessor, logger *observability.Logger) Handler {
	return Handler{
		processor: processor,
		logger:    logger,
	}
}

// HandleListTramites handles GET /api/tramites
func (h *Handler) HandleListTramites(c *gin.Context) {
	ctx := c.Request.Context()

	filters := store.TramiteFilters{
		Tipo:      c.Query("tipo"),
		Estado:    c.Query("estado"),
		UsuarioID: c.Query("usuario_id"),
	}

	tramites, err := h.processor.List(ctx, filters)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tramites": tramites, "total": len(tramites)})
}

// HandleGetTipos handles GET /api/tramites/tipos
func (h *Handler) HandleGetTipos(c *gin.Context) {
	c.JSON(http.StatusOK, h.processor.Tipos())
}

// HandleGetTramite handles GET /api/tramites/:id
func (h *Handler) HandleGetTramite(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "ID de trámite inválido")
		return
	}

	tramite, err := h.processor.Get(ctx, id)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, tramite)
}

// HandleGetSeguimiento handles GET /api/tramites/:id/seguimiento
func (h *Handler) HandleGetSeguimiento(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "ID de trámite inválido")
		return
	}

	seguimiento, err := h.processor.Seguimiento(ctx, id)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, seguimiento)
}

// CreateTramiteRequest is the payload for opening a new trámite.
type CreateTramiteRequest struct {
	Tipo          string        `json:"tipo" binding:"required"`
	UsuarioID     string        `json:"usuario_id" binding:"required"`
	UppID         string        `json:"upp_id"`
	GanadoIDs     []interface{} `json:"ganado_ids"`
	Observaciones string        `json:"observaciones"`
	Documentos    []interface{} `json:"documentos"`
}

// HandleCreateTramite handles POST /api/tramites
func (h *Handler) HandleCreateTramite(c *gin.Context) {
	ctx := c.Request.Context()

	var req CreateTramiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error(ctx, "failed to bind create tramite request", err)
		apierrors.BadRequest(c, "Solicitud inválida")
		return
	}

	tramite, err := h.processor.Crear(ctx, processor.CreateParams{
		Tipo:          req.Tipo,
		UsuarioID:     req.UsuarioID,
		UppID:         req.UppID,
		GanadoIDs:     req.GanadoIDs,
		Observaciones: req.Observaciones,
		Documentos:    req.Documentos,
	})
	if err != nil {
		if errors.Is(err, processor.ErrTipoInvalido) {
			apierrors.BadRequest(c, "Tipo de trámite no válido")
			return
		}
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, tramite)
}

// EtapaRequest carries who moved the trámite and why.
type EtapaRequest struct {
	Etapa         int    `json:"etapa"`
	Responsable   string `json:"responsable"`
	Observaciones string `json:"observaciones"`
}

// HandleAvanzarEtapa handles PUT /api/tramites/:id/avanzar-etapa
func (h *Handler) HandleAvanzarEtapa(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "ID de trámite inválido")
		return
	}

	var req EtapaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Solicitud inválida")
		return
	}

	avance, err := h.processor.AvanzarEtapa(ctx, id, req.Responsable, req.Observaciones)
	if err != nil {
		if errors.Is(err, processor.ErrUltimaEtapa) {
			apierrors.BadRequest(c, "El trámite ya está en su última etapa")
			return
		}
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, avance)
}

// HandleActualizarEtapa handles PUT /api/tramites/:id/actualizar-etapa
func (h *Handler) HandleActualizarEtapa(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "ID de trámite inválido")
		return
	}

	var req EtapaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Solicitud inválida")
		return
	}

	if err := h.processor.ActualizarEtapa(ctx, id, req.Etapa, req.Responsable, req.Observaciones); err != nil {
		if errors.Is(err, processor.ErrEtapaInvalida) {
			apierrors.BadRequest(c, "Etapa inválida")
			return
		}
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tramite_id": id, "etapa_actual": req.Etapa})
}

// EstadoRequest changes the lifecycle state of a trámite.
type EstadoRequest struct {
	Estado string `json:"estado" binding:"required"`
	Motivo string `json:"motivo"`
}

// HandleActualizarEstado handles PUT /api/tramites/:id/estado
func (h *Handler) HandleActualizarEstado(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "ID de trámite inválido")
		return
	}

	var req EstadoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Solicitud inválida")
		return
	}

	if err := h.processor.ActualizarEstado(ctx, id, req.Estado, req.Motivo); err != nil {
		if errors.Is(err, processor.ErrEstadoInvalido) {
			apierrors.BadRequest(c, "Estado no válido")
			return
		}
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tramite_id": id, "nuevo_estado": req.Estado})
}

// ObservacionRequest appends a free-form note to a trámite.
type ObservacionRequest struct {
	Observacion string `json:"observacion" binding:"required"`
	Usuario     string `json:"usuario"`
}

// HandleAgregarObservacion handles POST /api/tramites/:id/observaciones
func (h *Handler) HandleAgregarObservacion(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "ID de trámite inválido")
		return
	}

	var req ObservacionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Solicitud inválida")
		return
	}

	obs, err := h.processor.AgregarObservacion(ctx, id, req.Observacion, req.Usuario)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, obs)
}

// DocumentoRequest attaches a digitized document reference.
type DocumentoRequest struct {
	NombreDocumento string `json:"nombre_documento" binding:"required"`
	TipoDocumento   string `json:"tipo_documento"`
	URL             string `json:"url" binding:"required"`
}

// HandleAgregarDocumento handles POST /api/tramites/:id/documentos
func (h *Handler) HandleAgregarDocumento(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "ID de trámite inválido")
		return
	}

	var req DocumentoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Solicitud inválida")
		return
	}

	doc, err := h.processor.AgregarDocumento(ctx, id, req.NombreDocumento, req.TipoDocumento, req.URL)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tramite_id": id, "documento": doc})
}

// HandleGetDocumentos handles GET /api/tramites/:id/documentos
func (h *Handler) HandleGetDocumentos(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "ID de trámite inválido")
		return
	}

	documentos, err := h.processor.Documentos(ctx, id)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tramite_id": id, "documentos": documentos})
}

// CancelRequest carries the cancellation reason.
type CancelRequest struct {
	Motivo string `json:"motivo"`
}

// HandleCancelTramite handles DELETE /api/tramites/:id. The record is kept,
// only marked CANCELADO.
func (h *Handler) HandleCancelTramite(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "ID de trámite inválido")
		return
	}

	var req CancelRequest
	_ = c.ShouldBindJSON(&req)

	if err := h.processor.Cancelar(ctx, id, req.Motivo); err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tramite_id": id, "estado": store.TramiteEstadoCancelado})
}

// HandleTramitesPorUsuario handles GET /api/tramites/usuario/:usuario_id
func (h *Handler) HandleTramitesPorUsuario(c *gin.Context) {
	ctx := c.Request.Context()

	usuarioID := c.Param("usuario_id")
	tramites, err := h.processor.PorUsuario(ctx, usuarioID, c.Query("estado"))
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"usuario_id": usuarioID, "tramites": tramites, "total": len(tramites)})
}

// HandleGetStats handles GET /api/tramites/stats/general
func (h *Handler) HandleGetStats(c *gin.Context) {
	ctx := c.Request.Context()

	stats, err := h.processor.Stats(ctx)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
