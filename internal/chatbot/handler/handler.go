package handler

import (
	"ganadero-server/internal/apierrors"
	"ganadero-server/internal/chatbot/processor"
	"ganadero-server/internal/observability"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	processor *processor.ChatProcessor
	logger    *observability.Logger
}

func New(p *processor.ChatProcessor, logger *observability.Logger) Handler {
	return Handler{
		processor: p,
		logger:    logger,
	}
}

// HandleHistorial handles GET /api/chatbot/historial/:usuario_id
func (h *Handler) HandleHistorial(c *gin.Context) {
	ctx := c.Request.Context()

	limite, _ := strconv.Atoi(c.Query("limite"))
	sesiones, err := h.processor.Historial(ctx, c.Param("usuario_id"), limite)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"sesiones": sesiones, "total": len(sesiones)})
}

type MensajeRequest struct {
	SessionID string `json:"session_id"`
	Mensaje   string `json:"mensaje" binding:"required"`
}

// HandleMensaje handles POST /api/chatbot/mensajes, the synchronous
// alternative to the websocket: the whole turn runs before responding.
func (h *Handler) HandleMensaje(c *gin.Context) {
	ctx := c.Request.Context()

	var req MensajeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Mensaje inválido")
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.New().String()
	}

	var sink processor.BufferSink
	h.processor.Chat(ctx, req.SessionID, req.Mensaje, &sink)

	respuesta, errMsg := sink.Response()
	if errMsg != "" {
		c.JSON(http.StatusBadGateway, gin.H{"session_id": req.SessionID, "error": errMsg})
		return
	}

	c.JSON(http.StatusOK, gin.H{"session_id": req.SessionID, "respuesta": respuesta})
}

type CreateSesionRequest struct {
	UsuarioID string `json:"usuario_id" binding:"required"`
}

// HandleCreateSesion handles POST /api/chatbot/sesiones
func (h *Handler) HandleCreateSesion(c *gin.Context) {
	ctx := c.Request.Context()

	var req CreateSesionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Datos de sesión inválidos")
		return
	}

	sesion, err := h.processor.CrearSesion(ctx, req.UsuarioID)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, sesion)
}

// HandleGetSesion handles GET /api/chatbot/sesiones/:id
func (h *Handler) HandleGetSesion(c *gin.Context) {
	ctx := c.Request.Context()

	sesion, err := h.processor.Sesion(ctx, c.Param("id"))
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, sesion)
}

// HandleDeleteSesion handles DELETE /api/chatbot/sesiones/:id
func (h *Handler) HandleDeleteSesion(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.processor.EliminarSesion(ctx, c.Param("id")); err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"mensaje": "Sesión eliminada"})
}

type FeedbackRequest struct {
	MensajeID    string `json:"mensaje_id" binding:"required"`
	Calificacion int    `json:"calificacion" binding:"required,min=1,max=5"`
	Comentario   string `json:"comentario"`
}

// HandleFeedback handles POST /api/chatbot/feedback
func (h *Handler) HandleFeedback(c *gin.Context) {
	ctx := c.Request.Context()

	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Datos de feedback inválidos")
		return
	}

	if err := h.processor.Feedback(ctx, req.MensajeID, req.Calificacion, req.Comentario); err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"mensaje": "Feedback registrado"})
}

// HandleSugerencias handles GET /api/chatbot/sugerencias
func (h *Handler) HandleSugerencias(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sugerencias": h.processor.Sugerencias()})
}
