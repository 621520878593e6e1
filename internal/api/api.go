package api

import (
	"ganadero-server/internal/bootstrap"
	"net/http"

	"github.com/gin-gonic/gin"
)

type API struct {
	router *gin.RouterGroup
	deps   *bootstrap.Dependencies
}

func New(router *gin.RouterGroup, deps *bootstrap.Dependencies) API {
	return API{
		router: router,
		deps:   deps,
	}
}

func (a *API) RegisterRoutes() {
	a.Health()
	apiGroup := a.router.Group("/api")

	ganadoGroup := apiGroup.Group("/ganado")
	{
		ganadoGroup.GET("", a.deps.GanadoHandler.HandleList)
		ganadoGroup.GET("/:id", a.deps.GanadoHandler.HandleGet)
		ganadoGroup.POST("", a.deps.GanadoHandler.HandleCreate)
		ganadoGroup.PUT("/:id", a.deps.GanadoHandler.HandleUpdate)
		ganadoGroup.DELETE("/:id", a.deps.GanadoHandler.HandleDelete)
	}

	inventarioGroup := apiGroup.Group("/inventario")
	{
		inventarioGroup.GET("", a.deps.InventarioHandler.HandleList)
		inventarioGroup.GET("/stock-bajo", a.deps.InventarioHandler.HandleStockBajo)
		inventarioGroup.GET("/:id", a.deps.InventarioHandler.HandleGet)
		inventarioGroup.POST("", a.deps.InventarioHandler.HandleCreate)
		inventarioGroup.PUT("/:id", a.deps.InventarioHandler.HandleUpdate)
		inventarioGroup.PATCH("/:id/stock", a.deps.InventarioHandler.HandleAjustarStock)
		inventarioGroup.DELETE("/:id", a.deps.InventarioHandler.HandleDelete)
	}

	tramitesGroup := apiGroup.Group("/tramites")
	{
		tramitesGroup.GET("", a.deps.TramitesHandler.HandleListTramites)
		tramitesGroup.GET("/tipos", a.deps.TramitesHandler.HandleGetTipos)
		tramitesGroup.GET("/stats/general", a.deps.TramitesHandler.HandleGetStats)
		tramitesGroup.GET("/usuario/:usuario_id", a.deps.TramitesHandler.HandleTramitesPorUsuario)
		tramitesGroup.GET("/:id", a.deps.TramitesHandler.HandleGetTramite)
		tramitesGroup.GET("/:id/seguimiento", a.deps.TramitesHandler.HandleGetSeguimiento)
		tramitesGroup.POST("", a.deps.TramitesHandler.HandleCreateTramite)
		tramitesGroup.PUT("/:id/avanzar-etapa", a.deps.TramitesHandler.HandleAvanzarEtapa)
		tramitesGroup.PUT("/:id/actualizar-etapa", a.deps.TramitesHandler.HandleActualizarEtapa)
		tramitesGroup.PUT("/:id/estado", a.deps.TramitesHandler.HandleActualizarEstado)
		tramitesGroup.POST("/:id/observaciones", a.deps.TramitesHandler.HandleAgregarObservacion)
		tramitesGroup.POST("/:id/documentos", a.deps.TramitesHandler.HandleAgregarDocumento)
		tramitesGroup.GET("/:id/documentos", a.deps.TramitesHandler.HandleGetDocumentos)
		tramitesGroup.DELETE("/:id", a.deps.TramitesHandler.HandleCancelTramite)
	}

	usuariosGroup := apiGroup.Group("/usuarios")
	{
		usuariosGroup.GET("", a.deps.UsuariosHandler.HandleList)
		usuariosGroup.GET("/:id", a.deps.UsuariosHandler.HandleGet)
		usuariosGroup.POST("", a.deps.UsuariosHandler.HandleCreate)
		usuariosGroup.POST("/login", a.deps.UsuariosHandler.HandleLogin)
		usuariosGroup.PUT("/:id", a.deps.UsuariosHandler.HandleUpdate)
		usuariosGroup.DELETE("/:id", a.deps.UsuariosHandler.HandleDelete)
	}

	chatbotGroup := apiGroup.Group("/chatbot")
	{
		chatbotGroup.GET("/ws", a.deps.ChatbotHandler.HandleChatSocket)
		chatbotGroup.POST("/mensajes", a.deps.ChatbotHandler.HandleMensaje)
		chatbotGroup.GET("/historial/:usuario_id", a.deps.ChatbotHandler.HandleHistorial)
		chatbotGroup.POST("/sesiones", a.deps.ChatbotHandler.HandleCreateSesion)
		chatbotGroup.GET("/sesiones/:id", a.deps.ChatbotHandler.HandleGetSesion)
		chatbotGroup.DELETE("/sesiones/:id", a.deps.ChatbotHandler.HandleDeleteSesion)
		chatbotGroup.POST("/feedback", a.deps.ChatbotHandler.HandleFeedback)
		chatbotGroup.GET("/sugerencias", a.deps.ChatbotHandler.HandleSugerencias)
	}

	llamadasGroup := apiGroup.Group("/llamadas")
	{
		llamadasGroup.POST("/answer", a.deps.VoiceCallHandler.HandleAnswerCall)
		llamadasGroup.GET("/media-stream", a.deps.VoiceCallHandler.HandleMediaStream)
	}

	if a.deps.WalletHandler != nil {
		apiGroup.POST("/wallet/credenciales", a.deps.WalletHandler.HandleEmitirCredencial)
	}
}

func (a *API) Health() {
	a.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
}
