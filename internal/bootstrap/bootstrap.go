package bootstrap

import (
	"context"
	"fmt"
	"ganadero-server/internal/config"
	"ganadero-server/internal/observability"
	"ganadero-server/internal/store"

	chatbotHandler "ganadero-server/internal/chatbot/handler"
	chatbotProcessor "ganadero-server/internal/chatbot/processor"
	openaiClient "ganadero-server/internal/clients/openai"
	"ganadero-server/internal/clients/speech"
	"ganadero-server/internal/clients/telephony"
	ganadoHandler "ganadero-server/internal/ganado/handler"
	ganadoProcessor "ganadero-server/internal/ganado/processor"
	inventarioHandler "ganadero-server/internal/inventario/handler"
	inventarioProcessor "ganadero-server/internal/inventario/processor"
	tramitesHandler "ganadero-server/internal/tramites/handler"
	tramitesProcessor "ganadero-server/internal/tramites/processor"
	usuariosHandler "ganadero-server/internal/usuarios/handler"
	usuariosProcessor "ganadero-server/internal/usuarios/processor"
	voicecallHandler "ganadero-server/internal/voicecall/handler"
	voicecallProcessor "ganadero-server/internal/voicecall/processor"
	walletHandler "ganadero-server/internal/wallet/handler"
	walletProcessor "ganadero-server/internal/wallet/processor"
)

// Dependencies holds all initialized application dependencies
type Dependencies struct {
	// Core
	Store  store.Store
	Logger *observability.Logger

	// Handlers
	GanadoHandler     ganadoHandler.Handler
	InventarioHandler inventarioHandler.Handler
	TramitesHandler   tramitesHandler.Handler
	UsuariosHandler   usuariosHandler.Handler
	ChatbotHandler    chatbotHandler.Handler
	VoiceCallHandler  voicecallHandler.Handler

	// WalletHandler is nil when wallet issuance is not configured.
	WalletHandler *walletHandler.Handler
}

// Initialize sets up all application dependencies
func Initialize(ctx context.Context, cfg *config.Config, logger *observability.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Logger: logger,
	}

	// Initialize database store
	connectionString := cfg.Database.ConnectionString()
	var err error
	deps.Store, err = store.New(connectionString, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Initialize clients
	speechClient := speech.New(cfg.Speech.InferenceURL, logger)
	telephonyClient := telephony.New(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.StreamURL, logger)

	var transcriber chatbotProcessor.Transcriber
	if cfg.Speech.GroqAPIKey != "" {
		groqClient, err := openaiClient.NewTranscriptionClient(cfg.Speech.GroqAPIKey, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create transcription client: %w", err)
		}
		transcriber = groqClient
	}

	// Initialize domain processors and handlers
	ganadoProc := ganadoProcessor.New(&deps.Store, logger)
	deps.GanadoHandler = ganadoHandler.New(ganadoProc, logger)

	inventarioProc := inventarioProcessor.New(&deps.Store, logger)
	deps.InventarioHandler = inventarioHandler.New(inventarioProc, logger)

	tramitesProc := tramitesProcessor.New(&deps.Store, logger)
	deps.TramitesHandler = tramitesHandler.New(tramitesProc, logger)

	usuariosProc := usuariosProcessor.New(&deps.Store, cfg.Auth.JWTSecret, logger)
	deps.UsuariosHandler = usuariosHandler.New(usuariosProc, logger)

	// Initialize the completion engines. Both surfaces share the streamer and
	// tool dispatcher; they differ in system prompt and session durability.
	streamer := chatbotProcessor.NewAzureStreamer(cfg.Azure.Endpoint, cfg.Azure.APIKey, cfg.Azure.APIVersion)
	dispatcher := chatbotProcessor.NewToolDispatcher(&tramitesProc, &ganadoProc, &inventarioProc, logger)

	chatSessions := chatbotProcessor.NewDurableSessionStore(&deps.Store, logger)
	chatEngine := chatbotProcessor.NewEngine(streamer, chatSessions, dispatcher,
		cfg.Azure.Deployment, chatbotProcessor.ChatSeedMessage(), logger)
	chatProc := chatbotProcessor.NewChatProcessor(chatEngine, chatSessions, &deps.Store,
		transcriber, cfg.Google.AIAPIKey, logger)
	deps.ChatbotHandler = chatbotHandler.New(chatProc, logger)

	voiceSessions := chatbotProcessor.NewInMemorySessionStore()
	voiceEngine := chatbotProcessor.NewEngine(streamer, voiceSessions, dispatcher,
		cfg.Azure.Deployment, chatbotProcessor.VoiceSeedMessage(), logger)
	voiceProc := voicecallProcessor.New(voiceEngine, speechClient, telephonyClient,
		cfg.Speech.RecordingsDir, logger)
	deps.VoiceCallHandler = voicecallHandler.New(voiceProc, cfg.Twilio.StreamURL, logger)

	// Initialize wallet issuance when configured
	if cfg.Wallet.IssuerID != "" && cfg.Wallet.CredentialsJSON != "" {
		walletProc, err := walletProcessor.New(ctx, cfg.Wallet.IssuerID,
			[]byte(cfg.Wallet.CredentialsJSON), logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create wallet processor: %w", err)
		}
		h := walletHandler.New(walletProc, &deps.Store, logger)
		deps.WalletHandler = &h
	}

	return deps, nil
}
