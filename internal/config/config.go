package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

var ErrEmptyEnvironmentVariable = errors.New("empty environment variable")

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Auth     AuthConfig
	Azure    AzureOpenAIConfig
	Speech   SpeechConfig
	Twilio   TwilioConfig
	Google   GoogleConfig
	Wallet   WalletConfig
	Server   ServerConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Username string
	Password string
	Name     string
}

// AuthConfig holds authentication-related configuration
type AuthConfig struct {
	JWTSecret string
}

// AzureOpenAIConfig holds the Azure OpenAI deployment used by the chat assistant
type AzureOpenAIConfig struct {
	Endpoint   string
	APIKey     string
	APIVersion string
	Deployment string
}

// SpeechConfig holds the transcription/emotion inference service settings
type SpeechConfig struct {
	// InferenceURL is the base URL of the whisper/emotion sidecar (/trans, /emotion).
	InferenceURL string
	// GroqAPIKey enables the Groq-hosted whisper endpoint used by the chat surface.
	GroqAPIKey    string
	RecordingsDir string
}

// TwilioConfig holds telephony credentials and the media-stream endpoint
type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	// StreamURL is the wss endpoint Twilio reconnects the media stream to
	// after an interruption directive.
	StreamURL string
}

// GoogleConfig holds Google AI settings
type GoogleConfig struct {
	AIAPIKey string
}

// WalletConfig holds Google Wallet issuance settings
type WalletConfig struct {
	IssuerID        string
	CredentialsJSON string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port      int
	WebAppURI string
}

// Load reads and validates all required environment variables
func Load() (*Config, error) {
	// Load env.local in non-production environments
	if os.Getenv("GO_ENV") != "production" {
		if err := godotenv.Load("env.local"); err != nil {
			return nil, fmt.Errorf("failed to load env.local: %w", err)
		}
	}

	cfg := &Config{}

	var err error
	if cfg.Database.Host, err = requireEnv("DB_HOST"); err != nil {
		return nil, err
	}
	if cfg.Database.Username, err = requireEnv("DB_USERNAME"); err != nil {
		return nil, err
	}
	if cfg.Database.Password, err = requireEnv("DB_PASSWORD"); err != nil {
		return nil, err
	}
	if cfg.Database.Name, err = requireEnv("DB_NAME"); err != nil {
		return nil, err
	}

	if cfg.Auth.JWTSecret, err = requireEnv("JWT_SECRET"); err != nil {
		return nil, err
	}

	if cfg.Azure.Endpoint, err = requireEnv("AZURE_OPENAI_ENDPOINT"); err != nil {
		return nil, err
	}
	if cfg.Azure.APIKey, err = requireEnv("AZURE_OPENAI_API_KEY"); err != nil {
		return nil, err
	}
	if cfg.Azure.Deployment, err = requireEnv("AZURE_OPENAI_DEPLOYMENT_NAME"); err != nil {
		return nil, err
	}
	cfg.Azure.APIVersion = getEnvWithDefault("AZURE_OPENAI_API_VERSION", "2024-06-01")

	if cfg.Speech.InferenceURL, err = requireEnv("AI_API_URL"); err != nil {
		return nil, err
	}
	cfg.Speech.GroqAPIKey = os.Getenv("GROQ_API_KEY")
	cfg.Speech.RecordingsDir = getEnvWithDefault("RECORDINGS_DIR", "recordings")

	if cfg.Twilio.AccountSID, err = requireEnv("TWILIO_ACCOUNT_SID"); err != nil {
		return nil, err
	}
	if cfg.Twilio.AuthToken, err = requireEnv("TWILIO_AUTH_TOKEN"); err != nil {
		return nil, err
	}
	if cfg.Twilio.StreamURL, err = requireEnv("TWILIO_STREAM_URL"); err != nil {
		return nil, err
	}

	if cfg.Google.AIAPIKey, err = requireEnv("GOOGLE_AI_API_KEY"); err != nil {
		return nil, err
	}

	cfg.Wallet.IssuerID = os.Getenv("GOOGLE_ISSUER_ID")
	cfg.Wallet.CredentialsJSON = os.Getenv("GOOGLE_WALLET_CREDENTIALS")

	if cfg.Server.WebAppURI, err = requireEnv("WEBAPP_URI"); err != nil {
		return nil, err
	}

	serverPort, err := requireEnv("SERVER_PORT")
	if err != nil {
		return nil, err
	}
	cfg.Server.Port, err = strconv.Atoi(serverPort)
	if err != nil {
		return nil, fmt.Errorf("failed to parse SERVER_PORT: %w", err)
	}

	return cfg, nil
}

// ConnectionString returns a PostgreSQL connection string
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s/%s",
		c.Username, c.Password, c.Host, c.Name)
}

// requireEnv retrieves an environment variable or returns an error if empty
func requireEnv(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("%s is not set: %w", key, ErrEmptyEnvironmentVariable)
	}
	return value, nil
}

// getEnvWithDefault retrieves an environment variable or returns a default value
func getEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
