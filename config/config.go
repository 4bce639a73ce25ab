// Package config reads the service settings from the environment, after
// loading a .env file when one is present.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	Port        uint   `envconfig:"PORT" default:"8080"`
	RelayPort   uint   `envconfig:"RELAY_PORT" default:"4000"`
	ClientURL   string `envconfig:"CLIENT_URL" default:"*"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	// Storage
	StoreBackend        string `envconfig:"STORE_BACKEND" default:"file"`
	DataDir             string `envconfig:"DATA_DIR" default:"data"`
	RedisURL            string `envconfig:"REDIS_URL" default:"redis://localhost:6379/0"`
	FirebaseCredentials string `envconfig:"FIREBASE_CREDENTIALS"` // base64 service account JSON
	FirestoreCollection string `envconfig:"FIRESTORE_COLLECTION" default:"snapshots"`
	BackupSchedule      string `envconfig:"BACKUP_SCHEDULE" default:"@hourly"`
	BackupRetention     int    `envconfig:"BACKUP_RETENTION" default:"24"` // 0 keeps every backup

	// Assistant
	AssistantProvider string        `envconfig:"ASSISTANT_PROVIDER" default:"gemini"`
	GeminiAPIKey      string        `envconfig:"GEMINI_API_KEY"`
	OpenAIAPIKey      string        `envconfig:"OPENAI_API_KEY"`
	AssistantModels   []string      `envconfig:"ASSISTANT_MODELS"`
	AssistantTimeout  time.Duration `envconfig:"ASSISTANT_TIMEOUT" default:"30s"`

	// SMS
	TwilioAccountSID string `envconfig:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken  string `envconfig:"TWILIO_AUTH_TOKEN"`
	TwilioFrom       string `envconfig:"TWILIO_FROM"`
	SMSRelayURL      string `envconfig:"SMS_API_URL"`

	MapsCredentials string `envconfig:"MAPS_CREDENTIALS"`

	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// Load reads files (".env" when none are given) and then the environment.
// Missing files are skipped; variables already set win over file values.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	c := new(Config)
	if err := envconfig.Process("", c); err != nil {
		return nil, fmt.Errorf("process environment config: %w", err)
	}

	if c.Port == 0 {
		c.Port = 8080
	}
	if c.RelayPort == 0 {
		c.RelayPort = 4000
	}
	return c, nil
}
