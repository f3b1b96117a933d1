// Package config loads process configuration from the environment once at
// startup. Components receive the resulting struct explicitly; nothing reads
// os.Getenv after Load returns.
package config

import (
	"errors"
	"log"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the immutable process configuration.
type Config struct {
	// ServerAddr is the admin server listen address.
	ServerAddr string `env:"ADMIN_ADDR" envDefault:":4000"`

	// Contentful management (write path).
	SpaceID         string `env:"CONTENTFUL_SPACE_ID"`
	Environment     string `env:"CONTENTFUL_ENVIRONMENT" envDefault:"master"`
	ManagementToken string `env:"CONTENTFUL_MANAGEMENT_TOKEN"`

	// Contentful delivery (read path, optional).
	DeliveryToken string `env:"CONTENTFUL_ACCESS_TOKEN"`

	// DeployHookURL triggers a static-site rebuild after publish. Optional;
	// empty means the trigger is skipped.
	DeployHookURL string `env:"DEPLOY_HOOK_URL"`

	LLM LLMConfig
}

// LLMConfig configures the model-backed field parser. APIKey empty means the
// heuristic parser is used instead.
type LLMConfig struct {
	// Provider is openai, deepseek, or mock (canned response, no network).
	Provider string `env:"LLM_PROVIDER" envDefault:"openai"`
	Model    string `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`
	APIKey   string `env:"OPENAI_API_KEY"`
	BaseURL  string `env:"LLM_BASE_URL"`
}

// Load reads .env (if present) and parses the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		// Not fatal, just log the error and continue
		log.Println("Couldn't load .env file:", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ValidatePublish checks the fields the write path needs.
func (c Config) ValidatePublish() error {
	if c.SpaceID == "" || c.ManagementToken == "" {
		return errors.New("config must include CONTENTFUL_SPACE_ID and CONTENTFUL_MANAGEMENT_TOKEN")
	}
	return nil
}
