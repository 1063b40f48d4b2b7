package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

var (
	configOnce  sync.Once
	configValue *Config
)

// Load: 환경 변수 기반 설정을 로드합니다.
func Load() *Config {
	configOnce.Do(func() {
		_ = godotenv.Load()
		configValue = buildConfig()
	})
	return configValue
}

// ProvideConfig: 설정을 로드하고 검증합니다.
func ProvideConfig() (*Config, error) {
	cfg := Load()
	if cfg == nil {
		return nil, errors.New("config not initialized")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate: 설정 유효성을 검사합니다.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	switch c.LLM.Provider {
	case ProviderOllama:
		if strings.TrimSpace(c.LLM.BaseURL) == "" {
			return errors.New("llm url is required for ollama provider")
		}
	case ProviderGemini:
	default:
		return fmt.Errorf("unknown llm provider: %s", c.LLM.Provider)
	}
	if c.LLM.DefaultModel == "" {
		return errors.New("llm model is required")
	}
	if c.LLM.TimeoutSeconds <= 0 {
		return fmt.Errorf("invalid api timeout: %d", c.LLM.TimeoutSeconds)
	}
	if c.LLM.MaxTokens <= 0 {
		return fmt.Errorf("invalid llm max tokens: %d", c.LLM.MaxTokens)
	}
	if c.Message.MinLength < 1 {
		return fmt.Errorf("invalid min message length: %d", c.Message.MinLength)
	}
	if c.Message.MinLength > c.Message.MaxLength {
		return fmt.Errorf(
			"min message length exceeds max: min=%d max=%d",
			c.Message.MinLength,
			c.Message.MaxLength,
		)
	}
	return nil
}

// LogEnvStatus: 환경 설정 상태를 로그로 남깁니다.
func LogEnvStatus(cfg *Config, logger *slog.Logger) {
	if logger == nil || cfg == nil {
		return
	}

	logger.Info(
		"env_status",
		"env_file", fileExists(".env"),
		"provider", cfg.LLM.Provider,
		"llm_url", cfg.LLM.BaseURL,
		"model", cfg.LLM.DefaultModel,
		"moderation_model", cfg.LLM.ModelForTask("moderation"),
		"moderation_enabled", cfg.Moderation.Enabled,
		"timeout", cfg.LLM.TimeoutSeconds,
		"message_bounds", fmt.Sprintf("%d..%d", cfg.Message.MinLength, cfg.Message.MaxLength),
		"development_mode", cfg.HTTP.DevelopmentMode,
		"usage_db", cfg.Database.UsageEnabled,
	)

	if cfg.LLM.Provider == ProviderGemini {
		logger.Debug(
			"env_gemini_keys",
			"gemini_keys", len(cfg.LLM.APIKeys),
			"primary_key", maskSecret(cfg.LLM.PrimaryKey()),
		)
		if len(cfg.LLM.APIKeys) == 0 {
			logger.Error("env_missing_google_api_key")
		}
	}
}

func buildConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:        strings.ToLower(getEnvString("LLM_PROVIDER", ProviderOllama)),
			BaseURL:         strings.TrimSuffix(getEnvString("LLM_URL", "http://llm-server:11434"), "/"),
			DefaultModel:    getEnvString("LLM_MODEL", "gemma3:1b-it-qat"),
			ModerationModel: getEnvString("MODERATION_MODEL", ""),
			APIKeys:         parseAPIKeys(),
			Temperature:     getEnvFloat("LLM_TEMPERATURE", 0.7),
			MaxTokens:       getEnvInt("LLM_MAX_TOKENS", 100),
			TimeoutSeconds:  getEnvInt("API_TIMEOUT", 30),
		},
		Moderation: ModerationConfig{
			Enabled: getEnvBool("ENABLE_CONTENT_MODERATION", true),
		},
		Message: MessageConfig{
			MinLength: getEnvInt("MIN_MESSAGE_LENGTH", 1),
			MaxLength: getEnvInt("MAX_MESSAGE_LENGTH", 1000),
		},
		Guard: GuardConfig{
			Enabled:         getEnvBool("GUARD_ENABLED", true),
			Threshold:       getEnvFloat("GUARD_THRESHOLD", 0.85),
			RulepacksDir:    getEnvString("RULEPACKS_DIR", ""),
			CacheMaxSize:    getEnvInt("GUARD_CACHE_SIZE", 10000),
			CacheTTLSeconds: getEnvInt("GUARD_CACHE_TTL", 3600),
		},
		Logging: LoggingConfig{
			Level:      getEnvString("LOG_LEVEL", "info"),
			LogDir:     getEnvString("LOG_DIR", ""),
			MaxSizeMB:  getEnvInt("LOG_FILE_MAX_SIZE_MB", 1),
			MaxBackups: getEnvInt("LOG_FILE_MAX_BACKUPS", 30),
			MaxAgeDays: getEnvInt("LOG_FILE_MAX_AGE_DAYS", 7),
			Compress:   getEnvBool("LOG_FILE_COMPRESS", true),
		},
		HTTP: HTTPConfig{
			Host:            getEnvString("HOST", getEnvString("HTTP_HOST", "0.0.0.0")),
			Port:            getEnvInt("PORT", getEnvInt("HTTP_PORT", 8000)),
			HTTP2Enabled:    getEnvBool("HTTP2_ENABLED", true),
			GzipEnabled:     getEnvBool("HTTP_GZIP_ENABLED", false),
			DevelopmentMode: getEnvBool("DEVELOPMENT_MODE", false),
		},
		HTTPAuth: HTTPAuthConfig{
			APIKey: getEnvString("HTTP_API_KEY", ""),
		},
		HTTPRateLimit: HTTPRateLimitConfig{
			RequestsPerMinute: getEnvNonNegativeInt("HTTP_RATE_LIMIT_RPM", 0),
			CacheSize:         max(1, getEnvNonNegativeInt("HTTP_RATE_LIMIT_CACHE_SIZE", 10000)),
			CacheTTLSeconds:   max(1, getEnvNonNegativeInt("HTTP_RATE_LIMIT_CACHE_TTL_SECONDS", 120)),
			StoreURL:          getEnvString("HTTP_RATE_LIMIT_STORE_URL", ""),
		},
		CORS: CORSConfig{
			AllowOrigins: splitList(getEnvString("CORS_ALLOW_ORIGINS", "*")),
		},
		Database: DatabaseConfig{
			UsageEnabled:           getEnvBool("DB_USAGE_ENABLED", false),
			Host:                   getEnvString("DB_HOST", "localhost"),
			Port:                   getEnvInt("DB_PORT", 5432),
			Name:                   getEnvString("DB_NAME", "emoji"),
			User:                   getEnvString("DB_USER", "emoji"),
			Password:               getEnvString("DB_PASSWORD", ""),
			MaxPool:                max(1, getEnvInt("DB_MAX_POOL", 5)),
			ConnMaxLifetimeMinutes: getEnvNonNegativeInt("DB_CONN_MAX_LIFETIME_MINUTES", 60),
		},
		Telemetry: readTelemetryConfig(),
	}
}
