package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Поддерживаемые сайты биржи
const (
	SiteCN  = "okcoin.cn"
	SiteCOM = "okcoin.com"
)

// Config содержит всю конфигурацию приложения
type Config struct {
	Server   ServerConfig
	Exchange ExchangeConfig
	Security SecurityConfig
	Client   ClientConfig
	Logging  LoggingConfig
}

// ServerConfig - настройки локального HTTP API
type ServerConfig struct {
	Port        int
	Host        string
	CORSOrigins []string
}

// ExchangeConfig - учётная запись веб-интерфейса биржи
type ExchangeConfig struct {
	Site              string
	BaseURL           string // пусто - адрес по Site
	LoginName         string
	PasswordEncrypted string // AES-256-GCM, base64
}

// SecurityConfig - настройки безопасности
type SecurityConfig struct {
	EncryptionKey string
	APITokenHash  string // bcrypt; пусто - API без авторизации
}

// ClientConfig - поведение клиента при загрузке страниц
type ClientConfig struct {
	HTTPTimeout       time.Duration
	RequestsPerSecond int
	RequestBurst      int

	// Retry логика
	MaxRetries   int
	RetryBackoff time.Duration

	// Ограничение обхода истории (GetAll)
	MaxPages int
}

// LoggingConfig - настройки логирования
type LoggingConfig struct {
	Level  string
	Format string
	Output string
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:        getEnvAsInt("SERVER_PORT", 8080),
			Host:        getEnv("SERVER_HOST", "127.0.0.1"),
			CORSOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS"),
		},
		Exchange: ExchangeConfig{
			Site:              strings.ToLower(getEnv("OKCOIN_SITE", SiteCOM)),
			BaseURL:           getEnv("OKCOIN_BASE_URL", ""),
			LoginName:         getEnv("OKCOIN_LOGIN_NAME", ""),
			PasswordEncrypted: getEnv("OKCOIN_PASSWORD", ""),
		},
		Security: SecurityConfig{
			EncryptionKey: getEnv("ENCRYPTION_KEY", ""),
			APITokenHash:  getEnv("API_TOKEN_HASH", ""),
		},
		Client: ClientConfig{
			HTTPTimeout:       getEnvAsDuration("HTTP_TIMEOUT", 15*time.Second),
			RequestsPerSecond: getEnvAsInt("REQUESTS_PER_SECOND", 2),
			RequestBurst:      getEnvAsInt("REQUEST_BURST", 2),
			MaxRetries:        getEnvAsInt("MAX_RETRIES", 3),
			RetryBackoff:      getEnvAsDuration("RETRY_BACKOFF", 500*time.Millisecond),
			MaxPages:          getEnvAsInt("MAX_PAGES", 50),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
			Output: getEnv("LOG_OUTPUT", "stdout"),
		},
	}

	if err := cfg.validateExchange(); err != nil {
		return nil, err
	}

	if err := cfg.validateSecurity(); err != nil {
		return nil, err
	}

	if err := cfg.validateRanges(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateExchange проверяет сайт и учётные данные
func (c *Config) validateExchange() error {
	if c.Exchange.Site != SiteCN && c.Exchange.Site != SiteCOM {
		return fmt.Errorf("OKCOIN_SITE must be %s or %s, got %q", SiteCN, SiteCOM, c.Exchange.Site)
	}

	if c.Exchange.BaseURL != "" {
		u, err := url.Parse(c.Exchange.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("OKCOIN_BASE_URL must be an absolute URL, got %q", c.Exchange.BaseURL)
		}
	}

	if c.Exchange.LoginName == "" {
		return fmt.Errorf("OKCOIN_LOGIN_NAME is required")
	}

	if c.Exchange.PasswordEncrypted == "" {
		return fmt.Errorf("OKCOIN_PASSWORD is required")
	}

	return nil
}

// validateSecurity проверяет параметры безопасности
func (c *Config) validateSecurity() error {
	// ENCRYPTION_KEY нужен для расшифровки OKCOIN_PASSWORD
	if c.Security.EncryptionKey == "" {
		return fmt.Errorf("ENCRYPTION_KEY is required for decrypting OKCOIN_PASSWORD")
	}

	if len(c.Security.EncryptionKey) != 32 {
		return fmt.Errorf("ENCRYPTION_KEY must be exactly 32 bytes for AES-256")
	}

	if c.Security.APITokenHash != "" && !strings.HasPrefix(c.Security.APITokenHash, "$2") {
		return fmt.Errorf("API_TOKEN_HASH must be a bcrypt hash")
	}

	return nil
}

// validateRanges проверяет числовые диапазоны параметров
func (c *Config) validateRanges() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Client.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %v", c.Client.HTTPTimeout)
	}

	if c.Client.RequestsPerSecond < 1 {
		return fmt.Errorf("REQUESTS_PER_SECOND must be at least 1, got %d", c.Client.RequestsPerSecond)
	}

	if c.Client.RequestBurst < c.Client.RequestsPerSecond {
		return fmt.Errorf("REQUEST_BURST must be >= REQUESTS_PER_SECOND, got %d", c.Client.RequestBurst)
	}

	if c.Client.MaxRetries < 1 {
		return fmt.Errorf("MAX_RETRIES must be at least 1, got %d", c.Client.MaxRetries)
	}

	if c.Client.MaxRetries > 10 {
		return fmt.Errorf("MAX_RETRIES should not exceed 10, got %d", c.Client.MaxRetries)
	}

	if c.Client.RetryBackoff <= 0 {
		return fmt.Errorf("RETRY_BACKOFF must be positive, got %v", c.Client.RetryBackoff)
	}

	if c.Client.MaxPages < 1 {
		return fmt.Errorf("MAX_PAGES must be at least 1, got %d", c.Client.MaxPages)
	}

	return nil
}

// Address возвращает адрес для http.Server
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Вспомогательные функции для чтения переменных окружения

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsList разбирает список через запятую, пустые элементы отбрасываются
func getEnvAsList(key string) []string {
	var values []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			values = append(values, item)
		}
	}
	return values
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
