package config

import (
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"futures_panel/internal/models"
)

const (
	configFilePathENV = "CONFIG_FILE"
	configDirENV      = "CONFIG_DIR"
	tokenTelegramENV  = "TELEGRAM_TOKEN"
	apiKeyENV         = "COINDCX_API_KEY"
	apiSecretENV      = "COINDCX_API_SECRET"
	baseURLENV        = "COINDCX_BASE_URL"
	logLevelENV       = "LOG_LEVEL"
	paperTradeENV     = "PAPER_TRADE"

	DefaultBaseURL      = "https://api.coindcx.com/exchange/v1"
	DefaultSuccessField = "message"
)

// Config ...
type Config struct {
	Exchange struct {
		BaseURL   string        `yaml:"base_url"`
		APIKey    string        `yaml:"api_key"`
		APISecret string        `yaml:"api_secret"`
		Timeout   time.Duration `yaml:"timeout"`
		PageSize  int           `yaml:"page_size"`
		// Поле ответа /exit, непустое значение которого считаем успехом.
		SuccessField string `yaml:"success_field"`
	} `yaml:"exchange"`

	Telegram struct {
		Token          string        `yaml:"token"`
		AllowedChatIDs []int64       `yaml:"allowed_chat_ids"`
		Timezone       string        `yaml:"timezone"`
		ConfirmTimeout time.Duration `yaml:"confirm_timeout"`
	} `yaml:"telegram"`

	Service struct {
		Host      string `yaml:"host"`
		AdminPort int    `yaml:"admin_port"`
	} `yaml:"service"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`

	Tracing struct {
		Enabled bool   `yaml:"enabled"`
		Host    string `yaml:"host"`
		Port    int    `yaml:"port"`
	} `yaml:"tracing"`

	// Режим по умолчанию для новых чатов: ничего не отправляем на биржу.
	PaperTrade bool `yaml:"paper_trade"`
}

func defaults() Config {
	var c Config
	c.Exchange.BaseURL = DefaultBaseURL
	c.Exchange.Timeout = 10 * time.Second
	c.Exchange.PageSize = 100
	c.Exchange.SuccessField = DefaultSuccessField
	c.Telegram.Timezone = "UTC"
	c.Telegram.ConfirmTimeout = 30 * time.Second
	c.Service.AdminPort = 8080
	c.Log.Level = "info"
	c.Tracing.Host = "localhost"
	c.Tracing.Port = 6831
	return c
}

func NewConfig() (*Config, error) {
	configFileName := getenvDefault(configFilePathENV, "values_local.yaml")
	dir := getenvDefault(configDirENV, "configs")
	return Load(dir + "/" + configFileName)
}

// Load читает yaml, затем поверх накатывает env.
// Файла может не быть: тогда только дефолты + env.
func Load(path string) (*Config, error) {
	config := defaults()

	file, err := os.Open(path)
	switch {
	case err == nil:
		defer func() {
			_ = file.Close()
		}()
		if err := yaml.NewDecoder(file).Decode(&config); err != nil && err != io.EOF {
			return nil, errors.Wrapf(err, "decode config file %s", path)
		}
	case os.IsNotExist(err):
	default:
		return nil, errors.Wrapf(err, "open config file %s", path)
	}

	applyEnv(&config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func applyEnv(c *Config) {
	if v := os.Getenv(tokenTelegramENV); v != "" {
		c.Telegram.Token = v
	}
	if v := os.Getenv(apiKeyENV); v != "" {
		c.Exchange.APIKey = v
	}
	if v := os.Getenv(apiSecretENV); v != "" {
		c.Exchange.APISecret = v
	}
	if v := os.Getenv(baseURLENV); v != "" {
		c.Exchange.BaseURL = v
	}
	c.Log.Level = getenvDefault(logLevelENV, c.Log.Level)
	c.PaperTrade = boolFromEnv(paperTradeENV, c.PaperTrade)
}

func (c *Config) Validate() error {
	c.Exchange.BaseURL = strings.TrimRight(strings.TrimSpace(c.Exchange.BaseURL), "/")
	if c.Exchange.BaseURL == "" {
		return errors.New("exchange.base_url is required")
	}
	if c.Exchange.Timeout <= 0 {
		return errors.Errorf("exchange.timeout must be > 0, got %s", c.Exchange.Timeout)
	}
	if c.Exchange.PageSize <= 0 {
		return errors.Errorf("exchange.page_size must be > 0, got %d", c.Exchange.PageSize)
	}
	if strings.TrimSpace(c.Exchange.SuccessField) == "" {
		c.Exchange.SuccessField = DefaultSuccessField
	}
	if _, err := time.LoadLocation(c.Telegram.Timezone); err != nil {
		return errors.Wrapf(err, "telegram.timezone %q", c.Telegram.Timezone)
	}
	if c.Telegram.ConfirmTimeout <= 0 {
		return errors.Errorf("telegram.confirm_timeout must be > 0, got %s", c.Telegram.ConfirmTimeout)
	}
	return nil
}

// Credentials: ключи биржи как неизменяемое значение.
func (c *Config) Credentials() models.Credentials {
	return models.Credentials{
		APIKey:    c.Exchange.APIKey,
		APISecret: c.Exchange.APISecret,
	}
}

// Location: таймзона для отображения updated_at в панели.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Telegram.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) ChatAllowed(chatID int64) bool {
	if len(c.Telegram.AllowedChatIDs) == 0 {
		return true
	}
	for _, id := range c.Telegram.AllowedChatIDs {
		if id == chatID {
			return true
		}
	}
	return false
}

func boolFromEnv(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
