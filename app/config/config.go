package config

import (
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

const (
	ModeRemote  = "remote"
	ModeBuiltin = "builtin"
)

type Config struct {
	Log        Log        `yaml:"log"`
	Server     Server     `yaml:"server"`
	Extraction Extraction `yaml:"extraction"`
	OpenAI     OpenAI     `yaml:"openai"`
}

type Server struct {
	// Address to bind the HTTP API to
	Host string `yaml:"host" example:"127.0.0.1"`
	// Port to bind the HTTP API to
	Port int `yaml:"port" example:"8080" validate:"min=1,max=65535"`
}

type Extraction struct {
	// Where extraction happens: "remote" calls the endpoint, "builtin" runs the local engine
	Mode string `yaml:"mode" example:"remote" validate:"oneof=remote builtin"`
	// URL of the remote extraction backend
	Endpoint string `yaml:"endpoint" example:"http://127.0.0.1:8000/chat" validate:"required_if=Mode remote,omitempty,url"`
	// Request timeout in seconds
	TimeoutSeconds int `yaml:"timeout_seconds" example:"30" validate:"min=1"`
}

type OpenAI struct {
	// OpenAI-compatible base url, used by the builtin extractor's LLM mode
	BaseURL string `yaml:"base_url" example:"https://openrouter.ai/api/v1"`
	// OpenAI token; leave empty to use the rule engine only
	Token string `yaml:"token" example:"sk-proj-abc123456789DEF789ghi012JKL345mno678PQR901stu234VWX"`
	// OpenAI model
	Model string `yaml:"model" example:"deepseek/deepseek-chat-v3-0324:free"`
}

type Log struct {
	// Telegram logging config
	Telegram TelegramLog `yaml:"telegram"`
}

type TelegramLog struct {
	// Chat bot token, obtain it via BotFather
	Token string `yaml:"token" example:"1234567890:ABCdefGHIjklMNopQRstUVwxyZ-123456789"`
	// Chat ID to send messages to
	ChatID string `yaml:"chat_id" example:"1001234567890"`
}

func (e Extraction) Timeout() time.Duration {
	return time.Duration(e.TimeoutSeconds) * time.Second
}

func Load() (*Config, error) {
	data, err := os.ReadFile("config.yaml")
	if err != nil {
		return nil, oops.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	var result Config

	if err := yaml.Unmarshal(data, &result); err != nil {
		return nil, oops.Errorf("failed to parse YAML config: %w", err)
	}

	if result.Server.Host == "" {
		result.Server.Host = "127.0.0.1"
	}
	if result.Server.Port == 0 {
		result.Server.Port = 8080
	}
	if result.Extraction.Mode == "" {
		result.Extraction.Mode = ModeRemote
	}
	if result.Extraction.TimeoutSeconds == 0 {
		result.Extraction.TimeoutSeconds = 30
	}
	if result.OpenAI.BaseURL == "" {
		result.OpenAI.BaseURL = "https://api.openai.com/v1"
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(result); err != nil {
		return nil, oops.Errorf("failed to validate config: %w", err)
	}

	return &result, nil
}
