package extractor

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"replog/app/client/extraction"
	"replog/app/config"

	"github.com/samber/do"
	"github.com/sashabaranov/go-openai"
)

const (
	defaultTemperature = 0
	maxReasonDuration  = 30 * time.Second
)

var _ extraction.Extractor = (*Service)(nil)

// Service is the builtin extraction backend. It fills the interaction form
// straight from the message: through an LLM when a token is configured, and
// through the rule engine otherwise (also as fallback when the LLM fails).
type Service struct {
	cfg    *config.Config
	client *openai.Client
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	s := &Service{cfg: cfg}

	if cfg.OpenAI.Token != "" {
		clientConfig := openai.DefaultConfig(cfg.OpenAI.Token)
		clientConfig.BaseURL = cfg.OpenAI.BaseURL
		clientConfig.HTTPClient = &http.Client{
			Timeout: 30 * time.Second,
		}
		s.client = openai.NewClientWithConfig(clientConfig)
	}

	return s, nil
}

func (s *Service) Extract(ctx context.Context, message string) (*extraction.Result, error) {
	if s.client != nil {
		result, err := s.callLLM(ctx, message)
		if err == nil {
			return result, nil
		}

		slog.Warn("LLM extraction failed, falling back to rule engine", "error", err)
	}

	return s.applyRules(message), nil
}
