package server

import (
	"context"
	"fmt"
	"log/slog"

	"replog/app/config"
	"replog/app/service/conversation"
	"replog/app/service/extractor"
	"replog/app/service/record"
	"replog/app/service/transcript"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/samber/do"
	"golang.org/x/sync/errgroup"
)

// Service is the presentation boundary. It reads the two stores and the busy
// flag, and funnels every mutation through the orchestrator's Submit.
type Service struct {
	cfg             *config.Config
	conversationSvc *conversation.Service
	transcriptSvc   *transcript.Service
	recordSvc       *record.Service
	extractorSvc    *extractor.Service

	app *fiber.App
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	s := &Service{
		cfg:             cfg,
		conversationSvc: do.MustInvoke[*conversation.Service](di),
		transcriptSvc:   do.MustInvoke[*transcript.Service](di),
		recordSvc:       do.MustInvoke[*record.Service](di),
	}

	if cfg.Extraction.Mode == config.ModeBuiltin {
		extractorSvc, err := do.Invoke[*extractor.Service](di)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve builtin extractor: %w", err)
		}
		s.extractorSvc = extractorSvc
	}

	s.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	s.app.Use(cors.New())
	s.registerRoutes()

	return s, nil
}

// App exposes the fiber app for tests.
func (s *Service) App() *fiber.App {
	return s.app
}

func (s *Service) Run(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		slog.Info("HTTP API listening", "addr", addr)
		return s.app.Listen(addr)
	})

	group.Go(func() error {
		<-ctx.Done()
		return s.app.Shutdown()
	})

	return group.Wait()
}
