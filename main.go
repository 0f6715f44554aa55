package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"replog/app/client/extraction"
	"replog/app/config"
	"replog/app/server"
	"replog/app/service/conversation"
	"replog/app/service/extractor"
	"replog/app/service/record"
	"replog/app/service/transcript"
	"replog/app/util/mylog"

	"github.com/gofiber/fiber/v2/log"
	"github.com/samber/do"
)

func main() {
	di := do.New()
	defer di.Shutdown()
	defer log.Info("Waiting for services to finish...")

	mylog.Preinit()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	do.ProvideValue(di, appCtx)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	do.ProvideValue(di, cfg)

	if err = mylog.Init(cfg); err != nil {
		log.Fatalf("logging init failed: %v", err)
	}

	do.Provide(di, transcript.New)
	do.Provide(di, record.New)
	do.Provide(di, extraction.NewClient)
	do.Provide(di, extractor.New)
	do.Provide(di, provideExtractor)
	do.Provide(di, conversation.New)
	do.Provide(di, server.New)

	slog.Info("Service started", "extraction_mode", cfg.Extraction.Mode)

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt)
		<-sigint

		log.Info("Shutting down...")

		cancel()
	}()

	if err = do.MustInvoke[*server.Service](di).Run(appCtx); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func provideExtractor(di *do.Injector) (extraction.Extractor, error) {
	cfg := do.MustInvoke[*config.Config](di)

	if cfg.Extraction.Mode == config.ModeBuiltin {
		return do.Invoke[*extractor.Service](di)
	}

	return do.Invoke[*extraction.Client](di)
}
