package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/ideclang/ideclang/internal/config"
	"github.com/ideclang/ideclang/internal/logger"
	"github.com/ideclang/ideclang/internal/lsp"
)

func RunServe(cmd *cobra.Command, cfg *config.Config, version string) error {
	address, err := OptionalStringFlag(cmd, "tcp")
	if err != nil {
		return err
	}
	debug, err := OptionalBoolFlag(cmd, "debug", false)
	if err != nil {
		return err
	}
	rootPath, err := resolveWorkingDirectory()
	if err != nil {
		return err
	}

	store, err := newStore(cfg, rootPath)
	if err != nil {
		return err
	}
	handler, err := lsp.NewHandler(store, lsp.Options{
		Name:     "ideclang",
		Version:  version,
		Watch:    cfg.LSP.Watch,
		Debounce: time.Duration(cfg.LSP.DebounceMS) * time.Millisecond,
	})
	if err != nil {
		_ = store.Teardown()
		return err
	}
	defer func() {
		if err := handler.Close(); err != nil {
			logger.Warnw("teardown failed", "error", err)
		}
	}()

	server := handler.NewServer(debug)
	if address != "" {
		logger.Infow("LSP server listening", "address", address, "engine", cfg.Engine)
		return server.RunTCP(address)
	}
	logger.Infow("LSP server on stdio", "engine", cfg.Engine)
	return server.RunStdio()
}
