package cli

import (
	"encoding/json"
	"io"
	"os"

	"github.com/ideclang/ideclang/internal/clang"
	"github.com/ideclang/ideclang/internal/config"
	"github.com/ideclang/ideclang/internal/errors"
	"github.com/ideclang/ideclang/internal/libclang"
	"github.com/ideclang/ideclang/internal/logger"
	"github.com/ideclang/ideclang/internal/session"
	"github.com/ideclang/ideclang/internal/treesitter"
)

func resolveWorkingDirectory() (string, error) {
	rootPath, err := os.Getwd()
	if err != nil {
		return "", errors.Wrap(err, "failed to resolve working directory")
	}
	return rootPath, nil
}

// openEngine creates the configured completion engine.
func openEngine(cfg *config.Config) (clang.Engine, error) {
	if cfg.Engine == config.EngineTreesitter {
		return treesitter.New(), nil
	}
	path := libclang.Resolve(cfg.Libclang.Path, libclang.Discover())
	engine, err := libclang.Load(path)
	if err != nil {
		return nil, err
	}
	logger.Debugw("libclang loaded", "path", engine.Path(), "version", engine.Version())
	return engine, nil
}

// newStore opens the engine and returns a session store parsing with the
// flags that apply to dir.
func newStore(cfg *config.Config, dir string) (*session.Store, error) {
	flags, source, err := cfg.CompilerFlags(dir)
	if err != nil {
		return nil, err
	}
	engine, err := openEngine(cfg)
	if err != nil {
		return nil, err
	}
	logger.Debugw("session ready", "engine", engine.Name(), "flags", flags, "compile_flags", source)
	return session.NewStore(engine, flags), nil
}

func writeJSON(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
