// Package config loads ideclang settings from defaults, TOML files and
// IDECLANG_* environment variables.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/spf13/viper"

	"github.com/ideclang/ideclang/internal/errors"
	"github.com/ideclang/ideclang/internal/logger"
)

const (
	EngineLibclang   = "libclang"
	EngineTreesitter = "treesitter"

	// FileName is the project config file searched for from the working
	// directory upward.
	FileName = "ideclang.toml"
	// EnvPrefix prefixes every environment override, e.g. IDECLANG_LIBCLANG_PATH.
	EnvPrefix = "IDECLANG"
)

// ErrInvalidEngine is returned when engine names neither backend.
var ErrInvalidEngine = errors.New("invalid engine")

// Config is the resolved configuration for one process.
type Config struct {
	Engine   string         `mapstructure:"engine"`
	Libclang LibclangConfig `mapstructure:"libclang"`
	Clang    ClangConfig    `mapstructure:"clang"`
	Log      LogConfig      `mapstructure:"log"`
	LSP      LSPConfig      `mapstructure:"lsp"`

	// File is the config file that was read, empty when none was found.
	File string `mapstructure:"-"`
}

type LibclangConfig struct {
	Path string `mapstructure:"path"`
}

type ClangConfig struct {
	Flags            []string `mapstructure:"-"`
	CompileFlagsFile bool     `mapstructure:"compile_flags_file"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

type LSPConfig struct {
	Watch      bool `mapstructure:"watch"`
	DebounceMS int  `mapstructure:"debounce_ms"`
}

// SetDefaults configures default values for all options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("engine", EngineLibclang)
	v.SetDefault("libclang.path", "")
	v.SetDefault("clang.flags", []string{})
	v.SetDefault("clang.compile_flags_file", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("lsp.watch", true)
	v.SetDefault("lsp.debounce_ms", 200)
}

// Options controls where Load looks.
type Options struct {
	// File is an explicit config path; when set no search happens.
	File string
	// Dir is where the upward search starts. Empty means the working
	// directory.
	Dir string
}

// NewViper returns a viper instance with defaults, environment binding and
// the selected config file merged in.
func NewViper(opts Options) (*viper.Viper, string, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	path := opts.File
	if path == "" {
		dir := opts.Dir
		if dir == "" {
			dir, _ = os.Getwd()
		}
		path = FindProjectConfig(dir)
	}
	if path == "" {
		return v, "", nil
	}

	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, "", errors.Wrapf(err, "failed to read config file %s", path)
	}
	return v, path, nil
}

// Load resolves the configuration and validates it.
func Load(opts Options) (*Config, error) {
	v, path, err := NewViper(opts)
	if err != nil {
		return nil, err
	}
	cfg, err := LoadWithViper(v)
	if err != nil {
		return nil, err
	}
	cfg.File = path
	logger.Debugw("config loaded", "file", path, "engine", cfg.Engine)
	return cfg, nil
}

// LoadWithViper decodes and validates a prepared viper instance.
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	flags, err := flagList(v.Get("clang.flags"))
	if err != nil {
		return nil, err
	}
	cfg.Clang.Flags = flags
	cfg.Engine = strings.ToLower(strings.TrimSpace(cfg.Engine))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	switch c.Engine {
	case EngineLibclang, EngineTreesitter:
	default:
		return errors.WithHint(
			errors.Wrapf(ErrInvalidEngine, "%q", c.Engine),
			"engine must be \"libclang\" or \"treesitter\"",
		)
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(err, "log.level")
	}
	if c.LSP.DebounceMS < 0 {
		return errors.Newf("lsp.debounce_ms must be >= 0, got %d", c.LSP.DebounceMS)
	}
	return nil
}

// flagList accepts either a TOML array or a single shell-quoted string, which
// is what an environment override produces.
func flagList(raw any) ([]string, error) {
	switch value := raw.(type) {
	case nil:
		return nil, nil
	case string:
		flags, err := shellquote.Split(value)
		if err != nil {
			return nil, errors.Wrapf(err, "clang.flags %q", value)
		}
		return flags, nil
	case []string:
		return append([]string(nil), value...), nil
	case []any:
		flags := make([]string, 0, len(value))
		for _, item := range value {
			s, ok := item.(string)
			if !ok {
				return nil, errors.Newf("clang.flags entries must be strings, got %T", item)
			}
			flags = append(flags, s)
		}
		return flags, nil
	default:
		return nil, errors.Newf("clang.flags must be a list or a string, got %T", raw)
	}
}

// FindProjectConfig walks up from dir looking for ideclang.toml. It returns
// an empty string when none is found.
func FindProjectConfig(dir string) string {
	return findUpward(dir, FileName)
}

func findUpward(dir, name string) string {
	if dir == "" {
		return ""
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}
	for {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
