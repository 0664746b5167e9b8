package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ideclang/ideclang/internal/errors"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(Options{Dir: t.TempDir()})
	require.NoError(t, err)

	assert.Equal(t, EngineLibclang, cfg.Engine)
	assert.Empty(t, cfg.Libclang.Path)
	assert.Empty(t, cfg.Clang.Flags)
	assert.True(t, cfg.Clang.CompileFlagsFile)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.True(t, cfg.LSP.Watch)
	assert.Equal(t, 200, cfg.LSP.DebounceMS)
	assert.Empty(t, cfg.File)
}

func TestLoadFindsProjectConfigUpward(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, FileName), `
engine = "treesitter"

[libclang]
path = "/opt/llvm/lib/libclang.so"

[clang]
flags = ["-std=c11", "-Iinclude"]
compile_flags_file = false

[log]
level = "debug"
`)
	nested := filepath.Join(root, "src", "deep")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	cfg, err := Load(Options{Dir: nested})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, FileName), cfg.File)
	assert.Equal(t, EngineTreesitter, cfg.Engine)
	assert.Equal(t, "/opt/llvm/lib/libclang.so", cfg.Libclang.Path)
	assert.Equal(t, []string{"-std=c11", "-Iinclude"}, cfg.Clang.Flags)
	assert.False(t, cfg.Clang.CompileFlagsFile)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestEnvironmentFlagsAreShellSplit(t *testing.T) {
	t.Setenv("IDECLANG_CLANG_FLAGS", `-DNAME="a b" -I include`)
	t.Setenv("IDECLANG_ENGINE", "TreeSitter")

	cfg, err := Load(Options{Dir: t.TempDir()})
	require.NoError(t, err)

	assert.Equal(t, []string{"-DNAME=a b", "-I", "include"}, cfg.Clang.Flags)
	assert.Equal(t, EngineTreesitter, cfg.Engine)
}

func TestInvalidEngine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	writeFile(t, path, `engine = "ctags"`)

	_, err := Load(Options{File: path})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidEngine))
	assert.NotEmpty(t, errors.GetAllHints(err))
}

func TestInvalidLogLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	writeFile(t, path, "[log]\nlevel = \"chatty\"\n")

	_, err := Load(Options{File: path})
	assert.Error(t, err)
}

func TestMissingExplicitFile(t *testing.T) {
	_, err := Load(Options{File: filepath.Join(t.TempDir(), "nope.toml")})
	assert.Error(t, err)
}

func TestFlagList(t *testing.T) {
	flags, err := flagList([]any{"-a", "-b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"-a", "-b"}, flags)

	_, err = flagList([]any{"-a", 3})
	assert.Error(t, err)

	_, err = flagList(`-D"unterminated`)
	assert.Error(t, err)

	flags, err = flagList(nil)
	require.NoError(t, err)
	assert.Nil(t, flags)
}
