package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompilerFlagsAppendsCompileFlagsFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, CompileFlagsFile), "-xc++\n\n  -std=c++17  \n-Iinclude\n")
	dir := filepath.Join(root, "src")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	cfg := &Config{Clang: ClangConfig{Flags: []string{"-Wall"}, CompileFlagsFile: true}}
	flags, source, err := cfg.CompilerFlags(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"-Wall", "-xc++", "-std=c++17", "-Iinclude"}, flags)
	assert.Equal(t, filepath.Join(root, CompileFlagsFile), source)
}

func TestCompilerFlagsDisabled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, CompileFlagsFile), "-Iinclude\n")

	cfg := &Config{Clang: ClangConfig{Flags: []string{"-Wall"}}}
	flags, source, err := cfg.CompilerFlags(root)
	require.NoError(t, err)

	assert.Equal(t, []string{"-Wall"}, flags)
	assert.Empty(t, source)
}

func TestCompilerFlagsDoNotAliasConfig(t *testing.T) {
	cfg := &Config{Clang: ClangConfig{Flags: []string{"-Wall"}, CompileFlagsFile: true}}
	flags, _, err := cfg.CompilerFlags(t.TempDir())
	require.NoError(t, err)

	flags[0] = "-Werror"
	assert.Equal(t, "-Wall", cfg.Clang.Flags[0])
}
