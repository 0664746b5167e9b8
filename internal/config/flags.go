package config

import (
	"bufio"
	"os"
	"strings"

	"github.com/ideclang/ideclang/internal/errors"
)

// CompileFlagsFile is clang's per-project flags file, one flag per line.
const CompileFlagsFile = "compile_flags.txt"

// FindCompileFlags walks up from dir looking for compile_flags.txt.
func FindCompileFlags(dir string) string {
	return findUpward(dir, CompileFlagsFile)
}

// ReadCompileFlags returns the non-empty lines of a compile_flags.txt.
func ReadCompileFlags(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	var flags []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		flags = append(flags, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return flags, nil
}

// CompilerFlags returns the configured flags followed by those from the
// nearest compile_flags.txt above dir, when that is enabled. The second
// result names the file that contributed, if any.
func (c *Config) CompilerFlags(dir string) ([]string, string, error) {
	flags := append([]string(nil), c.Clang.Flags...)
	if !c.Clang.CompileFlagsFile {
		return flags, "", nil
	}
	path := FindCompileFlags(dir)
	if path == "" {
		return flags, "", nil
	}
	extra, err := ReadCompileFlags(path)
	if err != nil {
		return nil, "", err
	}
	return append(flags, extra...), path, nil
}
