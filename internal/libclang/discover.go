package libclang

import (
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
)

var linuxCandidates = []string{
	"/usr/lib/llvm-*/lib/libclang.so",
	"/usr/lib/llvm-*/lib/libclang.so.1",
	"/usr/lib/x86_64-linux-gnu/libclang-*.so*",
	"/usr/lib/aarch64-linux-gnu/libclang-*.so*",
	"/usr/lib64/libclang.so*",
	"/usr/lib/libclang.so*",
	"/usr/local/lib/libclang.so*",
}

var darwinCandidates = []string{
	"/Library/Developer/CommandLineTools/usr/lib/libclang.dylib",
	"/Applications/Xcode.app/Contents/Developer/Toolchains/XcodeDefault.xctoolchain/usr/lib/libclang.dylib",
	"/opt/homebrew/opt/llvm/lib/libclang.dylib",
	"/usr/local/opt/llvm/lib/libclang.dylib",
}

// Candidates returns the glob patterns searched for the shared library on
// the given GOOS, most specific first.
func Candidates(goos string) []string {
	switch goos {
	case "darwin":
		return append([]string(nil), darwinCandidates...)
	default:
		return append([]string(nil), linuxCandidates...)
	}
}

// GlobFunc matches a pattern the way filepath.Glob does.
type GlobFunc func(pattern string) ([]string, error)

// Discover returns every existing library matching the candidates for the
// running platform.
func Discover() []string {
	return DiscoverWithGlob(runtime.GOOS, filepath.Glob)
}

// DiscoverWithGlob expands the candidates for goos with glob. Versioned
// matches within one pattern are ordered newest first.
func DiscoverWithGlob(goos string, glob GlobFunc) []string {
	seen := make(map[string]bool)
	var found []string
	for _, pattern := range Candidates(goos) {
		matches, err := glob(pattern)
		if err != nil {
			continue
		}
		sortNewestFirst(matches)
		for _, match := range matches {
			if seen[match] {
				continue
			}
			seen[match] = true
			found = append(found, match)
		}
	}
	return found
}

// sortNewestFirst orders paths by the LLVM major version they carry,
// highest first. Ties and unversioned paths fall back to reverse name order.
func sortNewestFirst(paths []string) {
	sort.SliceStable(paths, func(i, j int) bool {
		vi, vj := majorVersion(paths[i]), majorVersion(paths[j])
		if vi != vj {
			return vi > vj
		}
		return paths[i] > paths[j]
	})
}

// majorVersion returns the number after "llvm-" or "libclang-" in path, or
// -1 when there is none.
func majorVersion(path string) int {
	for _, marker := range []string{"llvm-", "libclang-"} {
		idx := strings.LastIndex(path, marker)
		if idx < 0 {
			continue
		}
		digits := path[idx+len(marker):]
		end := 0
		for end < len(digits) && digits[end] >= '0' && digits[end] <= '9' {
			end++
		}
		if end == 0 {
			continue
		}
		if v, err := strconv.Atoi(digits[:end]); err == nil {
			return v
		}
	}
	return -1
}

// Resolve picks the library to load: the configured path when set,
// otherwise the first discovered candidate, otherwise the bare soname so
// the dynamic loader's search path gets a chance.
func Resolve(configured string, discovered []string) string {
	if configured != "" {
		return configured
	}
	if len(discovered) > 0 {
		return discovered[0]
	}
	if runtime.GOOS == "darwin" {
		return "libclang.dylib"
	}
	return "libclang.so"
}

// Exists reports whether path names a regular file.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
