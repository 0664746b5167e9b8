// Package ignore filters project paths with gitignore-style rules and walks
// the remaining files.
package ignore

import (
	"bufio"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ideclang/ideclang/internal/errors"
)

// FileName holds per-project rules, one per line.
const FileName = ".ideclangignore"

// DefaultRules skip VCS metadata and the usual C/C++ build trees. User rules
// are applied after them, so "!build/" re-includes a build directory.
var DefaultRules = []string{
	".git/",
	".hg/",
	".svn/",
	".cache/",
	"build/",
	"out/",
	"cmake-build-*/",
	"CMakeFiles/",
	"_deps/",
	"bazel-*/",
	"*.o",
	"*.obj",
}

type rule struct {
	re       *regexp.Regexp
	pattern  string
	negated  bool
	dirOnly  bool
	anchored bool
	nested   bool // pattern contains a slash
}

// Matcher applies rules in order; the last matching rule wins.
type Matcher struct {
	rules []rule
}

// NewMatcher builds a matcher from DefaultRules followed by userRules.
// Blank lines and # comments are skipped.
func NewMatcher(userRules []string) *Matcher {
	m := &Matcher{}
	for _, lines := range [][]string{DefaultRules, userRules} {
		for _, line := range lines {
			if parsed, ok := parseRule(line); ok {
				m.rules = append(m.rules, parsed)
			}
		}
	}
	return m
}

// Load reads root/.ideclangignore. A missing file yields the defaults.
func Load(root string) (*Matcher, error) {
	path := filepath.Join(root, FileName)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewMatcher(nil), nil
		}
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return NewMatcher(lines), nil
}

// ShouldIgnore reports whether relPath, relative to the project root, is
// excluded.
func (m *Matcher) ShouldIgnore(relPath string, isDir bool) bool {
	relPath = normalizePath(relPath)
	ignored := false
	for _, r := range m.rules {
		if r.matches(relPath, isDir) {
			ignored = !r.negated
		}
	}
	return ignored
}

// Walk calls fn with the root-relative slash path of every file under root
// for which keep returns true. Ignored directories are not descended into.
func (m *Matcher) Walk(root string, keep func(relPath string) bool, fn func(relPath string) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if m.ShouldIgnore(rel, d.IsDir()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if keep != nil && !keep(rel) {
			return nil
		}
		return fn(rel)
	})
}

func parseRule(line string) (rule, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return rule{}, false
	}

	var r rule
	if strings.HasPrefix(line, "!") {
		r.negated = true
		line = line[1:]
	}
	if strings.HasPrefix(line, "/") {
		r.anchored = true
		line = line[1:]
	}
	if strings.HasSuffix(line, "/") {
		r.dirOnly = true
		line = strings.TrimSuffix(line, "/")
	}

	line = normalizePath(line)
	if line == "" {
		return rule{}, false
	}
	r.pattern = line
	r.nested = strings.Contains(line, "/")
	r.re = regexp.MustCompile("^" + globToRegex(line) + "$")
	return r, true
}

func (r rule) matches(relPath string, isDir bool) bool {
	segments := strings.Split(relPath, "/")

	if r.dirOnly {
		// Any ancestor directory, or relPath itself when it is a directory.
		last := len(segments) - 1
		if isDir {
			last++
		}
		for i := 1; i <= last; i++ {
			if r.matchPrefix(segments[:i]) {
				return true
			}
		}
		return false
	}

	if r.anchored {
		return r.re.MatchString(relPath)
	}
	if r.nested {
		for i := range segments {
			if r.re.MatchString(strings.Join(segments[i:], "/")) {
				return true
			}
		}
		return false
	}
	for _, segment := range segments {
		if r.re.MatchString(segment) {
			return true
		}
	}
	return false
}

// matchPrefix tests a directory given as its path segments.
func (r rule) matchPrefix(dir []string) bool {
	if r.anchored || r.nested {
		return r.re.MatchString(strings.Join(dir, "/"))
	}
	return r.re.MatchString(dir[len(dir)-1])
}

func globToRegex(pattern string) string {
	var b strings.Builder
	for i := 0; i < len(pattern); i++ {
		ch := pattern[i]
		switch {
		case ch == '*' && i+1 < len(pattern) && pattern[i+1] == '*':
			b.WriteString(".*")
			i++
		case ch == '*':
			b.WriteString("[^/]*")
		case ch == '?':
			b.WriteString("[^/]")
		default:
			b.WriteString(regexp.QuoteMeta(string(ch)))
		}
	}
	return b.String()
}

func normalizePath(path string) string {
	path = filepath.ToSlash(path)
	path = strings.TrimPrefix(path, "./")
	return strings.TrimPrefix(path, "/")
}
