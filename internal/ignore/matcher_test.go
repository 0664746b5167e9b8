package ignore

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestMatcher_DefaultAndUserOverrides(t *testing.T) {
	m := NewMatcher([]string{
		"third_party/**",
		"!third_party/keep/util.h",
		"*.tmp",
	})

	cases := []struct {
		path    string
		isDir   bool
		ignored bool
	}{
		{path: ".git/config", isDir: false, ignored: true},
		{path: "build/CMakeCache.txt", isDir: false, ignored: true},
		{path: "cmake-build-debug", isDir: true, ignored: true},
		{path: "src/main.o", isDir: false, ignored: true},
		{path: "third_party/zlib/zlib.h", isDir: false, ignored: true},
		{path: "third_party/keep/util.h", isDir: false, ignored: false},
		{path: "nested/cache.tmp", isDir: false, ignored: true},
		{path: "src/main.c", isDir: false, ignored: false},
		{path: "src/build.c", isDir: false, ignored: false},
	}

	for _, tc := range cases {
		got := m.ShouldIgnore(tc.path, tc.isDir)
		if got != tc.ignored {
			t.Fatalf("path %s: expected ignored=%v, got %v", tc.path, tc.ignored, got)
		}
	}
}

func TestMatcher_NegatedDirectoryRule(t *testing.T) {
	m := NewMatcher([]string{
		"!build/include/",
	})

	if !m.ShouldIgnore("build/out/file.c", false) {
		t.Fatalf("expected build/out/file.c to be ignored")
	}
	if m.ShouldIgnore("build/include/file.h", false) {
		t.Fatalf("expected build/include/file.h to be included")
	}
}

func TestMatcher_AnchoredRule(t *testing.T) {
	m := NewMatcher([]string{"/gen.c"})

	if !m.ShouldIgnore("gen.c", false) {
		t.Fatalf("expected root gen.c to be ignored")
	}
	if m.ShouldIgnore("src/gen.c", false) {
		t.Fatalf("expected src/gen.c to be included")
	}
}

func TestLoadAndWalk(t *testing.T) {
	root := t.TempDir()
	for _, rel := range []string{
		"main.c",
		"include/point.h",
		"build/generated.c",
		"skip/me.c",
		"README.md",
	} {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := os.WriteFile(filepath.Join(root, FileName), []byte("# local\nskip/\n"), 0o644); err != nil {
		t.Fatalf("write ignore file: %v", err)
	}

	m, err := Load(root)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	var got []string
	keep := func(rel string) bool { return filepath.Ext(rel) == ".c" || filepath.Ext(rel) == ".h" }
	err = m.Walk(root, keep, func(rel string) error {
		got = append(got, rel)
		return nil
	})
	if err != nil {
		t.Fatalf("Walk failed: %v", err)
	}

	want := []string{"include/point.h", "main.c"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	m, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(m.rules) != len(DefaultRules) {
		t.Fatalf("expected %d default rules, got %d", len(DefaultRules), len(m.rules))
	}
}
