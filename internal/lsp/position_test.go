package lsp

import (
	"path/filepath"
	"testing"
)

func TestByteColumn(t *testing.T) {
	content := "int a;\r\nchar *s = \"héllo\"; // 😀x\nlast"
	cases := []struct {
		line, character uint32
		wantLine        int
		wantColumn      int
	}{
		{0, 0, 1, 1},
		{0, 6, 1, 7},
		{0, 99, 1, 7},
		{1, 12, 2, 13},
		{1, 13, 2, 15},
		{1, 25, 2, 29},
		{1, 24, 2, 28},
		{1, 22, 2, 24},
		{2, 4, 3, 5},
		{7, 3, 8, 1},
	}
	for _, tc := range cases {
		line, column := byteColumn(content, tc.line, tc.character)
		if line != tc.wantLine || column != tc.wantColumn {
			t.Fatalf("byteColumn(%d,%d) = %d,%d want %d,%d", tc.line, tc.character, line, column, tc.wantLine, tc.wantColumn)
		}
	}
}

func TestURIRoundTrip(t *testing.T) {
	path := filepath.Join(string(filepath.Separator), "tmp", "my project", "a.c")
	uri := pathToURI(path)
	if uri != "file:///tmp/my%20project/a.c" {
		t.Fatalf("unexpected uri %q", uri)
	}
	back, err := uriToPath(uri)
	if err != nil || back != path {
		t.Fatalf("expected %q, got %q err=%v", path, back, err)
	}
	if _, err := uriToPath("untitled:Untitled-1"); err == nil {
		t.Fatalf("expected non-file uri to fail")
	}
}
