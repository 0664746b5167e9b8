package lsp

import (
	"net/url"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ideclang/ideclang/internal/errors"
)

// uriToPath converts a file:// URI into a local path.
func uriToPath(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", errors.Wrapf(err, "parse uri %q", uri)
	}
	if u.Scheme != "file" {
		return "", errors.Newf("unsupported uri scheme %q", u.Scheme)
	}
	return filepath.FromSlash(u.Path), nil
}

// pathToURI is the inverse of uriToPath.
func pathToURI(path string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String()
}

// byteColumn converts a 0-based line and UTF-16 character offset into the
// 1-based line and byte column used by the engines. Offsets past the end of
// the line clamp to its end.
func byteColumn(content string, line, character uint32) (int, int) {
	rest := content
	for l := uint32(0); l < line; l++ {
		i := strings.IndexByte(rest, '\n')
		if i < 0 {
			rest = ""
			break
		}
		rest = rest[i+1:]
	}
	if i := strings.IndexByte(rest, '\n'); i >= 0 {
		rest = rest[:i]
	}
	rest = strings.TrimSuffix(rest, "\r")

	units := uint32(0)
	offset := 0
	for offset < len(rest) && units < character {
		r, size := utf8.DecodeRuneInString(rest[offset:])
		if r >= 0x10000 {
			units += 2
		} else {
			units++
		}
		offset += size
	}
	return int(line) + 1, offset + 1
}
