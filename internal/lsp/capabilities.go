package lsp

import (
	"path/filepath"
	"strings"

	"github.com/ideclang/ideclang/internal/libclang"
)

type Capability struct {
	Present   bool   `json:"present"`
	Engine    string `json:"engine"`
	Library   string `json:"library,omitempty"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

var languageExtensions = map[string][]string{
	"c":   {".c", ".h"},
	"cpp": {".cc", ".cpp", ".cxx", ".c++", ".hpp", ".hh", ".hxx", ".h++"},
}

// LanguageForPath maps a file to "c" or "cpp" by extension.
func LanguageForPath(path string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	for language, exts := range languageExtensions {
		for _, candidate := range exts {
			if ext == candidate {
				return language, true
			}
		}
	}
	return "", false
}

// Tracked reports whether documents at path are handled at all.
func Tracked(path string) bool {
	_, ok := LanguageForPath(path)
	return ok
}

func DetectLanguagePresence(paths []string) map[string]bool {
	presence := make(map[string]bool, len(languageExtensions))
	for language := range languageExtensions {
		presence[language] = false
	}
	for _, path := range paths {
		if language, ok := LanguageForPath(path); ok {
			presence[language] = true
		}
	}
	return presence
}

// Probe describes how to find an engine.
type Probe struct {
	Engine     string
	Configured string
	Discover   func() []string
	Exists     func(path string) bool
}

func ProbeCapabilities(presence map[string]bool, engine, configured string) map[string]Capability {
	return ProbeCapabilitiesWith(presence, Probe{
		Engine:     engine,
		Configured: configured,
		Discover:   libclang.Discover,
		Exists:     libclang.Exists,
	})
}

func ProbeCapabilitiesWith(presence map[string]bool, probe Probe) map[string]Capability {
	library, found := findLibrary(probe)

	capabilities := make(map[string]Capability, len(languageExtensions))
	for language := range languageExtensions {
		capability := Capability{Present: presence[language], Engine: probe.Engine}
		if !capability.Present {
			capability.Reason = "language_not_present"
			capabilities[language] = capability
			continue
		}

		switch probe.Engine {
		case "treesitter":
			capability.Available = true
		default:
			capability.Library = library
			capability.Available = found
			if !found {
				capability.Reason = "library_not_found"
			}
		}
		capabilities[language] = capability
	}
	return capabilities
}

func findLibrary(probe Probe) (string, bool) {
	if probe.Configured != "" {
		if probe.Exists != nil && probe.Exists(probe.Configured) {
			return probe.Configured, true
		}
		return probe.Configured, false
	}
	if probe.Discover != nil {
		if found := probe.Discover(); len(found) > 0 {
			return found[0], true
		}
	}
	return libclang.Resolve("", nil), false
}
