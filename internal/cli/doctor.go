package cli

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ideclang/ideclang/internal/config"
	"github.com/ideclang/ideclang/internal/errors"
	"github.com/ideclang/ideclang/internal/ignore"
	"github.com/ideclang/ideclang/internal/libclang"
	"github.com/ideclang/ideclang/internal/lsp"
)

// maxSourceScan bounds how many source files doctor looks at.
const maxSourceScan = 5000

var errScanLimit = errors.New("scan limit reached")

type LibclangStatus struct {
	Configured string   `json:"configured,omitempty"`
	Candidates []string `json:"candidates"`
	Resolved   string   `json:"resolved"`
	Loadable   bool     `json:"loadable"`
	Version    string   `json:"version,omitempty"`
	Error      string   `json:"error,omitempty"`
	Hints      []string `json:"hints,omitempty"`
}

type DoctorSummary struct {
	Mode         string                    `json:"mode"`
	RootPath     string                    `json:"root_path"`
	ConfigFile   string                    `json:"config_file,omitempty"`
	Engine       string                    `json:"engine"`
	Flags        []string                  `json:"flags"`
	CompileFlags string                    `json:"compile_flags,omitempty"`
	Sources      int                       `json:"sources"`
	Libclang     *LibclangStatus           `json:"libclang,omitempty"`
	LSP          map[string]lsp.Capability `json:"lsp"`
	Healthy      bool                      `json:"healthy"`
	Missing      []string                  `json:"missing,omitempty"`
	Suggestions  []string                  `json:"suggestions,omitempty"`
}

// libclangLoader is swapped in tests.
var libclangLoader = func(path string) (string, error) {
	engine, err := libclang.Load(path)
	if err != nil {
		return "", err
	}
	defer engine.Dispose()
	return engine.Version(), nil
}

func RunDoctor(cmd *cobra.Command, cfg *config.Config) error {
	rootPath, err := resolveWorkingDirectory()
	if err != nil {
		return err
	}
	asJSON, err := OptionalBoolFlag(cmd, "json", false)
	if err != nil {
		return err
	}

	summary := DoctorSummary{
		Mode:       "doctor",
		RootPath:   rootPath,
		ConfigFile: cfg.File,
		Engine:     cfg.Engine,
	}

	flags, source, err := cfg.CompilerFlags(rootPath)
	if err != nil {
		summary.Missing = append(summary.Missing, "readable "+config.CompileFlagsFile)
		flags = cfg.Clang.Flags
	}
	summary.Flags = append([]string{}, flags...)
	summary.CompileFlags = source

	sources, err := scanSources(rootPath)
	if err != nil {
		return errors.Wrap(err, "failed to scan sources")
	}
	summary.Sources = len(sources)
	summary.LSP = lsp.ProbeCapabilities(lsp.DetectLanguagePresence(sources), cfg.Engine, cfg.Libclang.Path)

	if cfg.Engine == config.EngineLibclang {
		status := probeLibclang(cfg.Libclang.Path, libclang.Discover())
		summary.Libclang = &status
		if !status.Loadable {
			summary.Missing = append(summary.Missing, "loadable libclang")
			summary.Suggestions = append(summary.Suggestions, "set libclang.path in "+config.FileName+" or IDECLANG_LIBCLANG_PATH")
			summary.Suggestions = append(summary.Suggestions, "set engine = \"treesitter\" to run without libclang")
		}
	}
	if summary.Sources == 0 {
		summary.Missing = append(summary.Missing, "C/C++ sources")
	}
	if len(summary.Flags) == 0 {
		summary.Suggestions = append(summary.Suggestions, "add "+config.CompileFlagsFile+" or clang.flags for include paths")
	}

	sort.Strings(summary.Missing)
	sort.Strings(summary.Suggestions)
	summary.Healthy = len(summary.Missing) == 0

	out := cmd.OutOrStdout()
	if asJSON {
		return writeJSON(out, summary)
	}

	status := "issues"
	if summary.Healthy {
		status = "ok"
	}
	fmt.Fprintf(out, "doctor: %s\n", status)
	configFile := summary.ConfigFile
	if configFile == "" {
		configFile = "none"
	}
	fmt.Fprintf(out, "config: %s\n", configFile)
	fmt.Fprintf(out, "engine: %s\n", summary.Engine)
	fmt.Fprintf(out, "flags: %s\n", formatFlags(summary.Flags, summary.CompileFlags))
	fmt.Fprintf(out, "sources: %d\n", summary.Sources)
	if lc := summary.Libclang; lc != nil {
		fmt.Fprintf(out, "libclang: %s loadable=%t\n", lc.Resolved, lc.Loadable)
		if lc.Version != "" {
			fmt.Fprintf(out, "libclang version: %s\n", lc.Version)
		}
		if lc.Error != "" {
			fmt.Fprintf(out, "libclang error: %s\n", lc.Error)
		}
		fmt.Fprintf(out, "libclang candidates (%d): %s\n", len(lc.Candidates), SummarizePaths(lc.Candidates, 3))
	}
	availableLSP := 0
	presentLSP := 0
	for _, capability := range summary.LSP {
		if capability.Present {
			presentLSP++
			if capability.Available {
				availableLSP++
			}
		}
	}
	fmt.Fprintf(out, "lsp: available=%d/%d present languages\n", availableLSP, presentLSP)
	if len(summary.Missing) > 0 {
		fmt.Fprintf(out, "missing (%d): %s\n", len(summary.Missing), strings.Join(summary.Missing, ", "))
	}
	for _, suggestion := range summary.Suggestions {
		fmt.Fprintf(out, "next: %s\n", suggestion)
	}
	return nil
}

func probeLibclang(configured string, candidates []string) LibclangStatus {
	status := LibclangStatus{
		Configured: configured,
		Candidates: append([]string{}, candidates...),
		Resolved:   libclang.Resolve(configured, candidates),
	}
	version, err := libclangLoader(status.Resolved)
	if err != nil {
		status.Error = err.Error()
		status.Hints = errors.GetAllHints(err)
		return status
	}
	status.Loadable = true
	status.Version = version
	return status
}

// scanSources lists C and C++ files under root, honoring .ideclangignore.
func scanSources(root string) ([]string, error) {
	matcher, err := ignore.Load(root)
	if err != nil {
		return nil, err
	}
	var sources []string
	err = matcher.Walk(root, lsp.Tracked, func(rel string) error {
		sources = append(sources, rel)
		if len(sources) >= maxSourceScan {
			return errScanLimit
		}
		return nil
	})
	if err != nil && !errors.Is(err, errScanLimit) {
		return nil, err
	}
	return sources, nil
}

func formatFlags(flags []string, source string) string {
	text := "(none)"
	if len(flags) > 0 {
		text = strings.Join(flags, " ")
	}
	if source != "" {
		text += fmt.Sprintf(" (+%s)", filepath.Base(source))
	}
	return text
}

// SummarizePaths joins at most limit paths and counts the rest.
func SummarizePaths(paths []string, limit int) string {
	if len(paths) == 0 {
		return "none"
	}
	if limit <= 0 || len(paths) <= limit {
		return strings.Join(paths, ", ")
	}
	return fmt.Sprintf("%s (+%d more)", strings.Join(paths[:limit], ", "), len(paths)-limit)
}
