package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ideclang/ideclang/internal/complete"
	"github.com/ideclang/ideclang/internal/config"
	"github.com/ideclang/ideclang/internal/errors"
	"github.com/ideclang/ideclang/internal/logger"
)

// CompleteSummary is the --json output of the complete command.
type CompleteSummary struct {
	File        string          `json:"file"`
	Line        int             `json:"line"`
	Column      int             `json:"column"`
	Engine      string          `json:"engine"`
	Count       int             `json:"count"`
	Completions []complete.Item `json:"completions"`
}

func RunComplete(cmd *cobra.Command, args []string, cfg *config.Config) error {
	path, err := filepath.Abs(args[0])
	if err != nil {
		return errors.Wrapf(err, "failed to resolve %s", args[0])
	}
	line, column, err := ParsePosition(args[1], args[2])
	if err != nil {
		return err
	}
	fromStdin, err := OptionalBoolFlag(cmd, "stdin", false)
	if err != nil {
		return err
	}
	asJSON, err := OptionalBoolFlag(cmd, "json", false)
	if err != nil {
		return err
	}

	var content []byte
	if fromStdin {
		content, err = io.ReadAll(cmd.InOrStdin())
	} else {
		content, err = os.ReadFile(path)
	}
	if err != nil {
		return errors.Wrapf(err, "failed to read buffer for %s", path)
	}

	store, err := newStore(cfg, filepath.Dir(path))
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Teardown(); err != nil {
			logger.Warnw("teardown failed", "error", err)
		}
	}()

	store.Open(path)
	if !store.Has(path) {
		return errors.WithHint(
			errors.Newf("failed to parse %s", path),
			"run with --log-level debug for the engine error, or check compiler flags with `ideclang doctor`",
		)
	}

	summary := CompleteSummary{
		File:        path,
		Line:        line,
		Column:      column,
		Engine:      cfg.Engine,
		Completions: []complete.Item{},
	}
	out := cmd.OutOrStdout()
	summary.Count = store.FindCompletions(path, line, column, content, func(r complete.Record) {
		if asJSON {
			summary.Completions = append(summary.Completions, r.Item())
			return
		}
		fmt.Fprintln(out, FormatRecord(r))
	})

	if asJSON {
		return writeJSON(out, summary)
	}
	return nil
}

// FormatRecord renders one record as "[k] abbr: ... menu: ... word: ...".
// An unclassified record shows a blank tag.
func FormatRecord(r complete.Record) string {
	kind := r.KindString()
	if kind == "" {
		kind = " "
	}
	return fmt.Sprintf("[%s] abbr: %s menu: %s word: %s", kind, r.Abbr.String(), r.Menu.String(), r.Word.String())
}
