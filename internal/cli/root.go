package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ideclang/ideclang/internal/config"
	"github.com/ideclang/ideclang/internal/errors"
	"github.com/ideclang/ideclang/internal/logger"
)

// globals carries the persistent flags and the configuration they resolve to.
type globals struct {
	configFile string
	logLevel   string
	logJSON    bool

	cfg *config.Config
}

// setup loads the configuration and initializes logging. Flags given on the
// command line override the configured log settings.
func (g *globals) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(config.Options{File: g.configFile})
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = g.logLevel
	}
	if cmd.Flags().Changed("log-json") {
		cfg.Log.JSON = g.logJSON
	}
	if err := logger.Initialize(cfg.Log.JSON, cfg.Log.Level); err != nil {
		return errors.Wrapf(err, "invalid log level %q", cfg.Log.Level)
	}
	g.cfg = cfg
	return nil
}

func NewRootCommand(version string) *cobra.Command {
	g := &globals{}

	rootCmd := &cobra.Command{
		Use:   "ideclang",
		Short: "C/C++ code completion over libclang",
		Long: `ideclang keeps one parsed translation unit per open C or C++ file and
answers code-completion queries against the editor's unsaved buffer.

Run "ideclang serve" from an editor's LSP client, or "ideclang complete" to
query a single position from the shell.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Cleanup()
		},
	}
	rootCmd.PersistentFlags().StringVar(&g.configFile, "config", "", "Config file (default: nearest "+config.FileName+")")
	rootCmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Log level: debug|info|warn|error")
	rootCmd.PersistentFlags().BoolVar(&g.logJSON, "log-json", false, "Write JSON logs to stderr")

	completeCmd := &cobra.Command{
		Use:   "complete <file> <line> <col>",
		Short: "Print completions at a 1-based line and byte column",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunComplete(cmd, args, g.cfg)
		},
	}
	completeCmd.Flags().Bool("stdin", false, "Read the unsaved buffer for <file> from stdin")
	completeCmd.Flags().Bool("json", false, "Print machine-readable completion records")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the language server on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunServe(cmd, g.cfg, version)
		},
	}
	serveCmd.Flags().String("tcp", "", "Listen on a TCP address instead of stdio")
	serveCmd.Flags().Bool("debug", false, "Log every LSP message")

	doctorCmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the engine, libclang and compiler flags for this project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunDoctor(cmd, g.cfg)
		},
	}
	doctorCmd.Flags().Bool("json", false, "Print machine-readable doctor output")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ideclang %s\n", version)
		},
	}

	rootCmd.AddCommand(
		completeCmd,
		serveCmd,
		doctorCmd,
		versionCmd,
	)

	return rootCmd
}
