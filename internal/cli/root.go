// Package cli implements the skillmerge command line: a local merge and a
// client for a running server.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/okian/skillmerge/internal/config"
	"github.com/okian/skillmerge/pkg/logger"
	"github.com/spf13/cobra"
)

// defaultEnvFiles are loaded before configuration. Variables already set in
// the environment win, then .env.local, then .env.
var defaultEnvFiles = []string{".env.local", ".env"}

// App holds state shared by the subcommands.
type App struct {
	cfg        *config.Config
	configFile string
	logLevel   string
	envFiles   []string
}

// Execute runs the CLI with args.
func Execute(ctx context.Context, args []string) error {
	root := NewRootCommand()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	a := &App{}
	root := &cobra.Command{
		Use:   "skillmerge",
		Short: "Merge skill assessment spreadsheets into a master workbook",
		Long: `skillmerge reads per-employee skill assessment spreadsheets (.xlsx, .xlsm,
.xls or .zip archives of them), infers their layout, and writes a workbook
with Cycle1, Cycle2, Master_Combined and Master_Pivot sheets.`,
		PersistentPreRunE: a.setup,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	root.PersistentFlags().StringVar(&a.configFile, "config", "", "YAML config file (overrides "+config.EnvConfigFile+")")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().StringSliceVar(&a.envFiles, "env-file", defaultEnvFiles, "dotenv files loaded before configuration")

	root.AddCommand(a.newMergeCommand(), a.newSubmitCommand())
	return root
}

// setup loads dotenv files, configuration and logging for every subcommand.
func (a *App) setup(cmd *cobra.Command, _ []string) error {
	if err := loadEnvFiles(a.envFiles); err != nil {
		return err
	}
	if a.configFile != "" {
		if err := os.Setenv(config.EnvConfigFile, a.configFile); err != nil {
			return err
		}
	}

	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return err
	}
	a.cfg = cfg

	if err := logger.Init(logger.WithOutput(cmd.ErrOrStderr()), logger.WithFormat(cfg.LogFormat)); err != nil {
		return err
	}
	level := cfg.LogLevel
	if a.logLevel != "" {
		level = a.logLevel
	}
	return logger.SetLevelString(level)
}

// loadEnvFiles loads each dotenv file that exists. godotenv never
// overrides a variable that is already set. A missing file is skipped; an
// unreadable or malformed one is an error.
func loadEnvFiles(files []string) error {
	for _, f := range files {
		if f == "" {
			continue
		}
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("env file %s: %w", f, err)
		}
	}
	return nil
}
