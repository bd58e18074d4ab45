package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

const (
	defaultServerURL     = "http://localhost:9080"
	defaultSubmitTimeout = 2 * time.Minute
	workbookPermission   = 0o644
)

func (a *App) newSubmitCommand() *cobra.Command {
	var (
		url     string
		output  string
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:     "submit [paths...]",
		Short:   "Upload spreadsheets to a running server and save the master workbook",
		Example: `  skillmerge submit ./assessments --url http://merge.internal:9080 -o team.xlsx`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uploads, err := CollectUploads(args)
			if err != nil {
				return err
			}

			res, err := NewHTTPClient(url, timeout).Submit(cmd.Context(), uploads)
			if err != nil {
				return err
			}

			if output == "" {
				output = a.cfg.OutputFilename
			}
			if err := os.WriteFile(output, res.Workbook, workbookPermission); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s: %d skipped files (batch %s)\n", output, res.Warnings, res.BatchID)
			return err
		},
	}
	cmd.Flags().StringVar(&url, "url", defaultServerURL, "server base URL")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output workbook (default: output_filename from config)")
	cmd.Flags().DurationVar(&timeout, "timeout", defaultSubmitTimeout, "HTTP request timeout")
	return cmd
}
