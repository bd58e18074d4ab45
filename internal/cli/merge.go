package cli

import (
	"fmt"
	"os"

	"github.com/okian/skillmerge/internal/adapters/export"
	service "github.com/okian/skillmerge/internal/app"
	"github.com/okian/skillmerge/pkg/logger"
	"github.com/spf13/cobra"
)

func (a *App) newMergeCommand() *cobra.Command {
	var (
		output  string
		preview bool
	)
	cmd := &cobra.Command{
		Use:   "merge [paths...]",
		Short: "Merge spreadsheets locally and write the master workbook",
		Example: `  skillmerge merge alice_cycle1.xlsx alice_cycle2.xlsx -o team.xlsx
  skillmerge merge ./assessments --preview`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uploads, err := CollectUploads(args)
			if err != nil {
				return err
			}

			svc := service.New(
				service.WithConfig(a.cfg),
				service.WithLogger(logger.Named("service")),
			)
			report, err := svc.Merge(cmd.Context(), uploads)
			if err != nil {
				return err
			}

			if output == "" {
				output = a.cfg.OutputFilename
			}
			if err := writeWorkbook(output, report); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if err := renderReport(out, report); err != nil {
				return err
			}
			if preview {
				if err := renderRows(out, report.Master); err != nil {
					return err
				}
			}
			_, err = fmt.Fprintf(out, "wrote %s: %d master rows, %d skipped files (batch %s)\n",
				output, len(report.Master), len(report.Warnings), report.BatchID)
			return err
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output workbook (default: output_filename from config)")
	cmd.Flags().BoolVar(&preview, "preview", false, "print the master table")
	return cmd
}

func writeWorkbook(path string, report *service.Report) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return export.Write(f, report.Result, report.Pivot)
}
