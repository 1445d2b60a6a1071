package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/attendly/attendly-backend/internal/attendance/repository"
	"github.com/attendly/attendly-backend/internal/attendance/service"
	"github.com/spf13/cobra"
)

type reportOptions struct {
	start      string
	end        string
	department string
	outDir     string
}

func (o *reportOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.start, "start", "", "First day YYYY-MM-DD (default: first day of the current month)")
	cmd.Flags().StringVar(&o.end, "end", "", "Last day YYYY-MM-DD (default: last day of the current month)")
	cmd.Flags().StringVarP(&o.outDir, "out", "o", ".", "Output directory")
}

func newReportCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate report documents",
	}

	cmd.AddCommand(
		newReportControlCmd(root),
		newReportExceptionsCmd(root),
	)

	return cmd
}

func newReportControlCmd(root *rootOptions) *cobra.Command {
	var opts reportOptions

	cmd := &cobra.Command{
		Use:   "control",
		Short: "Write the monthly control grid spreadsheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, root)
			if err != nil {
				return err
			}
			defer a.Close()

			store, err := a.settingsStore()
			if err != nil {
				return err
			}

			svc := service.NewAttendanceService(
				repository.NewAttendanceRepository(a.db), store, a.publisher, a.cfg.Reports, a.log)

			doc, err := svc.ControlReport(commandContext(cmd, root), opts.start, opts.end, opts.department)
			if err != nil {
				return err
			}
			return writeDocument(cmd, opts.outDir, doc)
		},
	}

	opts.bind(cmd)
	cmd.Flags().StringVar(&opts.department, "department", "", "Only employees of this department")

	return cmd
}

func newReportExceptionsCmd(root *rootOptions) *cobra.Command {
	var opts reportOptions

	cmd := &cobra.Command{
		Use:   "exceptions",
		Short: "Write the exception report PDF",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, root)
			if err != nil {
				return err
			}
			defer a.Close()

			svc := service.NewExceptionService(
				repository.NewExceptionRepository(a.db), a.publisher, a.cfg.Reports, a.log)

			doc, err := svc.Report(commandContext(cmd, root), opts.start, opts.end)
			if err != nil {
				return err
			}
			return writeDocument(cmd, opts.outDir, doc)
		},
	}

	opts.bind(cmd)

	return cmd
}

// writeDocument saves doc under dir with its download filename and prints the path
func writeDocument(cmd *cobra.Command, dir string, doc *service.Document) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(dir, doc.Filename)
	if err := os.WriteFile(path, doc.Body, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}
