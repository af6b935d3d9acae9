package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"edgedrill/pkg/fault"
	"edgedrill/pkg/metrics"
	"edgedrill/pkg/orient"
	"edgedrill/pkg/pipeline"
	"edgedrill/pkg/tooling"
)

type convertOptions struct {
	report      string
	metricsFile string
}

func newConvertCmd(a *app) *cobra.Command {
	var opts convertOptions
	cmd := &cobra.Command{
		Use:   "convert <file.dxf>...",
		Short: "Convert DXF drawings into G-code programs",
		Long: `Convert each drawing into <name>.nc, next to the drawing or in --output-dir.
Files are converted concurrently. A failed file does not stop the others.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.convert(cmd.Context(), cmd.OutOrStdout(), args, opts)
		},
	}

	f := cmd.Flags()
	f.StringP("output-dir", "o", "", "directory for the generated programs")
	f.IntP("jobs", "j", 4, "number of files converted at once")
	f.String("target", "", "machine orientation (top-left|top-right|bottom-left|bottom-right)")
	f.Float64("approach-distance", 0, "distance in mm between approach point and panel edge")
	f.Bool("line-numbers", false, "prefix N words to program lines")
	f.Bool("safety-checks", false, "insert controller safety checks before feed moves")
	f.String("empty-groups", "", "empty drill group policy (drop|warn|fail)")
	f.Float64("tolerance", 0, "diameter mismatch percentage flagged as significant")
	f.StringVar(&opts.report, "report", "", "write a YAML run report to this file")
	f.StringVar(&opts.metricsFile, "metrics-file", "", "write prometheus metrics to this textfile")
	return cmd
}

type outcome struct {
	input  string
	output string
	result pipeline.Result
	err    error
}

func (a *app) convert(ctx context.Context, out io.Writer, inputs []string, opts convertOptions) error {
	settings, err := a.config.MachineSettings()
	if err != nil {
		return err
	}
	target, err := orient.ParseOrientation(a.config.TargetOrientation)
	if err != nil {
		return fault.Configuration("config", "invalid target orientation %q", a.config.TargetOrientation).Wrap(err)
	}
	if dir := a.config.OutputDir; dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	a.logger.Info("starting conversion",
		zap.Int("files", len(inputs)),
		zap.Int("jobs", a.config.Jobs),
		zap.Stringer("settings", settings))

	catalog := tooling.FileCatalog{Path: a.config.Catalog}
	rec := metrics.New()
	outcomes := make([]outcome, len(inputs))

	g := new(errgroup.Group)
	g.SetLimit(a.config.Jobs)
	for i, input := range inputs {
		g.Go(func() error {
			o := outcome{input: input}
			defer func() { outcomes[i] = o }()
			if err := ctx.Err(); err != nil {
				o.err = err
				return nil
			}

			conv := pipeline.New(settings, catalog,
				pipeline.WithLogger(a.logger),
				pipeline.WithMetrics(rec),
				pipeline.WithTarget(target))
			o.result, o.err = conv.ConvertFile(input)
			if o.err != nil {
				return nil
			}
			o.output = a.outputPath(input)
			if err := os.WriteFile(o.output, []byte(o.result.Program.String()), 0o644); err != nil {
				o.err = fmt.Errorf("failed to write program: %w", err)
			}
			return nil
		})
	}
	_ = g.Wait()

	failed, firstErr := a.printOutcomes(out, outcomes)

	if opts.report != "" {
		if err := a.writeReport(opts.report, outcomes); err != nil {
			return err
		}
	}
	if opts.metricsFile != "" {
		if err := rec.WriteTextfile(opts.metricsFile); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d conversions failed: %w", failed, len(outcomes), firstErr)
	}
	return nil
}

func (a *app) outputPath(input string) string {
	dir := a.config.OutputDir
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, pipeline.ProgramName(input)+".nc")
}

func (a *app) printOutcomes(out io.Writer, outcomes []outcome) (int, error) {
	s := a.styles
	failed := 0
	var firstErr error

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Program", "Group", "Tool", "Points"})
	rows := 0

	for _, o := range outcomes {
		if o.err != nil {
			failed++
			if firstErr == nil {
				firstErr = o.err
			}
			_, _ = fmt.Fprintf(out, "%s %s: %v\n", s.Error.Render("FAIL"), o.input, o.err)
			continue
		}
		r := o.result.Report
		_, _ = fmt.Fprintf(out, "%s %s -> %s %s\n", s.OK.Render("ok"), o.input, o.output,
			s.Muted.Render(fmt.Sprintf("(%d groups, %d lines)", len(r.Groups), r.Lines)))
		for _, w := range r.Warnings {
			_, _ = fmt.Fprintf(out, "   %s %s: %s\n", s.Severity(w.Severity).Render("warn"), w.Layer, w.Reason)
		}
		for _, is := range r.Skipped {
			_, _ = fmt.Fprintf(out, "   %s %s: %s\n", s.Severity(is.Severity).Render("skip"), is.Layer, is.Reason)
		}
		for _, gr := range r.Groups {
			t.AppendRow(table.Row{r.Program, gr.Group.String(), gr.Tool, gr.Points})
			rows++
		}
	}
	if rows > 0 {
		t.Render()
	}
	return failed, firstErr
}

func (a *app) writeReport(path string, outcomes []outcome) error {
	reports := make([]pipeline.Report, 0, len(outcomes))
	for _, o := range outcomes {
		if o.result.Report.Input == "" {
			// cancelled before it started
			continue
		}
		reports = append(reports, o.result.Report)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	if err := pipeline.WriteReports(f, reports); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
