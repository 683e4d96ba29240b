package cli

import (
	"fmt"

	"github.com/specialistvlad/stagegrid/internal/app"
	"github.com/specialistvlad/stagegrid/internal/executor"
	"github.com/spf13/cobra"
)

func newMergeCommand(env Env, g *globalFlags) *cobra.Command {
	var opts app.MergeOptions

	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Expand stage templates over targets into a merged document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(env, g)
			if err != nil {
				return err
			}
			defer a.Close()

			if _, err := a.Merge(cmd.Context(), opts); err != nil {
				return operational(err)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.StagesPath, "stages", "s", "configs/stages.json", "stage template file (.json, .yaml or .hcl)")
	f.StringVarP(&opts.TargetsPath, "targets", "t", "", "target file (.json, .yaml or .hcl)")
	f.StringVarP(&opts.OutputPath, "output", "o", "merged.json", "merged output file")
	_ = cmd.MarkFlagRequired("targets")
	return cmd
}

// newRunCommand builds run and post. A non-empty fixedMode pins the mode and
// hides the --mode flag.
func newRunCommand(env Env, g *globalFlags, name, fixedMode string) *cobra.Command {
	var (
		opts          app.RunOptions
		allowFailures bool
	)

	short := "Execute the stages of a merged document"
	if fixedMode != "" {
		short = "Execute only the post actions of a merged document"
	}

	cmd := &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.Workers < 1 {
				return usagef("--jobs must be at least 1, got %d", opts.Workers)
			}
			if fixedMode != "" {
				opts.Mode = fixedMode
			}
			if _, err := executor.ParseMode(opts.Mode); err != nil {
				return usage(err)
			}
			if _, err := executor.ParsePolicy(opts.Policy); err != nil {
				return usage(err)
			}

			a, err := newApp(env, g)
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.Run(cmd.Context(), opts)
			if err != nil {
				return operational(err)
			}
			if !report.OK() && !allowFailures {
				return &ExitError{
					Code:    ExitStageFailed,
					Message: fmt.Sprintf("%d stage(s) failed, %d skipped: %v", len(report.Failed()), len(report.Skipped()), report.Failed()),
				}
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.MergedPath, "stages", "s", "merged.json", "merged stage file")
	f.IntVarP(&opts.Workers, "jobs", "j", executor.DefaultWorkers(), "number of stages run in parallel")
	f.StringVar(&opts.Only, "only", "", "run a single qualified stage (target:stage)")
	f.BoolVar(&opts.WithDeps, "with-deps", false, "with --only, also run every stage it depends on")
	f.StringVar(&opts.Policy, "on-failure", string(executor.PolicyContinue), "failure policy: continue, skip-dependents or fail-fast")
	f.BoolVar(&allowFailures, "allow-failures", false, "exit 0 even when stages fail")
	if fixedMode == "" {
		f.StringVar(&opts.Mode, "mode", string(executor.ModeAll), "actions to run: all, command or post")
	}
	return cmd
}

func newCollectCommand(env Env, g *globalFlags) *cobra.Command {
	var opts app.CollectOptions

	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Gather post-action output files into an analyzed document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(env, g)
			if err != nil {
				return err
			}
			defer a.Close()

			if _, err := a.Collect(cmd.Context(), opts); err != nil {
				return operational(err)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.MergedPath, "stages", "s", "merged.json", "merged stage file")
	f.StringVarP(&opts.OutputPath, "output", "o", "analyzed.json", "analyzed output file")
	return cmd
}

func newReportCommand(env Env, g *globalFlags) *cobra.Command {
	var analyzedPath string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize an analyzed document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(env, g)
			if err != nil {
				return err
			}
			defer a.Close()

			if _, err := a.Report(cmd.Context(), analyzedPath, cmd.OutOrStdout()); err != nil {
				return operational(err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&analyzedPath, "analyzed", "analyzed.json", "analyzed document")
	return cmd
}
