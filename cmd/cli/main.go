package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"autoinsight/domain/core"
	"autoinsight/internal/config"
	"autoinsight/internal/container"
	"autoinsight/ports"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	format     string
	seed       int64
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	rootCmd := &cobra.Command{
		Use:           "autoinsight",
		Short:         "Automated first-pass profiling of tabular datasets",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	f := rootCmd.PersistentFlags()
	f.StringVar(&opts.configPath, "config", "", "config file (YAML)")
	f.StringVar(&opts.format, "format", "json", "output format: json or yaml")
	f.Int64Var(&opts.seed, "seed", 0, "seed for the simulated baseline model (0 derives it from the data)")

	rootCmd.AddCommand(
		newAnalyzeCmd(opts),
		newClassifyCmd(opts),
		newCleanCmd(opts),
		newReportsCmd(opts),
	)
	return rootCmd
}

// load reads configuration and applies flag overrides.
func (o *globalOptions) load(cmd *cobra.Command) (*config.Config, error) {
	if _, err := formatOf(o.format); err != nil {
		return nil, err
	}
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("seed") {
		cfg.Analysis.Seed = o.seed
	}
	return cfg, nil
}

func withContainer(ctx context.Context, cfg *config.Config, fn func(*container.Container) error) error {
	c, err := container.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer c.Close(ctx)
	return fn(c)
}

func newAnalyzeCmd(opts *globalOptions) *cobra.Command {
	var store bool

	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Run the full pipeline and print the report",
		Long: `Clean, classify, describe, diagnose, model and advise on a CSV, XLSX or JSON file.

Example: autoinsight analyze customers.csv --format yaml --store`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			if !store {
				cfg.Database.URL = ""
			} else if !cfg.Database.Enabled() {
				return fmt.Errorf("--store requires database.url (or AUTOINSIGHT_DATABASE_URL)")
			}

			ctx := cmd.Context()
			return withContainer(ctx, cfg, func(c *container.Container) error {
				ds, err := c.Reader.ReadDataset(ctx, args[0])
				if err != nil {
					return err
				}
				report, err := c.Analysis.Analyze(ctx, ds)
				if report != nil {
					if werr := writeOutput(cmd.OutOrStdout(), opts.format, report); werr != nil {
						return werr
					}
				}
				if err != nil {
					return err
				}
				for _, st := range report.Failed() {
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", st.Error)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&store, "store", false, "save the report to the configured database")
	return cmd
}

func newClassifyCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "classify <file>",
		Short: "Print the detected type of every column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			cfg.Database.URL = ""
			ctx := cmd.Context()
			return withContainer(ctx, cfg, func(c *container.Container) error {
				ds, err := c.Reader.ReadDataset(ctx, args[0])
				if err != nil {
					return err
				}
				profiles, err := c.Analysis.Classify(ctx, ds)
				if err != nil {
					return err
				}
				return writeOutput(cmd.OutOrStdout(), opts.format, profiles)
			})
		},
	}
}

func newCleanCmd(opts *globalOptions) *cobra.Command {
	var logOnly bool

	cmd := &cobra.Command{
		Use:   "clean <file>",
		Short: "Run the cleaner and print the cleaning result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			cfg.Database.URL = ""
			ctx := cmd.Context()
			return withContainer(ctx, cfg, func(c *container.Container) error {
				ds, err := c.Reader.ReadDataset(ctx, args[0])
				if err != nil {
					return err
				}
				res, err := c.Analysis.Clean(ctx, ds)
				if err != nil {
					return err
				}
				if logOnly {
					return writeOutput(cmd.OutOrStdout(), opts.format, res.CleaningLog)
				}
				return writeOutput(cmd.OutOrStdout(), opts.format, res)
			})
		},
	}

	cmd.Flags().BoolVar(&logOnly, "log-only", false, "print only the cleaning log")
	return cmd
}

func newReportsCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Inspect stored reports",
	}

	var (
		datasetHash string
		limit       int
		offset      int
	)
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List stored reports, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withReports(cmd, opts, func(ctx context.Context, c *container.Container) error {
				summaries, err := c.Analysis.Reports(ctx, ports.ReportFilters{
					DatasetHash: core.Hash(datasetHash),
					Limit:       limit,
					Offset:      offset,
				})
				if err != nil {
					return err
				}
				return writeOutput(cmd.OutOrStdout(), opts.format, summaries)
			})
		},
	}
	listCmd.Flags().StringVar(&datasetHash, "dataset", "", "only reports for this dataset fingerprint")
	listCmd.Flags().IntVar(&limit, "limit", 20, "maximum number of reports")
	listCmd.Flags().IntVar(&offset, "offset", 0, "number of reports to skip")

	showCmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Print one stored report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := core.ParseRunID(args[0])
			if err != nil {
				return err
			}
			return withReports(cmd, opts, func(ctx context.Context, c *container.Container) error {
				report, err := c.Analysis.Report(ctx, id)
				if err != nil {
					return err
				}
				return writeOutput(cmd.OutOrStdout(), opts.format, report)
			})
		},
	}

	cmd.AddCommand(listCmd, showCmd)
	return cmd
}

func withReports(cmd *cobra.Command, opts *globalOptions, fn func(context.Context, *container.Container) error) error {
	cfg, err := opts.load(cmd)
	if err != nil {
		return err
	}
	if !cfg.Database.Enabled() {
		return fmt.Errorf("reports require database.url (or AUTOINSIGHT_DATABASE_URL)")
	}
	ctx := cmd.Context()
	return withContainer(ctx, cfg, func(c *container.Container) error {
		return fn(ctx, c)
	})
}
