package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/loginprobe/api/schemas"
	"github.com/xkilldash9x/loginprobe/internal/browser"
	"github.com/xkilldash9x/loginprobe/internal/config"
	"github.com/xkilldash9x/loginprobe/internal/engine"
	"github.com/xkilldash9x/loginprobe/internal/observability"
	"github.com/xkilldash9x/loginprobe/internal/reporting"
	"github.com/xkilldash9x/loginprobe/internal/scenarios"
)

// newRunCmd creates and configures the `run` command.
func newRunCmd() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run [target-url]",
		Short: "Runs the login scenario suite against the target URL",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			// Bind only flags the user actually set, so unset flag defaults
			// don't shadow config file and environment values.
			bindings := map[string]string{
				"concurrency": "engine.concurrency",
				"timeout":     "engine.run_timeout",
				"settle":      "engine.settle_delay",
				"headless":    "browser.headless",
			}
			for flag, key := range bindings {
				if cmd.Flags().Changed(flag) {
					if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
						return err
					}
				}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			cfg, err := config.NewConfigFromViper(viper.GetViper())
			if err != nil {
				return err
			}

			target := args[0]
			if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
				target = "https://" + target
			}

			cfg.Run = config.RunConfig{
				TargetURL:     target,
				ScenarioFile:  mustString(cmd, "scenarios"),
				Output:        mustString(cmd, "output"),
				Format:        mustString(cmd, "format"),
				FailOnTrouble: mustBool(cmd, "strict"),
			}

			defs := scenarios.Default()
			if cfg.Run.ScenarioFile != "" {
				defs, err = scenarios.Load(cfg.Run.ScenarioFile)
				if err != nil {
					return err
				}
			}

			logger.Info("Starting login scenario run",
				zap.String("target", cfg.Run.TargetURL),
				zap.Int("scenarios", len(defs)),
				zap.Int("concurrency", cfg.Engine.Concurrency))

			manager := browser.NewManager(ctx, cfg.Browser, logger)
			defer manager.Close()

			eng, err := engine.New(cfg, logger, manager)
			if err != nil {
				return err
			}

			report, err := eng.Run(ctx, defs)
			if err != nil {
				return err
			}

			if err := writeReport(cfg.Run, report); err != nil {
				return err
			}

			if cfg.Run.FailOnTrouble && report.Passed != report.Total {
				return fmt.Errorf("run finished with %d failed and %d errored scenarios",
					report.Failed, report.Errored)
			}
			return nil
		},
	}

	runCmd.Flags().StringP("scenarios", "s", "", "Path to a JSON scenario file. Defaults to the built-in suite.")
	runCmd.Flags().StringP("output", "o", "", "Output file path for the report. Defaults to stdout.")
	runCmd.Flags().StringP("format", "f", "text", "Report format ('text' or 'json').")
	runCmd.Flags().IntP("concurrency", "j", 0, "Number of scenarios in flight at once. (Overrides config/env)")
	runCmd.Flags().Duration("timeout", 0, "Overall deadline for the batch run. (Overrides config/env)")
	runCmd.Flags().Duration("settle", 0, "Post-submit settle delay. (Overrides config/env)")
	runCmd.Flags().Bool("headless", true, "Run the browser headless. (Overrides config/env)")
	runCmd.Flags().Bool("strict", false, "Exit non-zero when any scenario fails or errors.")

	return runCmd
}

func writeReport(run config.RunConfig, report *schemas.RunReport) error {
	reporter, err := reporting.New(run.Format, run.Output)
	if err != nil {
		return err
	}
	defer reporter.Close()

	if err := reporter.Write(report); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

func mustString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}

func mustBool(cmd *cobra.Command, name string) bool {
	v, _ := cmd.Flags().GetBool(name)
	return v
}
