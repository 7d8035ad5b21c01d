package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/cucumber/godog"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/f4hrenh9it/sauce-e2e/config"
	"github.com/f4hrenh9it/sauce-e2e/integration"
	"github.com/f4hrenh9it/sauce-e2e/steps"
)

var version string

// launcher builds the browser factory used by run.
var launcher = steps.ChromeLauncher

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "sauce-e2e",
		Short:         "Browser end-to-end suite for saucedemo.com with run tracking",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ver: %s\n", version)
		},
	}
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the feature files in Chrome",
		RunE:  runSuite,
	}
	flags := cmd.Flags()
	flags.String("tags", "", "tag expression, ex. --tags '@smoke && ~@wip'")
	flags.String("format", "pretty", "godog output format")
	flags.StringSlice("paths", []string{"features"}, "feature files or directories")
	flags.String("log-level", "", "logging level, overrides LOG_LEVEL")
	flags.Bool("strict", false, "fail on pending or undefined steps")
	flags.String("reports-dir", "test-results", "directory for junit/ and json/ reports, empty to disable")
	return cmd
}

func runSuite(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if lvl, _ := flags.GetString("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	tags, _ := flags.GetString("tags")
	format, _ := flags.GetString("format")
	paths, _ := flags.GetStringSlice("paths")
	strict, _ := flags.GetBool("strict")
	reportsDir, _ := flags.GetString("reports-dir")

	l := integration.NewLogger(cfg.LogLevel)
	defer func() { _ = l.Sync() }()
	l.Infow("suite configuration", "base_url", cfg.BaseURL, "ci", cfg.CI, "version", version)

	format, reports, err := reportFormat(format, reportsDir)
	if err != nil {
		l.Errorw("report files disabled", "error", err)
	}

	s := steps.NewSuite(cfg, newReporter(cfg, l), launcher(cfg, l), l)
	s.SetReports(reports...)
	status := s.Run(&godog.Options{
		Format: format,
		Paths:  paths,
		Tags:   tags,
		Strict: strict,
		Output: cmd.OutOrStdout(),
	})
	if status != 0 {
		return errors.Newf("feature suite failed with status %d", status)
	}
	return nil
}

// newReporter never fails: an unusable reporting configuration only turns
// run tracking off.
func newReporter(cfg *config.Config, l *zap.SugaredLogger) *integration.Reporter {
	r, err := integration.NewReporter(cfg, l)
	if err != nil {
		l.Errorw("run tracking disabled", "api_base_url", cfg.APIBaseURL, "error", err)
		return integration.NewDisabledReporter(cfg, l)
	}
	return r
}

// reportFormat appends JUnit and cucumber JSON formatters writing under dir
// to format and creates their directories. It returns the report files.
func reportFormat(format, dir string) (string, []string, error) {
	if format == "" {
		format = "pretty"
	}
	if dir == "" {
		return format, nil, nil
	}
	junit := filepath.Join(dir, "junit", "results.xml")
	cucumber := filepath.Join(dir, "json", "results.json")
	for _, f := range []string{junit, cucumber} {
		if err := os.MkdirAll(filepath.Dir(f), 0o755); err != nil {
			return format, nil, errors.Wrap(err, "create reports dir")
		}
	}
	return fmt.Sprintf("%s,junit:%s,cucumber:%s", format, junit, cucumber), []string{junit, cucumber}, nil
}
