// Package steps binds the feature files to page objects and reports every
// scenario to the tracking API.
package steps

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/cucumber/godog"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/f4hrenh9it/sauce-e2e/browser"
	"github.com/f4hrenh9it/sauce-e2e/config"
	"github.com/f4hrenh9it/sauce-e2e/integration"
	"github.com/f4hrenh9it/sauce-e2e/pages"
)

var errBrowserUnavailable = errors.New("browser is not running")

// Reporter receives suite lifecycle events, see integration.Reporter.
type Reporter interface {
	AttachBrowser(src integration.BrowserInfoSource)
	OnSuiteStart(ctx context.Context, framework string) *integration.PipelineRunResponse
	OnScenarioStart()
	OnScenarioEnd(ctx context.Context, name, status, errorMessage string) *integration.TestCaseResponse
	OnSuiteEnd(ctx context.Context) *integration.RunSummary
}

// Browser is the driver the suite launches once per run.
type Browser interface {
	pages.Driver
	Screenshot() ([]byte, error)
	Close()
}

type LaunchFunc func() (Browser, error)

// ChromeLauncher starts Chrome with the configured base URL.
func ChromeLauncher(cfg *config.Config, l *zap.SugaredLogger) LaunchFunc {
	return func() (Browser, error) {
		c, err := browser.Launch(browser.Options{
			BaseURL:     cfg.BaseURL,
			Headless:    cfg.Headless,
			WaitTimeout: cfg.WaitTimeout,
		}, l)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

type Suite struct {
	cfg      *config.Config
	reporter Reporter
	launch   LaunchFunc
	l        *zap.SugaredLogger

	browser  Browser
	login    *pages.LoginPage
	products *pages.ProductsPage
	details  *pages.ProductDetailsPage

	reports []string
}

func NewSuite(cfg *config.Config, reporter Reporter, launch LaunchFunc, l *zap.SugaredLogger) *Suite {
	if l == nil {
		l = zap.NewNop().Sugar()
	}
	return &Suite{cfg: cfg, reporter: reporter, launch: launch, l: l}
}

// SetReports records the report files the run's formatters write, so that
// they are listed when the suite completes.
func (s *Suite) SetReports(paths ...string) {
	s.reports = paths
}

// Run executes the features and returns godog's exit status.
func (s *Suite) Run(opts *godog.Options) int {
	return godog.TestSuite{
		Name:                 "saucedemo",
		TestSuiteInitializer: s.InitializeTestSuite,
		ScenarioInitializer:  s.InitializeScenario,
		Options:              opts,
	}.Run()
}

func (s *Suite) InitializeTestSuite(ts *godog.TestSuiteContext) {
	ts.BeforeSuite(s.beforeSuite)
	ts.AfterSuite(s.afterSuite)
}

func (s *Suite) InitializeScenario(sc *godog.ScenarioContext) {
	sc.Before(s.beforeScenario)
	sc.After(s.afterScenario)
	s.registerLoginSteps(sc)
	s.registerProductSteps(sc)
}

// BrowserInfo implements integration.BrowserInfoSource. It reports nothing
// until the browser has been launched.
func (s *Suite) BrowserInfo() (integration.BrowserInfo, bool) {
	if s.browser == nil {
		return integration.BrowserInfo{}, false
	}
	src, ok := s.browser.(integration.BrowserInfoSource)
	if !ok {
		return integration.BrowserInfo{}, false
	}
	return src.BrowserInfo()
}

func (s *Suite) beforeSuite() {
	s.l.Info("starting test suite execution")
	if err := os.MkdirAll(s.cfg.ScreenshotDir, 0o755); err != nil {
		s.l.Warnw("could not create screenshot dir", "dir", s.cfg.ScreenshotDir, "error", err)
	}
	s.reporter.AttachBrowser(s)
	// the run is created before the browser exists, as a launcher would
	s.reporter.OnSuiteStart(context.Background(), integration.DefaultFramework)

	b, err := s.launch()
	if err != nil {
		s.l.Errorw("could not launch browser", "error", err)
		return
	}
	s.browser = b
	s.login = pages.NewLoginPage(b)
	s.products = pages.NewProductsPage(b)
	s.details = pages.NewProductDetailsPage(b)
}

func (s *Suite) afterSuite() {
	if s.browser != nil {
		s.browser.Close()
		s.browser = nil
	}
	s.reporter.OnSuiteEnd(context.Background())
	s.l.Info("test suite execution completed")
	for _, p := range s.reports {
		s.l.Infow("report", "path", p)
	}
}

func (s *Suite) beforeScenario(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
	tags := make([]string, 0, len(sc.Tags))
	for _, t := range sc.Tags {
		tags = append(tags, t.Name)
	}
	s.l.Infow("starting scenario", "scenario", sc.Name, "tags", strings.Join(tags, ", "))
	s.reporter.OnScenarioStart()
	if s.browser == nil {
		return ctx, errBrowserUnavailable
	}
	return ctx, nil
}

func (s *Suite) afterScenario(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
	status, msg := scenarioOutcome(err)
	if status == integration.ScenarioFailed {
		s.captureScreenshot(sc.Name)
	}
	s.reporter.OnScenarioEnd(ctx, sc.Name, status, msg)
	s.l.Infow("scenario finished", "scenario", sc.Name, "status", status)
	return ctx, nil
}

// scenarioOutcome translates the error godog hands to After hooks.
func scenarioOutcome(err error) (status, message string) {
	switch {
	case err == nil:
		return integration.ScenarioPassed, ""
	case errors.Is(err, godog.ErrPending):
		return integration.ScenarioPending, ""
	case errors.Is(err, godog.ErrSkip):
		return integration.ScenarioSkipped, ""
	case errors.Is(err, godog.ErrUndefined):
		return integration.ScenarioUndefined, err.Error()
	default:
		return integration.ScenarioFailed, err.Error()
	}
}

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9]`)

func screenshotName(scenario string) string {
	return unsafeFileChars.ReplaceAllString(scenario, "_") + "_" + uuid.NewString() + ".png"
}

func (s *Suite) captureScreenshot(scenario string) {
	if s.browser == nil {
		return
	}
	png, err := s.browser.Screenshot()
	if err != nil {
		s.l.Warnw("could not take screenshot", "scenario", scenario, "error", err)
		return
	}
	path := filepath.Join(s.cfg.ScreenshotDir, screenshotName(scenario))
	if err := os.WriteFile(path, png, 0o644); err != nil {
		s.l.Warnw("could not save screenshot", "path", path, "error", err)
		return
	}
	s.l.Infow("screenshot saved", "path", path)
}
