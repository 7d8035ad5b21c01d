// Package config assembles suite settings from defaults, an optional .env
// file and the process environment.
package config

import (
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
)

const (
	DefaultAPIBaseURL    = "http://localhost:8000"
	DefaultAPITimeout    = 10 * time.Second
	DefaultRepoName      = "sauce-e2e-automation"
	DefaultJobName       = "sauce-e2e"
	DefaultTestEnv       = "qa"
	DefaultBrowser       = "chrome"
	DefaultBranch        = "main"
	DefaultTriggeredBy   = "jenkins"
	DefaultBaseURL       = "https://www.saucedemo.com"
	DefaultWaitTimeout   = 10 * time.Second
	DefaultResultsDir    = ".e2e-results"
	DefaultScreenshotDir = "screenshots"
	DefaultLogLevel      = "info"
)

// Jenkins holds build metadata exported by the CI job.
type Jenkins struct {
	URL         string
	BuildNumber int
	BuildURL    string
	JobName     string
	Branch      string
	Commit      string
	TriggeredBy string
}

type Config struct {
	APIBaseURL string
	APIToken   string
	OrgID      string
	CreatedBy  string
	APITimeout time.Duration

	RepoName string
	TestEnv  string
	Browser  string

	// CI is true when JENKINS_URL or BUILD_NUMBER is present.
	CI      bool
	Jenkins Jenkins

	BaseURL       string
	Headless      bool
	WaitTimeout   time.Duration
	ResultsDir    string
	ScreenshotDir string
	LogLevel      string
}

// TestCasesFile is where scenario outcomes are buffered during a run.
func (c *Config) TestCasesFile() string {
	return filepath.Join(c.ResultsDir, ".test-cases.json")
}

var envKeys = map[string]string{
	"api_base_url":   "API_BASE_URL",
	"api_token":      "API_TOKEN",
	"org_id":         "ORG_ID",
	"created_by":     "CREATED_BY",
	"api_timeout":    "API_TIMEOUT",
	"repo_name":      "REPO_NAME",
	"test_env":       "TEST_ENV",
	"browser":        "BROWSER",
	"jenkins_url":    "JENKINS_URL",
	"build_number":   "BUILD_NUMBER",
	"build_url":      "BUILD_URL",
	"job_name":       "JOB_NAME",
	"git_commit":     "GIT_COMMIT",
	"base_url":       "BASE_URL",
	"headless":       "HEADLESS",
	"wait_timeout":   "WAIT_TIMEOUT",
	"results_dir":    "RESULTS_DIR",
	"screenshot_dir": "SCREENSHOT_DIR",
	"log_level":      "LOG_LEVEL",
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("api_base_url", DefaultAPIBaseURL)
	v.SetDefault("api_timeout", DefaultAPITimeout)
	v.SetDefault("repo_name", DefaultRepoName)
	v.SetDefault("test_env", DefaultTestEnv)
	v.SetDefault("browser", DefaultBrowser)
	v.SetDefault("job_name", DefaultJobName)
	v.SetDefault("base_url", DefaultBaseURL)
	v.SetDefault("headless", true)
	v.SetDefault("wait_timeout", DefaultWaitTimeout)
	v.SetDefault("results_dir", DefaultResultsDir)
	v.SetDefault("screenshot_dir", DefaultScreenshotDir)
	v.SetDefault("log_level", DefaultLogLevel)
}

// BindEnv binds every setting to its environment variable. Keys with
// fallbacks bind several names, first one wins.
func BindEnv(v *viper.Viper) error {
	v.AllowEmptyEnv(true)
	for key, env := range envKeys {
		if err := v.BindEnv(key, env); err != nil {
			return errors.Wrapf(err, "bind %s", env)
		}
	}
	if err := v.BindEnv("git_branch", "GIT_BRANCH", "BRANCH_NAME"); err != nil {
		return errors.Wrap(err, "bind GIT_BRANCH")
	}
	if err := v.BindEnv("build_user", "BUILD_USER", "BUILD_USER_ID"); err != nil {
		return errors.Wrap(err, "bind BUILD_USER")
	}
	return nil
}

// Load reads defaults, ./.env when present, and the environment.
func Load() (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	if err := BindEnv(v); err != nil {
		return nil, err
	}
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrap(err, "read .env")
		}
	}
	return LoadWithViper(v)
}

// LoadWithViper builds a Config from an already prepared viper instance.
func LoadWithViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		APIBaseURL:    nonEmpty(strings.TrimRight(v.GetString("api_base_url"), "/"), DefaultAPIBaseURL),
		APIToken:      v.GetString("api_token"),
		OrgID:         v.GetString("org_id"),
		CreatedBy:     v.GetString("created_by"),
		APITimeout:    v.GetDuration("api_timeout"),
		RepoName:      v.GetString("repo_name"),
		TestEnv:       nonEmpty(v.GetString("test_env"), DefaultTestEnv),
		Browser:       nonEmpty(v.GetString("browser"), DefaultBrowser),
		CI:            v.IsSet("jenkins_url") || v.IsSet("build_number"),
		BaseURL:       strings.TrimRight(v.GetString("base_url"), "/"),
		Headless:      v.GetBool("headless"),
		WaitTimeout:   v.GetDuration("wait_timeout"),
		ResultsDir:    v.GetString("results_dir"),
		ScreenshotDir: v.GetString("screenshot_dir"),
		LogLevel:      v.GetString("log_level"),
		Jenkins: Jenkins{
			URL:         v.GetString("jenkins_url"),
			BuildNumber: parseBuildNumber(v.GetString("build_number")),
			BuildURL:    v.GetString("build_url"),
			JobName:     nonEmpty(v.GetString("job_name"), DefaultJobName),
			Branch:      nonEmpty(v.GetString("git_branch"), DefaultBranch),
			Commit:      v.GetString("git_commit"),
			TriggeredBy: nonEmpty(v.GetString("build_user"), DefaultTriggeredBy),
		},
	}
	if cfg.APITimeout <= 0 {
		cfg.APITimeout = DefaultAPITimeout
	}
	if cfg.WaitTimeout <= 0 {
		cfg.WaitTimeout = DefaultWaitTimeout
	}
	return cfg, nil
}

func parseBuildNumber(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

func nonEmpty(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
