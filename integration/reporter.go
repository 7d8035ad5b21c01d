package integration

import (
	"context"
	"io/fs"
	"math"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/f4hrenh9it/sauce-e2e/config"
)

const (
	DefaultFramework = "godog-cucumber"
	// NotAvailable is buffered as test id when the API did not return one.
	NotAvailable = "N/A"
)

// Reporter records one suite run in the tracking API. It answers the four
// suite lifecycle calls in order: OnSuiteStart, then OnScenarioStart and
// OnScenarioEnd per scenario, then OnSuiteEnd. Reporting is best effort:
// no method returns an error, failures are logged and yield nil.
type Reporter struct {
	cfg     *config.Config
	client  *Client
	buffer  Buffer
	browser BrowserInfoSource
	gate    func() bool
	now     func() time.Time
	l       *zap.SugaredLogger

	mu            sync.Mutex
	runID         ID
	startTime     time.Time
	scenarioStart time.Time
}

type Option func(*Reporter)

// WithBuffer replaces the file buffer at cfg.TestCasesFile().
func WithBuffer(b Buffer) Option {
	return func(r *Reporter) { r.buffer = b }
}

// WithGate replaces the CI detection taken from cfg.CI.
func WithGate(gate func() bool) Option {
	return func(r *Reporter) { r.gate = gate }
}

func WithClock(now func() time.Time) Option {
	return func(r *Reporter) { r.now = now }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(r *Reporter) { r.client.httpClient = hc }
}

func WithBrowserInfo(src BrowserInfoSource) Option {
	return func(r *Reporter) { r.browser = src }
}

func NewReporter(cfg *config.Config, l *zap.SugaredLogger, opts ...Option) (*Reporter, error) {
	if l == nil {
		l = zap.NewNop().Sugar()
	}
	client, err := New(cfg.APIBaseURL, cfg.APIToken, cfg.APITimeout, nil, l)
	if err != nil {
		return nil, err
	}
	r := &Reporter{
		cfg:    cfg,
		client: client,
		buffer: NewFileBuffer(cfg.TestCasesFile()),
		gate:   func() bool { return cfg.CI },
		now:    time.Now,
		l:      l,
	}
	for _, o := range opts {
		o(r)
	}
	return r, nil
}

// NewDisabledReporter returns a Reporter that never calls the tracking API,
// for runs whose reporting configuration could not be used.
func NewDisabledReporter(cfg *config.Config, l *zap.SugaredLogger) *Reporter {
	if l == nil {
		l = zap.NewNop().Sugar()
	}
	return &Reporter{
		cfg: cfg,
		client: &Client{
			BaseURL:    &url.URL{},
			Timeout:    DefaultTimeout,
			httpClient: &http.Client{},
			l:          l,
		},
		buffer: NewMemoryBuffer(),
		gate:   func() bool { return false },
		now:    time.Now,
		l:      l,
	}
}

// AttachBrowser sets the source of live browser capabilities.
func (r *Reporter) AttachBrowser(src BrowserInfoSource) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.browser = src
}

// RunID returns the pipeline run identifier, empty until a run is created.
func (r *Reporter) RunID() ID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.runID
}

func (r *Reporter) enabled() bool {
	return r.gate != nil && r.gate()
}

// OnSuiteStart clears the buffer and creates the pipeline run. It returns
// nil outside CI, when a run already exists, or when creation fails.
func (r *Reporter) OnSuiteStart(ctx context.Context, framework string) *PipelineRunResponse {
	if !r.enabled() {
		r.l.Info("local run detected, skipping tracking API calls")
		r.l.Info("set JENKINS_URL or BUILD_NUMBER to enable run tracking")
		return nil
	}
	r.mu.Lock()
	if r.runID != "" {
		id := r.runID
		r.mu.Unlock()
		r.l.Warnw("pipeline run already created, not creating another", "run_id", id)
		return nil
	}
	start := r.now()
	r.startTime = start
	src := r.browser
	r.mu.Unlock()

	if err := r.buffer.Clear(); err != nil {
		r.l.Warnw("could not clear test cases buffer", "error", err)
	} else {
		r.l.Debug("cleared test cases buffer")
	}

	if framework == "" {
		framework = DefaultFramework
	}
	meta := r.cfg.Jenkins
	browser := browserInfo(src, r.cfg)
	p := PipelineRunPayload{
		Name:        meta.JobName,
		RepoName:    r.cfg.RepoName,
		Environment: r.cfg.TestEnv,
		Org:         r.cfg.OrgID,
		CreatedBy:   r.cfg.CreatedBy,
		BuildNumber: meta.BuildNumber,
		Status:      StatusRunning,
		Branch:      meta.Branch,
		TriggeredBy: meta.TriggeredBy,
		StartTime:   formatTime(start),
		Framework:   framework,
		Browser:     browser.Name,
	}
	r.l.Infow("creating pipeline run",
		"endpoint", r.client.Endpoint("api/pipeline-runs/"),
		"start_time", p.StartTime,
		"job", p.Name,
		"jenkins_url", meta.URL,
		"build_url", meta.BuildURL,
		"commit", meta.Commit,
	)
	r.l.Debugw("pipeline run payload", "payload", p)

	resp, err := r.client.CreatePipelineRun(ctx, p)
	if err != nil {
		r.l.Errorw("pipeline run creation failed", "error", err)
		return nil
	}

	r.mu.Lock()
	if r.runID == "" {
		r.runID = resp.RunID()
	}
	id := r.runID
	r.mu.Unlock()

	r.l.Infow("pipeline run created",
		"run_id", id,
		"build_number", meta.BuildNumber,
		"branch", meta.Branch,
		"browser", browser.Name,
	)
	return resp
}

// OnScenarioStart marks the start of the next scenario.
func (r *Reporter) OnScenarioStart() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scenarioStart = r.now()
}

// OnScenarioEnd reports one scenario and appends it to the buffer. The
// buffer is written even when the API call fails. status is a runner
// outcome such as PASSED or UNDEFINED, see MapStatus.
func (r *Reporter) OnScenarioEnd(ctx context.Context, name, status, errorMessage string) *TestCaseResponse {
	if !r.enabled() {
		return nil
	}
	r.mu.Lock()
	runID := r.runID
	started := r.scenarioStart
	r.scenarioStart = time.Time{}
	r.mu.Unlock()

	if runID == "" {
		r.l.Warnw("test case report skipped: no pipeline run id", "scenario", name)
		return nil
	}

	end := r.now()
	duration := 0.0
	startTime := end
	if !started.IsZero() {
		duration = roundSeconds(end.Sub(started))
		startTime = started
	}
	apiStatus := MapStatus(status)

	p := TestCasePayload{
		Name:      name,
		Status:    apiStatus,
		Run:       runID,
		Duration:  duration,
		CreatedAt: formatTime(end),
		StartTime: formatTime(startTime),
	}
	if apiStatus == StatusFailed && errorMessage != "" {
		p.ErrorMessage = Truncate(errorMessage, MaxErrorMessageLength)
	}
	r.l.Infow("reporting test case", "scenario", name, "status", apiStatus, "duration", duration)

	testID := ID(NotAvailable)
	resp, err := r.client.CreateTestCase(ctx, p)
	if err != nil {
		r.l.Errorw("test case creation failed", "scenario", name, "error", err)
		resp = nil
	} else {
		if resp.TestID != "" {
			testID = resp.TestID
		}
		r.l.Infow("test case created", "test_id", testID)
	}

	rec := TestCaseRecord{TestID: testID, Name: name, Status: apiStatus, Duration: duration}
	if err := r.buffer.Append(rec); err != nil {
		r.l.Warnw("could not buffer test case", "scenario", name, "error", err)
	} else {
		r.l.Debugw("buffered test case", "scenario", name)
	}
	return resp
}

// OnSuiteEnd recounts the buffer and sends the final run status.
func (r *Reporter) OnSuiteEnd(ctx context.Context) *RunSummary {
	if !r.enabled() {
		r.l.Info("local run, skipping tracking API calls")
		return nil
	}
	r.mu.Lock()
	runID := r.runID
	start := r.startTime
	r.mu.Unlock()

	if runID == "" {
		r.l.Warn("pipeline run update skipped: no pipeline run id")
		return nil
	}

	records, err := r.buffer.ReadAll()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			r.l.Warnw("test cases buffer not found", "error", err)
		} else {
			r.l.Warnw("could not read test cases buffer", "error", err)
		}
		records = nil
	}
	r.l.Debugw("read buffered test cases", "count", len(records))

	s := Summarize(records)
	s.RunID = runID
	end := r.now()
	if !start.IsZero() && end.After(start) {
		s.Duration = int(end.Sub(start) / time.Second)
	}

	p := PipelineRunUpdatePayload{
		Status:     s.Status,
		EndTime:    formatTime(end),
		Duration:   s.Duration,
		TotalTests: s.Total,
		Passed:     s.Passed,
		Failed:     s.Failed,
		Aborted:    s.Skipped,
	}
	r.l.Infow("updating pipeline run", "endpoint", r.client.Endpoint("api/pipeline-runs/"+runID.String()+"/"))
	r.l.Debugw("pipeline run update payload", "payload", p)

	if err := r.client.UpdatePipelineRun(ctx, runID, p); err != nil {
		r.l.Errorw("pipeline run update failed", "run_id", runID, "error", err)
		return nil
	}
	r.l.Infow("pipeline run updated",
		"status", s.Status,
		"duration_s", s.Duration,
		"total", s.Total,
		"passed", s.Passed,
		"failed", s.Failed,
		"skipped", s.Skipped,
	)
	return &s
}

// roundSeconds converts d to seconds with two decimals, never negative.
func roundSeconds(d time.Duration) float64 {
	if d < 0 {
		return 0
	}
	return math.Round(d.Seconds()*100) / 100
}
