//go:build e2e
// +build e2e

package steps

import (
	"testing"

	"github.com/cucumber/godog"
	"github.com/stretchr/testify/require"

	"github.com/f4hrenh9it/sauce-e2e/config"
	"github.com/f4hrenh9it/sauce-e2e/integration"
)

// TestFeatures runs the feature files against a real Chrome:
//
//	go test -tags e2e ./steps/
func TestFeatures(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)
	l := integration.NewLogger(cfg.LogLevel)
	reporter, err := integration.NewReporter(cfg, l)
	require.NoError(t, err)

	s := NewSuite(cfg, reporter, ChromeLauncher(cfg, l), l)
	status := s.Run(&godog.Options{
		Format:   "pretty",
		Paths:    []string{"../features"},
		TestingT: t,
	})
	if status != 0 {
		t.Fatalf("feature suite failed with status %d", status)
	}
}
