package integration

import (
	"runtime"

	"github.com/f4hrenh9it/sauce-e2e/config"
)

// BrowserInfo describes the browser a run executes in.
type BrowserInfo struct {
	Name     string
	Version  string
	Platform string
}

// BrowserInfoSource reports live capabilities once a browser is attached.
// ok is false while no browser is available yet.
type BrowserInfoSource interface {
	BrowserInfo() (info BrowserInfo, ok bool)
}

// browserInfo prefers the live driver and falls back to configuration,
// since the driver attaches only after the run has been created.
func browserInfo(src BrowserInfoSource, cfg *config.Config) BrowserInfo {
	if src != nil {
		if info, ok := src.BrowserInfo(); ok {
			if info.Name == "" {
				info.Name = config.DefaultBrowser
			}
			if info.Version == "" {
				info.Version = "latest"
			}
			if info.Platform == "" {
				info.Platform = runtime.GOOS
			}
			return info
		}
	}
	name := cfg.Browser
	if name == "" {
		name = config.DefaultBrowser
	}
	return BrowserInfo{Name: name, Version: "latest", Platform: runtime.GOOS}
}
