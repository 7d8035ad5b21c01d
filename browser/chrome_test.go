package browser

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/f4hrenh9it/sauce-e2e/integration"
)

func TestParseProduct(t *testing.T) {
	tests := []struct {
		product string
		want    integration.BrowserInfo
	}{
		{"HeadlessChrome/126.0.6478.126", integration.BrowserInfo{Name: "chrome", Version: "126.0.6478.126", Platform: runtime.GOOS}},
		{"Chrome/120.0", integration.BrowserInfo{Name: "chrome", Version: "120.0", Platform: runtime.GOOS}},
		{"", integration.BrowserInfo{Name: "chrome", Version: "latest", Platform: runtime.GOOS}},
		{"Edg", integration.BrowserInfo{Name: "edg", Version: "latest", Platform: runtime.GOOS}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseProduct(tt.product), tt.product)
	}
}

func TestAllocatorOptions(t *testing.T) {
	base := len(allocatorOptions(Options{}))
	withPath := len(allocatorOptions(Options{ExecPath: "/usr/bin/chromium"}))
	assert.Equal(t, base+1, withPath)
}
