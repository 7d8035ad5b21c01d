// Package pages holds page objects for the saucedemo.com shop.
package pages

import "time"

// Driver is the browser capability page objects rely on.
type Driver interface {
	Open(path string) error
	WaitVisible(sel string, timeout time.Duration) error
	Click(sel string) error
	SetValue(sel, value string) error
	Text(sel string) (string, error)
	IsDisplayed(sel string) bool
	CurrentURL() (string, error)
	SelectByText(sel, text string) error
	Count(sel string) (int, error)
}

// pageLoadWait bounds the presence checks used to detect the current page.
const pageLoadWait = 5 * time.Second
