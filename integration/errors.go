package integration

import "github.com/cockroachdb/errors"

var (
	// ErrUnexpectedStatus is returned when the tracking API answers outside 2xx.
	ErrUnexpectedStatus = errors.New("unexpected response status")
	// ErrNoRunID is returned when a created pipeline run carries no identifier.
	ErrNoRunID = errors.New("pipeline run identifier missing in response")
)
