// Package domain contains the types shared by the backends, the config layer
// and the dispatcher: the three-state override and the error taxonomy.
package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrHelpDisplayed is returned once backend help has been printed. It is not
// a failure; the CLI exits with status 0.
var ErrHelpDisplayed = errors.New("help displayed")

// ArgError reports a malformed or unknown backend override flag.
type ArgError struct {
	Server  string
	Message string
	Err     error
}

func (e *ArgError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Server == "" {
		return msg
	}
	return fmt.Sprintf("%s: %s", e.Server, msg)
}

func (e *ArgError) Unwrap() error {
	return e.Err
}

// HelpRequest is returned by Configure when the user asked for backend help
// instead of supplying overrides.
type HelpRequest struct {
	Usage string
}

func (e *HelpRequest) Error() string {
	return "help requested"
}

// ConfigError reports a missing or invalid config file or a schema violation.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid config: %v", e.Err)
	}
	return fmt.Sprintf("invalid config %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// SelectionError reports that no server could be selected. Message carries
// the remediation text shown to the user.
type SelectionError struct {
	Server  string
	Message string
}

func (e *SelectionError) Error() string {
	return e.Message
}

// PairedFieldError reports that only one of two companion fields is set.
type PairedFieldError struct {
	Backend string
	First   string
	Second  string
}

func (e *PairedFieldError) Error() string {
	return fmt.Sprintf("%s: either both %s and %s must be provided, or neither", e.Backend, e.First, e.Second)
}

// UploadError reports a failure talking to a backend. Body holds the raw
// response body when there was one.
type UploadError struct {
	Backend string
	Message string
	Body    string
	Err     error
}

func (e *UploadError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Backend, e.Message)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if e.Body != "" {
		fmt.Fprintf(&b, "\napi response body: %s", e.Body)
	}
	return b.String()
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// HistoryWriteError reports that the paste succeeded but the URL could not
// be appended to the history file.
type HistoryWriteError struct {
	Path string
	Err  error
}

func (e *HistoryWriteError) Error() string {
	return fmt.Sprintf("failed to write history file %s: %v", e.Path, e.Err)
}

func (e *HistoryWriteError) Unwrap() error {
	return e.Err
}

// UnknownBackendError reports a backend kind missing from the registry.
type UnknownBackendError struct {
	Attempted string
}

func (e *UnknownBackendError) Error() string {
	return fmt.Sprintf("%s is not a valid backend", e.Attempted)
}
