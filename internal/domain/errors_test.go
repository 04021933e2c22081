package domain

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"arg error with server", &ArgError{Server: "tb", Message: "unexpected argument"}, "tb: unexpected argument"},
		{"arg error from cause", &ArgError{Server: "tb", Err: cause}, "tb: boom"},
		{"config error", &ConfigError{Path: "/etc/pc.toml", Err: cause}, "invalid config /etc/pc.toml: boom"},
		{"config error without path", &ConfigError{Err: cause}, "invalid config: boom"},
		{"paired", &PairedFieldError{Backend: "ix", First: "username", Second: "apikey"}, "ix: either both username and apikey must be provided, or neither"},
		{"upload", &UploadError{Backend: "haste", Message: "unexpected api response", Body: "<html>"}, "haste: unexpected api response\napi response body: <html>"},
		{"upload with cause", &UploadError{Backend: "fiche", Message: "connect failed", Err: cause}, "fiche: connect failed: boom"},
		{"unknown backend", &UnknownBackendError{Attempted: "pastebin"}, "pastebin is not a valid backend"},
		{"selection", &SelectionError{Server: "x", Message: "No corresponding server config for x"}, "No corresponding server config for x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.EqualError(t, tt.err, tt.want)
		})
	}
}

func TestErrors_Unwrap(t *testing.T) {
	wrapped := fmt.Errorf("paste: %w", &HistoryWriteError{Path: "/h", Err: os.ErrPermission})

	var histErr *HistoryWriteError
	assert.True(t, errors.As(wrapped, &histErr))
	assert.ErrorIs(t, wrapped, os.ErrPermission)

	assert.ErrorIs(t, &ConfigError{Err: os.ErrNotExist}, os.ErrNotExist)
	assert.ErrorIs(t, &UploadError{Err: os.ErrDeadlineExceeded}, os.ErrDeadlineExceeded)
}
