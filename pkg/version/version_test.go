package version

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	info := Get()
	assert.Equal(t, "pc", info.Name)
	assert.Equal(t, Version, info.Version)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
}

func TestInfo_Strings(t *testing.T) {
	info := Info{
		Name:      "pc",
		Version:   "1.2.0",
		Commit:    "abc123",
		Date:      "2024-01-02",
		GoVersion: "go1.24.0",
		Platform:  "linux/amd64",
	}

	assert.Equal(t, "pc 1.2.0 (commit: abc123, built: 2024-01-02, go1.24.0, linux/amd64)", info.String())
	assert.Equal(t, "1.2.0", info.Short())
	assert.Equal(t, "pc/1.2.0", info.UserAgent())
}
