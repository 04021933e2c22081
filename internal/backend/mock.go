package backend

import (
	"context"
	"net/url"
	"sync"

	"github.com/sharkusmanch/pc/internal/http"
)

// MockBackend is a mock implementation of Backend for testing.
type MockBackend struct {
	KindName      string
	ConfigureFunc func(args []string) (Backend, error)
	UploadFunc    func(ctx context.Context, client *http.Client, payload []byte) (*url.URL, error)

	mu        sync.Mutex
	configure [][]string
	uploads   [][]byte
}

// Kind returns KindName, or "mock".
func (m *MockBackend) Kind() string {
	if m.KindName == "" {
		return "mock"
	}
	return m.KindName
}

// Configure records args and calls ConfigureFunc. Without one it returns the
// mock itself.
func (m *MockBackend) Configure(args []string) (Backend, error) {
	m.mu.Lock()
	m.configure = append(m.configure, append([]string(nil), args...))
	m.mu.Unlock()

	if m.ConfigureFunc != nil {
		return m.ConfigureFunc(args)
	}
	return m, nil
}

// Upload records payload and calls UploadFunc.
func (m *MockBackend) Upload(ctx context.Context, client *http.Client, payload []byte) (*url.URL, error) {
	m.mu.Lock()
	m.uploads = append(m.uploads, append([]byte(nil), payload...))
	m.mu.Unlock()

	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, client, payload)
	}
	return url.Parse("https://paste.example/mock")
}

func (m *MockBackend) Describe() string { return "mock backend" }
func (m *MockBackend) String() string   { return m.Kind() + " | mock" }

// ConfigureCalls returns the args of every Configure call.
func (m *MockBackend) ConfigureCalls() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]string(nil), m.configure...)
}

// Uploads returns every payload passed to Upload.
func (m *MockBackend) Uploads() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]byte(nil), m.uploads...)
}

// Ensure MockBackend implements Backend.
var _ Backend = (*MockBackend)(nil)
