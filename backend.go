package tsplot

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"sync"
)

// BackendConfig carries what a backend factory may need.
type BackendConfig struct {
	// Out is the terminal figures are shown on. Nil means os.Stdout.
	Out io.Writer

	// Display selects the inline image protocol of image backends
	// ("iterm" or "kitty").
	Display string

	// DPI is the resolution of raster images.
	DPI int

	// TermWidth and TermHeight size character based charts.
	TermWidth, TermHeight int

	Logger *slog.Logger
}

// Output returns c.Out or os.Stdout.
func (c BackendConfig) Output() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

// BackendFactory constructs a backend from cfg.
type BackendFactory func(cfg BackendConfig) (Backend, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]BackendFactory)
)

func init() {
	RegisterBackend("record", func(cfg BackendConfig) (Backend, error) {
		return &Recorder{Out: cfg.Output()}, nil
	})
}

// RegisterBackend adds a backend factory to the registry.
// Called by backend implementations in their init() functions.
func RegisterBackend(name string, factory BackendFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// NewBackend creates the backend registered as name.
func NewBackend(name string, cfg BackendConfig) (Backend, error) {
	if name == "" {
		return nil, fmt.Errorf("backend not specified")
	}
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, &UnknownBackendError{Name: name, Available: Backends()}
	}
	return factory(cfg)
}

// Backends returns all registered backend names (sorted).
func Backends() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UnknownBackendError is returned when an unknown backend is requested.
type UnknownBackendError struct {
	Name      string
	Available []string
}

func (e *UnknownBackendError) Error() string {
	return fmt.Sprintf("unknown backend %q (available: %v)", e.Name, e.Available)
}
