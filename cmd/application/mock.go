package application

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/stargazer/internal/metrics"
	"github.com/agentstation/stargazer/pkg/starcache"
)

// Mock is a configurable Application for tests. Unset funcs fall back to
// zero values, a no-op logger and a fresh metrics registry.
type Mock struct {
	StarsFunc      func() (StarService, error)
	SearchFunc     func() (SearchService, error)
	CacheStatsFunc func() starcache.Stats
	MetricsValue   *metrics.Metrics
	TokenValue     string
	LoggerValue    *zerolog.Logger
	Format         string
	VersionValue   string

	mu sync.Mutex
}

var _ Application = (*Mock)(nil)

// Stars implements Application.
func (m *Mock) Stars() (StarService, error) {
	if m.StarsFunc == nil {
		return nil, nil
	}
	return m.StarsFunc()
}

// Search implements Application.
func (m *Mock) Search() (SearchService, error) {
	if m.SearchFunc == nil {
		return nil, nil
	}
	return m.SearchFunc()
}

// CacheStats implements Application.
func (m *Mock) CacheStats() starcache.Stats {
	if m.CacheStatsFunc == nil {
		return starcache.Stats{}
	}
	return m.CacheStatsFunc()
}

// Metrics implements Application.
func (m *Mock) Metrics() *metrics.Metrics {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.MetricsValue == nil {
		m.MetricsValue = metrics.New()
	}
	return m.MetricsValue
}

// Token implements Application.
func (m *Mock) Token() string { return m.TokenValue }

// Logger implements Application.
func (m *Mock) Logger() *zerolog.Logger {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoggerValue == nil {
		nop := zerolog.Nop()
		m.LoggerValue = &nop
	}
	return m.LoggerValue
}

// OutputFormat implements Application.
func (m *Mock) OutputFormat() string { return m.Format }

// Version implements Application.
func (m *Mock) Version() string { return m.VersionValue }

// Commit implements Application.
func (m *Mock) Commit() string { return "" }

// Date implements Application.
func (m *Mock) Date() string { return "" }

// BuiltBy implements Application.
func (m *Mock) BuiltBy() string { return "" }
