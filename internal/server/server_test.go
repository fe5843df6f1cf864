package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/stargazer/cmd/application"
	"github.com/agentstation/stargazer/pkg/errors"
	"github.com/agentstation/stargazer/pkg/github"
	"github.com/agentstation/stargazer/pkg/starcache"
)

type fakeStars struct {
	mu      sync.Mutex
	starred bool
	err     error
	tokens  []string
	refs    []github.RepoRef
}

func (f *fakeStars) record(ref github.RepoRef, token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = append(f.tokens, token)
	f.refs = append(f.refs, ref)
}

func (f *fakeStars) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tokens)
}

func (f *fakeStars) IsStarred(_ context.Context, ref github.RepoRef, token string) (bool, error) {
	f.record(ref, token)
	return f.starred, f.err
}

func (f *fakeStars) Star(_ context.Context, ref github.RepoRef, token string) error {
	f.record(ref, token)
	return f.err
}

func (f *fakeStars) Unstar(_ context.Context, ref github.RepoRef, token string) error {
	f.record(ref, token)
	return f.err
}

type fakeSearch struct {
	result *github.SearchResult
	err    error
	params []github.SearchParams
}

func (f *fakeSearch) Search(_ context.Context, params github.SearchParams) (*github.SearchResult, error) {
	f.params = append(f.params, params)
	return f.result, f.err
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details string `json:"details"`
	} `json:"error"`
}

func newTestServer(t *testing.T, cfg Config, stars *fakeStars, srch *fakeSearch) http.Handler {
	t.Helper()
	app := &application.Mock{
		StarsFunc:  func() (application.StarService, error) { return stars, nil },
		SearchFunc: func() (application.SearchService, error) { return srch, nil },
		CacheStatsFunc: func() starcache.Stats {
			return starcache.Stats{Entries: 2, Capacity: 100, Hits: 5, Misses: 3}
		},
		VersionValue: "v1.2.3",
	}
	srv, err := New(app, cfg)
	require.NoError(t, err)
	return srv.Handler()
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.RateLimit = 0
	return cfg
}

func do(t *testing.T, h http.Handler, method, target, token string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func TestNew(t *testing.T) {
	t.Run("requires application", func(t *testing.T) {
		_, err := New(nil, DefaultConfig())
		assert.Error(t, err)
	})

	t.Run("rejects negative rate limit", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.RateLimit = -1
		_, err := New(&application.Mock{}, cfg)
		assert.Error(t, err)
	})

	t.Run("normalizes prefix", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.PathPrefix = "api/v1/"
		srv, err := New(&application.Mock{}, cfg)
		require.NoError(t, err)
		assert.Equal(t, "/api/v1", srv.config.PathPrefix)
		assert.Equal(t, "localhost:3010", srv.Addr())
	})
}

func TestHealth(t *testing.T) {
	h := newTestServer(t, testConfig(), &fakeStars{}, &fakeSearch{})

	w, env := do(t, h, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, env.Error)
	assert.Contains(t, string(env.Data), `"version":"v1.2.3"`)

	w, env = do(t, h, http.MethodGet, "/ready", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"hits":5`)
	assert.Contains(t, string(env.Data), `"capacity":100`)
}

func TestSearch(t *testing.T) {
	srch := &fakeSearch{result: &github.SearchResult{
		TotalCount: 1,
		Items:      []github.Repository{{ID: 42, Name: "widgets", FullName: "acme/widgets"}},
	}}
	h := newTestServer(t, testConfig(), &fakeStars{}, srch)

	w, env := do(t, h, http.MethodGet, "/github/repositories?q=widgets&sort=stars&per_page=10", "secret")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"full_name":"acme/widgets"`)

	require.Len(t, srch.params, 1)
	got := srch.params[0]
	assert.Equal(t, "widgets", got.Q)
	assert.Equal(t, "stars", got.Sort)
	require.NotNil(t, got.PerPage)
	assert.Equal(t, 10, *got.PerPage)
	assert.Nil(t, got.Page)
}

func TestSearchInvalidNumber(t *testing.T) {
	srch := &fakeSearch{}
	h := newTestServer(t, testConfig(), &fakeStars{}, srch)

	w, env := do(t, h, http.MethodGet, "/github/repositories?q=x&per_page=lots", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INVALID_INPUT", env.Error.Code)
	assert.Empty(t, srch.params)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"invalid input", errors.NewValidationError("per_page", 0, "out of range"), http.StatusUnprocessableEntity, "INVALID_INPUT"},
		{"unauthorized", errors.NewAPIError("search", 401, errors.KindUnauthorized, "Bad credentials"), http.StatusUnauthorized, "UNAUTHORIZED"},
		{"not found", errors.NewAPIError("search", 404, errors.KindNotFound, "Not Found"), http.StatusNotFound, "NOT_FOUND"},
		{"rate limited", errors.NewAPIError("search", 403, errors.KindRateLimited, "rate limit"), http.StatusTooManyRequests, "RATE_LIMITED"},
		{"upstream", errors.NewAPIError("search", 500, errors.KindUpstreamUnavailable, "boom"), http.StatusBadGateway, "UPSTREAM_UNAVAILABLE"},
		{"internal", errors.New("surprise"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestServer(t, testConfig(), &fakeStars{}, &fakeSearch{err: tt.err})

			w, env := do(t, h, http.MethodGet, "/github/repositories?q=x", "")
			assert.Equal(t, tt.status, w.Code)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.code, env.Error.Code)
			if tt.code == "INTERNAL_ERROR" {
				assert.NotContains(t, env.Error.Message, "surprise")
			}
		})
	}
}

func TestStarRoutes(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		stars := &fakeStars{starred: true}
		h := newTestServer(t, testConfig(), stars, &fakeSearch{})

		w, env := do(t, h, http.MethodGet, "/github/starred/acme/widgets", "ghp_token")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"starred":true}`, string(env.Data))
		require.Equal(t, 1, stars.calls())
		assert.Equal(t, "ghp_token", stars.tokens[0])
		assert.Equal(t, github.RepoRef{Owner: "acme", Name: "widgets"}, stars.refs[0])
	})

	t.Run("star", func(t *testing.T) {
		h := newTestServer(t, testConfig(), &fakeStars{}, &fakeSearch{})

		w, env := do(t, h, http.MethodPut, "/github/starred/acme/widgets", "ghp_token")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"starred":true}`, string(env.Data))
	})

	t.Run("unstar", func(t *testing.T) {
		h := newTestServer(t, testConfig(), &fakeStars{}, &fakeSearch{})

		w, env := do(t, h, http.MethodDelete, "/github/starred/acme/widgets", "ghp_token")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"starred":false}`, string(env.Data))
	})

	t.Run("precondition failed", func(t *testing.T) {
		stars := &fakeStars{err: errors.NewPreconditionError("acme", "widgets", true)}
		h := newTestServer(t, testConfig(), stars, &fakeSearch{})

		w, env := do(t, h, http.MethodPut, "/github/starred/acme/widgets", "ghp_token")
		assert.Equal(t, http.StatusConflict, w.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "PRECONDITION_FAILED", env.Error.Code)
	})

	t.Run("missing credential", func(t *testing.T) {
		stars := &fakeStars{}
		h := newTestServer(t, testConfig(), stars, &fakeSearch{})

		for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
			w, env := do(t, h, method, "/github/starred/acme/widgets", "")
			assert.Equal(t, http.StatusUnauthorized, w.Code, method)
			require.NotNil(t, env.Error)
			assert.Equal(t, "UNAUTHORIZED", env.Error.Code)
		}
		assert.Zero(t, stars.calls())
	})

	t.Run("invalid repository", func(t *testing.T) {
		stars := &fakeStars{}
		h := newTestServer(t, testConfig(), stars, &fakeSearch{})

		w, env := do(t, h, http.MethodGet, "/github/starred/bad%20owner/widgets", "ghp_token")
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "INVALID_INPUT", env.Error.Code)
		assert.Zero(t, stars.calls())
	})
}

func TestRouting(t *testing.T) {
	h := newTestServer(t, testConfig(), &fakeStars{}, &fakeSearch{})

	w, env := do(t, h, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)

	w, env = do(t, h, http.MethodPost, "/github/starred/acme/widgets", "ghp_token")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "METHOD_NOT_ALLOWED", env.Error.Code)
}

func TestPathPrefix(t *testing.T) {
	cfg := testConfig()
	cfg.PathPrefix = "/api/v1"
	h := newTestServer(t, cfg, &fakeStars{starred: true}, &fakeSearch{result: &github.SearchResult{}})

	w, _ := do(t, h, http.MethodGet, "/api/v1/github/starred/acme/widgets", "ghp_token")
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = do(t, h, http.MethodGet, "/api/v1/health", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = do(t, h, http.MethodGet, "/github/repositories", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMiddlewareStack(t *testing.T) {
	t.Run("request id", func(t *testing.T) {
		h := newTestServer(t, testConfig(), &fakeStars{}, &fakeSearch{})
		w, _ := do(t, h, http.MethodGet, "/health", "")
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	})

	t.Run("cors preflight", func(t *testing.T) {
		h := newTestServer(t, testConfig(), &fakeStars{}, &fakeSearch{})

		req := httptest.NewRequest(http.MethodOptions, "/github/starred/acme/widgets", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", http.MethodPut)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("rate limit", func(t *testing.T) {
		cfg := testConfig()
		cfg.RateLimit = 1
		h := newTestServer(t, cfg, &fakeStars{}, &fakeSearch{})

		w, _ := do(t, h, http.MethodGet, "/health", "")
		assert.Equal(t, http.StatusOK, w.Code)

		w, env := do(t, h, http.MethodGet, "/health", "")
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "RATE_LIMITED", env.Error.Code)
	})

	t.Run("metrics", func(t *testing.T) {
		h := newTestServer(t, testConfig(), &fakeStars{starred: true}, &fakeSearch{})
		do(t, h, http.MethodGet, "/github/starred/acme/widgets", "ghp_token")

		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `stargazer_http_requests_total{method="GET",route="/github/starred/{owner}/{repo}",status="200"} 1`)
	})
}
