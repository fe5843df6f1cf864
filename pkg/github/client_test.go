package github

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/stargazer/internal/transport"
	"github.com/agentstation/stargazer/pkg/errors"
)

// recorder captures the requests a fake upstream receives.
type recorder struct {
	mu       sync.Mutex
	requests []*http.Request
}

func (r *recorder) add(req *http.Request) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = append(r.requests, req)
}

func (r *recorder) last(t *testing.T) *http.Request {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.requests, "no upstream request was made")
	return r.requests[len(r.requests)-1]
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.requests)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *recorder) {
	t.Helper()
	rec := &recorder{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.add(r.Clone(context.Background()))
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	client := NewClient(Config{
		BaseURL:   server.URL,
		UserAgent: "stargazer-test",
		Transport: transport.Config{Timeout: 2 * time.Second},
	})
	return client, rec
}

func status(code int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_, _ = w.Write([]byte(body))
	}
}

const searchBody = `{
	"total_count": 2,
	"incomplete_results": false,
	"items": [
		{
			"id": 1,
			"name": "widgets",
			"full_name": "acme/widgets",
			"description": "Widgets for everyone",
			"html_url": "https://github.com/acme/widgets",
			"stargazers_count": 42,
			"watchers_count": 42,
			"forks_count": 7,
			"created_at": "2020-01-02T03:04:05Z",
			"updated_at": "2024-06-07T08:09:10Z",
			"language": "Go",
			"owner": {"login": "acme", "avatar_url": "https://avatars.example/acme", "html_url": "https://github.com/acme"}
		},
		{
			"id": 2,
			"name": "gadgets",
			"full_name": "acme/gadgets",
			"description": null,
			"html_url": "https://github.com/acme/gadgets",
			"stargazers_count": 3,
			"watchers_count": 3,
			"forks_count": 0,
			"created_at": "2021-01-02T03:04:05Z",
			"updated_at": "2021-06-07T08:09:10Z",
			"language": null,
			"owner": {"login": "acme", "avatar_url": "", "html_url": "https://github.com/acme"}
		}
	]
}`

func TestSearch(t *testing.T) {
	client, rec := newTestClient(t, status(http.StatusOK, searchBody))

	perPage, page := 10, 2
	result, err := client.Search(context.Background(), SearchParams{
		Q:       "widgets language:go",
		Sort:    "stars",
		Order:   "desc",
		PerPage: &perPage,
		Page:    &page,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.TotalCount)
	assert.False(t, result.IncompleteResults)
	require.Len(t, result.Items, 2)
	assert.Equal(t, "acme/widgets", result.Items[0].FullName)
	assert.Equal(t, "acme/gadgets", result.Items[1].FullName)
	require.NotNil(t, result.Items[0].Language)
	assert.Equal(t, "Go", *result.Items[0].Language)
	assert.Nil(t, result.Items[1].Description)
	assert.Equal(t, 2020, result.Items[0].CreatedAt.Year())

	req := rec.last(t)
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/search/repositories", req.URL.Path)
	q := req.URL.Query()
	assert.Equal(t, "widgets language:go", q.Get("q"))
	assert.Equal(t, "stars", q.Get("sort"))
	assert.Equal(t, "desc", q.Get("order"))
	assert.Equal(t, "10", q.Get("per_page"))
	assert.Equal(t, "2", q.Get("page"))
}

func TestSearchNeverSendsCredential(t *testing.T) {
	client, rec := newTestClient(t, status(http.StatusOK, `{"total_count":0,"incomplete_results":false,"items":[]}`))

	result, err := client.Search(context.Background(), SearchParams{Q: "x"})
	require.NoError(t, err)
	assert.Empty(t, result.Items)

	req := rec.last(t)
	assert.Empty(t, req.Header.Get("Authorization"))
	assert.Equal(t, "application/vnd.github+json", req.Header.Get("Accept"))
	assert.Equal(t, "stargazer-test", req.Header.Get("User-Agent"))
	assert.Equal(t, "2022-11-28", req.Header.Get("X-GitHub-Api-Version"))
}

func TestSearchOmitsUnsetParams(t *testing.T) {
	client, rec := newTestClient(t, status(http.StatusOK, `{"total_count":0,"items":null}`))

	result, err := client.Search(context.Background(), SearchParams{Q: "x"})
	require.NoError(t, err)
	assert.NotNil(t, result.Items)

	q := rec.last(t).URL.Query()
	assert.Equal(t, "x", q.Get("q"))
	for _, key := range []string{"sort", "order", "per_page", "page"} {
		_, present := q[key]
		assert.False(t, present, "%s should not be sent", key)
	}
}

func TestCheckStar(t *testing.T) {
	ref := RepoRef{Owner: "acme", Name: "widgets"}

	t.Run("204 is starred", func(t *testing.T) {
		client, rec := newTestClient(t, status(http.StatusNoContent, ""))

		starred, err := client.CheckStar(context.Background(), ref, "tok")
		require.NoError(t, err)
		assert.True(t, starred)

		req := rec.last(t)
		assert.Equal(t, http.MethodGet, req.Method)
		assert.Equal(t, "/user/starred/acme/widgets", req.URL.Path)
		assert.Equal(t, "Bearer tok", req.Header.Get("Authorization"))
		assert.Equal(t, "application/vnd.github+json", req.Header.Get("Accept"))
	})

	t.Run("404 is not starred", func(t *testing.T) {
		client, _ := newTestClient(t, status(http.StatusNotFound, `{"message":"Not Found"}`))

		starred, err := client.CheckStar(context.Background(), ref, "tok")
		require.NoError(t, err)
		assert.False(t, starred)
	})

	t.Run("401 is unauthorized not not-found", func(t *testing.T) {
		client, _ := newTestClient(t, status(http.StatusUnauthorized, `{"message":"Bad credentials"}`))

		starred, err := client.CheckStar(context.Background(), ref, "bad")
		require.Error(t, err)
		assert.False(t, starred)
		assert.True(t, errors.IsUnauthorized(err))
		assert.False(t, errors.IsNotFound(err))
		assert.Contains(t, err.Error(), "Bad credentials")
	})
}

func TestAddAndRemoveStar(t *testing.T) {
	ref := RepoRef{Owner: "acme", Name: "widgets"}

	client, rec := newTestClient(t, status(http.StatusNoContent, ""))

	require.NoError(t, client.AddStar(context.Background(), ref, "tok"))
	req := rec.last(t)
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/user/starred/acme/widgets", req.URL.Path)
	assert.Equal(t, "Bearer tok", req.Header.Get("Authorization"))

	require.NoError(t, client.RemoveStar(context.Background(), ref, "tok"))
	req = rec.last(t)
	assert.Equal(t, http.MethodDelete, req.Method)
	assert.Equal(t, "/user/starred/acme/widgets", req.URL.Path)

	assert.Equal(t, 2, rec.count())
}

func TestGatewayClassification(t *testing.T) {
	ref := RepoRef{Owner: "acme", Name: "widgets"}

	tests := []struct {
		name    string
		status  int
		header  map[string]string
		search  errors.Kind
		check   errors.Kind
		mutate  errors.Kind
		checkOK bool
	}{
		{name: "401", status: 401, search: errors.KindUnauthorized, check: errors.KindUnauthorized, mutate: errors.KindUnauthorized},
		{name: "403 quota", status: 403, header: map[string]string{"X-RateLimit-Remaining": "0"}, search: errors.KindRateLimited, check: errors.KindRateLimited, mutate: errors.KindRateLimited},
		{name: "403 forbidden", status: 403, header: map[string]string{"X-RateLimit-Remaining": "12"}, search: errors.KindRateLimited, check: errors.KindUnauthorized, mutate: errors.KindUnauthorized},
		{name: "404", status: 404, search: errors.KindNotFound, mutate: errors.KindNotFound, checkOK: true},
		{name: "422", status: 422, search: errors.KindInvalidInput, check: errors.KindUpstreamUnavailable, mutate: errors.KindInvalidInput},
		{name: "429", status: 429, search: errors.KindRateLimited, check: errors.KindRateLimited, mutate: errors.KindRateLimited},
		{name: "500", status: 500, search: errors.KindUpstreamUnavailable, check: errors.KindUpstreamUnavailable, mutate: errors.KindUpstreamUnavailable},
		{name: "503", status: 503, search: errors.KindUpstreamUnavailable, check: errors.KindUpstreamUnavailable, mutate: errors.KindUpstreamUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				for k, v := range tt.header {
					w.Header().Set(k, v)
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"message":"upstream says no"}`))
			})

			_, err := client.Search(context.Background(), SearchParams{Q: "x"})
			assert.Equal(t, tt.search, errors.KindOf(err), "search")

			starred, err := client.CheckStar(context.Background(), ref, "tok")
			if tt.checkOK {
				assert.NoError(t, err)
				assert.False(t, starred)
			} else {
				assert.Equal(t, tt.check, errors.KindOf(err), "check")
			}

			assert.Equal(t, tt.mutate, errors.KindOf(client.AddStar(context.Background(), ref, "tok")), "add")
			assert.Equal(t, tt.mutate, errors.KindOf(client.RemoveStar(context.Background(), ref, "tok")), "remove")
		})
	}
}

func TestGatewayNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewClient(Config{BaseURL: url})
	ref := RepoRef{Owner: "acme", Name: "widgets"}

	_, err := client.Search(context.Background(), SearchParams{Q: "x"})
	assert.True(t, errors.IsUpstreamUnavailable(err))

	_, err = client.CheckStar(context.Background(), ref, "tok")
	assert.True(t, errors.IsUpstreamUnavailable(err))

	assert.True(t, errors.IsUpstreamUnavailable(client.AddStar(context.Background(), ref, "tok")))
}

func TestSearchMalformedBody(t *testing.T) {
	client, _ := newTestClient(t, status(http.StatusOK, `{"items": [`))

	_, err := client.Search(context.Background(), SearchParams{Q: "x"})
	require.Error(t, err)
	assert.Equal(t, errors.KindUpstreamUnavailable, errors.KindOf(err))
}
