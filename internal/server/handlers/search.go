package handlers

import (
	"net/http"

	"github.com/agentstation/stargazer/internal/server/response"
	"github.com/agentstation/stargazer/pkg/logging"
	"github.com/agentstation/stargazer/pkg/search"
)

// HandleSearch handles GET /github/repositories.
// @Summary Search repositories
// @Description Search public repositories. No credential is forwarded upstream.
// @Tags github
// @Produce json
// @Param q query string false "Search query"
// @Param sort query string false "Sort field (stars, forks, updated)"
// @Param order query string false "Sort order (asc, desc)"
// @Param per_page query integer false "Results per page (1-100)"
// @Param page query integer false "Page number (1-based)"
// @Success 200 {object} response.Response{data=github.SearchResult}
// @Failure 422 {object} response.Response{error=response.Error}
// @Failure 429 {object} response.Response{error=response.Error}
// @Failure 502 {object} response.Response{error=response.Error}
// @Router /github/repositories [get].
func (h *Handlers) HandleSearch(w http.ResponseWriter, r *http.Request) {
	params, err := search.ParseParams(r.URL.Query())
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	svc, err := h.app.Search()
	if err != nil {
		response.InternalError(w, err)
		return
	}

	result, err := svc.Search(r.Context(), params)
	if err != nil {
		logging.FromContext(r.Context()).Debug().Err(err).Msg("Search failed")
		response.ErrorFromType(w, err)
		return
	}

	response.OK(w, result)
}
