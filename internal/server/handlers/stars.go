package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/agentstation/stargazer/cmd/application"
	"github.com/agentstation/stargazer/internal/server/middleware"
	"github.com/agentstation/stargazer/internal/server/response"
	"github.com/agentstation/stargazer/pkg/github"
	"github.com/agentstation/stargazer/pkg/logging"
)

// StarStatus is the body returned by every star endpoint.
type StarStatus struct {
	Starred bool `json:"starred"`
}

// HandleStarStatus handles GET /github/starred/{owner}/{repo}.
// @Summary Star status
// @Description Report whether the caller has starred a repository
// @Tags github
// @Produce json
// @Param owner path string true "Repository owner"
// @Param repo path string true "Repository name"
// @Success 200 {object} response.Response{data=StarStatus}
// @Failure 401 {object} response.Response{error=response.Error}
// @Failure 422 {object} response.Response{error=response.Error}
// @Failure 502 {object} response.Response{error=response.Error}
// @Security BearerAuth
// @Router /github/starred/{owner}/{repo} [get].
func (h *Handlers) HandleStarStatus(w http.ResponseWriter, r *http.Request) {
	svc, ref, ok := h.starRequest(w, r)
	if !ok {
		return
	}

	starred, err := svc.IsStarred(r.Context(), ref, middleware.Credential(r.Context()))
	if err != nil {
		h.starFailed(w, r, err)
		return
	}

	response.OK(w, StarStatus{Starred: starred})
}

// HandleStar handles PUT /github/starred/{owner}/{repo}.
// @Summary Star repository
// @Description Star a repository the caller has not starred yet
// @Tags github
// @Produce json
// @Param owner path string true "Repository owner"
// @Param repo path string true "Repository name"
// @Success 200 {object} response.Response{data=StarStatus}
// @Failure 401 {object} response.Response{error=response.Error}
// @Failure 409 {object} response.Response{error=response.Error}
// @Failure 502 {object} response.Response{error=response.Error}
// @Security BearerAuth
// @Router /github/starred/{owner}/{repo} [put].
func (h *Handlers) HandleStar(w http.ResponseWriter, r *http.Request) {
	svc, ref, ok := h.starRequest(w, r)
	if !ok {
		return
	}

	if err := svc.Star(r.Context(), ref, middleware.Credential(r.Context())); err != nil {
		h.starFailed(w, r, err)
		return
	}

	response.OK(w, StarStatus{Starred: true})
}

// HandleUnstar handles DELETE /github/starred/{owner}/{repo}.
// @Summary Unstar repository
// @Description Remove the caller's star from a repository
// @Tags github
// @Produce json
// @Param owner path string true "Repository owner"
// @Param repo path string true "Repository name"
// @Success 200 {object} response.Response{data=StarStatus}
// @Failure 401 {object} response.Response{error=response.Error}
// @Failure 409 {object} response.Response{error=response.Error}
// @Failure 502 {object} response.Response{error=response.Error}
// @Security BearerAuth
// @Router /github/starred/{owner}/{repo} [delete].
func (h *Handlers) HandleUnstar(w http.ResponseWriter, r *http.Request) {
	svc, ref, ok := h.starRequest(w, r)
	if !ok {
		return
	}

	if err := svc.Unstar(r.Context(), ref, middleware.Credential(r.Context())); err != nil {
		h.starFailed(w, r, err)
		return
	}

	response.OK(w, StarStatus{Starred: false})
}

// starRequest resolves the star service and the repository named in the path.
func (h *Handlers) starRequest(w http.ResponseWriter, r *http.Request) (application.StarService, github.RepoRef, bool) {
	vars := mux.Vars(r)
	ref, err := github.NewRepoRef(vars["owner"], vars["repo"])
	if err != nil {
		response.ErrorFromType(w, err)
		return nil, ref, false
	}

	svc, err := h.app.Stars()
	if err != nil {
		h.logger.Error().Err(err).Msg("Star service unavailable")
		response.InternalError(w, err)
		return nil, ref, false
	}
	return svc, ref, true
}

func (h *Handlers) starFailed(w http.ResponseWriter, r *http.Request, err error) {
	logging.FromContext(r.Context()).Debug().Err(err).Msg("Star operation failed")
	response.ErrorFromType(w, err)
}
